package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/logfilter"
	"github.com/abdul-hamid-achik/bookspec/packages/mock"
	"github.com/abdul-hamid-achik/bookspec/packages/models"
	"github.com/abdul-hamid-achik/bookspec/packages/report"
	"github.com/abdul-hamid-achik/bookspec/packages/scenarios"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockConfig(t *testing.T, opts ...mock.Option) *Config {
	t.Helper()
	server := httptest.NewServer(mock.NewServer(opts...).Handler())
	t.Cleanup(server.Close)

	return &Config{
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Credentials: scenarios.DefaultCredentials(),
	}
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.api)
		assert.Nil(t, r.logs)
		assert.Equal(t, "https://demoqa.com", r.API().BaseURL())
	})

	t.Run("with log writer", func(t *testing.T) {
		r := NewRunner(&Config{LogWriter: &bytes.Buffer{}})
		require.NotNil(t, r.logs)
		assert.Equal(t, logfilter.Custom, r.logs.Template())
	})

	t.Run("with explicit template", func(t *testing.T) {
		r := NewRunner(&Config{LogWriter: &bytes.Buffer{}, LogTemplate: logfilter.All})
		assert.Equal(t, logfilter.All, r.logs.Template())
	})
}

func TestRunner_RunAll(t *testing.T) {
	r := NewRunner(newMockConfig(t))

	result, err := r.RunAll(context.Background(), scenarios.All())
	require.NoError(t, err)

	assert.Equal(t, 10, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Errored)
	assert.False(t, result.HasFailures())
	assert.False(t, result.HasErrors())
	require.Len(t, result.Results, 10)
	for _, sr := range result.Results {
		assert.True(t, sr.Passed, sr.Name)
		assert.Equal(t, 1, sr.Iterations)
		assert.Nil(t, sr.Latency)
		assert.Equal(t, report.StatusPassed, sr.Status())
	}
}

func TestRunner_FailingAssertion(t *testing.T) {
	r := NewRunner(newMockConfig(t, mock.WithBooks([]models.Book{})))

	list, err := scenarios.Select("no-logs", "with-model")
	require.NoError(t, err)

	result, err := r.RunAll(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.False(t, result.Results[0].Passed)
	assert.Equal(t, report.StatusFailed, result.Results[0].Status())
	require.Len(t, result.Results[0].Assertions, 1)
	assert.Contains(t, result.Results[0].Assertions[0].Message, "expected length > 0")
}

func TestRunner_NetworkError(t *testing.T) {
	server := httptest.NewServer(mock.NewServer().Handler())
	url := server.URL
	server.Close()

	r := NewRunner(&Config{BaseURL: url, Timeout: time.Second})
	list, _ := scenarios.Select("no-logs", "with-model")

	result, err := r.RunAll(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Errored)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, result.HasErrors())
	assert.False(t, result.HasFailures())
	for _, sr := range result.Results {
		assert.Error(t, sr.Error)
		assert.Equal(t, report.StatusBroken, sr.Status())
	}
}

func TestRunner_NameFilter(t *testing.T) {
	cfg := newMockConfig(t)
	cfg.NameFilter = "books-*"
	r := NewRunner(cfg)

	result, err := r.RunAll(context.Background(), scenarios.All())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 8, result.Skipped)
	for _, sr := range result.Results {
		if sr.Skipped {
			assert.Equal(t, "filtered out", sr.SkipReason)
			assert.False(t, strings.HasPrefix(sr.Name, "books-"))
		}
	}
}

func TestRunner_TagsFilter(t *testing.T) {
	cfg := newMockConfig(t)
	cfg.TagsFilter = []string{"schema", "model"}
	r := NewRunner(cfg)

	result, err := r.RunAll(context.Background(), scenarios.All())
	require.NoError(t, err)

	var ran []string
	for _, sr := range result.Results {
		if !sr.Skipped {
			ran = append(ran, sr.Name)
		}
	}
	assert.Equal(t, []string{"with-model", "books-model", "books-json-schema"}, ran)
}

func TestRunner_Bail(t *testing.T) {
	cfg := newMockConfig(t, mock.WithBooks([]models.Book{}))
	cfg.Bail = true
	r := NewRunner(cfg)

	result, err := r.RunAll(context.Background(), scenarios.All())
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "no-logs", result.Results[0].Name)
	assert.Equal(t, 1, result.Failed)
}

func TestRunner_Repeat(t *testing.T) {
	cfg := newMockConfig(t)
	cfg.Repeat = 3
	r := NewRunner(cfg)

	list, _ := scenarios.Select("books-model")
	result, err := r.RunAll(context.Background(), list)
	require.NoError(t, err)

	sr := result.Results[0]
	assert.True(t, sr.Passed)
	assert.Equal(t, 3, sr.Iterations)
	require.NotNil(t, sr.Latency)
	assert.Equal(t, int64(3), sr.Latency.Count)
	assert.LessOrEqual(t, sr.Latency.Min, sr.Latency.P50)
	assert.LessOrEqual(t, sr.Latency.P50, sr.Latency.P99)
	assert.LessOrEqual(t, sr.Latency.P99, sr.Latency.Max)
}

func TestRunner_RepeatStopsAtFirstFailure(t *testing.T) {
	cfg := newMockConfig(t, mock.WithBooks([]models.Book{}))
	cfg.Repeat = 5
	r := NewRunner(cfg)

	list, _ := scenarios.Select("no-logs")
	result, err := r.RunAll(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Results[0].Iterations)
}

func TestRunner_Logs(t *testing.T) {
	var logs bytes.Buffer
	cfg := newMockConfig(t)
	cfg.LogWriter = &logs
	r := NewRunner(cfg)

	list, _ := scenarios.Select("with-custom-filter")
	_, err := r.RunAll(context.Background(), list)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "Request URI:")
	assert.Contains(t, logs.String(), "Response body:")
}

func TestRunner_ReportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	cfg := newMockConfig(t)
	cfg.ReportDir = dir
	r := NewRunner(cfg)

	list, _ := scenarios.Select("no-logs", "with-report-listener")
	result, err := r.RunAll(context.Background(), list)
	require.NoError(t, err)

	noLogs := result.Results[0]
	listener := result.Results[1]
	assert.Empty(t, noLogs.Exchanges)
	require.Len(t, listener.Exchanges, 1)

	data, err := os.ReadFile(listener.ReportFile)
	require.NoError(t, err)

	var res report.Result
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "with-report-listener", res.Name)
	assert.Equal(t, report.StatusPassed, res.Status)
	require.Len(t, res.Attachments, 1)
	assert.FileExists(t, filepath.Join(dir, res.Attachments[0].Source))
	assert.Len(t, res.Steps, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRunner_FailedReportCarriesMessages(t *testing.T) {
	cfg := newMockConfig(t, mock.WithBooks([]models.Book{}))
	cfg.ReportDir = t.TempDir()
	r := NewRunner(cfg)

	list, _ := scenarios.Select("no-logs")
	result, err := r.RunAll(context.Background(), list)
	require.NoError(t, err)

	data, err := os.ReadFile(result.Results[0].ReportFile)
	require.NoError(t, err)

	var res report.Result
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, report.StatusFailed, res.Status)
	require.NotNil(t, res.StatusDetails)
	assert.Contains(t, res.StatusDetails.Message, "expected length > 0, got 0")
}

func TestRunner_CancelledContext(t *testing.T) {
	r := NewRunner(newMockConfig(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.RunAll(ctx, scenarios.All())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Results)
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected bool
	}{
		{"exact match", "with-model", true},
		{"prefix match", "with-*", true},
		{"suffix match", "*-model", true},
		{"contains match", "*th-mo*", true},
		{"no match", "books-*", false},
		{"empty pattern", "", true},
		{"star only", "*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name+" - "+tt.pattern, func(t *testing.T) {
			result := matchesPattern("with-model", tt.pattern)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestHasAnyTag(t *testing.T) {
	tests := []struct {
		tags     []string
		filters  []string
		expected bool
	}{
		{[]string{"books", "schema"}, []string{"books"}, true},
		{[]string{"books", "schema"}, []string{"account"}, false},
		{[]string{"books", "schema"}, []string{"books", "account"}, true},
		{[]string{}, []string{"books"}, false},
		{[]string{"books"}, []string{}, false},
	}

	for _, tt := range tests {
		result := hasAnyTag(tt.tags, tt.filters)
		assert.Equal(t, tt.expected, result)
	}
}
