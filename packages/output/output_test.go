package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/assertions"
	"github.com/abdul-hamid-achik/bookspec/packages/core/runner"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func sampleResult() *runner.RunResult {
	return &runner.RunResult{
		Duration: 120 * time.Millisecond,
		Passed:   1,
		Failed:   1,
		Errored:  1,
		Skipped:  1,
		Results: []*runner.ScenarioResult{
			{
				Name:       "no-logs",
				Tags:       []string{"books"},
				Passed:     true,
				Duration:   40 * time.Millisecond,
				Iterations: 3,
				Assertions: []*assertions.Result{{Passed: true, Subject: "books", Operator: "size >", Expected: 0}},
				Latency: &runner.LatencyStats{
					Count: 3, Min: 10 * time.Millisecond, Max: 20 * time.Millisecond,
					Mean: 15 * time.Millisecond, P50: 15 * time.Millisecond,
					P95: 20 * time.Millisecond, P99: 20 * time.Millisecond,
				},
			},
			{
				Name:     "with-model",
				Duration: 30 * time.Millisecond,
				Assertions: []*assertions.Result{{
					Passed: false, Subject: "status", Operator: "contains",
					Expected: "Success", Actual: "Failed",
					Message: `expected "Failed" to contain "Success"`,
				}},
			},
			{
				Name:  "books-model",
				Error: errors.New("connection refused"),
			},
			{
				Name:       "books-json-schema",
				Skipped:    true,
				SkipReason: "filtered out",
			},
		},
	}
}

func TestNew(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name, &bytes.Buffer{}, false)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	f, err := New("", &bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleFormatter{}, f)

	_, err = New("html", &bytes.Buffer{}, false)
	assert.Error(t, err)
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf))
	f.FormatResult(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "✓ no-logs (40ms)")
	assert.Contains(t, out, "3 runs: p50 15ms")
	assert.Contains(t, out, "✗ with-model")
	assert.Contains(t, out, "Expected: Success")
	assert.Contains(t, out, "Actual:   Failed")
	assert.Contains(t, out, "x books-model (connection refused)")
	assert.NotContains(t, out, "books-json-schema", "skipped scenarios only show when verbose")
	assert.Contains(t, out, "1 passed, 1 failed, 1 errored, 1 skipped, 4 total")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithVerbose(true))
	f.FormatResult(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "- books-json-schema (filtered out)")
	assert.Contains(t, out, "· books size >")
}

func TestConsoleFormatter_ErrorAndHeader(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf))
	f.FormatHeader("v1.0.0")
	f.FormatError(errors.New("boom"))

	assert.Equal(t, "bookspec v1.0.0\nError: boom\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(120*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, JSONSummary{Total: 4, Passed: 1, Failed: 1, Errored: 1, Skipped: 1}, out.Summary)
	assert.Equal(t, 120.0, out.Duration)
	require.Len(t, out.Scenarios, 4)

	assert.Equal(t, "passed", out.Scenarios[0].Status)
	require.NotNil(t, out.Scenarios[0].Latency)
	assert.Equal(t, 15.0, out.Scenarios[0].Latency.P50)
	assert.Equal(t, "failed", out.Scenarios[1].Status)
	assert.Equal(t, "Failed", out.Scenarios[1].Assertions[0].Actual)
	assert.Equal(t, "broken", out.Scenarios[2].Status)
	assert.Equal(t, "connection refused", out.Scenarios[2].Error)
	assert.Equal(t, "skipped", out.Scenarios[3].Status)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal([]byte(out[strings.Index(out, "\n")+1:]), &suites))
	assert.Equal(t, "bookspec", suites.Name)
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 1, suites.Skipped)
	require.Len(t, suites.TestSuites, 4)

	t.Run("passing scenario lists steps and properties", func(t *testing.T) {
		s := suites.TestSuites[0]
		assert.Equal(t, "no-logs", s.Name)
		require.Len(t, s.TestCases, 1)
		assert.Equal(t, "books size >", s.TestCases[0].Name)
		assert.Equal(t, "bookspec.no-logs", s.TestCases[0].ClassName)
		assert.Nil(t, s.TestCases[0].Failure)

		props := map[string]string{}
		for _, p := range s.Properties {
			props[p.Name] = p.Value
		}
		assert.Equal(t, "books", props["tags"])
		assert.Equal(t, "3", props["iterations"])
		assert.Equal(t, "15ms", props["latency.p50"])
		assert.Equal(t, "20ms", props["latency.p99"])
	})

	t.Run("failed step", func(t *testing.T) {
		s := suites.TestSuites[1]
		assert.Equal(t, 1, s.Failures)
		require.Len(t, s.TestCases, 1)
		require.NotNil(t, s.TestCases[0].Failure)
		assert.Equal(t, "status contains", s.TestCases[0].Name)
		assert.Equal(t, `expected "Failed" to contain "Success"`, s.TestCases[0].Failure.Message)
		assert.Contains(t, s.TestCases[0].Failure.Content, "expected: Success")
		assert.Contains(t, s.TestCases[0].Failure.Content, "actual:   Failed")
	})

	t.Run("broken scenario", func(t *testing.T) {
		s := suites.TestSuites[2]
		assert.Equal(t, 1, s.Errors)
		require.Len(t, s.TestCases, 1)
		require.NotNil(t, s.TestCases[0].Error)
		assert.Equal(t, "connection refused", s.TestCases[0].Error.Message)
	})

	t.Run("skipped scenario", func(t *testing.T) {
		s := suites.TestSuites[3]
		require.Len(t, s.TestCases, 1)
		require.NotNil(t, s.TestCases[0].Skipped)
		assert.Equal(t, "filtered out", s.TestCases[0].Skipped.Message)
	})
}

func TestJUnitFormatter_ScenarioWithoutSteps(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatResult(&runner.RunResult{Results: []*runner.ScenarioResult{{Name: "empty", Passed: true}}})
	require.NoError(t, f.Flush(0))

	assert.Contains(t, buf.String(), `<testcase name="empty" classname="bookspec.empty"`)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "TAP version 13\n1..4\n"))
	assert.Contains(t, out, "ok 1 - no-logs\n  ---\n")
	assert.Contains(t, out, "  tags: [books]\n")
	assert.Contains(t, out, "runs: 3")
	assert.Contains(t, out, "p95_ms: 20")
	assert.Contains(t, out, "not ok 2 - with-model\n")
	assert.Contains(t, out, "  severity: fail\n")
	assert.Contains(t, out, "step: status contains")
	assert.Contains(t, out, "expected: Success")
	assert.Contains(t, out, "not ok 3 - books-model\n")
	assert.Contains(t, out, "  severity: error\n  message: connection refused\n")
	assert.Contains(t, out, "ok 4 - books-json-schema # SKIP filtered out\n")
	assert.True(t, strings.HasSuffix(out, "# duration 1s\n"))
}

func TestTAPFormatter_PlainPassHasNoBlock(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatResult(&runner.RunResult{Results: []*runner.ScenarioResult{{Name: "no-logs", Passed: true}}})
	require.NoError(t, f.Flush(0))

	assert.Equal(t, "TAP version 13\n1..1\nok 1 - no-logs\n# duration 0s\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "<nil>", formatValue(nil, 10))
	assert.Equal(t, "[array with 2 items]", formatValue([]any{1, 2}, 10))
	assert.Equal(t, "{object with 1 keys}", formatValue(map[string]any{"a": 1}, 10))
	assert.Equal(t, "abcde...", formatValue("abcdefgh", 5))
}
