package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary   JSONSummary    `json:"summary"`
	Scenarios []JSONScenario `json:"scenarios"`
	Duration  float64        `json:"duration"`
	Time      string         `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// JSONScenario represents a single scenario result
type JSONScenario struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Status      string          `json:"status"`
	Passed      bool            `json:"passed"`
	Skipped     bool            `json:"skipped,omitempty"`
	SkipReason  string          `json:"skipReason,omitempty"`
	Duration    float64         `json:"duration"`
	Iterations  int             `json:"iterations,omitempty"`
	Error       string          `json:"error,omitempty"`
	Latency     *JSONLatency    `json:"latency,omitempty"`
	Assertions  []JSONAssertion `json:"assertions,omitempty"`
	ReportFile  string          `json:"reportFile,omitempty"`
}

// JSONLatency holds repeated-run percentiles in milliseconds
type JSONLatency struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	Subject  string `json:"subject"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
}

// JSONFormatter formats scenario results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONScenario
	now     func() time.Time
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONScenario, 0),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		sc := JSONScenario{
			Name:        r.Name,
			Description: r.Description,
			Tags:        r.Tags,
			Status:      r.Status(),
			Passed:      r.Passed,
			Skipped:     r.Skipped,
			SkipReason:  r.SkipReason,
			Duration:    millis(r.Duration),
			Iterations:  r.Iterations,
			ReportFile:  r.ReportFile,
		}
		if r.Error != nil {
			sc.Error = r.Error.Error()
		}

		if r.Latency != nil {
			sc.Latency = &JSONLatency{
				Count: r.Latency.Count,
				Min:   millis(r.Latency.Min),
				Mean:  millis(r.Latency.Mean),
				P50:   millis(r.Latency.P50),
				P95:   millis(r.Latency.P95),
				P99:   millis(r.Latency.P99),
				Max:   millis(r.Latency.Max),
			}
		}

		if len(r.Assertions) > 0 {
			sc.Assertions = make([]JSONAssertion, len(r.Assertions))
			for i, a := range r.Assertions {
				sc.Assertions[i] = JSONAssertion{
					Subject:  a.Subject,
					Operator: a.Operator,
					Expected: a.Expected,
					Actual:   a.Actual,
					Passed:   a.Passed,
					Message:  a.Message,
				}
			}
		}

		f.results = append(f.results, sc)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual scenario results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, s := range f.results {
		summary.Total++
		switch {
		case s.Skipped:
			summary.Skipped++
		case s.Error != "":
			summary.Errored++
		case s.Passed:
			summary.Passed++
		default:
			summary.Failed++
		}
	}

	output := JSONOutput{
		Summary:   summary,
		Scenarios: f.results,
		Duration:  millis(totalDuration),
		Time:      f.now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
