package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/core/runner"
	"gopkg.in/yaml.v3"
)

// TAPFormatter writes TAP version 13. Each scenario is one test point and its
// details go into a YAML diagnostic block.
type TAPFormatter struct {
	writer    io.Writer
	scenarios []*runner.ScenarioResult
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{writer: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

type tapDiagnostic struct {
	Severity   string       `yaml:"severity,omitempty"`
	Message    string       `yaml:"message,omitempty"`
	DurationMs float64      `yaml:"duration_ms,omitempty"`
	Tags       []string     `yaml:"tags,omitempty,flow"`
	Failures   []tapFailure `yaml:"failures,omitempty"`
	Latency    *tapLatency  `yaml:"latency,omitempty"`
}

type tapFailure struct {
	Step     string `yaml:"step"`
	Expected string `yaml:"expected"`
	Actual   string `yaml:"actual"`
	Message  string `yaml:"message,omitempty"`
}

type tapLatency struct {
	Runs int     `yaml:"runs"`
	P50  float64 `yaml:"p50_ms"`
	P95  float64 `yaml:"p95_ms"`
	P99  float64 `yaml:"p99_ms"`
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	f.scenarios = append(f.scenarios, result.Results...)
}

func (f *TAPFormatter) FormatError(err error) {}

func (f *TAPFormatter) FormatHeader(version string) {}

func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n1..%d\n", len(f.scenarios))

	for i, r := range f.scenarios {
		n := i + 1
		switch r.Status() {
		case "skipped":
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP %s\n", n, r.Name, r.SkipReason)
			continue
		case "passed":
			fmt.Fprintf(f.writer, "ok %d - %s\n", n, r.Name)
		default:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", n, r.Name)
		}

		diag := tapDiagnosticFor(r)
		if diag == nil {
			continue
		}
		if err := writeTAPBlock(f.writer, diag); err != nil {
			return err
		}
	}

	fmt.Fprintf(f.writer, "# duration %s\n", totalDuration.Round(time.Millisecond))
	return nil
}

// tapDiagnosticFor returns nil for a plain single-run pass.
func tapDiagnosticFor(r *runner.ScenarioResult) *tapDiagnostic {
	diag := &tapDiagnostic{}
	switch {
	case r.Error != nil:
		diag.Severity = "error"
		diag.Message = r.Error.Error()
	case !r.Passed:
		diag.Severity = "fail"
		for _, a := range r.Assertions {
			if a.Passed {
				continue
			}
			diag.Failures = append(diag.Failures, tapFailure{
				Step:     strings.TrimSpace(a.Subject + " " + a.Operator),
				Expected: fmt.Sprint(a.Expected),
				Actual:   fmt.Sprint(a.Actual),
				Message:  a.Message,
			})
		}
	}
	if l := r.Latency; l != nil {
		diag.Latency = &tapLatency{Runs: int(l.Count), P50: millis(l.P50), P95: millis(l.P95), P99: millis(l.P99)}
	}
	if diag.Severity == "" && diag.Latency == nil {
		return nil
	}
	diag.DurationMs = millis(r.Duration)
	diag.Tags = r.Tags
	return diag
}

func writeTAPBlock(w io.Writer, diag *tapDiagnostic) error {
	data, err := yaml.Marshal(diag)
	if err != nil {
		return fmt.Errorf("failed to encode tap diagnostics: %w", err)
	}
	fmt.Fprintln(w, "  ---")
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w, "  ...")
	return nil
}
