package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/assertions"
	"github.com/abdul-hamid-achik/bookspec/packages/core/runner"
)

const suiteName = "bookspec"

// JUnitTestSuites is the root element. Each scenario becomes one testsuite and
// each of its assertion steps one testcase.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr,omitempty"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type JUnitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter collects scenario suites and writes them as JUnit XML on Flush.
type JUnitFormatter struct {
	writer io.Writer
	suites []JUnitTestSuite
	now    func() time.Time
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		f.suites = append(f.suites, scenarioSuite(r))
	}
}

func scenarioSuite(r *runner.ScenarioResult) JUnitTestSuite {
	suite := JUnitTestSuite{
		Name:       r.Name,
		Time:       r.Duration.Seconds(),
		Properties: scenarioProperties(r),
	}
	if !r.StartedAt.IsZero() {
		suite.Timestamp = r.StartedAt.Format(time.RFC3339)
	}
	className := suiteName + "." + r.Name

	switch {
	case r.Skipped:
		suite.TestCases = []JUnitTestCase{{
			Name:      r.Name,
			ClassName: className,
			Skipped:   &JUnitSkipped{Message: r.SkipReason},
		}}
		suite.Skipped = 1
	case r.Error != nil:
		// Steps that ran before the request failed are still reported.
		suite.TestCases = stepCases(className, r.Assertions)
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      r.Name,
			ClassName: className,
			Time:      r.Duration.Seconds(),
			Error:     &JUnitError{Message: r.Error.Error(), Type: "Error"},
		})
		suite.Errors = 1
	case len(r.Assertions) == 0:
		suite.TestCases = []JUnitTestCase{{Name: r.Name, ClassName: className, Time: r.Duration.Seconds()}}
	default:
		suite.TestCases = stepCases(className, r.Assertions)
	}

	for _, tc := range suite.TestCases {
		if tc.Failure != nil {
			suite.Failures++
		}
	}
	suite.Tests = len(suite.TestCases)
	return suite
}

func stepCases(className string, results []*assertions.Result) []JUnitTestCase {
	cases := make([]JUnitTestCase, 0, len(results))
	for _, a := range results {
		tc := JUnitTestCase{
			Name:      strings.TrimSpace(a.Subject + " " + a.Operator),
			ClassName: className,
		}
		if !a.Passed {
			tc.Failure = &JUnitFailure{
				Message: a.Message,
				Type:    "AssertionError",
				Content: fmt.Sprintf("expected: %v\nactual:   %v", a.Expected, a.Actual),
			}
		}
		cases = append(cases, tc)
	}
	return cases
}

func scenarioProperties(r *runner.ScenarioResult) []JUnitProperty {
	var props []JUnitProperty
	if len(r.Tags) > 0 {
		props = append(props, JUnitProperty{Name: "tags", Value: strings.Join(r.Tags, ",")})
	}
	if r.Iterations > 0 {
		props = append(props, JUnitProperty{Name: "iterations", Value: strconv.Itoa(r.Iterations)})
	}
	if l := r.Latency; l != nil {
		props = append(props,
			JUnitProperty{Name: "latency.p50", Value: l.P50.String()},
			JUnitProperty{Name: "latency.p95", Value: l.P95.String()},
			JUnitProperty{Name: "latency.p99", Value: l.P99.String()},
			JUnitProperty{Name: "latency.max", Value: l.Max.String()},
		)
	}
	if r.ReportFile != "" {
		props = append(props, JUnitProperty{Name: "report", Value: r.ReportFile})
	}
	return props
}

func (f *JUnitFormatter) FormatError(err error) {}

func (f *JUnitFormatter) FormatHeader(version string) {}

// Flush writes every collected suite under a single testsuites root.
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	root := JUnitTestSuites{
		Name:       suiteName,
		Time:       totalDuration.Seconds(),
		Timestamp:  f.now().Format(time.RFC3339),
		TestSuites: f.suites,
	}
	for _, s := range f.suites {
		root.Tests += s.Tests
		root.Failures += s.Failures
		root.Errors += s.Errors
		root.Skipped += s.Skipped
	}

	if _, err := io.WriteString(f.writer, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("failed to encode junit report: %w", err)
	}
	_, err := io.WriteString(f.writer, "\n")
	return err
}
