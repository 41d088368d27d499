package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/assertions"
	"github.com/abdul-hamid-achik/bookspec/packages/bookstore"
	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/abdul-hamid-achik/bookspec/packages/logfilter"
	"github.com/abdul-hamid-achik/bookspec/packages/models"
	"github.com/abdul-hamid-achik/bookspec/packages/report"
	"github.com/abdul-hamid-achik/bookspec/packages/scenarios"
)

type Runner struct {
	api    *bookstore.Client
	logs   *logfilter.Filter
	config *Config
	now    func() time.Time
}

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	FollowRedirect bool
	Insecure       bool
	Proxy          string
	Headers        map[string]string
	RateLimit      float64
	Credentials    models.Credentials

	// LogWriter receives request/response logs. Nil disables logging.
	LogWriter   io.Writer
	LogTemplate logfilter.Template
	Color       bool

	Bail       bool
	NameFilter string
	TagsFilter []string
	Repeat     int
	ReportDir  string
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	clientOpts := []http.ClientOption{
		http.WithFollowRedirects(cfg.FollowRedirect),
		http.WithValidateSSL(!cfg.Insecure),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	if len(cfg.Headers) > 0 {
		clientOpts = append(clientOpts, http.WithDefaultHeaders(cfg.Headers))
	}
	if cfg.RateLimit > 0 {
		clientOpts = append(clientOpts, http.WithRateLimit(cfg.RateLimit))
	}

	r := &Runner{
		api:    bookstore.NewClient(cfg.BaseURL, http.NewClient(clientOpts...)),
		config: cfg,
		now:    time.Now,
	}

	if cfg.LogWriter != nil {
		tmpl := cfg.LogTemplate
		if tmpl.Name == "" {
			tmpl = logfilter.Custom
		}
		r.logs = logfilter.New(
			logfilter.WithWriter(cfg.LogWriter),
			logfilter.WithTemplate(tmpl),
			logfilter.WithColor(cfg.Color),
		)
	}

	return r
}

// API returns the book store client scenarios run against.
func (r *Runner) API() *bookstore.Client {
	return r.api
}

type RunResult struct {
	Results  []*ScenarioResult
	Duration time.Duration
	Passed   int
	Failed   int
	Errored  int
	Skipped  int
}

// HasFailures reports whether any scenario failed an assertion.
func (r *RunResult) HasFailures() bool {
	return r.Failed > 0
}

// HasErrors reports whether any scenario could not complete.
func (r *RunResult) HasErrors() bool {
	return r.Errored > 0
}

type ScenarioResult struct {
	Name        string
	Description string
	Tags        []string
	Passed      bool
	Skipped     bool
	SkipReason  string
	StartedAt   time.Time
	Duration    time.Duration
	Iterations  int
	Assertions  []*assertions.Result
	Error       error
	Latency     *LatencyStats
	Exchanges   []report.Exchange
	ReportFile  string
}

// Status returns the report status for the result.
func (s *ScenarioResult) Status() string {
	switch {
	case s.Skipped:
		return report.StatusSkipped
	case s.Error != nil:
		return report.StatusBroken
	case s.Passed:
		return report.StatusPassed
	default:
		return report.StatusFailed
	}
}

// RunAll runs the given scenarios in order. The returned error is reserved
// for problems outside the scenarios themselves, such as an unusable report
// directory or a cancelled context.
func (r *Runner) RunAll(ctx context.Context, list []scenarios.Scenario) (*RunResult, error) {
	start := r.now()
	result := &RunResult{}

	var writer *report.Writer
	if r.config.ReportDir != "" {
		w, err := report.NewWriter(r.config.ReportDir)
		if err != nil {
			return nil, err
		}
		writer = w
	}

	for _, s := range list {
		if err := ctx.Err(); err != nil {
			result.Duration = r.now().Sub(start)
			return result, err
		}

		if !r.shouldRun(s) {
			result.Results = append(result.Results, &ScenarioResult{
				Name:       s.Name,
				Tags:       s.Tags,
				Skipped:    true,
				SkipReason: "filtered out",
			})
			result.Skipped++
			continue
		}

		sr := r.runScenario(ctx, s)
		if writer != nil {
			path, err := writer.Write(r.reportResult(sr), sr.Exchanges)
			if err != nil {
				return nil, fmt.Errorf("writing report for %s: %w", s.Name, err)
			}
			sr.ReportFile = path
		}
		result.Results = append(result.Results, sr)

		switch {
		case sr.Passed:
			result.Passed++
		case sr.Error != nil:
			result.Errored++
		default:
			result.Failed++
		}

		if !sr.Passed && r.config.Bail {
			break
		}
	}

	result.Duration = r.now().Sub(start)
	return result, nil
}

// runScenario runs s Repeat times, stopping at the first iteration that
// does not pass.
func (r *Runner) runScenario(ctx context.Context, s scenarios.Scenario) *ScenarioResult {
	repeat := r.config.Repeat
	if repeat < 1 {
		repeat = 1
	}

	result := &ScenarioResult{
		Name:        s.Name,
		Description: s.Description,
		Tags:        s.Tags,
		StartedAt:   r.now(),
	}
	latency := newLatencyRecorder()

	for i := 0; i < repeat; i++ {
		recorder := report.NewRecorder()
		env := &scenarios.Env{
			API:         r.api,
			Credentials: r.config.Credentials,
			Logs:        r.logs,
			Recorder:    recorder,
		}

		iterStart := r.now()
		res, err := s.Run(ctx, env)
		elapsed := r.now().Sub(iterStart)

		latency.record(elapsed)
		result.Duration += elapsed
		result.Iterations++
		result.Assertions = res
		result.Exchanges = append(result.Exchanges, recorder.Exchanges()...)

		if err != nil {
			result.Error = err
			result.Passed = false
			break
		}
		result.Passed = len(res) > 0 && assertions.AllPassed(res)
		if !result.Passed {
			break
		}
	}

	if repeat > 1 {
		result.Latency = latency.stats()
	}
	return result
}

func (r *Runner) reportResult(sr *ScenarioResult) report.Result {
	res := report.Result{
		Name:        sr.Name,
		FullName:    "bookspec." + sr.Name,
		Description: sr.Description,
		Status:      sr.Status(),
		Start:       report.Millis(sr.StartedAt),
		Stop:        report.Millis(r.now()),
		Labels:      []report.Label{{Name: "suite", Value: "bookspec"}},
	}
	for _, tag := range sr.Tags {
		res.Labels = append(res.Labels, report.Label{Name: "tag", Value: tag})
	}

	for _, a := range sr.Assertions {
		status := report.StatusPassed
		if !a.Passed {
			status = report.StatusFailed
		}
		res.Steps = append(res.Steps, report.Step{
			Name:   strings.TrimSpace(a.Subject + " " + a.Operator),
			Status: status,
		})
	}

	switch {
	case sr.Error != nil:
		res.StatusDetails = &report.StatusDetails{Message: sr.Error.Error()}
	case !sr.Passed:
		var msgs []string
		for _, f := range assertions.Failures(sr.Assertions) {
			msgs = append(msgs, f.String())
		}
		res.StatusDetails = &report.StatusDetails{Message: strings.Join(msgs, "\n")}
	}
	return res
}

func (r *Runner) shouldRun(s scenarios.Scenario) bool {
	if r.config.NameFilter != "" {
		if !matchesPattern(s.Name, r.config.NameFilter) {
			return false
		}
	}

	if len(r.config.TagsFilter) > 0 {
		if !hasAnyTag(s.Tags, r.config.TagsFilter) {
			return false
		}
	}

	return true
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if len(pattern) > 1 && pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}

func hasAnyTag(tags []string, filters []string) bool {
	for _, filter := range filters {
		for _, tag := range tags {
			if tag == filter {
				return true
			}
		}
	}
	return false
}
