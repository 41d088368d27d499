// Package scenarios holds the scripted checks run against the book store
// and account endpoints. Each scenario is independent and builds its own
// requests.
package scenarios

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/bookspec/packages/assertions"
	"github.com/abdul-hamid-achik/bookspec/packages/bookstore"
	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/abdul-hamid-achik/bookspec/packages/logfilter"
	"github.com/abdul-hamid-achik/bookspec/packages/models"
	"github.com/abdul-hamid-achik/bookspec/packages/report"
)

// Scenario is one scripted check. Run returns an error only when the
// scenario could not complete (for example a network failure); failed
// checks are reported through the results.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Run         func(ctx context.Context, env *Env) ([]*assertions.Result, error)
}

// HasTag reports whether the scenario carries tag.
func (s Scenario) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Env is what a scenario gets to work with.
type Env struct {
	API         *bookstore.Client
	Credentials models.Credentials

	// Logs carries the log destination and the configured template. Nil
	// turns logging off for every scenario.
	Logs *logfilter.Filter

	// Recorder collects exchanges for scenarios that attach it.
	Recorder *report.Recorder
}

// Log returns a filter logging with the configured template.
func (e *Env) Log() http.Filter {
	if e.Logs == nil {
		return nil
	}
	return e.Logs.Filter()
}

// LogWith returns a filter logging with t instead of the configured template.
func (e *Env) LogWith(t logfilter.Template) http.Filter {
	if e.Logs == nil {
		return nil
	}
	return e.Logs.WithTemplate(t).Filter()
}

// CustomLog returns the custom-template filter.
func (e *Env) CustomLog() http.Filter {
	if e.Logs == nil {
		return nil
	}
	return e.Logs.WithCustomTemplates().Filter()
}

func (e *Env) credentialsMap() map[string]any {
	return map[string]any{
		"userName": e.Credentials.UserName,
		"password": e.Credentials.Password,
	}
}

// DefaultCredentials is the demo account the scenarios log in with.
func DefaultCredentials() models.Credentials {
	return models.Credentials{UserName: "alex", Password: "W1_#zqwerty"}
}

var registry = []Scenario{
	noLogs,
	withAllLogs,
	withSomeLogs,
	withSomePost,
	withReportListener,
	withCustomFilter,
	withRawBody,
	withModel,
	booksModel,
	booksJSONSchema,
}

// All returns every scenario in declaration order.
func All() []Scenario {
	out := make([]Scenario, len(registry))
	copy(out, registry)
	return out
}

// Find returns the scenario called name.
func Find(name string) (Scenario, bool) {
	for _, s := range registry {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Select resolves names to scenarios, keeping the given order. No names
// selects all of them.
func Select(names ...string) ([]Scenario, error) {
	if len(names) == 0 {
		return All(), nil
	}

	selected := make([]Scenario, 0, len(names))
	var unknown []string
	for _, name := range names {
		s, ok := Find(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		selected = append(selected, s)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown scenario(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
