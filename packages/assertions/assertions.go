package assertions

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/tidwall/gjson"
)

type Result struct {
	Passed   bool
	Message  string
	Expected any
	Actual   any
	Subject  string
	Operator string
}

func (r *Result) String() string {
	status := "pass"
	if !r.Passed {
		status = "FAIL"
	}
	if r.Message == "" {
		return fmt.Sprintf("%s %s %s", status, r.Subject, r.Operator)
	}
	return fmt.Sprintf("%s %s %s: %s", status, r.Subject, r.Operator, r.Message)
}

func newResult(subject, operator string, expected any) *Result {
	return &Result{Subject: subject, Operator: operator, Expected: expected}
}

func (r *Result) finish(passed bool, msg string) *Result {
	r.Passed = passed
	r.Message = msg
	return r
}

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// convertBracketNotation converts array bracket notation to gjson dot notation
// e.g., "[0].id" -> "0.id", "items[0].tags[1]" -> "items.0.tags.1"
func convertBracketNotation(path string) string {
	result := bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(result, ".")
}

// lookup resolves path in the response body. ok is false when the body is
// JSON but the path does not exist or holds null.
func lookup(resp *http.Response, path string) (value any, ok bool, err error) {
	if resp == nil {
		return nil, false, fmt.Errorf("no response")
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, false, fmt.Errorf("response body is not JSON")
	}

	doc := gjson.ParseBytes(resp.Body)
	if path == "" {
		return doc.Value(), true, nil
	}

	r := doc.Get(convertBracketNotation(path))
	if !r.Exists() || r.Type == gjson.Null {
		return nil, false, nil
	}
	return r.Value(), true, nil
}

// StatusEquals checks the response status code.
func StatusEquals(resp *http.Response, code int) *Result {
	res := newResult("status", "==", code)
	if resp == nil {
		return res.finish(false, "no response")
	}
	res.Actual = resp.StatusCode
	if resp.StatusCode == code {
		return res.finish(true, "")
	}
	return res.finish(false, fmt.Sprintf("expected status %d, got %d", code, resp.StatusCode))
}

// Exists checks that path is present and not null.
func Exists(resp *http.Response, path string) *Result {
	res := newResult(path, "exists", nil)
	actual, ok, err := lookup(resp, path)
	if err != nil {
		return res.finish(false, err.Error())
	}
	res.Actual = actual
	if !ok {
		return res.finish(false, "expected to exist")
	}
	return res.finish(true, "")
}

// Equals checks the value at path. Types must match, so "234" never equals
// 234. Numbers compare numerically: 30 and 30.0 are equal.
func Equals(resp *http.Response, path string, expected any) *Result {
	res := newResult(path, "==", expected)
	actual, ok, err := lookup(resp, path)
	if err != nil {
		return res.finish(false, err.Error())
	}
	if !ok {
		return res.finish(false, fmt.Sprintf("expected %v, but %s does not exist", expected, path))
	}
	res.Actual = actual
	return res.finish(equals(actual, expected))
}

// FieldContains checks that the value at path contains substr.
func FieldContains(resp *http.Response, path, substr string) *Result {
	res := newResult(path, "contains", substr)
	actual, ok, err := lookup(resp, path)
	if err != nil {
		return res.finish(false, err.Error())
	}
	if !ok {
		return res.finish(false, fmt.Sprintf("expected to contain '%s', but %s does not exist", substr, path))
	}
	res.Actual = actual
	return res.finish(contains(actual, substr))
}

// HasSize checks the length of the array, object or string at path.
func HasSize(resp *http.Response, path string, n int) *Result {
	return size(resp, path, "length", n, func(actual int) bool { return actual == n })
}

// HasSizeGreaterThan checks that the collection at path has more than n
// entries.
func HasSizeGreaterThan(resp *http.Response, path string, n int) *Result {
	return size(resp, path, "length >", n, func(actual int) bool { return actual > n })
}

func size(resp *http.Response, path, op string, n int, ok func(int) bool) *Result {
	res := newResult(path, op, n)
	actual, exists, err := lookup(resp, path)
	if err != nil {
		return res.finish(false, err.Error())
	}
	if !exists {
		return res.finish(false, fmt.Sprintf("expected %s %d, but %s does not exist", op, n, path))
	}

	length := computeLength(actual)
	if length == -1 {
		res.Actual = actual
		return res.finish(false, fmt.Sprintf("cannot get length of %T", actual))
	}
	res.Actual = length
	if ok(length) {
		return res.finish(true, "")
	}
	return res.finish(false, fmt.Sprintf("expected %s %d, got %d", op, n, length))
}

// BodyContains checks the raw response text.
func BodyContains(resp *http.Response, substr string) *Result {
	res := newResult("body", "contains", substr)
	if resp == nil {
		return res.finish(false, "no response")
	}
	body := resp.BodyString()
	res.Actual = body
	if strings.Contains(body, substr) {
		return res.finish(true, "")
	}
	return res.finish(false, fmt.Sprintf("expected body to contain %q", substr))
}

// EqualValue compares a value that was already extracted, such as a decoded
// model field.
func EqualValue(subject string, actual, expected any) *Result {
	res := newResult(subject, "==", expected)
	res.Actual = actual
	return res.finish(equals(actual, expected))
}

// ValueContains checks an extracted value for a substring.
func ValueContains(subject string, actual any, substr string) *Result {
	res := newResult(subject, "contains", substr)
	res.Actual = actual
	return res.finish(contains(actual, substr))
}

// NoError turns an error from a step such as decoding into a result.
func NoError(subject string, err error) *Result {
	res := newResult(subject, "no error", nil)
	if err != nil {
		res.Actual = err.Error()
		return res.finish(false, err.Error())
	}
	return res.finish(true, "")
}

// AllPassed reports whether every result passed. An empty list passes.
func AllPassed(results []*Result) bool {
	for _, r := range results {
		if r == nil || !r.Passed {
			return false
		}
	}
	return true
}

// Failures returns the results that did not pass.
func Failures(results []*Result) []*Result {
	var failed []*Result
	for _, r := range results {
		if r != nil && !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
