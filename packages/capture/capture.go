package capture

import (
	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/tidwall/gjson"
)

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if resp != nil && gjson.ValidBytes(resp.Body) {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
	}
	return e
}

// Field returns the value at path. An empty path returns the whole body,
// decoded when it is JSON and as text otherwise.
func (e *Extractor) Field(path string) (any, bool) {
	if e.response == nil {
		return nil, false
	}

	if !e.bodyJSON.Exists() {
		if path == "" {
			return e.response.BodyString(), true
		}
		return nil, false
	}

	if path == "" {
		return e.bodyJSON.Value(), true
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// AsString returns the response body as text.
func AsString(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	return resp.BodyString()
}

// Field extracts a single value from resp.
func Field(resp *http.Response, path string) (any, bool) {
	return NewExtractor(resp).Field(path)
}

// ExtractAll resolves every name -> path pair. Paths that do not exist are
// left out of the result.
func ExtractAll(resp *http.Response, paths map[string]string) map[string]any {
	extractor := NewExtractor(resp)
	results := make(map[string]any)

	for name, path := range paths {
		if value, ok := extractor.Field(path); ok {
			results[name] = value
		}
	}

	return results
}
