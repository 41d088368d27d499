package assertions

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/xeipuuv/gojsonschema"
)

// MatchesSchema validates the whole response body against a JSON Schema
// document.
func MatchesSchema(resp *http.Response, schema []byte) *Result {
	return matchSchema(resp, "inline", schema)
}

// MatchesSchemaFile validates the body against a schema read from disk.
func MatchesSchemaFile(resp *http.Response, path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return newResult("body", "schema", path).finish(false, fmt.Sprintf("failed to read schema file: %v", err))
	}
	return matchSchema(resp, path, data)
}

// MatchesSchemaInFS validates the body against a schema looked up by name in
// fsys, typically an embedded set of schema assets.
func MatchesSchemaInFS(resp *http.Response, fsys fs.FS, name string) *Result {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return newResult("body", "schema", name).finish(false, fmt.Sprintf("failed to read schema %s: %v", name, err))
	}
	return matchSchema(resp, name, data)
}

func matchSchema(resp *http.Response, name string, schema []byte) *Result {
	res := newResult("body", "schema", name)
	if resp == nil {
		return res.finish(false, "no response")
	}

	errs, err := ValidateDocument(schema, resp.Body)
	if err != nil {
		return res.finish(false, err.Error())
	}
	if len(errs) == 0 {
		return res.finish(true, "")
	}
	res.Actual = errs
	return res.finish(false, fmt.Sprintf("schema validation failed: %s", strings.Join(errs, "; ")))
}

// ValidateDocument checks doc against schema and returns one message per
// violation. err is set when either document cannot be loaded.
func ValidateDocument(schema, doc []byte) ([]string, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %v", err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return errs, nil
}
