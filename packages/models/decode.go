package models

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeError reports a body that does not fit a model.
type DecodeError struct {
	Model  string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %s", e.Model, e.Reason)
	}
	return fmt.Sprintf("decode %s: field %q %s", e.Model, e.Field, e.Reason)
}

type field struct {
	path     string
	kind     gjson.Type
	array    bool
	required bool
}

func jsonTypeName(f field) string {
	if f.array {
		return "array"
	}
	switch f.kind {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.JSON:
		return "object"
	case gjson.True, gjson.False:
		return "boolean"
	default:
		return f.kind.String()
	}
}

func typeMatches(f field, r gjson.Result) bool {
	switch {
	case f.array:
		return r.IsArray()
	case f.kind == gjson.JSON:
		return r.IsObject()
	case f.kind == gjson.True || f.kind == gjson.False:
		return r.IsBool()
	default:
		return r.Type == f.kind
	}
}

// checkFields validates obj against fields. prefix is prepended to field
// paths in errors.
func checkFields(model, prefix string, obj gjson.Result, fields []field) error {
	for _, f := range fields {
		r := obj.Get(f.path)
		name := prefix + f.path
		if !r.Exists() || r.Type == gjson.Null {
			if f.required {
				return &DecodeError{Model: model, Field: name, Reason: "is missing"}
			}
			continue
		}
		if !typeMatches(f, r) {
			return &DecodeError{
				Model:  model,
				Field:  name,
				Reason: fmt.Sprintf("must be %s, got %s", jsonTypeName(f), describe(r)),
			}
		}
	}
	return nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	case r.IsBool():
		return "boolean"
	}
	switch r.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	}
	return r.Type.String()
}

func parseObject(model string, body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &DecodeError{Model: model, Reason: "invalid JSON"}
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, &DecodeError{Model: model, Reason: "expected a JSON object, got " + describe(doc)}
	}
	return doc, nil
}

func bind(model string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Model: model, Reason: err.Error()}
	}
	return nil
}
