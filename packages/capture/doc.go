// Package capture extracts values from HTTP responses.
//
// It supports:
//   - the raw response text
//   - single values addressed by a gjson path
//   - several named values at once, for later assertions or logging
package capture
