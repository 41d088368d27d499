// Package http provides the HTTP client used by bookspec scenarios.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts and redirect handling
//   - Request filters composed as plain higher-order functions
//   - Optional client-side rate limiting
//   - Response handling and body reading
package http
