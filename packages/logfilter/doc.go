// Package logfilter provides a request/response logging filter with
// selectable templates.
//
// A template names the parts of an exchange that are written:
//   - All: request line, headers and body; response status, headers and body
//   - URIOnly: the request URI
//   - BodyOnly: request and response bodies
//   - Custom: request URI and body on the way out, response body on the way in
//
// The filter is a pure side channel. It never changes the request or the
// response, and failures while logging never fail the request.
package logfilter
