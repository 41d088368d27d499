// Package assertions provides response checks for bookspec scenarios.
//
// Every check is a plain function returning a *Result that carries the
// outcome and a diagnostic message; checks compose by collecting results:
//
//	results := []*assertions.Result{
//		assertions.StatusEquals(resp, 200),
//		assertions.HasSizeGreaterThan(resp, "books", 0),
//		assertions.MatchesSchemaInFS(resp, schemas.FS, schemas.BookList),
//	}
//	if !assertions.AllPassed(results) { ... }
//
// Paths use gjson syntax (books.0.title); [N] bracket notation is accepted.
package assertions
