package http

// Next performs the remainder of a request chain.
type Next func(*Request) (*Response, error)

// Filter intercepts a single request/response exchange. A filter that only
// observes traffic must call next exactly once and return its results as-is.
type Filter func(req *Request, next Next) (*Response, error)

// Chain wraps final with filters so that filters[0] is the outermost.
func Chain(filters []Filter, final Next) Next {
	next := final
	for i := len(filters) - 1; i >= 0; i-- {
		f := filters[i]
		if f == nil {
			continue
		}
		inner := next
		next = func(req *Request) (*Response, error) {
			return f(req, inner)
		}
	}
	return next
}
