package report

import (
	"sync"
	"time"

	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/google/uuid"
)

// Exchange is one recorded request/response pair.
type Exchange struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Method          string            `json:"method"`
	URL             string            `json:"url"`
	RequestHeaders  map[string]string `json:"requestHeaders,omitempty"`
	RequestBody     string            `json:"requestBody,omitempty"`
	StatusCode      int               `json:"statusCode,omitempty"`
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	ResponseBody    string            `json:"responseBody,omitempty"`
	Error           string            `json:"error,omitempty"`
	Start           time.Time         `json:"start"`
	Stop            time.Time         `json:"stop"`
}

// Recorder collects exchanges passing through its filter. It is safe for
// concurrent use.
type Recorder struct {
	mu        sync.Mutex
	exchanges []Exchange
	newID     func() string
	now       func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Filter returns an http filter that records every exchange without
// altering it.
func (r *Recorder) Filter() http.Filter {
	return func(req *http.Request, next http.Next) (*http.Response, error) {
		ex := Exchange{
			ID:             r.newID(),
			Name:           req.Method + " " + req.BuildURL(),
			Method:         req.Method,
			URL:            req.BuildURL(),
			RequestHeaders: copyHeaders(req.Headers),
			RequestBody:    req.Body,
			Start:          r.now(),
		}

		resp, err := next(req)

		ex.Stop = r.now()
		if err != nil {
			ex.Error = err.Error()
		}
		if resp != nil {
			ex.StatusCode = resp.StatusCode
			ex.ResponseHeaders = copyHeaders(resp.Headers)
			ex.ResponseBody = resp.BodyString()
		}

		r.mu.Lock()
		r.exchanges = append(r.exchanges, ex)
		r.mu.Unlock()

		return resp, err
	}
}

// Exchanges returns the recorded exchanges in the order they completed.
func (r *Recorder) Exchanges() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Exchange, len(r.exchanges))
	copy(out, r.exchanges)
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.exchanges = nil
	r.mu.Unlock()
}

func copyHeaders(h map[string]string) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
