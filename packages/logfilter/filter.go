package logfilter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/bookspec/packages/http"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

type Filter struct {
	writer   io.Writer
	template Template
	color    bool
	paint    func(a ...any) string
}

type Option func(*Filter)

// New returns a filter that logs everything to stdout.
func New(opts ...Option) *Filter {
	f := &Filter{
		writer:   os.Stdout,
		template: All,
		color:    !color.NoColor,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.paint = labelPainter(f.color)
	return f
}

func labelPainter(enabled bool) func(a ...any) string {
	if !enabled {
		return fmt.Sprint
	}
	c := color.New(color.FgCyan, color.Bold)
	c.EnableColor()
	return c.SprintFunc()
}

func WithWriter(w io.Writer) Option {
	return func(f *Filter) {
		f.writer = w
	}
}

func WithTemplate(t Template) Option {
	return func(f *Filter) {
		f.template = t
	}
}

func WithColor(enabled bool) Option {
	return func(f *Filter) {
		f.color = enabled
	}
}

// WithCustomTemplates returns a copy of f that logs the request URI and body
// before sending and only the response body after receiving.
func (f *Filter) WithCustomTemplates() *Filter {
	return f.WithTemplate(Custom)
}

// WithTemplate returns a copy of f using t.
func (f *Filter) WithTemplate(t Template) *Filter {
	cp := *f
	cp.template = t
	return &cp
}

func (f *Filter) Template() Template {
	return f.template
}

// Filter adapts f to the http filter chain.
func (f *Filter) Filter() http.Filter {
	return f.Apply
}

// Apply logs the parts of req selected by the template, calls next, logs the
// selected parts of the response and returns next's results unchanged.
func (f *Filter) Apply(req *http.Request, next http.Next) (*http.Response, error) {
	if f.template.logsRequest() {
		f.emit(func(b *bytes.Buffer) { f.writeRequest(b, req) })
	}

	resp, err := next(req)

	if f.template.logsResponse() {
		f.emit(func(b *bytes.Buffer) {
			if err != nil {
				fmt.Fprintf(b, "%s\t%v\n", f.label("Request failed:"), err)
				return
			}
			f.writeResponse(b, resp)
		})
	}

	return resp, err
}

// emit renders one log entry and writes it in a single call. Panics while
// rendering degrade to a fallback line; write errors are dropped.
func (f *Filter) emit(render func(*bytes.Buffer)) {
	var buf bytes.Buffer
	func() {
		defer func() {
			if r := recover(); r != nil {
				buf.Reset()
				fmt.Fprintf(&buf, "<log unavailable: %v>\n", r)
			}
		}()
		render(&buf)
	}()

	if buf.Len() == 0 || f.writer == nil {
		return
	}

	defer func() { _ = recover() }()
	_, _ = f.writer.Write(buf.Bytes())
}

func (f *Filter) writeRequest(b *bytes.Buffer, req *http.Request) {
	t := f.template
	if t.Has(RequestMethod) {
		fmt.Fprintf(b, "%s\t%s\n", f.label("Request method:"), req.Method)
	}
	if t.Has(RequestURI) {
		fmt.Fprintf(b, "%s\t%s\n", f.label("Request URI:"), req.BuildURL())
	}
	if t.Has(RequestHeaders) {
		f.writeHeaders(b, "Request headers:", req.Headers)
	}
	if t.Has(RequestBody) {
		fmt.Fprintf(b, "%s\n%s\n", f.label("Body:"), formatBody([]byte(req.Body)))
	}
}

func (f *Filter) writeResponse(b *bytes.Buffer, resp *http.Response) {
	if resp == nil {
		fmt.Fprintf(b, "%s\t<nil>\n", f.label("Response:"))
		return
	}

	t := f.template
	if t.Has(ResponseStatus) {
		fmt.Fprintf(b, "%s\t%s\n", f.label("Response status:"), resp.StatusLine())
	}
	if t.Has(ResponseHeaders) {
		f.writeHeaders(b, "Response headers:", resp.Headers)
	}
	if t.Has(ResponseBody) {
		fmt.Fprintf(b, "%s\n%s\n", f.label("Response body:"), formatBody(resp.Body))
	}
}

func (f *Filter) writeHeaders(b *bytes.Buffer, label string, headers map[string]string) {
	if len(headers) == 0 {
		fmt.Fprintf(b, "%s\t<none>\n", f.label(label))
		return
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		prefix := strings.Repeat(" ", len(label))
		if i == 0 {
			prefix = f.label(label)
		}
		fmt.Fprintf(b, "%s\t%s=%s\n", prefix, k, headers[k])
	}
}

func (f *Filter) label(s string) string {
	return f.paint(s)
}

func formatBody(body []byte) string {
	if len(body) == 0 {
		return "<none>"
	}
	if !utf8.Valid(body) {
		return fmt.Sprintf("<binary body, %d bytes>", len(body))
	}
	if gjson.ValidBytes(body) {
		return strings.TrimRight(string(pretty.Pretty(body)), "\n")
	}
	return string(body)
}
