package logfilter

import (
	"fmt"
	"sort"
	"strings"
)

// Part is one loggable piece of a request/response exchange.
type Part uint16

const (
	RequestMethod Part = 1 << iota
	RequestURI
	RequestHeaders
	RequestBody
	ResponseStatus
	ResponseHeaders
	ResponseBody
)

const (
	requestParts  = RequestMethod | RequestURI | RequestHeaders | RequestBody
	responseParts = ResponseStatus | ResponseHeaders | ResponseBody
)

var partNames = map[string]Part{
	"method":          RequestMethod,
	"uri":             RequestURI,
	"headers":         RequestHeaders,
	"body":            RequestBody,
	"status":          ResponseStatus,
	"responseHeaders": ResponseHeaders,
	"responseBody":    ResponseBody,
}

// Template is a named set of parts.
type Template struct {
	Name  string
	Parts Part
}

var (
	None     = Template{Name: "none"}
	All      = Template{Name: "all", Parts: requestParts | responseParts}
	URIOnly  = Template{Name: "uri", Parts: RequestURI}
	BodyOnly = Template{Name: "body", Parts: RequestBody | ResponseBody}
	Custom   = Template{Name: "custom", Parts: RequestURI | RequestBody | ResponseBody}
)

var namedTemplates = []Template{None, All, URIOnly, BodyOnly, Custom}

// NewTemplate builds a template from individual parts.
func NewTemplate(name string, parts ...Part) Template {
	t := Template{Name: name}
	for _, p := range parts {
		t.Parts |= p
	}
	return t
}

// Has reports whether every bit of p is in the template.
func (t Template) Has(p Part) bool {
	return t.Parts&p == p
}

func (t Template) logsRequest() bool {
	return t.Parts&requestParts != 0
}

func (t Template) logsResponse() bool {
	return t.Parts&responseParts != 0
}

func (t Template) String() string {
	return t.Name
}

// TemplateNames lists the names accepted by ParseTemplate.
func TemplateNames() []string {
	names := make([]string, len(namedTemplates))
	for i, t := range namedTemplates {
		names[i] = t.Name
	}
	return names
}

// ParseTemplate resolves a template name, or a "+"-joined list of parts such
// as "uri+body+responseBody".
func ParseTemplate(name string) (Template, error) {
	for _, t := range namedTemplates {
		if t.Name == name {
			return t, nil
		}
	}

	t := Template{Name: name}
	for _, field := range strings.Split(name, "+") {
		p, ok := partNames[strings.TrimSpace(field)]
		if !ok {
			return None, fmt.Errorf("unknown log template %q (known: %s, or parts %s)",
				name, strings.Join(TemplateNames(), ", "), strings.Join(sortedPartNames(), "+"))
		}
		t.Parts |= p
	}
	return t, nil
}

func sortedPartNames() []string {
	names := make([]string, 0, len(partNames))
	for n := range partNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
