// Package schemas embeds the JSON Schema documents used to validate demo API
// responses.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed jsonschemas/*.json
var embedded embed.FS

// FS holds the schema documents keyed by file name.
var FS fs.FS = mustSub(embedded, "jsonschemas")

// BookList validates the body of GET /BookStore/v1/Books.
const BookList = "booklist_response.json"

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Load returns the named schema document.
func Load(name string) ([]byte, error) {
	data, err := fs.ReadFile(FS, name)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", name, err)
	}
	return data, nil
}

// Names lists the embedded schemas.
func Names() []string {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
