package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Status values used in result files.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusBroken  = "broken"
	StatusSkipped = "skipped"
)

type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type AttachmentRef struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

type StatusDetails struct {
	Message string `json:"message,omitempty"`
}

// Result is the on-disk form of one scenario outcome.
type Result struct {
	UUID          string          `json:"uuid"`
	Name          string          `json:"name"`
	FullName      string          `json:"fullName,omitempty"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	StatusDetails *StatusDetails  `json:"statusDetails,omitempty"`
	Start         int64           `json:"start"`
	Stop          int64           `json:"stop"`
	Labels        []Label         `json:"labels,omitempty"`
	Steps         []Step          `json:"steps,omitempty"`
	Attachments   []AttachmentRef `json:"attachments,omitempty"`
}

// Writer stores results and their exchanges under a directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("report directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Dir() string {
	return w.dir
}

// Write stores every exchange as an attachment, links them from res and
// stores res. It returns the path of the result file.
func (w *Writer) Write(res Result, exchanges []Exchange) (string, error) {
	if res.UUID == "" {
		res.UUID = uuid.NewString()
	}

	for _, ex := range exchanges {
		source := ex.ID + "-attachment.json"
		if err := writeJSONFile(filepath.Join(w.dir, source), ex); err != nil {
			return "", fmt.Errorf("writing attachment %s: %w", ex.Name, err)
		}
		res.Attachments = append(res.Attachments, AttachmentRef{
			Name:   ex.Name,
			Source: source,
			Type:   "application/json",
		})
	}

	path := filepath.Join(w.dir, res.UUID+"-result.json")
	if err := writeJSONFile(path, res); err != nil {
		return "", fmt.Errorf("writing result %s: %w", res.Name, err)
	}
	return path, nil
}

// Millis converts t to the epoch milliseconds used by result files.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
