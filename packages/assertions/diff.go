package assertions

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffThreshold = 40

func needsDiff(a, b string) bool {
	return len(a) > diffThreshold || len(b) > diffThreshold
}

// inlineDiff renders the edit from expected to actual as
// "same[-removed-]{+added+}same".
func inlineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
