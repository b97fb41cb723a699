package stepalg

import "github.com/sergi/go-diff/diffmatchpatch"

// DiffOperation builds the Operation that turns oldText into newText, using
// Myers diff rather than requiring the caller to know exactly what changed.
// This is the bridge a host uses when it only has two document snapshots
// (e.g. reconciling an externally-edited file) and needs a single step.
func DiffOperation(oldText, newText string) *Operation {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	op := NewOperation()
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op.Retain(len([]rune(d.Text)))
		case diffmatchpatch.DiffInsert:
			op.Insert(d.Text)
		case diffmatchpatch.DiffDelete:
			op.Delete(len([]rune(d.Text)))
		}
	}
	return op
}

// DiffStep is a convenience constructor building the history.Step that
// turns oldText into newText.
func DiffStep(oldText, newText string) *OpStep {
	return NewStep(DiffOperation(oldText, newText))
}
