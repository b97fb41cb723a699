package stepalg

import (
	"errors"

	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

// ErrNotTextDocument is returned by OpStep.Invert when given a Document that
// cannot produce its text content.
var ErrNotTextDocument = errors.New("stepalg: invert requires a document exposing String()")

// TextDocument is the richer document contract OpStep needs to invert
// itself: the plain text a run of runs was applied to.
type TextDocument interface {
	history.Document
	String() string
}

// OpStep adapts an Operation to history.Step.
type OpStep struct {
	Op *Operation
}

// NewStep wraps op as a history.Step.
func NewStep(op *Operation) *OpStep {
	return &OpStep{Op: op}
}

func (s *OpStep) Invert(pre history.Document) (history.Step, error) {
	td, ok := pre.(TextDocument)
	if !ok {
		return nil, ErrNotTextDocument
	}
	return &OpStep{Op: s.Op.Invert(td.String())}, nil
}

// Map rebuilds this step against an intervening Mapping by translating each
// of its runs' old-document boundaries through m and filling the gaps with
// retains. A delete run whose mapped span collapses to nothing was already
// absorbed by the intervening change and is dropped rather than failing the
// whole step: the step degrades gracefully instead of vanishing outright.
func (s *OpStep) Map(m history.Mapping) (history.Step, bool) {
	out := NewOperation()
	oldPos := 0
	lastNew := 0

	flushRetainTo := func(target int) {
		if target > lastNew {
			out.Retain(target - lastNew)
			lastNew = target
		}
	}

	for _, r := range s.Op.runs {
		switch r.Kind {
		case KindInsert:
			out.Insert(r.Text)
		case KindRetain:
			newStart := m.Map(oldPos, history.AssocAfter)
			newEnd := m.Map(oldPos+r.N, history.AssocBefore)
			if newEnd > newStart {
				flushRetainTo(newStart)
				out.Retain(newEnd - newStart)
				lastNew = newEnd
			}
			oldPos += r.N
		case KindDelete:
			newStart := m.Map(oldPos, history.AssocAfter)
			newEnd := m.Map(oldPos+r.N, history.AssocBefore)
			if newEnd > newStart {
				flushRetainTo(newStart)
				out.Delete(newEnd - newStart)
				lastNew = newEnd
			}
			oldPos += r.N
		}
	}

	return &OpStep{Op: out}, true
}

func (s *OpStep) Merge(other history.Step) (history.Step, bool) {
	os, ok := other.(*OpStep)
	if !ok {
		return nil, false
	}
	if !s.Op.ShouldBeComposedWith(os.Op) {
		return nil, false
	}
	composed, err := Compose(s.Op, os.Op)
	if err != nil {
		return nil, false
	}
	return &OpStep{Op: composed}, true
}

func (s *OpStep) GetMap() history.PositionMap {
	return newChangeMap(s.Op)
}
