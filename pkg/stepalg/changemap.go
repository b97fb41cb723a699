package stepalg

import "github.com/xheldon-t/prosemirror-history/pkg/history"

// span records one touched range produced by a run of an Operation: the
// half-open [startOld, endOld) it consumed and the half-open
// [startNew, endNew) it produced in its place.
type span struct{ startOld, endOld, startNew, endNew int }

// ChangeMap is the history.PositionMap for a single Operation.
type ChangeMap struct {
	spans []span
}

func newChangeMap(op *Operation) *ChangeMap {
	cm := &ChangeMap{}
	oldPos, newPos := 0, 0
	for _, r := range op.runs {
		switch r.Kind {
		case KindRetain:
			oldPos += r.N
			newPos += r.N
		case KindDelete:
			cm.spans = append(cm.spans, span{oldPos, oldPos + r.N, newPos, newPos})
			oldPos += r.N
		case KindInsert:
			n := len([]rune(r.Text))
			cm.spans = append(cm.spans, span{oldPos, oldPos, newPos, newPos + n})
			newPos += n
		}
	}
	return cm
}

// Invert returns the PositionMap for the opposite edit: old and new swap
// roles in every recorded span.
func (cm *ChangeMap) Invert() history.PositionMap {
	out := &ChangeMap{spans: make([]span, len(cm.spans))}
	for i, s := range cm.spans {
		out.spans[i] = span{s.startNew, s.endNew, s.startOld, s.endOld}
	}
	return out
}

// ForEach yields every touched range in application order.
func (cm *ChangeMap) ForEach(fn func(startOld, endOld, startNew, endNew int)) {
	for _, s := range cm.spans {
		fn(s.startOld, s.endOld, s.startNew, s.endNew)
	}
}

// Map translates a single position through this map. At a span boundary
// that actually deleted or replaced content, the boundary wins outright
// (a position at the span's start always stays before it, a position at
// its end always lands after it) regardless of assoc: assoc only decides
// the ambiguous cases, a position strictly inside a replaced span, or a
// position sitting at a pure insertion's boundary where there was no old
// content to anchor to either side.
func (cm *ChangeMap) Map(pos int, assoc history.Assoc) int {
	delta := 0
	for _, s := range cm.spans {
		if pos < s.startOld {
			return pos + delta
		}
		if pos > s.endOld {
			delta += (s.endNew - s.startNew) - (s.endOld - s.startOld)
			continue
		}

		oldSize := s.endOld - s.startOld
		side := assoc
		switch {
		case oldSize == 0:
			// Pure insertion: assoc alone decides.
		case pos == s.startOld:
			side = history.AssocBefore
		case pos == s.endOld:
			side = history.AssocAfter
		}
		if side == history.AssocBefore {
			return s.startNew + delta
		}
		return s.endNew + delta
	}
	return pos + delta
}
