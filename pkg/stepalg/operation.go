package stepalg

import "errors"

// ErrBaseLengthMismatch is returned when an Operation is applied to a
// document whose length does not match the Operation's recorded BaseLength.
var ErrBaseLengthMismatch = errors.New("stepalg: operation base length does not match document length")

// Operation is an ordered sequence of retain/insert/delete runs describing a
// single edit from a document of BaseLength runes to one of TargetLength
// runes.
type Operation struct {
	runs         []Run
	baseLength   int
	targetLength int
}

// NewOperation returns an empty Operation ready to be built up with Retain,
// Insert and Delete.
func NewOperation() *Operation {
	return &Operation{runs: make([]Run, 0, 4)}
}

// Retain appends a run that leaves the next n runes untouched.
func (o *Operation) Retain(n int) *Operation {
	if n <= 0 {
		return o
	}
	o.baseLength += n
	o.targetLength += n
	o.appendRun(retain(n))
	return o
}

// Delete appends a run that removes the next n runes of the base document.
func (o *Operation) Delete(n int) *Operation {
	if n <= 0 {
		return o
	}
	o.baseLength += n
	o.appendRun(del(n))
	return o
}

// Insert appends a run that introduces text not present in the base document.
func (o *Operation) Insert(text string) *Operation {
	if text == "" {
		return o
	}
	o.targetLength += len([]rune(text))
	o.appendRun(ins(text))
	return o
}

// appendRun fuses consecutive runs of the same kind, mirroring the ot.js
// convention that an Operation never carries two adjacent runs it could have
// merged at construction time. Insert is kept ahead of Delete at the same
// position by convention (callers build inserts before deletes at a point).
func (o *Operation) appendRun(r Run) {
	if len(o.runs) == 0 {
		o.runs = append(o.runs, r)
		return
	}
	last := &o.runs[len(o.runs)-1]
	if last.Kind == r.Kind {
		switch r.Kind {
		case KindRetain, KindDelete:
			last.N += r.N
		case KindInsert:
			last.Text += r.Text
		}
		return
	}
	// An insert that arrives right after a delete is reordered ahead of it,
	// which keeps the canonical form used by Transform/Compose below.
	if r.Kind == KindInsert && last.Kind == KindDelete {
		if len(o.runs) >= 2 && o.runs[len(o.runs)-2].Kind == KindInsert {
			o.runs[len(o.runs)-2].Text += r.Text
			return
		}
		o.runs = append(o.runs, Run{})
		copy(o.runs[len(o.runs)-1:], o.runs[len(o.runs)-2:len(o.runs)-1])
		o.runs[len(o.runs)-2] = r
		return
	}
	o.runs = append(o.runs, r)
}

// Runs exposes the underlying run list for read-only iteration.
func (o *Operation) Runs() []Run { return o.runs }

// BaseLength is the rune length of the document this Operation must be
// applied to.
func (o *Operation) BaseLength() int { return o.baseLength }

// TargetLength is the rune length of the document produced by applying this
// Operation.
func (o *Operation) TargetLength() int { return o.targetLength }

// IsNoop reports whether applying the Operation changes nothing at all.
func (o *Operation) IsNoop() bool {
	for _, r := range o.runs {
		if r.Kind != KindRetain {
			return false
		}
	}
	return true
}

// Apply runs the Operation against doc and returns the resulting document.
func (o *Operation) Apply(doc string) (string, error) {
	runes := []rune(doc)
	if len(runes) != o.baseLength {
		return "", ErrBaseLengthMismatch
	}
	var out []rune
	pos := 0
	for _, r := range o.runs {
		switch r.Kind {
		case KindRetain:
			out = append(out, runes[pos:pos+r.N]...)
			pos += r.N
		case KindDelete:
			pos += r.N
		case KindInsert:
			out = append(out, []rune(r.Text)...)
		}
	}
	return string(out), nil
}

// Invert builds the Operation that undoes o, given the document o was
// originally applied to.
func (o *Operation) Invert(doc string) *Operation {
	runes := []rune(doc)
	inv := NewOperation()
	pos := 0
	for _, r := range o.runs {
		switch r.Kind {
		case KindRetain:
			inv.Retain(r.N)
			pos += r.N
		case KindInsert:
			inv.Delete(len([]rune(r.Text)))
		case KindDelete:
			inv.Insert(string(runes[pos : pos+r.N]))
			pos += r.N
		}
	}
	return inv
}

// ShouldBeComposedWith reports whether it is sensible to fold other onto the
// tail of o without losing undo granularity a user would expect to keep
// separate — e.g. two inserts that grow the same word, or two deletes that
// shrink the same span from the same side.
func (o *Operation) ShouldBeComposedWith(other *Operation) bool {
	if o.IsNoop() || other.IsNoop() {
		return true
	}
	startA, simpleA := simpleRun(o)
	startB, simpleB := simpleRun(other)
	if simpleA == nil || simpleB == nil {
		return false
	}
	switch {
	case simpleA.Kind == KindInsert && simpleB.Kind == KindInsert:
		return startA+simpleA.length() == startB
	case simpleA.Kind == KindDelete && simpleB.Kind == KindDelete:
		// Forward "delete" key: each new delete starts at the same offset.
		if startB == startA {
			return true
		}
		// Backspacing: each new delete ends where the previous one started.
		return startB+simpleB.N == startA
	default:
		return false
	}
}

// simpleRun returns the offset and the single non-retain run of an Operation
// that consists of at most one retain, one insert-or-delete, and one
// trailing retain — the shape produced by a single text-field edit.
func simpleRun(o *Operation) (int, *Run) {
	offset := 0
	var found *Run
	for i := range o.runs {
		r := &o.runs[i]
		if r.Kind == KindRetain {
			if found == nil {
				offset += r.N
			}
			continue
		}
		if found != nil {
			return 0, nil
		}
		found = r
	}
	return offset, found
}
