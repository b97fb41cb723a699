package stepalg

// Compose merges two sequential operations (a applied then b) into a single
// equivalent Operation, so that apply(apply(doc, a), b) == apply(doc,
// Compose(a, b)).
func Compose(a, b *Operation) (*Operation, error) {
	if a.targetLength != b.baseLength {
		return nil, ErrBaseLengthMismatch
	}
	out := NewOperation()
	aRuns, bRuns := a.runs, b.runs
	ai, bi := 0, 0
	var aRun, bRun *Run
	nextA := func() {
		if ai < len(aRuns) {
			r := aRuns[ai]
			aRun = &r
			ai++
		} else {
			aRun = nil
		}
	}
	nextB := func() {
		if bi < len(bRuns) {
			r := bRuns[bi]
			bRun = &r
			bi++
		} else {
			bRun = nil
		}
	}
	nextA()
	nextB()

	for aRun != nil || bRun != nil {
		if aRun != nil && aRun.Kind == KindDelete {
			out.Delete(aRun.N)
			nextA()
			continue
		}
		if bRun != nil && bRun.Kind == KindInsert {
			out.Insert(bRun.Text)
			nextB()
			continue
		}
		if aRun == nil || bRun == nil {
			return nil, ErrBaseLengthMismatch
		}
		switch {
		case aRun.Kind == KindRetain && bRun.Kind == KindRetain:
			n := min(aRun.N, bRun.N)
			out.Retain(n)
			aRun, bRun = shrink(aRun, n), shrink(bRun, n)
		case aRun.Kind == KindInsert && bRun.Kind == KindRetain:
			text := []rune(aRun.Text)
			n := min(len(text), bRun.N)
			out.Insert(string(text[:n]))
			aRun = &Run{Kind: KindInsert, Text: string(text[n:])}
			bRun = shrink(bRun, n)
		case aRun.Kind == KindInsert && bRun.Kind == KindDelete:
			text := []rune(aRun.Text)
			n := min(len(text), bRun.N)
			// The two cancel out over their overlap: neither a retain, an
			// insert, nor a delete survives into the composed operation.
			aRun = &Run{Kind: KindInsert, Text: string(text[n:])}
			bRun = shrink(bRun, n)
		case aRun.Kind == KindRetain && bRun.Kind == KindDelete:
			n := min(aRun.N, bRun.N)
			out.Delete(n)
			aRun, bRun = shrink(aRun, n), shrink(bRun, n)
		}
		if aRun != nil && aRun.Kind != KindInsert && aRun.N == 0 {
			nextA()
		}
		if aRun != nil && aRun.Kind == KindInsert && aRun.Text == "" {
			nextA()
		}
		if bRun != nil && bRun.N == 0 {
			nextB()
		}
	}
	return out, nil
}
