package stepalg

// Transform implements the classic OT transform: given two operations a, b
// that both apply to the same base document, it produces a', b' such that
// apply(apply(doc, a), b') == apply(apply(doc, b), a').
//
// It walks both run lists in lockstep, consuming whichever side has runs
// left and splitting runs that only partially overlap the other side's
// current run.
func Transform(a, b *Operation) (*Operation, *Operation, error) {
	if a.baseLength != b.baseLength {
		return nil, nil, ErrBaseLengthMismatch
	}
	aPrime, bPrime := NewOperation(), NewOperation()
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
		if aRun != nil && aRun.Kind == KindInsert {
			aPrime.Insert(aRun.Text)
			bPrime.Retain(len([]rune(aRun.Text)))
			nextA()
			continue
		}
		if bRun != nil && bRun.Kind == KindInsert {
			aPrime.Retain(len([]rune(bRun.Text)))
			bPrime.Insert(bRun.Text)
			nextB()
			continue
		}
		if aRun == nil || bRun == nil {
			return nil, nil, ErrBaseLengthMismatch
		}
		switch {
		case aRun.Kind == KindRetain && bRun.Kind == KindRetain:
			n := min(aRun.N, bRun.N)
			aPrime.Retain(n)
			bPrime.Retain(n)
			aRun, bRun = shrink(aRun, n), shrink(bRun, n)
		case aRun.Kind == KindDelete && bRun.Kind == KindDelete:
			n := min(aRun.N, bRun.N)
			aRun, bRun = shrink(aRun, n), shrink(bRun, n)
		case aRun.Kind == KindDelete && bRun.Kind == KindRetain:
			n := min(aRun.N, bRun.N)
			aPrime.Delete(n)
			aRun, bRun = shrink(aRun, n), shrink(bRun, n)
		case aRun.Kind == KindRetain && bRun.Kind == KindDelete:
			n := min(aRun.N, bRun.N)
			bPrime.Delete(n)
			aRun, bRun = shrink(aRun, n), shrink(bRun, n)
		}
		if aRun != nil && aRun.N == 0 {
			nextA()
		}
		if bRun != nil && bRun.N == 0 {
			nextB()
		}
	}
	return aPrime, bPrime, nil
}

// shrink returns a copy of r with n consumed from its length; once fully
// consumed the copy has N == 0. Insert runs are never passed here — they are handled
// before reaching the retain/delete switch in Transform.
func shrink(r *Run, n int) *Run {
	if r.N == n {
		return &Run{Kind: r.Kind, N: 0}
	}
	return &Run{Kind: r.Kind, N: r.N - n}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
