package history

import "github.com/xheldon-t/prosemirror-history/pkg/itemlist"

// DepthOverflow is the slack a Branch tolerates past its configured depth
// before it pays the cost of trimming. Trimming only once eventCount exceeds
// depth+DepthOverflow, and then back down to depth, rather than on every
// single event, amortizes the O(n) cost of locating and slicing the trim
// point.
const DepthOverflow = 20

// MaxEmptyItems is the number of accumulated map-only items that triggers a
// compression pass during rebase.
const MaxEmptyItems = 500

// Branch is one of a HistoryState's two ordered item sequences (done or
// undone). It is an immutable value; every method here returns a new
// Branch rather than mutating the receiver.
type Branch struct {
	items      itemlist.List[Item]
	eventCount int
}

// NewBranch returns an empty Branch.
func NewBranch() Branch { return Branch{items: itemlist.Empty[Item]()} }

// EventCount is the number of distinct undoable (or redoable) events
// recorded on this Branch.
func (b Branch) EventCount() int { return b.eventCount }

// Items exposes the underlying persistent sequence for callers (e.g.
// rebase/compress orchestration, inspection, tests) that need read access
// beyond EventCount.
func (b Branch) Items() itemlist.List[Item] { return b.items }

// AddTransform records the inverse of every step in tr onto the branch.
// sel, when non-nil, opens a new event at the transform's first step;
// passing nil continues the branch's current event. depth bounds the
// number of events retained (subject to DepthOverflow slack). preserveItems
// disables merging of the new items into the existing tail, which is
// required once a collaborative plugin may later rebase those items.
func (b Branch) AddTransform(tr Transform, sel SelectionBookmark, depth int, preserveItems bool) Branch {
	steps := tr.Steps()
	if len(steps) == 0 {
		return b
	}
	docs := tr.Docs()
	items := b.items
	eventCount := b.eventCount
	pending := sel

	for i, step := range steps {
		var newItem Item
		if inv, err := step.Invert(docs[i]); err == nil {
			newItem = newStepItem(step.GetMap(), inv, nil)
		} else {
			newItem = newMapOnlyItem(step.GetMap())
		}
		startsEvent := i == 0 && pending != nil
		if startsEvent {
			newItem.Selection = pending
		}

		merged := false
		if !preserveItems && !startsEvent && items.Len() > 0 {
			tail := items.At(items.Len() - 1)
			if m, ok := tail.Merge(newItem); ok {
				items = items.Slice(0, items.Len()-1).Append(m)
				merged = true
			}
		}
		if !merged {
			items = items.Append(newItem)
		}
		if startsEvent {
			eventCount++
			pending = nil
		}
	}

	return Branch{items: items, eventCount: eventCount}.trimOverflow(depth)
}

// trimOverflow drops the oldest events once eventCount exceeds depth by
// more than DepthOverflow, per the overflow-slack policy.
func (b Branch) trimOverflow(depth int) Branch {
	if depth < 0 {
		depth = 0
	}
	if b.eventCount <= depth+DepthOverflow {
		return b
	}
	overflow := b.eventCount - depth
	seen := 0
	cut := -1
	b.items.ForEach(func(i int, it Item) {
		if cut >= 0 {
			return
		}
		if it.Selection != nil {
			seen++
			if seen == overflow+1 {
				cut = i
			}
		}
	})
	if cut < 0 {
		return b
	}
	return Branch{items: b.items.Slice(cut, b.items.Len()), eventCount: b.eventCount - overflow}
}

// PopResult is what PopEvent returns on success: the transform that undoes
// (or redoes) the event, the selection to restore, and the branch with that
// event removed.
type PopResult struct {
	Transform Transform
	Selection SelectionBookmark
	Remaining Branch
}

// PopEvent builds the transform that undoes the branch's most recent event.
// state supplies a fresh Transform rooted at the current document.
// preserveItems keeps the popped event's bookkeeping around, as map-only
// items (the map-only items it passed, then the maps of the steps it
// applied), so a later rebase can still account for it, rather than
// discarding it outright. These items carry no MirrorOffset.
func (b Branch) PopEvent(state EditorState, preserveItems bool) (*PopResult, bool) {
	if b.eventCount == 0 {
		return nil, false
	}
	n := b.items.Len()
	end := -1
	for i := n - 1; i >= 0; i-- {
		if b.items.At(i).Selection != nil {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, false
	}

	tr := state.Tr()
	remap := newMapPipeline()
	var addBefore []Item
	var addAfter []Item
	tracking := preserveItems

	for i := end; i < n; i++ {
		it := b.items.At(i)
		if !it.hasStep() {
			tracking = true
			if preserveItems {
				addBefore = append(addBefore, it)
			}
			remap.AppendMap(it.Map, NoMirror)
			continue
		}

		step := it.Step
		if tracking && remap.Len() > 0 {
			mapped, ok := step.Map(remap)
			if !ok {
				tracking = true
				continue
			}
			step = mapped
		}
		if _, ok := tr.MaybeStep(step); !ok {
			tracking = true
			continue
		}
		fwd := step.GetMap()
		if preserveItems {
			addAfter = append(addAfter, Item{Map: fwd, MirrorOffset: NoMirror})
		}
		remap.AppendMap(fwd, NoMirror)
	}

	sel := b.items.At(end).Selection
	if remap.Len() > 0 {
		sel = sel.Map(remap)
	}
	tr.SetSelection(sel)
	tr.ScrollIntoView()

	kept := b.items.Slice(0, end)
	for i := len(addBefore) - 1; i >= 0; i-- {
		kept = kept.Append(addBefore[i])
	}
	for _, it := range addAfter {
		kept = kept.Append(it)
	}

	return &PopResult{
		Transform: tr,
		Selection: sel,
		Remaining: Branch{items: kept, eventCount: b.eventCount - 1},
	}, true
}

// AddMaps appends each map as a map-only item, tracking positional effects
// of a non-recorded transaction. A no-op on an empty branch: there is
// nothing yet to keep aligned against.
func (b Branch) AddMaps(maps []PositionMap) Branch {
	if b.eventCount == 0 || len(maps) == 0 {
		return b
	}
	items := b.items
	for _, m := range maps {
		items = items.Append(newMapOnlyItem(m))
	}
	return Branch{items: items, eventCount: b.eventCount}
}

// Rebased folds a remote rebase of this branch's last rebasedCount items
// into the branch: rebasedTransform carries, for each surviving item, its
// new forward step and the mapping that locates it. Items whose mirror
// cannot be found were absorbed by the remote change and are dropped.
func (b Branch) Rebased(rebasedTransform Transform, rebasedCount int) Branch {
	if b.eventCount == 0 {
		return b
	}
	n := b.items.Len()
	start := n - rebasedCount
	if start < 0 {
		start = 0
	}
	oldTail := b.items.Slice(start, n).ToSlice()

	tailEvents := 0
	for _, it := range oldTail {
		if it.Selection != nil {
			tailEvents++
		}
	}

	steps := rebasedTransform.Steps()
	docs := rebasedTransform.Docs()
	mapping := rebasedTransform.Mapping()

	newUntil := mapping.Len()
	var rebasedItems []Item
	for idx := len(oldTail) - 1; idx >= 0; idx-- {
		it := oldTail[idx]
		mirror, ok := mapping.GetMirror(rebasedCount + idx)
		if !ok {
			continue // absorbed by the remote change
		}
		if mirror < newUntil {
			newUntil = mirror
		}
		if mirror < 0 || mirror >= len(steps) {
			continue
		}
		fwdStep := steps[mirror]
		var newItem Item
		if it.hasStep() {
			if inv, err := fwdStep.Invert(docs[mirror]); err == nil {
				sel := it.Selection
				if sel != nil {
					sel = sel.Map(mapping.Slice(mirror, rebasedCount+idx))
				}
				newItem = Item{Map: fwdStep.GetMap(), Step: inv, Selection: sel, MirrorOffset: NoMirror}
			} else {
				newItem = newMapOnlyItem(fwdStep.GetMap())
			}
		} else {
			newItem = newMapOnlyItem(fwdStep.GetMap())
		}
		rebasedItems = append([]Item{newItem}, rebasedItems...)
	}

	eventCount := b.eventCount - tailEvents
	for _, it := range rebasedItems {
		if it.Selection != nil {
			eventCount++
		}
	}

	items := b.items.Slice(0, start)
	for i := rebasedCount; i < newUntil && i < len(steps); i++ {
		items = items.Append(newMapOnlyItem(steps[i].GetMap()))
	}
	for _, it := range rebasedItems {
		items = items.Append(it)
	}

	out := Branch{items: items, eventCount: eventCount}
	if out.emptyItemCount() > MaxEmptyItems {
		out = out.Compress(out.items.Len() - len(rebasedItems))
	}
	return out
}

// emptyItemCount counts the map-only items in the branch.
func (b Branch) emptyItemCount() int {
	n := 0
	b.items.ForEach(func(_ int, it Item) {
		if !it.hasStep() {
			n++
		}
	})
	return n
}

// Compress folds every map-only item below index upto into the forward map
// of its neighboring step items, leaving items at or above upto untouched
// (the rebase protocol requires those to stay pointwise identifiable).
func (b Branch) Compress(upto int) Branch {
	n := b.items.Len()
	if upto < 0 {
		upto = 0
	}
	if upto > n {
		upto = n
	}

	var upper []Item
	eventCount := 0
	for i := upto; i < n; i++ {
		it := b.items.At(i)
		upper = append(upper, it)
		if it.Selection != nil {
			eventCount++
		}
	}

	acc := b.Remapping(0, upto)
	mapFrom := acc.Len()
	var lowerRev []Item
	for i := upto - 1; i >= 0; i-- {
		it := b.items.At(i)
		if !it.hasStep() {
			mapFrom--
			continue
		}
		from := mapFrom
		if from < 0 {
			from = 0
		}
		mapped, ok := it.Step.Map(acc.Slice(from, acc.Len()))
		mapFrom--
		if !ok {
			continue
		}
		fwd := mapped.GetMap()
		acc.AppendMap(fwd, NoMirror)
		newItem := Item{Map: fwd.Invert(), Step: mapped, Selection: it.Selection, MirrorOffset: NoMirror}
		if len(lowerRev) > 0 {
			if merged, ok2 := newItem.Merge(lowerRev[len(lowerRev)-1]); ok2 {
				lowerRev[len(lowerRev)-1] = merged
				continue
			}
		}
		lowerRev = append(lowerRev, newItem)
	}

	lower := make([]Item, len(lowerRev))
	for i, it := range lowerRev {
		lower[len(lowerRev)-1-i] = it
	}
	for _, it := range lower {
		if it.Selection != nil {
			eventCount++
		}
	}

	out := itemlist.FromSlice(lower)
	for _, it := range upper {
		out = out.Append(it)
	}
	return Branch{items: out, eventCount: eventCount}
}

// Remapping builds a Mapping out of the forward maps of items[from:to],
// wiring mirror relationships where both halves of a mirrored pair lie
// within the range.
func (b Branch) Remapping(from, to int) Mapping {
	items := b.items.Slice(from, to).ToSlice()
	mp := newMapPipeline()
	for i, it := range items {
		mirror := NoMirror
		if it.MirrorOffset != NoMirror {
			partner := i - it.MirrorOffset
			if partner >= 0 && partner < len(items) {
				mirror = partner
			}
		}
		mp.AppendMap(it.Map, mirror)
	}
	return mp
}
