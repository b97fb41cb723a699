package history

// Item is one entry in a Branch: a forward position map, optionally paired
// with the inverted step that undoes the edit the map describes, and
// optionally marking the start of an undoable event.
//
// Item is an immutable value. Nothing in this package ever mutates an Item
// after construction; all "changes" produce a new Item.
type Item struct {
	// Map is the forward position map for this entry. Always present.
	Map PositionMap
	// Step is the inverted edit: applying it to the post-edit document
	// yields the pre-edit document. Nil for a map-only item.
	Step Step
	// Selection is the bookmark for the selection active before this
	// event's first step. Only ever set on an Item whose Step is non-nil.
	Selection SelectionBookmark
	// MirrorOffset, when non-negative, means this item's Map is the inverse
	// of the map at index (i - MirrorOffset) in the same Branch. -1 means no
	// mirror is recorded.
	MirrorOffset int
}

// NoMirror is the sentinel MirrorOffset value meaning "no mirror recorded".
const NoMirror = -1

func newMapOnlyItem(m PositionMap) Item {
	return Item{Map: m, MirrorOffset: NoMirror}
}

func newStepItem(m PositionMap, step Step, sel SelectionBookmark) Item {
	return Item{Map: m, Step: step, Selection: sel, MirrorOffset: NoMirror}
}

// hasStep reports whether this Item records an undoable edit, as opposed to
// being a map-only placeholder for an external change.
func (it Item) hasStep() bool { return it.Step != nil }

// Merge attempts to fuse it with other, the Item recorded directly after it
// in the same Branch. It succeeds only when both carry a step and other
// does not itself start a new event (no selection) — the shape produced by
// two immediately adjacent keystrokes within the same event.
//
// On success it returns the fused Item and true. The fused Item's selection
// is it.Selection, preserving the older item's event boundary.
func (it Item) Merge(other Item) (Item, bool) {
	if !it.hasStep() || !other.hasStep() || other.Selection != nil {
		return Item{}, false
	}
	// Undo applies the newer inverted step first, so other's step leads.
	fused, ok := other.Step.Merge(it.Step)
	if !ok {
		return Item{}, false
	}
	return Item{
		Map:          fused.GetMap().Invert(),
		Step:         fused,
		Selection:    it.Selection,
		MirrorOffset: NoMirror,
	}, true
}
