// Package history implements a selective undo/redo engine for a
// transactional document editor: a two-branch (done/undone) record of
// inverted edits and their position maps, event grouping, a rebase protocol
// that folds remote edits into the history without discarding local
// undoable events, and a compression pass over accumulated map-only items.
//
// The engine never reaches past the interfaces declared in this file. Every
// concrete document/step/transform type lives in sibling packages (stepalg,
// doc) that implement these interfaces; history itself knows nothing about
// text, runes, or wire formats.
package history

// Assoc biases a point mapping to one side of an edit boundary.
type Assoc int

const (
	// AssocBefore keeps a position attached to the content immediately
	// before the edit.
	AssocBefore Assoc = iota
	// AssocAfter keeps a position attached to the content immediately after
	// the edit.
	AssocAfter
)

// Document is the opaque editor document a Step is applied to or inverted
// against.
type Document interface {
	// Length reports the document's size in the position units every other
	// interface in this package uses.
	Length() int
}

// Step is a single forward edit. The history engine only ever stores the
// inverse of a Step (see Item), produced by calling Invert on the step as it
// was originally applied.
type Step interface {
	// Invert returns the Step that undoes this Step, given the document it
	// was originally applied to (the document *before* this step ran).
	Invert(pre Document) (Step, error)
	// Map re-expresses this Step so it applies correctly after the document
	// has additionally been changed by everything recorded in m. The second
	// return value is false when the step could not be meaningfully mapped
	// (e.g. its target text was entirely deleted by an intervening edit).
	Map(m Mapping) (Step, bool)
	// Merge attempts to fuse this Step with a Step that was applied directly
	// afterwards, producing one Step equivalent to applying both in
	// sequence. The second return value is false when the two steps do not
	// merge (e.g. they touch disjoint regions).
	Merge(other Step) (Step, bool)
	// GetMap returns the forward position map this Step induces.
	GetMap() PositionMap
}

// PositionMap describes how positions in a document move across a single
// edit.
type PositionMap interface {
	// Invert returns the position map for the inverse edit.
	Invert() PositionMap
	// ForEach yields every touched range as
	// (startOld, endOld, startNew, endNew) in the order the edit applies
	// them.
	ForEach(fn func(startOld, endOld, startNew, endNew int))
	// Map translates a single position through this map.
	Map(pos int, assoc Assoc) int
}

// Mapping is an ordered composition of PositionMaps, with optional mirror
// bookkeeping between a map and its inverse recorded elsewhere in the same
// Mapping.
type Mapping interface {
	// AppendMap appends m. mirror, when >= 0, names the index (within this
	// Mapping, after appending) of a map that is the exact inverse of m.
	AppendMap(m PositionMap, mirror int)
	// Slice returns the sub-mapping covering maps [from, to).
	Slice(from, to int) Mapping
	// GetMirror reports the mirror index recorded for index, if any.
	GetMirror(index int) (int, bool)
	// Map composes every map's effect on pos, in order.
	Map(pos int, assoc Assoc) int
	// Len is the number of maps in the mapping.
	Len() int
}

// Transform threads a sequence of forward Steps through successive document
// states, accumulating both the steps taken, the documents they started
// from, and the cumulative Mapping.
type Transform interface {
	// MaybeStep attempts to apply step to the transform's current document.
	// On success it returns the new document and true; on failure it
	// returns the previous document unchanged and false (the step is not
	// added).
	MaybeStep(step Step) (Document, bool)
	// Steps returns the forward steps accumulated so far, in order.
	Steps() []Step
	// Docs returns, for each step, the document it was applied to (so
	// Docs()[i] is the pre-edit document for Steps()[i]).
	Docs() []Document
	// Mapping returns the cumulative Mapping of every step applied so far.
	Mapping() Mapping
	// SetSelection records the selection the transform should leave the
	// editor in once dispatched.
	SetSelection(sel SelectionBookmark)
	// Selection returns the selection previously set, if any.
	Selection() (SelectionBookmark, bool)
	// ScrollIntoView marks the transform as wanting the resulting selection
	// scrolled into view once dispatched; it carries no other behavior here.
	ScrollIntoView()
	// Meta returns a metadata value previously attached with SetMeta.
	Meta(key string) (any, bool)
	// SetMeta attaches a metadata value to the transform.
	SetMeta(key string, value any)
	// Time is when the transform was created, used for event grouping.
	Time() int64
}

// SelectionBookmark is a position reference that survives document edits by
// being re-mapped through a Mapping, and can later be resolved against a
// concrete document to produce a live selection.
type SelectionBookmark interface {
	Map(m Mapping) SelectionBookmark
}

// Plugin is the minimal shape of the host's plugin infrastructure the engine
// needs: whether it is collaboration-aware, for the preserveItems decision.
// The engine calls nothing on a plugin beyond Collaborative.
type Plugin interface {
	// Collaborative reports whether this plugin may later rebase items it
	// did not itself add (e.g. a collaborative-editing plugin). If any
	// installed plugin answers true, the engine must not merge or mutate
	// existing Items (preserveItems).
	Collaborative() bool
}

// EditorState is the host state the engine reads from when building a new
// transform (for undo/redo) and when deciding preserveItems.
type EditorState interface {
	Selection() SelectionBookmark
	Plugins() []Plugin
	// Tr returns a fresh, empty Transform rooted at this state's document.
	Tr() Transform
}
