package history

// HistoryState is the immutable pair of undo/redo branches plus the recency
// bookkeeping used for event-grouping decisions. A HistoryState is replaced
// wholesale on every transaction; nothing in this package ever mutates one
// in place.
type HistoryState struct {
	// Done is the undo branch: events that can be undone.
	Done Branch
	// Undone is the redo branch: events that can be redone.
	Undone Branch
	// PrevRanges is the flat [from0, to0, from1, to1, ...] list of ranges
	// touched by the most recently recorded edit, in current-document
	// coordinates. Nil if there is no recent edit to group against.
	PrevRanges []int
	// PrevTime is the timestamp of the most recently recorded edit, used
	// together with PrevRanges to decide whether the next edit continues
	// the same event.
	PrevTime int64
}

// NewHistoryState returns the initial HistoryState: two empty branches, no
// recorded ranges or time.
func NewHistoryState() *HistoryState {
	return &HistoryState{Done: NewBranch(), Undone: NewBranch()}
}

// UndoDepth is the number of undoable events currently recorded.
func UndoDepth(state *HistoryState) int { return state.Done.EventCount() }

// RedoDepth is the number of redoable events currently recorded.
func RedoDepth(state *HistoryState) int { return state.Undone.EventCount() }
