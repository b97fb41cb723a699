package history

import (
	"reflect"
	"sync"
	"time"
)

// Metadata keys the engine recognizes on an incoming Transform. Hosts set
// these via Transform.SetMeta to steer classification in Apply.
const (
	// MetaHistory carries a HistoryMeta value: the engine's own emissions,
	// recognized and short-circuited rather than re-recorded.
	MetaHistory = "history$"
	// MetaCloseHistory, when set to true, forces the next recorded edit to
	// start a new event regardless of timing or adjacency.
	MetaCloseHistory = "closeHistory$"
	// MetaAddToHistory, when set to false, marks a transaction as
	// non-recorded: its steps are tracked as map-only items but never
	// become undoable.
	MetaAddToHistory = "addToHistory"
	// MetaAppendedTransaction carries a back-reference (a Transform) to the
	// transaction this one was appended after, letting the engine detect a
	// host hook that appended follow-up steps to an undo/redo.
	MetaAppendedTransaction = "appendedTransaction"
	// MetaRebased carries an int: the count of trailing items on each
	// branch that rebasedTransform has rebased.
	MetaRebased = "rebased"
)

// HistoryMeta is the value stored under MetaHistory on transforms produced
// by Undo/Redo.
type HistoryMeta struct {
	Redo  bool
	State *HistoryState
}

// Config bounds an Engine's retention and grouping behavior.
type Config struct {
	// Depth is the number of events retained per branch before trimming
	// (see DepthOverflow).
	Depth int
	// NewGroupDelay is the maximum gap between two edits that still allows
	// them to be grouped into a single event, given adjacent ranges.
	NewGroupDelay time.Duration
}

// DefaultConfig matches the engine's conventional defaults.
func DefaultConfig() Config {
	return Config{Depth: 100, NewGroupDelay: 500 * time.Millisecond}
}

// Engine classifies incoming transactions and routes them to Branch
// operations, producing the next HistoryState. It also hosts the Undo/Redo
// command entry points, since they need the same preserveItems memo Apply
// does.
type Engine struct {
	config Config

	mu            sync.Mutex
	cacheValid    bool
	cachedPtr     uintptr
	cachedLen     int
	cachedPreserve bool
}

// New returns an Engine configured per config, filling in zero fields with
// DefaultConfig's values.
func New(config Config) *Engine {
	def := DefaultConfig()
	if config.Depth <= 0 {
		config.Depth = def.Depth
	}
	if config.NewGroupDelay <= 0 {
		config.NewGroupDelay = def.NewGroupDelay
	}
	return &Engine{config: config}
}

// preserveItems asks whether any installed plugin is collaboration-aware,
// caching the result by identity of the plugin slice so repeated calls with
// the same plugin list (the common case) skip the scan.
func (e *Engine) preserveItems(plugins []Plugin) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ptr uintptr
	if len(plugins) > 0 {
		ptr = reflect.ValueOf(plugins).Pointer()
	}
	if e.cacheValid && ptr == e.cachedPtr && len(plugins) == e.cachedLen {
		return e.cachedPreserve
	}

	preserve := false
	for _, p := range plugins {
		if p.Collaborative() {
			preserve = true
			break
		}
	}
	e.cachedPtr, e.cachedLen, e.cachedPreserve, e.cacheValid = ptr, len(plugins), preserve, true
	return preserve
}

// Apply classifies tr against state and editorState and returns the next
// HistoryState. It never mutates state.
func (e *Engine) Apply(state *HistoryState, tr Transform, editorState EditorState) *HistoryState {
	if v, ok := tr.Meta(MetaHistory); ok {
		if hm, ok := v.(HistoryMeta); ok {
			return hm.State
		}
	}

	if v, ok := tr.Meta(MetaCloseHistory); ok {
		if closed, _ := v.(bool); closed {
			state = &HistoryState{Done: state.Done, Undone: state.Undone}
		}
	}

	if len(tr.Steps()) == 0 {
		return state
	}

	preserve := e.preserveItems(editorState.Plugins())

	if appendMeta := e.appendedHistoryMeta(tr); appendMeta != nil {
		if appendMeta.Redo {
			done := state.Done.AddTransform(tr, nil, e.config.Depth, preserve)
			return &HistoryState{Done: done, Undone: state.Undone, PrevRanges: touchedRanges(tr), PrevTime: state.PrevTime}
		}
		undone := state.Undone.AddTransform(tr, nil, e.config.Depth, preserve)
		return &HistoryState{Done: state.Done, Undone: undone, PrevRanges: nil, PrevTime: state.PrevTime}
	}

	if count, ok := tr.Meta(MetaRebased); ok {
		n, _ := count.(int)
		done := state.Done.Rebased(tr, n)
		undone := state.Undone.Rebased(tr, n)
		return &HistoryState{Done: done, Undone: undone, PrevRanges: remapRanges(state.PrevRanges, tr.Mapping()), PrevTime: state.PrevTime}
	}

	if v, ok := tr.Meta(MetaAddToHistory); ok {
		if recorded, _ := v.(bool); !recorded {
			done := state.Done.AddMaps(stepMaps(tr))
			undone := state.Undone.AddMaps(stepMaps(tr))
			return &HistoryState{Done: done, Undone: undone, PrevRanges: remapRanges(state.PrevRanges, tr.Mapping()), PrevTime: state.PrevTime}
		}
	}

	_, appended := tr.Meta(MetaAppendedTransaction)
	ranges := touchedRanges(tr)
	if appended {
		ranges = remapRanges(state.PrevRanges, tr.Mapping())
	}
	newEvent := state.PrevTime == 0 ||
		!appended && (tr.Time()-state.PrevTime > e.config.NewGroupDelay.Milliseconds() ||
			!rangesAdjacent(state.PrevRanges, tr))

	// Any genuine forward edit clears the redo stack, whether or not it
	// starts a new undo event: only history replay, rebase, and
	// addToHistory=false transforms (all handled above, with an early
	// return) leave Undone untouched.
	var sel SelectionBookmark
	if newEvent {
		sel = editorState.Selection()
	}
	done := state.Done.AddTransform(tr, sel, e.config.Depth, preserve)

	return &HistoryState{Done: done, Undone: NewBranch(), PrevRanges: ranges, PrevTime: tr.Time()}
}

// appendedHistoryMeta resolves tr's MetaAppendedTransaction back-reference,
// if any, to the HistoryMeta the originating undo/redo attached — meaning
// tr represents follow-up steps a host hook appended after that command.
func (e *Engine) appendedHistoryMeta(tr Transform) *HistoryMeta {
	v, ok := tr.Meta(MetaAppendedTransaction)
	if !ok {
		return nil
	}
	origin, ok := v.(Transform)
	if !ok {
		return nil
	}
	hv, ok := origin.Meta(MetaHistory)
	if !ok {
		return nil
	}
	hm, ok := hv.(HistoryMeta)
	if !ok {
		return nil
	}
	return &hm
}

func touchedRanges(tr Transform) []int {
	steps := tr.Steps()
	if len(steps) == 0 {
		return nil
	}
	last := steps[len(steps)-1]
	var ranges []int
	last.GetMap().ForEach(func(_, _, startNew, endNew int) {
		ranges = append(ranges, startNew, endNew)
	})
	return ranges
}

func stepMaps(tr Transform) []PositionMap {
	steps := tr.Steps()
	maps := make([]PositionMap, len(steps))
	for i, s := range steps {
		maps[i] = s.GetMap()
	}
	return maps
}

func remapRanges(prev []int, m Mapping) []int {
	if prev == nil {
		return nil
	}
	out := make([]int, len(prev))
	for i, p := range prev {
		out[i] = m.Map(p, AssocAfter)
	}
	return out
}

// rangesAdjacent reports whether any range touched by tr's first step, in
// that step's pre-edit coordinates, overlaps or abuts a range in prev.
func rangesAdjacent(prev []int, tr Transform) bool {
	steps := tr.Steps()
	if len(steps) == 0 {
		return false
	}
	adjacent := false
	steps[0].GetMap().ForEach(func(startOld, endOld, _, _ int) {
		for i := 0; i+1 < len(prev); i += 2 {
			if startOld <= prev[i+1] && endOld >= prev[i] {
				adjacent = true
			}
		}
	})
	return adjacent
}

// Undo pops the last event from state.Done, pushes its reverse onto
// state.Undone, and dispatches the resulting transform. It returns false
// without calling dispatch if there is nothing to undo.
func (e *Engine) Undo(state *HistoryState, editorState EditorState, dispatch func(Transform)) bool {
	return e.pop(state, editorState, dispatch, false)
}

// Redo is the symmetric counterpart of Undo, consuming from state.Undone.
func (e *Engine) Redo(state *HistoryState, editorState EditorState, dispatch func(Transform)) bool {
	return e.pop(state, editorState, dispatch, true)
}

func (e *Engine) pop(state *HistoryState, editorState EditorState, dispatch func(Transform), redo bool) bool {
	source := state.Done
	if redo {
		source = state.Undone
	}
	if source.EventCount() == 0 {
		return false
	}

	preserve := e.preserveItems(editorState.Plugins())
	res, ok := source.PopEvent(editorState, preserve)
	if !ok {
		return false
	}

	dest := state.Undone
	if redo {
		dest = state.Done
	}
	bookmark := editorState.Selection()
	newDest := dest.AddTransform(res.Transform, bookmark, e.config.Depth, preserve)

	var next *HistoryState
	if redo {
		next = &HistoryState{Done: newDest, Undone: res.Remaining, PrevRanges: state.PrevRanges, PrevTime: state.PrevTime}
	} else {
		next = &HistoryState{Done: res.Remaining, Undone: newDest, PrevRanges: state.PrevRanges, PrevTime: state.PrevTime}
	}

	res.Transform.SetMeta(MetaHistory, HistoryMeta{Redo: redo, State: next})
	if dispatch != nil {
		dispatch(res.Transform)
	}
	return true
}

// CloseHistory annotates tr so that the next recorded edit starts a new
// event, even if it would otherwise group with what came before.
func CloseHistory(tr Transform) Transform {
	tr.SetMeta(MetaCloseHistory, true)
	return tr
}
