// Package collabsession hosts one history.Engine and its current
// history.HistoryState per open document, and publishes the events a
// collaborating client needs to react to (an edit landed, an undo/redo
// happened). Close publishes no event; it closes every subscriber channel.
package collabsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xheldon-t/prosemirror-history/pkg/doc"
	"github.com/xheldon-t/prosemirror-history/pkg/document"
	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

// EventType identifies what kind of SessionEvent was published.
type EventType int

const (
	EventApplied EventType = iota
	EventUndo
	EventRedo
	EventClosed
)

// SessionEvent is published to every subscriber each time the session's
// document changes.
type SessionEvent struct {
	Type      EventType
	SessionID uuid.UUID
	Timestamp int64
	Content   string
}

// Config configures a new Session.
type Config struct {
	InitialContent string
	Collaborative  bool
	History        history.Config
}

// Session owns one document's live State, its undo/redo HistoryState, and
// the Engine that classifies incoming transforms against it.
type Session struct {
	id uuid.UUID

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   *doc.State
	history *history.HistoryState
	engine  *history.Engine
	plugin  doc.Plugin

	subMu       sync.RWMutex
	subscribers map[chan *SessionEvent]struct{}
}

// New opens a session over a fresh document seeded with cfg.InitialContent.
func New(ctx context.Context, cfg Config) *Session {
	ctx, cancel := context.WithCancel(ctx)
	plugin := doc.NewPlugin("collabsession", cfg.Collaborative)
	state := doc.NewState(
		document.NewStringDocument(cfg.InitialContent),
		doc.NewBookmark(0),
		[]doc.Plugin{plugin},
		func() int64 { return time.Now().UnixMilli() },
	)
	return &Session{
		id:          uuid.New(),
		ctx:         ctx,
		cancel:      cancel,
		state:       state,
		history:     history.NewHistoryState(),
		engine:      history.New(cfg.History),
		plugin:      plugin,
		subscribers: make(map[chan *SessionEvent]struct{}),
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

// Content returns the current document text.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Document.String()
}

// Apply runs build against a fresh transform on the session's current
// state, applies it through the history engine, and publishes the result.
// build receives the transform to append steps to; if it appends no steps,
// the call is a no-op.
func (s *Session) Apply(build func(tr *doc.Transform)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.state.Tr().(*doc.Transform)
	if !ok {
		return fmt.Errorf("collabsession: unexpected transform type")
	}
	build(tr)
	if len(tr.Steps()) == 0 {
		return nil
	}

	s.history = s.engine.Apply(s.history, tr, s.state)
	s.state = s.state.Apply(tr)

	s.publish(&SessionEvent{Type: EventApplied, SessionID: s.id, Timestamp: tr.Time(), Content: s.state.Document.String()})
	return nil
}

// Undo pops the most recent undoable event and applies its reverse.
// Returns false if there is nothing to undo.
func (s *Session) Undo() bool {
	return s.pop(false)
}

// Redo re-applies the most recently undone event. Returns false if there
// is nothing to redo.
func (s *Session) Redo() bool {
	return s.pop(true)
}

func (s *Session) pop(redo bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ok bool
	dispatch := func(tr history.Transform) {
		dt, isDoc := tr.(*doc.Transform)
		if !isDoc {
			return
		}
		// tr carries a MetaHistory entry the engine attached in pop(); routing
		// it back through Apply picks that up and short-circuits to it rather
		// than reclassifying the undo/redo as a fresh edit.
		s.history = s.engine.Apply(s.history, tr, s.state)
		s.state = s.state.Apply(dt)
		ok = true
	}

	var applied bool
	if redo {
		applied = s.engine.Redo(s.history, s.state, dispatch)
	} else {
		applied = s.engine.Undo(s.history, s.state, dispatch)
	}
	if !applied || !ok {
		return false
	}

	evt := EventUndo
	if redo {
		evt = EventRedo
	}
	s.publish(&SessionEvent{Type: evt, SessionID: s.id, Timestamp: time.Now().UnixMilli(), Content: s.state.Document.String()})
	return true
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return history.UndoDepth(s.history) > 0
}

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return history.RedoDepth(s.history) > 0
}

// Subscribe returns a channel receiving every SessionEvent published from
// this point on, buffered so a slow reader cannot stall the session.
func (s *Session) Subscribe() <-chan *SessionEvent {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	ch := make(chan *SessionEvent, 64)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe stops and closes ch.
func (s *Session) Unsubscribe(ch <-chan *SessionEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for c := range s.subscribers {
		if c == ch {
			delete(s.subscribers, c)
			close(c)
			return
		}
	}
}

func (s *Session) publish(evt *SessionEvent) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Close releases the session's context and closes every subscriber channel.
func (s *Session) Close() {
	s.cancel()
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, ch)
	}
}
