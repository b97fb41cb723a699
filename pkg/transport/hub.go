// Package transport exposes collabsession.Session objects over WebSocket:
// one connection per collaborator, broadcasting every SessionEvent to all
// of a document's connections and accepting edit/undo/redo commands from
// them.
package transport

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/xheldon-t/prosemirror-history/pkg/collabsession"
	"github.com/xheldon-t/prosemirror-history/pkg/doc"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CommandType identifies what a client asked the hub to do.
type CommandType string

const (
	CommandInsert CommandType = "insert"
	CommandDelete CommandType = "delete"
	CommandUndo   CommandType = "undo"
	CommandRedo   CommandType = "redo"
)

// Command is a client-to-server message.
type Command struct {
	Type CommandType `json:"type"`
	Pos  int         `json:"pos,omitempty"`
	End  int         `json:"end,omitempty"`
	Text string      `json:"text,omitempty"`
}

// outboundEvent is the server-to-client message wrapping a SessionEvent.
type outboundEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Timestamp int64  `json:"timestamp"`
	Content   string `json:"content"`
}

// Hub serves one collabsession.Session per document ID over WebSocket.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*collabsession.Session
	conns    map[string]map[*client]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]*collabsession.Session),
		conns:    make(map[string]map[*client]struct{}),
	}
}

// Session returns the session for docID, creating one with cfg if it does
// not exist yet.
func (h *Hub) Session(docID string, cfg collabsession.Config) *collabsession.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[docID]; ok {
		return s
	}
	s := collabsession.New(context.Background(), cfg)
	h.sessions[docID] = s
	h.conns[docID] = make(map[*client]struct{})
	go h.pump(docID, s)
	return s
}

// pump forwards every event a session publishes to that document's
// connected clients.
func (h *Hub) pump(docID string, s *collabsession.Session) {
	for evt := range s.Subscribe() {
		msg := outboundEvent{
			Type:      eventName(evt.Type),
			SessionID: evt.SessionID.String(),
			Timestamp: evt.Timestamp,
			Content:   evt.Content,
		}
		h.broadcast(docID, msg)
	}
}

func eventName(t collabsession.EventType) string {
	switch t {
	case collabsession.EventApplied:
		return "applied"
	case collabsession.EventUndo:
		return "undo"
	case collabsession.EventRedo:
		return "redo"
	case collabsession.EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func (h *Hub) broadcast(docID string, msg outboundEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[docID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// ServeHTTP upgrades a request to a WebSocket connection serving the
// document named by the "doc" query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Query().Get("doc")
	if docID == "" {
		http.Error(w, "missing doc query parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[transport] upgrade failed: %v", err)
		return
	}

	session := h.Session(docID, collabsession.Config{Collaborative: true})
	c := &client{id: uuid.New(), conn: conn, send: make(chan outboundEvent, 64)}

	h.mu.Lock()
	h.conns[docID][c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	c.readPump(session)

	h.mu.Lock()
	delete(h.conns[docID], c)
	h.mu.Unlock()
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan outboundEvent
}

func (c *client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump(session *collabsession.Session) {
	defer c.conn.Close()
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			return
		}
		if err := apply(session, cmd); err != nil {
			log.Printf("[transport] client %s: %v", c.id, err)
		}
	}
}

func apply(session *collabsession.Session, cmd Command) error {
	switch cmd.Type {
	case CommandInsert:
		return session.Apply(func(tr *doc.Transform) {
			tr.InsertText(cmd.Pos, cmd.Text)
		})
	case CommandDelete:
		return session.Apply(func(tr *doc.Transform) {
			tr.DeleteRange(cmd.Pos, cmd.End)
		})
	case CommandUndo:
		session.Undo()
		return nil
	case CommandRedo:
		session.Redo()
		return nil
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
}
