// Package doc wires stepalg's Operation-based steps and document package's
// StringDocument into concrete implementations of the history package's
// external interfaces: State (history.EditorState), Transform
// (history.Transform), Bookmark (history.SelectionBookmark), and Plugin
// (history.Plugin).
package doc

import (
	"github.com/xheldon-t/prosemirror-history/pkg/document"
	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

// Plugin is the minimal plugin record the history engine inspects to decide
// preserveItems. Collaborative plugins (e.g. a live collaboration session)
// set collaborative to true.
type Plugin struct {
	Name          string
	collaborative bool
}

// NewPlugin returns a plugin identified by name. collaborative marks it as
// one that may rebase items it did not itself add.
func NewPlugin(name string, collaborative bool) Plugin {
	return Plugin{Name: name, collaborative: collaborative}
}

func (p Plugin) Collaborative() bool { return p.collaborative }

// State is the editor state the history engine reads selection and plugins
// from, and from which it derives fresh Transforms.
type State struct {
	Document *document.StringDocument
	sel      Bookmark
	plugins  []history.Plugin
	clock    func() int64
}

// NewState returns a State over doc, with cursor at sel, the given plugin
// list installed, and now supplying timestamps for Transforms it creates.
func NewState(doc *document.StringDocument, sel Bookmark, plugins []Plugin, now func() int64) *State {
	hp := make([]history.Plugin, len(plugins))
	for i, p := range plugins {
		hp[i] = p
	}
	return &State{Document: doc, sel: sel, plugins: hp, clock: now}
}

func (s *State) Selection() history.SelectionBookmark { return s.sel }
func (s *State) Plugins() []history.Plugin             { return s.plugins }

// Tr returns a fresh Transform rooted at this state's document, timestamped
// by the state's clock.
func (s *State) Tr() history.Transform {
	return newTransform(s.Document, s.clock())
}

// Apply folds tr's accumulated steps into a new State: the resulting
// document, and the selection tr set (if any), taken as-is, otherwise the
// prior selection mapped through tr's cumulative mapping.
func (s *State) Apply(tr *Transform) *State {
	next := &State{Document: tr.Doc(), plugins: s.plugins, clock: s.clock}
	if sel, ok := tr.Selection(); ok {
		if b, ok := sel.(Bookmark); ok {
			next.sel = b
		}
	} else {
		next.sel = s.sel.Map(tr.Mapping()).(Bookmark)
	}
	return next
}
