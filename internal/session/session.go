// Package session holds the dashboard's selection state: which subject is
// shown and which demographics lines are currently displayed.
package session

import (
	"sync"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/domain/render"
	"biodash/internal/projection"
)

// DefaultIndex is the subject shown before any selection is made.
const DefaultIndex = 0

// Selection is the result of one selection event.
type Selection struct {
	Dashboard *render.Dashboard
	// Demographics is the reconciliation of the displayed list against the
	// new lines.
	Demographics render.ListJoin
}

// Session owns the selection index for one dataset. Only Select writes it.
// Selections are serialized: a second Select waits for the first to finish.
type Session struct {
	mu      sync.Mutex
	dataset *dataset.Dataset
	index   int
	started bool
	shown   []string
}

// New creates a session over an immutable dataset.
func New(ds *dataset.Dataset) *Session {
	return &Session{dataset: ds, index: DefaultIndex}
}

// Start renders the default subject. It is called once after the dataset has
// been loaded.
func (s *Session) Start() (*Selection, error) {
	return s.Select(DefaultIndex)
}

// Select is the selection event handler: it projects the chosen subject,
// records it as the current one and reconciles the demographics list. On
// error the previous selection is kept.
func (s *Session) Select(index int) (*Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset == nil {
		return nil, core.ErrDatasetUnavailable
	}

	dash, err := projection.Dispatch(s.dataset, index)
	if err != nil {
		return nil, err
	}

	join := render.JoinByPosition(s.shown, dash.Demographics.Lines)
	s.shown = join.Result
	s.index = index
	s.started = true

	return &Selection{Dashboard: dash, Demographics: join}, nil
}

// Current re-projects the current subject without changing the selection.
// Before Start it projects the default subject.
func (s *Session) Current() (*render.Dashboard, error) {
	s.mu.Lock()
	index := s.index
	ds := s.dataset
	s.mu.Unlock()

	return projection.Dispatch(ds, index)
}

// Index returns the current selection index.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Started reports whether the default render has happened.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Shown returns a copy of the demographics lines currently displayed.
func (s *Session) Shown() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.shown...)
}

// Dataset returns the dataset the session selects from.
func (s *Session) Dataset() *dataset.Dataset {
	return s.dataset
}
