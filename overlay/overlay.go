// Package overlay holds the two-line fade state shared by the pipeline
// and the tick driver. It owns no rendering: a notify callback hands
// snapshots to whatever UI is attached.
package overlay

import (
	"strings"
	"sync"
	"time"
)

// Snapshot is one consistent view of the two line slots. Older fades
// first, Current is the most recent utterance.
type Snapshot struct {
	Older   string
	Current string
}

// State implements the fade transitions. Two writers touch it, the
// pipeline on new text and the ticker on age, so every method takes the
// lock. The clock is a field so tests can advance time directly.
type State struct {
	mu           sync.Mutex
	older        string
	current      string
	currentSince time.Time

	fade   time.Duration
	now    func() time.Time
	notify func(Snapshot)
}

// New returns an empty state. notify fires once per visible change and
// is called without the lock held; it may be nil.
func New(fade time.Duration, notify func(Snapshot)) *State {
	return &State{
		fade:   fade,
		now:    time.Now,
		notify: notify,
	}
}

// Push promotes the current line to older and installs text as the new
// current line. Empty text is ignored. The previous older line, if any,
// is discarded.
func (s *State) Push(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	if s.current != "" {
		s.older = s.current
	}
	s.current = text
	s.currentSince = s.now()
	snap := Snapshot{Older: s.older, Current: s.current}
	s.mu.Unlock()
	s.emit(snap)
}

// Tick ages the lines. Past the fade threshold the current line demotes
// to older and the timestamp resets, so the demoted line gets its own
// half-fade interval before it clears. Returns true when the snapshot
// changed.
func (s *State) Tick() bool {
	s.mu.Lock()
	changed := false

	if s.current != "" && s.now().Sub(s.currentSince) > s.fade {
		s.older = s.current
		s.current = ""
		s.currentSince = s.now()
		changed = true
	}
	if s.older != "" && s.current == "" && s.now().Sub(s.currentSince) > s.fade/2 {
		s.older = ""
		changed = true
	}

	snap := Snapshot{Older: s.older, Current: s.current}
	s.mu.Unlock()

	if changed {
		s.emit(snap)
	}
	return changed
}

// Clear empties both lines immediately regardless of age.
func (s *State) Clear() {
	s.mu.Lock()
	changed := s.older != "" || s.current != ""
	s.older = ""
	s.current = ""
	s.mu.Unlock()

	if changed {
		s.emit(Snapshot{})
	}
}

func (s *State) Lines() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Older: s.older, Current: s.current}
}

func (s *State) emit(snap Snapshot) {
	if s.notify != nil {
		s.notify(snap)
	}
}

// Run drives Tick on a fixed period until ctx is done. Intended to be
// launched as its own goroutine next to the pipeline.
func (s *State) Run(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
