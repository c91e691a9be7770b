package main

// EventSink abstracts the display layer so both the Bubble Tea TUI
// and the Fyne overlay can react to the same pipeline events.
type EventSink interface {
	Lines(older, current string)
	Status(text string)
	Error(text string)
}

// nopSink is used in headless runs and tests.
type nopSink struct{}

func (nopSink) Lines(older, current string) {}
func (nopSink) Status(text string)          {}
func (nopSink) Error(text string)           {}
