//go:build gui

package gui

import "testing"

func TestRequestQuitRunsShutdownCallback(t *testing.T) {
	a := NewApp(func() {})
	called := false
	a.OnQuit(func() { called = true })

	// With a callback bound, requestQuit must not touch the event loop;
	// the callback owns shutdown and calls Quit when capture has stopped.
	a.requestQuit()

	if !called {
		t.Fatal("quit request did not run the shutdown callback")
	}
}

func TestRequestQuitWithoutCallback(t *testing.T) {
	a := NewApp(func() {})
	// No callback and no running app: must fall through without panicking.
	a.requestQuit()
}
