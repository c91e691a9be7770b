//go:build !gui

package main

func initGUI() {
	panic("livecap: built without GUI support (rebuild with -tags gui)")
}

func guiShutdown() {}

func guiBindClear(fn func()) {}

func guiBindQuit(fn func()) {}
