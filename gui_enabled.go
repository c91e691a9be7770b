//go:build gui

package main

import (
	"runtime"

	"livecap/gui"
)

var guiApp *gui.App

func initGUI() {
	guiMode = true

	// Fyne/GLFW needs the main OS thread
	runtime.LockOSThread()

	guiApp = gui.NewApp(func() {
		run()
	})
	sink = guiApp
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
}

func guiShutdown() {
	guiApp.Quit()
}

func guiBindClear(fn func()) {
	guiApp.OnClear(fn)
}

func guiBindQuit(fn func()) {
	guiApp.OnQuit(fn)
}
