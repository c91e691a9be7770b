//go:build gui

package gui

import (
	_ "embed"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/go-gl/glfw/v3.3/glfw"
)

//go:embed assets/tray.png
var trayIcon []byte

// App is the frameless desktop overlay: two lines of text pinned above
// the bottom edge of the primary screen, like subtitles.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	box     *textOverlay
	onReady func()

	mu      sync.Mutex
	onClear func()
	onQuit  func()
	posX    int
	posY    int
}

func NewApp(onReady func()) *App {
	return &App{onReady: onReady}
}

// OnClear registers the callback for the C key.
func (a *App) OnClear(fn func()) {
	a.mu.Lock()
	a.onClear = fn
	a.mu.Unlock()
}

// OnQuit registers the shutdown callback for Escape and the tray quit
// item. The event loop keeps running until Quit is called, so the
// capture subprocess is stopped before the process exits.
func (a *App) OnQuit(fn func()) {
	a.mu.Lock()
	a.onQuit = fn
	a.mu.Unlock()
}

func (a *App) requestQuit() {
	a.mu.Lock()
	fn := a.onQuit
	a.mu.Unlock()
	if fn != nil {
		fn()
		return
	}
	a.Quit()
}

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.livecap.gui")
	a.fyneApp.Settings().SetTheme(&darkTheme{})

	if desk, ok := a.fyneApp.(desktop.App); ok {
		icon := fyne.NewStaticResource("tray.png", trayIcon)
		menu := fyne.NewMenu("livecap",
			fyne.NewMenuItem("Quit", func() {
				a.requestQuit()
			}),
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(icon)
	}

	// Primary monitor work area for positioning
	var screenW, screenH int
	monitor := glfw.GetPrimaryMonitor()
	if monitor != nil {
		_, _, screenW, screenH = monitor.GetWorkarea()
	} else {
		screenW, screenH = 1920, 1080 // fallback
	}

	// Frameless splash window so the overlay has no decorations
	if drv, ok := a.fyneApp.Driver().(desktop.Driver); ok {
		a.window = drv.CreateSplashWindow()
	} else {
		a.window = a.fyneApp.NewWindow("livecap")
	}

	a.box = newTextOverlay(a.moveBy)
	a.window.SetContent(a.box)
	a.window.SetPadded(false)

	// 65% of the screen width, pinned bottom-center above the dock
	width := float32(screenW) * 0.65
	size := fyne.NewSize(width, a.box.MinSize().Height)
	a.window.Resize(size)
	a.posX = (screenW - int(width)) / 2
	a.posY = screenH - int(size.Height) - 60

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			a.requestQuit()
		case fyne.KeyC:
			a.mu.Lock()
			fn := a.onClear
			a.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	})

	a.window.Show()
	go func() {
		a.applyPosition()
		a.onReady()
	}()

	a.fyneApp.Run()
	return nil
}

func (a *App) applyPosition() {
	fyne.Do(func() {
		if glfwWin := glfw.GetCurrentContext(); glfwWin != nil {
			a.mu.Lock()
			x, y := a.posX, a.posY
			a.mu.Unlock()
			glfwWin.SetPos(x, y)
			glfwWin.SetAttrib(glfw.FocusOnShow, glfw.False)
			glfwWin.SetAttrib(glfw.Floating, glfw.True)
		}
	})
}

// moveBy repositions the window by a drag delta.
func (a *App) moveBy(dx, dy int) {
	a.mu.Lock()
	a.posX += dx
	a.posY += dy
	a.mu.Unlock()
	a.applyPosition()
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(func() { a.fyneApp.Quit() })
	}
}

// EventSink implementation

func (a *App) Lines(older, current string) {
	a.box.SetLines(older, current)
}

func (a *App) Status(text string) {}

func (a *App) Error(text string) {
	a.box.SetError(text)
}

var errorColor = color.RGBA{220, 120, 60, 255}
