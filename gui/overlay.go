//go:build gui

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// textOverlay renders the two fade lines plus a transient error line.
// Dragging anywhere on it repositions the whole window.
type textOverlay struct {
	widget.BaseWidget
	older   *canvas.Text
	current *canvas.Text
	errLine *canvas.Text
	onDrag  func(dx, dy int)
}

func newTextOverlay(onDrag func(dx, dy int)) *textOverlay {
	t := &textOverlay{onDrag: onDrag}

	t.older = canvas.NewText("", color.RGBA{0x88, 0x88, 0x88, 0xff})
	t.older.TextSize = 16
	t.older.Alignment = fyne.TextAlignCenter

	t.current = canvas.NewText("", color.White)
	t.current.TextSize = 18
	t.current.TextStyle = fyne.TextStyle{Bold: true}
	t.current.Alignment = fyne.TextAlignCenter

	t.errLine = canvas.NewText("", errorColor)
	t.errLine.TextSize = 12
	t.errLine.Alignment = fyne.TextAlignCenter

	t.ExtendBaseWidget(t)
	return t
}

func (t *textOverlay) SetLines(older, current string) {
	fyne.Do(func() {
		t.older.Text = older
		t.current.Text = current
		t.older.Refresh()
		t.current.Refresh()
	})
}

func (t *textOverlay) SetError(text string) {
	fyne.Do(func() {
		t.errLine.Text = text
		t.errLine.Refresh()
	})
}

func (t *textOverlay) Dragged(ev *fyne.DragEvent) {
	if t.onDrag != nil {
		t.onDrag(int(ev.Dragged.DX), int(ev.Dragged.DY))
	}
}

func (t *textOverlay) DragEnd() {}

func (t *textOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &overlayRenderer{t: t}
}

type overlayRenderer struct {
	t *textOverlay
}

func (r *overlayRenderer) Layout(size fyne.Size) {
	olderH := size.Height * 0.35
	currentH := size.Height * 0.45

	r.t.older.Resize(fyne.NewSize(size.Width, olderH))
	r.t.older.Move(fyne.NewPos(0, 0))

	r.t.current.Resize(fyne.NewSize(size.Width, currentH))
	r.t.current.Move(fyne.NewPos(0, olderH))

	r.t.errLine.Resize(fyne.NewSize(size.Width, size.Height-olderH-currentH))
	r.t.errLine.Move(fyne.NewPos(0, olderH+currentH))
}

func (r *overlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 84)
}

func (r *overlayRenderer) Refresh() {
	canvas.Refresh(r.t)
}

func (r *overlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.t.older, r.t.current, r.t.errLine}
}

func (r *overlayRenderer) Destroy() {}
