//go:build ignore

package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Draws the tray icon: two caption bars on a dark rounded square,
// like subtitles at the bottom of a screen.
func main() {
	const size = 22
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	inSquare := func(x, y int) bool {
		if x < 1 || x > size-2 || y < 1 || y > size-2 {
			return false
		}
		// Knock the corners off
		for _, c := range [][2]int{{1, 1}, {size - 2, 1}, {1, size - 2}, {size - 2, size - 2}} {
			if x == c[0] && y == c[1] {
				return false
			}
		}
		return true
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !inSquare(x, y) {
				continue
			}
			switch {
			case y >= 12 && y <= 14 && x >= 4 && x <= 17:
				// Older line, dim
				img.Set(x, y, color.RGBA{136, 136, 136, 255})
			case y >= 16 && y <= 18 && x >= 4 && x <= 17:
				// Current line, bright
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			default:
				img.Set(x, y, color.RGBA{18, 18, 18, 255})
			}
		}
	}

	f, _ := os.Create("tray.png")
	defer f.Close()
	png.Encode(f, img)
}
