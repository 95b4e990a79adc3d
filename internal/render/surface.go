// Package render provides drawing surfaces for the viewer. A Surface takes
// primitives in window pixel coordinates and reports input events once per
// frame. Raster draws into images written as PNG frames or an animated GIF;
// Terminal draws onto a character grid with mouse support.
package render

import (
	"image"
	"image/color"
)

// EventKind identifies an input event.
type EventKind int

const (
	// EventQuit asks the loop to stop.
	EventQuit EventKind = iota
	// EventMouseDown is a primary button press at X, Y.
	EventMouseDown
	// EventWheel is one wheel notch; Up is true for zoom in.
	EventWheel
	// EventKey is a key press carrying Rune.
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventQuit:
		return "quit"
	case EventMouseDown:
		return "mousedown"
	case EventWheel:
		return "wheel"
	case EventKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is one input event in window pixel coordinates.
type Event struct {
	Kind EventKind
	X, Y float64
	Up   bool
	Rune rune
}

// Surface is a drawing target plus its input source.
type Surface interface {
	// Size returns the window size in pixels.
	Size() (w, h int)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, width float64, c color.Color)
	Line(x1, y1, x2, y2, width float64, c color.Color)
	Circle(x, y, r float64, c color.Color)
	StrokeCircle(x, y, r, width float64, c color.Color)
	// Text draws s with its top-left corner at x, y.
	Text(s string, x, y float64, c color.Color)
	MeasureText(s string) (w, h float64)
	Blit(img image.Image, x, y int)
	// Present shows the finished frame.
	Present() error
	// Events drains the input received since the previous call.
	Events() []Event
	// Pointer returns the last known pointer position.
	Pointer() (x, y float64)
	Close() error
}

// RGB is a shorthand for an opaque colour.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
