package render

import (
	"image"
	"image/color"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

type cell struct {
	r  rune
	fg tcell.Color
	bg tcell.Color
}

// Terminal is a Surface drawn on a character grid. Drawing uses the same
// virtual pixel coordinates as Raster; each cell covers a block of
// pixels. Background images are sampled once per cell.
type Terminal struct {
	screen tcell.Screen
	w, h   int

	mu      sync.Mutex
	cols    int
	rows    int
	buf     []cell
	events  []Event
	px, py  float64
	buttons tcell.ButtonMask
	done    chan struct{}
}

// OpenTerminal takes over the controlling terminal.
func OpenTerminal(w, h int) (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return NewTerminal(s, w, h), nil
}

// NewTerminal wraps an initialised screen and starts reading its events.
func NewTerminal(s tcell.Screen, w, h int) *Terminal {
	s.EnableMouse()
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	t := &Terminal{screen: s, w: w, h: h, done: make(chan struct{})}
	t.resize()
	go t.pump()
	return t
}

func (t *Terminal) resize() {
	cols, rows := t.screen.Size()
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == t.cols && rows == t.rows {
		return
	}
	t.cols, t.rows = cols, rows
	t.buf = make([]cell, cols*rows)
}

func (t *Terminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-t.done:
			return
		default:
		}
		t.handle(ev)
	}
}

func (t *Terminal) handle(ev tcell.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
		t.resize()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.events = append(t.events, Event{Kind: EventQuit})
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				t.events = append(t.events, Event{Kind: EventQuit})
				return
			}
			t.events = append(t.events, Event{Kind: EventKey, Rune: ev.Rune()})
		}
	case *tcell.EventMouse:
		cx, cy := ev.Position()
		x, y := t.cellCenter(cx, cy)
		t.px, t.py = x, y
		b := ev.Buttons()
		if b&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0 {
			t.events = append(t.events, Event{Kind: EventMouseDown, X: x, Y: y})
		}
		if b&tcell.WheelUp != 0 {
			t.events = append(t.events, Event{Kind: EventWheel, X: x, Y: y, Up: true})
		}
		if b&tcell.WheelDown != 0 {
			t.events = append(t.events, Event{Kind: EventWheel, X: x, Y: y})
		}
		t.buttons = b
	}
}

func (t *Terminal) cellCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * float64(t.w) / float64(t.cols),
		(float64(cy) + 0.5) * float64(t.h) / float64(t.rows)
}

func (t *Terminal) toCell(x, y float64) (int, int) {
	return int(math.Floor(x * float64(t.cols) / float64(t.w))),
		int(math.Floor(y * float64(t.rows) / float64(t.h)))
}

func (t *Terminal) at(cx, cy int) *cell {
	if cx < 0 || cy < 0 || cx >= t.cols || cy >= t.rows {
		return nil
	}
	return &t.buf[cy*t.cols+cx]
}

func tcellColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

func (t *Terminal) Size() (int, int) { return t.w, t.h }

// Cells returns the character grid size.
func (t *Terminal) Cells() (cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols, t.rows
}

func (t *Terminal) Clear(c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bg := tcellColor(c)
	for i := range t.buf {
		t.buf[i] = cell{r: ' ', fg: tcell.ColorWhite, bg: bg}
	}
}

func (t *Terminal) FillRect(x, y, w, h float64, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	bg := tcellColor(c)
	x0, y0 := t.toCell(x, y)
	x1, y1 := t.toCell(x+w, y+h)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if p := t.at(cx, cy); p != nil {
				p.r, p.bg = ' ', bg
			}
		}
	}
}

func (t *Terminal) StrokeRect(x, y, w, h, _ float64, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fg := tcellColor(c)
	x0, y0 := t.toCell(x, y)
	x1, y1 := t.toCell(x+w, y+h)
	for cx := x0; cx <= x1; cx++ {
		t.put(cx, y0, '─', fg)
		t.put(cx, y1, '─', fg)
	}
	for cy := y0; cy <= y1; cy++ {
		t.put(x0, cy, '│', fg)
		t.put(x1, cy, '│', fg)
	}
}

func (t *Terminal) put(cx, cy int, r rune, fg tcell.Color) {
	if p := t.at(cx, cy); p != nil {
		p.r, p.fg = r, fg
	}
}

func (t *Terminal) Line(x1, y1, x2, y2, _ float64, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fg := tcellColor(c)
	cx0, cy0 := t.toCell(x1, y1)
	cx1, cy1 := t.toCell(x2, y2)

	r := '·'
	switch {
	case cx0 == cx1:
		r = '│'
	case cy0 == cy1:
		r = '─'
	}

	// Bresenham over cells
	dx := abs(cx1 - cx0)
	dy := -abs(cy1 - cy0)
	sx, sy := 1, 1
	if cx0 > cx1 {
		sx = -1
	}
	if cy0 > cy1 {
		sy = -1
	}
	e := dx + dy
	for i := 0; i <= 4*(t.cols+t.rows); i++ {
		t.put(cx0, cy0, r, fg)
		if cx0 == cx1 && cy0 == cy1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			cx0 += sx
		}
		if e2 <= dx {
			e += dx
			cy0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (t *Terminal) Circle(x, y, _ float64, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cx, cy := t.toCell(x, y)
	t.put(cx, cy, '●', tcellColor(c))
}

// StrokeCircle highlights the cell under the centre.
func (t *Terminal) StrokeCircle(x, y, _, _ float64, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cx, cy := t.toCell(x, y)
	if p := t.at(cx, cy); p != nil {
		p.bg = tcellColor(c)
	}
}

func (t *Terminal) Text(s string, x, y float64, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fg := tcellColor(c)
	cx, cy := t.toCell(x, y)
	for _, r := range s {
		t.put(cx, cy, r, fg)
		cx++
	}
}

func (t *Terminal) MeasureText(s string) (float64, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cw := float64(t.w) / float64(t.cols)
	ch := float64(t.h) / float64(t.rows)
	return float64(utf8.RuneCountInString(s)) * cw, ch
}

// Blit samples img at each covered cell centre into the cell background.
func (t *Terminal) Blit(img image.Image, x, y int) {
	if img == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	b := img.Bounds()
	for cy := 0; cy < t.rows; cy++ {
		for cx := 0; cx < t.cols; cx++ {
			px, py := t.cellCenter(cx, cy)
			ix := b.Min.X + int(px) - x
			iy := b.Min.Y + int(py) - y
			if !(image.Point{ix, iy}.In(b)) {
				continue
			}
			t.buf[cy*t.cols+cx].bg = tcellColor(img.At(ix, iy))
		}
	}
}

func (t *Terminal) Present() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for cy := 0; cy < t.rows; cy++ {
		for cx := 0; cx < t.cols; cx++ {
			p := t.buf[cy*t.cols+cx]
			r := p.r
			if r == 0 {
				r = ' '
			}
			t.screen.SetContent(cx, cy, r, nil, tcell.StyleDefault.Foreground(p.fg).Background(p.bg))
		}
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	evs := t.events
	t.events = nil
	return evs
}

func (t *Terminal) Pointer() (float64, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.px, t.py
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	select {
	case <-t.done:
		return nil
	default:
	}
	close(t.done)
	t.screen.Fini()
	return nil
}
