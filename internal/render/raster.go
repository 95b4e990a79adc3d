package render

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// RasterOptions configures a Raster surface. With neither FrameDir nor
// GIFPath set, frames are only kept in memory.
type RasterOptions struct {
	Width    int
	Height   int
	FontSize float64
	// FrameDir receives frame_00001.png, frame_00002.png, ...
	FrameDir string
	// GIFPath receives the presented frames as one animation on Close.
	GIFPath  string
	GIFDelay time.Duration
	// GIFMaxFrames caps the frames held for the GIF; later frames are
	// left out of the animation. Defaults to DefaultGIFMaxFrames.
	GIFMaxFrames int
}

// DefaultGIFMaxFrames bounds GIF memory: each 1280x720 frame is held
// paletted until Close.
const DefaultGIFMaxFrames = 600

// Raster is an offscreen Surface backed by a gg context. Input comes from
// Inject and SetPointer.
type Raster struct {
	opts RasterOptions
	dc   *gg.Context
	face font.Face

	mu       sync.Mutex
	events   []Event
	px, py   float64
	frames   int
	gifFrame []*image.Paletted
	gifFull  bool
	closed   bool
}

// NewRaster creates a Raster surface.
func NewRaster(opts RasterOptions) (*Raster, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("raster size %dx%d must be positive", opts.Width, opts.Height)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 16
	}
	if opts.GIFDelay <= 0 {
		opts.GIFDelay = 100 * time.Millisecond
	}
	if opts.GIFMaxFrames <= 0 {
		opts.GIFMaxFrames = DefaultGIFMaxFrames
	}
	if opts.FrameDir != "" {
		if err := os.MkdirAll(opts.FrameDir, 0o755); err != nil {
			return nil, fmt.Errorf("create frame dir: %w", err)
		}
	}

	ttf, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: opts.FontSize})

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetFontFace(face)
	return &Raster{opts: opts, dc: dc, face: face}, nil
}

func (r *Raster) Size() (int, int) { return r.opts.Width, r.opts.Height }

func (r *Raster) Clear(c color.Color) {
	r.dc.SetColor(c)
	r.dc.Clear()
}

func (r *Raster) FillRect(x, y, w, h float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

func (r *Raster) StrokeRect(x, y, w, h, width float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Stroke()
}

func (r *Raster) Line(x1, y1, x2, y2, width float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
}

func (r *Raster) Circle(x, y, radius float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawCircle(x, y, radius)
	r.dc.Fill()
}

func (r *Raster) StrokeCircle(x, y, radius, width float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.DrawCircle(x, y, radius)
	r.dc.Stroke()
}

func (r *Raster) Text(s string, x, y float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawStringAnchored(s, x, y, 0, 1)
}

func (r *Raster) MeasureText(s string) (float64, float64) {
	return r.dc.MeasureString(s)
}

func (r *Raster) Blit(img image.Image, x, y int) {
	if img == nil {
		return
	}
	r.dc.DrawImage(img, x, y)
}

// Image returns the current frame buffer.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// Frames returns how many frames have been presented.
func (r *Raster) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Raster) Present() error {
	r.mu.Lock()
	r.frames++
	n := r.frames
	r.mu.Unlock()

	if r.opts.FrameDir != "" {
		path := filepath.Join(r.opts.FrameDir, fmt.Sprintf("frame_%05d.png", n))
		if err := r.dc.SavePNG(path); err != nil {
			return fmt.Errorf("save frame %d: %w", n, err)
		}
	}
	if r.opts.GIFPath != "" && !r.gifLimitReached() {
		src := r.dc.Image()
		p := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, src.Bounds(), src, image.Point{})
		r.mu.Lock()
		r.gifFrame = append(r.gifFrame, p)
		r.mu.Unlock()
	}
	return nil
}

func (r *Raster) gifLimitReached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.gifFrame) < r.opts.GIFMaxFrames {
		return false
	}
	if !r.gifFull {
		r.gifFull = true
		log.Printf("[render] gif limit of %d frames reached, later frames are not animated", r.opts.GIFMaxFrames)
	}
	return true
}

// Inject queues input events for the next Events call.
func (r *Raster) Inject(evs ...Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
}

// SetPointer moves the simulated pointer.
func (r *Raster) SetPointer(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.px, r.py = x, y
}

func (r *Raster) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := r.events
	r.events = nil
	for _, ev := range evs {
		if ev.Kind == EventMouseDown {
			r.px, r.py = ev.X, ev.Y
		}
	}
	return evs
}

func (r *Raster) Pointer() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.px, r.py
}

// Close writes the GIF, if configured.
func (r *Raster) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.opts.GIFPath == "" || len(r.gifFrame) == 0 {
		return nil
	}

	delay := int(r.opts.GIFDelay / (10 * time.Millisecond))
	anim := &gif.GIF{Image: r.gifFrame, Delay: make([]int, len(r.gifFrame))}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}

	f, err := os.Create(r.opts.GIFPath)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}
