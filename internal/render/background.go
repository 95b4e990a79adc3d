package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

// Background is either a StaticFrame or an AnimatedFrame.
type Background interface {
	// CurrentFrame returns the image to show at now.
	CurrentFrame(now time.Time) image.Image
	isBackground()
}

// StaticFrame is a single background image.
type StaticFrame struct {
	Image image.Image
}

func (s StaticFrame) CurrentFrame(time.Time) image.Image { return s.Image }
func (StaticFrame) isBackground()                        {}

// AnimatedFrame cycles Frames, showing each for FrameDuration, counting
// from Start.
type AnimatedFrame struct {
	Frames        []image.Image
	FrameDuration time.Duration
	Start         time.Time
}

// CurrentFrame picks the frame for the time elapsed since Start.
func (a *AnimatedFrame) CurrentFrame(now time.Time) image.Image {
	if len(a.Frames) == 0 {
		return nil
	}
	if a.FrameDuration <= 0 || !now.After(a.Start) {
		return a.Frames[0]
	}
	idx := int(now.Sub(a.Start)/a.FrameDuration) % len(a.Frames)
	return a.Frames[idx]
}

func (*AnimatedFrame) isBackground() {}

// LoadBackground reads a PNG/JPEG as a StaticFrame or a GIF as an
// AnimatedFrame, scaling every frame to w x h.
func LoadBackground(path string, w, h int, frameDelay time.Duration, start time.Time) (Background, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".gif") {
		g, err := gif.DecodeAll(f)
		if err != nil {
			return nil, fmt.Errorf("decode gif %s: %w", path, err)
		}
		return &AnimatedFrame{
			Frames:        composeGIF(g, w, h),
			FrameDuration: frameDelay,
			Start:         start,
		}, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return StaticFrame{Image: Scale(img, w, h)}, nil
}

// Scale resizes img to exactly w x h.
func Scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.Bilinear)
}

// composeGIF flattens partial GIF frames onto a running canvas so each
// frame is complete, then scales it.
func composeGIF(g *gif.GIF, w, h int) []image.Image {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	for i, frame := range g.Image {
		var saved *image.RGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, canvas, bounds.Min, draw.Src)
		}
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(bounds)
		draw.Draw(snapshot, bounds, canvas, bounds.Min, draw.Src)
		frames = append(frames, Scale(snapshot, w, h))

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = saved
			}
		}
	}
	return frames
}
