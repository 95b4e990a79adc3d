package render

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRasterDraws(t *testing.T) {
	r, err := NewRaster(RasterOptions{Width: 100, Height: 50})
	require.NoError(t, err)

	r.Clear(RGB(20, 40, 100))
	r.FillRect(10, 10, 20, 20, RGB(255, 0, 0))
	r.Circle(80, 25, 5, RGB(0, 255, 0))

	img := r.Image()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, color.RGBAModel.Convert(img.At(20, 20)))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, color.RGBAModel.Convert(img.At(80, 25)))
	assert.Equal(t, color.RGBA{20, 40, 100, 255}, color.RGBAModel.Convert(img.At(1, 1)))

	w, h := r.MeasureText("Speed: 1.0x")
	assert.Greater(t, w, 0.0)
	assert.Greater(t, h, 0.0)
	sw, sh := r.Size()
	assert.Equal(t, []int{100, 50}, []int{sw, sh})
}

func TestRasterRejectsEmptySize(t *testing.T) {
	_, err := NewRaster(RasterOptions{})
	assert.Error(t, err)
}

func TestRasterEventsDrain(t *testing.T) {
	r, err := NewRaster(RasterOptions{Width: 10, Height: 10})
	require.NoError(t, err)

	r.Inject(Event{Kind: EventMouseDown, X: 3, Y: 4}, Event{Kind: EventWheel, Up: true})
	evs := r.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, EventMouseDown, evs[0].Kind)
	assert.Empty(t, r.Events())

	x, y := r.Pointer()
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)

	r.SetPointer(7, 8)
	x, _ = r.Pointer()
	assert.Equal(t, 7.0, x)
	assert.Equal(t, "wheel", EventWheel.String())
}

func TestRasterWritesFramesAndGIF(t *testing.T) {
	dir := t.TempDir()
	gifPath := filepath.Join(dir, "out.gif")
	r, err := NewRaster(RasterOptions{Width: 16, Height: 8, FrameDir: filepath.Join(dir, "frames"), GIFPath: gifPath})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		r.Clear(RGB(uint8(i*80), 0, 0))
		require.NoError(t, r.Present())
	}
	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "second close is a no-op")
	assert.Equal(t, 3, r.Frames())

	_, err = os.Stat(filepath.Join(dir, "frames", "frame_00003.png"))
	assert.NoError(t, err)

	f, err := os.Open(gifPath)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 3)
	assert.Equal(t, 10, g.Delay[0])
}

func TestRasterGIFFrameLimit(t *testing.T) {
	dir := t.TempDir()
	gifPath := filepath.Join(dir, "capped.gif")
	r, err := NewRaster(RasterOptions{Width: 8, Height: 8, GIFPath: gifPath, GIFMaxFrames: 2})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		r.Clear(RGB(0, uint8(i*40), 0))
		require.NoError(t, r.Present())
	}
	require.NoError(t, r.Close())
	assert.Equal(t, 5, r.Frames(), "every present is counted")

	f, err := os.Open(gifPath)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
}

func TestAnimatedFrameCycles(t *testing.T) {
	start := time.Unix(0, 0)
	frames := []image.Image{solid(1, 1, color.Black), solid(1, 1, color.White), solid(1, 1, color.Black)}
	a := &AnimatedFrame{Frames: frames, FrameDuration: 100 * time.Millisecond, Start: start}

	assert.Same(t, frames[0], a.CurrentFrame(start))
	assert.Same(t, frames[1], a.CurrentFrame(start.Add(150*time.Millisecond)))
	assert.Same(t, frames[2], a.CurrentFrame(start.Add(250*time.Millisecond)))
	assert.Same(t, frames[0], a.CurrentFrame(start.Add(300*time.Millisecond)))

	var bg Background = StaticFrame{Image: frames[1]}
	assert.Same(t, frames[1], bg.CurrentFrame(start))
	assert.Nil(t, (&AnimatedFrame{}).CurrentFrame(start))
}

func TestLoadBackgroundScales(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "bg.png")
	f, err := os.Create(pngPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solid(20, 10, color.RGBA{0, 0, 255, 255})))
	require.NoError(t, f.Close())

	bg, err := LoadBackground(pngPath, 40, 30, 100*time.Millisecond, time.Now())
	require.NoError(t, err)
	static, ok := bg.(StaticFrame)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 40, 30), static.Image.Bounds())

	gifPath := filepath.Join(dir, "bg.gif")
	pal := color.Palette{color.Black, color.White}
	anim := &gif.GIF{
		Image: []*image.Paletted{image.NewPaletted(image.Rect(0, 0, 4, 4), pal), image.NewPaletted(image.Rect(0, 0, 4, 4), pal)},
		Delay: []int{10, 10},
	}
	g, err := os.Create(gifPath)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(g, anim))
	require.NoError(t, g.Close())

	bg, err = LoadBackground(gifPath, 8, 8, 100*time.Millisecond, time.Now())
	require.NoError(t, err)
	animated, ok := bg.(*AnimatedFrame)
	require.True(t, ok)
	assert.Len(t, animated.Frames, 2)
	assert.Equal(t, image.Rect(0, 0, 8, 8), animated.Frames[1].Bounds())

	_, err = LoadBackground(filepath.Join(dir, "missing.png"), 8, 8, 0, time.Now())
	assert.Error(t, err)
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	term := NewTerminal(s, 800, 240)
	t.Cleanup(func() { term.Close() })
	return term, s
}

func TestTerminalTextAndPresent(t *testing.T) {
	term, s := newSimTerminal(t)
	cols, rows := term.Cells()
	require.Equal(t, 80, cols)
	require.Equal(t, 24, rows)

	term.Clear(RGB(20, 40, 100))
	term.Text("Pause", 100, 50, RGB(255, 255, 255))
	require.NoError(t, term.Present())

	cells, w, _ := s.GetContents()
	got := ""
	for i := 0; i < 5; i++ {
		got += string(cells[5*w+10+i].Runes)
	}
	assert.Equal(t, "Pause", got)

	tw, th := term.MeasureText("Pause")
	assert.Equal(t, 50.0, tw)
	assert.Equal(t, 10.0, th)
}

func TestTerminalMouseEvents(t *testing.T) {
	term, s := newSimTerminal(t)

	s.InjectMouse(10, 5, tcell.Button1, tcell.ModNone)
	s.InjectMouse(10, 5, tcell.Button1, tcell.ModNone)
	s.InjectMouse(10, 5, tcell.ButtonNone, tcell.ModNone)
	s.InjectMouse(12, 6, tcell.WheelUp, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	var evs []Event
	require.Eventually(t, func() bool {
		evs = append(evs, term.Events()...)
		return len(evs) >= 4
	}, 2*time.Second, 10*time.Millisecond)

	require.Len(t, evs, 4, "held button reports one press")
	assert.Equal(t, Event{Kind: EventMouseDown, X: 105, Y: 55}, evs[0])
	assert.Equal(t, EventWheel, evs[1].Kind)
	assert.True(t, evs[1].Up)
	assert.Equal(t, Event{Kind: EventKey, Rune: ' '}, evs[2])
	assert.Equal(t, EventQuit, evs[3].Kind)

	x, y := term.Pointer()
	assert.Equal(t, 125.0, x)
	assert.Equal(t, 65.0, y)
}
