package viewer

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackview/internal/config"
	"github.com/banshee-data/trackview/internal/render"
	"github.com/banshee-data/trackview/internal/timeutil"
	"github.com/banshee-data/trackview/internal/track"
	"github.com/banshee-data/trackview/internal/units"
)

var t0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func sample(id string, lon, lat float64, offset time.Duration) track.Sample {
	return track.Sample{TrackID: id, Point: track.Point{Lon: lon, Lat: lat, Time: t0.Add(offset)}}
}

// newTestSession has track 1 starting at t0 and track 2 five minutes later.
func newTestSession(t *testing.T) (*Session, *render.Raster) {
	t.Helper()
	ds := track.Group([]track.Sample{
		sample("1", 5.00, 43.00, 0),
		sample("1", 5.01, 43.01, 10*time.Minute),
		sample("1", 5.03, 43.02, 20*time.Minute),
		sample("2", 6.00, 44.00, 5*time.Minute),
		sample("2", 6.02, 44.00, 25*time.Minute),
	})
	s := NewSession(ds, config.EmptyViewerConfig(), nil)
	r, err := render.NewRaster(render.RasterOptions{Width: 1280, Height: 720})
	require.NoError(t, err)
	return s, r
}

func buttonByAction(t *testing.T, s *Session, a Action) Button {
	t.Helper()
	for _, b := range s.Buttons() {
		if b.Action == a {
			return b
		}
	}
	t.Fatalf("no button for action %d", a)
	return Button{}
}

func click(s *Session, b Button) bool {
	return s.HandleEvent(render.Event{Kind: render.EventMouseDown, X: b.X + b.W/2, Y: b.Y + b.H/2})
}

func TestButtonsLayout(t *testing.T) {
	s, _ := newTestSession(t)

	bs := s.Buttons()
	require.Len(t, bs, 9)
	labels := make([]string, len(bs))
	for i, b := range bs {
		labels[i] = b.Label
	}
	assert.Equal(t, []string{"-", "Reset", "+", "Pause", "Replay", "Toggle Trail",
		"Time: Hour", "Hide Non-Selected", "Auto-Zoom: ON"}, labels)

	pause := buttonByAction(t, s, ActionPause)
	assert.Equal(t, Button{Label: "Pause", X: 1120, Y: 10, W: 150, H: 40,
		Color: render.RGB(50, 150, 50), Action: ActionPause}, pause)

	reset := buttonByAction(t, s, ActionResetSpeed)
	assert.Equal(t, 610.0, reset.X)
	assert.Equal(t, 600.0, reset.Y)
	assert.True(t, reset.Contains(610, 600))
	assert.False(t, reset.Contains(609, 600))
}

func TestButtonActions(t *testing.T) {
	s, _ := newTestSession(t)
	clk := s.Clock()

	assert.False(t, click(s, buttonByAction(t, s, ActionPause)))
	assert.True(t, clk.Paused())

	click(s, buttonByAction(t, s, ActionFaster))
	click(s, buttonByAction(t, s, ActionFaster))
	assert.InDelta(t, 1.2, clk.Speed(), 1e-9)
	click(s, buttonByAction(t, s, ActionSlower))
	assert.InDelta(t, 1.1, clk.Speed(), 1e-9)
	click(s, buttonByAction(t, s, ActionResetSpeed))
	assert.Equal(t, 1.0, clk.Speed())

	click(s, buttonByAction(t, s, ActionCycleUnit))
	assert.Equal(t, units.Day, clk.Unit())
	assert.Equal(t, "Time: Day", buttonByAction(t, s, ActionCycleUnit).Label)

	click(s, buttonByAction(t, s, ActionToggleTrail))
	assert.False(t, s.View().ShowTrail)

	click(s, buttonByAction(t, s, ActionToggleHide))
	assert.True(t, s.View().HideNonSelected)
	assert.Equal(t, "Show All", buttonByAction(t, s, ActionToggleHide).Label)
	assert.False(t, s.Visible("1"))

	click(s, buttonByAction(t, s, ActionToggleAutoZoom))
	assert.False(t, s.View().AutoZoom)
	assert.Equal(t, "Auto-Zoom: OFF", buttonByAction(t, s, ActionToggleAutoZoom).Label)

	clk.Seek(t0.Add(10 * time.Minute))
	click(s, buttonByAction(t, s, ActionReplay))
	assert.Equal(t, t0, clk.Current())
	assert.False(t, clk.Paused())
}

func TestKeyboardShortcuts(t *testing.T) {
	s, _ := newTestSession(t)

	s.HandleEvent(render.Event{Kind: render.EventKey, Rune: ' '})
	assert.True(t, s.Clock().Paused())
	s.HandleEvent(render.Event{Kind: render.EventKey, Rune: 'a'})
	assert.False(t, s.View().AutoZoom)
	s.HandleEvent(render.Event{Kind: render.EventKey, Rune: 'x'})
	assert.True(t, s.HandleEvent(render.Event{Kind: render.EventQuit}))
}

func TestWheelOnlyWithoutAutoZoom(t *testing.T) {
	s, _ := newTestSession(t)
	s.view.Zoom = 2

	s.HandleEvent(render.Event{Kind: render.EventWheel, Up: true})
	assert.Equal(t, 2.0, s.View().Zoom)

	s.ToggleAutoZoom()
	s.view.Zoom = 2
	s.HandleEvent(render.Event{Kind: render.EventWheel, Up: true})
	assert.InDelta(t, 2.2, s.View().Zoom, 1e-9)
	s.HandleEvent(render.Event{Kind: render.EventWheel, Up: false})
	assert.InDelta(t, 1.98, s.View().Zoom, 1e-9)
}

func TestClickTogglesSelection(t *testing.T) {
	s, r := newTestSession(t)
	require.NoError(t, s.Frame(r, t0))

	// only track 1 has started, so it sits at the view centre
	ids, _ := s.visiblePositions()
	require.Equal(t, []string{"1"}, ids)

	s.HandleEvent(render.Event{Kind: render.EventMouseDown, X: 640, Y: 360})
	assert.Equal(t, []string{"1"}, s.SelectedIDs())

	s.HandleEvent(render.Event{Kind: render.EventMouseDown, X: 643, Y: 363})
	assert.Empty(t, s.SelectedIDs())

	s.HandleEvent(render.Event{Kind: render.EventMouseDown, X: 660, Y: 360})
	assert.Empty(t, s.SelectedIDs())
}

func TestHideNonSelectedFiltersPositions(t *testing.T) {
	s, r := newTestSession(t)
	s.Clock().Seek(t0.Add(6 * time.Minute))
	require.NoError(t, s.Frame(r, t0))

	ids, _ := s.visiblePositions()
	require.Equal(t, []string{"1", "2"}, ids)

	s.ToggleSelected("2")
	s.Apply(ActionToggleHide)
	ids, pts := s.visiblePositions()
	assert.Equal(t, []string{"2"}, ids)
	require.NoError(t, s.Frame(r, t0))
	assert.InDelta(t, pts[0].Lon, s.View().Center.Lon(), 1e-12)
}

func TestCenterFallsBackToDefaultCenter(t *testing.T) {
	ds := track.Group([]track.Sample{
		sample("1", 5.00, 43.00, 0),
		sample("1", 5.01, 43.01, 10*time.Minute),
	})
	cfg := config.EmptyViewerConfig()
	cfg.DefaultCenter = &[2]float64{2.35, 48.85}
	s := NewSession(ds, cfg, nil)
	r, err := render.NewRaster(render.RasterOptions{Width: 640, Height: 360})
	require.NoError(t, err)

	s.Apply(ActionToggleHide)
	require.NoError(t, s.Frame(r, t0))
	ids, _ := s.visiblePositions()
	assert.Empty(t, ids)
	assert.Equal(t, orb.Point{2.35, 48.85}, s.View().Center)

	s.Apply(ActionToggleHide)
	require.NoError(t, s.Frame(r, t0))
	assert.InDelta(t, 5.00, s.View().Center.Lon(), 1e-12)
}

func TestFrameDrawsPanelAndProgress(t *testing.T) {
	s, r := newTestSession(t)
	s.Clock().Seek(t0.Add(25 * time.Minute))
	require.NoError(t, s.Frame(r, t0))
	assert.Equal(t, 1, r.Frames())

	img := r.Image()
	assert.Equal(t, color.RGBA{40, 40, 40, 255}, color.RGBAModel.Convert(img.At(12, 12)))
	assert.Equal(t, color.RGBA{100, 200, 100, 255}, color.RGBAModel.Convert(img.At(5, 710)))
}

func TestRenderFramesStopsAtEnd(t *testing.T) {
	s, r := newTestSession(t)

	var seen []int
	n, err := RenderFrames(context.Background(), s, r, RenderOptions{
		Start:   t0,
		OnFrame: func(f int) { seen = append(seen, f) },
	})
	require.NoError(t, err)
	// one hour per tick covers the 25 minute dataset in a single step
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, seen)
	assert.True(t, s.Clock().AtEnd())
}

func TestRenderFramesHonoursMaxFrames(t *testing.T) {
	s, r := newTestSession(t)

	n, err := RenderFrames(context.Background(), s, r, RenderOptions{MaxFrames: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, r.Frames())
}

func TestRunQuitsOnEvent(t *testing.T) {
	s, r := newTestSession(t)
	r.Inject(render.Event{Kind: render.EventQuit})

	err := Run(context.Background(), s, r, timeutil.NewMockClock(t0), 60)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Frames())
}

func TestRunStopsOnCancel(t *testing.T) {
	s, r := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, s, r, timeutil.NewMockClock(t0), 60)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, r.Frames())
}
