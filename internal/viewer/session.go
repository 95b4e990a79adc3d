// Package viewer is the standalone playback session: it owns the dataset,
// the playback clock and the map view, draws one frame at a time onto a
// render.Surface and applies the user's input.
package viewer

import (
	"image/color"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/banshee-data/trackview/internal/config"
	"github.com/banshee-data/trackview/internal/playback"
	"github.com/banshee-data/trackview/internal/render"
	"github.com/banshee-data/trackview/internal/track"
	"github.com/banshee-data/trackview/internal/viewport"
)

// Viewport is the user-controlled part of the map view.
type Viewport struct {
	Zoom            float64
	AutoZoom        bool
	Center          orb.Point
	Selected        map[string]bool
	HideNonSelected bool
	ShowTrail       bool
}

// Session is everything one viewer window works on.
type Session struct {
	ID uuid.UUID

	data   *track.Dataset
	paths  map[string][]track.Point
	colors map[string]color.RGBA
	clock  *playback.Clock
	view   Viewport
	proj   viewport.Projector
	bg     render.Background

	fallback orb.Point
	maxZoom  float64
	timezone string
}

// NewSession prepares a session for ds. bg may be nil, in which case the
// ocean colour shows through.
func NewSession(ds *track.Dataset, cfg *config.ViewerConfig, bg render.Background) *Session {
	if cfg == nil {
		cfg = config.EmptyViewerConfig()
	}

	paths := ds.RawPaths()
	if cfg.GetInterpolate() {
		paths = ds.InterpolatedPaths()
	}

	palette := cfg.GetPalette()
	colors := make(map[string]color.RGBA, ds.Len())
	for i, id := range ds.IDs() {
		c := palette[i%len(palette)]
		colors[id] = render.RGB(uint8(c[0]), uint8(c[1]), uint8(c[2]))
	}

	s := &Session{
		ID:     uuid.New(),
		data:   ds,
		paths:  paths,
		colors: colors,
		clock: playback.NewClock(ds.MinTime, ds.MaxTime, playback.Config{
			Limits: playback.SpeedLimits{
				Min:       cfg.GetMinSpeed(),
				Max:       cfg.GetMaxSpeed(),
				Default:   cfg.GetDefaultSpeed(),
				Increment: cfg.GetSpeedIncrement(),
			},
			Unit: cfg.GetStepUnit(),
		}),
		view: Viewport{
			Center:    cfg.GetDefaultCenter(),
			Zoom:      1.0,
			AutoZoom:  cfg.GetAutoZoom(),
			Selected:  make(map[string]bool),
			ShowTrail: cfg.GetShowTrail(),
		},
		proj:     viewport.NewProjector(cfg.GetWindowWidth(), cfg.GetWindowHeight()),
		bg:       bg,
		fallback: cfg.GetDefaultCenter(),
		maxZoom:  cfg.GetMaxZoom(),
		timezone: cfg.GetDisplayTimezone(),
	}
	log.Printf("[viewer] session %s: %d tracks, %s -> %s", s.ID, ds.Len(),
		ds.MinTime.Format(time.RFC3339), ds.MaxTime.Format(time.RFC3339))
	return s
}

func (s *Session) Clock() *playback.Clock  { return s.clock }
func (s *Session) View() Viewport          { return s.view }
func (s *Session) Dataset() *track.Dataset { return s.data }

// Color returns the palette colour of a track.
func (s *Session) Color(id string) color.RGBA { return s.colors[id] }

// Visible reports whether a track is drawn under the current filter.
func (s *Session) Visible(id string) bool {
	return !s.view.HideNonSelected || s.view.Selected[id]
}

// visiblePositions returns the resolved positions of drawn tracks in
// dataset order.
func (s *Session) visiblePositions() ([]string, []track.Point) {
	pos := s.clock.Positions()
	var ids []string
	var pts []track.Point
	for _, id := range s.data.IDs() {
		p, ok := pos[id]
		if !ok || !s.Visible(id) {
			continue
		}
		ids = append(ids, id)
		pts = append(pts, p)
	}
	return ids, pts
}

// updateView resolves positions for the current time, then recentres and,
// with auto-zoom on, refits the view.
func (s *Session) updateView() {
	s.clock.Resolve(s.paths)
	_, pts := s.visiblePositions()
	s.view.Center = viewport.Center(pts, s.fallback)
	if s.view.AutoZoom && len(pts) > 0 {
		s.view.Zoom = viewport.AutoZoomMax(pts, s.maxZoom)
	}
}

func (s *Session) mapView() viewport.View {
	return viewport.View{CenterLon: s.view.Center.Lon(), CenterLat: s.view.Center.Lat(), Zoom: s.view.Zoom}
}

// ToggleSelected flips the selection of a track.
func (s *Session) ToggleSelected(id string) {
	if s.view.Selected[id] {
		delete(s.view.Selected, id)
		return
	}
	s.view.Selected[id] = true
}

// SelectedIDs returns the selection in dataset order.
func (s *Session) SelectedIDs() []string {
	var ids []string
	for _, id := range s.data.IDs() {
		if s.view.Selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Step advances playback by one tick.
func (s *Session) Step() { s.clock.Advance() }

// Replay rewinds to the first timestamp and resumes playback.
func (s *Session) Replay() { s.clock.Reset() }

// ToggleAutoZoom flips auto-zoom and refits immediately when turned on.
func (s *Session) ToggleAutoZoom() {
	s.view.AutoZoom = !s.view.AutoZoom
	if s.view.AutoZoom {
		if _, pts := s.visiblePositions(); len(pts) > 0 {
			s.view.Zoom = viewport.AutoZoomMax(pts, s.maxZoom)
		}
	}
}

// Wheel zooms manually; ignored while auto-zoom is on.
func (s *Session) Wheel(up bool) {
	if s.view.AutoZoom {
		return
	}
	s.view.Zoom = viewport.ClampZoom(viewport.WheelZoom(s.view.Zoom, up), s.maxZoom)
}
