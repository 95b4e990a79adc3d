package viewer

import (
	"fmt"
	"image/color"
	"time"

	"github.com/banshee-data/trackview/internal/render"
	"github.com/banshee-data/trackview/internal/units"
)

var (
	oceanColor    = render.RGB(20, 40, 100)
	gridColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 220}
	gridLabel     = render.RGB(255, 255, 0)
	uiBackground  = render.RGB(40, 40, 40)
	uiText        = render.RGB(255, 255, 255)
	progressColor = render.RGB(100, 200, 100)
)

// Frame brings the view up to date with the clock and draws one frame.
func (s *Session) Frame(surf render.Surface, now time.Time) error {
	s.updateView()
	v := s.mapView()

	surf.Clear(oceanColor)
	if s.bg != nil {
		if img := s.bg.CurrentFrame(now); img != nil {
			surf.Blit(img, 0, 0)
		}
	}

	s.drawGrid(surf)

	ids, pts := s.visiblePositions()
	if s.view.ShowTrail {
		for _, id := range ids {
			s.drawTrail(surf, id)
		}
	}
	for i, id := range ids {
		x, y := s.proj.Project(pts[i].Lat, pts[i].Lon, v)
		surf.Circle(x, y, pointRadius, s.colors[id])
		if s.view.Selected[id] {
			surf.StrokeCircle(x, y, selectRingRadius, 2, uiText)
		}
	}

	s.drawPanel(surf)
	s.drawProgress(surf)
	for _, b := range s.Buttons() {
		drawButton(surf, b)
	}
	return surf.Present()
}

func (s *Session) drawGrid(surf render.Surface) {
	w, h := s.proj.Width, s.proj.Height
	for _, gl := range s.proj.GridLines(s.mapView()) {
		lw, lh := surf.MeasureText(gl.Label)
		if gl.Vertical {
			surf.Line(gl.Pos, 0, gl.Pos, h, 2, gridColor)
			surf.Text(gl.Label, gl.Pos+4, 4, gridLabel)
			surf.Text(gl.Label, gl.Pos+4, h-lh-4, gridLabel)
			continue
		}
		surf.Line(0, gl.Pos, w, gl.Pos, 2, gridColor)
		surf.Text(gl.Label, 4, gl.Pos+4, gridLabel)
		surf.Text(gl.Label, w-lw-4, gl.Pos+4, gridLabel)
	}
}

// drawTrail connects every path point already passed, ending at the
// current position.
func (s *Session) drawTrail(surf render.Surface, id string) {
	path := s.paths[id]
	n := s.clock.Reached(id)
	if n > len(path) {
		n = len(path)
	}
	if n < 2 {
		return
	}
	v := s.mapView()
	c := s.colors[id]
	px, py := s.proj.Project(path[0].Lat, path[0].Lon, v)
	for _, p := range path[1:n] {
		x, y := s.proj.Project(p.Lat, p.Lon, v)
		surf.Line(px, py, x, y, 2, c)
		px, py = x, y
	}
}

func (s *Session) drawPanel(surf render.Surface) {
	selected := s.SelectedIDs()
	surf.FillRect(10, 10, 220, float64(100+20*len(selected)), uiBackground)

	mx, my := surf.Pointer()
	lat, lon := s.proj.Unproject(mx, my, s.mapView())
	surf.Text(fmt.Sprintf("Lat: %.4f", lat), 20, 20, uiText)
	surf.Text(fmt.Sprintf("Lon: %.4f", lon), 20, 40, uiText)

	surf.Text("Selected IDs:", 20, 70, uiText)
	for i, id := range selected {
		y := float64(70 + 20*(i+1))
		surf.Circle(26, y+6, 6, s.colors[id])
		surf.Text(id, 35, y, uiText)
	}
}

func (s *Session) drawProgress(surf render.Surface) {
	w, h := s.proj.Width, s.proj.Height
	barY := h - progressBarHeight

	surf.FillRect(0, barY-labelPanelHeight, w, labelPanelHeight, uiBackground)
	surf.FillRect(0, barY, w*s.clock.Progress(), progressBarHeight, progressColor)
	surf.StrokeRect(0, barY, w, progressBarHeight, 2, uiText)

	labelY := barY - 30
	minLabel := units.FormatTimestamp(s.clock.Min(), s.timezone)
	maxLabel := units.FormatTimestamp(s.clock.Max(), s.timezone)
	curLabel := units.FormatTimestamp(s.clock.Current(), s.timezone)
	surf.Text(minLabel, margin, labelY, uiText)
	mw, _ := surf.MeasureText(maxLabel)
	surf.Text(maxLabel, w-mw-margin, labelY, uiText)
	cw, _ := surf.MeasureText(curLabel)
	surf.Text(curLabel, w/2-cw/2, labelY, uiText)

	speed := fmt.Sprintf("Speed: %.1fx", s.clock.Speed())
	sw, _ := surf.MeasureText(speed)
	surf.Text(speed, w/2-sw/2, barY-60, uiText)
}

func drawButton(surf render.Surface, b Button) {
	surf.FillRect(b.X, b.Y, b.W, b.H, b.Color)
	tw, th := surf.MeasureText(b.Label)
	surf.Text(b.Label, b.X+(b.W-tw)/2, b.Y+(b.H-th)/2, uiText)
}
