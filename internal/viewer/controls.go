package viewer

import (
	"image/color"
	"math"

	"github.com/banshee-data/trackview/internal/render"
)

// Layout constants in window pixels.
const (
	progressBarHeight = 20
	buttonWidth       = 150
	buttonHeight      = 40
	margin            = 10
	labelPanelHeight  = 90
	pointRadius       = 5
	selectRingRadius  = 8
)

// Action is what a control does when clicked.
type Action int

const (
	ActionNone Action = iota
	ActionPause
	ActionReplay
	ActionToggleTrail
	ActionCycleUnit
	ActionToggleHide
	ActionToggleAutoZoom
	ActionSlower
	ActionResetSpeed
	ActionFaster
	ActionQuit
)

// Button is a clickable rectangle.
type Button struct {
	Label      string
	X, Y, W, H float64
	Color      color.RGBA
	Action     Action
}

// Contains reports whether x, y falls inside the button, edges included.
func (b Button) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}

// Buttons lays out the controls for the current state.
func (s *Session) Buttons() []Button {
	w, h := s.proj.Width, s.proj.Height
	right := w - buttonWidth - margin

	hide := "Hide Non-Selected"
	if s.view.HideNonSelected {
		hide = "Show All"
	}
	zoom := "Auto-Zoom: OFF"
	if s.view.AutoZoom {
		zoom = "Auto-Zoom: ON"
	}

	speedY := h - progressBarHeight - 100
	return []Button{
		{Label: "-", X: w/2 - 100, Y: speedY, W: 30, H: 30, Color: render.RGB(150, 50, 50), Action: ActionSlower},
		{Label: "Reset", X: w/2 - 30, Y: speedY, W: 60, H: 30, Color: render.RGB(100, 100, 100), Action: ActionResetSpeed},
		{Label: "+", X: w/2 + 50, Y: speedY, W: 30, H: 30, Color: render.RGB(50, 150, 50), Action: ActionFaster},
		{Label: "Pause", X: right, Y: 10, W: buttonWidth, H: buttonHeight, Color: render.RGB(50, 150, 50), Action: ActionPause},
		{Label: "Replay", X: right, Y: 60, W: buttonWidth, H: buttonHeight, Color: render.RGB(50, 150, 50), Action: ActionReplay},
		{Label: "Toggle Trail", X: right, Y: 110, W: buttonWidth, H: buttonHeight, Color: render.RGB(100, 100, 200), Action: ActionToggleTrail},
		{Label: "Time: " + s.clock.Unit().Title(), X: right, Y: 160, W: buttonWidth, H: buttonHeight, Color: render.RGB(150, 100, 50), Action: ActionCycleUnit},
		{Label: hide, X: right, Y: 210, W: buttonWidth, H: buttonHeight, Color: render.RGB(180, 80, 100), Action: ActionToggleHide},
		{Label: zoom, X: right, Y: 260, W: buttonWidth, H: buttonHeight, Color: render.RGB(80, 100, 180), Action: ActionToggleAutoZoom},
	}
}

// Apply performs an action. It returns true for ActionQuit.
func (s *Session) Apply(a Action) bool {
	switch a {
	case ActionPause:
		s.clock.TogglePause()
	case ActionReplay:
		s.Replay()
	case ActionToggleTrail:
		s.view.ShowTrail = !s.view.ShowTrail
	case ActionCycleUnit:
		s.clock.CycleUnit()
	case ActionToggleHide:
		s.view.HideNonSelected = !s.view.HideNonSelected
	case ActionToggleAutoZoom:
		s.ToggleAutoZoom()
	case ActionSlower:
		s.clock.Slower()
	case ActionResetSpeed:
		s.clock.ResetSpeed()
	case ActionFaster:
		s.clock.Faster()
	case ActionQuit:
		return true
	}
	return false
}

// keyActions are keyboard shortcuts for the buttons.
var keyActions = map[rune]Action{
	' ': ActionPause,
	'p': ActionPause,
	'r': ActionReplay,
	't': ActionToggleTrail,
	'u': ActionCycleUnit,
	'h': ActionToggleHide,
	'a': ActionToggleAutoZoom,
	'-': ActionSlower,
	'0': ActionResetSpeed,
	'+': ActionFaster,
	'=': ActionFaster,
}

// HandleEvent applies one input event and reports whether the session
// should end.
func (s *Session) HandleEvent(ev render.Event) bool {
	switch ev.Kind {
	case render.EventQuit:
		return true
	case render.EventKey:
		return s.Apply(keyActions[ev.Rune])
	case render.EventWheel:
		s.Wheel(ev.Up)
	case render.EventMouseDown:
		for _, b := range s.Buttons() {
			if b.Contains(ev.X, ev.Y) {
				return s.Apply(b.Action)
			}
		}
		if id, ok := s.TrackAt(ev.X, ev.Y); ok {
			s.ToggleSelected(id)
		}
	}
	return false
}

// TrackAt finds the drawn track position under x, y. When markers overlap
// the one drawn last, i.e. on top, wins.
func (s *Session) TrackAt(x, y float64) (string, bool) {
	ids, pts := s.visiblePositions()
	v := s.mapView()
	for i := len(ids) - 1; i >= 0; i-- {
		px, py := s.proj.Project(pts[i].Lat, pts[i].Lon, v)
		if math.Hypot(x-px, y-py) <= pointRadius {
			return ids[i], true
		}
	}
	return "", false
}
