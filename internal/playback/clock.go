// Package playback holds the playback cursors: Clock advances through data
// time by a step unit, FrameClock advances through interpolated path
// indexes.
package playback

import (
	"math"
	"time"

	"github.com/banshee-data/trackview/internal/track"
	"github.com/banshee-data/trackview/internal/units"
)

// Speed bounds shared by both tools.
const (
	MinSpeed       = 0.1
	MaxSpeed       = 5.0
	DefaultSpeed   = 1.0
	SpeedIncrement = 0.1
)

// SpeedLimits bounds the playback speed multiplier.
type SpeedLimits struct {
	Min       float64
	Max       float64
	Default   float64
	Increment float64
}

// DefaultLimits are the standard speed limits.
var DefaultLimits = SpeedLimits{Min: MinSpeed, Max: MaxSpeed, Default: DefaultSpeed, Increment: SpeedIncrement}

// Config configures a Clock. Zero fields take defaults.
type Config struct {
	Limits SpeedLimits
	Unit   units.StepUnit
}

// Clock is the time-indexed playback state. current always lies in
// [min, max]; positions map track id to the latest point at or before
// current, as found by the last Resolve.
type Clock struct {
	min, max time.Time
	current  time.Time
	speed    float64
	unit     units.StepUnit
	paused   bool
	limits   SpeedLimits

	positions  map[string]track.Point
	cursors    map[string]int
	resolvedAt time.Time
	resolved   bool
}

// NewClock returns a playing Clock positioned at min.
func NewClock(min, max time.Time, cfg Config) *Clock {
	limits := cfg.Limits
	if limits.Max <= 0 {
		limits = DefaultLimits
	}
	if limits.Increment <= 0 {
		limits.Increment = SpeedIncrement
	}
	unit := cfg.Unit
	if !units.IsValid(string(unit)) {
		unit = units.Hour
	}
	if max.Before(min) {
		min, max = max, min
	}
	return &Clock{
		min:       min,
		max:       max,
		current:   min,
		speed:     clampSpeed(limits.Default, limits),
		unit:      unit,
		limits:    limits,
		positions: make(map[string]track.Point),
		cursors:   make(map[string]int),
	}
}

func clampSpeed(v float64, l SpeedLimits) float64 {
	// round away accumulated increments like 1.2000000000000002
	v = math.Round(v*1e6) / 1e6
	return math.Max(l.Min, math.Min(l.Max, v))
}

// Advance moves current forward by one step unless paused. It holds at max
// without pausing.
func (c *Clock) Advance() {
	if c.paused {
		return
	}
	next := c.current.Add(units.Step(c.unit, c.speed))
	if next.After(c.max) {
		next = c.max
	}
	c.current = next
}

// Pause stops Advance from moving the clock.
func (c *Clock) Pause() { c.paused = true }

// Resume lets Advance move the clock.
func (c *Clock) Resume() { c.paused = false }

// TogglePause flips the paused flag and returns the new value.
func (c *Clock) TogglePause() bool {
	c.paused = !c.paused
	return c.paused
}

// Reset returns to min, forgets all positions and resumes playback.
func (c *Clock) Reset() {
	c.current = c.min
	c.paused = false
	clear(c.positions)
	clear(c.cursors)
	c.resolved = false
}

// SetSpeed adjusts the speed by delta within the limits.
func (c *Clock) SetSpeed(delta float64) {
	c.speed = clampSpeed(c.speed+delta, c.limits)
}

// Faster and Slower step the speed by the configured increment.
func (c *Clock) Faster() { c.SetSpeed(c.limits.Increment) }
func (c *Clock) Slower() { c.SetSpeed(-c.limits.Increment) }

// SetSpeedAbsolute sets the speed to v within the limits.
func (c *Clock) SetSpeedAbsolute(v float64) {
	c.speed = clampSpeed(v, c.limits)
}

// ResetSpeed restores the default speed.
func (c *Clock) ResetSpeed() { c.SetSpeedAbsolute(c.limits.Default) }

// CycleUnit switches hour -> day -> month -> hour and returns the new unit.
func (c *Clock) CycleUnit() units.StepUnit {
	c.unit = units.Next(c.unit)
	return c.unit
}

// Seek moves current to t, clamped to [min, max].
func (c *Clock) Seek(t time.Time) {
	switch {
	case t.Before(c.min):
		t = c.min
	case t.After(c.max):
		t = c.max
	}
	c.current = t
}

func (c *Clock) Current() time.Time   { return c.current }
func (c *Clock) Min() time.Time       { return c.min }
func (c *Clock) Max() time.Time       { return c.max }
func (c *Clock) Speed() float64       { return c.speed }
func (c *Clock) Unit() units.StepUnit { return c.unit }
func (c *Clock) Paused() bool         { return c.paused }
func (c *Clock) Limits() SpeedLimits  { return c.limits }
func (c *Clock) AtEnd() bool          { return !c.current.Before(c.max) }

// Progress is the elapsed fraction of [min, max] in [0, 1]. A zero-length
// range counts as complete.
func (c *Clock) Progress() float64 {
	total := c.max.Sub(c.min)
	if total <= 0 {
		return 1
	}
	p := float64(c.current.Sub(c.min)) / float64(total)
	return math.Max(0, math.Min(1, p))
}

// Resolve updates positions for current. Each path must be sorted by time.
// Cursors only move forward while current does; a backward move or a Reset
// triggers a full rescan.
func (c *Clock) Resolve(paths map[string][]track.Point) {
	if c.resolved && c.current.Before(c.resolvedAt) {
		clear(c.positions)
		clear(c.cursors)
	}
	for id, path := range paths {
		n := c.cursors[id]
		if n > len(path) {
			n = 0
		}
		for n < len(path) && !path[n].Time.After(c.current) {
			n++
		}
		c.cursors[id] = n
		if n > 0 {
			c.positions[id] = path[n-1]
		} else {
			delete(c.positions, id)
		}
	}
	c.resolvedAt = c.current
	c.resolved = true
}

// Positions returns the resolved positions. The map is owned by the Clock
// and is valid until the next Resolve or Reset.
func (c *Clock) Positions() map[string]track.Point { return c.positions }

// Reached returns how many points of the track's path lie at or before
// current, as of the last Resolve. Trails draw path[:Reached(id)].
func (c *Clock) Reached(id string) int { return c.cursors[id] }
