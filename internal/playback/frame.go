package playback

import "math"

// Slider bounds for FrameClock speed; speed = slider/10.
const (
	SliderMin     = 1
	SliderMax     = 20
	SliderDefault = 10
)

// FrameClock is the frame-indexed playback state used with interpolated
// paths. It starts paused at frame 0. Fractional speeds accumulate so a
// slider below 10 still advances, more slowly.
type FrameClock struct {
	frame   int
	total   int
	speed   float64
	carry   float64
	playing bool
}

// NewFrameClock returns a paused FrameClock over total frames.
func NewFrameClock(total int) *FrameClock {
	if total < 1 {
		total = 1
	}
	return &FrameClock{total: total, speed: float64(SliderDefault) / 10}
}

func (f *FrameClock) Frame() int     { return f.frame }
func (f *FrameClock) Total() int     { return f.total }
func (f *FrameClock) Speed() float64 { return f.speed }
func (f *FrameClock) Playing() bool  { return f.playing }

// Step advances the frame after it has been drawn. Stepping past the last
// frame parks on it and stops playback. It returns whether playback
// continues.
func (f *FrameClock) Step() bool {
	if !f.playing {
		return false
	}
	f.carry += f.speed
	n := int(math.Floor(f.carry + 1e-9))
	f.carry -= float64(n)
	f.frame += n
	if f.frame >= f.total {
		f.frame = f.total - 1
		f.playing = false
		f.carry = 0
	}
	return f.playing
}

// TogglePlay flips between playing and paused and returns the new state.
func (f *FrameClock) TogglePlay() bool {
	f.playing = !f.playing
	return f.playing
}

// Replay rewinds to frame 0 and starts playing.
func (f *FrameClock) Replay() {
	f.frame = 0
	f.carry = 0
	f.playing = true
}

// SetSlider sets the speed from a slider position, clamped to
// [SliderMin, SliderMax].
func (f *FrameClock) SetSlider(v int) {
	if v < SliderMin {
		v = SliderMin
	}
	if v > SliderMax {
		v = SliderMax
	}
	f.speed = float64(v) / 10
}
