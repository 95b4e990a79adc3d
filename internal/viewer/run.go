package viewer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/banshee-data/trackview/internal/render"
	"github.com/banshee-data/trackview/internal/timeutil"
)

// Run drives an interactive session until the user quits or ctx is done.
// Each iteration draws, applies input, advances the clock and waits for
// the next tick.
func Run(ctx context.Context, s *Session, surf render.Surface, clk timeutil.Clock, fps int) error {
	ticker := clk.NewTicker(timeutil.FrameInterval(fps))
	defer ticker.Stop()

	frames := 0
	for {
		if err := s.Frame(surf, clk.Now()); err != nil {
			return fmt.Errorf("frame %d: %w", frames, err)
		}
		frames++
		for _, ev := range surf.Events() {
			if s.HandleEvent(ev) {
				log.Printf("[viewer] session %s: quit after %d frames", s.ID, frames)
				return nil
			}
		}
		s.Step()

		select {
		case <-ctx.Done():
			log.Printf("[viewer] session %s: stopped after %d frames", s.ID, frames)
			return ctx.Err()
		case <-ticker.C():
		}
	}
}

// RenderOptions controls headless rendering.
type RenderOptions struct {
	// MaxFrames caps the output; zero renders until the clock reaches the
	// last timestamp.
	MaxFrames int
	// Start is the wall time of the first frame, used for animated
	// backgrounds. Each following frame is one FPS interval later.
	Start time.Time
	FPS   int
	// OnFrame is called after each presented frame.
	OnFrame func(frame int)
}

// RenderFrames plays the session without waiting between frames. Playback
// is forced on; injected events still apply. It returns the number of
// frames presented. Without MaxFrames a pause also ends the render.
func RenderFrames(ctx context.Context, s *Session, surf render.Surface, opts RenderOptions) (int, error) {
	interval := timeutil.FrameInterval(opts.FPS)
	now := opts.Start
	if now.IsZero() {
		now = time.Now()
	}
	s.clock.Resume()

	frames := 0
	for opts.MaxFrames <= 0 || frames < opts.MaxFrames {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		if err := s.Frame(surf, now); err != nil {
			return frames, fmt.Errorf("frame %d: %w", frames, err)
		}
		frames++
		if opts.OnFrame != nil {
			opts.OnFrame(frames)
		}

		done := s.clock.AtEnd()
		for _, ev := range surf.Events() {
			if s.HandleEvent(ev) {
				done = true
			}
		}
		if done || (opts.MaxFrames <= 0 && s.clock.Paused()) {
			break
		}
		s.Step()
		now = now.Add(interval)
	}
	return frames, nil
}
