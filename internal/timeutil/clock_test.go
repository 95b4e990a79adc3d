package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_NewTicker(t *testing.T) {
	clock := RealClock{}
	ticker := clock.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Error("ticker did not fire")
	}
}

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{10, 100 * time.Millisecond},
		{60, time.Second / 60},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}
	for _, tt := range tests {
		if got := FrameInterval(tt.fps); got != tt.want {
			t.Errorf("FrameInterval(%d) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestMockClock_AdvanceFiresTicker(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewMockClock(start)
	ticker := clock.NewTicker(100 * time.Millisecond)

	clock.Advance(50 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired early")
	default:
	}

	clock.Advance(50 * time.Millisecond)
	select {
	case got := <-ticker.C():
		if want := start.Add(100 * time.Millisecond); !got.Equal(want) {
			t.Errorf("tick at %v, want %v", got, want)
		}
	default:
		t.Fatal("ticker did not fire")
	}

	if !clock.Now().Equal(start.Add(100 * time.Millisecond)) {
		t.Errorf("Now() = %v", clock.Now())
	}
}

func TestMockTicker_StopAndTrigger(t *testing.T) {
	clock := NewMockClock(time.Time{})
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()

	clock.Advance(2 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}

	mt := ticker.(*MockTicker)
	now := time.Unix(42, 0)
	mt.Trigger(now)
	mt.Trigger(now.Add(time.Second))
	if got := <-ticker.C(); !got.Equal(now) {
		t.Errorf("Trigger delivered %v, want %v", got, now)
	}
}
