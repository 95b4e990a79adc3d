package layer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/paulmach/orb"

	"github.com/banshee-data/trackview/internal/ingest"
	"github.com/banshee-data/trackview/internal/playback"
	"github.com/banshee-data/trackview/internal/reproject"
	"github.com/banshee-data/trackview/internal/timeutil"
	"github.com/banshee-data/trackview/internal/track"
)

// ErrNotLoaded is returned by playback controls before a CSV is loaded.
var ErrNotLoaded = errors.New("no CSV file loaded")

// Dialog is the frame-indexed animation panel. The host calls Tick on a
// timer; every tick while playing appends, for each track still running,
// the path up to the current frame to the animation layer.
type Dialog struct {
	host  Host
	layer Layer

	path  string
	data  *track.Dataset
	paths map[string][]track.Point
	clock *playback.FrameClock

	status string
}

// NewDialog returns a dialog with nothing loaded.
func NewDialog(h Host) *Dialog {
	return &Dialog{host: h, clock: playback.NewFrameClock(1), status: "Frame : 0/0 | Time : -"}
}

// Load reads path with the fixed plugin columns and prepares the
// interpolated paths. The animation layer is created on first load and
// emptied on later ones.
func (d *Dialog) Load(path string) error {
	ds, err := loadForPlugin(path)
	if err != nil {
		d.host.PushMessage("Error", fmt.Sprintf("Error: %v", err), Critical)
		return err
	}
	if d.layer == nil {
		l, err := d.host.CreateLayer(AnimationLayerName, LineString, reproject.WGS84,
			[]string{ingest.FieldID, ingest.FieldTimestamp})
		if err != nil {
			return err
		}
		if err := l.SetCategories(ingest.FieldID, PaletteCategories(ds.IDs(), 1)); err != nil {
			return err
		}
		d.layer = l
	} else {
		d.layer.Truncate()
		if err := d.layer.SetCategories(ingest.FieldID, PaletteCategories(ds.IDs(), 1)); err != nil {
			return err
		}
	}

	d.path = path
	d.data = ds
	d.paths = ds.InterpolatedPaths()
	total := 0
	for _, p := range d.paths {
		total = max(total, len(p))
	}
	d.clock = playback.NewFrameClock(total)
	d.status = fmt.Sprintf("Frame : 0/%d | Time : -", d.clock.Total())
	log.Printf("[naiad] loaded %s: %d tracks, %d frames", path, ds.Len(), total)
	return nil
}

// Loaded reports whether a CSV has been loaded.
func (d *Dialog) Loaded() bool { return d.data != nil }

// Layer returns the animation layer, nil before Load.
func (d *Dialog) Layer() Layer { return d.layer }

// Clock exposes the frame clock.
func (d *Dialog) Clock() *playback.FrameClock { return d.clock }

// Preview returns the first n rows of the loaded CSV as a table.
func (d *Dialog) Preview(n int) (string, error) {
	if !d.Loaded() {
		return "", ErrNotLoaded
	}
	t, err := ingest.ReadTable(d.path)
	if err != nil {
		return "", err
	}
	return t.Preview(n), nil
}

func (d *Dialog) requireLoaded() error {
	if d.Loaded() {
		return nil
	}
	d.host.PushMessage("Warning", "No CSV file loaded", Warning)
	return ErrNotLoaded
}

// TogglePlay starts or pauses the animation and returns whether it is
// playing.
func (d *Dialog) TogglePlay() (bool, error) {
	if err := d.requireLoaded(); err != nil {
		return false, err
	}
	return d.clock.TogglePlay(), nil
}

// Replay clears the animation layer and plays from frame 0.
func (d *Dialog) Replay() error {
	if err := d.requireLoaded(); err != nil {
		return err
	}
	d.layer.Truncate()
	d.clock.Replay()
	return d.layer.Repaint()
}

// SetSlider sets the speed from a slider value in [1, 20].
func (d *Dialog) SetSlider(v int) { d.clock.SetSlider(v) }

// Tick draws the current frame and advances. It does nothing unless
// playing.
func (d *Dialog) Tick() error {
	if !d.Loaded() || !d.clock.Playing() {
		return nil
	}
	frame := d.clock.Frame()

	var fs []Feature
	for _, id := range d.data.IDs() {
		path := d.paths[id]
		// a line needs two vertices, so frame 0 draws nothing
		if frame == 0 || frame >= len(path) {
			continue
		}
		ls := make(orb.LineString, frame+1)
		for i, p := range path[:frame+1] {
			ls[i] = orb.Point{p.Lon, p.Lat}
		}
		fs = append(fs, Feature{Geometry: ls, Attrs: []any{id, isoTime(path[frame].Time)}})
	}
	if err := d.layer.AddFeatures(fs...); err != nil {
		return err
	}

	ts := "-"
	if len(fs) > 0 {
		ts = fs[0].Attrs[1].(string)
	}
	d.status = fmt.Sprintf("Frame : %d/%d | Time : %s", frame, d.clock.Total(), ts)

	d.clock.Step()
	d.layer.UpdateExtents()
	return d.layer.Repaint()
}

// Status is the line shown under the controls.
func (d *Dialog) Status() string { return d.status }

// Run ticks every interval until playback stops or ctx is done.
func (d *Dialog) Run(ctx context.Context, clk timeutil.Clock, interval time.Duration) error {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()
	for d.clock.Playing() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
		}
		if err := d.Tick(); err != nil {
			return err
		}
		log.Printf("[naiad] %s", d.status)
	}
	log.Printf("[naiad] animation finished at %s", d.status)
	return nil
}
