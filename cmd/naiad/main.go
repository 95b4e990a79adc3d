// Command naiad is the GIS-layer variant of trackview. Layers are written as
// GeoJSON files into -out, which a GIS can watch and reload.
//
// Usage:
//
//	naiad [flags] generate   points and trajectory layers
//	naiad [flags] animate    play the animation layer on a timer
//	naiad [flags] preview    print the first rows of the CSV
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/trackview/internal/config"
	"github.com/banshee-data/trackview/internal/ingest"
	"github.com/banshee-data/trackview/internal/layer"
	"github.com/banshee-data/trackview/internal/monitoring"
	"github.com/banshee-data/trackview/internal/playback"
	"github.com/banshee-data/trackview/internal/prompt"
	"github.com/banshee-data/trackview/internal/timeutil"
	"github.com/banshee-data/trackview/internal/version"
)

var (
	showVersion = flag.Bool("version", false, "Print version and exit")
	configPath  = flag.String("config", "", "Viewer config JSON (default: built-in defaults)")
	csvPath     = flag.String("csv", "", "CSV with drone_id, longitude, latitude, depth, timestamp (default: file dialog)")
	outDir      = flag.String("out", "layers", "Directory receiving the GeoJSON layers")
	slider      = flag.Int("slider", playback.SliderDefault, "Animation speed slider, 1-20 (10 = one frame per tick)")
	rows        = flag.Int("rows", 10, "Rows shown by preview")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String("naiad"))
		return
	}
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "generate"
	}

	cfg := config.EmptyViewerConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadViewerConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	path := *csvPath
	if path == "" {
		var err error
		path, err = prompt.Dialogs{}.OpenFile("Select CSV", []prompt.FileFilter{{Name: "CSV Files", Patterns: []string{"*.csv"}}})
		if err != nil {
			fmt.Fprintln(os.Stderr, "No file selected.")
			os.Exit(1)
		}
	}
	if err := ingest.ValidateFields(path, ingest.RequiredFields); err != nil {
		log.Fatalf("invalid CSV: %v", err)
	}

	host, err := layer.NewGeoJSONHost(*outDir)
	if err != nil {
		log.Fatalf("failed to create layer host: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "generate":
		out, err := layer.GenerateFromFile(host, path)
		if err != nil {
			log.Fatalf("generate failed: %v", err)
		}
		monitoring.Logf("[naiad] wrote %s and %s", out.Points.Name(), out.Lines.Name())
	case "animate":
		if err := animate(ctx, host, path, cfg); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("animation failed: %v", err)
		}
	case "preview":
		d := layer.NewDialog(host)
		if err := d.Load(path); err != nil {
			log.Fatalf("load failed: %v", err)
		}
		preview, err := d.Preview(*rows)
		if err != nil {
			log.Fatalf("preview failed: %v", err)
		}
		fmt.Print(preview)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want generate, animate or preview)\n", cmd)
		os.Exit(2)
	}
}

// animate plays the dialog to its last frame, one Tick per timer tick.
func animate(ctx context.Context, host layer.Host, path string, cfg *config.ViewerConfig) error {
	d := layer.NewDialog(host)
	if err := d.Load(path); err != nil {
		return err
	}
	d.SetSlider(*slider)
	if _, err := d.TogglePlay(); err != nil {
		return err
	}

	return d.Run(ctx, timeutil.RealClock{}, cfg.GetTickInterval())
}
