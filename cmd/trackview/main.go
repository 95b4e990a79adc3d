// Command trackview plays back the tracks of a CSV file over a background
// image. Without -csv it asks for the file, columns, projection and
// background with dialogs; output goes to the terminal unless -frames or
// -gif asks for rendered images.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/banshee-data/trackview/internal/config"
	"github.com/banshee-data/trackview/internal/ingest"
	"github.com/banshee-data/trackview/internal/layer"
	"github.com/banshee-data/trackview/internal/monitoring"
	"github.com/banshee-data/trackview/internal/prompt"
	"github.com/banshee-data/trackview/internal/render"
	"github.com/banshee-data/trackview/internal/timeutil"
	"github.com/banshee-data/trackview/internal/track"
	"github.com/banshee-data/trackview/internal/version"
	"github.com/banshee-data/trackview/internal/viewer"
)

var (
	showVersion = flag.Bool("version", false, "Print version and exit")
	configPath  = flag.String("config", "", "Viewer config JSON (default: built-in defaults)")

	csvPath    = flag.String("csv", "", "CSV file; skips the dialogs and answers them from flags")
	xColumn    = flag.String("x", "", "X/longitude column, by name or 1-based number")
	yColumn    = flag.String("y", "", "Y/latitude column, by name or 1-based number")
	timeColumn = flag.String("time", "", "Time column, by name or 1-based number")
	idColumn   = flag.String("id", "", "Optional track id column")
	crs        = flag.String("crs", "", "Source CRS of x/y (default from config)")
	background = flag.String("background", "", "Background image or animated GIF")
	noBg       = flag.Bool("no-background", false, "Play over the plain ocean colour")

	framesDir = flag.String("frames", "", "Write PNG frames to this directory")
	gifPath   = flag.String("gif", "", "Write an animated GIF")
	maxFrames = flag.Int("max-frames", 0, "Stop after this many frames (0: until the last timestamp)")

	chartPath = flag.String("chart", "", "Also write an HTML chart of the tracks")
	plotPath  = flag.String("plot", "", "Also write a PNG overview plot of the paths")
	logDir    = flag.String("log-dir", "", "Log directory for terminal mode (default: user cache dir)")
)

// cancelMessages are printed when the user dismisses a dialog.
var cancelMessages = []struct{ prefix, msg string }{
	{"no file selected", "No file selected."},
	{"column selection", "No column selected."},
	{"projection", "No projection entered."},
}

func cancelMessage(err error) string {
	for _, c := range cancelMessages {
		if strings.HasPrefix(err.Error(), c.prefix) {
			return c.msg
		}
	}
	return "Cancelled."
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String("trackview"))
		return
	}

	cfg := config.EmptyViewerConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadViewerConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	var p prompt.Prompter = prompt.Dialogs{}
	if *csvPath != "" {
		p = prompt.NewScripted(*csvPath, *xColumn, *yColumn, *timeColumn, *idColumn, *crs, *background)
	}

	defaultCRS := cfg.GetDefaultCRS()
	ds, err := ingest.LoadInteractive(p, defaultCRS, nil)
	if err != nil {
		if errors.Is(err, ingest.ErrCancelled) {
			fmt.Fprintln(os.Stderr, cancelMessage(err))
			os.Exit(1)
		}
		p.Error("Error", err.Error())
		log.Fatalf("failed to load tracks: %v", err)
	}

	if err := writeExports(ds, cfg); err != nil {
		log.Fatalf("failed to write exports: %v", err)
	}

	w, h := cfg.GetWindowWidth(), cfg.GetWindowHeight()
	var bg render.Background
	if !*noBg {
		path, err := p.OpenFile("Select Background", []prompt.FileFilter{
			{Name: "Images", Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif"}},
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "No background selected.")
			os.Exit(1)
		}
		if bg, err = render.LoadBackground(path, w, h, cfg.GetBackgroundFrameDelay(), time.Now()); err != nil {
			p.Error("Error", err.Error())
			log.Fatalf("failed to load background: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := viewer.NewSession(ds, cfg, bg)
	if *framesDir != "" || *gifPath != "" {
		if err := renderHeadless(ctx, s, cfg); err != nil {
			log.Fatalf("render failed: %v", err)
		}
		return
	}

	closer, err := monitoring.SetupFileLog(*logDir, "trackview.log")
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer closer.Close()

	term, err := render.OpenTerminal(w, h)
	if err != nil {
		log.Fatalf("failed to open terminal: %v", err)
	}
	err = viewer.Run(ctx, s, term, timeutil.RealClock{}, cfg.GetFPS())
	term.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("viewer stopped: %v", err)
	}
}

func renderHeadless(ctx context.Context, s *viewer.Session, cfg *config.ViewerConfig) error {
	if *framesDir != "" {
		if err := os.MkdirAll(*framesDir, 0o755); err != nil {
			return err
		}
	}
	raster, err := render.NewRaster(render.RasterOptions{
		Width:        cfg.GetWindowWidth(),
		Height:       cfg.GetWindowHeight(),
		FrameDir:     *framesDir,
		GIFPath:      *gifPath,
		GIFDelay:     timeutil.FrameInterval(cfg.GetFPS()),
		GIFMaxFrames: cfg.GetGIFMaxFrames(),
	})
	if err != nil {
		return err
	}

	limit := *maxFrames
	if limit == 0 && *gifPath != "" && *framesDir == "" {
		limit = cfg.GetGIFMaxFrames()
	}
	total := int64(-1)
	if limit > 0 {
		total = int64(limit)
	}
	bar := progressbar.Default(total, "Rendering")
	n, err := viewer.RenderFrames(ctx, s, raster, viewer.RenderOptions{
		MaxFrames: limit,
		Start:     time.Now(),
		FPS:       cfg.GetFPS(),
		OnFrame:   func(int) { bar.Add(1) },
	})
	bar.Finish()
	if cerr := raster.Close(); err == nil {
		err = cerr
	}
	monitoring.Logf("[viewer] rendered %d frames", n)
	return err
}

func writeExports(ds *track.Dataset, cfg *config.ViewerConfig) error {
	if *chartPath != "" {
		if err := layer.WriteChart(ds, "Tracks", *chartPath); err != nil {
			return err
		}
	}
	if *plotPath != "" {
		paths := ds.RawPaths()
		if cfg.GetInterpolate() {
			paths = ds.InterpolatedPaths()
		}
		var palette []color.Color
		for _, c := range cfg.GetPalette() {
			palette = append(palette, render.RGB(uint8(c[0]), uint8(c[1]), uint8(c[2])))
		}
		if err := layer.WriteOverviewPlot(ds, paths, palette, *plotPath); err != nil {
			return err
		}
	}
	return nil
}
