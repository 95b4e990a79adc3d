package layer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/trackview/internal/track"
)

// WriteChart renders every track as a lon/lat scatter series to an HTML
// page.
func WriteChart(ds *track.Dataset, title, path string) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("tracks=%d samples=%d", ds.Len(), ds.SampleCount())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", NameLocation: "middle", NameGap: 25, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", NameLocation: "middle", NameGap: 30, Scale: opts.Bool(true)}),
	)
	for i, tr := range ds.Tracks {
		data := make([]opts.ScatterData, len(tr.Samples))
		for j, s := range tr.Samples {
			data[j] = opts.ScatterData{Value: []interface{}{s.Lon, s.Lat, isoTime(s.Time)}}
		}
		c := mustColor(AnimationPalette[i%len(AnimationPalette)])
		scatter.AddSeries(tr.ID, data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: Hex(c)}),
		)
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// WriteOverviewPlot draws every path as a line to a PNG, coloured with
// palette by track order.
func WriteOverviewPlot(ds *track.Dataset, paths map[string][]track.Point, palette []color.Color, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Trajectories (%d tracks)", ds.Len())
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	for i, id := range ds.IDs() {
		pts := paths[id]
		if len(pts) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(pts))
		for j, pt := range pts {
			xys[j] = plotter.XY{X: pt.Lon, Y: pt.Lat}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("track %s: %w", id, err)
		}
		if len(palette) > 0 {
			line.Color = palette[i%len(palette)]
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(id, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
