package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/rlsim/internal/dynamo"
)

const (
	pngWidthIn  = 8.0
	pngHeightIn = 5.0
	pngDPI      = 300
)

// Series is one labeled trajectory on a plot.
type Series struct {
	Name string
	Traj *dynamo.Trajectory
}

// NewPlot builds a current-vs-time line plot with one line per series.
func NewPlot(title string, series ...Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("plot %q: no series", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Current (A)"
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if s.Traj == nil || s.Traj.Len() == 0 {
			return nil, fmt.Errorf("plot %q: series %q is empty", title, s.Name)
		}
		line, err := plotter.NewLine(plotPoints(s.Traj))
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}
	p.Legend.Top = true

	return p, nil
}

// plotAbsLimit bounds plotted magnitudes so that axis ranges stay finite.
const plotAbsLimit = 1e300

// plottable returns the samples worth drawing: a diverged run is cut at its
// first non-finite current and large values are clipped to plotAbsLimit.
func plottable(samples []dynamo.Sample) []dynamo.Sample {
	out := make([]dynamo.Sample, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s.Current) || math.IsInf(s.Current, 0) {
			break
		}
		s.Current = math.Max(-plotAbsLimit, math.Min(plotAbsLimit, s.Current))
		out = append(out, s)
	}
	return out
}

func plotPoints(traj *dynamo.Trajectory) plotter.XYs {
	samples := plottable(traj.Samples)
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Time
		pts[i].Y = s.Current
	}
	return pts
}

// WritePNG renders the series as a 300 DPI PNG.
func WritePNG(w io.Writer, title string, series ...Series) error {
	p, err := NewPlot(title, series...)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(pngWidthIn)*vg.Inch, vg.Length(pngHeightIn)*vg.Inch),
		vgimg.UseDPI(pngDPI),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// PNG writes the plot to path, creating parent directories.
func PNG(path, title string, series ...Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	if err := WritePNG(f, title, series...); err != nil {
		return err
	}
	return f.Close()
}
