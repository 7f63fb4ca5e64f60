package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rlsim/internal/analysis"
	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/dynamo"
	"github.com/san-kum/rlsim/internal/export"
	"github.com/san-kum/rlsim/internal/source"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Cyan,
}

// formatFor maps a file extension to an output format.
func formatFor(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "png", "svg", "csv", "json":
		return ext, nil
	}
	return "", fmt.Errorf("unsupported output extension %q (use .png, .svg, .csv or .json)", filepath.Ext(path))
}

func writeFile(path string, p circuit.Params, wave source.SquareWave, traj *dynamo.Trajectory) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	if f == "png" {
		return export.PNG(path, plotTitle(p, wave), export.Series{Name: p.String(), Traj: traj})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := writeFormat(file, f, p, wave, traj); err != nil {
		return err
	}
	return file.Close()
}

func writeFormat(w io.Writer, f string, p circuit.Params, wave source.SquareWave, traj *dynamo.Trajectory) error {
	switch f {
	case "csv":
		return export.WriteCSV(w, traj)
	case "json":
		return export.WriteJSON(w, export.NewExportData(p, wave, traj))
	case "svg":
		_, err := io.WriteString(w, export.SVG(traj, 800, 400, "#4caf50"))
		return err
	case "png":
		return export.WritePNG(w, plotTitle(p, wave), export.Series{Name: p.String(), Traj: traj})
	}
	return fmt.Errorf("unknown format: %s (available: csv, json, svg, png)", f)
}

func plotTitle(p circuit.Params, wave source.SquareWave) string {
	return fmt.Sprintf("RL circuit, %g V square wave, T=%g s, alpha=%g", wave.High, p.T, p.Alpha)
}

func chart(traj *dynamo.Trajectory, caption string, w, h int) string {
	return asciigraph.Plot(traj.Currents(),
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.Caption(caption),
	)
}

func sweepChart(series []export.Series, w, h int) string {
	data := make([][]float64, len(series))
	names := make([]string, len(series))
	for i, s := range series {
		data[i] = s.Traj.Currents()
		names[i] = s.Name
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.SeriesColors(seriesColors[:min(len(series), len(seriesColors))]...),
		asciigraph.Caption("i(t) for "+strings.Join(names, ", ")),
	)
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeMetrics(w io.Writer, traj *dynamo.Trajectory) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "samples\t%d\n", traj.Len())
	for _, name := range sortedNames(traj.Metrics) {
		fmt.Fprintf(tw, "%s\t%.6f\n", name, traj.Metrics[name])
	}
	return tw.Flush()
}

func writeSweepMetrics(w io.Writer, series []export.Series) error {
	if len(series) == 0 {
		return nil
	}
	names := sortedNames(series[0].Traj.Metrics)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "run")
	for _, name := range names {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)
	for _, s := range series {
		fmt.Fprint(tw, s.Name)
		for _, name := range names {
			fmt.Fprintf(tw, "\t%.4f", s.Traj.Metrics[name])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// writeReference prints the exact periodic steady state next to the Euler
// amplification factor for the chosen step.
func writeReference(w io.Writer, p circuit.Params, wave source.SquareWave, step float64) error {
	iMin, iMax := analysis.PeriodicBounds(p, wave.High, wave.Low)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "tau (L/R)\t%.6f\n", p.TimeConstant())
	fmt.Fprintf(tw, "stability limit (2L/R)\t%.6f\n", p.StabilityLimit())
	fmt.Fprintf(tw, "euler factor (1-hR/L)\t%.6f\n", analysis.EulerDecayFactor(p, step))
	fmt.Fprintf(tw, "exact steady state\t[%.6f, %.6f]\n", iMin, iMax)
	return tw.Flush()
}
