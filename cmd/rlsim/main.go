package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/config"
	"github.com/san-kum/rlsim/internal/dynamo"
	"github.com/san-kum/rlsim/internal/export"
	"github.com/san-kum/rlsim/internal/metrics"
	"github.com/san-kum/rlsim/internal/viz"
)

var (
	configFile string
	preset     string
	verbose    bool

	r, l, period, duty float64
	high, low          float64
	h, tMax            float64
	rs                 []float64

	outPath string
	format  string
	width   int
	height  int
)

var logger = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:   "rlsim",
		Short: "forward Euler simulation of an RL circuit driven by a square wave",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(os.Stderr)
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			logger.SetLevel(logrus.InfoLevel)
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, false)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addCircuitFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and chart or export it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addCircuitFlags(runCmd)
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the run to a file (.png, .svg, .csv, .json)")
	runCmd.Flags().StringVar(&format, "format", "", "write the run to stdout as csv, json or svg")
	runCmd.Flags().IntVar(&width, "width", 80, "chart width")
	runCmd.Flags().IntVar(&height, "height", 15, "chart height")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare runs over several resistances",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addCircuitFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&rs, "rs", nil, "resistances to compare (default from config)")
	sweepCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the comparison plot to a png file")
	sweepCmd.Flags().IntVar(&width, "width", 80, "chart width")
	sweepCmd.Flags().IntVar(&height, "height", 15, "chart height")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive app that starts animating right away",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, true)
		},
	}
	addCircuitFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s h=%g t_max=%g\n", name, cfg.Params(), cfg.Solver.H, cfg.Solver.TMax)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	addCircuitFlags(configCmd)

	rootCmd.AddCommand(runCmd, sweepCmd, liveCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCircuitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&r, "r", config.DefaultR, "resistance (ohm)")
	cmd.Flags().Float64Var(&l, "l", config.DefaultL, "inductance (H)")
	cmd.Flags().Float64Var(&period, "period", config.DefaultPeriod, "square wave period (s)")
	cmd.Flags().Float64Var(&duty, "duty", config.DefaultDuty, "duty cycle in [0,1]")
	cmd.Flags().Float64Var(&high, "high", config.DefaultHigh, "on voltage (V)")
	cmd.Flags().Float64Var(&low, "low", config.DefaultLow, "off voltage (V)")
	cmd.Flags().Float64Var(&h, "h", config.DefaultH, "step size (s)")
	cmd.Flags().Float64Var(&tMax, "tmax", config.DefaultTMax, "simulated time (s)")
}

// loadConfig resolves defaults, then the config file, then the preset, then
// any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" && !config.Apply(preset, cfg) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	overrides := []struct {
		name string
		dst  *float64
		val  float64
	}{
		{"r", &cfg.Circuit.R, r},
		{"l", &cfg.Circuit.L, l},
		{"period", &cfg.Source.Period, period},
		{"duty", &cfg.Source.Duty, duty},
		{"high", &cfg.Source.High, high},
		{"low", &cfg.Source.Low, low},
		{"h", &cfg.Solver.H, h},
		{"tmax", &cfg.Solver.TMax, tMax},
	}
	for _, o := range overrides {
		if flags.Lookup(o.name) != nil && flags.Changed(o.name) {
			*o.dst = o.val
		}
	}
	if flags.Lookup("rs") != nil && flags.Changed("rs") {
		cfg.Sweep.RValues = rs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// warnStability logs the advisory for a step at or past 2L/R.
func warnStability(p circuit.Params, step float64) {
	if err := circuit.CheckStability(p, step); err != nil {
		logger.WithFields(logrus.Fields{
			"R": p.R,
			"L": p.L,
			"h": step,
		}).Warnf("%v; the result will oscillate with growing amplitude", err)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, wave := cfg.Params(), cfg.Wave()
	logger.WithFields(logrus.Fields{
		"params": p.String(),
		"high":   wave.High,
		"low":    wave.Low,
		"h":      cfg.Solver.H,
		"t_max":  cfg.Solver.TMax,
	}).Debug("running simulation")
	warnStability(p, cfg.Solver.H)

	traj, err := circuit.Integrate(p, wave, cfg.Solver.H, cfg.Solver.TMax, metrics.Default(p, wave.High, wave.Low)...)
	if err != nil {
		return err
	}
	logger.Debugf("computed %d samples", traj.Len())

	if outPath != "" {
		if err := writeFile(outPath, p, wave, traj); err != nil {
			return err
		}
		logger.Infof("wrote %s", outPath)
		return nil
	}
	if format != "" {
		return writeFormat(cmd.OutOrStdout(), format, p, wave, traj)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, chart(traj, fmt.Sprintf("i(t) %s", p), width, height))
	fmt.Fprintln(out)
	if err := writeMetrics(out, traj); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return writeReference(out, p, wave, cfg.Solver.H)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, wave := cfg.Params(), cfg.Wave()
	values := cfg.Sweep.RValues
	if len(values) == 0 {
		return dynamo.InvalidParam("r_values", 0, "no resistances to sweep")
	}
	for _, rv := range values {
		p := base
		p.R = rv
		warnStability(p, cfg.Solver.H)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trajs, err := circuit.SweepR(ctx, base, wave.High, wave.Low, cfg.Solver.H, cfg.Solver.TMax, values,
		func(p circuit.Params) []dynamo.Metric { return metrics.Default(p, wave.High, wave.Low) })
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	logger.Debugf("swept %d resistances", len(trajs))

	series := make([]export.Series, len(trajs))
	for i, traj := range trajs {
		series[i] = export.Series{Name: fmt.Sprintf("R=%g", values[i]), Traj: traj}
	}

	if outPath != "" {
		title := fmt.Sprintf("L=%g H, T=%g s, alpha=%g", base.L, base.T, base.Alpha)
		if err := export.PNG(outPath, title, series...); err != nil {
			return err
		}
		logger.Infof("wrote %s", outPath)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, sweepChart(series, width, height))
	fmt.Fprintln(out)
	return writeSweepMetrics(out, series)
}

func runApp(cmd *cobra.Command, autoStart bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	warnStability(cfg.Params(), cfg.Solver.H)

	p := tea.NewProgram(viz.NewModel(cfg, autoStart), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
