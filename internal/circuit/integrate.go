package circuit

import (
	"context"
	"math"

	"github.com/san-kum/rlsim/internal/dynamo"
	"github.com/san-kum/rlsim/internal/integrators"
	"github.com/san-kum/rlsim/internal/source"
)

const (
	DefaultHigh = 10.0
	DefaultLow  = 0.0
)

// Integrate computes the current trajectory from a de-energized inductor
// (i = 0 at t = 0) over [0, tMax) with step h. It returns floor(tMax/h)
// samples. Invalid inputs yield a *dynamo.ParameterError before any work is
// done. wave must carry the same period and duty cycle as p.
func Integrate(p Params, wave source.SquareWave, h, tMax float64, metrics ...dynamo.Metric) (*dynamo.Trajectory, error) {
	return IntegrateContext(context.Background(), p, wave, h, tMax, metrics...)
}

// IntegrateContext is Integrate with cancellation, used by sweeps.
func IntegrateContext(ctx context.Context, p Params, wave source.SquareWave, h, tMax float64, metrics ...dynamo.Metric) (*dynamo.Trajectory, error) {
	if err := validate(p, wave, h, tMax); err != nil {
		return nil, err
	}

	sim := dynamo.New(NewRL(p), integrators.NewEuler(), wave)
	for _, m := range metrics {
		sim.AddMetric(m)
	}
	return sim.Run(ctx, dynamo.State{0}, dynamo.Config{Dt: h, Duration: tMax})
}

func validate(p Params, wave source.SquareWave, h, tMax float64) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := wave.Validate(); err != nil {
		return err
	}
	if wave.Period != p.T {
		return dynamo.InvalidParam("T", wave.Period, "source period differs from circuit parameters")
	}
	if wave.Duty != p.Alpha {
		return dynamo.InvalidParam("alpha", wave.Duty, "source duty cycle differs from circuit parameters")
	}
	if !(h > 0) || math.IsInf(h, 0) {
		return dynamo.InvalidParam("h", h, "must be positive and finite")
	}
	if !(tMax > 0) || math.IsInf(tMax, 0) {
		return dynamo.InvalidParam("t_max", tMax, "must be positive and finite")
	}
	return nil
}

type options struct {
	high, low float64
	metrics   []dynamo.Metric
}

type Option func(*options)

// WithHigh sets the on-level of the source (default 10 V).
func WithHigh(v float64) Option { return func(o *options) { o.high = v } }

// WithLow sets the off-level of the source (default 0 V).
func WithLow(v float64) Option { return func(o *options) { o.low = v } }

// WithMetrics attaches metrics to the run.
func WithMetrics(m ...dynamo.Metric) Option {
	return func(o *options) { o.metrics = append(o.metrics, m...) }
}

// Simulate is the flat form of Integrate.
func Simulate(r, l, period, alpha, h, tMax float64, opts ...Option) (*dynamo.Trajectory, error) {
	o := options{high: DefaultHigh, low: DefaultLow}
	for _, opt := range opts {
		opt(&o)
	}
	p := Params{R: r, L: l, T: period, Alpha: alpha}
	return Integrate(p, p.Wave(o.high, o.low), h, tMax, o.metrics...)
}

// SweepR runs one simulation per resistance in rs, concurrently, keeping
// every other parameter of base. Results follow the order of rs. metricsFor
// may be nil; otherwise it is called once per run for a fresh metric set.
func SweepR(ctx context.Context, base Params, high, low, h, tMax float64, rs []float64, metricsFor func(Params) []dynamo.Metric) ([]*dynamo.Trajectory, error) {
	jobs := make([]dynamo.Job, len(rs))
	for i, r := range rs {
		p := base
		p.R = r
		var ms []dynamo.Metric
		if metricsFor != nil {
			ms = metricsFor(p)
		}
		jobs[i] = func(ctx context.Context) (*dynamo.Trajectory, error) {
			return IntegrateContext(ctx, p, p.Wave(high, low), h, tMax, ms...)
		}
	}
	return dynamo.Sweep(ctx, jobs, 0)
}
