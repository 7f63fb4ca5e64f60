package dynamo

import (
	"context"
	"fmt"
	"math"
)

// ctxCheckInterval bounds how many steps run between context checks.
const ctxCheckInterval = 1024

type Simulator struct {
	dyn        System
	integrator Integrator
	source     Source
	metrics    []Metric
	observers  []Observer
}

// New builds a simulator. A nil source drives the system with a zero input.
func New(dyn System, integrator Integrator, source Source) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		source:     source,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 on the grid t_n = n*Dt and returns
// SampleCount(Duration, Dt) samples. Sample n records x[0] at t_n; the input
// for the step t_n -> t_n+1 is taken from the source at t_n.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Trajectory, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	n := SampleCount(cfg.Duration, cfg.Dt)
	traj := &Trajectory{
		Samples:  make([]Sample, n),
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Metrics:  make(map[string]float64, len(s.metrics)),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	for k := 0; k < n; k++ {
		if k%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		t := float64(k) * cfg.Dt
		u := s.input(x, t)
		traj.Samples[k] = Sample{Time: t, Current: x[0]}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		if k == n-1 {
			break
		}
		x = s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
	}

	for _, m := range s.metrics {
		traj.Metrics[m.Name()] = m.Value()
	}

	return traj, nil
}

func (s *Simulator) input(x State, t float64) Control {
	if s.source == nil {
		return make(Control, s.dyn.ControlDim())
	}
	return s.source.Compute(x, t)
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return InvalidParam("h", cfg.Dt, "must be positive and finite")
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return InvalidParam("t_max", cfg.Duration, "must be positive and finite")
	}
	n := SampleCount(cfg.Duration, cfg.Dt)
	if n < 1 {
		return InvalidParam("t_max", cfg.Duration, fmt.Sprintf("must be at least one step (h=%g)", cfg.Dt))
	}
	if n > MaxSamples {
		return InvalidParam("h", cfg.Dt, fmt.Sprintf("too small for t_max=%g: more than %d samples", cfg.Duration, MaxSamples))
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: initial state has %d components, system expects %d",
			ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	return nil
}
