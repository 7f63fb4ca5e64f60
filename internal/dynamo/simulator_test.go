package dynamo

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

type decay struct{ rate float64 }

func (d *decay) Derive(x State, u Control, t float64) State {
	return State{u[0] - d.rate*x[0]}
}

func (d *decay) StateDim() int   { return 1 }
func (d *decay) ControlDim() int { return 1 }

type testIntegrator struct{}

func (t *testIntegrator) Step(dyn System, x State, u Control, time float64, dt float64) State {
	dx := dyn.Derive(x, u, time)
	return State{x[0] + dt*dx[0]}
}

type constSource struct{ v float64 }

func (c constSource) Compute(x State, t float64) Control { return Control{c.v} }

type recorder struct {
	times  []float64
	inputs []float64
}

func (r *recorder) OnStep(x State, u Control, t float64) {
	r.times = append(r.times, t)
	r.inputs = append(r.inputs, u[0])
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&decay{rate: 1}, &testIntegrator{}, nil)

	traj, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if traj.Len() != 10 {
		t.Errorf("expected 10 samples, got %d", traj.Len())
	}
	if traj.Samples[0].Current != 1.0 || traj.Samples[0].Time != 0 {
		t.Errorf("first sample should be the initial state, got %+v", traj.Samples[0])
	}

	// nine Euler steps of x' = -x with h = 0.1
	want := math.Pow(0.9, 9)
	last := traj.Samples[traj.Len()-1]
	if math.Abs(last.Current-want) > 1e-12 {
		t.Errorf("expected final state %.12f, got %.12f", want, last.Current)
	}
	if math.Abs(last.Time-0.9) > 1e-12 {
		t.Errorf("expected final time 0.9, got %f", last.Time)
	}
}

func TestSimulatorUniformGrid(t *testing.T) {
	sim := New(&decay{rate: 1}, &testIntegrator{}, constSource{1})
	traj, err := sim.Run(context.Background(), State{0}, Config{Dt: 0.001, Duration: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i, s := range traj.Samples {
		if s.Time != float64(i)*0.001 {
			t.Fatalf("sample %d at t=%v, want %v", i, s.Time, float64(i)*0.001)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&decay{rate: 1}, &testIntegrator{}, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"nan dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"infinite duration", Config{Dt: 0.1, Duration: math.Inf(1)}},
		{"shorter than a step", Config{Dt: 0.5, Duration: 0.2}},
		{"too many samples", Config{Dt: 1e-20, Duration: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj, err := sim.Run(context.Background(), State{1.0}, tt.cfg)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if traj != nil {
				t.Error("expected no trajectory on invalid config")
			}
		})
	}
}

func TestSimulatorTooManySamples(t *testing.T) {
	sim := New(&decay{rate: 1}, &testIntegrator{}, nil)
	_, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 1e-20, Duration: 1})

	var pe *ParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParameterError, got %v", err)
	}
	if pe.Name != "h" || !strings.Contains(pe.Reason, "more than") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	sim := New(&decay{rate: 1}, &testIntegrator{}, nil)
	_, err := sim.Run(context.Background(), State{1, 2}, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(&decay{rate: 1}, &testIntegrator{}, nil)
	traj, err := sim.Run(ctx, State{1}, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if traj != nil {
		t.Error("expected no trajectory after cancel")
	}
}

func TestSimulatorObservers(t *testing.T) {
	sim := New(&decay{rate: 1}, &testIntegrator{}, constSource{5})
	rec := &recorder{}
	sim.AddObserver(rec)

	if _, err := sim.Run(context.Background(), State{0}, Config{Dt: 0.25, Duration: 1}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(rec.times) != 4 {
		t.Fatalf("expected 4 observations, got %d", len(rec.times))
	}
	for i, v := range rec.inputs {
		if v != 5 {
			t.Errorf("observation %d saw input %v, want 5", i, v)
		}
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x State, u Control, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&decay{rate: 1}, &testIntegrator{}, nil)

	metric := &testMetric{}
	sim.AddMetric(metric)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	traj, err := sim.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := traj.Metrics["test"]; !ok {
		t.Error("metric not found in trajectory")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}

	// metrics are reset between runs
	if _, err := sim.Run(context.Background(), State{1.0}, cfg); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations after rerun, got %d", metric.count)
	}
}
