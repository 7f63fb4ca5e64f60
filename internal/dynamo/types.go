package dynamo

import (
	"encoding/json"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Source provides the control input applied over a step starting at t.
type Source interface {
	Compute(x State, t float64) Control
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

// Sample is one point of a current trajectory.
type Sample struct {
	Time    float64 `json:"time"`
	Current float64 `json:"current"`
}

// MarshalJSON writes a NaN or infinite current as null, as diverged runs
// are kept rather than rejected.
func (s Sample) MarshalJSON() ([]byte, error) {
	type wire struct {
		Time    float64  `json:"time"`
		Current *float64 `json:"current"`
	}
	w := wire{Time: s.Time}
	if !math.IsNaN(s.Current) && !math.IsInf(s.Current, 0) {
		w.Current = &s.Current
	}
	return json.Marshal(w)
}

// Trajectory is the output of a single run. It is not modified after Run
// returns it.
type Trajectory struct {
	Samples  []Sample
	Dt       float64
	Duration float64
	Metrics  map[string]float64
}

func (tr *Trajectory) Len() int { return len(tr.Samples) }

// Times and Currents return fresh slices, safe for callers to modify.
func (tr *Trajectory) Times() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.Time
	}
	return out
}

func (tr *Trajectory) Currents() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.Current
	}
	return out
}

// MaxAbs returns the largest |i| in the trajectory.
func (tr *Trajectory) MaxAbs() float64 {
	m := 0.0
	for _, s := range tr.Samples {
		if a := math.Abs(s.Current); a > m {
			m = a
		}
	}
	return m
}

// MaxSamples is the largest trajectory a single run may produce.
const MaxSamples = 1 << 27

// SampleCount returns floor(duration/dt) with a small tolerance, so that
// 0.3/0.1 yields 3 rather than 2. Quotients beyond MaxSamples (or NaN) are
// reported as MaxSamples+1.
func SampleCount(duration, dt float64) int {
	q := duration / dt
	if !(q <= MaxSamples) {
		return MaxSamples + 1
	}
	return int(math.Floor(q + math.Min(q*1e-9, 1e-6)))
}
