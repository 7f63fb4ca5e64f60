package analysis

import (
	"math"

	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/dynamo"
)

// StepResponse is the exact current for a constant source v switched on at
// t = 0 into a de-energized inductor.
func StepResponse(p circuit.Params, v, t float64) float64 {
	return v / p.R * (1 - math.Exp(-t/p.TimeConstant()))
}

// FreeDecay is the exact current with no source, from i0 at t = 0.
func FreeDecay(p circuit.Params, i0, t float64) float64 {
	return i0 * math.Exp(-t/p.TimeConstant())
}

// PeriodicBounds returns the minimum and maximum current of the periodic
// steady state reached under a square wave with levels high and low.
func PeriodicBounds(p circuit.Params, high, low float64) (iMin, iMax float64) {
	tau := p.TimeConstant()
	a := math.Exp(-p.Alpha * p.T / tau)
	b := math.Exp(-(1 - p.Alpha) * p.T / tau)
	ih, il := high/p.R, low/p.R

	// iMax = ih + (iMin - ih) a, iMin = il + (iMax - il) b
	iMax = (ih*(1-a) + il*(1-b)*a) / (1 - a*b)
	iMin = il + (iMax-il)*b
	return iMin, iMax
}

// EulerDecayFactor is the per-step amplification 1 - hR/L of the
// homogeneous recurrence. Magnitudes above one diverge.
func EulerDecayFactor(p circuit.Params, h float64) float64 {
	return 1 - h*p.R/p.L
}

// MaxError returns max |i_n - exact(t_n)| over the trajectory.
func MaxError(traj *dynamo.Trajectory, exact func(t float64) float64) float64 {
	worst := 0.0
	for _, s := range traj.Samples {
		if d := math.Abs(s.Current - exact(s.Time)); d > worst {
			worst = d
		}
	}
	return worst
}
