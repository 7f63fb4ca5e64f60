// Package source provides excitation waveforms for circuit models.
package source

import (
	"math"

	"github.com/san-kum/rlsim/internal/dynamo"
)

// SquareWave is a periodic rectangular voltage. It sits at High during the
// first Duty fraction of every period and at Low for the remainder.
type SquareWave struct {
	Period float64 `yaml:"period" json:"period"`
	Duty   float64 `yaml:"duty" json:"duty"`
	High   float64 `yaml:"high" json:"high"`
	Low    float64 `yaml:"low" json:"low"`
}

func NewSquareWave(period, duty, high, low float64) SquareWave {
	return SquareWave{Period: period, Duty: duty, High: high, Low: low}
}

// Validate reports a *dynamo.ParameterError for a non-positive period,
// a duty cycle outside [0, 1] or non-finite levels.
func (w SquareWave) Validate() error {
	if !(w.Period > 0) || math.IsInf(w.Period, 0) {
		return dynamo.InvalidParam("T", w.Period, "must be positive and finite")
	}
	if !(w.Duty >= 0 && w.Duty <= 1) {
		return dynamo.InvalidParam("alpha", w.Duty, "must be within [0, 1]")
	}
	if math.IsNaN(w.High) || math.IsInf(w.High, 0) {
		return dynamo.InvalidParam("V_high", w.High, "must be finite")
	}
	if math.IsNaN(w.Low) || math.IsInf(w.Low, 0) {
		return dynamo.InvalidParam("V_low", w.Low, "must be finite")
	}
	return nil
}

// Phase maps t into [0, Period).
func (w SquareWave) Phase(t float64) float64 {
	p := math.Mod(t, w.Period)
	if p < 0 {
		p += w.Period
	}
	// -tiny + Period can round up to Period itself
	if p >= w.Period {
		p = 0
	}
	return p
}

// VoltageAt returns High when the phase lies in [0, Duty*Period), Low
// otherwise. Duty 0 is always Low, duty 1 always High. The result for a
// non-positive period is Low.
func (w SquareWave) VoltageAt(t float64) float64 {
	if !(w.Period > 0) {
		return w.Low
	}
	if w.Phase(t) < w.Duty*w.Period {
		return w.High
	}
	return w.Low
}

// Compute feeds the wave into a simulator as a one-element control vector.
func (w SquareWave) Compute(x dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{w.VoltageAt(t)}
}

// Edges lists the switching instants in [0, tMax): rising edges at k*T and
// falling edges at (k+Duty)*T. Duty 0 and 1 have no edges.
func (w SquareWave) Edges(tMax float64) []float64 {
	if !(w.Period > 0) || w.Duty <= 0 || w.Duty >= 1 {
		return nil
	}
	var edges []float64
	for k := 0; ; k++ {
		start := float64(k) * w.Period
		if start >= tMax {
			break
		}
		edges = append(edges, start)
		if fall := (float64(k) + w.Duty) * w.Period; fall < tMax {
			edges = append(edges, fall)
		}
	}
	return edges
}

// VoltageAt is the function form of SquareWave.VoltageAt.
func VoltageAt(t float64, spec SquareWave) float64 {
	return spec.VoltageAt(t)
}
