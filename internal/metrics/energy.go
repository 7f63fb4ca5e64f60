package metrics

import (
	"math"

	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/dynamo"
)

// FinalEnergy reports the inductor energy of the last observed sample.
type FinalEnergy struct {
	name   string
	rl     *circuit.RL
	energy float64
}

func NewFinalEnergy(p circuit.Params) *FinalEnergy {
	return &FinalEnergy{name: "final_energy", rl: circuit.NewRL(p)}
}

func (e *FinalEnergy) Name() string { return e.name }

func (e *FinalEnergy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.energy = e.rl.Energy(x)
}

func (e *FinalEnergy) Value() float64 { return e.energy }
func (e *FinalEnergy) Reset()         { e.energy = 0 }

// Divergence is 1 once |i| exceeds bound or becomes NaN/Inf, 0 otherwise.
type Divergence struct {
	name     string
	bound    float64
	diverged bool
}

func NewDivergence(bound float64) *Divergence {
	return &Divergence{name: "divergence", bound: bound}
}

func (d *Divergence) Name() string { return d.name }

func (d *Divergence) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if !x.IsValid() || math.Abs(x[0]) > d.bound {
		d.diverged = true
	}
}

func (d *Divergence) Value() float64 {
	if d.diverged {
		return 1
	}
	return 0
}

func (d *Divergence) Reset() { d.diverged = false }

// DivergenceFactor scales the physical current bound max(|V|)/R into the
// threshold used by the default divergence metric.
const DivergenceFactor = 10.0

// Default returns the standard metric set for a run of p with source levels
// high and low.
func Default(p circuit.Params, high, low float64) []dynamo.Metric {
	bound := DivergenceFactor * math.Max(math.Abs(high), math.Abs(low)) / p.R
	if bound == 0 {
		bound = DivergenceFactor
	}
	return []dynamo.Metric{
		NewPeak(),
		NewMean(),
		NewRMS(),
		NewRipple(p.T),
		NewFinalEnergy(p),
		NewDivergence(bound),
	}
}
