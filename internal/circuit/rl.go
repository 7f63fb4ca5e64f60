package circuit

import (
	"fmt"
	"math"

	"github.com/san-kum/rlsim/internal/dynamo"
	"github.com/san-kum/rlsim/internal/source"
)

// Params describes one run: the circuit (R, L) and the timing of its
// square-wave excitation (T, Alpha).
type Params struct {
	R     float64 `yaml:"r" json:"r"`
	L     float64 `yaml:"l" json:"l"`
	T     float64 `yaml:"period" json:"period"`
	Alpha float64 `yaml:"duty" json:"duty"`
}

func (p Params) Validate() error {
	if !(p.R > 0) || math.IsInf(p.R, 0) {
		return dynamo.InvalidParam("R", p.R, "must be positive and finite")
	}
	if !(p.L > 0) || math.IsInf(p.L, 0) {
		return dynamo.InvalidParam("L", p.L, "must be positive and finite")
	}
	if !(p.T > 0) || math.IsInf(p.T, 0) {
		return dynamo.InvalidParam("T", p.T, "must be positive and finite")
	}
	if !(p.Alpha >= 0 && p.Alpha <= 1) {
		return dynamo.InvalidParam("alpha", p.Alpha, "must be within [0, 1]")
	}
	return nil
}

// TimeConstant returns L/R.
func (p Params) TimeConstant() float64 { return p.L / p.R }

// StabilityLimit returns 2L/R, the largest step size for which explicit
// Euler does not amplify the homogeneous solution.
func (p Params) StabilityLimit() float64 { return 2 * p.L / p.R }

// Wave builds the square wave with this run's period and duty cycle.
func (p Params) Wave(high, low float64) source.SquareWave {
	return source.NewSquareWave(p.T, p.Alpha, high, low)
}

func (p Params) String() string {
	return fmt.Sprintf("R=%gΩ L=%gH T=%gs alpha=%g", p.R, p.L, p.T, p.Alpha)
}

// RL is the circuit as a dynamo.System. State is {i}, control is {v_in}.
type RL struct {
	R float64
	L float64
}

func NewRL(p Params) *RL {
	return &RL{R: p.R, L: p.L}
}

func (c *RL) StateDim() int   { return 1 }
func (c *RL) ControlDim() int { return 1 }

func (c *RL) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	v := 0.0
	if len(u) > 0 {
		v = u[0]
	}
	return dynamo.State{(v - c.R*x[0]) / c.L}
}

// Energy returns the magnetic energy ½ L i² stored in the inductor.
func (c *RL) Energy(x dynamo.State) float64 {
	return 0.5 * c.L * x[0] * x[0]
}

func (c *RL) GetParams() map[string]float64 {
	return map[string]float64{"R": c.R, "L": c.L}
}

func (c *RL) SetParam(name string, value float64) error {
	if !(value > 0) || math.IsInf(value, 0) {
		return dynamo.InvalidParam(name, value, "must be positive and finite")
	}
	switch name {
	case "R":
		c.R = value
	case "L":
		c.L = value
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

// CheckStability returns an *dynamo.InstabilityError when h >= 2L/R.
func CheckStability(p Params, h float64) error {
	if limit := p.StabilityLimit(); h >= limit {
		return &dynamo.InstabilityError{Step: h, Limit: limit}
	}
	return nil
}
