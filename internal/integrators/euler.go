package integrators

import "github.com/san-kum/rlsim/internal/dynamo"

// Euler is the explicit forward Euler scheme x_{n+1} = x_n + dt*f(x_n, u_n, t_n).
// For a linear decay x' = -k x it is stable only while dt < 2/k.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
