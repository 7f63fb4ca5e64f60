// Package dynamo provides core simulation primitives for first-order
// circuit models.
//
// The package defines the interfaces and types used to integrate an
// ordinary differential equation dX/dt = f(X, u, t) on a uniform grid:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems
//   - [Integrator]: single-step numerical scheme
//   - [Source]: excitation feeding the control input u
//   - [Simulator]: drives the recurrence and produces a [Trajectory]
//
// # Example
//
//	rl := circuit.NewRL(params)
//	sim := dynamo.New(rl, integrators.NewEuler(), params.Wave(10, 0))
//	traj, _ := sim.Run(ctx, dynamo.State{0}, dynamo.Config{Dt: 1e-3, Duration: 3})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Independent runs can be executed
// concurrently with [Sweep], each job owning its own Simulator.
package dynamo
