// Package analysis provides closed-form references for the RL circuit.
//
// The numerical trajectories produced by [circuit.Integrate] are judged
// against these:
//
//   - [StepResponse]: (V/R)(1 - e^{-Rt/L}) for a constant source
//   - [FreeDecay]: i0 e^{-Rt/L} with the source off
//   - [PeriodicBounds]: current extremes in periodic steady state
//   - [MaxError]: worst deviation of a trajectory from a reference
package analysis
