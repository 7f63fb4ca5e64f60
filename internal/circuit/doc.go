// Package circuit models a series RL circuit driven by a square-wave source
// and integrates its current with the explicit Euler method.
//
// The governing equation is
//
//	L di/dt + R i = v_in(t)
//
// discretized on t_n = n*h with the source sampled at the start of each step:
//
//	i[n+1] = i[n] + h * (v_in(t_n) - R*i[n]) / L
//
// The scheme is conditionally stable. For h >= 2L/R the homogeneous factor
// 1 - hR/L has magnitude of at least one and the current oscillates with
// non-decaying amplitude. [Integrate] does not refuse such step sizes;
// [CheckStability] reports them.
package circuit
