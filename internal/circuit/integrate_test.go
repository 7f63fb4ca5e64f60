package circuit_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rlsim/internal/analysis"
	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/dynamo"
	"github.com/san-kum/rlsim/internal/integrators"
	"github.com/san-kum/rlsim/internal/metrics"
)

var _ = Describe("Integrate", func() {
	classic := circuit.Params{R: 1, L: 1, T: 1, Alpha: 0.5}

	DescribeTable("grid length and initial condition",
		func(p circuit.Params, h, tMax float64, want int) {
			traj, err := circuit.Integrate(p, p.Wave(10, 0), h, tMax)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(want))
			Expect(traj.Samples[0]).To(Equal(dynamo.Sample{Time: 0, Current: 0}))
		},
		Entry("first script", classic, 0.001, 3.0, 3000),
		Entry("second script", classic, 0.01, 10.0, 1000),
		Entry("inexact quotient", classic, 0.1, 0.3, 3),
		Entry("non-integer quotient", classic, 0.3, 1.0, 3),
		Entry("single sample", classic, 1.0, 1.5, 1),
		Entry("unstable step", circuit.Params{R: 10, L: 1, T: 1, Alpha: 0.5}, 0.5, 10.0, 20),
	)

	It("is deterministic", func() {
		a, err := circuit.Integrate(classic, classic.Wave(10, 0), 0.001, 3)
		Expect(err).NotTo(HaveOccurred())
		b, err := circuit.Integrate(classic, classic.Wave(10, 0), 0.001, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Samples).To(Equal(a.Samples))
	})

	It("keeps the grid uniform", func() {
		traj, err := circuit.Integrate(classic, classic.Wave(10, 0), 0.001, 3)
		Expect(err).NotTo(HaveOccurred())
		for n, s := range traj.Samples {
			Expect(s.Time).To(Equal(float64(n) * 0.001))
		}
	})

	Context("with R=1, L=1, T=1, alpha=0.5, h=0.001, t_max=3 and a 10 V source", func() {
		var (
			traj *dynamo.Trajectory
			wave = classic.Wave(10, 0)
		)

		BeforeEach(func() {
			var err error
			traj, err = circuit.Integrate(classic, wave, 0.001, 3)
			Expect(err).NotTo(HaveOccurred())
		})

		It("has 3000 samples starting from zero", func() {
			Expect(traj.Len()).To(Equal(3000))
			Expect(traj.Samples[0].Current).To(BeZero())
		})

		It("rises while the source is on and decays while it is off", func() {
			for n := 0; n < traj.Len()-1; n++ {
				cur, next := traj.Samples[n], traj.Samples[n+1]
				if wave.VoltageAt(cur.Time) == 10 {
					Expect(next.Current).To(BeNumerically(">", cur.Current), "step %d at t=%.3f", n, cur.Time)
				} else {
					Expect(next.Current).To(BeNumerically("<", cur.Current), "step %d at t=%.3f", n, cur.Time)
				}
			}
		})

		It("stays below V_high/R", func() {
			for _, s := range traj.Samples {
				Expect(s.Current).To(BeNumerically("<", 10.0))
				Expect(s.Current).To(BeNumerically(">=", 0.0))
			}
		})

		It("peaks at the end of each on half-period", func() {
			peak := traj.Samples[500]
			Expect(peak.Time).To(BeNumerically("~", 0.5, 1e-12))
			Expect(traj.Samples[499].Current).To(BeNumerically("<", peak.Current))
			Expect(traj.Samples[501].Current).To(BeNumerically("<", peak.Current))
		})
	})

	Context("with a constant source (alpha = 1)", func() {
		dc := circuit.Params{R: 2, L: 1, T: 1, Alpha: 1}

		It("approaches V_high/R", func() {
			traj, err := circuit.Integrate(dc, dc.Wave(10, 0), 0.001, 15)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Samples[traj.Len()-1].Current).To(BeNumerically("~", 5.0, 1e-6))
		})

		It("converges to the exact solution as h shrinks", func() {
			exact := func(t float64) float64 { return analysis.StepResponse(dc, 10, t) }

			var errs []float64
			for _, h := range []float64{0.1, 0.01, 0.001} {
				traj, err := circuit.Integrate(dc, dc.Wave(10, 0), h, 5)
				Expect(err).NotTo(HaveOccurred())
				errs = append(errs, analysis.MaxError(traj, exact))
			}

			Expect(errs[1]).To(BeNumerically("<", errs[0]))
			Expect(errs[2]).To(BeNumerically("<", errs[1]))
			Expect(errs[2]).To(BeNumerically("<", 3e-3))
		})
	})

	Context("with the source off (alpha = 0)", func() {
		off := circuit.Params{R: 1, L: 1, T: 1, Alpha: 0}

		It("keeps a de-energized inductor at zero", func() {
			traj, err := circuit.Integrate(off, off.Wave(10, 0), 0.001, 3)
			Expect(err).NotTo(HaveOccurred())
			for _, s := range traj.Samples {
				Expect(s.Current).To(BeZero())
			}
		})

		It("decays from an initial current like i0 e^(-Rt/L)", func() {
			sim := dynamo.New(circuit.NewRL(off), integrators.NewEuler(), off.Wave(10, 0))
			traj, err := sim.Run(context.Background(), dynamo.State{5}, dynamo.Config{Dt: 0.001, Duration: 3})
			Expect(err).NotTo(HaveOccurred())

			exact := func(t float64) float64 { return analysis.FreeDecay(off, 5, t) }
			Expect(analysis.MaxError(traj, exact)).To(BeNumerically("<", 2e-3))
			Expect(traj.Samples[traj.Len()-1].Current).To(BeNumerically("<", traj.Samples[0].Current))
		})
	})

	Context("beyond the stability limit (R=10, L=1, h=0.5)", func() {
		unstable := circuit.Params{R: 10, L: 1, T: 1, Alpha: 0.5}

		It("is reported as advisory but still runs", func() {
			Expect(errors.Is(circuit.CheckStability(unstable, 0.5), dynamo.ErrNumericalInstability)).To(BeTrue())

			_, err := circuit.Integrate(unstable, unstable.Wave(10, 0), 0.5, 10)
			Expect(err).NotTo(HaveOccurred())
		})

		It("oscillates with growing magnitude", func() {
			traj, err := circuit.Integrate(unstable, unstable.Wave(10, 0), 0.5, 10)
			Expect(err).NotTo(HaveOccurred())

			for n := 1; n < traj.Len()-1; n++ {
				cur, next := traj.Samples[n].Current, traj.Samples[n+1].Current
				Expect(math.Abs(next)).To(BeNumerically(">", math.Abs(cur)), "step %d", n)
				Expect(math.Signbit(next)).NotTo(Equal(math.Signbit(cur)), "step %d", n)
			}
			Expect(traj.MaxAbs()).To(BeNumerically(">", 1e6))
		})
	})

	DescribeTable("rejects invalid parameters before computing",
		func(p circuit.Params, h, tMax float64, name string) {
			traj, err := circuit.Integrate(p, p.Wave(10, 0), h, tMax)
			Expect(traj).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue(), "got %v", err)

			var pe *dynamo.ParameterError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Name).To(Equal(name))
		},
		Entry("zero R", circuit.Params{R: 0, L: 1, T: 1, Alpha: 0.5}, 0.01, 1.0, "R"),
		Entry("negative R", circuit.Params{R: -1, L: 1, T: 1, Alpha: 0.5}, 0.01, 1.0, "R"),
		Entry("NaN R", circuit.Params{R: math.NaN(), L: 1, T: 1, Alpha: 0.5}, 0.01, 1.0, "R"),
		Entry("zero L", circuit.Params{R: 1, L: 0, T: 1, Alpha: 0.5}, 0.01, 1.0, "L"),
		Entry("zero T", circuit.Params{R: 1, L: 1, T: 0, Alpha: 0.5}, 0.01, 1.0, "T"),
		Entry("alpha below 0", circuit.Params{R: 1, L: 1, T: 1, Alpha: -0.1}, 0.01, 1.0, "alpha"),
		Entry("alpha above 1", circuit.Params{R: 1, L: 1, T: 1, Alpha: 1.5}, 0.01, 1.0, "alpha"),
		Entry("zero h", classic, 0.0, 1.0, "h"),
		Entry("negative h", classic, -0.01, 1.0, "h"),
		Entry("zero t_max", classic, 0.01, 0.0, "t_max"),
		Entry("t_max below h", classic, 0.5, 0.2, "t_max"),
	)

	It("rejects a source that disagrees with the circuit timing", func() {
		wave := classic.Wave(10, 0)
		wave.Period = 2
		_, err := circuit.Integrate(classic, wave, 0.01, 1)
		Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue())
	})
})

var _ = Describe("SweepR", func() {
	It("returns one trajectory per resistance in order", func() {
		base := circuit.Params{R: 1, L: 1, T: 1, Alpha: 0.5}
		rs := []float64{0.1, 1, 10}

		results, err := circuit.SweepR(context.Background(), base, 10, 0, 0.001, 3, rs, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for i, r := range rs {
			p := base
			p.R = r
			want, err := circuit.Integrate(p, p.Wave(10, 0), 0.001, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].Samples).To(Equal(want.Samples))
		}
	})

	It("fails the whole sweep on an invalid value", func() {
		base := circuit.Params{R: 1, L: 1, T: 1, Alpha: 0.5}
		_, err := circuit.SweepR(context.Background(), base, 10, 0, 0.001, 3, []float64{1, -2}, nil)
		Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue())
	})
})

var _ = Describe("Simulate", func() {
	It("attaches metrics given through WithMetrics", func() {
		traj, err := circuit.Simulate(1, 1, 1, 0.5, 0.001, 3, circuit.WithMetrics(metrics.NewPeak(), metrics.NewMean()))
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Metrics).To(HaveKey("peak_current"))
		Expect(traj.Metrics).To(HaveKey("mean_current"))
		Expect(traj.Metrics["peak_current"]).To(Equal(traj.MaxAbs()))
	})

	It("uses 10 V unless WithHigh says otherwise", func() {
		def, err := circuit.Simulate(1, 1, 1, 1, 0.01, 1)
		Expect(err).NotTo(HaveOccurred())
		doubled, err := circuit.Simulate(1, 1, 1, 1, 0.01, 1, circuit.WithHigh(20))
		Expect(err).NotTo(HaveOccurred())

		last := def.Len() - 1
		Expect(doubled.Samples[last].Current).To(BeNumerically("~", 2*def.Samples[last].Current, 1e-12))
	})
})
