package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particles/internal/dynamo"
	"github.com/san-kum/particles/internal/integrators"
	"github.com/san-kum/particles/internal/physics"
	"github.com/san-kum/particles/internal/sim"
)

func particle(name string, kind physics.Kind, mass float64, pos, vel dynamo.Vector) *physics.Particle {
	p, err := physics.NewParticle(name, kind, mass, pos, vel, integrators.NewVerlet())
	Expect(err).NotTo(HaveOccurred())
	return p
}

func pair() []*physics.Particle {
	return []*physics.Particle{
		particle("A", "A", 1, dynamo.Vector{3, -1, 0}, dynamo.Vector{0, -1, 0}),
		particle("B", "B", 1, dynamo.Vector{-3, 1, 0}, dynamo.Vector{0, 1, 0}),
	}
}

// attraction is the unit-mass charge law written out longhand.
func attraction(k float64, self, other dynamo.Vector) dynamo.Vector {
	out := make(dynamo.Vector, len(self))
	sq := 0.0
	for i := range self {
		sq += (other[i] - self[i]) * (other[i] - self[i])
	}
	dist := math.Sqrt(sq)
	for i := range self {
		out[i] = k / sq * (other[i] - self[i]) / dist
	}
	return out
}

func expectClose(got, want dynamo.Vector, tol float64) {
	GinkgoHelper()
	Expect(got).To(HaveLen(len(want)))
	for i := range want {
		Expect(got[i]).To(BeNumerically("~", want[i], tol), "component %d of %v vs %v", i, got, want)
	}
}

type countingMetric struct {
	observed int
	notified int
	lastStep int
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(s sim.Snapshot) {
	c.observed++
	c.lastStep = s.Step
}
func (c *countingMetric) Value() float64 { return float64(c.observed) }
func (c *countingMetric) Reset()         { c.observed = 0 }
func (c *countingMetric) OnStep(sim.Snapshot) {
	c.notified++
}

var _ = Describe("Simulator", func() {
	var (
		law physics.ForceLaw
		ctx context.Context
	)

	BeforeEach(func() {
		law = physics.NewSymmetricCharge(25, true)
		ctx = context.Background()
	})

	Describe("construction", func() {
		It("rejects an empty set", func() {
			_, err := sim.New(nil, law)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects mixed dimensionality", func() {
			ps := []*physics.Particle{
				particle("A", "A", 1, dynamo.Vector{0, 0}, nil),
				particle("B", "B", 1, dynamo.Vector{1, 0, 0}, nil),
			}
			_, err := sim.New(ps, law)
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		It("rejects duplicate names", func() {
			ps := []*physics.Particle{
				particle("A", "A", 1, dynamo.Vector{0, 0}, nil),
				particle("A", "B", 1, dynamo.Vector{1, 0}, nil),
			}
			_, err := sim.New(ps, law)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects non-gravitational kinds under gravity", func() {
			_, err := sim.New(pair(), physics.NewGravitational())
			Expect(err).To(MatchError(dynamo.ErrIncompatibleBodies))
		})
	})

	Describe("the two-body end-to-end scenario", func() {
		const (
			dt    = 0.05
			steps = 5
			k     = 25.0
		)

		It("records bootstrap then Verlet positions", func() {
			s, err := sim.New(pair(), law)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, sim.Config{Dt: dt, Steps: steps, ValidateState: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(steps))
			Expect(result.Times).To(HaveLen(steps))

			trajA, ok := result.Trajectory.ByName("A")
			Expect(ok).To(BeTrue())
			Expect(trajA).To(HaveLen(steps))
			trajB, _ := result.Trajectory.ByName("B")

			a0, b0 := dynamo.Vector{3, -1, 0}, dynamo.Vector{-3, 1, 0}
			accA, accB := attraction(k, a0, b0), attraction(k, b0, a0)
			wantA := a0.AddScaled(dt, dynamo.Vector{0, -1, 0}).AddScaled(0.5*dt*dt, accA)
			wantB := b0.AddScaled(dt, dynamo.Vector{0, 1, 0}).AddScaled(0.5*dt*dt, accB)
			expectClose(trajA[0], wantA, 1e-12)
			expectClose(trajB[0], wantB, 1e-12)

			prevA, prevB := a0, b0
			curA, curB := trajA[0], trajB[0]
			for i := 1; i < steps; i++ {
				accA, accB = attraction(k, curA, curB), attraction(k, curB, curA)
				wantA = curA.Scale(2).Sub(prevA).AddScaled(dt*dt, accA)
				wantB = curB.Scale(2).Sub(prevB).AddScaled(dt*dt, accB)
				expectClose(trajA[i], wantA, 1e-12)
				expectClose(trajB[i], wantB, 1e-12)
				prevA, prevB, curA, curB = curA, curB, trajA[i], trajB[i]
			}

			for _, p := range s.Particles() {
				Expect(p.StepCount).To(Equal(steps))
				Expect(p.Phase()).To(Equal(dynamo.PhaseSteadyState))
			}
		})

		It("preserves the centre of mass of a symmetric pair", func() {
			s, err := sim.New(pair(), law)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, sim.Config{Dt: dt, Steps: 400})
			Expect(err).NotTo(HaveOccurred())

			traj := result.Trajectory
			for step := 0; step < traj.Len(); step++ {
				at := traj.At(step)
				mid := at[0].Add(at[1]).Scale(0.5)
				expectClose(mid, dynamo.Vector{0, 0, 0}, 1e-9)
			}
		})
	})

	Describe("RunStep", func() {
		It("computes every acceleration before moving anyone", func() {
			ps := []*physics.Particle{
				particle("A", "A", 1, dynamo.Vector{0, 0}, dynamo.Vector{1, 0}),
				particle("B", "B", 2, dynamo.Vector{4, 0}, dynamo.Vector{0, 1}),
				particle("C", "A", 3, dynamo.Vector{0, 3}, nil),
			}
			ref := []*physics.Particle{
				particle("A", "A", 1, dynamo.Vector{0, 0}, nil),
				particle("B", "B", 2, dynamo.Vector{4, 0}, nil),
				particle("C", "A", 3, dynamo.Vector{0, 3}, nil),
			}

			s, err := sim.New(ps, law)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.RunStep(0.1)).To(Succeed())

			for i, p := range ps {
				others := make([]*physics.Particle, 0, 2)
				for j, o := range ref {
					if j != i {
						others = append(others, o)
					}
				}
				want, err := law.TotalAcceleration(ref[i], others)
				Expect(err).NotTo(HaveOccurred())
				expectClose(p.Acceleration, want, 1e-15)
			}
			Expect(s.Trajectory().Len()).To(Equal(1))
			Expect(s.StepsTaken()).To(Equal(1))
		})

		It("keeps times in step with the trajectory across runs", func() {
			s, err := sim.New(pair(), law)
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run(ctx, sim.Config{Dt: 0.1, Steps: 3})
			Expect(err).NotTo(HaveOccurred())
			result, err := s.Run(ctx, sim.Config{Dt: 0.1, Steps: 2})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.StepsTaken).To(Equal(5))
			Expect(result.Trajectory.Len()).To(Equal(5))
			Expect(result.Times).To(HaveLen(5))
			Expect(result.Times[0]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(result.Times[4]).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("rejects a non-positive dt without moving anything", func() {
			s, err := sim.New(pair(), law)
			Expect(err).NotTo(HaveOccurred())

			err = s.RunStep(0)
			Expect(err).To(MatchError(dynamo.ErrInvalidStepState))
			Expect(s.Trajectory().Len()).To(BeZero())
			Expect(s.Particles()[0].StepCount).To(BeZero())
		})
	})

	Describe("failures", func() {
		It("aborts on coincident particles and names the particle and step", func() {
			ps := []*physics.Particle{
				particle("A", "A", 1, dynamo.Vector{1, 1, 1}, nil),
				particle("B", "B", 1, dynamo.Vector{1, 1, 1}, nil),
			}
			s, err := sim.New(ps, law)
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, sim.Config{Dt: 0.05, Steps: 10})
			Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(1))
			Expect(simErr.Particle).To(Equal("A"))

			Expect(result.StepsTaken).To(BeZero())
			Expect(result.Trajectory.Len()).To(BeZero())
			for _, p := range ps {
				Expect(p.StepCount).To(BeZero())
				Expect(p.Position).To(Equal(dynamo.Vector{1, 1, 1}))
			}
		})

		DescribeTable("rejects invalid configs",
			func(cfg sim.Config, want error) {
				s, err := sim.New(pair(), law)
				Expect(err).NotTo(HaveOccurred())
				_, err = s.Run(ctx, cfg)
				Expect(err).To(MatchError(want))
			},
			Entry("zero dt", sim.Config{Dt: 0, Steps: 1}, dynamo.ErrInvalidStepState),
			Entry("negative dt", sim.Config{Dt: -0.1, Steps: 1}, dynamo.ErrInvalidStepState),
			Entry("zero steps", sim.Config{Dt: 0.1, Steps: 0}, dynamo.ErrParameterBounds),
		)

		It("stops when the context is cancelled", func() {
			s, err := sim.New(pair(), law)
			Expect(err).NotTo(HaveOccurred())

			cctx, cancel := context.WithCancel(ctx)
			cancel()
			result, err := s.Run(cctx, sim.Config{Dt: 0.05, Steps: 10})
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.StepsTaken).To(BeZero())
		})
	})

	Describe("metrics and observers", func() {
		It("observes every completed step", func() {
			s, err := sim.New(pair(), law)
			Expect(err).NotTo(HaveOccurred())

			m := &countingMetric{}
			s.AddMetric(m)
			s.AddObserver(m)

			result, err := s.Run(ctx, sim.Config{Dt: 0.05, Steps: 7})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKeyWithValue("count", 7.0))
			Expect(m.observed).To(Equal(7))
			Expect(m.notified).To(Equal(7))
			Expect(m.lastStep).To(Equal(7))
		})
	})

	Describe("gravity", func() {
		It("pulls the Earth and Moon toward each other", func() {
			integ := func() dynamo.Integrator { return integrators.NewVerlet() }
			earth, err := physics.NewGravitator("earth", 5.97e24, dynamo.Vector{0, 0, 0}, nil, integ())
			Expect(err).NotTo(HaveOccurred())
			moon, err := physics.NewGravitator("moon", 7.35e22, dynamo.Vector{3.844e8, 0, 0}, dynamo.Vector{0, 1022, 0}, integ())
			Expect(err).NotTo(HaveOccurred())

			s, err := sim.New([]*physics.Particle{earth, moon}, physics.NewGravitational())
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx, sim.Config{Dt: 60, Steps: 60})
			Expect(err).NotTo(HaveOccurred())
			Expect(earth.Position[0]).To(BeNumerically(">", 0))
			Expect(moon.Position[0]).To(BeNumerically("<", 3.844e8))
			Expect(moon.Position[1]).To(BeNumerically(">", 0))
			Expect(result.EnergyDrift).To(BeNumerically("<", 1e-4))
		})
	})

	Describe("Ensemble", func() {
		It("runs independent members concurrently", func() {
			build := func(scheme string) func() (*sim.Simulator, error) {
				return func() (*sim.Simulator, error) {
					ps := make([]*physics.Particle, 0, 2)
					for _, p := range pair() {
						integ, err := integrators.New(scheme)
						if err != nil {
							return nil, err
						}
						q, err := physics.NewParticle(p.Name, p.Kind, p.Mass, p.Position, p.InitVelocity, integ)
						if err != nil {
							return nil, err
						}
						ps = append(ps, q)
					}
					return sim.New(ps, law)
				}
			}

			ens := sim.NewEnsemble(
				sim.Member{Name: "verlet", Build: build("verlet")},
				sim.Member{Name: "taylor", Build: build("taylor")},
			)
			results, err := ens.Run(ctx, sim.Config{Dt: 0.05, Steps: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			for _, r := range results {
				Expect(r.Trajectory.Len()).To(Equal(20))
			}
			// identical bootstrap, different schemes afterwards
			expectClose(results[0].Trajectory.Positions(0)[0], results[1].Trajectory.Positions(0)[0], 1e-12)
		})

		It("reports member failures by name", func() {
			ens := sim.NewEnsemble(sim.Member{Name: "broken", Build: func() (*sim.Simulator, error) {
				return nil, dynamo.ErrParameterBounds
			}})
			_, err := ens.Run(ctx, sim.Config{Dt: 0.05, Steps: 1})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(err.Error()).To(ContainSubstring("broken"))
		})
	})
})
