package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/boundary"
	"github.com/coldatoms/motsim/internal/config"
	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/integrator"
	"github.com/coldatoms/motsim/internal/laser"
	"github.com/coldatoms/motsim/internal/phys"
	"github.com/coldatoms/motsim/internal/sim"
	"github.com/coldatoms/motsim/internal/species"
)

// molasses builds a single-atom scenario with the given beams and no
// magnetic field, stepped by the full pipeline.
func molasses(vel r3.Vec, beams []laser.Beam, workers int, seed uint64) (*engine.World, *engine.Dispatcher) {
	sp := species.Rubidium87()
	world := engine.NewWorld(len(beams))
	q := world.Buffer().NewQueue()
	q.Create(engine.NewAtom{Vel: vel, Mass: sp.Mass})
	world.Buffer().Apply()

	disp := engine.NewDispatcher(world, workers, seed)
	disp.Register(integrator.DriftSystem{Strategy: integrator.SymplecticEuler{}})
	disp.Register(engine.ClearForceSystem{})
	disp.Register(laser.ForceSystem{Beams: beams, Table: []species.Species{sp}})
	disp.Register(laser.RecoilSystem{Beams: beams})
	disp.Register(integrator.System{Strategy: integrator.SymplecticEuler{}})
	Expect(disp.Build()).To(Succeed())
	return world, disp
}

var _ = Describe("end-to-end simulation", func() {
	Describe("worker count determinism", func() {
		runWith := func(workers int) *sim.Summary {
			cfg := config.Default()
			cfg.Steps = 3000
			cfg.Seed = 42
			cfg.Workers = workers
			// A denser source than the default so the run is not
			// trivially empty.
			cfg.Source.Rate = 2e6
			cfg.Source.VelocityCap = 150
			cfg.Detector.Dwell = 0
			cfg.Detector.Radius = 0.02
			cfg.Output = config.OutputConfig{Dir: GinkgoT().TempDir()}

			run, err := sim.Build(cfg)
			Expect(err).NotTo(HaveOccurred())
			summary, err := run.Execute(context.Background(), nil)
			Expect(err).NotTo(HaveOccurred())
			return summary
		}

		It("produces identical results with 1 and 4 workers", func() {
			serial := runWith(1)
			parallel := runWith(4)

			Expect(serial.FinalAtoms).To(BeNumerically(">", 0))
			Expect(parallel.FinalAtoms).To(Equal(serial.FinalAtoms))
			Expect(parallel.Captured).To(Equal(serial.Captured))
			Expect(parallel.MeanCaptureSpeed).To(Equal(serial.MeanCaptureSpeed))
			Expect(parallel.MeanInitialSpeed).To(Equal(serial.MeanInitialSpeed))
			Expect(parallel.AtomHistory).To(Equal(serial.AtomHistory))
		})
	})

	Describe("beam slowing", func() {
		It("decelerates an atom moving into an opposing resonant beam", func() {
			sp := species.Rubidium87()
			const v0 = 10.0
			k := sp.Wavenumber()
			// Red-detuned so the Doppler shift of the approaching atom
			// brings it onto resonance.
			beam := laser.Beam{
				Wavelength: sp.Wavelength,
				Detuning:   -k * v0 / (2 * math.Pi),
				Intensity:  sp.SaturationIntensity,
				Direction:  r3.Vec{Z: 1},
			}
			world, disp := molasses(r3.Vec{Z: -v0}, []laser.Beam{beam}, 1, 7)

			kick := phys.HBar * k / sp.Mass
			maxSpeed := 0.0
			for i := 0; i < 1000; i++ {
				Expect(disp.Step(1e-6)).To(Succeed())
				if s := world.Speed(0); s > maxSpeed {
					maxSpeed = s
				}
			}
			Expect(maxSpeed).To(BeNumerically("<=", v0+3*kick))
			Expect(world.Speed(0)).To(BeNumerically("<", v0))
			// The slowing force points against the motion.
			Expect(world.Vel[0].Z).To(BeNumerically(">", -v0))
		})
	})

	Describe("destruction barrier", func() {
		It("removes escaped atoms exactly at the step boundary", func() {
			world := engine.NewWorld(0)
			q := world.Buffer().NewQueue()
			q.Create(engine.NewAtom{Pos: r3.Vec{X: 5}, Mass: 1})
			q.Create(engine.NewAtom{Pos: r3.Vec{}, Mass: 1})
			world.Buffer().Apply()

			disp := engine.NewDispatcher(world, 1, 1)
			disp.Register(boundary.System{Volume: boundary.Box{HalfExtents: r3.Vec{X: 1, Y: 1, Z: 1}}})
			Expect(disp.Build()).To(Succeed())

			Expect(disp.Step(1e-6)).To(Succeed())
			Expect(world.Count()).To(Equal(1))
			Expect(world.Alive(0)).To(BeFalse())
			Expect(world.Alive(1)).To(BeTrue())
		})
	})

	Describe("Doppler cooling limit", func() {
		It("settles near the Doppler temperature in a 1D molasses", func() {
			sp := species.Rubidium87()
			// Detuning -Gamma/2 minimizes the equilibrium temperature.
			beams := []laser.Beam{
				{Wavelength: sp.Wavelength, Detuning: -sp.Linewidth / 2, Intensity: sp.SaturationIntensity / 10, Direction: r3.Vec{X: 1}},
				{Wavelength: sp.Wavelength, Detuning: -sp.Linewidth / 2, Intensity: sp.SaturationIntensity / 10, Direction: r3.Vec{X: -1}},
			}
			world, disp := molasses(r3.Vec{X: 0.3}, beams, 1, 11)

			const (
				dt     = 1e-6
				warmup = 10000
				sample = 20000
			)
			for i := 0; i < warmup; i++ {
				Expect(disp.Step(dt)).To(Succeed())
			}
			sumVx2 := 0.0
			for i := 0; i < sample; i++ {
				Expect(disp.Step(dt)).To(Succeed())
				vx := world.Vel[0].X
				sumVx2 += vx * vx
			}
			tempX := sp.Mass * sumVx2 / sample / phys.KB
			doppler := sp.DopplerTemperature() / 2 // hbar*Gamma/(4 kB)

			Expect(tempX).To(BeNumerically(">", doppler/5))
			Expect(tempX).To(BeNumerically("<", doppler*5))
		})
	})
})
