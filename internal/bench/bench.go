// Package bench runs the standard six-beam MOT benchmark scenario and
// speaks the minimal JSON request/result file contract used to compare
// runs across machines and thread counts.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/integrator"
	"github.com/coldatoms/motsim/internal/laser"
	"github.com/coldatoms/motsim/internal/magnetic"
	"github.com/coldatoms/motsim/internal/source"
	"github.com/coldatoms/motsim/internal/species"
)

// RequestFile and ResultFile are the benchmark contract file names.
const (
	RequestFile = "benchmark.json"
	ResultFile  = "benchmark_result.json"
)

// Request is the benchmark input.
type Request struct {
	NThreads int `json:"n_threads"`
	NSteps   int `json:"n_steps"`
	NAtoms   int `json:"n_atoms"`
}

// Result is the benchmark output: wall time of the step loop in seconds.
type Result struct {
	Time float64 `json:"time"`
}

// DefaultRequest returns the standard benchmark size.
func DefaultRequest() Request {
	return Request{NThreads: 12, NSteps: 5000, NAtoms: 10000}
}

// LoadRequest reads a request from path, falling back to the default when
// the file does not exist. A malformed file is an error.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultRequest(), nil
	}
	if err != nil {
		return Request{}, err
	}
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return req, nil
}

// WriteResult writes the result JSON to path.
func WriteResult(path string, res Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// cloud seeds a thermal cloud at the trap center: position and velocity
// components drawn from zero-mean normals.
type cloud struct {
	sp       species.Species
	posSigma float64
	velSigma float64
}

func (c cloud) SampleAtom(rng *rand.Rand) engine.NewAtom {
	return engine.NewAtom{
		Pos: r3.Vec{
			X: rng.NormFloat64() * c.posSigma,
			Y: rng.NormFloat64() * c.posSigma,
			Z: rng.NormFloat64() * c.posSigma,
		},
		Vel: r3.Vec{
			X: rng.NormFloat64() * c.velSigma,
			Y: rng.NormFloat64() * c.velSigma,
			Z: rng.NormFloat64() * c.velSigma,
		},
		Mass: c.sp.Mass,
	}
}

// Scenario builds the benchmark world: n_atoms Rb87 in a quadrupole field
// with six red-detuned beams, no boundary, no detector, no output.
func Scenario(req Request, seed uint64) (*engine.World, *engine.Dispatcher, error) {
	sp := species.Rubidium87()
	dirs := []r3.Vec{
		{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
	}
	beams := make([]laser.Beam, len(dirs))
	for i, d := range dirs {
		pol := 1.0
		if d.Z != 0 {
			pol = -1
		}
		beams[i] = laser.Beam{
			Wavelength:   sp.Wavelength,
			Detuning:     -3e6,
			Intensity:    5.7,
			Direction:    d,
			Polarization: pol,
		}
	}

	world := engine.NewWorld(len(beams))
	disp := engine.NewDispatcher(world, req.NThreads, seed)
	disp.Register(source.CreateSystem{
		Label:    "cloud",
		Emitter:  cloud{sp: sp, posSigma: 1.2e-4, velSigma: 0.22},
		Emission: source.Emission{Burst: req.NAtoms},
	})
	disp.Register(source.InitVelocitySystem{})
	disp.Register(engine.DeflagSystem{}, engine.After(source.InitVelocityName))
	disp.Register(integrator.DriftSystem{Strategy: integrator.SymplecticEuler{}})
	disp.Register(engine.ClearForceSystem{})
	disp.Register(magnetic.SampleSystem{
		Src: magnetic.NewQuadrupoleGaussPerCM(r3.Vec{}, r3.Vec{Z: 1}, 18.2),
	})
	disp.Register(laser.ForceSystem{Beams: beams, Table: []species.Species{sp}},
		engine.After(magnetic.SamplerName))
	disp.Register(laser.RecoilSystem{Beams: beams})
	disp.Register(integrator.System{Strategy: integrator.SymplecticEuler{}})
	if err := disp.Build(); err != nil {
		return nil, nil, err
	}
	return world, disp, nil
}

// Execute runs the benchmark and reports the step-loop wall time.
func Execute(ctx context.Context, req Request) (Result, error) {
	const dt = 1e-6
	_, disp, err := Scenario(req, 1)
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	for i := 0; i < req.NSteps; i++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}
		if err := disp.Step(dt); err != nil {
			return Result{}, err
		}
	}
	return Result{Time: time.Since(start).Seconds()}, nil
}
