// Package sim wires a validated configuration into a world, a dispatcher
// and the full system pipeline, and drives the step loop.
package sim

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/boundary"
	"github.com/coldatoms/motsim/internal/config"
	"github.com/coldatoms/motsim/internal/detector"
	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/gravity"
	"github.com/coldatoms/motsim/internal/integrator"
	"github.com/coldatoms/motsim/internal/laser"
	"github.com/coldatoms/motsim/internal/magnetic"
	"github.com/coldatoms/motsim/internal/output"
	"github.com/coldatoms/motsim/internal/source"
	"github.com/coldatoms/motsim/internal/species"
)

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

// Build turns a configuration into a ready-to-run simulation. All errors
// are configuration errors and fatal.
func Build(cfg *config.Config) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sp, err := species.ByName(cfg.Species)
	if err != nil {
		return nil, err
	}

	beams := make([]laser.Beam, len(cfg.Beams))
	for i, bc := range cfg.Beams {
		wl := sp.Wavelength
		if bc.Wavelength > 0 {
			wl = bc.Wavelength * 1e-9
		}
		beams[i] = laser.Beam{
			Wavelength:   wl,
			Detuning:     bc.Detuning * 1e6,
			Intensity:    bc.Intensity,
			Direction:    vec(bc.Direction),
			Polarization: bc.Polarization,
		}
		if err := beams[i].Validate(); err != nil {
			return nil, fmt.Errorf("beam %d: %w", i, err)
		}
	}

	var fields magnetic.Sum
	for i, fc := range cfg.Fields {
		switch fc.Type {
		case "quadrupole":
			fields = append(fields, magnetic.NewQuadrupoleGaussPerCM(vec(fc.Center), vec(fc.Axis), fc.Gradient))
		case "uniform":
			fields = append(fields, magnetic.UniformGauss(vec(fc.B)))
		default:
			return nil, fmt.Errorf("field %d: unknown type %q", i, fc.Type)
		}
	}

	emitter, err := buildEmitter(cfg.Source, sp)
	if err != nil {
		return nil, err
	}

	strategy, err := integrator.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	world := engine.NewWorld(len(beams))
	disp := engine.NewDispatcher(world, cfg.Workers, cfg.Seed)
	table := []species.Species{sp}

	disp.Register(source.CreateSystem{
		Label:       "main",
		Emitter:     emitter,
		Emission:    source.Emission{Rate: cfg.Source.Rate, Burst: cfg.Source.Burst},
		VelocityCap: cfg.Source.VelocityCap,
	})
	disp.Register(source.InitVelocitySystem{})
	disp.Register(engine.DeflagSystem{}, engine.After(source.InitVelocityName))
	disp.Register(integrator.DriftSystem{Strategy: strategy})
	disp.Register(engine.ClearForceSystem{})
	if cfg.Gravity {
		disp.Register(gravity.System{})
	}
	disp.Register(magnetic.SampleSystem{Src: fields})
	disp.Register(laser.ForceSystem{Beams: beams, Table: table}, engine.After(magnetic.SamplerName))
	disp.Register(laser.RecoilSystem{Beams: beams, RepumpProbability: cfg.Repump})
	disp.Register(integrator.System{Strategy: strategy})

	if cfg.Boundary.Enabled {
		vol, err := buildBoundary(cfg.Boundary)
		if err != nil {
			return nil, err
		}
		disp.Register(boundary.System{Volume: vol, SpeedCap: cfg.Boundary.SpeedCap})
	}

	var det *detector.System
	if cfg.Detector.Enabled {
		region, err := buildDetectorRegion(cfg.Detector)
		if err != nil {
			return nil, err
		}
		det = &detector.System{
			Region:           region,
			DwellTime:        cfg.Detector.Dwell,
			DestroyOnCapture: cfg.Detector.Destroy,
		}
		disp.Register(det, engine.Final())
	}

	writers, err := buildWriters(cfg.Output)
	if err != nil {
		return nil, err
	}
	for _, w := range writers {
		disp.Register(w, engine.Final())
	}

	if err := disp.Build(); err != nil {
		closeAll(writers)
		return nil, err
	}

	return &Run{
		World:    world,
		Disp:     disp,
		Detector: det,
		writers:  writers,
		ramp: integrator.Ramp{
			Enabled: cfg.Ramp.Enabled,
			Until:   cfg.Ramp.Until,
			Factor:  cfg.Ramp.Factor,
		},
		baseDt: cfg.Dt,
		steps:  cfg.Steps,
	}, nil
}

func buildEmitter(sc config.SourceConfig, sp species.Species) (source.Emitter, error) {
	var ap source.Aperture
	switch sc.Aperture.Type {
	case "", "point":
		ap = source.Point{}
	case "circle":
		ap = source.Circle{Radius: sc.Aperture.Radius}
	case "rect":
		ap = source.Rect{Width: sc.Aperture.Width, Height: sc.Aperture.Height}
	default:
		return nil, fmt.Errorf("unknown aperture type %q", sc.Aperture.Type)
	}
	switch sc.Type {
	case "oven":
		return source.NewOven(vec(sc.Position), vec(sc.Direction), sc.Temperature, ap, sp, 0), nil
	case "surface":
		return source.NewSurface(vec(sc.Position), vec(sc.Direction), sc.Temperature, ap, sp, 0), nil
	}
	return nil, fmt.Errorf("unknown source type %q", sc.Type)
}

func buildBoundary(bc config.BoundaryConfig) (boundary.Volume, error) {
	switch bc.Shape {
	case "box":
		return boundary.Box{Center: vec(bc.Center), HalfExtents: vec(bc.HalfExtents)}, nil
	case "sphere":
		return boundary.Sphere{Center: vec(bc.Center), Radius: bc.Radius}, nil
	case "cylinder":
		return boundary.Cylinder{Center: vec(bc.Center), Axis: vec(bc.Axis), Radius: bc.Radius, HalfLength: bc.HalfLength}, nil
	}
	return nil, fmt.Errorf("unknown boundary shape %q", bc.Shape)
}

func buildDetectorRegion(dc config.DetectorConfig) (boundary.Volume, error) {
	switch dc.Shape {
	case "sphere":
		return boundary.Sphere{Center: vec(dc.Center), Radius: dc.Radius}, nil
	case "ring":
		return detector.Ring{Center: vec(dc.Center), Axis: vec(dc.Axis), Radius: dc.Radius, Tube: dc.Tube}, nil
	case "box":
		return boundary.Box{Center: vec(dc.Center), HalfExtents: vec(dc.HalfExtents)}, nil
	}
	return nil, fmt.Errorf("unknown detector shape %q", dc.Shape)
}

func buildWriters(oc config.OutputConfig) ([]*output.StreamWriter, error) {
	format := output.VecFormat(oc.Format)
	if oc.Format == "" {
		format = output.DefaultVecFormat
	}
	var writers []*output.StreamWriter
	add := func(label string, reads engine.Access, payload output.Payload) error {
		w, err := output.NewStream(label, filepath.Join(oc.Dir, label+".txt"), oc.Interval, reads, payload)
		if err != nil {
			closeAll(writers)
			return err
		}
		writers = append(writers, w)
		return nil
	}
	if oc.Positions {
		if err := add("positions", engine.CompPosition, output.Positions(format)); err != nil {
			return nil, err
		}
	}
	if oc.Velocities {
		if err := add("velocities", engine.CompVelocity, output.Velocities(format)); err != nil {
			return nil, err
		}
	}
	if oc.ScatterRates {
		if err := add("scatter_rates", engine.CompBeams, output.ScatterRates()); err != nil {
			return nil, err
		}
	}
	return writers, nil
}

func closeAll(writers []*output.StreamWriter) {
	for _, w := range writers {
		w.Close()
	}
}
