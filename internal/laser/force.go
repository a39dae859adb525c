package laser

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/phys"
	"github.com/coldatoms/motsim/internal/species"
)

// ForceName is the registered name of the scattering force system.
const ForceName = "laser_force"

// ForceSystem computes the per-beam scattering force on every atom.
//
// For each beam, in ascending beam index, the effective detuning is
//
//	delta = 2*pi*detuning - k.v - pol*mu_eff*|B|/hbar
//
// the saturation parameter s = (I/I_sat) / (1 + 4 delta^2/Gamma^2), and the
// force hbar*k * Gamma/2 * s/(1+s) along the beam. Summation is always in
// beam order, so the net force is bit-identical for any worker count. The
// per-beam scattering rate is recorded for the recoil model and diagnostics.
//
// A species with zero linewidth or zero saturation intensity scatters
// nothing: the defined fallback is zero force and zero rate, not NaN.
type ForceSystem struct {
	Beams []Beam
	Table []species.Species
}

func (ForceSystem) Name() string { return ForceName }
func (ForceSystem) Reads() engine.Access {
	return engine.CompVelocity | engine.CompField | engine.CompAtomInfo | engine.CompFlags
}
func (ForceSystem) Writes() engine.Access { return engine.CompForce | engine.CompBeams }

func (s ForceSystem) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) {
			continue
		}
		rec := w.Beams[i]
		if w.Flags[i].Has(engine.FlagDark) {
			for bi := range rec {
				rec[bi] = engine.BeamSample{}
			}
			continue
		}
		sp := s.Table[w.Species[i]]
		gamma := sp.Gamma()
		zeeman := 0.0
		if gamma > 0 {
			zeeman = sp.MuEff * w.Field[i].Norm / phys.HBar
		}
		for bi, beam := range s.Beams {
			if gamma <= 0 || sp.SaturationIntensity <= 0 {
				rec[bi] = engine.BeamSample{}
				continue
			}
			k := beam.Wavenumber()
			dir := beam.Unit()
			delta := 2*math.Pi*beam.Detuning -
				k*r3.Dot(dir, w.Vel[i]) -
				beam.Polarization*zeeman
			s0 := beam.Intensity / sp.SaturationIntensity /
				(1 + 4*delta*delta/(gamma*gamma))
			rate := gamma / 2 * s0 / (1 + s0)
			w.Force[i] = r3.Add(w.Force[i], r3.Scale(phys.HBar*k*rate, dir))
			rec[bi] = engine.BeamSample{Detuning: delta, Rate: rate}
		}
	}
}
