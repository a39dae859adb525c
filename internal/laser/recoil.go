package laser

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/phys"
)

// RecoilSystem applies spontaneous-emission recoil kicks.
//
// For each atom and each beam, in ascending beam index, the number of
// scattering events is drawn from Poisson(rate*dt) using the task's stream.
// Every event applies a velocity kick hbar*k/m in a uniformly distributed
// random direction. These fluctuations are what produce the Doppler
// temperature limit.
//
// With RepumpProbability > 0, each scatter may drop the atom into a dark
// state: the Dark tag is staged and the atom stops interacting with the
// cooling light from the next step on.
type RecoilSystem struct {
	Beams             []Beam
	RepumpProbability float64
}

func (RecoilSystem) Name() string { return "recoil" }
func (RecoilSystem) Reads() engine.Access {
	return engine.CompBeams | engine.CompMass | engine.CompFlags
}
func (RecoilSystem) Writes() engine.Access { return engine.CompVelocity }

func (s RecoilSystem) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) || w.Flags[i].Has(engine.FlagDark) {
			continue
		}
	beams:
		for bi, beam := range s.Beams {
			mean := w.Beams[i][bi].Rate * ctx.Dt
			if mean <= 0 {
				continue
			}
			n := int(distuv.Poisson{Lambda: mean, Src: ctx.Src}.Rand())
			if n <= 0 {
				continue
			}
			dv := phys.HBar * beam.Wavenumber() / w.Mass[i]
			for e := 0; e < n; e++ {
				w.Vel[i] = r3.Add(w.Vel[i], r3.Scale(dv, randomUnitVec(ctx.Rand)))
				if s.RepumpProbability > 0 && ctx.Rand.Float64() < s.RepumpProbability {
					ctx.Buf.SetFlag(w.EntityAt(i), engine.FlagDark)
					break beams
				}
			}
		}
	}
}

// randomUnitVec samples a direction uniformly on the unit sphere.
func randomUnitVec(rng *rand.Rand) r3.Vec {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return r3.Vec{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}
