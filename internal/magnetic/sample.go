package magnetic

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/engine"
)

// SamplerName is the registered name of the field sampler, for systems that
// must order themselves after magnetic evaluation.
const SamplerName = "magnetic_sampler"

// SampleSystem evaluates the composed field at every atom position and
// stores the per-step sample for the laser systems.
type SampleSystem struct {
	Src Source
}

func (SampleSystem) Name() string          { return SamplerName }
func (SampleSystem) Reads() engine.Access  { return engine.CompPosition }
func (SampleSystem) Writes() engine.Access { return engine.CompField }

func (s SampleSystem) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) {
			continue
		}
		b := s.Src.FieldAt(w.Pos[i])
		w.Field[i] = engine.FieldSample{B: b, Norm: r3.Norm(b)}
	}
}
