package boundary

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/engine"
)

// System marks atoms for destruction when they leave the simulation volume
// or exceed the speed cap. Marked atoms stay fully visible for the rest of
// the step; the actual removal happens at the barrier.
type System struct {
	// Volume accepts atoms inside it; nil disables the position test.
	Volume Volume

	// SpeedCap in m/s; zero disables the speed test.
	SpeedCap float64
}

func (System) Name() string          { return "boundary" }
func (System) Reads() engine.Access  { return engine.CompPosition | engine.CompVelocity }
func (System) Writes() engine.Access { return engine.CompFlags }

func (s System) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) || w.Flags[i].Has(engine.FlagToBeDestroyed) {
			continue
		}
		out := s.Volume != nil && !s.Volume.Contains(w.Pos[i])
		fast := s.SpeedCap > 0 && r3.Norm(w.Vel[i]) > s.SpeedCap
		if out || fast {
			e := w.EntityAt(i)
			w.Flags[i] |= engine.FlagToBeDestroyed
			ctx.Buf.Destroy(e)
		}
	}
}
