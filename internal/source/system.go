package source

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/engine"
)

// CreateSystem stages atom creation from one emitter. New atoms appear at
// the step barrier, tagged NewlyCreated.
type CreateSystem struct {
	Label    string
	Emitter  Emitter
	Emission Emission

	// VelocityCap discards an atom at creation when its speed exceeds the
	// cap, so atoms that can never be captured are not simulated at all.
	// Zero disables the cap.
	VelocityCap float64
}

func (s CreateSystem) Name() string        { return "source_" + s.Label }
func (CreateSystem) Reads() engine.Access  { return 0 }
func (CreateSystem) Writes() engine.Access { return 0 }

func (s CreateSystem) Update(ctx *engine.Ctx) {
	n := s.Emission.Count(ctx.Src, ctx.Dt, ctx.Step)
	for j := 0; j < n; j++ {
		a := s.Emitter.SampleAtom(ctx.Rand)
		if s.VelocityCap > 0 && r3.Norm(a.Vel) > s.VelocityCap {
			continue
		}
		ctx.Buf.Create(a)
	}
}

// InitVelocityName is the registered name of the initializer below.
const InitVelocityName = "init_velocity"

// InitVelocitySystem records the creation velocity of newly created atoms,
// kept for detector statistics. It is an initializer: it must run before
// the NewlyCreated tag is removed, but its order among other initializers
// does not matter.
type InitVelocitySystem struct{}

func (InitVelocitySystem) Name() string { return InitVelocityName }
func (InitVelocitySystem) Reads() engine.Access {
	return engine.CompVelocity | engine.CompFlags
}
func (InitVelocitySystem) Writes() engine.Access { return engine.CompInitVel }

func (InitVelocitySystem) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if w.Alive(i) && w.Flags[i].Has(engine.FlagNewlyCreated) {
			w.InitVel[i] = w.Vel[i]
		}
	}
}
