package integrator

import "github.com/coldatoms/motsim/internal/engine"

// DriftSystem applies the strategy's position update. It must run before
// the force accumulators of the step, while the force column still holds
// the previous step's value.
type DriftSystem struct {
	Strategy Strategy
}

func (DriftSystem) Name() string          { return "integrate_drift" }
func (DriftSystem) Reads() engine.Access  { return engine.CompVelocity | engine.CompForce | engine.CompMass }
func (DriftSystem) Writes() engine.Access { return engine.CompPosition }

func (s DriftSystem) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) {
			continue
		}
		s.Strategy.Drift(&w.Pos[i], &w.Vel[i], w.Force[i], 1/w.Mass[i], ctx.Dt)
	}
}

// System applies the strategy's velocity update after the force wave.
type System struct {
	Strategy Strategy
}

func (System) Name() string          { return "integrate" }
func (System) Reads() engine.Access  { return engine.CompForce | engine.CompMass }
func (System) Writes() engine.Access { return engine.CompPosition | engine.CompVelocity }

func (s System) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) {
			continue
		}
		s.Strategy.Kick(&w.Pos[i], &w.Vel[i], w.Force[i], w.OldForce[i], 1/w.Mass[i], ctx.Dt)
	}
}
