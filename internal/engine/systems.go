package engine

import "gonum.org/v1/gonum/spatial/r3"

// DeflagSystem stages removal of the NewlyCreated tag from every atom
// carrying it. The removal is deferred to the barrier, so initializer
// systems may run in any order relative to each other as long as all are
// ordered before this system.
type DeflagSystem struct{}

func (DeflagSystem) Name() string   { return "deflag_new_atoms" }
func (DeflagSystem) Reads() Access  { return CompFlags }
func (DeflagSystem) Writes() Access { return 0 }

func (DeflagSystem) UpdateBatch(ctx *Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if w.Alive(i) && w.Flags[i].Has(FlagNewlyCreated) {
			ctx.Buf.ClearFlag(w.EntityAt(i), FlagNewlyCreated)
		}
	}
}

// ClearForceSystem zeroes the force accumulator at the start of each step,
// keeping the previous step's value for velocity-Verlet integration.
type ClearForceSystem struct{}

func (ClearForceSystem) Name() string   { return "clear_force" }
func (ClearForceSystem) Reads() Access  { return 0 }
func (ClearForceSystem) Writes() Access { return CompForce }

func (ClearForceSystem) UpdateBatch(ctx *Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) {
			continue
		}
		w.OldForce[i] = w.Force[i]
		w.Force[i] = r3.Vec{}
	}
}
