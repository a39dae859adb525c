// Package gravity accumulates the gravitational force on every atom.
package gravity

import (
	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/phys"
)

// System adds m*g along -z to the force accumulator. It is registered only
// when the run enables gravity; over typical trap timescales the light
// force dominates, but slow beams and ballistic drops need it.
type System struct{}

func (System) Name() string          { return "gravity" }
func (System) Reads() engine.Access  { return engine.CompMass }
func (System) Writes() engine.Access { return engine.CompForce }

func (System) UpdateBatch(ctx *engine.Ctx) {
	w := ctx.World
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) {
			continue
		}
		w.Force[i].Z -= w.Mass[i] * phys.G
	}
}
