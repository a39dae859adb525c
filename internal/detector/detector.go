// Package detector counts atoms that dwell inside a detection region long
// enough to be considered captured.
package detector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/boundary"
	"github.com/coldatoms/motsim/internal/engine"
)

// Ring is a toroidal detection region: points within Tube of the circle of
// radius Radius in the plane through Center perpendicular to Axis.
type Ring struct {
	Center r3.Vec
	Axis   r3.Vec
	Radius float64
	Tube   float64
}

func (r Ring) Contains(p r3.Vec) bool {
	axis := r3.Unit(r.Axis)
	d := r3.Sub(p, r.Center)
	par := r3.Dot(d, axis)
	perp2 := r3.Norm2(d) - par*par
	if perp2 < 0 {
		perp2 = 0
	}
	dr := math.Sqrt(perp2) - r.Radius
	return par*par+dr*dr <= r.Tube*r.Tube
}

// Stats summarizes captured atoms.
type Stats struct {
	Count        int
	sumSpeed     float64
	sumInitSpeed float64
}

// MeanSpeed of atoms at capture, m/s.
func (s Stats) MeanSpeed() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.sumSpeed / float64(s.Count)
}

// MeanInitialSpeed of captured atoms at creation, m/s.
func (s Stats) MeanInitialSpeed() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.sumInitSpeed / float64(s.Count)
}

// System tests region membership, runs per-atom dwell timers and records
// captures. It is constrained to the final wave so the state it observes is
// the fully updated frame.
type System struct {
	Region boundary.Volume

	// DwellTime an atom must stay inside the region before it counts as
	// captured, s. Zero captures on entry.
	DwellTime float64

	// DestroyOnCapture stages removal of captured atoms; otherwise they
	// are retained and not counted again while they remain inside.
	DestroyOnCapture bool

	stats        Stats
	stepCaptures int
}

func (*System) Name() string { return "detector" }
func (*System) Reads() engine.Access {
	return engine.CompPosition | engine.CompVelocity | engine.CompInitVel
}
func (*System) Writes() engine.Access { return engine.CompDwell | engine.CompFlags }

func (s *System) Update(ctx *engine.Ctx) {
	w := ctx.World
	s.stepCaptures = 0
	for i := ctx.Lo; i < ctx.Hi; i++ {
		if !w.Alive(i) || w.Flags[i].Has(engine.FlagToBeDestroyed) {
			continue
		}
		if !s.Region.Contains(w.Pos[i]) {
			w.Dwell[i] = 0
			w.Flags[i] &^= engine.FlagDetected
			continue
		}
		prev := w.Dwell[i]
		w.Dwell[i] = prev + ctx.Dt
		w.Flags[i] |= engine.FlagDetected
		// Crossing the dwell threshold counts exactly once per visit; a
		// zero threshold captures on the entry step.
		if w.Dwell[i] >= s.DwellTime && (prev < s.DwellTime || s.DwellTime == 0 && prev == 0) {
			s.capture(ctx, i)
		}
	}
}

func (s *System) capture(ctx *engine.Ctx, i int) {
	w := ctx.World
	s.stats.Count++
	s.stats.sumSpeed += r3.Norm(w.Vel[i])
	s.stats.sumInitSpeed += r3.Norm(w.InitVel[i])
	s.stepCaptures++
	if s.DestroyOnCapture {
		w.Flags[i] |= engine.FlagToBeDestroyed
		ctx.Buf.Destroy(w.EntityAt(i))
	}
}

// Stats returns the capture summary so far.
func (s *System) Stats() Stats { return s.stats }

// StepCaptures returns the captures recorded during the most recent step.
func (s *System) StepCaptures() int { return s.stepCaptures }
