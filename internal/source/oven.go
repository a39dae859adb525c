package source

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/phys"
	"github.com/coldatoms/motsim/internal/species"
)

// Emitter samples the full initial state of one new atom.
type Emitter interface {
	SampleAtom(rng *rand.Rand) engine.NewAtom
}

// Oven is an effusive source of hot atoms pointing along a direction.
type Oven struct {
	Position    r3.Vec
	Direction   r3.Vec
	Temperature float64
	Aperture    Aperture
	Species     species.Species
	// SpeciesIndex is the index of Species in the run's species table.
	SpeciesIndex int

	axis, u, v r3.Vec
}

// NewOven normalizes the oven frame.
func NewOven(position, direction r3.Vec, temperature float64, aperture Aperture, sp species.Species, spIndex int) *Oven {
	u, v := phys.OrthonormalBasis(direction)
	return &Oven{
		Position:    position,
		Direction:   direction,
		Temperature: temperature,
		Aperture:    aperture,
		Species:     sp, SpeciesIndex: spIndex,
		axis: r3.Unit(direction), u: u, v: v,
	}
}

func (o *Oven) SampleAtom(rng *rand.Rand) engine.NewAtom {
	dx, dy := o.Aperture.Sample(rng)
	pos := r3.Add(o.Position, r3.Add(r3.Scale(dx, o.u), r3.Scale(dy, o.v)))
	speed := effusiveSpeed(rng, o.Temperature, o.Species.Mass)
	dir := effusiveDirection(rng, o.axis, o.u, o.v)
	return engine.NewAtom{
		Pos:     pos,
		Vel:     r3.Scale(speed, dir),
		Mass:    o.Species.Mass,
		Species: o.SpeciesIndex,
	}
}

// Surface emits atoms desorbing from a plane patch into the hemisphere
// around its normal, with the same cosine angular weighting as an effusive
// aperture.
type Surface struct {
	Position     r3.Vec
	Normal       r3.Vec
	Temperature  float64
	Aperture     Aperture
	Species      species.Species
	SpeciesIndex int

	axis, u, v r3.Vec
}

// NewSurface normalizes the emission frame.
func NewSurface(position, normal r3.Vec, temperature float64, aperture Aperture, sp species.Species, spIndex int) *Surface {
	u, v := phys.OrthonormalBasis(normal)
	return &Surface{
		Position: position, Normal: normal,
		Temperature: temperature, Aperture: aperture,
		Species: sp, SpeciesIndex: spIndex,
		axis: r3.Unit(normal), u: u, v: v,
	}
}

func (s *Surface) SampleAtom(rng *rand.Rand) engine.NewAtom {
	dx, dy := s.Aperture.Sample(rng)
	pos := r3.Add(s.Position, r3.Add(r3.Scale(dx, s.u), r3.Scale(dy, s.v)))
	speed := effusiveSpeed(rng, s.Temperature, s.Species.Mass)
	dir := effusiveDirection(rng, s.axis, s.u, s.v)
	return engine.NewAtom{
		Pos:     pos,
		Vel:     r3.Scale(speed, dir),
		Mass:    s.Species.Mass,
		Species: s.SpeciesIndex,
	}
}
