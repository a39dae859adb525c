// Package source creates atoms with sampled initial state, from oven and
// surface emitters, at a fixed Poisson rate and/or as a burst at start.
package source

import (
	"math"

	"golang.org/x/exp/rand"
)

// Aperture samples emission offsets in the plane perpendicular to the
// emitter direction.
type Aperture interface {
	Sample(rng *rand.Rand) (dx, dy float64)
}

// Circle is a circular aperture of the given radius, m.
type Circle struct {
	Radius float64
}

func (c Circle) Sample(rng *rand.Rand) (float64, float64) {
	r := c.Radius * math.Sqrt(rng.Float64())
	phi := 2 * math.Pi * rng.Float64()
	return r * math.Cos(phi), r * math.Sin(phi)
}

// Rect is a rectangular aperture with the given full side lengths, m.
type Rect struct {
	Width, Height float64
}

func (r Rect) Sample(rng *rand.Rand) (float64, float64) {
	return (rng.Float64() - 0.5) * r.Width, (rng.Float64() - 0.5) * r.Height
}

// Point emits from a single point.
type Point struct{}

func (Point) Sample(*rand.Rand) (float64, float64) { return 0, 0 }
