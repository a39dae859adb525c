// Package boundary removes atoms that leave the simulated region or exceed
// the speed limit. Removal is staged and takes effect at the next barrier.
package boundary

import "gonum.org/v1/gonum/spatial/r3"

// Volume is a pluggable region predicate.
type Volume interface {
	Contains(p r3.Vec) bool
}

// Box is an axis-aligned cuboid.
type Box struct {
	Center      r3.Vec
	HalfExtents r3.Vec
}

func (b Box) Contains(p r3.Vec) bool {
	d := r3.Sub(p, b.Center)
	return d.X >= -b.HalfExtents.X && d.X <= b.HalfExtents.X &&
		d.Y >= -b.HalfExtents.Y && d.Y <= b.HalfExtents.Y &&
		d.Z >= -b.HalfExtents.Z && d.Z <= b.HalfExtents.Z
}

// Sphere is a ball around a center.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

func (s Sphere) Contains(p r3.Vec) bool {
	d := r3.Sub(p, s.Center)
	return r3.Norm2(d) <= s.Radius*s.Radius
}

// Cylinder is a finite cylinder along an axis.
type Cylinder struct {
	Center     r3.Vec
	Axis       r3.Vec
	Radius     float64
	HalfLength float64
}

func (c Cylinder) Contains(p r3.Vec) bool {
	axis := r3.Unit(c.Axis)
	d := r3.Sub(p, c.Center)
	par := r3.Dot(d, axis)
	if par < -c.HalfLength || par > c.HalfLength {
		return false
	}
	perp2 := r3.Norm2(d) - par*par
	return perp2 <= c.Radius*c.Radius
}
