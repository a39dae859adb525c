package phys

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// OrthonormalBasis returns two unit vectors perpendicular to dir and to each
// other. dir need not be normalized but must be non-zero.
func OrthonormalBasis(dir r3.Vec) (r3.Vec, r3.Vec) {
	d := r3.Unit(dir)
	helper := r3.Vec{X: 1, Y: 0, Z: 0}
	if math.Abs(d.X) > 0.9 {
		helper = r3.Vec{X: 0, Y: 1, Z: 0}
	}
	u := r3.Unit(r3.Cross(d, helper))
	v := r3.Unit(r3.Cross(d, u))
	return u, v
}
