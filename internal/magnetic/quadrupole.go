package magnetic

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/phys"
)

// Quadrupole is an analytic 3D quadrupole field centred on a node. Along the
// strong axis the field is -2*g*z, in the perpendicular plane +g*r, so the
// field vanishes at the centre and satisfies div B = 0.
type Quadrupole struct {
	Center r3.Vec
	// Gradient in the radial plane, T/m.
	Gradient float64

	axis, u, v r3.Vec
}

// NewQuadrupole builds a quadrupole with the strong axis along axis and a
// radial gradient in T/m.
func NewQuadrupole(center, axis r3.Vec, gradient float64) *Quadrupole {
	u, v := phys.OrthonormalBasis(axis)
	return &Quadrupole{Center: center, Gradient: gradient, axis: r3.Unit(axis), u: u, v: v}
}

// NewQuadrupoleGaussPerCM builds a quadrupole with the gradient given in
// Gauss/cm, the unit used in experiment configurations.
func NewQuadrupoleGaussPerCM(center, axis r3.Vec, gradient float64) *Quadrupole {
	return NewQuadrupole(center, axis, gradient*1e-2)
}

func (q *Quadrupole) FieldAt(p r3.Vec) r3.Vec {
	rel := r3.Sub(p, q.Center)
	dPar := r3.Dot(rel, q.axis)
	dU := r3.Dot(rel, q.u)
	dV := r3.Dot(rel, q.v)
	b := r3.Add(r3.Scale(dU, q.u), r3.Scale(dV, q.v))
	b = r3.Add(b, r3.Scale(-2*dPar, q.axis))
	return r3.Scale(q.Gradient, b)
}
