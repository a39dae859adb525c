package magnetic

import "gonum.org/v1/gonum/spatial/r3"

// Uniform is a homogeneous bias field.
type Uniform struct {
	B r3.Vec
}

// UniformTesla builds a uniform field from components in Tesla.
func UniformTesla(b r3.Vec) *Uniform { return &Uniform{B: b} }

// UniformGauss builds a uniform field from components in Gauss.
func UniformGauss(b r3.Vec) *Uniform { return &Uniform{B: r3.Scale(1e-4, b)} }

func (u *Uniform) FieldAt(r3.Vec) r3.Vec { return u.B }
