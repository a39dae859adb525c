// Package magnetic evaluates magnetic fields at arbitrary positions from
// analytic and grid-sampled sources, and samples them onto atoms each step.
package magnetic

import "gonum.org/v1/gonum/spatial/r3"

// Source is a magnetic field source.
type Source interface {
	// FieldAt returns the field vector at position p, in Tesla.
	FieldAt(p r3.Vec) r3.Vec
}

// Sum composes sources by vector summation.
type Sum []Source

func (s Sum) FieldAt(p r3.Vec) r3.Vec {
	var b r3.Vec
	for _, src := range s {
		b = r3.Add(b, src.FieldAt(p))
	}
	return b
}
