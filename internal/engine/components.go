package engine

import "gonum.org/v1/gonum/spatial/r3"

// Access is a bitmask over component columns, used by systems to declare
// read and write sets.
type Access uint16

const (
	CompPosition Access = 1 << iota
	CompVelocity
	// CompForce covers the force accumulator and the previous-step force
	// kept for velocity-Verlet integration.
	CompForce
	CompMass
	CompAtomInfo
	CompField
	CompBeams
	CompFlags
	CompInitVel
	CompDwell
)

// Overlaps reports whether the two sets share any column.
func (a Access) Overlaps(b Access) bool { return a&b != 0 }

// FieldSample is the per-step magnetic field sampled at an atom's position.
type FieldSample struct {
	B    r3.Vec
	Norm float64
}

// BeamSample records the interaction of an atom with one laser beam during
// the current step. Samples are ordered by beam index.
type BeamSample struct {
	// Detuning is the effective detuning including Doppler and Zeeman
	// shifts, rad/s.
	Detuning float64

	// Rate is the photon scattering rate from this beam, 1/s.
	Rate float64
}

// NewAtom is the payload of a staged creation.
type NewAtom struct {
	Pos     r3.Vec
	Vel     r3.Vec
	Mass    float64
	Species int
}
