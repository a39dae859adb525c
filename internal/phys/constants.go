// Package phys holds physical constants in SI units.
package phys

const (
	// HBar is the reduced Planck constant, J*s.
	HBar = 1.054571817e-34

	// KB is the Boltzmann constant, J/K.
	KB = 1.380649e-23

	// AMU is the atomic mass unit, kg.
	AMU = 1.66053906660e-27

	// BohrMagneton in J/T.
	BohrMagneton = 9.2740100783e-24

	// C is the speed of light in vacuum, m/s.
	C = 299792458.0

	// G is standard gravitational acceleration, m/s^2.
	G = 9.80665
)
