// Package laser computes resonant light forces and stochastic photon recoil
// for atoms interacting with a set of cooling beams.
package laser

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Beam describes one cooling laser as an idealized plane wave.
type Beam struct {
	// Wavelength in m.
	Wavelength float64

	// Detuning from the atomic transition, Hz. Negative is red-detuned.
	Detuning float64

	// Intensity in W/m^2.
	Intensity float64

	// Direction of propagation; need not be normalized.
	Direction r3.Vec

	// Polarization handedness relative to the quantization axis:
	// +1, -1 or 0.
	Polarization float64
}

// Wavenumber returns 2*pi/lambda, rad/m.
func (b Beam) Wavenumber() float64 { return 2 * math.Pi / b.Wavelength }

// Unit returns the normalized propagation direction.
func (b Beam) Unit() r3.Vec { return r3.Unit(b.Direction) }

// Validate reports configuration errors in the beam definition.
func (b Beam) Validate() error {
	if b.Wavelength <= 0 {
		return fmt.Errorf("beam wavelength must be positive, got %g", b.Wavelength)
	}
	if b.Intensity < 0 {
		return fmt.Errorf("beam intensity must not be negative, got %g", b.Intensity)
	}
	if r3.Norm(b.Direction) == 0 {
		return fmt.Errorf("beam direction must be non-zero")
	}
	return nil
}
