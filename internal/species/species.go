// Package species defines per-species atomic constants used by the cooling
// force and recoil models.
package species

import (
	"fmt"
	"math"

	"github.com/coldatoms/motsim/internal/phys"
)

// Species bundles the constants of a single cooling transition.
type Species struct {
	Name string

	// Mass of the atom, kg.
	Mass float64

	// Wavelength of the cooling transition, m.
	Wavelength float64

	// Linewidth is the natural linewidth of the transition, Hz.
	Linewidth float64

	// SaturationIntensity of the transition, W/m^2.
	SaturationIntensity float64

	// MuEff is the effective magnetic moment of the transition, J/T.
	// The Zeeman detuning of a beam with polarization p in field B is
	// p * MuEff * |B| / hbar.
	MuEff float64
}

// Gamma returns the angular natural linewidth, rad/s.
func (s Species) Gamma() float64 { return 2 * math.Pi * s.Linewidth }

// Frequency returns the transition frequency, Hz.
func (s Species) Frequency() float64 { return phys.C / s.Wavelength }

// Wavenumber returns the transition wavenumber 2*pi/lambda, rad/m.
func (s Species) Wavenumber() float64 { return 2 * math.Pi / s.Wavelength }

// DopplerTemperature returns the Doppler cooling limit hbar*Gamma/(2 kB), K.
func (s Species) DopplerTemperature() float64 {
	return phys.HBar * s.Gamma() / (2 * phys.KB)
}

// Rubidium87 is the 87Rb D2 cooling transition at 780 nm.
func Rubidium87() Species {
	return Species{
		Name:                "Rb87",
		Mass:                86.909180 * phys.AMU,
		Wavelength:          780.241e-9,
		Linewidth:           6.065e6,
		SaturationIntensity: 16.69,
		MuEff:               phys.BohrMagneton,
	}
}

// Strontium88 is the 88Sr blue cooling transition at 461 nm.
func Strontium88() Species {
	return Species{
		Name:                "Sr88",
		Mass:                87.905612 * phys.AMU,
		Wavelength:          460.862e-9,
		Linewidth:           32e6,
		SaturationIntensity: 430.0,
		MuEff:               phys.BohrMagneton,
	}
}

// ByName resolves a named species table entry.
func ByName(name string) (Species, error) {
	switch name {
	case "Rb87", "rb87", "rubidium87":
		return Rubidium87(), nil
	case "Sr88", "sr88", "strontium88":
		return Strontium88(), nil
	default:
		return Species{}, fmt.Errorf("unknown species %q", name)
	}
}
