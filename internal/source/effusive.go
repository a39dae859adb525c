package source

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/phys"
)

// effusiveSpeed samples the speed distribution of flux through an aperture,
// f(v) ~ v^3 exp(-m v^2 / 2 k T), by rejection against the mode.
func effusiveSpeed(rng *rand.Rand, temperature, mass float64) float64 {
	a := math.Sqrt(phys.KB * temperature / mass)
	peak := math.Sqrt(3) * a
	vmax := 6 * a
	for {
		v := vmax * rng.Float64()
		// f(v)/f(peak)
		ratio := math.Pow(v/peak, 3) * math.Exp(-(v*v-peak*peak)/(2*a*a))
		if rng.Float64() < ratio {
			return v
		}
	}
}

// effusiveDirection samples a direction about axis with the cosine angular
// weighting of an effusive source, P(theta) ~ cos(theta) sin(theta).
func effusiveDirection(rng *rand.Rand, axis, u, v r3.Vec) r3.Vec {
	theta := math.Acos(math.Sqrt(rng.Float64()))
	phi := 2 * math.Pi * rng.Float64()
	sin := math.Sin(theta)
	d := r3.Scale(math.Cos(theta), axis)
	d = r3.Add(d, r3.Scale(sin*math.Cos(phi), u))
	d = r3.Add(d, r3.Scale(sin*math.Sin(phi), v))
	return d
}
