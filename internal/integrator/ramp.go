package integrator

// Ramp enlarges the timestep during the early phase of a run, while atoms
// are still far from resonance and the light force is negligible. The
// switch-back point is configuration controlled.
type Ramp struct {
	Enabled bool
	// Until is the simulated time at which the timestep returns to its
	// base value, s.
	Until float64
	// Factor multiplies the base timestep during the early phase.
	Factor float64
}

// Dt returns the timestep to use at simulated time t.
func (r Ramp) Dt(base, t float64) float64 {
	if r.Enabled && t < r.Until {
		f := r.Factor
		if f <= 0 {
			f = 2
		}
		return base * f
	}
	return base
}
