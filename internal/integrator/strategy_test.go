package integrator

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// step runs one full pipeline step for a position-dependent force: drift
// with the previous step's force, re-evaluate, then kick with both.
func step(s Strategy, pos, vel *r3.Vec, force func(r3.Vec) r3.Vec, invMass, dt float64) {
	oldF := force(*pos)
	s.Drift(pos, vel, oldF, invMass, dt)
	s.Kick(pos, vel, force(*pos), oldF, invMass, dt)
}

// Constant force: x(t) = x0 + v0*t + a*t^2/2 has a closed form to compare
// both schemes against.
func TestConstantForceTrajectory(t *testing.T) {
	const (
		mass  = 2.0
		force = 3.0
		dt    = 1e-4
		steps = 10000
	)
	a := force / mass
	tEnd := dt * steps
	wantX := a * tEnd * tEnd / 2
	wantV := a * tEnd

	for _, s := range []Strategy{SymplecticEuler{}, VelocityVerlet{}} {
		pos, vel := r3.Vec{}, r3.Vec{}
		f := func(r3.Vec) r3.Vec { return r3.Vec{X: force} }
		for i := 0; i < steps; i++ {
			step(s, &pos, &vel, f, 1/mass, dt)
		}
		if math.Abs(vel.X-wantV)/wantV > 1e-9 {
			t.Errorf("%s: final velocity %g, want %g", s.Name(), vel.X, wantV)
		}
		// First order in dt for Euler, exact for Verlet under constant
		// force.
		tol := a * tEnd * dt
		if math.Abs(pos.X-wantX) > tol {
			t.Errorf("%s: final position %g, want %g within %g", s.Name(), pos.X, wantX, tol)
		}
	}
}

// Harmonic oscillator: symplectic schemes keep the energy bounded instead
// of blowing up, which is why they are used here at all. The Verlet bound
// is far tighter, second order in dt.
func TestHarmonicEnergyBounded(t *testing.T) {
	const (
		mass  = 1.0
		k     = 4.0
		dt    = 1e-3
		steps = 100000
	)
	energy := func(pos, vel r3.Vec) float64 {
		return 0.5*mass*vel.X*vel.X + 0.5*k*pos.X*pos.X
	}
	for _, tc := range []struct {
		s   Strategy
		tol float64
	}{
		{SymplecticEuler{}, 0.02},
		{VelocityVerlet{}, 1e-4},
	} {
		pos, vel := r3.Vec{X: 1}, r3.Vec{}
		e0 := energy(pos, vel)
		f := func(p r3.Vec) r3.Vec { return r3.Vec{X: -k * p.X} }
		for i := 0; i < steps; i++ {
			step(tc.s, &pos, &vel, f, 1/mass, dt)
		}
		e1 := energy(pos, vel)
		if math.Abs(e1-e0)/e0 > tc.tol {
			t.Errorf("%s: energy drifted from %g to %g over %d steps", tc.s.Name(), e0, e1, steps)
		}
	}
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{
		"":                 "symplectic_euler",
		"euler":            "symplectic_euler",
		"symplectic_euler": "symplectic_euler",
		"verlet":           "velocity_verlet",
		"velocity_verlet":  "velocity_verlet",
	} {
		s, err := ByName(name)
		if err != nil {
			t.Errorf("ByName(%q) failed: %v", name, err)
			continue
		}
		if s.Name() != want {
			t.Errorf("ByName(%q) = %s, want %s", name, s.Name(), want)
		}
	}
	if _, err := ByName("rk4"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestRampDoublesEarlyTimestep(t *testing.T) {
	r := Ramp{Enabled: true, Until: 1e-3}
	if dt := r.Dt(1e-6, 0); dt != 2e-6 {
		t.Errorf("ramped timestep: got %g, want %g", dt, 2e-6)
	}
	if dt := r.Dt(1e-6, 2e-3); dt != 1e-6 {
		t.Errorf("timestep after ramp: got %g, want %g", dt, 1e-6)
	}

	// A power-of-two factor keeps the product exact.
	r = Ramp{Enabled: true, Until: 1e-3, Factor: 4}
	if dt := r.Dt(1e-6, 0); dt != 4e-6 {
		t.Errorf("custom ramp factor: got %g, want %g", dt, 4e-6)
	}

	r = Ramp{}
	if dt := r.Dt(1e-6, 0); dt != 1e-6 {
		t.Errorf("disabled ramp altered timestep: got %g", dt)
	}
}
