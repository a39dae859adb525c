// Package integrator advances atom state from the accumulated force. The
// scheme is a pluggable strategy so alternatives can be validated against
// analytic trajectories independently of the rest of the pipeline.
package integrator

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Strategy advances a single atom by one timestep, split around the force
// accumulation: Drift runs before the force systems and sees the force
// from the previous step, Kick runs after them and sees both.
type Strategy interface {
	Name() string
	// Drift updates position before the step's forces are accumulated.
	// force is the accumulator carried over from the previous step.
	Drift(pos, vel *r3.Vec, force r3.Vec, invMass, dt float64)
	// Kick updates velocity, and position for single-stage schemes, after
	// the step's forces are accumulated at the drifted position.
	Kick(pos, vel *r3.Vec, force, oldForce r3.Vec, invMass, dt float64)
}

// SymplecticEuler is semi-implicit Euler: velocity first from the net force,
// then position from the updated velocity. First order, but symplectic, so
// energy stays bounded over the long runs a trap simulation needs.
type SymplecticEuler struct{}

func (SymplecticEuler) Name() string { return "symplectic_euler" }

func (SymplecticEuler) Drift(_, _ *r3.Vec, _ r3.Vec, _, _ float64) {}

func (SymplecticEuler) Kick(pos, vel *r3.Vec, force, _ r3.Vec, invMass, dt float64) {
	*vel = r3.Add(*vel, r3.Scale(invMass*dt, force))
	*pos = r3.Add(*pos, r3.Scale(dt, *vel))
}

// VelocityVerlet is the second-order symplectic scheme: the position drift
// uses the previous step's force, the velocity kick averages that force
// with the one accumulated at the drifted position.
type VelocityVerlet struct{}

func (VelocityVerlet) Name() string { return "velocity_verlet" }

func (VelocityVerlet) Drift(pos, vel *r3.Vec, force r3.Vec, invMass, dt float64) {
	*pos = r3.Add(*pos, r3.Add(r3.Scale(dt, *vel), r3.Scale(invMass*dt*dt/2, force)))
}

func (VelocityVerlet) Kick(_, vel *r3.Vec, force, oldForce r3.Vec, invMass, dt float64) {
	*vel = r3.Add(*vel, r3.Scale(invMass*dt/2, r3.Add(force, oldForce)))
}

// ByName resolves a strategy from configuration.
func ByName(name string) (Strategy, error) {
	switch name {
	case "", "symplectic_euler", "euler":
		return SymplecticEuler{}, nil
	case "velocity_verlet", "verlet":
		return VelocityVerlet{}, nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", name)
	}
}
