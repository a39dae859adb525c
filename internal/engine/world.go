package engine

import "gonum.org/v1/gonum/spatial/r3"

// World owns every component column and the command buffer. It is passed
// explicitly into systems; there is no ambient global state.
//
// Columns are dense and slot-indexed. A slot holds at most one live atom;
// liveness and generation are tracked per slot. Structural changes (create,
// destroy, flag insertion/removal) go through the command buffer and take
// effect only at the step barrier.
type World struct {
	gen   []uint32
	alive []bool
	free  []int
	count int

	Pos      []r3.Vec
	Vel      []r3.Vec
	Force    []r3.Vec
	OldForce []r3.Vec
	InitVel  []r3.Vec
	Mass     []float64
	Species  []int
	Field    []FieldSample
	Beams    [][]BeamSample
	Flags    []Flag
	Dwell    []float64

	nBeams int
	buf    *CommandBuffer
}

// NewWorld returns an empty world whose per-atom beam records have room for
// nBeams lasers.
func NewWorld(nBeams int) *World {
	w := &World{nBeams: nBeams}
	w.buf = newCommandBuffer(w)
	return w
}

// Cap returns the number of slots, live or free.
func (w *World) Cap() int { return len(w.alive) }

// Count returns the number of live atoms.
func (w *World) Count() int { return w.count }

// NumBeams returns the beam record width.
func (w *World) NumBeams() int { return w.nBeams }

// Alive reports whether slot i holds a live atom.
func (w *World) Alive(i int) bool { return w.alive[i] }

// EntityAt returns the identifier of the atom in slot i.
func (w *World) EntityAt(i int) Entity {
	return Entity{Index: uint32(i), Gen: w.gen[i]}
}

// Valid reports whether e still refers to a live atom.
func (w *World) Valid(e Entity) bool {
	i := int(e.Index)
	return i < len(w.alive) && w.alive[i] && w.gen[i] == e.Gen
}

// Buffer returns the world's command buffer.
func (w *World) Buffer() *CommandBuffer { return w.buf }

// Speed returns |v| for slot i.
func (w *World) Speed(i int) float64 { return r3.Norm(w.Vel[i]) }

func (w *World) create(a NewAtom) Entity {
	var slot int
	if n := len(w.free); n > 0 {
		slot = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		slot = len(w.alive)
		w.grow()
	}
	w.alive[slot] = true
	w.count++
	w.Pos[slot] = a.Pos
	w.Vel[slot] = a.Vel
	w.Force[slot] = r3.Vec{}
	w.OldForce[slot] = r3.Vec{}
	w.Mass[slot] = a.Mass
	w.Species[slot] = a.Species
	w.Field[slot] = FieldSample{}
	if cap(w.Beams[slot]) < w.nBeams {
		w.Beams[slot] = make([]BeamSample, w.nBeams)
	} else {
		w.Beams[slot] = w.Beams[slot][:w.nBeams]
		for j := range w.Beams[slot] {
			w.Beams[slot][j] = BeamSample{}
		}
	}
	w.Flags[slot] = FlagNewlyCreated
	w.Dwell[slot] = 0
	return Entity{Index: uint32(slot), Gen: w.gen[slot]}
}

func (w *World) destroy(e Entity) {
	if !w.Valid(e) {
		return
	}
	i := int(e.Index)
	w.alive[i] = false
	w.gen[i]++
	w.count--
	w.free = append(w.free, i)
}

func (w *World) grow() {
	w.gen = append(w.gen, 0)
	w.alive = append(w.alive, false)
	w.Pos = append(w.Pos, r3.Vec{})
	w.Vel = append(w.Vel, r3.Vec{})
	w.Force = append(w.Force, r3.Vec{})
	w.OldForce = append(w.OldForce, r3.Vec{})
	w.InitVel = append(w.InitVel, r3.Vec{})
	w.Mass = append(w.Mass, 0)
	w.Species = append(w.Species, 0)
	w.Field = append(w.Field, FieldSample{})
	w.Beams = append(w.Beams, nil)
	w.Flags = append(w.Flags, 0)
	w.Dwell = append(w.Dwell, 0)
}
