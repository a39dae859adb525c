package engine

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCreateDeferredToBarrier(t *testing.T) {
	w := NewWorld(2)
	q := w.Buffer().NewQueue()

	q.Create(NewAtom{Pos: r3.Vec{X: 1}, Mass: 2})
	if w.Count() != 0 {
		t.Errorf("staged creation visible before barrier: count %d", w.Count())
	}

	created := w.Buffer().Apply()
	if len(created) != 1 {
		t.Fatalf("expected 1 created entity, got %d", len(created))
	}
	if w.Count() != 1 {
		t.Errorf("expected 1 atom after barrier, got %d", w.Count())
	}
	e := created[0]
	if !w.Valid(e) {
		t.Error("created entity not valid")
	}
	if !w.Flags[e.Index].Has(FlagNewlyCreated) {
		t.Error("created atom not tagged NewlyCreated")
	}
	if w.Pos[e.Index].X != 1 || w.Mass[e.Index] != 2 {
		t.Errorf("component payload not applied: pos %v mass %v", w.Pos[e.Index], w.Mass[e.Index])
	}
}

func TestDestroyBumpsGeneration(t *testing.T) {
	w := NewWorld(0)
	q := w.Buffer().NewQueue()
	q.Create(NewAtom{})
	e := w.Buffer().Apply()[0]

	q = w.Buffer().NewQueue()
	q.Destroy(e)
	if w.Count() != 1 {
		t.Error("staged destroy visible before barrier")
	}
	w.Buffer().Apply()

	if w.Count() != 0 {
		t.Errorf("expected empty world, got %d atoms", w.Count())
	}
	if w.Valid(e) {
		t.Error("destroyed entity still valid")
	}

	// The freed slot is reused with a higher generation; the stale
	// identifier must not alias the new atom.
	q = w.Buffer().NewQueue()
	q.Create(NewAtom{})
	e2 := w.Buffer().Apply()[0]
	if e2.Index != e.Index {
		t.Fatalf("expected slot reuse, got slot %d then %d", e.Index, e2.Index)
	}
	if e2.Gen == e.Gen {
		t.Error("reused slot kept its generation")
	}
	if w.Valid(e) {
		t.Error("stale identifier aliases the reused slot")
	}
	if !w.Valid(e2) {
		t.Error("new identifier invalid")
	}
}

func TestDestroyIdempotent(t *testing.T) {
	w := NewWorld(0)
	q := w.Buffer().NewQueue()
	q.Create(NewAtom{})
	q.Create(NewAtom{})
	es := w.Buffer().Apply()

	q = w.Buffer().NewQueue()
	q.Destroy(es[0])
	q.Destroy(es[0])
	w.Buffer().Apply()
	if w.Count() != 1 {
		t.Errorf("double destroy removed %d atoms", 2-w.Count())
	}

	// Destroying a stale identifier must not touch the reused slot.
	q = w.Buffer().NewQueue()
	q.Create(NewAtom{})
	w.Buffer().Apply()
	q = w.Buffer().NewQueue()
	q.Destroy(es[0])
	w.Buffer().Apply()
	if w.Count() != 2 {
		t.Errorf("stale destroy removed a live atom: count %d", w.Count())
	}
}

func TestFlagOpsDeferred(t *testing.T) {
	w := NewWorld(0)
	q := w.Buffer().NewQueue()
	q.Create(NewAtom{})
	e := w.Buffer().Apply()[0]

	q = w.Buffer().NewQueue()
	q.SetFlag(e, FlagDark)
	q.ClearFlag(e, FlagNewlyCreated)
	if w.Flags[e.Index].Has(FlagDark) {
		t.Error("staged flag set visible before barrier")
	}
	w.Buffer().Apply()
	if !w.Flags[e.Index].Has(FlagDark) {
		t.Error("flag not set after barrier")
	}
	if w.Flags[e.Index].Has(FlagNewlyCreated) {
		t.Error("flag not cleared after barrier")
	}
}

func TestQueueMergeOrder(t *testing.T) {
	w := NewWorld(0)
	// Queues are merged in allocation order, so creations land in slot
	// order regardless of staging interleaving.
	q1 := w.Buffer().NewQueue()
	q2 := w.Buffer().NewQueue()
	q2.Create(NewAtom{Mass: 2})
	q1.Create(NewAtom{Mass: 1})
	created := w.Buffer().Apply()
	if len(created) != 2 {
		t.Fatalf("expected 2 atoms, got %d", len(created))
	}
	if w.Mass[created[0].Index] != 1 || w.Mass[created[1].Index] != 2 {
		t.Errorf("creations applied out of queue order: %v then %v",
			w.Mass[created[0].Index], w.Mass[created[1].Index])
	}
}

func TestBeamRecordWidth(t *testing.T) {
	w := NewWorld(3)
	q := w.Buffer().NewQueue()
	q.Create(NewAtom{})
	e := w.Buffer().Apply()[0]
	if len(w.Beams[e.Index]) != 3 {
		t.Errorf("expected beam record width 3, got %d", len(w.Beams[e.Index]))
	}

	// Slot reuse must reset the record, not leak old samples.
	w.Beams[e.Index][1] = BeamSample{Rate: 42}
	q = w.Buffer().NewQueue()
	q.Destroy(e)
	q.Create(NewAtom{})
	e2 := w.Buffer().Apply()[0]
	if w.Beams[e2.Index][1].Rate != 0 {
		t.Error("reused slot kept a stale beam sample")
	}
}
