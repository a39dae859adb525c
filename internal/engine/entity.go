package engine

import "fmt"

// Entity identifies an atom by storage index and generation. Destroying an
// entity bumps the generation of its slot, so identifiers held across a
// barrier become detectably stale instead of aliasing a reused slot.
type Entity struct {
	Index uint32
	Gen   uint32
}

func (e Entity) String() string {
	return fmt.Sprintf("%d,%d", e.Gen, e.Index)
}

// Flag is a set of marker tags attached to an atom.
type Flag uint8

const (
	// FlagNewlyCreated marks atoms created at the previous barrier. It is
	// cleared by a staged removal after all initializer systems have run.
	FlagNewlyCreated Flag = 1 << iota

	// FlagToBeDestroyed marks atoms staged for destruction at the next
	// barrier.
	FlagToBeDestroyed

	// FlagDark marks atoms lost from the cooling cycle by repump loss.
	// Dark atoms feel no light force and scatter no photons.
	FlagDark

	// FlagDetected marks atoms currently dwelling in a detector region.
	FlagDetected
)

// Has reports whether all bits of q are set.
func (f Flag) Has(q Flag) bool { return f&q == q }
