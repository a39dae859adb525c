package source

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Emission controls how many atoms a source creates per step. Rate and
// Burst may be combined.
type Emission struct {
	// Rate is the mean emission rate, atoms/s. Each step the count is
	// drawn from Poisson(rate*dt).
	Rate float64

	// Burst is emitted instantaneously on the first step.
	Burst int
}

// Count returns the number of atoms to emit this step.
func (e Emission) Count(src rand.Source, dt float64, step uint64) int {
	n := 0
	if step == 0 {
		n += e.Burst
	}
	if e.Rate > 0 {
		n += int(distuv.Poisson{Lambda: e.Rate * dt, Src: src}.Rand())
	}
	return n
}
