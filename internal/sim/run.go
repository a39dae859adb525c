package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/coldatoms/motsim/internal/detector"
	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/integrator"
	"github.com/coldatoms/motsim/internal/output"
)

// StepStats is the per-step snapshot handed to progress observers.
type StepStats struct {
	Step     uint64
	Time     float64
	Atoms    int
	Captured int
	// StepCaptures is the number of captures in this step alone.
	StepCaptures int
}

// Summary is the end-of-run report.
type Summary struct {
	Steps            int
	FinalAtoms       int
	Captured         int
	MeanCaptureSpeed float64
	MeanInitialSpeed float64
	AtomHistory      []float64
	Elapsed          time.Duration
}

// Run is a built simulation ready to step.
type Run struct {
	World    *engine.World
	Disp     *engine.Dispatcher
	Detector *detector.System

	writers []*output.StreamWriter
	ramp    integrator.Ramp
	baseDt  float64
	steps   int
}

// Steps returns the configured run length.
func (r *Run) Steps() int { return r.steps }

// Step advances one step, applying the timestep ramp. Output write errors
// surface here and end the run.
func (r *Run) Step() error {
	dt := r.ramp.Dt(r.baseDt, r.Disp.Time())
	if err := r.Disp.Step(dt); err != nil {
		return err
	}
	for _, w := range r.writers {
		if err := w.Err(); err != nil {
			return fmt.Errorf("output %s: %w", w.Name(), err)
		}
	}
	return nil
}

// Stats snapshots the current run state.
func (r *Run) Stats() StepStats {
	s := StepStats{
		Step:  r.Disp.StepCount(),
		Time:  r.Disp.Time(),
		Atoms: r.World.Count(),
	}
	if r.Detector != nil {
		s.Captured = r.Detector.Stats().Count
		s.StepCaptures = r.Detector.StepCaptures()
	}
	return s
}

// Execute runs the configured number of steps, calling onStep after each
// when non-nil, then closes the output streams. Cancellation via ctx stops
// the run cleanly.
func (r *Run) Execute(ctx context.Context, onStep func(StepStats)) (*Summary, error) {
	start := time.Now()
	history := make([]float64, 0, r.steps)
	for i := 0; i < r.steps; i++ {
		select {
		case <-ctx.Done():
			r.Close()
			return nil, ctx.Err()
		default:
		}
		if err := r.Step(); err != nil {
			r.Close()
			return nil, err
		}
		st := r.Stats()
		history = append(history, float64(st.Atoms))
		if onStep != nil {
			onStep(st)
		}
	}
	if err := r.Close(); err != nil {
		return nil, err
	}
	sum := &Summary{
		Steps:       r.steps,
		FinalAtoms:  r.World.Count(),
		AtomHistory: history,
		Elapsed:     time.Since(start),
	}
	if r.Detector != nil {
		ds := r.Detector.Stats()
		sum.Captured = ds.Count
		sum.MeanCaptureSpeed = ds.MeanSpeed()
		sum.MeanInitialSpeed = ds.MeanInitialSpeed()
	}
	return sum, nil
}

// Close flushes and closes all output streams, returning the first error.
func (r *Run) Close() error {
	var first error
	for _, w := range r.writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	r.writers = nil
	return first
}
