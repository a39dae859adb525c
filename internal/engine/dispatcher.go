package engine

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
)

// BatchSize is the number of slots handed to one worker task.
const BatchSize = 1024

// System is the common declaration surface of all simulation systems.
type System interface {
	Name() string
	Reads() Access
	Writes() Access
}

// BatchSystem is a system whose work is partitioned over slot ranges and
// executed by the worker pool.
type BatchSystem interface {
	System
	UpdateBatch(ctx *Ctx)
}

// SerialSystem is a system that runs as a single task covering the whole
// world (sources, file output, detectors).
type SerialSystem interface {
	System
	Update(ctx *Ctx)
}

// Ctx is the per-task execution context.
type Ctx struct {
	World *World
	// Slot range [Lo, Hi) for batch tasks; [0, World.Cap()) for serial
	// tasks.
	Lo, Hi int
	Dt     float64
	Step   uint64
	Time   float64
	// Rand is this task's seed-derived stream. Src is its underlying
	// source, for distribution samplers; both advance the same stream.
	Rand *rand.Rand
	Src  rand.Source
	// Buf is this task's staging queue.
	Buf *Queue
}

type node struct {
	sys   System
	index int
	after []string
	final bool
	wave  int
	preds []*node
}

// Option configures a registered system.
type Option func(*node)

// After adds explicit ordering constraints: the system runs strictly after
// every named system, regardless of registration order.
func After(names ...string) Option {
	return func(n *node) { n.after = append(n.after, names...) }
}

// Final places the system after every non-final system, regardless of
// registration order. Detector and output systems use this so the state
// they observe is the fully updated frame.
func Final() Option {
	return func(n *node) { n.final = true }
}

// Dispatcher schedules systems into dependency waves and executes each wave
// across a fixed worker pool, with a full barrier between waves and a
// command-buffer flush at the end of every step.
type Dispatcher struct {
	world   *World
	workers int
	seed    uint64
	nodes   []*node
	waves   [][]*node
	built   bool

	step uint64
	time float64
}

// NewDispatcher creates a dispatcher over w with the given worker count and
// global random seed.
func NewDispatcher(w *World, workers int, seed uint64) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{world: w, workers: workers, seed: seed}
}

// Register adds a system. Registration order is the tie-breaker for all
// implicit ordering.
func (d *Dispatcher) Register(s System, opts ...Option) {
	n := &node{sys: s, index: len(d.nodes)}
	for _, o := range opts {
		o(n)
	}
	d.nodes = append(d.nodes, n)
	d.built = false
}

// Step counter and simulated time.
func (d *Dispatcher) StepCount() uint64 { return d.step }
func (d *Dispatcher) Time() float64     { return d.time }

// Build validates declarations and constructs dependency waves. It must be
// called before Step; all errors are configuration errors and fatal.
func (d *Dispatcher) Build() error {
	byName := make(map[string]*node, len(d.nodes))
	for _, n := range d.nodes {
		if _, ok := n.sys.(BatchSystem); !ok {
			if _, ok := n.sys.(SerialSystem); !ok {
				return fmt.Errorf("system %q implements neither BatchSystem nor SerialSystem", n.sys.Name())
			}
		}
		if _, dup := byName[n.sys.Name()]; dup {
			return fmt.Errorf("duplicate system name %q", n.sys.Name())
		}
		byName[n.sys.Name()] = n
	}

	for _, n := range d.nodes {
		n.preds = n.preds[:0]
	}

	// Data-dependency edges follow declaration order: the earlier of two
	// conflicting systems runs first. An explicit constraint between the
	// pair overrides the declaration-order edge, so "after" keeps its
	// meaning under any registration order. Pairs of one final and one
	// non-final system are skipped: their order is fixed by the Final
	// edges below, and an edge out of an early-registered final system
	// would close a cycle.
	explicitlyAfter := func(x *node, name string) bool {
		for _, a := range x.after {
			if a == name {
				return true
			}
		}
		return false
	}
	for i, a := range d.nodes {
		for _, b := range d.nodes[i+1:] {
			if a.final != b.final || !conflicts(a.sys, b.sys) || explicitlyAfter(a, b.sys.Name()) {
				continue
			}
			b.preds = append(b.preds, a)
		}
	}
	// Explicit ordering constraints may point against registration order.
	for _, n := range d.nodes {
		for _, name := range n.after {
			p, ok := byName[name]
			if !ok {
				return fmt.Errorf("system %q ordered after unknown system %q", n.sys.Name(), name)
			}
			n.preds = append(n.preds, p)
		}
	}
	for _, n := range d.nodes {
		if n.final {
			continue
		}
		for _, f := range d.nodes {
			if f.final {
				f.preds = append(f.preds, n)
			}
		}
	}

	waves, err := d.levelize()
	if err != nil {
		return err
	}

	// Overlapping writes within a wave cannot happen by construction;
	// treat it as a broken invariant if it ever does.
	for _, wave := range waves {
		for i, a := range wave {
			for _, b := range wave[i+1:] {
				if a.sys.Writes().Overlaps(b.sys.Writes() | b.sys.Reads()) ||
					b.sys.Writes().Overlaps(a.sys.Reads()) {
					return fmt.Errorf("systems %q and %q have conflicting access in the same wave",
						a.sys.Name(), b.sys.Name())
				}
			}
		}
	}

	d.waves = waves
	d.built = true
	return nil
}

func conflicts(a, b System) bool {
	return a.Writes().Overlaps(b.Writes()|b.Reads()) || b.Writes().Overlaps(a.Reads())
}

// levelize assigns each node the longest-path depth over its predecessors
// and groups nodes by depth. Cycles from explicit constraints are reported.
func (d *Dispatcher) levelize() ([][]*node, error) {
	const unset = -1
	for _, n := range d.nodes {
		n.wave = unset
	}
	var visit func(n *node, onPath map[*node]bool) error
	visit = func(n *node, onPath map[*node]bool) error {
		if n.wave != unset {
			return nil
		}
		if onPath[n] {
			return fmt.Errorf("ordering cycle involving system %q", n.sys.Name())
		}
		onPath[n] = true
		depth := 0
		for _, p := range n.preds {
			if err := visit(p, onPath); err != nil {
				return err
			}
			if p.wave+1 > depth {
				depth = p.wave + 1
			}
		}
		delete(onPath, n)
		n.wave = depth
		return nil
	}
	maxWave := 0
	for _, n := range d.nodes {
		if err := visit(n, map[*node]bool{}); err != nil {
			return nil, err
		}
		if n.wave > maxWave {
			maxWave = n.wave
		}
	}
	waves := make([][]*node, maxWave+1)
	for _, n := range d.nodes {
		waves[n.wave] = append(waves[n.wave], n)
	}
	return waves, nil
}

// Waves exposes the wave assignment by system name, outermost slice ordered
// by execution.
func (d *Dispatcher) Waves() [][]string {
	out := make([][]string, len(d.waves))
	for i, wave := range d.waves {
		for _, n := range wave {
			out[i] = append(out[i], n.sys.Name())
		}
	}
	return out
}

type task struct {
	n      *node
	lo, hi int
	batch  uint64
	serial bool
	buf    *Queue
}

// Step runs one full simulation step: every wave in order with a barrier
// between waves, then the command-buffer flush.
func (d *Dispatcher) Step(dt float64) error {
	if !d.built {
		if err := d.Build(); err != nil {
			return err
		}
	}
	for _, wave := range d.waves {
		tasks := d.waveTasks(wave)
		d.runTasks(tasks, dt)
	}
	d.world.buf.Apply()
	d.step++
	d.time += dt
	return nil
}

// waveTasks builds the task list for a wave in deterministic order, one
// staging queue per task.
func (d *Dispatcher) waveTasks(wave []*node) []task {
	var tasks []task
	cap := d.world.Cap()
	for _, n := range wave {
		if _, ok := n.sys.(SerialSystem); ok {
			tasks = append(tasks, task{n: n, lo: 0, hi: cap, serial: true, buf: d.world.buf.NewQueue()})
			continue
		}
		batch := uint64(0)
		for lo := 0; lo < cap; lo += BatchSize {
			hi := lo + BatchSize
			if hi > cap {
				hi = cap
			}
			tasks = append(tasks, task{n: n, lo: lo, hi: hi, batch: batch, buf: d.world.buf.NewQueue()})
			batch++
		}
	}
	return tasks
}

func (d *Dispatcher) runTasks(tasks []task, dt float64) {
	if len(tasks) == 0 {
		return
	}
	run := func(t task) {
		rng, src := NewStream(StreamSeed(d.seed, uint64(t.n.index), d.step, t.batch))
		ctx := &Ctx{
			World: d.world,
			Lo:    t.lo, Hi: t.hi,
			Dt:   dt,
			Step: d.step,
			Time: d.time,
			Rand: rng,
			Src:  src,
			Buf:  t.buf,
		}
		if t.serial {
			t.n.sys.(SerialSystem).Update(ctx)
		} else {
			t.n.sys.(BatchSystem).UpdateBatch(ctx)
		}
	}
	if d.workers == 1 || len(tasks) == 1 {
		for _, t := range tasks {
			run(t)
		}
		return
	}
	ch := make(chan task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)
	var wg sync.WaitGroup
	workers := d.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range ch {
				run(t)
			}
		}()
	}
	wg.Wait()
}
