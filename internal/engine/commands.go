package engine

type opKind uint8

const (
	opCreate opKind = iota
	opDestroy
	opSetFlag
	opClearFlag
)

type op struct {
	kind   opKind
	target Entity
	flag   Flag
	atom   NewAtom
}

// Queue is one staging queue of the command buffer. Each (system, batch)
// task owns its queue, so staging needs no locks; queues are merged in a
// fixed order at the barrier, keeping the result independent of worker
// scheduling.
type Queue struct {
	ops []op
}

// Create stages an atom creation and returns its position in this queue.
// The atom appears at the next barrier, tagged NewlyCreated.
func (q *Queue) Create(a NewAtom) int {
	q.ops = append(q.ops, op{kind: opCreate, atom: a})
	return len(q.ops) - 1
}

// Destroy stages removal of e. Idempotent: staging an already-destroyed or
// doubly-staged entity is a no-op at apply time.
func (q *Queue) Destroy(e Entity) {
	q.ops = append(q.ops, op{kind: opDestroy, target: e})
}

// SetFlag stages insertion of marker flags on e.
func (q *Queue) SetFlag(e Entity, f Flag) {
	q.ops = append(q.ops, op{kind: opSetFlag, target: e, flag: f})
}

// ClearFlag stages removal of marker flags from e.
func (q *Queue) ClearFlag(e Entity, f Flag) {
	q.ops = append(q.ops, op{kind: opClearFlag, target: e, flag: f})
}

// CommandBuffer collects staged structural changes from all tasks of a step
// and applies them at the barrier, when no system holds a borrow on any
// column.
type CommandBuffer struct {
	world  *World
	queues []*Queue
}

func newCommandBuffer(w *World) *CommandBuffer {
	return &CommandBuffer{world: w}
}

// NewQueue appends a fresh staging queue. The dispatcher allocates queues in
// task order before a wave starts, which fixes the merge order.
func (b *CommandBuffer) NewQueue() *Queue {
	q := &Queue{}
	b.queues = append(b.queues, q)
	return q
}

// Pending returns the number of staged operations.
func (b *CommandBuffer) Pending() int {
	n := 0
	for _, q := range b.queues {
		n += len(q.ops)
	}
	return n
}

// Apply flushes all staged operations in queue order and resets the buffer.
// Created entities are returned in creation order.
func (b *CommandBuffer) Apply() []Entity {
	var created []Entity
	for _, q := range b.queues {
		for _, o := range q.ops {
			switch o.kind {
			case opCreate:
				created = append(created, b.world.create(o.atom))
			case opDestroy:
				b.world.destroy(o.target)
			case opSetFlag:
				if b.world.Valid(o.target) {
					b.world.Flags[o.target.Index] |= o.flag
				}
			case opClearFlag:
				if b.world.Valid(o.target) {
					b.world.Flags[o.target.Index] &^= o.flag
				}
			}
		}
	}
	b.queues = b.queues[:0]
	return created
}
