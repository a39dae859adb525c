// Package engine implements the entity-component simulation core: a
// generation-indexed entity arena with dense component columns, a command
// buffer that defers structural changes to step barriers, and a dispatcher
// that schedules systems into dependency waves executed across a fixed
// worker pool.
//
// Systems declare the component columns they read and write. Two systems may
// run in the same wave only if their access sets do not conflict; overlapping
// writes are a configuration error reported by [Dispatcher.Build], never a
// runtime race. Randomness is drawn from streams keyed by (seed, system,
// step, batch), so results are identical for any worker count.
package engine
