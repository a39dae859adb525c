package engine

import "golang.org/x/exp/rand"

// splitmix64 finalizer, used to mix stream keys into seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// StreamSeed derives an independent stream seed from the global seed and a
// tuple of stream keys (system index, step, batch index). Streams are keyed
// by what work is being done, never by which worker does it, so any pool
// size replays the same draws.
func StreamSeed(seed uint64, parts ...uint64) uint64 {
	h := splitmix64(seed)
	for _, p := range parts {
		h = splitmix64(h ^ p)
	}
	return h
}

// NewStream returns a PCG random stream for the given seed, along with its
// underlying source for distribution samplers that draw from it directly.
func NewStream(seed uint64) (*rand.Rand, rand.Source) {
	src := rand.NewSource(seed)
	return rand.New(src), src
}
