// Package output writes periodic per-atom snapshots in the line-oriented
// block format consumed by external analysis tooling, and prints run status
// to the console.
//
// Each block is a header line "step <n>, <natoms>" followed by natoms lines
// of the form "<generation>,<index>: <payload>". Independent quantities
// (positions, velocities, scattering rates) are written as separate streams
// in the same grammar.
package output

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/coldatoms/motsim/internal/engine"
)

// VecFormat is the per-field numeric format of a 3-vector payload, with
// three verbs, e.g. "(%f, %f, %f)" or "%f,%f,%f".
type VecFormat string

// DefaultVecFormat matches the format external plot tooling expects.
const DefaultVecFormat VecFormat = "(%f, %f, %f)"

// Payload renders the per-atom line body for slot i.
type Payload func(w *engine.World, i int) string

// Positions renders the atom position with the given format.
func Positions(f VecFormat) Payload {
	return func(w *engine.World, i int) string {
		p := w.Pos[i]
		return fmt.Sprintf(string(f), p.X, p.Y, p.Z)
	}
}

// Velocities renders the atom velocity with the given format.
func Velocities(f VecFormat) Payload {
	return func(w *engine.World, i int) string {
		v := w.Vel[i]
		return fmt.Sprintf(string(f), v.X, v.Y, v.Z)
	}
}

// ScatterRates renders the per-beam scattering rates in ascending beam
// order, comma separated.
func ScatterRates() Payload {
	return func(w *engine.World, i int) string {
		buf := make([]byte, 0, 16*len(w.Beams[i]))
		for _, s := range w.Beams[i] {
			buf = strconv.AppendFloat(buf, s.Rate, 'g', -1, 64)
			buf = append(buf, ',')
		}
		return string(buf)
	}
}

// StreamWriter emits one output stream every interval steps. It runs in the
// final wave, so the emitted state is the fully updated frame. Write errors
// are sticky and fatal to the run: downstream analysis needs complete files.
type StreamWriter struct {
	label    string
	interval uint64
	reads    engine.Access
	payload  Payload

	f   *os.File
	buf *bufio.Writer
	err error
}

// NewStream creates the output file, truncating any previous content.
func NewStream(label, path string, interval uint64, reads engine.Access, payload Payload) (*StreamWriter, error) {
	if interval == 0 {
		interval = 1
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return &StreamWriter{
		label:    label,
		interval: interval,
		reads:    reads,
		payload:  payload,
		f:        f,
		buf:      bufio.NewWriter(f),
	}, nil
}

func (s *StreamWriter) Name() string          { return "output_" + s.label }
func (s *StreamWriter) Reads() engine.Access  { return s.reads }
func (s *StreamWriter) Writes() engine.Access { return 0 }

func (s *StreamWriter) Update(ctx *engine.Ctx) {
	if s.err != nil || ctx.Step%s.interval != 0 {
		return
	}
	w := ctx.World
	if _, err := fmt.Fprintf(s.buf, "step %d, %d\n", ctx.Step, w.Count()); err != nil {
		s.err = err
		return
	}
	for i := 0; i < w.Cap(); i++ {
		if !w.Alive(i) {
			continue
		}
		e := w.EntityAt(i)
		if _, err := fmt.Fprintf(s.buf, "%d,%d: %s\n", e.Gen, e.Index, s.payload(w, i)); err != nil {
			s.err = err
			return
		}
	}
}

// Err returns the first write error, if any.
func (s *StreamWriter) Err() error { return s.err }

// Close flushes and closes the stream.
func (s *StreamWriter) Close() error {
	if err := s.buf.Flush(); err != nil {
		s.f.Close()
		return err
	}
	if err := s.f.Close(); err != nil {
		return err
	}
	return s.err
}
