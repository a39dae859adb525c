package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one atom line of a block.
type Record struct {
	Gen    uint32
	Index  uint32
	Values []float64
}

// Block is one per-step snapshot.
type Block struct {
	Step    uint64
	Records []Record
}

// ReadBlocks parses a stream written in the block grammar, recovering the
// (generation, index) identifiers and the numeric payload fields regardless
// of the vector format used to write them.
func ReadBlocks(r io.Reader) ([]Block, error) {
	sc := bufio.NewScanner(r)
	var blocks []Block
	line := 0
	for sc.Scan() {
		line++
		header := sc.Text()
		if strings.TrimSpace(header) == "" {
			continue
		}
		var step uint64
		var n int
		if _, err := fmt.Sscanf(header, "step %d, %d", &step, &n); err != nil {
			return nil, fmt.Errorf("line %d: malformed block header %q: %w", line, header, err)
		}
		b := Block{Step: step, Records: make([]Record, 0, n)}
		for j := 0; j < n; j++ {
			if !sc.Scan() {
				return nil, fmt.Errorf("block at step %d: expected %d atom lines, got %d", step, n, j)
			}
			line++
			rec, err := parseRecord(sc.Text())
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			b.Records = append(b.Records, rec)
		}
		blocks = append(blocks, b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func parseRecord(s string) (Record, error) {
	id, payload, ok := strings.Cut(s, ":")
	if !ok {
		return Record{}, fmt.Errorf("malformed atom line %q", s)
	}
	var rec Record
	if _, err := fmt.Sscanf(id, "%d,%d", &rec.Gen, &rec.Index); err != nil {
		return Record{}, fmt.Errorf("malformed entity id %q: %w", id, err)
	}
	fields := strings.FieldsFunc(payload, func(r rune) bool {
		switch r {
		case '(', ')', ',', ' ', '\t':
			return true
		}
		return false
	})
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Record{}, fmt.Errorf("malformed payload field %q: %w", f, err)
		}
		rec.Values = append(rec.Values, v)
	}
	return rec, nil
}
