// Package trace replays recorded memory-access traces against
// simulated caches.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// A Record is one memory access from a trace.
type Record struct {
	Type    cache.AccessType
	Address uint64
	Size    uint64
}

// A Reader parses text traces in the pin/lackey style, one access per
// line:
//
//	L 0x7f5c2a40,8
//	S 0x7f5c2a48,4
//	M 0x7f5c2a50,8
//
// 'L' is a load, 'S' a store, and 'M' a modify, which expands into a
// load followed by a store to the same location. Blank lines and lines
// starting with '#' are skipped, as are instruction-fetch records
// ('I'), since the simulated caches model data accesses.
type Reader struct {
	scanner *bufio.Scanner
	line    int

	// pending holds the store half of an 'M' record.
	pending *Record
}

// NewReader creates a Reader that parses the trace text from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Read returns the next data access in the trace. It returns io.EOF
// after the last record.
func (r *Reader) Read() (Record, error) {
	if r.pending != nil {
		rec := *r.pending
		r.pending = nil
		return rec, nil
	}

	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if strings.HasPrefix(text, "I") {
			continue
		}

		rec, err := r.parse(text)
		if err != nil {
			return Record{}, fmt.Errorf("trace line %d: %w", r.line, err)
		}

		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, err
	}

	return Record{}, io.EOF
}

func (r *Reader) parse(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("malformed record %q", text)
	}

	addrSize := strings.Split(fields[1], ",")
	if len(addrSize) != 2 {
		return Record{}, fmt.Errorf("malformed operand %q", fields[1])
	}

	addr, err := strconv.ParseUint(addrSize[0], 0, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad address %q: %w", addrSize[0], err)
	}

	size, err := strconv.ParseUint(addrSize[1], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad size %q: %w", addrSize[1], err)
	}

	if size == 0 {
		return Record{}, fmt.Errorf("zero-sized access %q", text)
	}

	switch fields[0] {
	case "L":
		return Record{Type: cache.AccessTypeLoad, Address: addr, Size: size}, nil
	case "S":
		return Record{Type: cache.AccessTypeStore, Address: addr, Size: size}, nil
	case "M":
		r.pending = &Record{
			Type:    cache.AccessTypeStore,
			Address: addr,
			Size:    size,
		}
		return Record{Type: cache.AccessTypeLoad, Address: addr, Size: size}, nil
	default:
		return Record{}, fmt.Errorf("unknown access type %q", fields[0])
	}
}
