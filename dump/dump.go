// Package dump parses text captures of CAN traffic into frames.
//
// Two line formats are understood:
//
//	1768509351014 0x120: 00 00 00 00 00 00 00 20    (millisecond timestamp optional)
//	(1768509351.014000) can0 120#0000000000000020   (candump -L, timestamp and interface optional)
//
// Blank lines and lines starting with '#' or "//" are skipped.
package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/brutella/can"
)

var (
	// ErrSkip is returned by Parse for blank and comment lines.
	ErrSkip = errors.New("dump: nothing to parse")

	// ErrMalformed is returned by Parse for lines in neither format.
	ErrMalformed = errors.New("dump: malformed line")
)

var (
	dumpLine    = regexp.MustCompile(`^(?:(\d+)\s+)?0[xX]([0-9A-Fa-f]{1,8}):\s*((?:[0-9A-Fa-f]{2}\s*)*)$`)
	candumpLine = regexp.MustCompile(`^(?:\((\d+)\.(\d{1,9})\)\s+)?(?:(\S+)\s+)?([0-9A-Fa-f]{1,8})#([0-9A-Fa-f]*)$`)
)

// Entry is one captured frame.
type Entry struct {
	Time      time.Time // zero if the line had no timestamp
	Interface string
	Frame     can.Frame
}

// Parse parses a single capture line.
func Parse(line string) (Entry, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		return Entry{}, ErrSkip
	}

	if m := dumpLine.FindStringSubmatch(line); m != nil {
		return parseDump(m)
	}
	if m := candumpLine.FindStringSubmatch(line); m != nil {
		return parseCandump(m)
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrMalformed, line)
}

func parseDump(m []string) (Entry, error) {
	var e Entry

	if m[1] != "" {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: timestamp %q", ErrMalformed, m[1])
		}
		e.Time = time.UnixMilli(ms)
	}

	data, err := hexPayload(strings.Join(strings.Fields(m[3]), ""))
	if err != nil {
		return Entry{}, err
	}
	frame, err := newFrame(m[2], data)
	if err != nil {
		return Entry{}, err
	}

	e.Frame = frame
	return e, nil
}

func parseCandump(m []string) (Entry, error) {
	var e Entry

	if m[1] != "" {
		sec, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: timestamp %q", ErrMalformed, m[1])
		}
		// right-pad the fraction to nanoseconds
		frac := m[2] + strings.Repeat("0", 9-len(m[2]))
		nsec, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: timestamp %q", ErrMalformed, m[2])
		}
		e.Time = time.Unix(sec, nsec)
	}
	e.Interface = m[3]

	data, err := hexPayload(m[5])
	if err != nil {
		return Entry{}, err
	}
	frame, err := newFrame(m[4], data)
	if err != nil {
		return Entry{}, err
	}

	e.Frame = frame
	return e, nil
}

func hexPayload(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd payload length", ErrMalformed)
	}
	if len(s) > 16 {
		return nil, fmt.Errorf("%w: payload longer than 8 bytes", ErrMalformed)
	}

	data := make([]byte, len(s)/2)
	for i := range data {
		b, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: payload byte %q", ErrMalformed, s[2*i:2*i+2])
		}
		data[i] = byte(b)
	}
	return data, nil
}

func newFrame(id string, data []byte) (can.Frame, error) {
	v, err := strconv.ParseUint(id, 16, 32)
	if err != nil {
		return can.Frame{}, fmt.Errorf("%w: identifier %q", ErrMalformed, id)
	}

	f := can.Frame{
		ID:     uint32(v),
		Length: uint8(len(data)),
	}
	copy(f.Data[:], data)
	return f, nil
}

// Reader reads entries from a capture, skipping blank and comment lines.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next entry, or io.EOF once the capture is exhausted.
// Parse errors carry the line number and leave the reader usable.
func (r *Reader) Next() (Entry, error) {
	for r.scanner.Scan() {
		r.line++

		e, err := Parse(r.scanner.Text())
		if errors.Is(err, ErrSkip) {
			continue
		}
		if err != nil {
			return Entry{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return e, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Entry{}, err
	}
	return Entry{}, io.EOF
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}
