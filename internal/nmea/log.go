package nmea

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"gpsroute/internal/position"
)

// Log format: one sentence per line.
//
// - Surrounding whitespace (including CR) is trimmed.
// - Blank lines are skipped.
// - Lines that are not valid sentences (headers, notes, corrupt data) are skipped.
// - Valid sentences whose position cannot be extracted are skipped.

// Stats counts what happened to each line read so far.
type Stats struct {
	Lines       int `json:"lines"`
	Blank       int `json:"blank"`
	Invalid     int `json:"invalid"`
	Unsupported int `json:"unsupported"`
	Malformed   int `json:"malformed"`
	Accepted    int `json:"accepted"`
}

// maxLineBytes bounds a single log line. Longer lines are discarded and
// counted as invalid.
const maxLineBytes = 1024 * 1024

// Reader yields the positions of an NMEA log one at a time.
type Reader struct {
	br    *bufio.Reader
	line  []byte
	pos   position.Position
	stats Stats
	err   error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Scan advances to the next extractable position. It returns false at the
// end of input or on a read error; see Err.
func (rr *Reader) Scan() bool {
	for {
		raw, tooLong, ok := rr.next()
		if !ok {
			return false
		}
		rr.stats.Lines++
		if tooLong {
			rr.stats.Invalid++
			continue
		}
		line := strings.TrimSpace(string(raw))
		if line == "" {
			rr.stats.Blank++
			continue
		}
		if !IsValidSentence(line) {
			rr.stats.Invalid++
			continue
		}
		pos, err := ExtractPosition(DecomposeSentence(line))
		if err != nil {
			if errors.Is(err, ErrUnsupportedFormat) {
				rr.stats.Unsupported++
			} else {
				rr.stats.Malformed++
			}
			continue
		}
		rr.stats.Accepted++
		rr.pos = pos
		return true
	}
}

// next reads one line including its terminator. The content of a line over
// maxLineBytes is dropped and tooLong is set. ok is false at the end of
// input or on a read error.
func (rr *Reader) next() (line []byte, tooLong, ok bool) {
	rr.line = rr.line[:0]
	read := false
	for {
		chunk, err := rr.br.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			rr.line = append(rr.line, chunk...)
			if len(bytes.TrimRight(rr.line, "\r\n")) > maxLineBytes {
				tooLong = true
				rr.line = rr.line[:0]
			}
		}
		switch {
		case err == nil:
			return rr.line, tooLong, true
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			return rr.line, tooLong, read
		default:
			rr.err = err
			return nil, false, false
		}
	}
}

func (rr *Reader) Position() position.Position { return rr.pos }

func (rr *Reader) Err() error { return rr.err }

func (rr *Reader) Stats() Stats { return rr.stats }

func (rr *Reader) ReadAll() ([]position.Position, error) {
	out := make([]position.Position, 0, 1024)
	for rr.Scan() {
		out = append(out, rr.Position())
	}
	if err := rr.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RouteFromLog reads every extractable position from the log at path, in
// file order. Only an unreadable file is an error.
func RouteFromLog(path string) ([]position.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewReader(f).ReadAll()
}
