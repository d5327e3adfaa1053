package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultLogLines = 2000
	defaultLogTail  = 200
	maxLogTail      = 5000
)

// LogBuffer keeps the most recent service log lines so they can be served
// over HTTP. It is an io.Writer suitable for log.SetOutput via io.MultiWriter.
type LogBuffer struct {
	mu      sync.Mutex
	max     int
	lines   []string
	partial []byte
	dropped uint64
}

func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines <= 0 {
		maxLines = defaultLogLines
	}
	return &LogBuffer{max: maxLines}
}

// Write splits p into lines. A trailing fragment without '\n' is held until
// the next Write completes it.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := append(b.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		b.appendLocked(string(data[:i]))
		data = data[i+1:]
	}
	b.partial = append([]byte(nil), data...)
	return len(p), nil
}

func (b *LogBuffer) appendLocked(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	b.lines = append(b.lines, line)
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = b.lines[over:]
		b.dropped += uint64(over)
	}
}

// Snapshot returns up to tail of the newest lines and the number of lines
// discarded so far.
func (b *LogBuffer) Snapshot(tail int) (lines []string, dropped uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tail <= 0 {
		tail = defaultLogTail
	}
	if tail > len(b.lines) {
		tail = len(b.lines)
	}
	return append([]string(nil), b.lines[len(b.lines)-tail:]...), b.dropped
}

type LogsResponse struct {
	NowUTC  string   `json:"now_utc"`
	Dropped uint64   `json:"dropped"`
	Lines   []string `json:"lines"`
}

func (b *LogBuffer) serveLogs(w http.ResponseWriter, r *http.Request) {
	tail := defaultLogTail
	if s := strings.TrimSpace(r.URL.Query().Get("tail")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxLogTail {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("tail must be an integer in [1,%d]", maxLogTail))
			return
		}
		tail = v
	}

	lines, dropped := b.Snapshot(tail)
	w.Header().Set("Cache-Control", "no-store")
	if strings.EqualFold(r.URL.Query().Get("format"), "text") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if dropped > 0 {
			_, _ = fmt.Fprintf(w, "[dropped=%d]\n", dropped)
		}
		for _, line := range lines {
			_, _ = fmt.Fprintln(w, line)
		}
		return
	}
	writeJSON(w, http.StatusOK, LogsResponse{
		NowUTC:  time.Now().UTC().Format(time.RFC3339Nano),
		Dropped: dropped,
		Lines:   lines,
	})
}
