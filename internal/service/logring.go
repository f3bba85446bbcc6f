package service

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// LogRing keeps the most recent dispatch trace lines for the diagnostic
// log parcel. With mirroring on, each line is also written to the logger.
type LogRing struct {
	mu     sync.Mutex
	lines  []string
	next   int
	full   bool
	mirror atomic.Bool
	now    func() time.Time
}

func NewLogRing(size int) *LogRing {
	if size <= 0 {
		size = 1
	}
	return &LogRing{lines: make([]string, size), now: time.Now}
}

func (r *LogRing) Addf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	stamped := r.now().UTC().Format("15:04:05.000") + " " + line
	r.mu.Lock()
	r.lines[r.next] = stamped
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
	if r.mirror.Load() {
		log.Info().Str("component", "logview").Msg(line)
	}
}

// Lines returns retained lines oldest first.
func (r *LogRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]string, r.next)
		copy(out, r.lines[:r.next])
		return out
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	out = append(out, r.lines[:r.next]...)
	return out
}

// Parcel renders retained lines as one newline-terminated block of at
// most budget bytes, keeping the newest lines that fit. budget <= 0 means
// no cap.
func (r *LogRing) Parcel(budget int) []byte {
	lines := r.Lines()
	start, size := len(lines), 0
	for start > 0 {
		n := len(lines[start-1]) + 1
		if budget > 0 && size+n > budget {
			break
		}
		size += n
		start--
	}
	if start == len(lines) {
		return []byte{}
	}
	return []byte(strings.Join(lines[start:], "\n") + "\n")
}

func (r *LogRing) SetMirror(enable bool) {
	r.mirror.Store(enable)
}

func (r *LogRing) Mirroring() bool {
	return r.mirror.Load()
}
