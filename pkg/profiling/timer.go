// Package profiling times named phases of a command run and writes CPU and
// heap profiles on request.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stopper ends a timed span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	profiler *Profiler
}

// Stop records the span's duration and closes it, so later spans nest
// under its parent again.
func (s *span) Stop() {
	p := s.profiler
	p.mu.Lock()
	defer p.mu.Unlock()

	s.duration = p.clock.Since(s.start)
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i] == s {
			p.stack = p.stack[:i]
			break
		}
	}
}

// Profiler collects nested spans. Spans started while another is open
// become its children. A disabled profiler records nothing.
type Profiler struct {
	clock clockwork.Clock

	mu      sync.Mutex
	enabled bool
	root    *span
	stack   []*span
}

// New returns a disabled profiler. A nil clock means the real clock.
func New(clock clockwork.Clock) *Profiler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Profiler{clock: clock}
}

// Enable starts the session. Calling it again has no effect.
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return
	}
	p.enabled = true
	p.root = &span{name: "total", start: p.clock.Now(), profiler: p}
	p.stack = []*span{p.root}
}

// Enabled reports whether spans are being recorded.
func (p *Profiler) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Start opens a span. Stop it, usually with defer.
func (p *Profiler) Start(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return noopStopper{}
	}

	s := &span{name: name, start: p.clock.Now(), profiler: p}
	parent := p.stack[len(p.stack)-1]
	parent.children = append(parent.children, s)
	p.stack = append(p.stack, s)
	return s
}

// Summarize writes the span tree with each span's share of the total.
func (p *Profiler) Summarize(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}

	total := p.clock.Since(p.root.start)
	fmt.Fprintf(w, "\n--- Timing (%v) ---\n", total.Round(100*time.Microsecond))
	for _, child := range p.root.children {
		writeSpan(w, child, 0, total)
	}
}

func writeSpan(w io.Writer, s *span, depth int, total time.Duration) {
	share := 0.0
	if total > 0 {
		share = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n", strings.Repeat("  ", depth), s.name, s.duration.Round(100*time.Microsecond), share)
	for _, child := range s.children {
		writeSpan(w, child, depth+1, total)
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}

var defaultProfiler = New(nil)

// Default is the process-wide profiler driven by the --timing flag.
func Default() *Profiler { return defaultProfiler }

// Start opens a span on the default profiler.
func Start(name string) Stopper { return defaultProfiler.Start(name) }
