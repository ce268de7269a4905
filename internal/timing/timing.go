// Package timing is a small measurement context for tests and
// benchmarks. Callers create and pass a Recorder explicitly; nothing in
// here is process-global.
package timing

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Recorder collects named duration samples. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	samples map[string][]time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{samples: make(map[string][]time.Duration)}
}

// Record adds one sample under name.
func (r *Recorder) Record(name string, d time.Duration) {
	r.mu.Lock()
	r.samples[name] = append(r.samples[name], d)
	r.mu.Unlock()
}

// Time runs fn and records its wall time under name.
func (r *Recorder) Time(name string, fn func()) {
	sw := Start()
	fn()
	r.Record(name, sw.Elapsed())
}

// Count returns the number of samples recorded under name.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples[name])
}

// Total returns the summed duration of all samples under name.
func (r *Recorder) Total(name string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total time.Duration
	for _, d := range r.samples[name] {
		total += d
	}
	return total
}

// Summary renders one line per metric, sorted by name.
func (r *Recorder) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.samples))
	for name := range r.samples {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		var total time.Duration
		for _, d := range r.samples[name] {
			total += d
		}
		fmt.Fprintf(&b, "%s: %d samples, total %s\n", name, len(r.samples[name]), total)
	}
	return b.String()
}

// Stopwatch measures elapsed wall time from Start.
type Stopwatch struct {
	start time.Time
}

func Start() Stopwatch {
	return Stopwatch{start: time.Now()}
}

func (s Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}
