// Package profile aggregates per-kernel timings reported by the iterative
// solvers and renders the busiest kernels as a table.
package profile

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Entry is the aggregate for one kernel.
type Entry struct {
	Op    string        `json:"op"`
	Calls int           `json:"calls"`
	Total time.Duration `json:"total_ns"`
	Max   time.Duration `json:"max_ns"`
}

// Mean returns the average duration per call.
func (e Entry) Mean() time.Duration {
	if e.Calls == 0 {
		return 0
	}

	return e.Total / time.Duration(e.Calls)
}

// Profiler collects kernel spans. The zero value is ready to use and it is
// safe for concurrent use.
type Profiler struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// New returns an empty profiler.
func New() *Profiler {
	return &Profiler{}
}

// Record adds one span for op.
func (p *Profiler) Record(op string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.entries == nil {
		p.entries = make(map[string]*Entry)
	}

	e, ok := p.entries[op]
	if !ok {
		e = &Entry{Op: op}
		p.entries[op] = e
	}

	e.Calls++
	e.Total += d

	if d > e.Max {
		e.Max = d
	}
}

// Reset drops all recorded spans.
func (p *Profiler) Reset() {
	p.mu.Lock()
	p.entries = nil
	p.mu.Unlock()
}

// Total returns the summed duration over all ops.
func (p *Profiler) Total() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	var total time.Duration
	for _, e := range p.entries {
		total += e.Total
	}

	return total
}

// Top returns up to k entries ordered by total time, largest first. Ties
// are broken by op name. k ≤ 0 returns every entry.
func (p *Profiler) Top(k int) []Entry {
	p.mu.Lock()
	out := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, *e)
	}
	p.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}

		return out[i].Op < out[j].Op
	})

	if k > 0 && len(out) > k {
		out = out[:k]
	}

	return out
}

// WriteTable renders the top k entries with their share of the total time.
func (p *Profiler) WriteTable(w io.Writer, k int) {
	WriteEntries(w, p.Top(k), p.Total())
}

// WriteEntries renders entries as a table. total is the time the share
// column is relative to; zero leaves the column at 0.
func WriteEntries(w io.Writer, entries []Entry, total time.Duration) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Name", "Calls", "Total", "Mean", "Max", "%"})

	for _, e := range entries {
		share := 0.0
		if total > 0 {
			share = 100 * float64(e.Total) / float64(total)
		}

		table.Append([]string{
			e.Op,
			fmt.Sprint(e.Calls),
			e.Total.String(),
			e.Mean().String(),
			e.Max.String(),
			fmt.Sprintf("%.1f", share),
		})
	}

	table.Render()
}
