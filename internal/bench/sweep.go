package bench

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

// Series identifies one solver within one section, e.g. "sym/ipt".
type Series struct {
	Section string
	Solver  string
}

func (s Series) String() string {
	prefix := "sym"
	if s.Section == SectionGeneral {
		prefix = "gen"
	}

	return prefix + "/" + s.Solver
}

// SweepResult holds mean solve times per series, indexed like Sizes.
type SweepResult struct {
	Sizes  []int
	Series []Series
	Means  map[Series][]time.Duration
}

// RunSweep runs cfg once per size. cfg.N is ignored and profiling is
// disabled.
func RunSweep(cfg Config, sizes []int, log *zap.Logger) (*SweepResult, error) {
	if len(sizes) < 2 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "sweep needs at least two sizes, got %d", len(sizes)),
			"pass e.g. --sizes 32,64,128")
	}

	sizes = append([]int(nil), sizes...)
	sort.Ints(sizes)

	if log == nil {
		log = zap.NewNop()
	}

	out := &SweepResult{Sizes: sizes, Means: make(map[Series][]time.Duration)}

	for _, n := range sizes {
		c := cfg
		c.N = n
		c.Profile = false

		r, err := NewRunner(c, log)
		if err != nil {
			return nil, err
		}

		rep, err := r.Run()
		if err != nil {
			return nil, errors.Wrapf(err, "sweep n=%d", n)
		}

		for _, sec := range rep.Sections {
			for _, res := range sec.Results {
				key := Series{Section: sec.Title, Solver: res.Solver}
				if _, ok := out.Means[key]; !ok {
					out.Series = append(out.Series, key)
				}

				out.Means[key] = append(out.Means[key], res.Timing.Mean)
			}
		}

		log.Info("sweep step done", zap.Int("n", n))
	}

	return out, nil
}

// Total returns the summed mean time over all series at size index i.
func (s *SweepResult) Total(i int) time.Duration {
	var total time.Duration
	for _, key := range s.Series {
		if means := s.Means[key]; i < len(means) {
			total += means[i]
		}
	}

	return total
}

// Plot renders mean time in milliseconds against the size index, one line
// per series in the order of s.Series.
func (s *SweepResult) Plot() string {
	data := make([][]float64, 0, len(s.Series))
	for _, key := range s.Series {
		line := make([]float64, len(s.Means[key]))
		for i, d := range s.Means[key] {
			line[i] = float64(d) / float64(time.Millisecond)
		}

		data = append(data, line)
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(12),
		asciigraph.Precision(3),
		asciigraph.Caption(fmt.Sprintf("mean time [ms] for n = %v", s.Sizes)))
}

// WriteSweep prints the sweep as a table followed by the plot.
func WriteSweep(w io.Writer, s *SweepResult) error {
	header := []string{"n"}
	for _, key := range s.Series {
		header = append(header, key.String())
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)

	for i, n := range s.Sizes {
		row := []string{fmt.Sprint(n)}
		for _, key := range s.Series {
			row = append(row, s.Means[key][i].String())
		}

		table.Append(row)
	}

	table.Render()

	if _, err := fmt.Fprintf(w, "\n%s\n\n", s.Plot()); err != nil {
		return err
	}

	for i, key := range s.Series {
		if _, err := fmt.Fprintf(w, "  line %d: %s\n", i+1, key); err != nil {
			return err
		}
	}

	return nil
}
