package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/cwbudde/algo-eig/gpu"
	"github.com/cwbudde/algo-eig/internal/profile"
)

// Report is the outcome of one run.
type Report struct {
	N           int            `json:"n"`
	Scale       float64        `json:"l"`
	Precision   string         `json:"dtype"`
	Seed        uint64         `json:"seed"`
	Repeat      int            `json:"repeat"`
	Device      gpu.DeviceInfo `json:"device"`
	BufferBytes uint64         `json:"buffer_bytes"`
	Sections    []Section      `json:"sections"`
}

// Section groups the solvers run on one matrix.
type Section struct {
	Title   string   `json:"title"`
	Results []Result `json:"results"`
}

// Result is the outcome of one solver.
type Result struct {
	Solver     string          `json:"solver"`
	Label      string          `json:"label"`
	Residual   float64         `json:"residual"`
	Iterations int             `json:"iterations"`
	Real       bool            `json:"real"`
	Times      []time.Duration `json:"-"`
	Timing     Summary         `json:"timing"`
	Profile    []profile.Entry `json:"profile,omitempty"`

	// ProfileTotal is the summed time of every recorded kernel, including
	// those cut from Profile.
	ProfileTotal time.Duration `json:"profile_total_ns,omitempty"`
}

// Find returns the result of solver in the section titled title.
func (r *Report) Find(title, solver string) (Result, bool) {
	for _, s := range r.Sections {
		if s.Title != title {
			continue
		}

		for _, res := range s.Results {
			if res.Solver == solver {
				return res, true
			}
		}
	}

	return Result{}, false
}

// Write renders rep in the given format.
func Write(w io.Writer, rep *Report, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, rep)
	case FormatTable:
		return WriteTable(w, rep)
	case FormatJSON:
		return WriteJSON(w, rep)
	default:
		return errors.Wrapf(ErrInvalidConfig, "format %q", format)
	}
}

func writeHeader(w io.Writer, rep *Report) error {
	dev := rep.Device

	mem := "unknown memory"
	if dev.MemoryBytes > 0 {
		mem = humanize.IBytes(dev.MemoryBytes)
	}

	_, err := fmt.Fprintf(w, "Device: %s [%s, %s, %s]\nMatrix: %d×%d %s, l=%v, seed=%d (%s per matrix)\n",
		dev.Name, dev.Driver, dev.ComputeCap, mem,
		rep.N, rep.N, rep.Precision, rep.Scale, rep.Seed, humanize.IBytes(rep.BufferBytes))

	return err
}

// WriteText prints the report section by section: a profile table for IPT
// when enabled, then residual and wall-clock time in seconds.
func WriteText(w io.Writer, rep *Report) error {
	var b strings.Builder

	if err := writeHeader(&b, rep); err != nil {
		return err
	}

	for _, sec := range rep.Sections {
		fmt.Fprintf(&b, "\n--------- %s ---------\n\n", sec.Title)

		for i, res := range sec.Results {
			if i > 0 {
				b.WriteString("\n")
			}

			fmt.Fprintf(&b, "--- %s ---\n", res.Label)

			if len(res.Profile) > 0 {
				profile.WriteEntries(&b, res.Profile, res.ProfileTotal)
			}

			if res.Iterations > 0 {
				fmt.Fprintf(&b, "Iterations:  %d\n", res.Iterations)
			}

			fmt.Fprintf(&b, "Residual:  %v\n", res.Residual)
			fmt.Fprintf(&b, "Time:  %.6f\n", res.Timing.Mean.Seconds())

			if res.Timing.Runs > 1 {
				t := res.Timing
				fmt.Fprintf(&b, "Runs:  %d  median %s  stddev %s  p50 %s  p99 %s\n",
					t.Runs, t.Median, t.StdDev, t.P50, t.P99)
			}
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// WriteTable prints one summary table for all sections.
func WriteTable(w io.Writer, rep *Report) error {
	if err := writeHeader(w, rep); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Matrix", "Solver", "Iter", "Residual", "Mean", "Median", "StdDev", "P99"})

	for _, sec := range rep.Sections {
		for _, res := range sec.Results {
			t := res.Timing
			table.Append([]string{
				sec.Title,
				res.Solver,
				fmt.Sprint(res.Iterations),
				fmt.Sprintf("%.3e", res.Residual),
				t.Mean.String(),
				t.Median.String(),
				t.StdDev.String(),
				t.P99.String(),
			})
		}
	}

	table.Render()

	return nil
}

// WriteJSON prints the report as one indented JSON document.
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(rep), "encode report")
}
