package bench

import (
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"
)

const (
	minTrackable = time.Nanosecond
	maxTrackable = 10 * time.Minute
	sigFigs      = 3
)

// Summary aggregates the timed calls of one solver.
type Summary struct {
	Runs   int           `json:"runs"`
	Mean   time.Duration `json:"mean_ns"`
	Median time.Duration `json:"median_ns"`
	StdDev time.Duration `json:"stddev_ns"`
	Min    time.Duration `json:"min_ns"`
	Max    time.Duration `json:"max_ns"`
	P50    time.Duration `json:"p50_ns"`
	P99    time.Duration `json:"p99_ns"`
}

// Summarize computes moments with montanaflynn/stats and percentiles with
// an HDR histogram. Percentiles are accurate to three significant digits
// and clamped to 10 minutes.
func Summarize(times []time.Duration) (Summary, error) {
	if len(times) == 0 {
		return Summary{}, errors.New("summarize: no samples")
	}

	data := make(stats.Float64Data, len(times))
	hist := hdrhistogram.New(minTrackable.Nanoseconds(), maxTrackable.Nanoseconds(), sigFigs)

	for i, d := range times {
		data[i] = float64(d)

		if err := hist.RecordValue(clamp(d).Nanoseconds()); err != nil {
			return Summary{}, errors.Wrapf(err, "record %s", d)
		}
	}

	mean, err := data.Mean()
	if err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}

	median, err := data.Median()
	if err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}

	// Population deviation; a single run reports zero.
	stddev, err := data.StandardDeviation()
	if err != nil {
		return Summary{}, errors.Wrap(err, "stddev")
	}

	lo, err := data.Min()
	if err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}

	hi, err := data.Max()
	if err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}

	return Summary{
		Runs:   len(times),
		Mean:   time.Duration(mean),
		Median: time.Duration(median),
		StdDev: time.Duration(stddev),
		Min:    time.Duration(lo),
		Max:    time.Duration(hi),
		P50:    time.Duration(hist.ValueAtQuantile(50)),
		P99:    time.Duration(hist.ValueAtQuantile(99)),
	}, nil
}

func clamp(d time.Duration) time.Duration {
	switch {
	case d < minTrackable:
		return minTrackable
	case d > maxTrackable:
		return maxTrackable
	default:
		return d
	}
}
