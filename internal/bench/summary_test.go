package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	times := []time.Duration{
		4 * time.Millisecond,
		2 * time.Millisecond,
		6 * time.Millisecond,
		8 * time.Millisecond,
	}

	s, err := Summarize(times)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Runs)
	assert.Equal(t, 5*time.Millisecond, s.Mean)
	assert.Equal(t, 5*time.Millisecond, s.Median)
	assert.Equal(t, 2*time.Millisecond, s.Min)
	assert.Equal(t, 8*time.Millisecond, s.Max)
	assert.InDelta(t, float64(2236068*time.Nanosecond), float64(s.StdDev), float64(time.Microsecond))

	// HDR percentiles are exact to three significant digits.
	assert.InEpsilon(t, float64(4*time.Millisecond), float64(s.P50), 0.01)
	assert.InEpsilon(t, float64(8*time.Millisecond), float64(s.P99), 0.01)
}

func TestSummarizeSingleRun(t *testing.T) {
	t.Parallel()

	s, err := Summarize([]time.Duration{300 * time.Nanosecond})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Runs)
	assert.Equal(t, 300*time.Nanosecond, s.Mean)
	assert.Zero(t, s.StdDev)
	assert.InEpsilon(t, float64(300*time.Nanosecond), float64(s.P50), 0.01)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	_, err := Summarize(nil)
	assert.Error(t, err)
}
