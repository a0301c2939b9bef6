package bench

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweepTimeGrowsWithSize(t *testing.T) {
	cfg := validConfig()
	cfg.Repeat = 3

	res, err := RunSweep(cfg, []int{96, 8}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []int{8, 96}, res.Sizes)
	require.Len(t, res.Series, 5)

	for _, key := range res.Series {
		assert.Len(t, res.Means[key], 2, key.String())
	}

	// Aggregate over solvers; individual timings are noisy.
	assert.Greater(t, res.Total(1), res.Total(0))
}

func TestWriteSweep(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Profile = true

	res, err := RunSweep(cfg, []int{4, 6, 8}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSweep(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "sym/ipt")
	assert.Contains(t, out, "gen/geev")
	assert.Contains(t, out, "mean time [ms]")
	assert.Equal(t, 5, strings.Count(out, "  line "))
}

func TestSweepNeedsTwoSizes(t *testing.T) {
	t.Parallel()

	_, err := RunSweep(validConfig(), []int{8}, nil)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
