package ipt

import (
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/cwbudde/algo-eig/internal/eigtypes"
)

// residual returns ‖M·V − V·diag(λ)‖_F / ‖M‖_F in float64.
func residual[T eigtypes.Float](m []T, n int, res *Result[T]) float64 {
	var num, den float64
	for i := range n {
		for j := range n {
			var mv float64
			for k := range n {
				mv += float64(m[i*n+k]) * float64(res.Vectors[k*n+j])
			}
			d := mv - float64(res.Vectors[i*n+j])*float64(res.Values[j])
			num += d * d
			den += float64(m[i*n+j]) * float64(m[i*n+j])
		}
	}
	if den == 0 {
		return math.Sqrt(num)
	}
	return math.Sqrt(num / den)
}

func perturbedDiagonal(n int, l float64, symmetric bool, seed uint64) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	m := make([]float64, n*n)
	g := make([]float64, n*n)
	for i := range g {
		g[i] = rnd.NormFloat64()
	}
	for i := range n {
		for j := range n {
			v := l * g[i*n+j]
			if symmetric {
				v += l * g[j*n+i]
			}
			if i == j {
				v += float64(i)
			}
			m[i*n+j] = v
		}
	}
	return m
}

func TestSolveDiagonal(t *testing.T) {
	t.Parallel()

	n := 5
	m := make([]float64, n*n)
	for i := range n {
		m[i*n+i] = float64(i)
	}

	res, err := Solve(m, n, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)

	for i := range n {
		assert.Equal(t, float64(i), res.Values[i])
		for j := range n {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.Equal(t, want, res.Vectors[i*n+j], "V[%d][%d]", i, j)
		}
	}
}

func TestSolveTwoByTwo(t *testing.T) {
	t.Parallel()

	m := []float64{
		0, 0.1,
		0.1, 1,
	}

	res, err := Solve(m, 2, Options{})
	require.NoError(t, err)

	root := math.Sqrt(1+4*0.01) / 2
	assert.InDelta(t, 0.5-root, res.Values[0], 1e-12)
	assert.InDelta(t, 0.5+root, res.Values[1], 1e-12)
	assert.Less(t, residual(m, 2, res), 1e-12)
}

func TestSolveSymmetricFloat64(t *testing.T) {
	t.Parallel()

	n := 40
	m := perturbedDiagonal(n, 0.01, true, 7)

	res, err := Solve(m, n, Options{})
	require.NoError(t, err)
	assert.Greater(t, res.Iterations, 1)
	assert.Less(t, residual(m, n, res), 1e-10)

	// Unit columns.
	for j := range n {
		assert.InDelta(t, 1, nrm2(n, res.Vectors, j), 1e-12)
	}
}

func TestSolveGeneralFloat64(t *testing.T) {
	t.Parallel()

	n := 30
	m := perturbedDiagonal(n, 0.01, false, 11)

	res, err := Solve(m, n, Options{})
	require.NoError(t, err)
	assert.Less(t, residual(m, n, res), 1e-10)
}

func TestSolveFloat32(t *testing.T) {
	t.Parallel()

	n := 24
	m64 := perturbedDiagonal(n, 0.01, true, 3)
	m := make([]float32, len(m64))
	for i, v := range m64 {
		m[i] = float32(v)
	}

	res, err := Solve(m, n, Options{Precision: eigtypes.PrecisionSingle})
	require.NoError(t, err)
	assert.Less(t, residual(m, n, res), 1e-4)
}

func TestSolveHalf(t *testing.T) {
	t.Parallel()

	n := 8
	m64 := perturbedDiagonal(n, 0.01, true, 5)
	m := make([]float32, len(m64))
	for i, v := range m64 {
		m[i] = eigtypes.PrecisionHalf.Round32(float32(v))
	}

	res, err := Solve(m, n, Options{Precision: eigtypes.PrecisionHalf})
	require.NoError(t, err)
	assert.Less(t, residual(m, n, res), 1e-2)
}

func TestSolveDiverges(t *testing.T) {
	t.Parallel()

	m := []float64{
		0, 10,
		10, 1,
	}

	_, err := Solve(m, 2, Options{MaxIter: 50})
	require.Error(t, err)
	assert.True(t, errors.Is(err, eigtypes.ErrNotConverged), "got %v", err)
}

func TestSolveDegenerateDiagonal(t *testing.T) {
	t.Parallel()

	m := []float64{
		1, 0.1, 0,
		0.1, 1, 0,
		0, 0, 2,
	}

	_, err := Solve(m, 3, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, eigtypes.ErrDegenerateDiagonal), "got %v", err)
}

func TestSolveBadShape(t *testing.T) {
	t.Parallel()

	_, err := Solve([]float64{1, 2, 3}, 2, Options{})
	assert.True(t, errors.Is(err, eigtypes.ErrDimensionMismatch), "got %v", err)

	_, err = Solve[float64](nil, 0, Options{})
	assert.True(t, errors.Is(err, eigtypes.ErrDimensionMismatch), "got %v", err)
}

type countingRecorder map[string]int

func (c countingRecorder) Record(op string, _ time.Duration) { c[op]++ }

func TestSolveRecorder(t *testing.T) {
	t.Parallel()

	n := 10
	m := perturbedDiagonal(n, 0.01, true, 1)
	rec := countingRecorder{}

	res, err := Solve(m, n, Options{Recorder: rec})
	require.NoError(t, err)

	assert.Equal(t, 1, rec[OpDelta])
	assert.Equal(t, 1, rec[OpNormalize])
	assert.Equal(t, res.Iterations, rec[OpUpdate])
	assert.Equal(t, res.Iterations+1, rec[OpGemm])
}

func TestSolveDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	n := 6
	m := perturbedDiagonal(n, 0.05, false, 9)
	orig := append([]float64(nil), m...)

	_, err := Solve(m, n, Options{})
	require.NoError(t, err)
	assert.Equal(t, orig, m)
}
