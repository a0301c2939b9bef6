package jacobi

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"

	"github.com/cwbudde/algo-eig/internal/eigtypes"
)

func randomSymmetric(n int, seed uint64) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	m := make([]float64, n*n)
	for i := range n {
		for j := i; j < n; j++ {
			v := rnd.NormFloat64()
			m[i*n+j] = v
			m[j*n+i] = v
		}
	}
	return m
}

func checkDecomposition[T eigtypes.Float](t *testing.T, m []T, n int, res *Result[T], tol float64) {
	t.Helper()

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
	if r := math.Sqrt(num / den); r > tol {
		t.Fatalf("residual %g above %g", r, tol)
	}

	// VᵀV = I
	for a := range n {
		for b := range n {
			var dot float64
			for k := range n {
				dot += float64(res.Vectors[k*n+a]) * float64(res.Vectors[k*n+b])
			}
			want := 0.0
			if a == b {
				want = 1
			}
			if math.Abs(dot-want) > tol*10 {
				t.Fatalf("VᵀV[%d][%d] = %g, want %g", a, b, dot, want)
			}
		}
	}
}

func TestSolveKnownSpectrum(t *testing.T) {
	t.Parallel()

	m := []float64{
		2, 1, 0,
		1, 2, 0,
		0, 0, 5,
	}

	res, err := Solve(m, 3, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	want := []float64{1, 3, 5}
	for i, w := range want {
		if math.Abs(res.Values[i]-w) > 1e-12 {
			t.Errorf("Values[%d] = %v, want %v", i, res.Values[i], w)
		}
	}

	checkDecomposition(t, m, 3, res, 1e-12)
}

func TestSolveAscending(t *testing.T) {
	t.Parallel()

	n := 32
	m := randomSymmetric(n, 42)

	res, err := Solve(m, n, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	for i := 1; i < n; i++ {
		if res.Values[i] < res.Values[i-1] {
			t.Fatalf("Values not ascending at %d: %v < %v", i, res.Values[i], res.Values[i-1])
		}
	}

	if res.Sweeps < 1 || res.Sweeps >= DefaultMaxSweeps {
		t.Errorf("Sweeps = %d", res.Sweeps)
	}

	checkDecomposition(t, m, n, res, 1e-12)
}

func TestSolveFloat32(t *testing.T) {
	t.Parallel()

	n := 16
	m64 := randomSymmetric(n, 7)
	m := make([]float32, len(m64))
	for i, v := range m64 {
		m[i] = float32(v)
	}

	res, err := Solve(m, n, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	checkDecomposition(t, m, n, res, 1e-5)
}

func TestSolveDiagonal(t *testing.T) {
	t.Parallel()

	n := 5
	m := make([]float64, n*n)
	for i := range n {
		m[i*n+i] = float64(n - 1 - i)
	}

	res, err := Solve(m, n, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if res.Sweeps != 0 {
		t.Errorf("Sweeps = %d, want 0", res.Sweeps)
	}

	for i := range n {
		if res.Values[i] != float64(i) {
			t.Errorf("Values[%d] = %v, want %d", i, res.Values[i], i)
		}
	}
}

func TestSolveNotSymmetric(t *testing.T) {
	t.Parallel()

	m := []float64{
		1, 2,
		3, 4,
	}

	_, err := Solve(m, 2, Options{})
	if !errors.Is(err, eigtypes.ErrNotSymmetric) {
		t.Fatalf("err = %v, want ErrNotSymmetric", err)
	}
}

func TestSolveSweepBudget(t *testing.T) {
	t.Parallel()

	n := 20
	m := randomSymmetric(n, 3)

	_, err := Solve(m, n, Options{MaxSweeps: 1})
	if !errors.Is(err, eigtypes.ErrNotConverged) {
		t.Fatalf("err = %v, want ErrNotConverged", err)
	}
}

func TestSolveBadShape(t *testing.T) {
	t.Parallel()

	_, err := Solve([]float64{1, 2}, 2, Options{})
	if !errors.Is(err, eigtypes.ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}
