// Package jacobi implements a cyclic Jacobi eigensolver for dense real
// symmetric matrices.
//
// Each sweep visits every (p,q) pair above the diagonal in row order and
// applies the plane rotation that annihilates A[p][q]. Sweeps repeat until
// the off-diagonal Frobenius norm falls below Tol·‖A‖_F. Eigenvalues are
// returned in ascending order with their eigenvectors as columns, the same
// layout as cuSOLVER syevj.
//
// Complexity: O(n³) time per sweep; Memory: O(n²).
package jacobi

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-eig/internal/eigtypes"
)

// DefaultMaxSweeps matches the cuSOLVER syevj default.
const DefaultMaxSweeps = 100

// Options controls convergence.
type Options struct {
	// Tol is the relative off-diagonal threshold. Zero selects DefaultTol.
	Tol float64

	// MaxSweeps caps the number of sweeps. Zero selects DefaultMaxSweeps.
	MaxSweeps int
}

// DefaultTol returns the relative threshold used for element type T.
func DefaultTol[T eigtypes.Float]() float64 {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return 1e-6
	}
	return 1e-14
}

// Result holds the decomposition.
type Result[T eigtypes.Float] struct {
	Values  []T // ascending
	Vectors []T // row-major n×n, column j pairs with Values[j]
	Sweeps  int
	OffNorm float64 // off-diagonal Frobenius norm at exit
}

// Solve diagonalizes the symmetric row-major n×n matrix m. m is not modified.
// Returns ErrDimensionMismatch, ErrNotSymmetric or ErrNotConverged.
func Solve[T eigtypes.Float](m []T, n int, opts Options) (*Result[T], error) {
	// Stage 1: validate shape and symmetry
	if n < 1 || len(m) != n*n {
		return nil, errors.Wrapf(eigtypes.ErrDimensionMismatch, "jacobi: len %d for n=%d", len(m), n)
	}

	tol := opts.Tol
	if tol <= 0 {
		tol = DefaultTol[T]()
	}

	maxSweeps := opts.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = DefaultMaxSweeps
	}

	norm := frobenius(m)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if math.Abs(float64(m[i*n+j]-m[j*n+i])) > tol*norm {
				return nil, errors.Wrapf(eigtypes.ErrNotSymmetric,
					"jacobi: A[%d][%d]=%g, A[%d][%d]=%g", i, j, float64(m[i*n+j]), j, i, float64(m[j*n+i]))
			}
		}
	}

	// Stage 2: working copy and V = I
	a := append([]T(nil), m...)
	v := make([]T, n*n)
	for i := range n {
		v[i*n+i] = 1
	}

	// Stage 3: sweeps
	var (
		sweep int
		off   float64
	)
	for sweep = 0; sweep < maxSweeps; sweep++ {
		off = offNorm(a, n)
		if off <= tol*norm {
			break
		}

		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				rotate(a, v, n, p, q)
			}
		}
	}

	if sweep == maxSweeps {
		off = offNorm(a, n)
		if off > tol*norm {
			return nil, errors.Wrapf(eigtypes.ErrNotConverged,
				"jacobi: off-diagonal %.3g above %.3g after %d sweeps", off, tol*norm, maxSweeps)
		}
	}

	// Stage 4: sort ascending and permute columns
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return a[order[x]*n+order[x]] < a[order[y]*n+order[y]]
	})

	values := make([]T, n)
	vectors := make([]T, n*n)
	for j, src := range order {
		values[j] = a[src*n+src]
		for i := range n {
			vectors[i*n+j] = v[i*n+src]
		}
	}

	return &Result[T]{Values: values, Vectors: vectors, Sweeps: sweep, OffNorm: off}, nil
}

// rotate applies the Jacobi rotation that zeroes a[p][q], updating the
// accumulated eigenvectors v.
func rotate[T eigtypes.Float](a, v []T, n, p, q int) {
	apq := float64(a[p*n+q])
	if apq == 0 {
		return
	}

	app := float64(a[p*n+p])
	aqq := float64(a[q*n+q])

	theta := (aqq - app) / (2 * apq)
	t := 1 / (math.Abs(theta) + math.Sqrt(theta*theta+1))
	if theta < 0 {
		t = -t
	}
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	ct, st := T(c), T(s)

	// A ← A·J
	for k := range n {
		akp, akq := a[k*n+p], a[k*n+q]
		a[k*n+p] = ct*akp - st*akq
		a[k*n+q] = st*akp + ct*akq
	}
	// A ← Jᵀ·A
	for k := range n {
		apk, aqk := a[p*n+k], a[q*n+k]
		a[p*n+k] = ct*apk - st*aqk
		a[q*n+k] = st*apk + ct*aqk
	}
	a[p*n+q], a[q*n+p] = 0, 0

	// V ← V·J
	for k := range n {
		vkp, vkq := v[k*n+p], v[k*n+q]
		v[k*n+p] = ct*vkp - st*vkq
		v[k*n+q] = st*vkp + ct*vkq
	}
}

func offNorm[T eigtypes.Float](a []T, n int) float64 {
	var sum float64
	for i := range n {
		for j := range n {
			if i != j {
				x := float64(a[i*n+j])
				sum += x * x
			}
		}
	}
	return math.Sqrt(sum)
}

func frobenius[T eigtypes.Float](a []T) float64 {
	var sum float64
	for _, x := range a {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
