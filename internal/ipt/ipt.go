// Package ipt implements the iterative perturbation theory (IPT)
// eigensolver for dense matrices.
//
// A matrix M is split into its diagonal D = diag(θ) and off-diagonal part
// Δ = M − D. The eigenvector matrix A (normalized so that A_jj = 1) is the
// fixed point of
//
//	A = I + G ∘ (A · diag(ΔA) − ΔA),   G_ij = 1/(θ_i − θ_j), G_ii = 0,
//
// and the eigenvalues are λ_j = θ_j + (ΔA)_jj. Starting from A = I the map
// converges when Δ is small against the gaps of θ; otherwise it diverges and
// Solve reports ErrNotConverged. Each iteration costs one n×n GEMM.
package ipt

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-eig/internal/eigtypes"
)

// Kernel names reported to a Recorder.
const (
	OpDelta     = "ipt::delta"
	OpGemm      = "ipt::gemm"
	OpUpdate    = "ipt::update"
	OpNormalize = "ipt::normalize"
)

// DefaultMaxIter caps the fixed-point iteration.
const DefaultMaxIter = 1000

// Options controls the iteration.
type Options struct {
	// Tol is the max-abs change between iterates that counts as converged.
	// Zero selects DefaultTol(Precision).
	Tol float64

	// MaxIter caps the number of iterations. Zero selects DefaultMaxIter.
	MaxIter int

	// Precision of the stored iterate. PrecisionHalf rounds every iterate to
	// binary16 while arithmetic stays in T.
	Precision eigtypes.Precision

	// Recorder, when non-nil, receives per-kernel timings.
	Recorder eigtypes.Recorder
}

// DefaultTol returns the convergence threshold used for p.
func DefaultTol(p eigtypes.Precision) float64 {
	switch p {
	case eigtypes.PrecisionSingle:
		return 1e-5
	case eigtypes.PrecisionHalf:
		return 4e-3
	default:
		return 1e-12
	}
}

// Result holds the converged decomposition.
type Result[T eigtypes.Float] struct {
	// Values are the eigenvalues in diagonal order (λ_j belongs to θ_j).
	Values []T
	// Vectors is row-major n×n; column j is the unit eigenvector for Values[j].
	Vectors []T
	// Iterations is the number of fixed-point steps taken.
	Iterations int
	// Change is the max-abs difference of the last two iterates.
	Change float64
}

// Solve runs IPT on the row-major n×n matrix m. m is not modified.
func Solve[T eigtypes.Float](m []T, n int, opts Options) (*Result[T], error) {
	if n < 1 || len(m) != n*n {
		return nil, errors.Wrapf(eigtypes.ErrDimensionMismatch, "ipt: len %d for n=%d", len(m), n)
	}

	tol := opts.Tol
	if tol <= 0 {
		tol = DefaultTol(opts.Precision)
	}

	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	s := &state[T]{n: n, prec: opts.Precision, rec: opts.Recorder}

	if err := s.prepare(m); err != nil {
		return nil, err
	}

	var (
		iter   int
		change float64
	)

	for iter = 1; iter <= maxIter; iter++ {
		s.timed(OpGemm, func() { gemm(n, s.delta, s.a, s.p) })
		s.timed(OpUpdate, func() { change = s.update() })

		if math.IsNaN(change) || math.IsInf(change, 0) {
			return nil, errors.Wrapf(eigtypes.ErrNotConverged,
				"ipt: iterate not finite after %d iterations", iter)
		}

		s.a, s.next = s.next, s.a

		if change < tol {
			break
		}
	}

	if iter > maxIter {
		return nil, errors.Wrapf(eigtypes.ErrNotConverged,
			"ipt: change %.3g above tol %.3g after %d iterations", change, tol, maxIter)
	}

	// Eigenvalues from the converged iterate.
	s.timed(OpGemm, func() { gemm(n, s.delta, s.a, s.p) })

	values := make([]T, n)
	for j := range n {
		values[j] = s.theta[j] + s.p[j*n+j]
	}

	s.timed(OpNormalize, s.normalize)

	return &Result[T]{
		Values:     values,
		Vectors:    s.a,
		Iterations: iter,
		Change:     change,
	}, nil
}

type state[T eigtypes.Float] struct {
	n    int
	prec eigtypes.Precision
	rec  eigtypes.Recorder

	theta []T // diagonal of M
	delta []T // off-diagonal part of M
	g     []T // 1/(θ_i − θ_j), zero on the diagonal
	a     []T // current iterate
	next  []T // next iterate
	p     []T // Δ·A scratch
}

func (s *state[T]) timed(op string, f func()) {
	if s.rec == nil {
		f()
		return
	}

	start := time.Now()
	f()
	s.rec.Record(op, time.Since(start))
}

// prepare splits m into θ and Δ, builds G and sets A = I.
func (s *state[T]) prepare(m []T) error {
	n := s.n
	s.theta = make([]T, n)
	s.delta = make([]T, n*n)
	s.g = make([]T, n*n)
	s.a = make([]T, n*n)
	s.next = make([]T, n*n)
	s.p = make([]T, n*n)

	var err error

	s.timed(OpDelta, func() {
		copy(s.delta, m)

		for i := range n {
			s.theta[i] = m[i*n+i]
			s.delta[i*n+i] = 0
			s.a[i*n+i] = 1
		}

		eps := s.prec.Epsilon()

		for i := range n {
			for j := range n {
				if i == j {
					continue
				}

				gap := float64(s.theta[i] - s.theta[j])
				scale := math.Max(1, math.Max(math.Abs(float64(s.theta[i])), math.Abs(float64(s.theta[j]))))

				if math.Abs(gap) <= eps*scale {
					err = errors.Wrapf(eigtypes.ErrDegenerateDiagonal,
						"ipt: θ[%d]=%g and θ[%d]=%g", i, float64(s.theta[i]), j, float64(s.theta[j]))
					return
				}

				s.g[i*n+j] = T(1 / gap)
			}
		}
	})

	return err
}

// update writes the next iterate from s.a and s.p = Δ·s.a and returns the
// max-abs change.
func (s *state[T]) update() float64 {
	n := s.n
	half := s.prec == eigtypes.PrecisionHalf

	var change float64

	for i := range n {
		row := i * n
		for j := range n {
			var v T
			if i == j {
				v = 1
			} else {
				v = s.g[row+j] * (s.a[row+j]*s.p[j*n+j] - s.p[row+j])
				if half {
					v = T(s.prec.Round32(float32(v)))
				}
			}

			s.next[row+j] = v

			d := math.Abs(float64(v - s.a[row+j]))
			if d > change || d != d {
				change = d
			}
		}
	}

	return change
}

// normalize scales every column of s.a to unit Euclidean norm.
func (s *state[T]) normalize() {
	n := s.n
	for j := range n {
		norm := nrm2(n, s.a, j)
		if norm == 0 {
			continue
		}

		inv := T(1 / norm)
		for i := range n {
			s.a[i*n+j] *= inv
		}
	}
}
