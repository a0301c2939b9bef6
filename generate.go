package algoeig

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// NewPair builds the two benchmark matrices from a single Gaussian draw G:
//
//	general   R = diag(0, 1, …, n−1) + l·G
//	symmetric S = diag(0, 1, …, n−1) + l·(G + Gᵀ)
//
// The diagonal holds the eigenvalues of the unperturbed problem, so l
// controls how far the spectrum moves away from 0…n−1. Every entry is rounded
// to prec so that host and device copies hold identical values. With l = 0
// both matrices are exactly diag(0…n−1).
func NewPair(rnd *rand.Rand, n int, l float64, prec Precision) (sym, general *mat.Dense, err error) {
	if n < 1 {
		return nil, nil, errors.Wrapf(ErrInvalidSize, "n=%d", n)
	}

	if math.IsNaN(l) || math.IsInf(l, 0) {
		return nil, nil, errors.Wrapf(ErrInvalidScale, "l=%v", l)
	}

	if !prec.Valid() {
		return nil, nil, errors.Wrapf(ErrUnknownPrecision, "precision %d", prec)
	}

	g := make([]float64, n*n)
	for i := range g {
		g[i] = rnd.NormFloat64()
	}

	symData := make([]float64, n*n)
	genData := make([]float64, n*n)

	for i := range n {
		for j := range n {
			r := l * g[i*n+j]
			s := l * (g[i*n+j] + g[j*n+i])

			if i == j {
				r += float64(i)
				s += float64(i)
			}

			genData[i*n+j] = prec.Round(r)
			symData[i*n+j] = prec.Round(s)
		}
	}

	return mat.NewDense(n, n, symData), mat.NewDense(n, n, genData), nil
}

// NewSymmetric returns diag(0…n−1) + l·(G + Gᵀ) rounded to prec.
func NewSymmetric(rnd *rand.Rand, n int, l float64, prec Precision) (*mat.Dense, error) {
	sym, _, err := NewPair(rnd, n, l, prec)
	return sym, err
}

// NewGeneral returns diag(0…n−1) + l·G rounded to prec.
func NewGeneral(rnd *rand.Rand, n int, l float64, prec Precision) (*mat.Dense, error) {
	_, general, err := NewPair(rnd, n, l, prec)
	return general, err
}

// IsSymmetric reports whether the square matrix a satisfies
// |a_ij − a_ji| ≤ tol for all i, j.
func IsSymmetric(a mat.Matrix, tol float64) bool {
	r, c := a.Dims()
	if r != c {
		return false
	}

	for i := range r {
		for j := i + 1; j < c; j++ {
			if math.Abs(a.At(i, j)-a.At(j, i)) > tol {
				return false
			}
		}
	}

	return true
}
