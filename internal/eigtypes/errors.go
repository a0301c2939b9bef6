package eigtypes

import "github.com/cockroachdb/errors"

// Sentinel errors shared by the solver packages. The root package
// re-exports them so callers never import internal/.
var (
	// ErrNotConverged is returned when an iterative solver exhausts its
	// iteration budget or its iterate stops being finite.
	ErrNotConverged = errors.New("algoeig: solver did not converge")

	// ErrDegenerateDiagonal is returned by IPT when two diagonal entries
	// coincide, which makes the perturbative denominators singular.
	ErrDegenerateDiagonal = errors.New("algoeig: degenerate diagonal")

	// ErrNotSymmetric is returned when a symmetric solver gets an
	// asymmetric matrix.
	ErrNotSymmetric = errors.New("algoeig: matrix is not symmetric")

	// ErrDimensionMismatch is returned when a flat slice does not hold n*n
	// elements or operand shapes disagree.
	ErrDimensionMismatch = errors.New("algoeig: dimension mismatch")
)
