package algoeig

import (
	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-eig/internal/eigtypes"
)

// Sentinel errors returned by matrix generation and the solvers.
var (
	// ErrInvalidSize is returned when the matrix dimension is not positive.
	ErrInvalidSize = errors.New("algoeig: invalid matrix size")

	// ErrInvalidScale is returned when the perturbation scale is NaN or ±Inf.
	ErrInvalidScale = errors.New("algoeig: invalid perturbation scale")

	// ErrNonSquare is returned when a solver gets a non-square matrix.
	ErrNonSquare = errors.New("algoeig: matrix is not square")

	// ErrUnknownPrecision is returned by ParsePrecision for unknown dtypes.
	ErrUnknownPrecision = errors.New("algoeig: unknown precision")

	// ErrUnsupportedPrecision is returned when a solver has no path for the
	// requested precision (the dense vendor solvers have no half path).
	ErrUnsupportedPrecision = errors.New("algoeig: precision not supported by solver")

	// ErrUnknownSolver is returned by ParseSolverKind for unknown names.
	ErrUnknownSolver = errors.New("algoeig: unknown solver")

	// ErrFactorization is returned when a dense LAPACK factorization
	// reports failure.
	ErrFactorization = errors.New("algoeig: factorization failed")
)

// Errors shared with the internal solver packages.
var (
	ErrNotConverged       = eigtypes.ErrNotConverged
	ErrDegenerateDiagonal = eigtypes.ErrDegenerateDiagonal
	ErrNotSymmetric       = eigtypes.ErrNotSymmetric
	ErrDimensionMismatch  = eigtypes.ErrDimensionMismatch
)
