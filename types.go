package algoeig

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cwbudde/algo-eig/internal/eigtypes"
)

// Float is a type constraint for the element types of the iterative solvers.
// The canonical definition is in internal/eigtypes.
type Float = eigtypes.Float

// Recorder receives per-kernel timings from the iterative solvers.
type Recorder = eigtypes.Recorder

// Precision is the element precision of a generated or device matrix.
type Precision = eigtypes.Precision

const (
	Double = eigtypes.PrecisionDouble
	Single = eigtypes.PrecisionSingle
	Half   = eigtypes.PrecisionHalf
)

// SolverKind selects one of the eigen-decomposition backends.
type SolverKind = eigtypes.SolverKind

const (
	SolverIPT   = eigtypes.SolverIPT
	SolverSYEV  = eigtypes.SolverSYEV
	SolverSYEVJ = eigtypes.SolverSYEVJ
	SolverGEEV  = eigtypes.SolverGEEV
)

// AllSolvers lists every solver in benchmark order.
func AllSolvers() []SolverKind { return eigtypes.AllSolvers() }

// ParsePrecision maps a dtype name to a Precision.
// Accepted: double|float|half and float64|float32|float16|single.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "double", "float64":
		return Double, nil
	case "float", "float32", "single":
		return Single, nil
	case "half", "float16":
		return Half, nil
	}

	return 0, errors.WithHint(
		errors.Wrapf(ErrUnknownPrecision, "%q", s),
		"dtype must be one of double|float|half")
}

// ParseSolverKind maps a solver name (ipt, syev, syevj, geev) to a SolverKind.
func ParseSolverKind(s string) (SolverKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range AllSolvers() {
		if k.String() == name {
			return k, nil
		}
	}

	return 0, errors.WithHint(
		errors.Wrapf(ErrUnknownSolver, "%q", s),
		"solver must be one of ipt|syev|syevj|geev")
}
