package eigtypes

import "time"

// Float is the element constraint for the iterative solvers.
// The canonical definition is re-exported by the root package.
type Float interface {
	float32 | float64
}

// Recorder receives per-kernel timings from iterative solvers.
// A nil Recorder disables timing.
type Recorder interface {
	Record(op string, d time.Duration)
}
