package gpu

import algoeig "github.com/cwbudde/algo-eig"

// PrecisionKind is the element precision of a device buffer.
type PrecisionKind = algoeig.Precision

const (
	PrecisionDouble = algoeig.Double
	PrecisionSingle = algoeig.Single
	PrecisionHalf   = algoeig.Half
)

// DeviceInfo describes a compute device.
type DeviceInfo struct {
	Index       int
	Name        string
	Vendor      string
	Driver      string
	MemoryBytes uint64
	ComputeCap  string
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
}

// SolverOptions controls solver creation.
type SolverOptions struct {
	// Tol overrides the convergence threshold of the iterative solvers.
	Tol float64

	// MaxIter overrides the iteration or sweep budget.
	MaxIter int

	// Recorder receives per-kernel timings from solvers that emit them.
	Recorder algoeig.Recorder
}
