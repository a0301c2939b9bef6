package gpu

import (
	"sort"
	"strings"
	"sync"

	algoeig "github.com/cwbudde/algo-eig"
)

// Backend is implemented by device backends (CUDA, OpenCL, the host mock).
// It is responsible for device discovery, buffer allocation, and execution.
type Backend interface {
	Info() BackendInfo
	Available() bool
	Devices() ([]DeviceInfo, error)
	NewContext(deviceIndex int) (Context, error)
}

// Context represents a backend-specific context tied to a device.
type Context interface {
	Device() DeviceInfo
	// NewBuffer allocates a device buffer of elemCount real elements.
	NewBuffer(elemCount int, precision PrecisionKind) (Buffer, error)
	// NewStream creates an execution stream/queue.
	NewStream() (Stream, error)
	// NewSolver creates a backend-specific eigensolver implementation.
	NewSolver(kind algoeig.SolverKind, precision PrecisionKind, opts SolverOptions) (SolverImpl, error)
	Close() error
}

// Buffer is a device buffer.
type Buffer interface {
	Len() int
	Precision() PrecisionKind
	// Upload copies from host to device. src must be a []float64,
	// []float32 or []float16.Float16 matching Precision.
	Upload(src any) error
	// Download copies from device to host. dst follows the same rules as
	// Upload.
	Download(dst any) error
	Close() error
}

// Stream represents an execution queue/stream.
type Stream interface {
	Synchronize() error
	Close() error
}

// SolverImpl is a backend-specific eigensolver. Solve decomposes the
// leading n×n row-major matrix stored in a.
type SolverImpl interface {
	Kind() algoeig.SolverKind
	Precision() PrecisionKind
	Solve(a Buffer, n int) (algoeig.Decomposition, error)
	Close() error
}

var (
	backendMu sync.RWMutex
	backends  = map[string]Backend{}
)

// aliases maps alternative device names to registered backend names.
var aliases = map[string]string{
	"cpu": "mock",
}

// RegisterBackend registers b under b.Info().Name, replacing any backend
// already registered under that name.
func RegisterBackend(b Backend) {
	if b == nil {
		return
	}

	name := strings.ToLower(b.Info().Name)

	backendMu.Lock()
	backends[name] = b
	backendMu.Unlock()
}

// UnregisterBackend removes the backend registered under name.
func UnregisterBackend(name string) {
	backendMu.Lock()
	delete(backends, strings.ToLower(name))
	backendMu.Unlock()
}

// Backends reports the registered backends sorted by name.
func Backends() []BackendInfo {
	backendMu.RLock()
	out := make([]BackendInfo, 0, len(backends))
	for _, b := range backends {
		out = append(out, b.Info())
	}
	backendMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// BackendNames returns the registered backend names, sorted.
func BackendNames() []string {
	infos := Backends()

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}

	return names
}

func getBackend(name string) (Backend, bool) {
	name = strings.ToLower(name)
	if target, ok := aliases[name]; ok {
		name = target
	}

	backendMu.RLock()
	b, ok := backends[name]
	backendMu.RUnlock()

	return b, ok
}
