package gpu

import (
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	pscpu "github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/x448/float16"
	"gonum.org/v1/gonum/mat"

	algoeig "github.com/cwbudde/algo-eig"
	"github.com/cwbudde/algo-eig/internal/cpu"
)

func init() {
	RegisterMockBackend()
}

// MockBackend is a CPU-backed device backend for development and tests.
// It satisfies the device interfaces but executes on the host.
type MockBackend struct {
	once   sync.Once
	device DeviceInfo
}

// NewMockBackend returns a mock backend with a single host device.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

func (b *MockBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "mock",
		Version:     "0.1",
		Description: "CPU-backed mock device backend",
	}
}

func (b *MockBackend) Available() bool {
	return true
}

func (b *MockBackend) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{b.hostDevice()}, nil
}

func (b *MockBackend) NewContext(deviceIndex int) (Context, error) {
	if deviceIndex != 0 {
		return nil, errors.Wrapf(ErrInvalidDevice, "mock backend: device index %d out of range", deviceIndex)
	}

	return &mockContext{device: b.hostDevice()}, nil
}

// hostDevice describes the host. Lookup failures leave fields at their
// defaults; the mock device is usable either way.
func (b *MockBackend) hostDevice() DeviceInfo {
	b.once.Do(func() {
		b.device = DeviceInfo{
			Name:       "host",
			Vendor:     runtime.GOARCH,
			Driver:     "mock",
			ComputeCap: cpu.DetectFeatures().String(),
		}

		if infos, err := pscpu.Info(); err == nil && len(infos) > 0 {
			if infos[0].ModelName != "" {
				b.device.Name = infos[0].ModelName
			}

			if infos[0].VendorID != "" {
				b.device.Vendor = infos[0].VendorID
			}
		}

		if vm, err := mem.VirtualMemory(); err == nil {
			b.device.MemoryBytes = vm.Total
		}
	})

	return b.device
}

// RegisterMockBackend registers the mock backend under "mock" (and the
// "cpu" alias).
func RegisterMockBackend() {
	RegisterBackend(NewMockBackend())
}

type mockContext struct {
	device DeviceInfo
}

func (c *mockContext) Device() DeviceInfo {
	return c.device
}

func (c *mockContext) NewBuffer(elemCount int, precision PrecisionKind) (Buffer, error) {
	if elemCount < 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "%d elements", elemCount)
	}

	b := &mockBuffer{precision: precision, len: elemCount}

	switch precision {
	case PrecisionDouble:
		b.data64 = make([]float64, elemCount)
	case PrecisionSingle:
		b.data32 = make([]float32, elemCount)
	case PrecisionHalf:
		b.data16 = make([]float16.Float16, elemCount)
	default:
		return nil, errors.Wrapf(ErrNotImplemented, "precision %d", precision)
	}

	return b, nil
}

func (c *mockContext) NewStream() (Stream, error) {
	return &mockStream{}, nil
}

func (c *mockContext) NewSolver(kind algoeig.SolverKind, precision PrecisionKind, opts SolverOptions) (SolverImpl, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(algoeig.ErrUnknownSolver, "kind %d", kind)
	}

	if !precision.Valid() {
		return nil, errors.Wrapf(algoeig.ErrUnknownPrecision, "precision %d", precision)
	}

	if precision == PrecisionHalf && kind != algoeig.SolverIPT {
		return nil, errors.WithHint(
			errors.Wrapf(algoeig.ErrUnsupportedPrecision, "%s with %s", kind, precision),
			"only ipt supports half precision; use --solvers ipt or dtype float")
	}

	return &mockSolver{kind: kind, precision: precision, opts: opts}, nil
}

func (c *mockContext) Close() error {
	return nil
}

type mockBuffer struct {
	precision PrecisionKind
	len       int
	data64    []float64
	data32    []float32
	data16    []float16.Float16
	closed    bool
}

func (b *mockBuffer) Len() int {
	return b.len
}

func (b *mockBuffer) Precision() PrecisionKind {
	return b.precision
}

func (b *mockBuffer) Upload(src any) error {
	if b.closed {
		return ErrClosed
	}

	switch data := src.(type) {
	case []float64:
		return copyIn(b.data64, data, b.precision == PrecisionDouble, b.len)
	case []float32:
		return copyIn(b.data32, data, b.precision == PrecisionSingle, b.len)
	case []float16.Float16:
		return copyIn(b.data16, data, b.precision == PrecisionHalf, b.len)
	default:
		return errors.Wrapf(ErrTypeMismatch, "upload %T", src)
	}
}

func (b *mockBuffer) Download(dst any) error {
	if b.closed {
		return ErrClosed
	}

	switch data := dst.(type) {
	case []float64:
		return copyIn(data, b.data64, b.precision == PrecisionDouble, b.len)
	case []float32:
		return copyIn(data, b.data32, b.precision == PrecisionSingle, b.len)
	case []float16.Float16:
		return copyIn(data, b.data16, b.precision == PrecisionHalf, b.len)
	default:
		return errors.Wrapf(ErrTypeMismatch, "download %T", dst)
	}
}

func copyIn[T any](dst, src []T, match bool, n int) error {
	if !match {
		return errors.Wrapf(ErrTypeMismatch, "%T", src)
	}

	if len(dst) < n || len(src) < n {
		return errors.Wrapf(ErrLengthMismatch, "need %d elements", n)
	}

	copy(dst[:n], src[:n])

	return nil
}

// matrix returns the leading n×n row-major block as a host matrix.
func (b *mockBuffer) matrix(n int) *mat.Dense {
	out := make([]float64, n*n)

	switch b.precision {
	case PrecisionDouble:
		copy(out, b.data64[:n*n])
	case PrecisionSingle:
		for i, v := range b.data32[:n*n] {
			out[i] = float64(v)
		}
	case PrecisionHalf:
		for i, v := range b.data16[:n*n] {
			out[i] = float64(v.Float32())
		}
	}

	return mat.NewDense(n, n, out)
}

func (b *mockBuffer) Close() error {
	b.data64 = nil
	b.data32 = nil
	b.data16 = nil
	b.len = 0
	b.closed = true

	return nil
}

type mockStream struct{}

func (s *mockStream) Synchronize() error { return nil }
func (s *mockStream) Close() error       { return nil }

type mockSolver struct {
	kind      algoeig.SolverKind
	precision PrecisionKind
	opts      SolverOptions
}

func (s *mockSolver) Kind() algoeig.SolverKind {
	return s.kind
}

func (s *mockSolver) Precision() PrecisionKind {
	return s.precision
}

func (s *mockSolver) Solve(a Buffer, n int) (algoeig.Decomposition, error) {
	buf, ok := a.(*mockBuffer)
	if !ok {
		return algoeig.Decomposition{}, errors.Wrapf(ErrTypeMismatch, "mock solver given %T", a)
	}

	if buf.closed {
		return algoeig.Decomposition{}, ErrClosed
	}

	if buf.len < n*n {
		return algoeig.Decomposition{}, errors.Wrapf(ErrLengthMismatch,
			"buffer holds %d elements, need %d", buf.len, n*n)
	}

	return algoeig.Solve(s.kind, buf.matrix(n), algoeig.Options{
		Precision: s.precision,
		Tol:       s.opts.Tol,
		MaxIter:   s.opts.MaxIter,
		Recorder:  s.opts.Recorder,
	})
}

func (s *mockSolver) Close() error {
	return nil
}
