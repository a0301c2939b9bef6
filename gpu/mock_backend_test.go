package gpu

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/x448/float16"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	algoeig "github.com/cwbudde/algo-eig"
)

func openMock(t *testing.T) Context {
	t.Helper()

	ctx, err := Open("mock")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() { _ = ctx.Close() })

	return ctx
}

func TestMockDeviceInfo(t *testing.T) {
	t.Parallel()

	ctx := openMock(t)
	dev := ctx.Device()

	if dev.Driver != "mock" {
		t.Errorf("Driver = %q, want mock", dev.Driver)
	}

	if dev.Name == "" || dev.ComputeCap == "" {
		t.Errorf("incomplete device info: %+v", dev)
	}
}

func TestMockMatrixRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := openMock(t)
	a := mat.NewDense(3, 3, []float64{
		1, -2, 0.5,
		4, 0, -0.25,
		8, 16, 3,
	})

	for _, prec := range []PrecisionKind{PrecisionDouble, PrecisionSingle, PrecisionHalf} {
		buf, err := UploadMatrix(ctx, a, prec)
		if err != nil {
			t.Fatalf("%s: UploadMatrix: %v", prec, err)
		}

		if buf.Len() != 9 || buf.Precision() != prec {
			t.Fatalf("%s: buffer len=%d precision=%s", prec, buf.Len(), buf.Precision())
		}

		got, err := DownloadMatrix(buf, 3)
		if err != nil {
			t.Fatalf("%s: DownloadMatrix: %v", prec, err)
		}

		if !mat.Equal(got, a) {
			t.Errorf("%s: round trip =\n%v", prec, mat.Formatted(got))
		}

		_ = buf.Close()
	}
}

func TestMockBufferErrors(t *testing.T) {
	t.Parallel()

	ctx := openMock(t)

	buf, err := ctx.NewBuffer(4, PrecisionDouble)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}

	if err := buf.Upload([]float32{1, 2, 3, 4}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("float32 into double buffer: err = %v", err)
	}

	if err := buf.Upload([]float16.Float16{0, 0, 0, 0}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("float16 into double buffer: err = %v", err)
	}

	if err := buf.Upload([]float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short upload: err = %v", err)
	}

	if err := buf.Upload("data"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("string upload: err = %v", err)
	}

	_ = buf.Close()

	if err := buf.Download(make([]float64, 4)); !errors.Is(err, ErrClosed) {
		t.Errorf("download after close: err = %v", err)
	}

	if _, err := ctx.NewBuffer(-1, PrecisionDouble); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("negative length: err = %v", err)
	}

	if _, err := ctx.NewBuffer(1, PrecisionKind(7)); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("bad precision: err = %v", err)
	}
}

func TestSolverSolve(t *testing.T) {
	t.Parallel()

	ctx := openMock(t)

	sym, general, err := algoeig.NewPair(rand.New(rand.NewSource(3)), 6, 0.01, algoeig.Double)
	if err != nil {
		t.Fatalf("NewPair: %v", err)
	}

	cases := []struct {
		kind algoeig.SolverKind
		a    *mat.Dense
	}{
		{algoeig.SolverIPT, sym},
		{algoeig.SolverSYEV, sym},
		{algoeig.SolverSYEVJ, sym},
		{algoeig.SolverIPT, general},
		{algoeig.SolverGEEV, general},
	}

	for _, tc := range cases {
		buf, err := UploadMatrix(ctx, tc.a, PrecisionDouble)
		if err != nil {
			t.Fatalf("UploadMatrix: %v", err)
		}

		s, err := NewSolver(ctx, tc.kind, PrecisionDouble, SolverOptions{})
		if err != nil {
			t.Fatalf("%s: NewSolver: %v", tc.kind, err)
		}

		if err := s.Synchronize(); err != nil {
			t.Fatalf("%s: Synchronize: %v", tc.kind, err)
		}

		d, err := s.Solve(buf, 6)
		if err != nil {
			t.Fatalf("%s: Solve: %v", tc.kind, err)
		}

		res, err := algoeig.Residual(tc.a, d)
		if err != nil {
			t.Fatalf("%s: Residual: %v", tc.kind, err)
		}

		if res > 1e-10 {
			t.Errorf("%s: residual %g", tc.kind, res)
		}

		_ = s.Close()
		_ = buf.Close()
	}
}

func TestSolverLeadingBlock(t *testing.T) {
	t.Parallel()

	ctx := openMock(t)

	a, err := algoeig.NewSymmetric(rand.New(rand.NewSource(4)), 12, 0.01, algoeig.Single)
	if err != nil {
		t.Fatalf("NewSymmetric: %v", err)
	}

	block, err := UploadBlock(ctx, a, 4, PrecisionSingle)
	if err != nil {
		t.Fatalf("UploadBlock: %v", err)
	}
	defer func() { _ = block.Close() }()

	s, err := NewSolver(ctx, algoeig.SolverSYEVJ, PrecisionSingle, SolverOptions{})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	defer func() { _ = s.Close() }()

	d, err := s.Solve(block, 4)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if d.Len() != 4 {
		t.Fatalf("Len = %d, want 4", d.Len())
	}

	if _, err := s.Solve(block, 5); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("oversized n: err = %v", err)
	}
}

func TestSolverErrors(t *testing.T) {
	t.Parallel()

	ctx := openMock(t)

	if _, err := NewSolver(ctx, algoeig.SolverSYEV, PrecisionHalf, SolverOptions{}); !errors.Is(err, algoeig.ErrUnsupportedPrecision) {
		t.Errorf("syev half: err = %v", err)
	}

	if _, err := NewSolver(ctx, algoeig.SolverKind(42), PrecisionDouble, SolverOptions{}); !errors.Is(err, algoeig.ErrUnknownSolver) {
		t.Errorf("unknown kind: err = %v", err)
	}

	s, err := NewSolver(ctx, algoeig.SolverIPT, PrecisionDouble, SolverOptions{})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	single, err := ctx.NewBuffer(4, PrecisionSingle)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}

	if _, err := s.Solve(single, 2); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("precision mismatch: err = %v", err)
	}

	if _, err := s.Solve(nil, 2); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("nil buffer: err = %v", err)
	}

	if _, err := s.Solve(single, 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("n=0: err = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if _, err := s.Solve(single, 2); !errors.Is(err, ErrClosed) {
		t.Errorf("solve after close: err = %v", err)
	}
}

func TestSolverHalfIPT(t *testing.T) {
	t.Parallel()

	ctx := openMock(t)

	a, err := algoeig.NewSymmetric(rand.New(rand.NewSource(5)), 8, 0.01, algoeig.Half)
	if err != nil {
		t.Fatalf("NewSymmetric: %v", err)
	}

	buf, err := UploadMatrix(ctx, a, PrecisionHalf)
	if err != nil {
		t.Fatalf("UploadMatrix: %v", err)
	}
	defer func() { _ = buf.Close() }()

	s, err := NewSolver(ctx, algoeig.SolverIPT, PrecisionHalf, SolverOptions{})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	defer func() { _ = s.Close() }()

	d, err := s.Solve(buf, 8)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	res, err := algoeig.Residual(a, d)
	if err != nil {
		t.Fatalf("Residual: %v", err)
	}

	if res > 1e-2 {
		t.Errorf("residual %g", res)
	}
}
