package gpu

import (
	"github.com/cockroachdb/errors"

	algoeig "github.com/cwbudde/algo-eig"
)

// Solver is a device eigensolver for a specific kind and precision.
//
// The solver owns its stream and implementation; the context it was created
// from stays owned by the caller. It is not safe for concurrent use.
type Solver struct {
	kind      algoeig.SolverKind
	precision PrecisionKind
	ctx       Context
	stream    Stream
	impl      SolverImpl
}

// NewSolver creates a solver on ctx.
func NewSolver(ctx Context, kind algoeig.SolverKind, precision PrecisionKind, opts SolverOptions) (*Solver, error) {
	if ctx == nil {
		return nil, ErrNoBackend
	}

	stream, err := ctx.NewStream()
	if err != nil {
		return nil, errors.Wrap(err, "new stream")
	}

	impl, err := ctx.NewSolver(kind, precision, opts)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}

	return &Solver{
		kind:      kind,
		precision: precision,
		ctx:       ctx,
		stream:    stream,
		impl:      impl,
	}, nil
}

// Kind returns the solver kind.
func (s *Solver) Kind() algoeig.SolverKind {
	if s == nil {
		return 0
	}

	return s.kind
}

// Precision returns the solver precision.
func (s *Solver) Precision() PrecisionKind {
	if s == nil {
		return PrecisionDouble
	}

	return s.precision
}

// Synchronize waits for all work queued on the solver's stream.
func (s *Solver) Synchronize() error {
	if s == nil || s.stream == nil {
		return ErrClosed
	}

	return s.stream.Synchronize()
}

// Solve decomposes the leading n×n row-major matrix held in a.
func (s *Solver) Solve(a Buffer, n int) (algoeig.Decomposition, error) {
	if s == nil || s.impl == nil {
		return algoeig.Decomposition{}, ErrClosed
	}

	if a == nil {
		return algoeig.Decomposition{}, ErrNilBuffer
	}

	if n < 1 {
		return algoeig.Decomposition{}, errors.Wrapf(ErrInvalidLength, "n=%d", n)
	}

	if a.Len() < n*n {
		return algoeig.Decomposition{}, errors.Wrapf(ErrLengthMismatch,
			"buffer holds %d elements, need %d", a.Len(), n*n)
	}

	if a.Precision() != s.precision {
		return algoeig.Decomposition{}, errors.Wrapf(ErrTypeMismatch,
			"buffer is %s, solver is %s", a.Precision(), s.precision)
	}

	return s.impl.Solve(a, n)
}

// Close releases the solver implementation and its stream.
func (s *Solver) Close() error {
	if s == nil {
		return nil
	}

	var firstErr error
	if s.impl != nil {
		firstErr = s.impl.Close()
		s.impl = nil
	}

	if s.stream != nil {
		if err := s.stream.Close(); err != nil && firstErr == nil {
			firstErr = err
		}

		s.stream = nil
	}

	s.ctx = nil

	return firstErr
}
