package algoeig

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-eig/internal/ipt"
	"github.com/cwbudde/algo-eig/internal/jacobi"
)

// Options configures a Solve call. The zero value solves in double precision
// with each solver's default tolerance.
type Options struct {
	// Precision the matrix is stored in. Single runs the iterative solvers in
	// float32 and rounds the dense solvers' outputs; Half is IPT-only.
	Precision Precision

	// Tol overrides the convergence threshold of IPT and Jacobi.
	Tol float64

	// MaxIter overrides the iteration (IPT) or sweep (Jacobi) budget.
	MaxIter int

	// Recorder receives per-kernel timings from IPT.
	Recorder Recorder
}

// Solve decomposes the square matrix a with the selected solver.
func Solve(kind SolverKind, a mat.Matrix, opts Options) (Decomposition, error) {
	switch kind {
	case SolverIPT:
		return IPT(a, opts)
	case SolverSYEV:
		return EigSym(a, opts.Precision)
	case SolverSYEVJ:
		return Jacobi(a, opts)
	case SolverGEEV:
		return EigGeneral(a, opts.Precision)
	default:
		return Decomposition{}, errors.Wrapf(ErrUnknownSolver, "kind %d", kind)
	}
}

// EigSym computes the decomposition of a symmetric matrix with gonum's
// EigenSym (LAPACK dsyev). Eigenvalues are ascending.
func EigSym(a mat.Matrix, prec Precision) (Decomposition, error) {
	n, err := checkSquare(a)
	if err != nil {
		return Decomposition{}, err
	}

	if err := checkDensePrecision(SolverSYEV, prec); err != nil {
		return Decomposition{}, err
	}

	if !IsSymmetric(a, 0) {
		return Decomposition{}, errors.Wrap(ErrNotSymmetric, "syev")
	}

	sym := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return Decomposition{}, errors.Wrapf(ErrFactorization, "syev n=%d", n)
	}

	var vectors mat.Dense
	es.VectorsTo(&vectors)

	return realDecomposition(es.Values(nil), &vectors, prec, 0), nil
}

// EigGeneral computes eigenvalues and right eigenvectors of a general square
// matrix with gonum's Eigen (LAPACK dgeev). Complex conjugate pairs are kept
// as complex columns.
func EigGeneral(a mat.Matrix, prec Precision) (Decomposition, error) {
	n, err := checkSquare(a)
	if err != nil {
		return Decomposition{}, err
	}

	if err := checkDensePrecision(SolverGEEV, prec); err != nil {
		return Decomposition{}, err
	}

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenRight); !ok {
		return Decomposition{}, errors.Wrapf(ErrFactorization, "geev n=%d", n)
	}

	values := eig.Values(nil)

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	if prec != Double {
		for i, v := range values {
			values[i] = complex(prec.Round(real(v)), prec.Round(imag(v)))
		}

		for i := range n {
			for j := range n {
				v := vectors.At(i, j)
				vectors.Set(i, j, complex(prec.Round(real(v)), prec.Round(imag(v))))
			}
		}
	}

	return Decomposition{Values: values, Vectors: &vectors}, nil
}

// Jacobi computes the decomposition of a symmetric matrix with cyclic Jacobi
// rotations, the stand-in for cuSOLVER syevj. Eigenvalues are ascending.
func Jacobi(a mat.Matrix, opts Options) (Decomposition, error) {
	n, err := checkSquare(a)
	if err != nil {
		return Decomposition{}, err
	}

	if err := checkDensePrecision(SolverSYEVJ, opts.Precision); err != nil {
		return Decomposition{}, err
	}

	jopts := jacobi.Options{Tol: opts.Tol, MaxSweeps: opts.MaxIter}

	if opts.Precision == Single {
		res, err := jacobi.Solve(flatten32(a, n), n, jopts)
		if err != nil {
			return Decomposition{}, errors.Wrap(err, "syevj")
		}

		return fromFlat(res.Values, res.Vectors, n, res.Sweeps), nil
	}

	res, err := jacobi.Solve(flatten64(a, n), n, jopts)
	if err != nil {
		return Decomposition{}, errors.Wrap(err, "syevj")
	}

	return fromFlat(res.Values, res.Vectors, n, res.Sweeps), nil
}

// IPT computes the decomposition with iterative perturbation theory.
// Eigenpairs follow the order of the diagonal of a.
func IPT(a mat.Matrix, opts Options) (Decomposition, error) {
	n, err := checkSquare(a)
	if err != nil {
		return Decomposition{}, err
	}

	iopts := ipt.Options{
		Tol:       opts.Tol,
		MaxIter:   opts.MaxIter,
		Precision: opts.Precision,
		Recorder:  opts.Recorder,
	}

	switch opts.Precision {
	case Single, Half:
		res, err := ipt.Solve(flatten32(a, n), n, iopts)
		if err != nil {
			return Decomposition{}, errors.Wrap(err, "ipt")
		}

		return fromFlat(res.Values, res.Vectors, n, res.Iterations), nil
	case Double:
		res, err := ipt.Solve(flatten64(a, n), n, iopts)
		if err != nil {
			return Decomposition{}, errors.Wrap(err, "ipt")
		}

		return fromFlat(res.Values, res.Vectors, n, res.Iterations), nil
	default:
		return Decomposition{}, errors.Wrapf(ErrUnknownPrecision, "precision %d", opts.Precision)
	}
}

func checkSquare(a mat.Matrix) (int, error) {
	r, c := a.Dims()
	if r != c {
		return 0, errors.Wrapf(ErrNonSquare, "%d×%d", r, c)
	}

	if r < 1 {
		return 0, errors.Wrapf(ErrInvalidSize, "n=%d", r)
	}

	return r, nil
}

func checkDensePrecision(kind SolverKind, prec Precision) error {
	switch prec {
	case Double, Single:
		return nil
	case Half:
		return errors.WithHint(
			errors.Wrapf(ErrUnsupportedPrecision, "%s with %s", kind, prec),
			"only ipt supports half precision; use --solvers ipt or dtype float")
	default:
		return errors.Wrapf(ErrUnknownPrecision, "precision %d", prec)
	}
}

func flatten64(a mat.Matrix, n int) []float64 {
	out := make([]float64, n*n)
	for i := range n {
		for j := range n {
			out[i*n+j] = a.At(i, j)
		}
	}

	return out
}

func flatten32(a mat.Matrix, n int) []float32 {
	out := make([]float32, n*n)
	for i := range n {
		for j := range n {
			out[i*n+j] = float32(a.At(i, j))
		}
	}

	return out
}

// fromFlat converts row-major solver output to a Decomposition.
func fromFlat[T Float](values, vectors []T, n, iterations int) Decomposition {
	vals := make([]complex128, n)
	for i, v := range values {
		vals[i] = complex(float64(v), 0)
	}

	vecs := mat.NewCDense(n, n, nil)
	for i := range n {
		for j := range n {
			vecs.Set(i, j, complex(float64(vectors[i*n+j]), 0))
		}
	}

	return Decomposition{Values: vals, Vectors: vecs, Iterations: iterations}
}
