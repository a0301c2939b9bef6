package algoeig

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Decomposition is an eigen-decomposition A·V ≈ V·D with D = diag(Values).
// Real solvers leave all imaginary parts at zero.
type Decomposition struct {
	// Values are the eigenvalues; Values[j] pairs with column j of Vectors.
	Values []complex128

	// Vectors holds the right eigenvectors as columns.
	Vectors *mat.CDense

	// Iterations is the number of iterations (IPT) or sweeps (Jacobi)
	// taken. Zero for the direct solvers.
	Iterations int
}

// Len returns the number of eigenpairs.
func (d Decomposition) Len() int { return len(d.Values) }

// IsReal reports whether every eigenvalue and eigenvector entry has a zero
// imaginary part.
func (d Decomposition) IsReal() bool {
	for _, v := range d.Values {
		if imag(v) != 0 {
			return false
		}
	}

	if d.Vectors == nil {
		return true
	}

	r, c := d.Vectors.Dims()
	for i := range r {
		for j := range c {
			if imag(d.Vectors.At(i, j)) != 0 {
				return false
			}
		}
	}

	return true
}

// RealValues returns the real parts of the eigenvalues.
func (d Decomposition) RealValues() []float64 {
	out := make([]float64, len(d.Values))
	for i, v := range d.Values {
		out[i] = real(v)
	}

	return out
}

// SortedRealValues returns the real parts of the eigenvalues in ascending order.
func (d Decomposition) SortedRealValues() []float64 {
	out := d.RealValues()
	sort.Float64s(out)

	return out
}

// RealVectors returns the real parts of the eigenvectors.
func (d Decomposition) RealVectors() *mat.Dense {
	r, c := d.Vectors.Dims()

	out := mat.NewDense(r, c, nil)
	for i := range r {
		for j := range c {
			out.Set(i, j, real(d.Vectors.At(i, j)))
		}
	}

	return out
}

// Diag returns D = diag(Values) as a dense complex matrix.
func (d Decomposition) Diag() *mat.CDense {
	n := len(d.Values)

	out := mat.NewCDense(n, n, nil)
	for i, v := range d.Values {
		out.Set(i, i, v)
	}

	return out
}

// realDecomposition wraps real eigenpairs, rounding them to prec.
func realDecomposition(values []float64, vectors mat.Matrix, prec Precision, iterations int) Decomposition {
	n := len(values)

	vals := make([]complex128, n)
	for i, v := range values {
		vals[i] = complex(prec.Round(v), 0)
	}

	vecs := mat.NewCDense(n, n, nil)
	for i := range n {
		for j := range n {
			vecs.Set(i, j, complex(prec.Round(vectors.At(i, j)), 0))
		}
	}

	return Decomposition{Values: vals, Vectors: vecs, Iterations: iterations}
}

// Residual returns ‖A·V − V·D‖_F / ‖A‖_F. For A = 0 it returns the
// unnormalized ‖A·V − V·D‖_F.
func Residual(a mat.Matrix, d Decomposition) (float64, error) {
	r, c := a.Dims()
	if r != c {
		return 0, errors.Wrapf(ErrNonSquare, "residual of %d×%d", r, c)
	}

	if d.Vectors == nil {
		return 0, errors.Wrap(ErrDimensionMismatch, "residual: no eigenvectors")
	}

	vr, vc := d.Vectors.Dims()
	if vr != r || vc != r || len(d.Values) != r {
		return 0, errors.Wrapf(ErrDimensionMismatch,
			"residual: A is %d×%d, V is %d×%d with %d values", r, c, vr, vc, len(d.Values))
	}

	var num float64
	if d.IsReal() {
		num = realResidual(a, d)
	} else {
		num = complexResidual(a, d)
	}

	den := mat.Norm(a, 2)
	if den == 0 {
		return num, nil
	}

	return num / den, nil
}

// realResidual computes ‖A·V − V·D‖_F with gonum BLAS.
func realResidual(a mat.Matrix, d Decomposition) float64 {
	v := d.RealVectors()

	var av mat.Dense
	av.Mul(a, v)

	vd := mat.DenseCopyOf(v)
	n := len(d.Values)
	for j := range n {
		lambda := real(d.Values[j])
		for i := range n {
			vd.Set(i, j, vd.At(i, j)*lambda)
		}
	}

	av.Sub(&av, vd)

	return mat.Norm(&av, 2)
}

// complexResidual computes ‖A·V − V·D‖_F for complex eigenpairs.
func complexResidual(a mat.Matrix, d Decomposition) float64 {
	n := len(d.Values)

	var sum float64
	for i := range n {
		for j := range n {
			var av complex128
			for k := range n {
				av += complex(a.At(i, k), 0) * d.Vectors.At(k, j)
			}

			diff := cmplx.Abs(av - d.Vectors.At(i, j)*d.Values[j])
			sum += diff * diff
		}
	}

	return math.Sqrt(sum)
}
