package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/x448/float16"
	"gonum.org/v1/gonum/mat"
)

// UploadMatrix allocates a buffer on ctx and copies the square matrix a
// into it in row-major order. Entries are converted to precision.
func UploadMatrix(ctx Context, a mat.Matrix, precision PrecisionKind) (Buffer, error) {
	r, c := a.Dims()
	if r != c || r < 1 {
		return nil, errors.Wrapf(ErrInvalidLength, "matrix is %d×%d", r, c)
	}

	return UploadBlock(ctx, a, r, precision)
}

// UploadBlock copies the leading n×n block of a into a new buffer.
func UploadBlock(ctx Context, a mat.Matrix, n int, precision PrecisionKind) (Buffer, error) {
	r, c := a.Dims()
	if n < 1 || n > r || n > c {
		return nil, errors.Wrapf(ErrInvalidLength, "block %d of %d×%d matrix", n, r, c)
	}

	buf, err := ctx.NewBuffer(n*n, precision)
	if err != nil {
		return nil, err
	}

	if err := buf.Upload(hostSlice(a, n, precision)); err != nil {
		_ = buf.Close()
		return nil, err
	}

	return buf, nil
}

// DownloadMatrix copies an n×n row-major buffer back to the host.
func DownloadMatrix(buf Buffer, n int) (*mat.Dense, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}

	if n < 1 || buf.Len() < n*n {
		return nil, errors.Wrapf(ErrLengthMismatch, "buffer holds %d elements, need %d", buf.Len(), n*n)
	}

	out := make([]float64, n*n)

	switch buf.Precision() {
	case PrecisionDouble:
		if err := buf.Download(out); err != nil {
			return nil, err
		}
	case PrecisionSingle:
		host := make([]float32, n*n)
		if err := buf.Download(host); err != nil {
			return nil, err
		}

		for i, v := range host {
			out[i] = float64(v)
		}
	case PrecisionHalf:
		host := make([]float16.Float16, n*n)
		if err := buf.Download(host); err != nil {
			return nil, err
		}

		for i, v := range host {
			out[i] = float64(v.Float32())
		}
	default:
		return nil, errors.Wrapf(ErrNotImplemented, "precision %s", buf.Precision())
	}

	return mat.NewDense(n, n, out), nil
}

// hostSlice returns the leading n×n block of a as a row-major slice of the
// element type for precision.
func hostSlice(a mat.Matrix, n int, precision PrecisionKind) any {
	switch precision {
	case PrecisionSingle:
		out := make([]float32, n*n)
		for i := range n {
			for j := range n {
				out[i*n+j] = float32(a.At(i, j))
			}
		}

		return out
	case PrecisionHalf:
		out := make([]float16.Float16, n*n)
		for i := range n {
			for j := range n {
				out[i*n+j] = float16.Fromfloat32(float32(a.At(i, j)))
			}
		}

		return out
	default:
		out := make([]float64, n*n)
		for i := range n {
			for j := range n {
				out[i*n+j] = a.At(i, j)
			}
		}

		return out
	}
}
