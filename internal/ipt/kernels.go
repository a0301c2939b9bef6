package ipt

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/cwbudde/algo-eig/internal/eigtypes"
)

// gemm computes c = a*b for row-major n×n operands.
// Dispatch happens on the element type; both paths go through gonum BLAS.
func gemm[T eigtypes.Float](n int, a, b, c []T) {
	var zero T
	switch any(zero).(type) {
	case float64:
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
			general64(n, any(a).([]float64)),
			general64(n, any(b).([]float64)),
			0, general64(n, any(c).([]float64)))
	case float32:
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
			general32(n, any(a).([]float32)),
			general32(n, any(b).([]float32)),
			0, general32(n, any(c).([]float32)))
	}
}

// nrm2 returns the Euclidean norm of column j of a row-major n×n matrix.
func nrm2[T eigtypes.Float](n int, a []T, j int) float64 {
	var zero T
	switch any(zero).(type) {
	case float64:
		return blas64.Nrm2(blas64.Vector{N: n, Inc: n, Data: any(a).([]float64)[j:]})
	case float32:
		return float64(blas32.Nrm2(blas32.Vector{N: n, Inc: n, Data: any(a).([]float32)[j:]}))
	}
	return 0
}

func general64(n int, data []float64) blas64.General {
	return blas64.General{Rows: n, Cols: n, Stride: n, Data: data}
}

func general32(n int, data []float32) blas32.General {
	return blas32.General{Rows: n, Cols: n, Stride: n, Data: data}
}
