// Package algoeig benchmarks eigen-decomposition methods on dense matrices.
//
// It provides the matrix generator used by the benchmark (a diagonal of known
// eigenvalues plus a Gaussian perturbation), four interchangeable solvers
// selected by SolverKind, and the normalized residual ‖A·V − V·D‖/‖A‖ used to
// compare them:
//
//   - SolverIPT: iterative perturbation theory, in double, single or half
//     precision.
//   - SolverSYEV: gonum's EigenSym (LAPACK dsyev).
//   - SolverSYEVJ: cyclic Jacobi rotations, the counterpart of cuSOLVER syevj.
//   - SolverGEEV: gonum's Eigen (LAPACK dgeev) for non-symmetric input.
//
// Device placement lives in package gpu; the timing driver behind the
// eigbench command lives in internal/bench.
package algoeig
