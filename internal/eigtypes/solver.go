package eigtypes

// SolverKind selects an eigen-decomposition backend.
type SolverKind uint8

const (
	SolverIPT   SolverKind = iota // Iterative perturbation theory
	SolverSYEV                    // Dense symmetric (LAPACK dsyev)
	SolverSYEVJ                   // Jacobi symmetric (cuSOLVER syevj stand-in)
	SolverGEEV                    // Dense general (LAPACK dgeev)
)

// String returns the short name used on the command line.
func (k SolverKind) String() string {
	switch k {
	case SolverIPT:
		return "ipt"
	case SolverSYEV:
		return "syev"
	case SolverSYEVJ:
		return "syevj"
	case SolverGEEV:
		return "geev"
	default:
		return "unknown"
	}
}

// Label returns the heading printed by the benchmark driver.
func (k SolverKind) Label() string {
	switch k {
	case SolverIPT:
		return "IPT"
	case SolverSYEV:
		return "SYEV (via gonum)"
	case SolverSYEVJ:
		return "syevj (via jacobi)"
	case SolverGEEV:
		return "GEEV (via gonum)"
	default:
		return "unknown"
	}
}

// SymmetricOnly reports whether the solver rejects non-symmetric input.
func (k SolverKind) SymmetricOnly() bool {
	return k == SolverSYEV || k == SolverSYEVJ
}

// Iterative reports whether the solver runs a convergence loop.
func (k SolverKind) Iterative() bool {
	return k == SolverIPT || k == SolverSYEVJ
}

// AllSolvers lists every solver in benchmark order.
func AllSolvers() []SolverKind {
	return []SolverKind{SolverIPT, SolverSYEV, SolverSYEVJ, SolverGEEV}
}

// Valid reports whether k names a known solver.
func (k SolverKind) Valid() bool {
	return k <= SolverGEEV
}
