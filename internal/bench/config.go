// Package bench drives the eigensolver benchmark: it generates the test
// matrices, places them on a device, times every solver and collects the
// residuals into a Report.
package bench

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"

	algoeig "github.com/cwbudde/algo-eig"
	"github.com/cwbudde/algo-eig/gpu"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("algoeig/bench: invalid config")

// Format selects the report layout.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat maps a --format value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTable, FormatJSON:
		return f, nil
	}

	return "", errors.WithHint(
		errors.Wrapf(ErrInvalidConfig, "format %q", s),
		"format must be one of text|table|json")
}

// Config describes one benchmark run.
type Config struct {
	// N is the matrix dimension.
	N int
	// Scale is the perturbation strength l.
	Scale float64
	// Precision of the matrices and the solvers.
	Precision algoeig.Precision
	// Device selects backend and device index, e.g. "cpu" or "cuda:0".
	Device string
	// Seed initializes the matrix generator.
	Seed uint64
	// Solvers restricts the run. Empty selects every solver supporting
	// Precision.
	Solvers []algoeig.SolverKind
	// Repeat is the number of timed calls per solver.
	Repeat int
	// Warmup is the number of untimed syevj calls on the leading block.
	Warmup int
	// Profile enables the IPT per-kernel table.
	Profile bool
	// Format selects the report layout.
	Format Format
}

// DefaultConfig returns the settings of a plain "eigbench n l dtype device"
// invocation, minus the positional values.
func DefaultConfig() Config {
	return Config{
		Precision: algoeig.Double,
		Device:    "cpu",
		Seed:      1,
		Repeat:    1,
		Warmup:    1,
		Profile:   true,
		Format:    FormatText,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.N < 1 {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "n=%d", c.N),
			"n must be a positive integer")
	}

	if math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) {
		return errors.Wrapf(ErrInvalidConfig, "l=%v", c.Scale)
	}

	if !c.Precision.Valid() {
		return errors.Wrapf(ErrInvalidConfig, "precision %d", c.Precision)
	}

	if _, err := gpu.ParseDevice(c.Device); err != nil {
		return errors.Wrap(err, "device")
	}

	if c.Repeat < 1 {
		return errors.Wrapf(ErrInvalidConfig, "repeat=%d", c.Repeat)
	}

	if c.Warmup < 0 {
		return errors.Wrapf(ErrInvalidConfig, "warmup=%d", c.Warmup)
	}

	if _, err := ParseFormat(string(c.Format)); err != nil {
		return err
	}

	for _, k := range c.Solvers {
		if !k.Valid() {
			return errors.Wrapf(ErrInvalidConfig, "solver %d", k)
		}

		if c.Precision == algoeig.Half && k != algoeig.SolverIPT {
			return errors.WithHint(
				errors.Wrapf(algoeig.ErrUnsupportedPrecision, "%s with %s", k, c.Precision),
				"only ipt supports half precision; use --solvers ipt or dtype float")
		}
	}

	return nil
}

// SolverSet returns the solvers to run, in benchmark order.
func (c Config) SolverSet() []algoeig.SolverKind {
	if len(c.Solvers) == 0 {
		if c.Precision == algoeig.Half {
			return []algoeig.SolverKind{algoeig.SolverIPT}
		}

		return algoeig.AllSolvers()
	}

	var out []algoeig.SolverKind
	for _, k := range algoeig.AllSolvers() {
		for _, want := range c.Solvers {
			if k == want {
				out = append(out, k)
				break
			}
		}
	}

	return out
}

// Enabled reports whether k is part of the run.
func (c Config) Enabled(k algoeig.SolverKind) bool {
	for _, s := range c.SolverSet() {
		if s == k {
			return true
		}
	}

	return false
}

// ParseSolvers maps solver names to kinds. "all" selects every solver.
func ParseSolvers(names []string) ([]algoeig.SolverKind, error) {
	var out []algoeig.SolverKind

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if strings.EqualFold(name, "all") {
			return nil, nil
		}

		k, err := algoeig.ParseSolverKind(name)
		if err != nil {
			return nil, err
		}

		out = append(out, k)
	}

	return out, nil
}
