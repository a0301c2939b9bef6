package bench

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	algoeig "github.com/cwbudde/algo-eig"
	"github.com/cwbudde/algo-eig/gpu"
	"github.com/cwbudde/algo-eig/internal/profile"
)

// Section titles, as printed by the text report.
const (
	SectionSymmetric = "SYMMETRIC MATRIX"
	SectionGeneral   = "NON-SYMMETRIC MATRIX"
)

const (
	// warmupBlock bounds the leading block used for the syevj warm-up.
	warmupBlock = 10
	// profileRows is the number of kernels kept in the IPT profile.
	profileRows = 3
)

var (
	symmetricOrder = []algoeig.SolverKind{algoeig.SolverIPT, algoeig.SolverSYEV, algoeig.SolverSYEVJ}
	generalOrder   = []algoeig.SolverKind{algoeig.SolverIPT, algoeig.SolverGEEV}
)

// Runner executes one benchmark configuration.
type Runner struct {
	cfg Config
	log *zap.Logger
}

// NewRunner validates cfg. A nil logger disables logging.
func NewRunner(cfg Config, log *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{cfg: cfg, log: log}, nil
}

// Run opens the device, generates the matrix pair and times every enabled
// solver. The first solver error aborts the run.
func (r *Runner) Run() (*Report, error) {
	cfg := r.cfg

	ctx, err := gpu.Open(cfg.Device)
	if err != nil {
		return nil, errors.Wrapf(err, "open device %q", cfg.Device)
	}
	defer func() { _ = ctx.Close() }()

	dev := ctx.Device()
	r.log.Info("device opened",
		zap.String("device", cfg.Device),
		zap.String("name", dev.Name),
		zap.String("driver", dev.Driver),
		zap.String("compute", dev.ComputeCap))

	sym, general, err := algoeig.NewPair(rand.New(rand.NewSource(cfg.Seed)), cfg.N, cfg.Scale, cfg.Precision)
	if err != nil {
		return nil, errors.Wrap(err, "generate matrices")
	}

	rep := &Report{
		N:           cfg.N,
		Scale:       cfg.Scale,
		Precision:   cfg.Precision.String(),
		Seed:        cfg.Seed,
		Repeat:      cfg.Repeat,
		Device:      dev,
		BufferBytes: uint64(cfg.N) * uint64(cfg.N) * uint64(cfg.Precision.Size()),
	}

	sections := []struct {
		title string
		a     *mat.Dense
		order []algoeig.SolverKind
	}{
		{SectionSymmetric, sym, symmetricOrder},
		{SectionGeneral, general, generalOrder},
	}

	for _, s := range sections {
		sec, err := r.runSection(ctx, s.title, s.a, s.order)
		if err != nil {
			return nil, err
		}

		if len(sec.Results) > 0 {
			rep.Sections = append(rep.Sections, sec)
		}
	}

	return rep, nil
}

func (r *Runner) runSection(ctx gpu.Context, title string, a *mat.Dense, order []algoeig.SolverKind) (Section, error) {
	sec := Section{Title: title}

	var kinds []algoeig.SolverKind
	for _, k := range order {
		if r.cfg.Enabled(k) {
			kinds = append(kinds, k)
		}
	}

	if len(kinds) == 0 {
		return sec, nil
	}

	buf, err := gpu.UploadMatrix(ctx, a, r.cfg.Precision)
	if err != nil {
		return sec, errors.Wrapf(err, "%s: upload", title)
	}
	defer func() { _ = buf.Close() }()

	for _, k := range kinds {
		res, err := r.runSolver(ctx, k, a, buf)
		if err != nil {
			return sec, errors.Wrapf(err, "%s: %s", title, k)
		}

		sec.Results = append(sec.Results, res)
	}

	return sec, nil
}

func (r *Runner) runSolver(ctx gpu.Context, kind algoeig.SolverKind, a *mat.Dense, buf gpu.Buffer) (Result, error) {
	cfg := r.cfg
	log := r.log.With(zap.Stringer("solver", kind))

	var (
		prof *profile.Profiler
		rec  algoeig.Recorder
	)

	if cfg.Profile && kind == algoeig.SolverIPT {
		prof = profile.New()
		rec = prof
	}

	s, err := gpu.NewSolver(ctx, kind, cfg.Precision, gpu.SolverOptions{Recorder: rec})
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = s.Close() }()

	if kind == algoeig.SolverSYEVJ && cfg.Warmup > 0 {
		if err := r.warmup(ctx, s, a); err != nil {
			return Result{}, err
		}
	}

	var (
		d     algoeig.Decomposition
		times = make([]time.Duration, 0, cfg.Repeat)
	)

	for range cfg.Repeat {
		if err := s.Synchronize(); err != nil {
			return Result{}, errors.Wrap(err, "synchronize")
		}

		start := time.Now()

		d, err = s.Solve(buf, cfg.N)
		if err != nil {
			return Result{}, err
		}

		if err := s.Synchronize(); err != nil {
			return Result{}, errors.Wrap(err, "synchronize")
		}

		times = append(times, time.Since(start))
	}

	res, err := algoeig.Residual(a, d)
	if err != nil {
		return Result{}, errors.Wrap(err, "residual")
	}

	summary, err := Summarize(times)
	if err != nil {
		return Result{}, err
	}

	out := Result{
		Solver:     kind.String(),
		Label:      kind.Label(),
		Residual:   res,
		Iterations: d.Iterations,
		Real:       d.IsReal(),
		Times:      times,
		Timing:     summary,
	}

	if prof != nil {
		out.Profile = prof.Top(profileRows)
		out.ProfileTotal = prof.Total()
	}

	log.Debug("solver finished",
		zap.Int("iterations", d.Iterations),
		zap.Float64("residual", res),
		zap.Duration("mean", summary.Mean))

	return out, nil
}

// warmup runs the untimed syevj calls on the leading block of a.
func (r *Runner) warmup(ctx gpu.Context, s *gpu.Solver, a *mat.Dense) error {
	m := min(warmupBlock, r.cfg.N)

	block, err := gpu.UploadBlock(ctx, a, m, r.cfg.Precision)
	if err != nil {
		return errors.Wrap(err, "warm-up upload")
	}
	defer func() { _ = block.Close() }()

	r.log.Debug("warm-up", zap.Stringer("solver", s.Kind()), zap.Int("block", m), zap.Int("calls", r.cfg.Warmup))

	for range r.cfg.Warmup {
		if _, err := s.Solve(block, m); err != nil {
			return errors.Wrap(err, "warm-up")
		}
	}

	return nil
}
