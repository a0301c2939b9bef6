// Command eigbench times eigen-decomposition methods on random symmetric and
// non-symmetric matrices and reports residuals and wall-clock times.
//
//	eigbench <n> <l> <dtype> <device> [flags]
//	eigbench sweep --sizes 32,64,128 --scale 0.01 --dtype float --device cpu
//	eigbench devices
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	algoeig "github.com/cwbudde/algo-eig"
	"github.com/cwbudde/algo-eig/gpu"
	"github.com/cwbudde/algo-eig/internal/bench"
)

func main() {
	cmd := makeEigbenchCommand()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds the flags shared by the run and sweep commands.
type options struct {
	seed    uint64
	solvers []string
	repeat  int
	warmup  int
	profile bool
	format  string
	verbose bool
}

func defaultOptions() options {
	def := bench.DefaultConfig()

	return options{
		seed:    def.Seed,
		repeat:  def.Repeat,
		warmup:  def.Warmup,
		profile: def.Profile,
		format:  string(def.Format),
	}
}

func addRunFlags(fs *pflag.FlagSet, o *options) {
	fs.Uint64Var(&o.seed, "seed", o.seed, "matrix generator seed")
	fs.StringSliceVar(&o.solvers, "solvers", o.solvers, "solvers to run (ipt,syev,syevj,geev or all)")
	fs.IntVar(&o.repeat, "repeat", o.repeat, "timed calls per solver")
	fs.IntVar(&o.warmup, "warmup", o.warmup, "untimed syevj calls on the leading 10×10 block")
	fs.BoolVarP(&o.verbose, "verbose", "v", o.verbose, "log device selection and solver progress to stderr")
}

func makeEigbenchCommand() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "eigbench <n> <l> <dtype> <device>",
		Short: "Benchmark eigensolvers on random dense matrices",
		Long: `eigbench builds R = diag(0..n-1) + l·G and S = diag(0..n-1) + l·(G+Gᵀ)
with G standard normal, then decomposes S with ipt, syev and syevj and R with
ipt and geev, printing the residual ‖A·V − V·D‖/‖A‖ and the time of each call.

dtype is one of double|float|half; device is a backend name with an optional
index, e.g. cpu, mock:0 or cuda:0.`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseRunArgs(args, opts)
			if err != nil {
				return err
			}

			return run(cmd.OutOrStdout(), cfg, opts.verbose)
		},
	}

	addRunFlags(cmd.Flags(), &opts)
	cmd.Flags().BoolVar(&opts.profile, "profile", opts.profile, "print the top IPT kernels")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "report format: text|table|json")

	cmd.AddCommand(makeSweepCommand())
	cmd.AddCommand(makeDevicesCommand())

	return cmd
}

func makeSweepCommand() *cobra.Command {
	opts := defaultOptions()
	sizes := []int{32, 64, 128}
	scale := 0.01
	dtype := algoeig.Double.String()
	device := "cpu"

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Time every solver over a list of sizes and plot mean time against n",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(0, scale, dtype, device, opts)
			if err != nil {
				return err
			}

			log, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			res, err := bench.RunSweep(cfg, sizes, log)
			if err != nil {
				return err
			}

			return bench.WriteSweep(cmd.OutOrStdout(), res)
		},
	}

	fs := cmd.Flags()
	addRunFlags(fs, &opts)
	fs.IntSliceVar(&sizes, "sizes", sizes, "matrix sizes")
	fs.Float64Var(&scale, "scale", scale, "perturbation strength l")
	fs.StringVar(&dtype, "dtype", dtype, "double|float|half")
	fs.StringVar(&device, "device", device, "device, e.g. cpu or cuda:0")

	return cmd
}

func makeDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List registered backends and their devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listDevices(cmd.OutOrStdout())
		},
	}
}

func listDevices(w io.Writer) error {
	for _, b := range gpu.Backends() {
		fmt.Fprintf(w, "%s %s: %s\n", b.Name, b.Version, b.Description)

		devices, err := gpu.Devices(b.Name)
		if errors.Is(err, gpu.ErrBackendUnavailable) {
			fmt.Fprintln(w, "  (unavailable)")
			continue
		}

		if err != nil {
			return err
		}

		for _, d := range devices {
			fmt.Fprintf(w, "  %s:%d  %s  %s  %s\n", b.Name, d.Index, d.Name, d.ComputeCap, humanize.IBytes(d.MemoryBytes))
		}
	}

	return nil
}

// parseRunArgs turns the four positional arguments into a Config.
func parseRunArgs(args []string, opts options) (bench.Config, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return bench.Config{}, errors.WithHint(
			errors.Wrapf(bench.ErrInvalidConfig, "n %q", args[0]),
			"n must be a positive integer, e.g. 1000")
	}

	l, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return bench.Config{}, errors.WithHint(
			errors.Wrapf(bench.ErrInvalidConfig, "l %q", args[1]),
			"l must be a number, e.g. 0.01")
	}

	return buildConfig(n, l, args[2], args[3], opts)
}

func buildConfig(n int, l float64, dtype, device string, opts options) (bench.Config, error) {
	prec, err := algoeig.ParsePrecision(dtype)
	if err != nil {
		return bench.Config{}, err
	}

	solvers, err := bench.ParseSolvers(opts.solvers)
	if err != nil {
		return bench.Config{}, err
	}

	format, err := bench.ParseFormat(opts.format)
	if err != nil {
		return bench.Config{}, err
	}

	cfg := bench.DefaultConfig()
	cfg.N = n
	cfg.Scale = l
	cfg.Precision = prec
	cfg.Device = device
	cfg.Seed = opts.seed
	cfg.Solvers = solvers
	cfg.Repeat = opts.repeat
	cfg.Warmup = opts.warmup
	cfg.Profile = opts.profile
	cfg.Format = format

	return cfg, nil
}

func run(w io.Writer, cfg bench.Config, verbose bool) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	r, err := bench.NewRunner(cfg, log)
	if err != nil {
		return err
	}

	rep, err := r.Run()
	if err != nil {
		return err
	}

	return bench.Write(w, rep, cfg.Format)
}

// newLogger returns a development logger at debug level when verbose is
// set, and a production logger at warn level otherwise. Both write to
// stderr so reports on stdout stay machine-readable.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	cfg.OutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	return log, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "eigbench: %v\n", err)

	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
}
