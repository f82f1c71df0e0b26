// Command scantune measures every scan algorithm on generated data, checks
// each result against the sequential baseline, and writes the fastest
// blocked-scan configuration as a profile.
//
//	scantune --size 4194304 --threads 8 --rounds 5 --out profile.json
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"prefixscan/internal/config"
	"prefixscan/pkg/scan"
)

const (
	defaultSize      = 1 << 22
	defaultRounds    = 3
	cacheSweepStep   = 25000
	cacheSweepLength = 12
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	size        int
	threads     int
	algorithms  []string
	cacheChunks []int
	sequential  int
	rounds      int
	seed        string
	profile     string
	out         string
	verbose     bool
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "scantune: %v\n\n", err)
		fs.PrintDefaults()
		return 2
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: level}))

	scanOpts, err := scannerOptions(opts, fs)
	if err != nil {
		logger.Error("scantune: load profile", "path", opts.profile, "error", err)
		return 1
	}
	if opts.verbose {
		scanOpts = append(scanOpts, scan.WithHooks(scan.SlogHooks(logger)))
	}

	s := scan.New(scanOpts...)
	defer s.Close()

	t := newTuner(s, logger, opts)
	best, err := t.run()
	if err != nil {
		logger.Error("scantune: failed", "error", err)
		return 1
	}

	if opts.out != "" {
		if err := config.Save(opts.out, best); err != nil {
			logger.Error("scantune: save profile", "path", opts.out, "error", err)
			return 1
		}
		logger.Info("scantune: profile written", "path", opts.out, "cache_chunk_length", best.CacheChunkLength)
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("scantune", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&opts.size, "size", defaultSize, "Elements per scan")
	fs.IntVar(&opts.threads, "threads", 0, "Worker count (0 = number of CPUs)")
	fs.StringSliceVar(&opts.algorithms, "algo", allAlgorithms(), "Algorithms to run")
	fs.IntSliceVar(&opts.cacheChunks, "cache-chunks", nil, "Cache chunk lengths to try (default sweeps 25000 to 300000)")
	fs.IntVar(&opts.sequential, "sequential", 0, "Sequential fallback threshold")
	fs.IntVar(&opts.rounds, "rounds", defaultRounds, "Timed runs per configuration; the fastest counts")
	fs.StringVar(&opts.seed, "seed", "scantune", "Seed for generated input")
	fs.StringVar(&opts.profile, "profile", "", "Profile to start from")
	fs.StringVarP(&opts.out, "out", "o", "", "Write the fastest configuration to this profile")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every scan phase")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if fs.NArg() > 0 {
		return opts, fs, fmt.Errorf("%w: unexpected arguments %s", errUsage, strings.Join(fs.Args(), " "))
	}
	if opts.size < 0 {
		return opts, fs, fmt.Errorf("%w: --size must not be negative", errUsage)
	}
	if opts.rounds < 1 {
		return opts, fs, fmt.Errorf("%w: --rounds must be at least 1", errUsage)
	}
	for _, name := range opts.algorithms {
		if _, ok := algorithms[name]; !ok {
			return opts, fs, fmt.Errorf("%w: unknown algorithm %q", errUsage, name)
		}
	}
	if len(opts.cacheChunks) == 0 {
		for i := 1; i <= cacheSweepLength; i++ {
			opts.cacheChunks = append(opts.cacheChunks, i*cacheSweepStep)
		}
	}
	return opts, fs, nil
}

// scannerOptions layers flags the user set over the profile.
func scannerOptions(opts options, fs *flag.FlagSet) ([]scan.Option, error) {
	var out []scan.Option
	if opts.profile != "" {
		p, err := config.Load(opts.profile)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Options()...)
	}
	if fs.Changed("threads") {
		out = append(out, scan.WithThreads(opts.threads))
	}
	if fs.Changed("sequential") {
		out = append(out, scan.WithSequentialLength(opts.sequential))
	}
	return out, nil
}
