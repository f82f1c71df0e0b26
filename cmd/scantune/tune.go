package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/go-cmp/cmp"

	"prefixscan/internal/config"
	"prefixscan/pkg/gen"
	"prefixscan/pkg/kernel"
	"prefixscan/pkg/scan"
)

var errMismatch = errors.New("result differs from the sequential baseline")

// algorithm runs one scan over the workload and fails with errMismatch when
// the result differs from the sequential one.
type algorithm struct {
	blocked bool
	run     func(s *scan.Scanner, w *workload) error
}

type workload struct {
	input     []uint64
	inclusive []uint64
	exclusive []uint64
	segments  scan.Segments[uint64]
	segmented []uint64
}

var algorithms = map[string]algorithm{
	"tree": {run: func(s *scan.Scanner, w *workload) error {
		got, err := s.ScanTree(slices.Clone(w.input))
		if err != nil {
			return err
		}
		return verify(w.exclusive, got)
	}},
	"doubling": {run: func(s *scan.Scanner, w *workload) error {
		got, err := s.ScanDoubling(slices.Clone(w.input))
		if err != nil {
			return err
		}
		return verify(w.inclusive, got)
	}},
	"blocked-post": {blocked: true, run: func(s *scan.Scanner, w *workload) error {
		got, err := s.ScanBlockedPost(slices.Clone(w.input))
		if err != nil {
			return err
		}
		return verify(w.inclusive, got)
	}},
	"blocked-pre": {blocked: true, run: func(s *scan.Scanner, w *workload) error {
		got, err := s.ScanBlockedPre(slices.Clone(w.input))
		if err != nil {
			return err
		}
		return verify(w.inclusive, got)
	}},
	"segmented": {run: func(s *scan.Scanner, w *workload) error {
		sg := scan.Segments[uint64]{Data: slices.Clone(w.segments.Data), Heads: w.segments.Heads}
		got, err := s.ScanSegmented(sg)
		if err != nil {
			return err
		}
		return verify(w.segmented, got.Data)
	}},
	"reduce": {run: func(s *scan.Scanner, w *workload) error {
		got, err := s.ParallelReduce(w.input)
		if err != nil {
			return err
		}
		var want uint64
		if n := len(w.inclusive); n > 0 {
			want = w.inclusive[n-1]
		}
		if got != want {
			return fmt.Errorf("%w: sum %d, want %d", errMismatch, got, want)
		}
		return nil
	}},
}

func allAlgorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func verify(want, got []uint64) error {
	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Errorf("%w (-want +got):\n%s", errMismatch, diff)
	}
	return nil
}

type tuner struct {
	s      *scan.Scanner
	logger *slog.Logger
	opts   options
}

func newTuner(s *scan.Scanner, logger *slog.Logger, opts options) *tuner {
	return &tuner{s: s, logger: logger, opts: opts}
}

func (t *tuner) workload() *workload {
	seed := []byte(t.opts.seed)
	w := &workload{input: gen.Uint64s(seed, t.opts.size, 0)}
	w.inclusive = scan.SequentialSum(slices.Clone(w.input))
	w.exclusive = scan.SequentialExclusive(slices.Clone(w.input), kernel.Sum[uint64]())

	// Segments of up to 1024 elements covering roughly the same size.
	count := max(t.opts.size/512, 1)
	w.segments = scan.Flatten(gen.Sequences(seed, count, 1024, 0))
	want, _ := scan.SequentialSegmented(
		scan.Segments[uint64]{Data: slices.Clone(w.segments.Data), Heads: w.segments.Heads},
		kernel.Sum[uint64](),
	)
	w.segmented = want.Data
	return w
}

// measure returns the fastest of the configured rounds.
func (t *tuner) measure(a algorithm, w *workload) (time.Duration, error) {
	best := time.Duration(-1)
	for range t.opts.rounds {
		start := time.Now()
		if err := a.run(t.s, w); err != nil {
			return 0, err
		}
		if d := time.Since(start); best < 0 || d < best {
			best = d
		}
	}
	return best, nil
}

// run measures every selected algorithm and returns the profile of the
// fastest blocked configuration.
func (t *tuner) run() (config.Profile, error) {
	w := t.workload()
	base := t.s.Config()
	t.logger.Info("scantune: start",
		"elements", len(w.input),
		"threads", t.s.Threads(),
		"sequential_length", base.SequentialLength,
		"rounds", t.opts.rounds,
	)

	best := base
	bestTime := time.Duration(-1)

	for _, name := range t.opts.algorithms {
		a := algorithms[name]
		if !a.blocked {
			d, err := t.measure(a, w)
			if err != nil {
				return config.Profile{}, fmt.Errorf("%s: %w", name, err)
			}
			t.logger.Info("scantune: run", "algorithm", name, "elapsed", d)
			continue
		}

		for _, chunk := range t.opts.cacheChunks {
			t.s.SetCacheChunkLength(chunk)
			d, err := t.measure(a, w)
			if err != nil {
				return config.Profile{}, fmt.Errorf("%s cache_chunk_length %d: %w", name, chunk, err)
			}
			t.logger.Info("scantune: run", "algorithm", name, "cache_chunk_length", chunk, "elapsed", d)
			if bestTime < 0 || d < bestTime {
				best = t.s.Config()
				bestTime = d
			}
		}
		t.s.SetCacheChunkLength(base.CacheChunkLength)
	}

	if bestTime >= 0 {
		t.logger.Info("scantune: fastest blocked configuration",
			"cache_chunk_length", best.CacheChunkLength,
			"elapsed", bestTime,
		)
	}
	return config.FromConfig(best), nil
}
