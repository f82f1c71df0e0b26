// Package scan computes parallel prefix scans over large sequences.
//
// A Scanner owns a fixed worker pool and the tuning knobs that decide how
// work is split. Four strategies are offered so the fastest can be picked for
// a given size, thread count and cache geometry:
//
//   - Tree: work-efficient up-sweep/down-sweep, exclusive result.
//   - Doubling: step-doubling over two buffers, inclusive result.
//   - BlockedPost and BlockedPre: cache-blocked two-phase scans that differ
//     only in where the carries are applied, inclusive result.
//
// Segmented scans many independent sequences as one batch and Reduce folds a
// sequence without producing a scan. Every algorithm is generic over an
// associative kernel.Op; the Scan* methods fix the operator to uint64 sum and
// use the unrolled kernels when vectorization is enabled.
//
// Scans consume their input: the returned slice may alias it and, on error,
// its contents are undefined.
package scan

import (
	"runtime"
	"time"

	"prefixscan/pkg/kernel"
	"prefixscan/pkg/pool"
)

// DefaultCacheChunkLength is the cache block length, in elements, used by the blocked scans.
const DefaultCacheChunkLength = 262144

// Config is the tuning state of a Scanner.
type Config struct {
	// Threads is the total worker count, including the inline worker.
	Threads int
	// SequentialLength is the operation count below which a phase runs on one worker.
	SequentialLength int
	// CacheChunkLength is the blocked-scan block length; <= 0 scans the input as one block.
	CacheChunkLength int
	// Vectorize selects the unrolled sum kernels for the Scan* methods.
	Vectorize bool
	// GatherTimeout bounds each phase, from dispatch to the last result; zero waits forever.
	GatherTimeout time.Duration
}

// Scanner runs prefix scans on a fixed worker pool. It must not be used
// from several goroutines at once.
type Scanner struct {
	cfg   Config
	pool  *pool.Pool
	hooks Hooks
	// stalled is the timeout that left tasks running on the pool.
	stalled error
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithThreads sets the worker count. n <= 0 uses runtime.NumCPU().
func WithThreads(n int) Option {
	return func(s *Scanner) { s.cfg.Threads = n }
}

// WithSequentialLength sets the sequential fallback threshold.
func WithSequentialLength(n int) Option {
	return func(s *Scanner) { s.cfg.SequentialLength = n }
}

// WithCacheChunkLength sets the blocked-scan block length.
func WithCacheChunkLength(n int) Option {
	return func(s *Scanner) { s.cfg.CacheChunkLength = n }
}

// WithoutVectorize makes the Scan* methods use the scalar kernel.
func WithoutVectorize() Option {
	return func(s *Scanner) { s.cfg.Vectorize = false }
}

// WithGatherTimeout bounds every phase, including the share the inline worker
// runs on the caller. Tasks cannot be interrupted: a phase that overruns is
// reported when its inline share returns, fails with ErrGather, and leaves the
// background workers running the abandoned tasks. Every later scan on the
// Scanner fails with ErrStalled.
func WithGatherTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.cfg.GatherTimeout = d }
}

// WithHooks installs phase instrumentation.
func WithHooks(h Hooks) Option {
	return func(s *Scanner) {
		if h == nil {
			h = noHooks{}
		}
		s.hooks = h
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(s *Scanner) { s.cfg = cfg }
}

// New creates a Scanner and starts its worker pool.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		cfg: Config{
			Threads:          runtime.NumCPU(),
			CacheChunkLength: DefaultCacheChunkLength,
			Vectorize:        true,
		},
		hooks: noHooks{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Threads <= 0 {
		s.cfg.Threads = runtime.NumCPU()
	}
	s.pool = pool.New(s.cfg.Threads)
	return s
}

// Config returns the current configuration.
func (s *Scanner) Config() Config {
	return s.cfg
}

// Threads returns the worker count.
func (s *Scanner) Threads() int {
	return s.pool.Size()
}

// SetSequentialLength changes the sequential fallback threshold between scans.
func (s *Scanner) SetSequentialLength(n int) {
	s.cfg.SequentialLength = n
}

// SetCacheChunkLength changes the blocked-scan block length between scans.
func (s *Scanner) SetCacheChunkLength(n int) {
	s.cfg.CacheChunkLength = n
}

// Close stops the worker pool. After a gather timeout it waits for the
// abandoned tasks to finish.
func (s *Scanner) Close() {
	s.pool.Close()
}

func (s *Scanner) sumKernel() kernel.Kernel[uint64] {
	if s.cfg.Vectorize {
		return kernel.Unrolled[uint64]()
	}
	return kernel.Scalar(kernel.Sum[uint64]())
}
