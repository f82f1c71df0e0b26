package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prefixscan/pkg/pool"
)

// dispatch sends one item per worker and gathers the results, reporting the
// phase to the hooks. It is the only place a scan blocks.
func dispatch[S, R any](s *Scanner, info PhaseInfo, items []S, fn func(pool.WorkerID, S) R) ([]R, error) {
	if s.stalled != nil {
		return nil, fmt.Errorf("scan: %s %s: %w: %w", info.Algorithm, info.Phase, ErrStalled, s.stalled)
	}

	start := time.Now()
	// The deadline starts before SendAll so it also covers the inline
	// worker's share, which runs inside SendAll.
	ctx := context.Background()
	if s.cfg.GatherTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GatherTimeout)
		defer cancel()
	}

	r, err := pool.SendAll(s.pool, items, fn)
	if err != nil {
		if errors.Is(err, pool.ErrTooManyItems) {
			return nil, fmt.Errorf("scan: %s %s: %w: %w", info.Algorithm, info.Phase, ErrInvalidPartition, err)
		}
		return nil, fmt.Errorf("scan: %s %s: %w: %w", info.Algorithm, info.Phase, ErrGather, err)
	}

	results, err := r.GatherContext(ctx)
	if err != nil {
		err = fmt.Errorf("scan: %s %s step %d: %w", info.Algorithm, info.Phase, info.Step, err)
		if ctx.Err() != nil {
			// Abandoned tasks may still occupy workers; a later SendAll
			// would block on their queues.
			s.stalled = err
		}
		return nil, err
	}

	info.Workers = len(items)
	info.Elapsed = time.Since(start)
	s.hooks.Phase(info)
	return results, nil
}

// firstError returns the first non-nil task error, wrapped with the phase.
func firstError(info PhaseInfo, errs []error) error {
	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("scan: %s %s step %d: %w", info.Algorithm, info.Phase, info.Step, err)
		}
	}
	return nil
}
