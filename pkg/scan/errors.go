package scan

import (
	"errors"

	"prefixscan/pkg/pool"
	"prefixscan/pkg/split"
)

var (
	// ErrBrokenOwnership reports a buffer reclaimed while chunks were still live.
	ErrBrokenOwnership = split.ErrBrokenOwnership

	// ErrGather reports a worker result that was lost, duplicated or failed.
	ErrGather = pool.ErrGather

	// ErrInvalidPartition reports partition math that produced unusable offsets.
	ErrInvalidPartition = split.ErrInvalidPartition

	// ErrSegmentMismatch reports head flags whose length differs from the data.
	ErrSegmentMismatch = errors.New("scan: head flags and data differ in length")

	// ErrMissingHead reports segmented data whose first element is not a head.
	ErrMissingHead = errors.New("scan: first element is not a segment head")

	// ErrStalled reports a scan on a Scanner whose earlier gather timed out.
	// Such a Scanner only accepts Close, which waits for the abandoned tasks.
	ErrStalled = errors.New("scan: scanner stalled by an earlier gather timeout")
)
