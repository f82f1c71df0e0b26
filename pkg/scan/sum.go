package scan

import "prefixscan/pkg/kernel"

// ScanTree is Tree over uint64 addition.
func (s *Scanner) ScanTree(data []uint64) ([]uint64, error) {
	return Tree(s, data, kernel.Sum[uint64]())
}

// ScanDoubling is Doubling over uint64 addition.
func (s *Scanner) ScanDoubling(data []uint64) ([]uint64, error) {
	return Doubling(s, data, kernel.Sum[uint64]())
}

// ScanBlockedPost is BlockedPost over uint64 addition.
func (s *Scanner) ScanBlockedPost(data []uint64) ([]uint64, error) {
	return BlockedPostWith(s, data, s.sumKernel())
}

// ScanBlockedPre is BlockedPre over uint64 addition.
func (s *Scanner) ScanBlockedPre(data []uint64) ([]uint64, error) {
	return BlockedPreWith(s, data, s.sumKernel())
}

// ScanSegmented is Segmented over uint64 addition.
func (s *Scanner) ScanSegmented(sg Segments[uint64]) (Segments[uint64], error) {
	return SegmentedWith(s, sg, s.sumKernel())
}

// ParallelReduce returns the uint64 sum of data.
func (s *Scanner) ParallelReduce(data []uint64) (uint64, error) {
	return ReduceWith(s, data, s.sumKernel())
}
