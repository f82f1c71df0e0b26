// Package gen produces reproducible pseudo-random scan inputs from SHAKE-128.
package gen

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/sha3"
)

// Stream provides incremental SHAKE-128 output for seed||nonce.
type Stream struct {
	h   sha3.ShakeHash
	buf [168]byte // SHAKE128 rate
	pos int
	end int
}

// NewStream creates a stream for seed||nonce.
func NewStream(seed []byte, nonce uint16) *Stream {
	s := &Stream{h: sha3.NewShake128()}
	s.Reset(seed, nonce)
	return s
}

// Reset reinitializes the stream for a new seed||nonce.
func (s *Stream) Reset(seed []byte, nonce uint16) {
	s.h.Reset()
	s.h.Write(seed)
	s.h.Write([]byte{byte(nonce & 0xFF), byte(nonce >> 8)})
	s.pos = 0
	s.end = 0
}

// Uint64 returns the next 8 bytes of the stream, little-endian.
func (s *Stream) Uint64() uint64 {
	if s.pos+8 > s.end {
		// Copy leftover bytes to beginning
		leftover := s.end - s.pos
		if leftover > 0 {
			copy(s.buf[:leftover], s.buf[s.pos:s.end])
		}
		n, _ := s.h.Read(s.buf[leftover:])
		s.pos = 0
		s.end = leftover + n
	}
	v := binary.LittleEndian.Uint64(s.buf[s.pos:])
	s.pos += 8
	return v
}

// Below returns a value in [0, bound) by taking the high word of a 128-bit
// product. bound 0 means the full uint64 range.
func (s *Stream) Below(bound uint64) uint64 {
	x := s.Uint64()
	if bound == 0 {
		return x
	}
	hi, _ := bits.Mul64(x, bound)
	return hi
}

// Uint64s returns n values in [0, bound) derived from seed.
func Uint64s(seed []byte, n int, bound uint64) []uint64 {
	s := NewStream(seed, 0)
	out := make([]uint64, n)
	for i := range out {
		out[i] = s.Below(bound)
	}
	return out
}

// Ramp returns [0, 1, ..., n-1].
func Ramp(n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

// Sequences returns count sequences of 1 to maxLen values in [0, bound),
// derived from seed.
func Sequences(seed []byte, count, maxLen int, bound uint64) [][]uint64 {
	if maxLen < 1 {
		maxLen = 1
	}
	s := NewStream(seed, 1)
	seqs := make([][]uint64, count)
	for i := range seqs {
		seq := make([]uint64, 1+int(s.Below(uint64(maxLen))))
		for j := range seq {
			seq[j] = s.Below(bound)
		}
		seqs[i] = seq
	}
	return seqs
}
