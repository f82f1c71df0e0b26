// Package config loads and stores scanner tuning profiles.
//
// A profile is a JSON file that may carry comments and trailing commas:
//
//	{
//		// found by scantune on a 16 core host
//		"threads": 16,
//		"cache_chunk_length": 262144,
//		"gather_timeout": "2s",
//	}
//
// A cache_chunk_length of -1 (SingleBlock) scans the input as one block;
// 0 or an absent field keeps the scanner default.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"prefixscan/pkg/scan"
)

var (
	errProfileRead      = errors.New("cannot read profile")
	errProfileInvalid   = errors.New("invalid profile")
	errNegative         = errors.New("must not be negative")
	errBelowSingleBlock = errors.New("must be positive, 0 for the default or -1 for a single block")
)

// SingleBlock is the cache_chunk_length that scans the input as one block.
const SingleBlock = -1

// Profile is the on-disk form of scan.Config. Zero values keep the scanner defaults.
type Profile struct {
	Threads          int    `json:"threads,omitempty"`
	SequentialLength int    `json:"sequential_length,omitempty"`
	CacheChunkLength int    `json:"cache_chunk_length,omitempty"`
	Vectorize        *bool  `json:"vectorize,omitempty"`
	GatherTimeout    string `json:"gather_timeout,omitempty"`
}

// FromConfig captures cfg as a profile.
func FromConfig(cfg scan.Config) Profile {
	vectorize := cfg.Vectorize
	p := Profile{
		Threads:          cfg.Threads,
		SequentialLength: cfg.SequentialLength,
		CacheChunkLength: cfg.CacheChunkLength,
		Vectorize:        &vectorize,
	}
	if cfg.CacheChunkLength <= 0 {
		p.CacheChunkLength = SingleBlock
	}
	if cfg.GatherTimeout > 0 {
		p.GatherTimeout = cfg.GatherTimeout.String()
	}
	return p
}

// Load reads and validates the profile at path.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Profile{}, fmt.Errorf("%w %s: %w", errProfileRead, path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a profile.
func Parse(data []byte) (Profile, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: invalid JSONC: %w", errProfileInvalid, err)
	}

	var p Profile
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", errProfileInvalid, err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate reports the first field that cannot configure a scanner.
func (p Profile) Validate() error {
	switch {
	case p.Threads < 0:
		return fmt.Errorf("%w: threads %w", errProfileInvalid, errNegative)
	case p.SequentialLength < 0:
		return fmt.Errorf("%w: sequential_length %w", errProfileInvalid, errNegative)
	case p.CacheChunkLength < SingleBlock:
		return fmt.Errorf("%w: cache_chunk_length %d: %w", errProfileInvalid, p.CacheChunkLength, errBelowSingleBlock)
	}
	if _, err := p.timeout(); err != nil {
		return err
	}
	return nil
}

func (p Profile) timeout() (time.Duration, error) {
	if p.GatherTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.GatherTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: gather_timeout: %w", errProfileInvalid, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: gather_timeout %w", errProfileInvalid, errNegative)
	}
	return d, nil
}

// Options returns the scanner options the profile sets. It assumes a validated profile.
func (p Profile) Options() []scan.Option {
	var opts []scan.Option
	if p.Threads > 0 {
		opts = append(opts, scan.WithThreads(p.Threads))
	}
	if p.SequentialLength > 0 {
		opts = append(opts, scan.WithSequentialLength(p.SequentialLength))
	}
	if p.CacheChunkLength != 0 {
		opts = append(opts, scan.WithCacheChunkLength(p.CacheChunkLength))
	}
	if p.Vectorize != nil && !*p.Vectorize {
		opts = append(opts, scan.WithoutVectorize())
	}
	if d, err := p.timeout(); err == nil && d > 0 {
		opts = append(opts, scan.WithGatherTimeout(d))
	}
	return opts
}

// Save writes p to path, replacing any existing file atomically.
func Save(path string, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return fmt.Errorf("config: encode profile: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
