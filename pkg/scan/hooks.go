package scan

import (
	"context"
	"log/slog"
	"time"
)

// PhaseInfo describes one globally synchronized phase of a scan.
type PhaseInfo struct {
	Algorithm string
	Phase     string
	// Step is the pair distance for tree and doubling phases and the block
	// offset for blocked phases.
	Step     int
	Workers  int
	Elements int
	Elapsed  time.Duration
}

// Hooks receives a call after every phase's gather completes.
type Hooks interface {
	Phase(PhaseInfo)
}

// HooksFunc adapts a function to Hooks.
type HooksFunc func(PhaseInfo)

// Phase calls f.
func (f HooksFunc) Phase(p PhaseInfo) { f(p) }

type noHooks struct{}

func (noHooks) Phase(PhaseInfo) {}

// SlogHooks logs every phase at debug level.
func SlogHooks(logger *slog.Logger) Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return slogHooks{logger: logger}
}

type slogHooks struct {
	logger *slog.Logger
}

func (h slogHooks) Phase(p PhaseInfo) {
	if !h.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	h.logger.Debug("scan: phase complete",
		"algorithm", p.Algorithm,
		"phase", p.Phase,
		"step", p.Step,
		"workers", p.Workers,
		"elements", p.Elements,
		"elapsed", p.Elapsed,
	)
}
