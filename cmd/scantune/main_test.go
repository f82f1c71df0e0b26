package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"prefixscan/internal/config"
)

func TestRunWritesFastestProfile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "profile.json")
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"--size", "5000",
		"--threads", "3",
		"--rounds", "1",
		"--cache-chunks", "100,1000,10000",
		"--out", out,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "scantune: fastest blocked configuration")

	p, err := config.Load(out)
	require.NoError(t, err)
	require.Equal(t, 3, p.Threads)
	require.Contains(t, []int{100, 1000, 10000}, p.CacheChunkLength)
}

func TestRunStartsFromProfile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, config.Save(in, config.Profile{Threads: 2, SequentialLength: 32}))

	out := filepath.Join(dir, "out.json")
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--profile", in,
		"--size", "777",
		"--algo", "blocked-pre,tree",
		"--cache-chunks", "64",
		"--rounds", "2",
		"-v",
		"-o", out,
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "scan: phase complete")

	p, err := config.Load(out)
	require.NoError(t, err)
	require.Equal(t, 2, p.Threads)
	require.Equal(t, 32, p.SequentialLength)
	require.Equal(t, 64, p.CacheChunkLength)
}

func TestRunEveryAlgorithmWithoutOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--size", "3000", "--threads", "4", "--rounds", "1", "--cache-chunks", "500"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	for _, name := range allAlgorithms() {
		require.Contains(t, stdout.String(), "algorithm="+name)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"--algo", "bogus"},
		{"--rounds", "0"},
		{"--size", "-1"},
		{"extra"},
		{"--no-such-flag"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		require.Equal(t, 2, run(args, &stdout, &stderr), "args %v", args)
	}
}

func TestRunMissingProfile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--profile", filepath.Join(t.TempDir(), "none.json"), "--size", "10"}, &stdout, &stderr)
	require.Equal(t, 1, code)
}
