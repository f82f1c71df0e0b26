package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prefixscan/pkg/scan"
)

func TestParseAcceptsComments(t *testing.T) {
	p, err := Parse([]byte(`{
		// tuned on the build host
		"threads": 3,
		"sequential_length": 64,
		"cache_chunk_length": 4096,
		"vectorize": false,
		"gather_timeout": "1500ms", // trailing comma is fine
	}`))
	require.NoError(t, err)
	require.Equal(t, 3, p.Threads)
	require.Equal(t, 64, p.SequentialLength)
	require.Equal(t, 4096, p.CacheChunkLength)
	require.NotNil(t, p.Vectorize)
	require.False(t, *p.Vectorize)

	s := scan.New(p.Options()...)
	defer s.Close()
	cfg := s.Config()
	require.Equal(t, 3, cfg.Threads)
	require.Equal(t, 64, cfg.SequentialLength)
	require.Equal(t, 4096, cfg.CacheChunkLength)
	require.False(t, cfg.Vectorize)
	require.Equal(t, 1500*time.Millisecond, cfg.GatherTimeout)
}

func TestEmptyProfileKeepsDefaults(t *testing.T) {
	p, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, p.Options())
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"threads": }`},
		{"unknown field", `{"workers": 4}`},
		{"negative threads", `{"threads": -1}`},
		{"negative sequential", `{"sequential_length": -2}`},
		{"cache below single block", `{"cache_chunk_length": -3}`},
		{"bad timeout", `{"gather_timeout": "soon"}`},
		{"negative timeout", `{"gather_timeout": "-1s"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.ErrorIs(t, err, errProfileInvalid)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	want := FromConfig(scan.Config{
		Threads:          5,
		SequentialLength: 8,
		CacheChunkLength: 100000,
		Vectorize:        true,
		GatherTimeout:    time.Second,
	})

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, "1s", got.GatherTimeout)

	// Saving again replaces the file.
	want.Threads = 2
	require.NoError(t, Save(path, want))
	got, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, got.Threads)
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	err := Save(path, Profile{Threads: -4})
	require.ErrorIs(t, err, errProfileInvalid)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, errProfileRead)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSingleBlockProfile(t *testing.T) {
	p, err := Parse([]byte(`{"cache_chunk_length": -1}`))
	require.NoError(t, err)
	require.Equal(t, SingleBlock, p.CacheChunkLength)

	s := scan.New(p.Options()...)
	defer s.Close()
	require.LessOrEqual(t, s.Config().CacheChunkLength, 0)

	// A scanner configured for one block round-trips through a saved profile.
	path := filepath.Join(t.TempDir(), "single.json")
	require.NoError(t, Save(path, FromConfig(scan.Config{Threads: 2, CacheChunkLength: 0})))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, SingleBlock, got.CacheChunkLength)

	restored := scan.New(got.Options()...)
	defer restored.Close()
	require.LessOrEqual(t, restored.Config().CacheChunkLength, 0)
}
