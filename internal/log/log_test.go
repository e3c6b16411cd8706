package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		" debug ": slog.LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo).With("cache", "GameCache")

	logger.Debug("hidden")
	logger.Info("cache ready", "capacity", 5)
	logger.Warn("slow query", "ms", 120)

	assert.Equal(t,
		"cache ready cache=GameCache capacity=5\n"+
			"[WARN] slow query cache=GameCache ms=120\n",
		buf.String())
}

func TestHandlerWithAttrsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, slog.LevelDebug)
	a := base.With("svc", "a")
	_ = base.With("svc", "b")

	a.Debug("x")
	assert.Equal(t, "[DEBUG] x svc=a\n", buf.String())
}
