package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"topwayft/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "disabled", cfg: &config.LoggingConfig{Level: "disabled"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "invalid"}, wantErr: true},
		{name: "file output", cfg: &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "run.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLoggerWritesToConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithWriter(&config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	l.WithField("post_id", "abc123").Info("checking post")
	l.Debug("hidden at info level")

	out := buf.String()
	assert.Contains(t, out, "checking post")
	assert.Contains(t, out, "post_id")
	assert.Contains(t, out, "abc123")
	assert.NotContains(t, out, "hidden at info level")
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithWriter(&config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	child := l.WithFields(map[string]interface{}{"subreddit": "rawdenim"})
	l.Info("parent line")
	assert.NotContains(t, buf.String(), "rawdenim")

	child.Info("child line")
	assert.Contains(t, buf.String(), "rawdenim")
}

func TestWithRunID(t *testing.T) {
	tl := NewTestLogger()
	l, id := WithRunID(tl)
	require.Len(t, id, 36)

	l.Info("run started")
	msgs := tl.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, id, msgs[0].Fields["run_id"])
}

func TestTestLoggerCapturesFieldsAndErrors(t *testing.T) {
	tl := NewTestLogger()
	boom := errors.New("boom")

	tl.WithField("a", 1).WithError(boom).WarnWithFields("search failed", map[string]interface{}{"b": 2})
	tl.Info("plain")

	assert.True(t, tl.HasMessage("search failed"))
	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, 1, warns[0].Fields["a"])
	assert.Equal(t, 2, warns[0].Fields["b"])
	assert.Equal(t, boom, warns[0].Error)
	assert.Len(t, tl.GetMessagesByLevel("INFO"), 1)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.WithField("k", "v").WithError(errors.New("x")).ErrorWithFields("ignored", nil)
		assert.NotNil(t, l.GetZerolog())
	})
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "error"}))
	assert.NotNil(t, GetLogger())
	assert.NotPanics(t, func() {
		GetLogger().WithField("k", "v").Info("suppressed")
		WithError(errors.New("e")).Error("shown")
	})
}

func TestGlobalWithError(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	tl := NewTestLogger()
	globalLogger = tl
	WithError(errors.New("search failed")).Error("Run failed")

	msgs := tl.GetMessagesByLevel("ERROR")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Run failed", msgs[0].Message)
	assert.EqualError(t, msgs[0].Error, "search failed")
}
