package clog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/superflake/xerrors"
)

func newBufferLogger(t *testing.T, level string, opts ...Option) (Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	opts = append(opts, withWriter(buf))
	logger, err := New(&Config{Level: level, Format: "json", Output: "buffer"}, opts...)
	require.NoError(t, err)
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil config", config: nil},
		{name: "valid config", config: &Config{Level: "info", Format: "console", Output: "stdout"}},
		{name: "defaults filled", config: &Config{}},
		{name: "invalid level", config: &Config{Level: "verbose"}, wantErr: true},
		{name: "invalid format", config: &Config{Format: "xml"}, wantErr: true},
		{name: "buffer without writer", config: &Config{Output: "buffer"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "Error", "fatal"} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	level, err := ParseLevel("nope")
	assert.Error(t, err)
	assert.Equal(t, InfoLevel, level)
	assert.Equal(t, "warn", WarnLevel.String())
}

func TestLogger_Fields(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug", WithNamespace("superflake"))

	logger.WithNamespace("idgen").
		With(String("component", "idgen")).
		Info("generator created", Uint64("node_id", 7), Int("poll", 1))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "generator created", lines[0]["msg"])
	assert.Equal(t, "superflake.idgen", lines[0][NamespaceKey])
	assert.Equal(t, "idgen", lines[0]["component"])
	assert.EqualValues(t, 7, lines[0]["node_id"])
}

func TestLogger_SetLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, "info")
	child := logger.With(String("k", "v"))

	child.Debug("hidden")
	assert.Empty(t, buf.String())

	// 父 Logger 调整级别，子 Logger 同时生效
	require.NoError(t, logger.SetLevel(DebugLevel))
	child.Debug("shown")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "DEBUG", lines[0]["level"])

	require.NoError(t, logger.SetLevel(ErrorLevel))
	buf.Reset()
	child.Warn("hidden")
	assert.Empty(t, buf.String())
}

type requestIDKey struct{}

func TestLogger_ContextField(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", WithContextField(requestIDKey{}, "request_id"))

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-1")
	logger.InfoContext(ctx, "handled")
	logger.Info("no context")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.NotContains(t, lines[1], "request_id")
}

func TestErrorFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "info")

	logger.Error("plain", Error(errors.New("boom")))
	logger.Error("coded", Error(xerrors.WithCode(xerrors.ErrInvalidInput, "node_id_out_of_range")))
	logger.Error("explicit", ErrorWithCode(nil, "E1"))
	logger.Error("nil", Error(nil))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "boom", lines[0]["err_msg"])

	coded, ok := lines[1]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "node_id_out_of_range", coded["code"])

	explicit, ok := lines[2]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "E1", explicit["code"])

	assert.NotContains(t, lines[3], "err_msg")
}

func TestDiscardAndDefault(t *testing.T) {
	d := Discard()
	d.Info("x")
	assert.NotNil(t, d.With(String("a", "b")))
	assert.NoError(t, d.SetLevel(DebugLevel))

	assert.NotNil(t, Default())
	prev := Default()
	SetDefault(d)
	assert.Equal(t, d, Default())
	SetDefault(nil)
	assert.Equal(t, d, Default())
	SetDefault(prev)
}
