package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xchain/lib/infra"
)

type testMemOutWriter struct {
	lock sync.Mutex
	data bytes.Buffer
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.data.Write(p)
}

func (w *testMemOutWriter) Sync() error { return nil }

func (w *testMemOutWriter) lines(t *testing.T) []map[string]any {
	w.lock.Lock()
	defer w.lock.Unlock()
	res := make([]map[string]any, 0, 8)
	for _, line := range strings.Split(strings.TrimSpace(w.data.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		res = append(res, m)
	}
	return res
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
	require.Equal(t, zapcore.DebugLevel, LogLevel("unknown").zapLevel())

	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault(""))
	require.Equal(t, zapcore.WarnLevel, getLogLevelOrDefault("warn"))
	require.Equal(t, zapcore.ErrorLevel, getLogLevelOrDefault("Error"))
}

func TestParseLogEncoder(t *testing.T) {
	enc, err := ParseLogEncoder("JSON")
	require.NoError(t, err)
	require.Equal(t, JSON, enc)
	enc, err = ParseLogEncoder("")
	require.NoError(t, err)
	require.Equal(t, JSON, enc)
	enc, err = ParseLogEncoder("text")
	require.NoError(t, err)
	require.Equal(t, PlainText, enc)
	_, err = ParseLogEncoder("yaml")
	require.Error(t, err)
}

func TestXLogger_Levels(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(
		WithXLoggerWriter(w),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelInfo),
	)
	require.Equal(t, "info", logger.Level())

	logger.Debug("dropped")
	logger.Info("kept", zap.String("key", "value"))
	logger.Warn("warned")
	logger.Error(nil, "no error")
	require.NoError(t, logger.Sync())

	lines := w.lines(t)
	require.Len(t, lines, 3)
	require.Equal(t, "kept", lines[0]["msg"])
	require.Equal(t, "INFO", lines[0]["lvl"])
	require.Equal(t, "value", lines[0]["key"])
	require.Contains(t, lines[0]["callAt"], "xlog_test.go")
	require.Equal(t, "WARN", lines[1]["lvl"])
	require.Equal(t, "ERROR", lines[2]["lvl"])
	require.NotContains(t, lines[2], "error")

	logger.IncreaseLogLevel(zapcore.DebugLevel)
	require.Equal(t, "debug", logger.Level())
	logger.Debug("now kept")
	require.Len(t, w.lines(t), 4)
}

type testErr string

func (err testErr) Error() string { return string(err) }

func TestXLogger_ErrorStack(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(WithXLoggerWriter(w), WithXLoggerLevel(LogLevelDebug))

	err := infra.WrapErrorStackWithMessage(testErr("out of range"), "insert at 9")
	logger.ErrorStack(err, "step failed", zap.Int("step", 2))
	logger.ErrorStack(testErr("plain"), "plain failed")
	logger.Error(testErr("boom"), "error failed")

	lines := w.lines(t)
	require.Len(t, lines, 3)
	require.Equal(t, "insert at 9: out of range", lines[0]["error"])
	require.NotEmpty(t, lines[0]["errorStack"])
	require.EqualValues(t, 2, lines[0]["step"])
	require.Equal(t, "plain", lines[1]["error"])
	require.NotContains(t, lines[1], "errorStack")
	require.Equal(t, "boom", lines[2]["error"])
}

func TestXLogger_Context(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(
		WithXLoggerWriter(w),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerContextFieldExtract("script", "scriptName"),
		WithXLoggerContextFieldExtract("runID"),
		WithXLoggerContextFieldExtract("secret", ContextKeyMapToOmitempty),
		WithXLoggerContextFieldExtract(""),
	)
	ctx := context.WithValue(context.Background(), ContextKey("script"), "demo")
	ctx = context.WithValue(ctx, ContextKey("secret"), "hidden")

	logger.DebugContext(ctx, "debug")
	logger.InfoContext(ctx, "info")
	logger.WarnContext(ctx, "warn")
	logger.ErrorContext(ctx, testErr("boom"), "error")
	logger.ErrorStackContext(ctx, infra.NewErrorStack("stacked"), "error stack")

	lines := w.lines(t)
	require.Len(t, lines, 5)
	for _, line := range lines {
		require.Equal(t, "demo", line["scriptName"])
		require.Equal(t, "nil", line["runID"])
		require.NotContains(t, line, "secret")
	}
	require.Equal(t, "boom", lines[3]["error"])
	require.Equal(t, "stacked", lines[4]["error"])
	require.NotEmpty(t, lines[4]["errorStack"])

	require.Empty(t, extractFieldsFromContext(nil, map[string]string{"a": "a"}))
}

func TestXLogger_Named(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(WithXLoggerWriter(w), WithXLoggerLevel(LogLevelDebug))
	child := logger.Named("runner")
	child.Info("from child")
	logger.Logf(zapcore.InfoLevel, "from %s", "parent")

	lines := w.lines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "runner", lines[0]["component"])
	require.Equal(t, "from parent", lines[1]["msg"])

	// Shares the level enabler with the parent.
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	require.Equal(t, "error", child.Level())
}

type testBanner struct{}

func (testBanner) JSON() string      { return `{"app":"xchain"}` }
func (testBanner) PlainText() string { return "xchain" }

func TestXLogger_Banner(t *testing.T) {
	w := &testMemOutWriter{}
	logger := NewXLogger(WithXLoggerWriter(w), WithXLoggerLevel(LogLevelError))
	logger.Banner(testBanner{})
	logger.Banner(testBanner{}) // Printed once.
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, `{"app":"xchain"}`, lines[0]["banner"])
}

func TestNewXLogger_InvalidOption(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
	require.NotPanics(t, func() {
		NewXLogger(nil, WithXLoggerLevelEncoder(nil), WithXLoggerTimeEncoder(nil))
	})
}

func TestWrapCore(t *testing.T) {
	w := &testMemOutWriter{}
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cc := newConsoleCore(lvl, JSON, w, zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
	require.NotNil(t, cc.outEncoder())
	require.NotNil(t, cc.writeSyncer())
	require.NotNil(t, cc.levelEncoder())
	require.NotNil(t, cc.timeEncoder())
	require.False(t, cc.Enabled(zapcore.DebugLevel))
	require.True(t, cc.Enabled(zapcore.InfoLevel))

	_, err := WrapCore(cc, nil)
	require.Error(t, err)
	_, err = WrapCore(nil, componentCoreEncoderCfg)
	require.Error(t, err)

	wrapped, err := WrapCore(cc, componentCoreEncoderCfg)
	require.NoError(t, err)
	lvl.SetLevel(zapcore.DebugLevel)
	require.True(t, wrapped.Enabled(zapcore.DebugLevel))

	zap.New(wrapped).Debug("wrapped")
	require.NoError(t, wrapped.Sync())
	lines := w.lines(t)
	require.Len(t, lines, 1)
	require.Equal(t, "DEBUG", lines[0]["lvl"])
	require.NotContains(t, lines[0], "callAt")
	// The shared config must stay untouched.
	require.Nil(t, componentCoreEncoderCfg.EncodeLevel)
}
