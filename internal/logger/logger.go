// Package logger provides structured logging for sql2erd using zap.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/sql2erd/internal/config"
)

// Logger is a sugared zap logger that can be narrowed to a folder, file or table.
type Logger struct {
	*zap.SugaredLogger
	base  *zap.Logger
	close func() // releases the output opened by New; nil otherwise
}

// New builds a Logger from the logging section of the configuration.
// Output is "stderr" (default), "stdout" or a file path; file output is
// mirrored to stderr.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	sink, closeSink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	log := NewWithCore(zapcore.NewCore(buildEncoder(cfg.Format), sink, parseLevel(cfg.Level)))
	log.close = closeSink
	return log, nil
}

// NewWithCore builds a Logger on an existing zap core.
func NewWithCore(core zapcore.Core) *Logger {
	return wrap(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
}

// NewDefault logs info and above as text to stderr.
func NewDefault() *Logger {
	log, err := New(&config.LoggingConfig{Level: "info", Format: "text", Output: "stderr"})
	if err != nil {
		return NewNop()
	}
	return log
}

// NewNop discards everything.
func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(base *zap.Logger) *Logger {
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel falls back to info for anything zap does not recognize.
func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// buildEncoder returns a JSON encoder for "json" and a colored console encoder otherwise.
func buildEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.SecondsDurationEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(encCfg)
	}
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encCfg)
}

// openSink resolves the configured output. zap.Open treats "stderr" and
// "stdout" as the standard streams and anything else as a file to append to.
func openSink(output string) (zapcore.WriteSyncer, func(), error) {
	if output == "" {
		output = "stderr"
	}

	sink, closeSink, err := zap.Open(output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output %q: %w", output, err)
	}

	switch output {
	case "stderr", "stdout":
		return sink, closeSink, nil
	}
	return zap.CombineWriteSyncers(sink, zapcore.Lock(os.Stderr)), closeSink, nil
}

func (l *Logger) with(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), base: l.base, close: l.close}
}

// WithFolder adds the schema folder being read.
func (l *Logger) WithFolder(folder string) *Logger {
	return l.with("folder", folder)
}

// WithFile adds the schema file being parsed.
func (l *Logger) WithFile(path string) *Logger {
	return l.with("file", path)
}

// WithTable adds the table name.
func (l *Logger) WithTable(tableName string) *Logger {
	return l.with("table", tableName)
}

// WithFields adds arbitrary key/value pairs.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}

// Close flushes buffered entries and releases the log output.
// The logger must not be used afterwards.
func (l *Logger) Close() error {
	err := l.base.Sync()
	if l.close != nil {
		l.close()
		l.close = nil
	}
	return err
}
