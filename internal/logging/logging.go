// Package logging builds the zap logger used for diagnostics.
//
// The console report is written by the reporter; the logger only carries
// run diagnostics (unit lifecycle at debug, faults at warn) and goes to
// stderr unless configured otherwise.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // file path, "stdout" or "stderr"
}

// New creates a logger from cfg. The returned function flushes the logger
// and closes the log file, if one was opened; call it once on exit.
func New(cfg Config) (*zap.Logger, func(), error) {
	var (
		w         zapcore.WriteSyncer
		closeFile = func() {}
	)
	switch cfg.OutputPath {
	case "", "stderr":
		w = zapcore.Lock(os.Stderr)
	case "stdout":
		w = zapcore.Lock(os.Stdout)
	default:
		file, err := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = zapcore.AddSync(file)
		closeFile = func() { _ = file.Close() }
	}

	logger, err := build(cfg, w)
	if err != nil {
		closeFile()
		return nil, nil, err
	}
	return logger, func() {
		_ = logger.Sync()
		closeFile()
	}, nil
}

// NewWithWriter creates a logger from cfg that writes to w, ignoring
// OutputPath.
func NewWithWriter(cfg Config, w io.Writer) (*zap.Logger, error) {
	return build(cfg, zapcore.AddSync(w))
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func build(cfg Config, w zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     rfc3339,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q: must be json or console", cfg.Format)
	}

	core := zapcore.NewCore(encoder, w, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func rfc3339(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}
