// Package telemetry builds the zap logger used by the CLI and provides
// trace/span id log fields for an OpenTelemetry span. It holds no
// metric instruments; pcapng.Capture records its own counters.
package telemetry

import (
	"io"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Encoding selects zap's console or JSON encoder.
type Encoding string

const (
	ConsoleEncoding Encoding = "console"
	JSONEncoding    Encoding = "json"
)

// RotationConfig configures lumberjack log rotation for file output.
type RotationConfig struct {
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
}

// Config configures the logger built by New.
type Config struct {
	Level       zapcore.Level
	Encoding    Encoding
	FilePath    string // empty disables file output
	EnableStdout bool
	Rotation    *RotationConfig
	Development bool
}

// DefaultConfig returns sensible defaults: info level, console
// encoding, stdout only.
func DefaultConfig() Config {
	return Config{
		Level:        zapcore.InfoLevel,
		Encoding:     ConsoleEncoding,
		EnableStdout: true,
		Rotation: &RotationConfig{
			MaxSizeMB:  100,
			MaxAgeDays: 30,
			MaxBackups: 7,
			Compress:   true,
		},
	}
}

// New builds a zap.Logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	var writers []io.Writer
	if cfg.EnableStdout || cfg.FilePath == "" {
		writers = append(writers, os.Stdout)
	}
	if cfg.FilePath != "" {
		rot := cfg.Rotation
		if rot == nil {
			rot = DefaultConfig().Rotation
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    rot.MaxSizeMB,
			MaxAge:     rot.MaxAgeDays,
			MaxBackups: rot.MaxBackups,
			Compress:   rot.Compress,
		})
	}

	var writer io.Writer
	if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = io.MultiWriter(writers...)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == JSONEncoding {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), cfg.Level)

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development())
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(core, opts...), nil
}

// TraceFields returns trace/span id fields for a recording span, or
// nil when span is nil or not recording. Nothing in this module calls
// it.
func TraceFields(span trace.Span) []zap.Field {
	if span == nil || !span.IsRecording() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
