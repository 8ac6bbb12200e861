// Package logger builds the zap logger shared by the commands and carries
// the field helpers used to attribute entries to a text region.
package logger

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Entries go to stderr so that command
// output written to stdout (scores, rewritten text) stays pipeable.
func New(json bool, debug bool) (*zap.Logger, error) {
	color := !json && isatty.IsTerminal(os.Stderr.Fd())
	return build(json, debug, color, []string{"stderr"})
}

func build(json, debug, color bool, outputs []string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	if json {
		encoding = "json"
	}

	cfg := zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		DisableStacktrace: !debug,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     encoderConfig(color),
	}

	return cfg.Build()
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	levelEncoder := zapcore.LowercaseLevelEncoder
	if color {
		levelEncoder = zapcore.LowercaseColorLevelEncoder
	}

	return zapcore.EncoderConfig{
		MessageKey:     "step",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "caller",
		EncodeLevel:    levelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}
