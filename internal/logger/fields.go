package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Field keys shared by every component that reports optimizer progress.
const (
	FieldLabel     = "label"
	FieldStage     = "stage"
	FieldIteration = "iteration"
	FieldScore     = "score"
	FieldTarget    = "target"
)

// WithFields attaches fields to logger. A nil logger is replaced by a no-op
// logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CommonFields attributes an entry to a text region and a stage. Blank values
// are left out.
func CommonFields(label, stage string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if label = strings.TrimSpace(label); label != "" {
		fields = append(fields, zap.String(FieldLabel, label))
	}
	if stage = strings.TrimSpace(stage); stage != "" {
		fields = append(fields, zap.String(FieldStage, stage))
	}
	return fields
}

// WithCommonFields is WithFields with CommonFields.
func WithCommonFields(logger *zap.Logger, label, stage string) *zap.Logger {
	return WithFields(logger, CommonFields(label, stage)...)
}

// Progress describes one scored step of a search. Iteration 0 is the
// baseline.
func Progress(iteration int, score float64, target int) []zap.Field {
	return []zap.Field{
		zap.Int(FieldIteration, iteration),
		zap.Float64(FieldScore, score),
		zap.Int(FieldTarget, target),
	}
}
