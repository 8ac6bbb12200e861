package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/likeness-guard/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var systemPrompt string

const (
	defaultMaxLogLength = 200
	maxLabelRunes       = 64
)

// Rewriter asks Gemini for a more natural wording of a text region.
type Rewriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewRewriter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Rewriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Rewriter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Rewriter) Rewrite(ctx context.Context, label, text string) (string, error) {
	if r == nil || r.generator == nil {
		return "", errors.New("gemini rewriter is not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("text is required")
	}

	label = sanitizeLabel(label)
	message := buildMessage(label, text)

	r.logger.Debug("gemini rewrite request",
		zap.String("label", label),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return "", fmt.Errorf("rewrite %s: %w", label, err)
	}

	r.logger.Debug("gemini rewrite response",
		zap.String("label", label),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	out := stripFences(raw)
	if out == "" {
		return "", fmt.Errorf("rewrite %s: empty response", label)
	}
	return out, nil
}

func buildMessage(label, text string) string {
	var b strings.Builder
	b.WriteString("Section: ")
	b.WriteString(label)
	b.WriteString("\n\nText:\n<<<\n")
	b.WriteString(strings.TrimSpace(text))
	b.WriteString("\n>>>")
	return b.String()
}

// sanitizeLabel keeps the label on one line and stops it from posing as a
// role marker.
func sanitizeLabel(label string) string {
	label = strings.Join(strings.Fields(label), " ")
	label = strings.NewReplacer("[", "(", "]", ")", "<", "(", ">", ")").Replace(label)
	if label == "" {
		return "text"
	}
	if utf8.RuneCountInString(label) > maxLabelRunes {
		label = string([]rune(label)[:maxLabelRunes])
	}
	return label
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if idx := strings.Index(raw, "\n"); idx != -1 {
			raw = raw[idx+1:]
		} else {
			raw = strings.TrimPrefix(raw, "```")
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	return raw
}
