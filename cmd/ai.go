package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/likeness-guard/internal/ai"
	"github.com/spigell/likeness-guard/internal/ai/gemini"
	"github.com/spigell/likeness-guard/internal/secrets"
)

// newRewriter returns nil when the model-backed rewriter is disabled.
func newRewriter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Rewriter, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, errors.New("ai.gemini section is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file)", err)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("gemini api key loaded", zap.String("key", secrets.Mask(apiKey)))

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
		Logger:     genLogger,
	})
	if err != nil {
		return nil, err
	}

	return gemini.NewRewriter(generator, logger.With(zap.String("provider", "gemini")), cfg.Gemini.MaxLogLength), nil
}
