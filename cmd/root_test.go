package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/likeness-guard/internal/bundle"
	"github.com/spigell/likeness-guard/internal/likeness"
	"github.com/spigell/likeness-guard/internal/secrets"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, 35, config.Optimizer.Target)
	assert.Equal(t, 3, config.Optimizer.MaxIterations)
	assert.Equal(t, "reports", config.Report.Dir)
	assert.Equal(t, "json", config.Report.Format)
	assert.Equal(t, bundle.DefaultWeights(), config.Bundle.Weights)
	assert.Equal(t, 5.0, config.Bundle.LLMMargin)
	require.NotNil(t, config.AI)
	assert.False(t, config.AI.Enabled)
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likeness-guard.yaml")
	content := `optimizer:
  target: 20
  max-iterations: 5
report:
  format: yaml
bundle:
  weights:
    cover-letter: 0.5
    experience: 0.3
    summary: 0.2
ai:
  enabled: true
  gemini:
    model: gemini-2.5-pro
    api-key-file: /run/secrets/gemini
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := newTestViper(t)
	require.NoError(t, readConfig(v, path))

	config, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 20, config.Optimizer.Target)
	assert.Equal(t, 5, config.Optimizer.MaxIterations)
	assert.Equal(t, "yaml", config.Report.Format)
	assert.Equal(t, bundle.Weights{CoverLetter: 0.5, Experience: 0.3, Summary: 0.2}, config.Bundle.Weights)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "gemini-2.5-pro", config.AI.Gemini.Model)
	assert.Equal(t, "/run/secrets/gemini", config.AI.Gemini.APIKeyFile)
	assert.Equal(t, 3, config.AI.Gemini.MaxRetries)
}

func TestReadConfigMissingFile(t *testing.T) {
	err := readConfig(newTestViper(t), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "target above range", key: "optimizer.target", val: 120},
		{name: "negative iterations", key: "optimizer.max-iterations", val: -1},
		{name: "too many iterations", key: "optimizer.max-iterations", val: 51},
		{name: "unknown format", key: "report.format", val: "xml"},
		{name: "unknown provider", key: "ai.provider", val: "openai"},
		{name: "negative weight", key: "bundle.weights.summary", val: -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper(t)
			v.Set(tt.key, tt.val)

			_, err := loadConfig(v)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIKENESS_GUARD_OPTIMIZER_TARGET", "12")

	config, err := loadConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, 12, config.Optimizer.Target)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "AI_GEMINI_API_KEY_FILE", envName("ai.gemini.api-key-file"))
}

func TestNewRewriterDisabled(t *testing.T) {
	r, err := newRewriter(t.Context(), &AIConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = newRewriter(t.Context(), &AIConfig{Enabled: true, Provider: "openai"}, nil)
	assert.ErrorContains(t, err, "unsupported ai provider")

	_, err = newRewriter(t.Context(), &AIConfig{Enabled: true}, nil)
	assert.ErrorContains(t, err, "ai.gemini section is required")

	_, err = newRewriter(t.Context(), &AIConfig{Enabled: true, Gemini: &GeminiConfig{}}, nil)
	require.ErrorIs(t, err, secrets.ErrNotConfigured)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestReadInput(t *testing.T) {
	original := stdin
	t.Cleanup(func() { stdin = original })
	stdin = strings.NewReader("from stdin")

	got, err := readInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))
	got, err = readInput([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	_, err = readInput([]string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	require.NoError(t, writeOutput(path, "first", false))
	require.NoError(t, writeOutput(path, "second", true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "cv.humanized.json", outputName("/tmp/cv.json"))
	assert.Equal(t, "letter.humanized.json", outputName("letter"))
}

func TestRenderAnalysis(t *testing.T) {
	out := renderAnalysis(likeness.Default().Analyze("I am thrilled to leverage my skills. I am passionate about results-driven teams."))
	assert.Contains(t, out, "84.0")
	assert.Contains(t, out, "boilerplate: 80.0")
	assert.Contains(t, out, "matched:")

	out = renderAnalysis(likeness.Default().Analyze(""))
	assert.Contains(t, out, "95.0")
	assert.Contains(t, out, "fallback: empty")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute())
	assert.Equal(t, "likeness-guard version: unknown\n", buf.String())
}
