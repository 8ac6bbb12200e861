// Package likeness estimates how machine-generated a passage of text reads.
//
// The score is a deterministic heuristic in [0,100] (higher means more
// template-like) built from three independent signals: sentence-length
// flatness, vocabulary concentration and corporate cliché density. No model
// inference or I/O is involved, so an Evaluator is safe for concurrent use.
package likeness

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	ReasonEmpty    = "empty"
	ReasonTooShort = "too_short"
)

// Components are the independently computed sub-scores, each in [0,100].
type Components struct {
	Structural  float64 `json:"structural" yaml:"structural"`
	Lexical     float64 `json:"lexical" yaml:"lexical"`
	Boilerplate float64 `json:"boilerplate" yaml:"boilerplate"`
}

// Analysis is the detailed outcome of scoring a text.
type Analysis struct {
	Score      float64    `json:"score" yaml:"score"`
	Components Components `json:"components" yaml:"components"`
	Matches    []string   `json:"matches,omitempty" yaml:"matches,omitempty"`
	Language   Language   `json:"language,omitempty" yaml:"language,omitempty"`
	// Reason is set when a fixed fallback score was returned.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Evaluator scores texts with an immutable calibration.
type Evaluator struct {
	weights    Weights
	emptyScore float64
	shortScore float64
	minChars   int

	structural StructuralConfig
	lexical    LexicalConfig

	boilerplate BoilerplateConfig
	patterns    []*regexp.Regexp

	stopwords map[Language]map[string]struct{}
}

var defaultEvaluator = mustNewEvaluator(DefaultConfig())

// Default returns the evaluator built from DefaultConfig.
func Default() *Evaluator {
	return defaultEvaluator
}

// Evaluate scores text with the default calibration.
func Evaluate(text string) float64 {
	return defaultEvaluator.Evaluate(text)
}

// NewEvaluator validates the configuration and compiles its patterns.
func NewEvaluator(cfg Config) (*Evaluator, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.Lexical.TopN <= 0 {
		return nil, fmt.Errorf("lexical top-n must be positive, got %d", cfg.Lexical.TopN)
	}
	if cfg.Structural.HighVariance < cfg.Structural.LowVariance {
		return nil, fmt.Errorf("structural variance anchors are inverted: %.2f > %.2f",
			cfg.Structural.LowVariance, cfg.Structural.HighVariance)
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.Boilerplate.Patterns))
	for _, p := range cfg.Boilerplate.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile boilerplate pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	stop := make(map[Language]map[string]struct{}, len(cfg.Stopwords))
	for lang, words := range cfg.Stopwords {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = struct{}{}
		}
		stop[lang] = set
	}

	bp := cfg.Boilerplate
	bp.Patterns = append([]string(nil), cfg.Boilerplate.Patterns...)

	return &Evaluator{
		weights:     cfg.Weights,
		emptyScore:  cfg.EmptyScore,
		shortScore:  cfg.ShortScore,
		minChars:    cfg.MinChars,
		structural:  cfg.Structural,
		lexical:     cfg.Lexical,
		boilerplate: bp,
		patterns:    patterns,
		stopwords:   stop,
	}, nil
}

func mustNewEvaluator(cfg Config) *Evaluator {
	e, err := NewEvaluator(cfg)
	if err != nil {
		panic(fmt.Sprintf("likeness: invalid default config: %v", err))
	}
	return e
}

// Evaluate returns the likeness score of text in [0,100].
func (e *Evaluator) Evaluate(text string) float64 {
	return e.Analyze(text).Score
}

// Analyze scores text and returns the sub-scores behind the result.
func (e *Evaluator) Analyze(text string) Analysis {
	clean := strings.TrimSpace(strings.ToValidUTF8(text, "�"))
	if clean == "" {
		return Analysis{Score: e.emptyScore, Reason: ReasonEmpty}
	}
	// Sign-offs and one-liners are suspicious but not certainly templated.
	if utf8.RuneCountInString(clean) < e.minChars {
		return Analysis{Score: e.shortScore, Reason: ReasonTooShort}
	}

	matches := e.boilerplateMatches(clean)
	lexical, lang := e.lexicalScore(clean)
	c := Components{
		Structural:  e.structuralScore(clean),
		Lexical:     lexical,
		Boilerplate: e.boilerplateScore(len(matches)),
	}

	score := e.weights.Structural*c.Structural +
		e.weights.Lexical*c.Lexical +
		e.weights.Boilerplate*c.Boilerplate

	return Analysis{
		Score:      clamp(score, 0, 100),
		Components: c,
		Matches:    matches,
		Language:   lang,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
