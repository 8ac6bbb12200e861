package likeness

import (
	"errors"
	"fmt"
	"math"
)

// Language identifies the stopword list used by the lexical scorer.
type Language string

const (
	English Language = "en"
	French  Language = "fr"
)

// Weights combine the sub-scores into a single likeness score.
type Weights struct {
	Structural  float64 `json:"structural" yaml:"structural"`
	Lexical     float64 `json:"lexical" yaml:"lexical"`
	Boilerplate float64 `json:"boilerplate" yaml:"boilerplate"`
}

const weightsTolerance = 1e-9

// Validate reports an error when a weight is negative or the weights do not sum to 1.
func (w Weights) Validate() error {
	if w.Structural < 0 || w.Lexical < 0 || w.Boilerplate < 0 {
		return errors.New("weights must not be negative")
	}
	sum := w.Structural + w.Lexical + w.Boilerplate
	if math.Abs(sum-1) > weightsTolerance {
		return fmt.Errorf("weights must sum to 1, got %.6f", sum)
	}
	return nil
}

// StructuralConfig calibrates the sentence-length flatness scorer.
type StructuralConfig struct {
	InconclusiveScore float64
	LowVariance       float64
	HighVariance      float64
	MaxScore          float64
	MinScore          float64
	Slope             float64
}

// LexicalConfig calibrates the vocabulary concentration scorer.
type LexicalConfig struct {
	MinTokens      int
	ShortScore     float64
	NoContentScore float64
	TopN           int
	Floor          float64
	Span           float64
}

// BoilerplateConfig calibrates the cliché density scorer.
type BoilerplateConfig struct {
	Patterns       []string
	NoHitScore     float64
	PerHit         float64
	SaturationHits int
	SaturatedScore float64
}

// Config holds every calibration constant of the evaluator. An Evaluator copies
// what it needs at construction time, so later changes to a Config value have
// no effect on evaluators built from it.
type Config struct {
	Weights    Weights
	EmptyScore float64
	ShortScore float64
	MinChars   int

	Structural  StructuralConfig
	Lexical     LexicalConfig
	Boilerplate BoilerplateConfig

	Stopwords map[Language][]string
}

// DefaultConfig returns the calibration the scores are tuned for.
// The anchors were chosen empirically and are kept as is for parity.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Structural:  0.45,
			Lexical:     0.35,
			Boilerplate: 0.20,
		},
		EmptyScore: 95,
		ShortScore: 88,
		MinChars:   50,
		Structural: StructuralConfig{
			InconclusiveScore: 90,
			LowVariance:       1,
			HighVariance:      50,
			MaxScore:          85,
			MinScore:          30,
			Slope:             1.1,
		},
		Lexical: LexicalConfig{
			MinTokens:      30,
			ShortScore:     85,
			NoContentScore: 80,
			TopN:           8,
			Floor:          30,
			Span:           60,
		},
		Boilerplate: BoilerplateConfig{
			Patterns:       defaultBoilerplatePatterns(),
			NoHitScore:     40,
			PerHit:         10,
			SaturationHits: 6,
			SaturatedScore: 95,
		},
		Stopwords: map[Language][]string{
			English: englishStopwords(),
			French:  frenchStopwords(),
		},
	}
}

func defaultBoilerplatePatterns() []string {
	return []string{
		`results[- ]driven`,
		`passionate about`,
		`dynamic (?:team player|professional)`,
		`fast[- ]paced environment`,
		`detail[- ]oriented`,
		`strong communication skills`,
		`motivated self[- ]starter`,
		`proven track record`,
		`responsible for`,
		`in charge of`,
		`leads? cross[- ]functional teams`,
		`\bi(?: am|'m|’m) thrilled\b`,
		`\bleverag(?:e|es|ed|ing)\b`,
	}
}

func englishStopwords() []string {
	return []string{
		"the", "a", "an", "to", "and", "or", "for", "of", "with", "in", "on", "at", "from", "by",
		"is", "are", "was", "were", "be", "been", "being", "that", "which", "who", "whom", "whose",
		"as", "if", "while", "it", "this", "these", "those", "i", "you", "he", "she", "they", "we",
		"me", "my", "mine", "your", "yours", "his", "her", "hers", "their", "theirs", "our", "ours",
	}
}

func frenchStopwords() []string {
	return []string{
		"le", "la", "les", "un", "une", "des", "et", "ou", "pour", "de", "du", "au", "aux", "avec",
		"dans", "sur", "par", "est", "sont", "était", "étaient", "être", "été", "étant", "que", "qui",
		"ce", "cette", "ces", "je", "tu", "il", "elle", "nous", "vous", "ils", "elles", "moi", "mon",
		"ma", "mes", "ton", "ta", "tes", "son", "sa", "ses", "leur", "leurs", "notre", "nos", "votre", "vos",
	}
}
