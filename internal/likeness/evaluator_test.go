package likeness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioText = "I am thrilled to leverage my skills. I am passionate about results-driven teams."

func TestEvaluateFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect float64
		reason string
	}{
		{name: "empty", input: "", expect: 95, reason: ReasonEmpty},
		{name: "whitespace only", input: " \n\t  ", expect: 95, reason: ReasonEmpty},
		{name: "greeting", input: "Hi.", expect: 88, reason: ReasonTooShort},
		{name: "sign-off", input: "Kind regards,\nJohn Smith", expect: 88, reason: ReasonTooShort},
		{name: "single character", input: "a", expect: 88, reason: ReasonTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := Default().Analyze(tt.input)
			assert.Equal(t, tt.expect, a.Score)
			assert.Equal(t, tt.reason, a.Reason)
		})
	}

	assert.NotEqual(t, Evaluate(""), Evaluate("Hi."))
}

func TestEvaluateRangeAndDeterminism(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"x",
		"\xff\xfe\xfd invalid bytes that keep going for a while without any punctuation at all",
		strings.Repeat("Results-driven leader passionate about synergy. ", 400),
		"Une phrase en français, écrite pour vérifier que le score reste borné. Et une autre, très courte!",
		"no sentence punctuation here just a long stream of lowercase words that never ends properly",
		"!!! ??? ... !!! ??? ... !!! ??? ... !!! ??? ... !!! ??? ... !!!",
		scenarioText,
	}

	for _, input := range inputs {
		first := Evaluate(input)
		assert.GreaterOrEqual(t, first, 0.0)
		assert.LessOrEqual(t, first, 100.0)
		for range 3 {
			assert.Equal(t, first, Evaluate(input), "score must be stable for %q", input)
		}
	}
}

func TestStructuralScore(t *testing.T) {
	t.Parallel()

	e := Default()
	tests := []struct {
		name   string
		input  string
		expect float64
	}{
		{name: "single sentence is inconclusive", input: "This sentence has no terminal punctuation and goes on", expect: 90},
		{name: "flat cadence", input: "One two three. Four five six. Seven eight nine.", expect: 85},
		{name: "repeated terminators count once", input: "One two three!!! Four five six?! Seven eight nine...", expect: 85},
		{name: "moderate variance", input: "One two. One two three four five six seven eight.", expect: 85 - 1.1*9},
		{name: "bursty cadence", input: "Yes. " + strings.Repeat("word ", 20) + "end.", expect: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expect, e.structuralScore(tt.input), 1e-9)
		})
	}
}

func distinctWords(n int) []string {
	words := make([]string, 0, n)
	for i := range n {
		words = append(words, "w"+string(rune('a'+i/26))+string(rune('a'+i%26)))
	}
	return words
}

func TestLexicalScore(t *testing.T) {
	t.Parallel()

	e := Default()
	tests := []struct {
		name   string
		input  string
		expect float64
		lang   Language
	}{
		{name: "too few tokens", input: "short text with only a few words", expect: 85, lang: English},
		{name: "only stopwords", input: strings.Repeat("the ", 30), expect: 80, lang: English},
		{name: "single dominant word", input: strings.Repeat("data ", 30), expect: 90, lang: English},
		{name: "flat vocabulary", input: strings.Join(distinctWords(30), " "), expect: 30 + 60.0/8, lang: English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, lang := e.lexicalScore(tt.input)
			assert.InDelta(t, tt.expect, score, 1e-9)
			assert.Equal(t, tt.lang, lang)
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, French, DetectLanguage("Je suis très motivé par ce poste."))
	assert.Equal(t, French, DetectLanguage("CAFÉ"))
	assert.Equal(t, English, DetectLanguage("I am motivated by this role."))
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("I'm a Results-Driven engineer, très motivé; don’t panic 42x")
	assert.Equal(t, []string{"i'm", "a", "results", "driven", "engineer", "très", "motivé", "don’t", "panic", "x"}, got)
}

func TestBoilerplate(t *testing.T) {
	t.Parallel()

	e := Default()
	tests := []struct {
		name   string
		input  string
		hits   int
		expect float64
	}{
		{name: "no clichés", input: "I shipped the billing service and fixed the deploy scripts.", hits: 0, expect: 40},
		{name: "hyphen and space variants", input: "Results driven and detail oriented.", hits: 2, expect: 60},
		{name: "scenario", input: scenarioText, hits: 4, expect: 80},
		{
			name: "saturated",
			input: "A results-driven, detail-oriented, motivated self-starter with a proven track record, " +
				"passionate about growth, thriving in a fast-paced environment and responsible for delivery.",
			hits:   7,
			expect: 95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			matches := e.boilerplateMatches(tt.input)
			assert.Len(t, matches, tt.hits)
			assert.Equal(t, tt.expect, e.boilerplateScore(len(matches)))
		})
	}
}

func TestAnalyzeScenario(t *testing.T) {
	t.Parallel()

	a := Default().Analyze(scenarioText)
	assert.Empty(t, a.Reason)
	assert.Equal(t, Components{Structural: 85, Lexical: 85, Boilerplate: 80}, a.Components)
	assert.InDelta(t, 84, a.Score, 1e-9)
}

func TestClicheRepetitionScoresHigher(t *testing.T) {
	t.Parallel()

	cliche := strings.Repeat("I am results-driven at work. ", 6)
	varied := "I am focused at work. I am careful at work. I am steady at work. " +
		"I am diligent at work. I am practical at work. I am thorough at work."

	c := Default().Analyze(cliche)
	v := Default().Analyze(varied)

	assert.Greater(t, c.Components.Boilerplate, v.Components.Boilerplate)
	assert.Greater(t, c.Score, v.Score)
}

func TestNewEvaluatorValidation(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Weights = Weights{Structural: 0.5, Lexical: 0.5, Boilerplate: 0.5}
	_, err := NewEvaluator(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.Boilerplate.Patterns = []string{"("}
	_, err = NewEvaluator(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.Lexical.TopN = 0
	_, err = NewEvaluator(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.Weights = Weights{Structural: 1}
	e, err := NewEvaluator(cfg)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, e.Evaluate("One two three. Four five six. Seven eight nine. Ten eleven twelve."), 1e-9)
}

func TestConfigIsCopied(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	e, err := NewEvaluator(cfg)
	require.NoError(t, err)

	before := e.Evaluate(scenarioText)
	cfg.Boilerplate.Patterns[0] = "nothing matches this"
	cfg.Stopwords[English][0] = "thrilled"
	assert.Equal(t, before, e.Evaluate(scenarioText))
}
