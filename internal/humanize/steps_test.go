package humanize

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestApplyRules(t *testing.T) {
	cliches := compileRules(ClicheRules())
	contractions := compileRules(ContractionRules())

	tests := []struct {
		name  string
		rules []compiledRule
		in    string
		want  string
	}{
		{name: "keeps sentence case", rules: cliches, in: "Leverage synergy daily.", want: "Use collaboration daily."},
		{name: "longer phrase first", rules: cliches, in: "I am thrilled to join.", want: "I'm interested to join."},
		{name: "hyphen or space", rules: cliches, in: "a fast paced and results driven team", want: "a busy and focused on outcomes team"},
		{name: "word boundary", rules: cliches, in: "leveraged leverages leverageable", want: "use use leverageable"},
		{name: "contractions", rules: contractions, in: "I do not think it is done.", want: "I don't think it's done."},
		{name: "capitalised contraction", rules: contractions, in: "It is late. That is fine.", want: "It's late. That's fine."},
		{name: "untouched", rules: contractions, in: "Nothing to change here.", want: "Nothing to change here."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyRules(tt.in, tt.rules))
		})
	}
}

func TestCollapseIntensifiers(t *testing.T) {
	re := intensifierPattern(Intensifiers())

	assert.Equal(t, "a very good plan", collapseIntensifiers("a really very good plan", re))
	assert.Equal(t, "Deeply committed", collapseIntensifiers("Really truly deeply committed", re))
	assert.Equal(t, "a very good plan", collapseIntensifiers("a very good plan", re))
}

func TestMatchCase(t *testing.T) {
	assert.Equal(t, "Use", matchCase("Leverage", "use"))
	assert.Equal(t, "use", matchCase("leverage", "use"))
	assert.Equal(t, "I'm", matchCase("i am", "I'm"))
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("  One. Two!  Three?\nFour  ")
	assert.Equal(t, []string{"One.", "Two!", "Three?", "Four"}, got)
	assert.Empty(t, splitSentences("   "))
}

func TestVaryCadence(t *testing.T) {
	long := "We rebuilt the reporting stack for the finance group over two quarters, and the monthly close now finishes two days earlier than before because the reconciliation jobs run overnight without any manual checks."
	noBreak := "Short, then a very long clause that keeps going and going without stopping so that the sentence is long enough to need a break somewhere near the end of the line here and then some more words."

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "merges short sentences",
			in:   "Yes.\nI agree.\nThis sentence is comfortably longer than forty characters.",
			want: "Yes. I agree. This sentence is comfortably longer than forty characters.",
		},
		{
			name: "splits long sentence at clause break",
			in:   long,
			want: "We rebuilt the reporting stack for the finance group over two quarters. And the monthly close now finishes two days earlier than before because the reconciliation jobs run overnight without any manual checks.",
		},
		{
			name: "no clause break past the head",
			in:   noBreak,
			want: noBreak,
		},
		{
			name: "blank",
			in:   "  ",
			want: "  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, varyCadence(tt.in, minSentenceChars, maxSentenceChars))
		})
	}
}

func TestSplitSignature(t *testing.T) {
	re := valedictionPattern(Valedictions())

	tests := []struct {
		name string
		in   string
		want Regions
	}{
		{
			name: "english sign-off",
			in:   "Hello team.\n\nBest regards,\nAnna",
			want: Regions{Main: "Hello team.", Signature: "Best regards,\nAnna"},
		},
		{
			name: "french sign-off",
			in:   "Merci pour votre temps.\nCordialement\nMarie",
			want: Regions{Main: "Merci pour votre temps.", Signature: "Cordialement\nMarie"},
		},
		{
			name: "sign-off must be its own line",
			in:   "Thanks for the call yesterday.",
			want: Regions{Main: "Thanks for the call yesterday."},
		},
		{
			name: "signature only",
			in:   "Thanks,\nBob",
			want: Regions{Main: "", Signature: "Thanks,\nBob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSignature(tt.in, re)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegionsJoin(t *testing.T) {
	assert.Equal(t, "Body", Regions{Main: "Body"}.Join())
	assert.Equal(t, "Body\n\nKind regards,\nJo", Regions{Main: "Body", Signature: "Kind regards,\nJo"}.Join())
	assert.Equal(t, "Thanks,\nBob", Regions{Main: " \n", Signature: "Thanks,\nBob"}.Join())
	assert.False(t, Regions{Main: "Body"}.HasSignature())
}

func TestPickHints(t *testing.T) {
	vocab := DefaultVocabulary()

	assert.Equal(t, hintSet{verb: "analyze", object: "pricing", detail: "accuracy"},
		pickHints("We Analyze pricing for accuracy every week.", vocab))
	assert.Equal(t, hintSet{verb: "work on", object: "the work", detail: "clarity"}, pickHints("", vocab))
}

func TestStockPatternsStripRenderedTemplates(t *testing.T) {
	templates := append(expansionTemplates(), nextStepTemplates()...)
	patterns := make([]*regexp.Regexp, 0, len(templates))
	for _, tpl := range templates {
		patterns = append(patterns, stockPattern(tpl))
	}

	hints := []hintSet{
		{verb: "build", object: "pipeline", detail: "quality"},
		{verb: "work on", object: "the work", detail: "clarity"},
	}
	for _, h := range hints {
		body := "Original sentence stays."
		for _, tpl := range templates {
			body += " " + render(tpl, h)
		}
		assert.Equal(t, "Original sentence stays.", stripStock(body, patterns))
	}
}

func TestExpand(t *testing.T) {
	h := hintSet{verb: "lead", object: "team", detail: "scope"}

	out := expand("I lead a small team.", 200, expansionTemplates(), h)
	assert.True(t, strings.HasPrefix(out, "I lead a small team. In practice that means I lead team with attention to scope."))
	assert.GreaterOrEqual(t, runeLen(out), 200)

	assert.Equal(t, "Already long.", expand("Already long.", 5, expansionTemplates(), h))
}

func TestExpansionOrder(t *testing.T) {
	templates := []string{"first", "second", "third"}

	assert.Equal(t, []string{"first", "next", "second", "third"}, expansionOrder(templates, "next"))
	assert.Equal(t, templates, expansionOrder(templates, ""))
	assert.Empty(t, expansionOrder(nil, "next"))
}

func TestNextStepTemplatesRenderCleanly(t *testing.T) {
	fallback := pickHints("", DefaultVocabulary())
	for _, tpl := range nextStepTemplates() {
		out := render(tpl, fallback)
		assert.NotContains(t, out, "the the", tpl)
		assert.NotContains(t, out, "{", tpl)
	}
}

func TestPickers(t *testing.T) {
	first := HashPicker("some body", 3)
	assert.Equal(t, first, HashPicker("some body", 3))
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 3)
	assert.Zero(t, HashPicker("x", 0))

	assert.Equal(t, 2, FixedPicker(5)("", 3))
	assert.Equal(t, 1, FixedPicker(1)("", 3))
	assert.Zero(t, FixedPicker(-1)("", 3))

	a, b := SeededPicker(7), SeededPicker(7)
	for range 10 {
		v := a("", 5)
		assert.Equal(t, v, b("", 5))
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
}

func TestExpansionUsesPickerForNextStep(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{index: 0, want: "I'd be glad to talk through the work in a short call."},
		{index: 1, want: "If it helps I can share more detail on the work in a follow-up call."},
		{index: 2, want: "Happy to discuss how I build the work in a quick call."},
	}

	for _, tt := range tests {
		step := &expandStep{
			minLen:    140,
			targetLen: 1000,
			templates: expansionTemplates()[:1],
			nextSteps: nextStepTemplates(),
			vocab:     DefaultVocabulary(),
			pick:      FixedPicker(tt.index),
		}

		pass := &Pass{Label: "CL:body", Source: "I build things."}
		out, err := step.Apply("I build things.", pass)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, tt.want), out)
		assert.NotContains(t, out, "the the")
		require.Len(t, pass.Notes, 1)
		assert.Contains(t, pass.Notes[0], "expanded")
	}
}

func TestExpansionAddsNextStepWithDefaultLengths(t *testing.T) {
	step := &expandStep{
		minLen:    minExpandChars,
		targetLen: targetExpandChars,
		templates: expansionTemplates(),
		nextSteps: nextStepTemplates(),
		vocab:     DefaultVocabulary(),
		pick:      FixedPicker(0),
	}

	for _, body := range []string{"Hi there.", "I build the pipeline and care about quality.", "I'm interested to use my skills. I'm serious about focused on outcomes teams."} {
		out, err := step.Apply(body, &Pass{Label: "CL:body", Source: body})
		require.NoError(t, err)
		assert.Contains(t, out, "in a short call.", body)
		assert.GreaterOrEqual(t, runeLen(out), targetExpandChars, body)
	}
}

type panicStep struct{}

func (panicStep) Name() string                        { return "boom" }
func (panicStep) Apply(string, *Pass) (string, error) { panic("unexpected input") }

type failStep struct{}

func (failStep) Name() string                        { return "fail" }
func (failStep) Apply(string, *Pass) (string, error) { return "garbage", errors.New("nope") }

func TestRunStepsSkipsFailingSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	steps := []Transform{
		panicStep{},
		failStep{},
		&ruleStep{name: "contractions", rules: compileRules(ContractionRules())},
	}

	pass := &Pass{Iteration: 2}
	out := runSteps(zap.New(core), steps, "I am here.", pass)

	assert.Equal(t, "I'm here.", out)
	require.Len(t, pass.Notes, 2)
	assert.Contains(t, pass.Notes[0], "step boom skipped")
	assert.Contains(t, pass.Notes[1], "step fail skipped")
	assert.Len(t, observed.FilterMessage("humanize step skipped").All(), 2)
	assert.Len(t, observed.FilterMessage("humanize step").All(), 1)
}
