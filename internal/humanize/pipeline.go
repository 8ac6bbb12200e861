package humanize

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Transform is a single step of a humanization pass. Steps operate on the main
// body only; the signature block never reaches them.
type Transform interface {
	Name() string
	Apply(body string, pass *Pass) (string, error)
}

// Pass carries per-pass context shared by the steps.
type Pass struct {
	Label     string
	Iteration int
	// Source is the body as it was before the pass started.
	Source string
	Notes  []string
}

// Note records a diagnostic for the iteration trace.
func (p *Pass) Note(format string, args ...any) {
	p.Notes = append(p.Notes, fmt.Sprintf(format, args...))
}

// runSteps applies the steps in order. A step that fails or panics leaves the
// body untouched and the pass continues with the next step.
func runSteps(logger *zap.Logger, steps []Transform, body string, pass *Pass) string {
	for _, step := range steps {
		next, err := applyStep(step, body, pass)
		if err != nil {
			pass.Note("step %s skipped: %v", step.Name(), err)
			logger.Warn("humanize step skipped",
				zap.String("name", step.Name()),
				zap.Int("iteration", pass.Iteration),
				zap.Error(err),
			)
			continue
		}

		logger.Debug("humanize step",
			zap.String("name", step.Name()),
			zap.Int("before", runeLen(body)),
			zap.Int("after", runeLen(next)),
			zap.Bool("changed", next != body),
		)
		body = next
	}
	return body
}

func applyStep(step Transform, body string, pass *Pass) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = body, fmt.Errorf("recovered: %v", r)
		}
	}()
	return step.Apply(body, pass)
}

type ruleStep struct {
	name  string
	rules []compiledRule
}

func (s *ruleStep) Name() string { return s.name }

func (s *ruleStep) Apply(body string, _ *Pass) (string, error) {
	return applyRules(body, s.rules), nil
}

type intensifierStep struct {
	re *regexp.Regexp
}

func (s *intensifierStep) Name() string { return "intensifiers" }

func (s *intensifierStep) Apply(body string, _ *Pass) (string, error) {
	return collapseIntensifiers(body, s.re), nil
}

type cadenceStep struct {
	minLen int
	maxLen int
}

func (s *cadenceStep) Name() string { return "cadence" }

func (s *cadenceStep) Apply(body string, _ *Pass) (string, error) {
	return varyCadence(body, s.minLen, s.maxLen), nil
}

type stripStep struct {
	patterns []*regexp.Regexp
}

func (s *stripStep) Name() string { return "strip_stock" }

func (s *stripStep) Apply(body string, _ *Pass) (string, error) {
	return stripStock(body, s.patterns), nil
}

type expandStep struct {
	minLen     int
	targetLen  int
	templates  []string
	nextSteps  []string
	vocab      Vocabulary
	pick       Picker
	stock      []*regexp.Regexp
	suppressed []string
	disabled   bool
}

func (s *expandStep) Name() string { return "expand" }

func (s *expandStep) Apply(body string, pass *Pass) (string, error) {
	if s.disabled || s.isSuppressed(pass.Label) {
		return body, nil
	}
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || runeLen(trimmed) >= s.minLen {
		return body, nil
	}

	// Hints come from the pre-pass body, minus earlier scaffolds, so that the
	// rule tables cannot hide them and templates never feed themselves.
	hints := pickHints(stripStock(pass.Source, s.stock)+" "+trimmed, s.vocab)
	out := expand(trimmed, s.targetLen, expansionOrder(s.templates, s.nextStep(trimmed)), hints)

	if out != trimmed {
		pass.Note("expanded %d→%d chars", runeLen(trimmed), runeLen(out))
	}
	return out, nil
}

// nextStep picks one of the next-step templates for body.
func (s *expandStep) nextStep(body string) string {
	if len(s.nextSteps) == 0 {
		return ""
	}
	idx := 0
	if s.pick != nil {
		idx = s.pick(body, len(s.nextSteps))
	}
	if idx < 0 || idx >= len(s.nextSteps) {
		idx = 0
	}
	return s.nextSteps[idx]
}

func (s *expandStep) isSuppressed(label string) bool {
	lower := strings.ToLower(label)
	for _, marker := range s.suppressed {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
