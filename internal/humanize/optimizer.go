// Package humanize rewrites text to lower its likeness score without adding
// facts. An Optimizer runs a bounded greedy hill climb over a fixed pipeline of
// text transforms and keeps the best variant it has seen.
package humanize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/likeness-guard/internal/likeness"
	"github.com/spigell/likeness-guard/internal/logger"
)

const (
	DefaultTarget        = 35
	DefaultMaxIterations = 3
	defaultLabel         = "text"

	minSentenceChars  = 40
	maxSentenceChars  = 180
	minExpandChars    = 140
	targetExpandChars = 200
)

// Scorer returns a likeness score in [0,100] for a text.
type Scorer interface {
	Evaluate(text string) float64
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Evaluate(text string) float64 { return f(text) }

// Optimizer is immutable after construction and safe for concurrent use.
type Optimizer struct {
	scorer    Scorer
	logger    *zap.Logger
	signature *regexp.Regexp
	steps     []Transform
}

// Option configures an Optimizer.
type Option func(*settings)

type settings struct {
	logger       *zap.Logger
	picker       Picker
	vocab        Vocabulary
	minExpand    int
	targetExpand int
	suppress     []string
	valedictions []string
	cliches      []Rule
	contractions []Rule
	intensifiers []string
}

// WithLogger sets the logger used for progress entries.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithPicker sets how the optional next-step sentence is chosen.
func WithPicker(p Picker) Option {
	return func(s *settings) {
		if p != nil {
			s.picker = p
		}
	}
}

// WithVocabulary replaces the hint vocabulary used by the expansion step.
func WithVocabulary(v Vocabulary) Option {
	return func(s *settings) { s.vocab = v }
}

// WithExpansion sets the body length below which expansion fires and the
// soft length it expands towards.
func WithExpansion(minChars, targetChars int) Option {
	return func(s *settings) {
		s.minExpand = minChars
		s.targetExpand = targetChars
	}
}

// WithRules replaces the cliché and contraction tables.
func WithRules(cliches, contractions []Rule) Option {
	return func(s *settings) {
		s.cliches = cliches
		s.contractions = contractions
	}
}

// New builds an optimizer around scorer. A nil scorer is allowed: Reduce then
// degrades to returning its input with a diagnostic trace.
func New(scorer Scorer, opts ...Option) *Optimizer {
	s := &settings{
		picker:       HashPicker,
		vocab:        DefaultVocabulary(),
		minExpand:    minExpandChars,
		targetExpand: targetExpandChars,
		suppress:     []string{"closing", "intro"},
		valedictions: Valedictions(),
		cliches:      ClicheRules(),
		contractions: ContractionRules(),
		intensifiers: Intensifiers(),
	}
	for _, opt := range opts {
		opt(s)
	}

	templates := expansionTemplates()
	nextSteps := nextStepTemplates()
	stock := make([]*regexp.Regexp, 0, len(templates)+len(nextSteps))
	for _, tpl := range append(append([]string(nil), templates...), nextSteps...) {
		stock = append(stock, stockPattern(tpl))
	}

	steps := []Transform{
		&ruleStep{name: "cliches", rules: compileRules(s.cliches)},
		&ruleStep{name: "contractions", rules: compileRules(s.contractions)},
		&intensifierStep{re: intensifierPattern(s.intensifiers)},
		&cadenceStep{minLen: minSentenceChars, maxLen: maxSentenceChars},
		&stripStep{patterns: stock},
		&expandStep{
			minLen:     s.minExpand,
			targetLen:  s.targetExpand,
			templates:  templates,
			nextSteps:  nextSteps,
			vocab:      s.vocab,
			pick:       s.picker,
			stock:      stock,
			suppressed: s.suppress,
		},
	}

	return &Optimizer{
		scorer:    scorer,
		logger:    logger.WithFields(s.logger),
		signature: valedictionPattern(s.valedictions),
		steps:     steps,
	}
}

var defaultOptimizer = New(likeness.Default())

// Reduce runs the default optimizer backed by the default evaluator.
func Reduce(text string, opts ...ReduceOption) (string, *Result) {
	return defaultOptimizer.Reduce(text, opts...)
}

// ReduceOption configures a single Reduce call.
type ReduceOption func(*request)

type request struct {
	target        int
	maxIterations int
	label         string
	noExpand      bool
}

// WithTarget stops the search once the best score is at or below target.
func WithTarget(target int) ReduceOption {
	return func(r *request) { r.target = target }
}

// WithMaxIterations bounds the number of humanization passes.
func WithMaxIterations(n int) ReduceOption {
	return func(r *request) { r.maxIterations = max(0, n) }
}

// WithLabel attributes the trace and logs. Labels containing "closing" or
// "intro" suppress template expansion.
func WithLabel(label string) ReduceOption {
	return func(r *request) { r.label = strings.TrimSpace(label) }
}

// WithoutExpansion disables template expansion for this call, e.g. for
// resume bullets that must stay one line.
func WithoutExpansion() ReduceOption {
	return func(r *request) { r.noExpand = true }
}

var errNoScorer = errors.New("no scorer configured")

// Reduce returns the lowest-scoring variant of text found within the
// iteration budget, together with the full trace. It never panics: a failing
// transform is skipped and a failing scorer ends the search early.
func (o *Optimizer) Reduce(text string, opts ...ReduceOption) (string, *Result) {
	req := request{target: DefaultTarget, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&req)
	}
	if req.label == "" {
		req.label = defaultLabel
	}

	result := &Result{Label: req.label, Target: req.target, MaxIterations: req.maxIterations}
	log := logger.WithCommonFields(o.logger, req.label, "humanize")

	baseline, err := o.score(text)
	if err != nil {
		result.append(IterationRecord{Iter: 0, Note: fmt.Sprintf("evaluator unavailable: %v", err)})
		log.Warn("likeness baseline failed", zap.Error(err))
		return text, result
	}

	result.append(IterationRecord{Iter: 0, Score: baseline, Note: baselineNote})
	log.Info("likeness baseline", logger.Progress(0, baseline, req.target)...)

	current, best, bestScore := text, text, baseline
	for i := 1; i <= req.maxIterations; i++ {
		if bestScore <= float64(req.target) {
			break
		}

		candidate, notes := o.pass(log, current, req, i)
		score, err := o.score(candidate)
		if err != nil {
			result.append(IterationRecord{Iter: i, Score: bestScore, Note: fmt.Sprintf("evaluator failed: %v", err)})
			log.Warn("likeness evaluation failed", zap.Int(logger.FieldIteration, i), zap.Error(err))
			break
		}

		if candidate == current {
			notes = append(notes, "no change")
		}
		result.append(IterationRecord{Iter: i, Score: score, Note: strings.Join(notes, "; ")})
		log.Info("likeness iteration", logger.Progress(i, score, req.target)...)

		if score < bestScore {
			best, bestScore = candidate, score
		}
		current = candidate
	}

	return best, result
}

// pass applies one humanization pass to the main body of text.
func (o *Optimizer) pass(log *zap.Logger, text string, req request, iteration int) (string, []string) {
	regions := splitSignature(text, o.signature)

	p := &Pass{Label: req.label, Iteration: iteration, Source: regions.Main}
	steps := o.steps
	if req.noExpand {
		steps = withoutExpansion(steps)
	}
	regions.Main = runSteps(log, steps, regions.Main, p)

	for _, n := range p.Notes {
		log.Info("humanize pass", zap.Int("iteration", iteration), zap.String("note", n))
	}
	return regions.Join(), p.Notes
}

func withoutExpansion(steps []Transform) []Transform {
	out := make([]Transform, 0, len(steps))
	for _, s := range steps {
		if e, ok := s.(*expandStep); ok {
			disabled := *e
			disabled.disabled = true
			out = append(out, &disabled)
			continue
		}
		out = append(out, s)
	}
	return out
}

func (o *Optimizer) score(text string) (score float64, err error) {
	if o.scorer == nil {
		return 0, errNoScorer
	}
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("scorer panicked: %v", r)
		}
	}()
	return o.scorer.Evaluate(text), nil
}
