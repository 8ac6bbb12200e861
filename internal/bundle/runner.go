package bundle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/likeness-guard/internal/ai"
	"github.com/spigell/likeness-guard/internal/humanize"
	"github.com/spigell/likeness-guard/internal/logger"
)

const DefaultLLMMargin = 5

// Scores holds per-region scores and their weighted overall.
type Scores struct {
	Regions map[string]float64 `json:"regions" yaml:"regions"`
	Overall int                `json:"overall" yaml:"overall"`
}

// Outcome is the result of a bundle run.
type Outcome struct {
	Regions   Regions
	Results   []*humanize.Result
	Before    Scores
	After     Scores
	Rewritten []string
}

// Options configures a Runner.
type Options struct {
	Target        int
	MaxIterations int
	LLMMargin     float64
	Weights       Weights
	Rewriter      ai.Rewriter
	Logger        *zap.Logger
}

// Runner optimizes every region of a document.
type Runner struct {
	optimizer *humanize.Optimizer
	scorer    humanize.Scorer
	rewriter  ai.Rewriter
	target    int
	maxIters  int
	margin    float64
	weights   Weights
	logger    *zap.Logger
}

func NewRunner(optimizer *humanize.Optimizer, scorer humanize.Scorer, opts Options) *Runner {
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Runner{
		optimizer: optimizer,
		scorer:    scorer,
		rewriter:  opts.Rewriter,
		target:    opts.Target,
		maxIters:  opts.MaxIterations,
		margin:    opts.LLMMargin,
		weights:   opts.Weights,
		logger:    opts.Logger,
	}
}

type regionOutcome struct {
	text      string
	results   []*humanize.Result
	rewritten bool
}

// Run optimizes the non-empty regions of doc concurrently. doc is not
// modified; pass Outcome.Regions to Apply to commit the result.
func (r *Runner) Run(ctx context.Context, doc Document) (*Outcome, error) {
	regions, err := Extract(doc)
	if err != nil {
		return nil, err
	}

	names := Names()
	outcomes := make([]regionOutcome, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		text := regions.Get(name)
		if text == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := r.region(ctx, name, text)
			if err != nil {
				return fmt.Errorf("%s: %w", Label(name), err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outcome := &Outcome{Regions: regions}
	for i, name := range names {
		o := outcomes[i]
		if o.text == "" {
			continue
		}
		outcome.Regions.Set(name, o.text)
		outcome.Results = append(outcome.Results, o.results...)
		if o.rewritten {
			outcome.Rewritten = append(outcome.Rewritten, Label(name))
		}
	}

	outcome.Before = r.scores(regions)
	outcome.After = r.scores(outcome.Regions)

	r.logger.Info("bundle optimized",
		zap.Int("overall_before", outcome.Before.Overall),
		zap.Int("overall_after", outcome.After.Overall),
		zap.Int(logger.FieldTarget, r.target),
		zap.Strings("rewritten", outcome.Rewritten),
	)

	return outcome, nil
}

func (r *Runner) region(ctx context.Context, name, text string) (regionOutcome, error) {
	label := Label(name)
	log := logger.WithCommonFields(r.logger, label, "bundle")

	var out regionOutcome
	if name == RegionExperience {
		lines := SplitBullets(text)
		for i, line := range lines {
			best, result := r.optimizer.Reduce(line,
				humanize.WithLabel(fmt.Sprintf("%s[%d]", label, i+1)),
				humanize.WithTarget(r.target),
				humanize.WithMaxIterations(r.maxIters),
				humanize.WithoutExpansion(),
			)
			lines[i] = best
			out.results = append(out.results, result)
		}
		out.text = strings.Join(lines, "\n")
	} else {
		best, result := r.optimizer.Reduce(text,
			humanize.WithLabel(label),
			humanize.WithTarget(r.target),
			humanize.WithMaxIterations(r.maxIters),
		)
		out.text = best
		out.results = append(out.results, result)
	}

	current := r.scorer.Evaluate(out.text)
	if r.rewriter == nil || current <= float64(r.target)+r.margin {
		return out, nil
	}

	candidate, err := r.rewriter.Rewrite(ctx, label, out.text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		log.Warn("rewrite failed, keeping local result", zap.Error(err))
		return out, nil
	}

	candidate = strings.TrimSpace(candidate)
	if err := ai.Check(text, candidate); err != nil {
		log.Warn("rewrite discarded", zap.Error(err))
		return out, nil
	}
	if name == RegionExperience && len(SplitBullets(candidate)) != len(SplitBullets(out.text)) {
		log.Warn("rewrite discarded", zap.String("reason", "bullet count changed"))
		return out, nil
	}

	score := r.scorer.Evaluate(candidate)
	log.Info("rewrite scored", zap.Float64("before", current), zap.Float64("after", score))
	if score < current {
		out.text = candidate
		out.rewritten = true
	}
	return out, nil
}

func (r *Runner) scores(regions Regions) Scores {
	s := Scores{Regions: map[string]float64{}}
	for _, name := range Names() {
		if text := regions.Get(name); text != "" {
			s.Regions[name] = r.scorer.Evaluate(text)
		}
	}
	s.Overall = Overall(s.Regions, r.weights)
	return s
}
