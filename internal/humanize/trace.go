package humanize

// IterationRecord is one step of an optimization trace. Iteration 0 is the
// baseline.
type IterationRecord struct {
	Iter  int     `json:"iter" yaml:"iter" mapstructure:"iter"`
	Score float64 `json:"score" yaml:"score" mapstructure:"score"`
	Note  string  `json:"note" yaml:"note" mapstructure:"note"`
}

// Result is the trace of a single optimization call. Its serialized shape
// {label, target, max_iterations, runs:[{iter, score, note}]} is consumed by
// report readers and must stay stable.
type Result struct {
	Label         string            `json:"label" yaml:"label" mapstructure:"label"`
	Target        int               `json:"target" yaml:"target" mapstructure:"target"`
	MaxIterations int               `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`
	Runs          []IterationRecord `json:"runs" yaml:"runs" mapstructure:"runs"`
}

const baselineNote = "baseline"

func (r *Result) append(rec IterationRecord) {
	r.Runs = append(r.Runs, rec)
}

// Map returns the trace as a nested map with the stable report shape.
func (r *Result) Map() map[string]any {
	runs := make([]map[string]any, 0, len(r.Runs))
	for _, rec := range r.Runs {
		runs = append(runs, map[string]any{
			"iter":  rec.Iter,
			"score": rec.Score,
			"note":  rec.Note,
		})
	}
	return map[string]any{
		"label":          r.Label,
		"target":         r.Target,
		"max_iterations": r.MaxIterations,
		"runs":           runs,
	}
}

// Baseline returns the iteration 0 record.
func (r *Result) Baseline() IterationRecord {
	if len(r.Runs) == 0 {
		return IterationRecord{}
	}
	return r.Runs[0]
}

// Final returns the last recorded iteration.
func (r *Result) Final() IterationRecord {
	if len(r.Runs) == 0 {
		return IterationRecord{}
	}
	return r.Runs[len(r.Runs)-1]
}

// Best returns the earliest record with the lowest score.
func (r *Result) Best() IterationRecord {
	if len(r.Runs) == 0 {
		return IterationRecord{}
	}
	best := r.Runs[0]
	for _, rec := range r.Runs[1:] {
		if rec.Score < best.Score {
			best = rec
		}
	}
	return best
}

// Delta is the best score minus the baseline score; zero or negative.
func (r *Result) Delta() float64 {
	return r.Best().Score - r.Baseline().Score
}

// Passes is the number of humanization passes that were recorded.
func (r *Result) Passes() int {
	return max(0, len(r.Runs)-1)
}

// Evaluated reports whether the baseline was actually scored. A trace whose
// only record is a diagnostic carries no score.
func (r *Result) Evaluated() bool {
	return r != nil && len(r.Runs) > 0 && r.Runs[0].Note == baselineNote
}

// ReachedTarget reports whether the best score is at or below the target.
func (r *Result) ReachedTarget() bool {
	return r.Evaluated() && r.Best().Score <= float64(r.Target)
}
