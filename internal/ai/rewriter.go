// Package ai holds the optional model-backed rewriting used after the local
// optimizer has done what it can.
package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rewriter produces an alternative wording of a labelled text region.
type Rewriter interface {
	Rewrite(ctx context.Context, label, text string) (string, error)
}

// RewriterFunc adapts a function to Rewriter.
type RewriterFunc func(ctx context.Context, label, text string) (string, error)

func (f RewriterFunc) Rewrite(ctx context.Context, label, text string) (string, error) {
	return f(ctx, label, text)
}

// ErrRejected marks a rewrite that changed more than wording.
var ErrRejected = errors.New("rewrite rejected")

const maxGrowth = 1.5

var numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Check rejects rewrites that are empty, grow the text too much or mention
// numbers the original never had.
func Check(original, rewritten string) error {
	if strings.TrimSpace(rewritten) == "" {
		return fmt.Errorf("%w: empty output", ErrRejected)
	}

	before := utf8.RuneCountInString(strings.TrimSpace(original))
	after := utf8.RuneCountInString(strings.TrimSpace(rewritten))
	if before > 0 && float64(after) > float64(before)*maxGrowth {
		return fmt.Errorf("%w: grew from %d to %d chars", ErrRejected, before, after)
	}

	known := make(map[string]struct{})
	for _, n := range numberRe.FindAllString(original, -1) {
		known[n] = struct{}{}
	}
	for _, n := range numberRe.FindAllString(rewritten, -1) {
		if _, ok := known[n]; !ok {
			return fmt.Errorf("%w: introduced number %q", ErrRejected, n)
		}
	}

	return nil
}
