package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		rewritten string
		ok        bool
	}{
		{name: "plain rewording", original: "I led a team of 5 engineers.", rewritten: "I ran a 5 person engineering team.", ok: true},
		{name: "empty", original: "Some text.", rewritten: "  ", ok: false},
		{name: "new number", original: "I led a team.", rewritten: "I led a team of 12.", ok: false},
		{name: "changed figure", original: "Cut costs by 10%.", rewritten: "Cut costs by 15%.", ok: false},
		{name: "too long", original: "Short text here.", rewritten: strings.Repeat("word ", 10), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Check(tt.original, tt.rewritten)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrRejected) {
				t.Fatalf("expected ErrRejected, got %v", err)
			}
		})
	}
}

func TestRewriterFunc(t *testing.T) {
	var r Rewriter = RewriterFunc(func(_ context.Context, label, text string) (string, error) {
		return label + ":" + text, nil
	})

	got, err := r.Rewrite(context.Background(), "CL:body", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "CL:body:hello" {
		t.Fatalf("unexpected output: %q", got)
	}
}
