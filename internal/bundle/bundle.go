// Package bundle pulls the free-text regions out of a CV and cover letter
// pair, optimizes them together and writes the results back.
package bundle

import (
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	RegionSummary     = "cv_summary"
	RegionExperience  = "cv_experience_bullets"
	RegionCoverLetter = "cover_letter_body"

	LabelSummary     = "CV:summary"
	LabelExperience  = "CV:experience"
	LabelCoverLetter = "CL:body"
)

// Document is a CV and cover letter as decoded from JSON.
type Document struct {
	CV          map[string]any
	CoverLetter map[string]any
}

// Regions are the editable texts of a Document. Experience holds every
// bullet of every experience entry, one per line.
type Regions struct {
	Summary     string `json:"cv_summary" yaml:"cv_summary"`
	Experience  string `json:"cv_experience_bullets" yaml:"cv_experience_bullets"`
	CoverLetter string `json:"cover_letter_body" yaml:"cover_letter_body"`
}

// Get returns the region text by its region name.
func (r Regions) Get(name string) string {
	switch name {
	case RegionSummary:
		return r.Summary
	case RegionExperience:
		return r.Experience
	case RegionCoverLetter:
		return r.CoverLetter
	}
	return ""
}

// Set replaces the region text by its region name.
func (r *Regions) Set(name, text string) {
	switch name {
	case RegionSummary:
		r.Summary = text
	case RegionExperience:
		r.Experience = text
	case RegionCoverLetter:
		r.CoverLetter = text
	}
}

// Names lists the region names in reporting order.
func Names() []string {
	return []string{RegionSummary, RegionExperience, RegionCoverLetter}
}

// Label is the human readable label of a region.
func Label(name string) string {
	switch name {
	case RegionSummary:
		return LabelSummary
	case RegionExperience:
		return LabelExperience
	case RegionCoverLetter:
		return LabelCoverLetter
	}
	return name
}

type cvShape struct {
	Summary    string            `mapstructure:"summary"`
	Profile    string            `mapstructure:"profile"`
	Experience []experienceShape `mapstructure:"experience"`
}

type experienceShape struct {
	Bullets    []any `mapstructure:"bullets"`
	Highlights []any `mapstructure:"highlights"`
}

// lines returns the editable bullets of the entry. Bullets are picked the
// same way Apply picks them, and blank or non-text items are skipped on both
// sides so that counts line up.
func (e experienceShape) lines() []string {
	items := e.Bullets
	if len(items) == 0 {
		items = e.Highlights
	}
	var out []string
	for _, item := range items {
		if line := bulletLine(item); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// bulletLine is the single-line text of a bullet, or "" when the item holds
// no editable text.
func bulletLine(item any) string {
	s, ok := item.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.Join(strings.Fields(s), " "), "• "))
}

type coverLetterShape struct {
	Body string `mapstructure:"body"`
}

func decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Extract reads the editable regions of doc.
func Extract(doc Document) (Regions, error) {
	var cv cvShape
	if doc.CV != nil {
		if err := decode(doc.CV, &cv); err != nil {
			return Regions{}, fmt.Errorf("decode cv: %w", err)
		}
	}

	var cl coverLetterShape
	if doc.CoverLetter != nil {
		if err := decode(doc.CoverLetter, &cl); err != nil {
			return Regions{}, fmt.Errorf("decode cover letter: %w", err)
		}
	}

	summary := strings.TrimSpace(cv.Summary)
	if summary == "" {
		summary = strings.TrimSpace(cv.Profile)
	}

	var blobs []string
	for _, exp := range cv.Experience {
		if lines := exp.lines(); len(lines) > 0 {
			blobs = append(blobs, strings.Join(lines, "\n"))
		}
	}

	return Regions{
		Summary:     summary,
		Experience:  strings.TrimSpace(strings.Join(blobs, "\n")),
		CoverLetter: strings.TrimSpace(cl.Body),
	}, nil
}

// SplitBullets turns the experience region back into bullet lines, dropping
// blank lines and leading bullet markers.
func SplitBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "• \t"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Apply writes non-empty regions back into doc in place. Rewritten bullets
// replace the text bullets of the experience entries in order; blank and
// non-text items stay where they are, and bullets left without a rewritten
// line keep their text.
func Apply(doc Document, regions Regions) {
	if doc.CV != nil {
		if s := strings.TrimSpace(regions.Summary); s != "" {
			switch {
			case hasKey(doc.CV, "summary"):
				doc.CV["summary"] = s
			case hasKey(doc.CV, "profile"):
				doc.CV["profile"] = s
			}
		}
		if strings.TrimSpace(regions.Experience) != "" {
			applyBullets(doc.CV, SplitBullets(regions.Experience))
		}
	}

	if doc.CoverLetter != nil {
		if body := strings.TrimSpace(regions.CoverLetter); body != "" {
			doc.CoverLetter["body"] = body
		}
	}
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func applyBullets(cv map[string]any, lines []string) {
	idx := 0
	assign := func(exp map[string]any) {
		key, current := bulletList(exp)
		if len(current) == 0 || idx >= len(lines) {
			return
		}
		next := make([]any, len(current))
		copy(next, current)
		for i, item := range current {
			if idx >= len(lines) {
				break
			}
			if bulletLine(item) == "" {
				continue
			}
			next[i] = lines[idx]
			idx++
		}
		exp[key] = next
	}

	switch entries := cv["experience"].(type) {
	case []any:
		for _, e := range entries {
			if exp, ok := e.(map[string]any); ok {
				assign(exp)
			}
		}
	case []map[string]any:
		for _, exp := range entries {
			assign(exp)
		}
	}
}

func bulletList(exp map[string]any) (string, []any) {
	for _, key := range []string{"bullets", "highlights"} {
		switch v := exp[key].(type) {
		case []any:
			if len(v) > 0 {
				return key, v
			}
		case []string:
			if len(v) > 0 {
				out := make([]any, len(v))
				for i, s := range v {
					out[i] = s
				}
				return key, out
			}
		}
	}
	return "", nil
}

// Weights balance the regions in the overall score.
type Weights struct {
	CoverLetter float64 `mapstructure:"cover-letter" validate:"gte=0"`
	Experience  float64 `mapstructure:"experience" validate:"gte=0"`
	Summary     float64 `mapstructure:"summary" validate:"gte=0"`
}

// DefaultWeights weigh the cover letter highest since it is screened most.
func DefaultWeights() Weights {
	return Weights{CoverLetter: 0.40, Experience: 0.35, Summary: 0.25}
}

func (w Weights) of(name string) float64 {
	switch name {
	case RegionSummary:
		return w.Summary
	case RegionExperience:
		return w.Experience
	case RegionCoverLetter:
		return w.CoverLetter
	}
	return 0
}

// Overall is the weighted mean of the region scores, rounded. Regions without
// a score are left out and the remaining weights renormalised.
func Overall(scores map[string]float64, w Weights) int {
	var sum, total float64
	for _, name := range Names() {
		s, ok := scores[name]
		if !ok {
			continue
		}
		sum += w.of(name) * s
		total += w.of(name)
	}
	if total <= 0 {
		return 0
	}
	return int(math.Round(sum / total))
}
