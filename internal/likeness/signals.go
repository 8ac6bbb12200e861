package likeness

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Latin letters plus the Latin-1 accented ranges, with one optional
	// apostrophe-joined tail (straight or typographic).
	tokenRe         = regexp.MustCompile(`[A-Za-zÀ-ÖØ-öø-ÿ]+(?:['’][A-Za-zÀ-ÖØ-öø-ÿ]+)?`)
	sentenceBoundRe = regexp.MustCompile(`[.!?]+`)
	frenchSignalRe  = regexp.MustCompile(`[éèêàùûôîçœ]`)
)

// Tokenize returns the lower-cased word-like units of text.
func Tokenize(text string) []string {
	found := tokenRe.FindAllString(norm.NFC.String(text), -1)
	tokens := make([]string, 0, len(found))
	for _, t := range found {
		tokens = append(tokens, strings.ToLower(t))
	}
	return tokens
}

// DetectLanguage picks the stopword language with a crude accent signal.
func DetectLanguage(text string) Language {
	if frenchSignalRe.MatchString(strings.ToLower(norm.NFC.String(text))) {
		return French
	}
	return English
}

// structuralScore rewards bursty sentence lengths: flat cadence reads as generated.
func (e *Evaluator) structuralScore(text string) float64 {
	cfg := e.structural

	lengths := make([]int, 0)
	for _, s := range sentenceBoundRe.Split(text, -1) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		lengths = append(lengths, len(Tokenize(s)))
	}
	if len(lengths) < 2 {
		return cfg.InconclusiveScore
	}

	variance := populationVariance(lengths)
	switch {
	case variance < cfg.LowVariance:
		return cfg.MaxScore
	case variance > cfg.HighVariance:
		return cfg.MinScore
	default:
		return clamp(cfg.MaxScore-cfg.Slope*variance, cfg.MinScore, cfg.MaxScore)
	}
}

func populationVariance(values []int) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var acc float64
	for _, v := range values {
		d := float64(v) - mean
		acc += d * d
	}
	return acc / float64(len(values))
}

type tokenCount struct {
	token string
	count int
}

// lexicalScore maps how much the most frequent content word dominates the
// top of the frequency table onto [Floor, Floor+Span].
func (e *Evaluator) lexicalScore(text string) (float64, Language) {
	cfg := e.lexical
	lang := DetectLanguage(text)

	tokens := Tokenize(text)
	if len(tokens) < cfg.MinTokens {
		return cfg.ShortScore, lang
	}

	stop := e.stopwords[lang]
	index := make(map[string]int)
	counts := make([]tokenCount, 0)
	for _, t := range tokens {
		if _, skip := stop[t]; skip {
			continue
		}
		if i, ok := index[t]; ok {
			counts[i].count++
			continue
		}
		index[t] = len(counts)
		counts = append(counts, tokenCount{token: t, count: 1})
	}
	if len(counts) == 0 {
		return cfg.NoContentScore, lang
	}

	// Stable sort keeps first-appearance order among equal counts.
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	top := counts
	if len(top) > cfg.TopN {
		top = top[:cfg.TopN]
	}

	total := 0
	for _, tc := range top {
		total += tc.count
	}
	concentration := float64(top[0].count) / float64(max(1, total))

	return cfg.Floor + concentration*cfg.Span, lang
}

func (e *Evaluator) boilerplateMatches(text string) []string {
	var matches []string
	for i, re := range e.patterns {
		if re.MatchString(text) {
			matches = append(matches, e.boilerplate.Patterns[i])
		}
	}
	return matches
}

func (e *Evaluator) boilerplateScore(hits int) float64 {
	cfg := e.boilerplate
	switch {
	case hits == 0:
		return cfg.NoHitScore
	case hits >= cfg.SaturationHits:
		return cfg.SaturatedScore
	default:
		return cfg.NoHitScore + cfg.PerHit*float64(hits)
	}
}
