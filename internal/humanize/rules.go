package humanize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule is a single case-insensitive phrase replacement.
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// ClicheRules swap corporate boilerplate for calmer phrasing.
// Order matters: longer phrases come before the words they contain.
func ClicheRules() []Rule {
	return []Rule{
		{`\bI am thrilled\b`, "I'm interested"},
		{`\bI am excited\b`, "I'm interested"},
		{`\bI would love\b`, "I'd welcome"},
		{`\bfast[- ]paced\b`, "busy"},
		{`\bleverag(?:e|es|ed)\b`, "use"},
		{`\bleveraging\b`, "using"},
		{`\bimpactful\b`, "useful"},
		{`\bpassionate\b`, "serious"},
		{`\bresults[- ]driven\b`, "focused on outcomes"},
		{`\bsynergy\b`, "collaboration"},
		{`\bstrategic\b`, "long-term"},
		{`\bcutting[- ]edge\b`, "modern"},
		{`\butiliz(?:e|es|ed)\b`, "use"},
		{`\bproven track record\b`, "history of delivering"},
		{`\bstrong communication skills\b`, "clear, concise communication"},
		{`\bresponsible for\b`, "I led"},
		{`\bin charge of\b`, "I owned"},
		{`\bdetail[- ]oriented\b`, "careful"},
		{`\bmotivated self[- ]starter\b`, "independent worker"},
		{`\bdynamic team player\b`, "reliable colleague"},
		{`\bspearheaded\b`, "started"},
		{`\bseamless(?:ly)?\b`, "smooth"},
	}
}

// ContractionRules introduce informal cadence.
func ContractionRules() []Rule {
	return []Rule{
		{`\bI am\b`, "I'm"},
		{`\bI have\b`, "I've"},
		{`\bI will\b`, "I'll"},
		{`\bI would\b`, "I'd"},
		{`\bdo not\b`, "don't"},
		{`\bdoes not\b`, "doesn't"},
		{`\bdid not\b`, "didn't"},
		{`\bcannot\b`, "can't"},
		{`\bwill not\b`, "won't"},
		{`\bis not\b`, "isn't"},
		{`\bare not\b`, "aren't"},
		{`\bit is\b`, "it's"},
		{`\bthat is\b`, "that's"},
		{`\bwe are\b`, "we're"},
		{`\bthey are\b`, "they're"},
		{`\byou are\b`, "you're"},
	}
}

// Intensifiers are collapsed when two or more of them are stacked.
func Intensifiers() []string {
	return []string{
		"really", "very", "extremely", "truly", "highly", "incredibly", "deeply",
		"absolutely", "totally", "genuinely", "particularly", "exceptionally",
	}
}

func compileRules(rules []Rule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, compiledRule{
			re:          regexp.MustCompile("(?i)" + r.Pattern),
			replacement: r.Replacement,
		})
	}
	return compiled
}

func applyRules(text string, rules []compiledRule) string {
	out := text
	for _, r := range rules {
		out = r.re.ReplaceAllStringFunc(out, func(match string) string {
			return matchCase(match, r.replacement)
		})
	}
	return out
}

func intensifierPattern(words []string) *regexp.Regexp {
	alt := strings.Join(words, "|")
	return regexp.MustCompile(`(?i)\b(?:(?:` + alt + `)\s+)+(` + alt + `)\b`)
}

func collapseIntensifiers(text string, re *regexp.Regexp) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		sub := re.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		return matchCase(match, strings.ToLower(sub[1]))
	})
}

// matchCase capitalises replacement when the matched text started with an
// upper-case letter, so sentence starts stay capitalised.
func matchCase(match, replacement string) string {
	m, _ := utf8.DecodeRuneInString(match)
	r, size := utf8.DecodeRuneInString(replacement)
	if !unicode.IsUpper(m) || unicode.IsUpper(r) {
		return replacement
	}
	return string(unicode.ToUpper(r)) + replacement[size:]
}
