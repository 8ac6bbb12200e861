package humanize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)
	clauseBreakRe = regexp.MustCompile(`[,;]\s+`)
)

// splitSentences cuts text after terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	var out []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			out = append(out, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// varyCadence merges runs of ultra-short sentences and splits overly long
// ones once at a clause break.
func varyCadence(text string, minLen, maxLen int) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return text
	}

	merged := make([]string, 0, len(sentences))
	buf := ""
	for _, s := range sentences {
		if runeLen(s) < minLen {
			if buf == "" {
				buf = s
			} else {
				buf += " " + s
			}
			continue
		}
		if buf != "" {
			merged = append(merged, buf)
			buf = ""
		}
		merged = append(merged, s)
	}
	if buf != "" {
		merged = append(merged, buf)
	}

	balanced := make([]string, 0, len(merged))
	for _, s := range merged {
		if runeLen(s) > maxLen {
			balanced = append(balanced, splitOnce(s, minLen)...)
			continue
		}
		balanced = append(balanced, s)
	}

	return strings.Join(balanced, " ")
}

// splitOnce breaks s at the first comma or semicolon past the first minHead
// bytes. The head is closed with a period and the tail capitalised.
func splitOnce(s string, minHead int) []string {
	for _, loc := range clauseBreakRe.FindAllStringIndex(s, -1) {
		if loc[0] < minHead {
			continue
		}
		head := strings.TrimSpace(s[:loc[0]])
		tail := strings.TrimSpace(s[loc[1]:])
		if head == "" || tail == "" {
			return []string{s}
		}
		return []string{head + ".", capitalise(tail)}
	}
	return []string{s}
}

func capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
