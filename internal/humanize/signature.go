package humanize

import (
	"regexp"
	"strings"
)

// Valedictions are the sign-off phrases that open a signature block.
func Valedictions() []string {
	return []string{
		"kind regards", "best regards", "warm regards", "warmest regards", "regards",
		"yours sincerely", "sincerely", "sincerely yours", "yours faithfully", "yours truly",
		"best wishes", "best", "cheers", "many thanks", "thank you", "thanks",
		"cordialement", "bien cordialement", "bien à vous", "meilleures salutations",
		"sincères salutations", "salutations distinguées",
	}
}

func valedictionPattern(phrases []string) *regexp.Regexp {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	return regexp.MustCompile(`(?im)^[ \t]*(?:` + strings.Join(quoted, "|") + `)[ \t]*,?[ \t]*\r?$`)
}

// Regions is the transient split of a document into a mutable body and an
// optional signature block that is never transformed.
type Regions struct {
	Main      string
	Signature string
}

// HasSignature reports whether a signature block was found.
func (r Regions) HasSignature() bool {
	return r.Signature != ""
}

// Join reassembles the document, separating the signature with a blank line.
func (r Regions) Join() string {
	if !r.HasSignature() {
		return r.Main
	}
	if strings.TrimSpace(r.Main) == "" {
		return r.Signature
	}
	return r.Main + "\n\n" + r.Signature
}

func splitSignature(text string, re *regexp.Regexp) Regions {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return Regions{Main: text}
	}
	return Regions{
		Main:      strings.TrimRight(text[:loc[0]], " \t\r\n"),
		Signature: text[loc[0]:],
	}
}
