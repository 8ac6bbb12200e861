package humanize

import (
	"hash/fnv"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
)

const (
	placeholderVerb   = "{verb}"
	placeholderObject = "{object}"
	placeholderDetail = "{detail}"
)

// Evidence scaffolds reuse words already present in the text. They carry no
// names, numbers or commas, and avoid phrases the rule tables would rewrite,
// so a later pass can recognise and strip them verbatim.
func expansionTemplates() []string {
	return []string{
		"In practice that means I {verb} {object} with attention to {detail}.",
		"I prefer concrete steps such as defining the scope and adjusting the plan based on feedback.",
		"I keep updates short and readable with timelines people can accept.",
		"I avoid generic claims and refer to the responsibilities in the posting instead.",
		"I focus on the essentials first and add context only where it helps a decision.",
	}
}

func nextStepTemplates() []string {
	return []string{
		"I'd be glad to talk through {object} in a short call.",
		"If it helps I can share more detail on {object} in a follow-up call.",
		"Happy to discuss how I {verb} {object} in a quick call.",
	}
}

// Vocabulary lists the words that may fill template placeholders.
type Vocabulary struct {
	Verbs   []string
	Objects []string
	Details []string
}

// DefaultVocabulary returns the business verbs and nouns recognised as hints.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Verbs: []string{
			"build", "lead", "own", "drive", "analyze", "design", "plan", "coordinate",
			"sell", "negotiate", "optimize", "improve", "support", "manage", "deliver", "research",
		},
		Objects: []string{
			"pipeline", "accounts", "clients", "team", "roadmap", "process", "reporting",
			"pricing", "strategy", "product", "deal", "portfolio", "data", "model", "market", "partners",
		},
		Details: []string{
			"quality", "timelines", "costs", "risk", "compliance", "privacy", "accuracy",
			"clarity", "scope", "feedback", "learning", "handover", "handoffs",
		},
	}
}

// hintSet fills the template placeholders.
type hintSet struct {
	verb   string
	object string
	detail string
}

var hintWordRe = regexp.MustCompile(`[A-Za-z][A-Za-z\-]{2,}`)

func pickHints(text string, vocab Vocabulary) hintSet {
	words := hintWordRe.FindAllString(text, -1)
	return hintSet{
		verb:   firstIn(words, vocab.Verbs, "work on"),
		object: firstIn(words, vocab.Objects, "the work"),
		detail: firstIn(words, vocab.Details, "clarity"),
	}
}

func firstIn(words, vocab []string, fallback string) string {
	set := make(map[string]struct{}, len(vocab))
	for _, v := range vocab {
		set[v] = struct{}{}
	}
	for _, w := range words {
		lower := strings.ToLower(w)
		if _, ok := set[lower]; ok {
			return lower
		}
	}
	return fallback
}

func render(tpl string, h hintSet) string {
	r := strings.NewReplacer(
		placeholderVerb, h.verb,
		placeholderObject, h.object,
		placeholderDetail, h.detail,
	)
	return r.Replace(tpl)
}

// stockPattern matches any rendering of tpl, whatever the hints were.
func stockPattern(tpl string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(tpl)
	for _, p := range []string{placeholderVerb, placeholderObject, placeholderDetail} {
		quoted = strings.ReplaceAll(quoted, regexp.QuoteMeta(p), `[^.!?]+?`)
	}
	return regexp.MustCompile(`[ \t]*` + quoted)
}

func stripStock(text string, patterns []*regexp.Regexp) string {
	out := text
	for _, re := range patterns {
		out = re.ReplaceAllString(out, "")
	}
	return strings.TrimSpace(out)
}

// expansionOrder places the next-step sentence right after the first
// scaffold, so it is used while the body is still short.
func expansionOrder(templates []string, nextStep string) []string {
	if nextStep == "" || len(templates) == 0 {
		return templates
	}
	out := make([]string, 0, len(templates)+1)
	out = append(out, templates[0], nextStep)
	return append(out, templates[1:]...)
}

func expand(text string, targetLen int, templates []string, h hintSet) string {
	out := strings.TrimSpace(text)
	for _, tpl := range templates {
		if runeLen(out) >= targetLen {
			break
		}
		out = strings.TrimSpace(out + " " + render(tpl, h))
	}
	return out
}

// Picker chooses one of n candidates for the given key. It must return a
// value in [0, n).
type Picker func(key string, n int) int

// HashPicker is deterministic: the same key always yields the same choice.
func HashPicker(key string, n int) int {
	if n <= 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

// FixedPicker always returns index, clamped to the candidate range.
func FixedPicker(index int) Picker {
	return func(_ string, n int) int {
		if n <= 0 || index < 0 {
			return 0
		}
		return min(index, n-1)
	}
}

// SeededPicker returns a pseudo-random picker that is safe for concurrent use.
func SeededPicker(seed uint64) Picker {
	var mu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(_ string, n int) int {
		if n <= 0 {
			return 0
		}
		mu.Lock()
		defer mu.Unlock()
		return rng.IntN(n)
	}
}
