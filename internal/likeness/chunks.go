package likeness

import (
	"math"
	"regexp"
	"strings"
)

// DefaultChunkWords is the rough word budget of a chunk.
const DefaultChunkWords = 300

var paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)

// Chunk is a scored slice of a longer document.
type Chunk struct {
	Index    int      `json:"index" yaml:"index"`
	Words    int      `json:"words" yaml:"words"`
	Excerpt  string   `json:"excerpt" yaml:"excerpt"`
	Analysis Analysis `json:"analysis" yaml:"analysis"`
}

// ChunkReport aggregates per-chunk scores of a document.
type ChunkReport struct {
	Overall int     `json:"overall" yaml:"overall"`
	Chunks  []Chunk `json:"chunks" yaml:"chunks"`
}

const excerptRunes = 400

// AnalyzeChunks splits text into paragraph-aligned chunks of roughly maxWords
// words and scores each of them. Overall is the rounded mean chunk score; an
// empty document yields a single empty chunk so the report stays well formed.
func (e *Evaluator) AnalyzeChunks(text string, maxWords int) ChunkReport {
	if maxWords <= 0 {
		maxWords = DefaultChunkWords
	}

	parts := SplitChunks(text, maxWords)
	if len(parts) == 0 {
		parts = []string{""}
	}

	report := ChunkReport{Chunks: make([]Chunk, 0, len(parts))}
	var sum float64
	for i, part := range parts {
		a := e.Analyze(part)
		sum += a.Score
		report.Chunks = append(report.Chunks, Chunk{
			Index:    i,
			Words:    len(strings.Fields(part)),
			Excerpt:  excerpt(part, excerptRunes),
			Analysis: a,
		})
	}
	report.Overall = int(math.Round(sum / float64(len(parts))))

	return report
}

// SplitChunks groups blank-line separated paragraphs into chunks of at most
// maxWords words. A single paragraph longer than the budget is kept whole.
func SplitChunks(text string, maxWords int) []string {
	var chunks []string
	var current []string
	words := 0

	for _, p := range paragraphBreakRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n := max(1, len(strings.Fields(p)))
		if len(current) > 0 && words+n > maxWords {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current, words = nil, 0
		}
		current = append(current, p)
		words += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
