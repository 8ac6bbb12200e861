// Package report persists optimization sessions and renders their deltas.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/spigell/likeness-guard/internal/humanize"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Overall is the weighted bundle score before and after a run.
type Overall struct {
	Before int `json:"before" yaml:"before"`
	After  int `json:"after" yaml:"after"`
}

// Entry is a single optimization trace in a session.
type Entry struct {
	Label  string           `json:"label" yaml:"label"`
	Result *humanize.Result `json:"result" yaml:"result"`
}

// Session groups the traces of one command invocation.
type Session struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Entries   []Entry   `json:"entries" yaml:"entries"`
	Overall   *Overall  `json:"overall,omitempty" yaml:"overall,omitempty"`
}

// NewSession starts an empty session stamped with now.
func NewSession(now time.Time) *Session {
	return &Session{ID: uuid.New(), CreatedAt: now.UTC()}
}

// Add appends traces to the session.
func (s *Session) Add(results ...*humanize.Result) {
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Entries = append(s.Entries, Entry{Label: r.Label, Result: r})
	}
}

// Results returns the traces in insertion order.
func (s *Session) Results() []*humanize.Result {
	out := make([]*humanize.Result, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.Result != nil {
			out = append(out, e.Result)
		}
	}
	return out
}

// FileName is the report file name for the session day and format.
func FileName(createdAt time.Time, format string) string {
	return fmt.Sprintf("session_report_%s.%s", createdAt.Format("20060102"), format)
}

// Write stores the session in dir, creating it when needed. A report from the
// same day and format is replaced.
func Write(dir, format string, s *Session) (string, error) {
	if s == nil {
		return "", fmt.Errorf("session is required")
	}

	data, err := Marshal(format, s)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, FileName(s.CreatedAt, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

// Marshal encodes the session in the given format.
func Marshal(format string, s *Session) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Read loads a session report, picking the decoder from the file extension.
func Read(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var s Session
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}

	return &s, nil
}

// DeltaTable renders one row per trace: label, baseline, best score, delta
// and the number of passes. Traces whose baseline could not be scored show
// n/a instead of numbers.
func DeltaTable(results []*humanize.Result) string {
	var b strings.Builder
	b.WriteString("label | baseline | final | delta | iterations\n")
	for _, r := range results {
		if r == nil {
			continue
		}
		if !r.Evaluated() {
			fmt.Fprintf(&b, "%s | n/a | n/a | n/a | %d\n", r.Label, r.Passes())
			continue
		}
		fmt.Fprintf(&b, "%s | %.1f | %.1f | %+.1f | %d\n",
			r.Label, r.Baseline().Score, r.Best().Score, r.Delta(), r.Passes())
	}
	return b.String()
}
