// Package secrets resolves credentials for the model-backed rewriter.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when no source holds a usable secret.
var ErrNotConfigured = errors.New("not configured")

// maxFileSize bounds key files; API keys are short single lines.
const maxFileSize = 4 << 10

// Source lists where a secret may come from. File wins over Value.
type Source struct {
	// Name is used in error messages, e.g. "gemini api key".
	Name  string
	Value string
	File  string
}

// Load resolves the secret described by src. The result is trimmed and must
// be a single line.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value
	if file := strings.TrimSpace(src.File); file != "" {
		data, err := readFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		if strings.TrimSpace(data) == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		value = data
	}

	secret := strings.TrimSpace(value)
	if secret == "" {
		return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
	}
	if strings.ContainsAny(secret, "\r\n") {
		return "", fmt.Errorf("%s must be a single line", name)
	}

	return secret, nil
}

func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("is a directory")
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("larger than %d bytes", maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Mask hides all but the last four characters of secret for logging.
func Mask(secret string) string {
	runes := []rune(secret)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
