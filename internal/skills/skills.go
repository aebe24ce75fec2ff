// Package skills loads the skill vocabulary and matches it against resume text.
package skills

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultPath is where the skill list is looked up when nothing is configured.
const DefaultPath = "skills.txt"

var fallback = []string{
	"python", "java", "c++", "sql", "javascript",
	"machine learning", "nlp", "excel", "aws", "docker",
}

// Default returns a copy of the built-in skill list.
func Default() []string {
	return append([]string(nil), fallback...)
}

// Load reads one skill per line from path. Terms are trimmed and lowercased,
// blank lines and repeated terms are skipped. A missing file is not an error:
// the built-in list is returned instead.
func Load(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening skills file %q: %w", path, err)
	}
	defer file.Close()

	seen := make(map[string]struct{})
	list := make([]string, 0)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		list = append(list, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading skills file %q: %w", path, err)
	}

	return list, nil
}

// Extract returns the skills that occur in text as case-insensitive
// substrings, in list order and without repeats. There is no word boundary
// check: "java" matches inside "javascript".
func Extract(text string, list []string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	seen := make(map[string]struct{}, len(list))

	for _, skill := range list {
		if _, ok := seen[skill]; ok {
			continue
		}
		if strings.Contains(lower, skill) {
			seen[skill] = struct{}{}
			found = append(found, skill)
		}
	}

	return found
}
