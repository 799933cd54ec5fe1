package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dvornikita/SleecReddit/internal/domain"
)

const maxTitleLen = 50

// ItemWriter stores one file per item under Root/<subreddit>/.
type ItemWriter struct {
	Root string
}

// Save writes item and returns the file path. Saving the same id twice
// overwrites the earlier file.
func (w *ItemWriter) Save(item domain.Item, subreddit string) (string, error) {
	dir := filepath.Join(w.Root, subreddit)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := encodeJSON(item)
	if err != nil {
		return "", fmt.Errorf("encode item %s: %w", item.ID, err)
	}

	path := filepath.Join(dir, FileName(item.Title, item.ID))
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// SaveAll writes items in order and stops at the first failure.
func (w *ItemWriter) SaveAll(items []domain.Item, subreddit string) ([]string, error) {
	paths := make([]string, 0, len(items))
	for _, item := range items {
		p, err := w.Save(item, subreddit)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// FileName builds "<sanitized title>_<id>.json".
func FileName(title, id string) string {
	return SanitizeTitle(title) + "_" + id + ".json"
}

// SanitizeTitle keeps ASCII letters, digits, space, '-' and '_', trims the
// result and cuts it to 50 characters. An empty result becomes "untitled".
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	safe := strings.TrimSpace(b.String())
	if len(safe) > maxTitleLen {
		safe = safe[:maxTitleLen]
	}
	if safe == "" {
		return "untitled"
	}
	return safe
}

// encodeJSON indents with two spaces and leaves non-ASCII and HTML characters as they are.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic replaces path through a temp file in the same directory,
// so readers never see a half-written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
