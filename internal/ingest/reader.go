package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dvornikita/SleecReddit/internal/domain"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// ValidSubreddit reports whether name is safe to use as a subreddit and a directory name.
func ValidSubreddit(name string) bool {
	return subNameRegex.MatchString(name)
}

// StoredItem is an item file found in the store.
type StoredItem struct {
	Path string
	// Dir is the name of the directory holding the file, the subreddit it was saved under.
	Dir string
}

// ScanStore lists every *.json file below root, recursively, in lexical
// order. A root that does not exist holds no items.
func ScanStore(root string) ([]StoredItem, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var found []StoredItem
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		found = append(found, StoredItem{
			Path: path,
			Dir:  filepath.Base(filepath.Dir(path)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan store %s: %w", root, err)
	}
	return found, nil
}

// LoadItem decodes one item file. A leading BOM is tolerated.
func LoadItem(path string) (domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Item{}, err
	}
	defer f.Close()

	var item domain.Item
	if err := json.NewDecoder(stripBOM(f)).Decode(&item); err != nil {
		return domain.Item{}, fmt.Errorf("decode item %s: %w", path, err)
	}
	if item.ID == "" {
		item.ID = "unknown"
	}
	return item, nil
}

// LoadSubreddits reads a CSV whose first column lists subreddit names. The
// header row is skipped and invalid names are dropped (fail-soft).
func LoadSubreddits(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	var subs []string
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read subreddits %s: %w", path, err)
		}
		line++
		if line == 1 || len(record) == 0 {
			continue
		}

		sub := strings.TrimSpace(record[0])
		if !ValidSubreddit(sub) {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
