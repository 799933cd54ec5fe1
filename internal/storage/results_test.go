package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvornikita/SleecReddit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	w := &ResultsWriter{
		FilePath:     filepath.Join(dir, "reddit_analysis_results.json"),
		PositivePath: filepath.Join(dir, "subreddit_to_positive_ids.json"),
	}

	t.Run("empty results are an empty array", func(t *testing.T) {
		require.NoError(t, w.WriteResults(nil))
		data, err := os.ReadFile(w.FilePath)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("each write replaces the whole file", func(t *testing.T) {
		first := []domain.ClassificationResult{
			{PostID: "a", Title: "t", Subreddit: "Student", Body: "b", Verdict: domain.VerdictYes, Reason: "calculus"},
		}
		second := append(first, domain.ClassificationResult{
			PostID: "b", Subreddit: "Student", Verdict: domain.VerdictError, Reason: "Failed to parse response: x",
		})

		require.NoError(t, w.WriteResults(first))
		require.NoError(t, w.WriteResults(second))

		data, err := os.ReadFile(w.FilePath)
		require.NoError(t, err)
		var got []domain.ClassificationResult
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, second, got)

		var raw []map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.ElementsMatch(t,
			[]string{"post_id", "title", "subreddit", "selftext", "verdict", "reason"},
			keys(raw[0]))
	})

	t.Run("positive index", func(t *testing.T) {
		idx := domain.PositiveIndex{}
		idx.Add("Student", "a")
		idx.Add("Student", "c")
		idx.Add("AskAcademia", "z")
		require.NoError(t, w.WritePositiveIndex(idx))

		data, err := os.ReadFile(w.PositivePath)
		require.NoError(t, err)
		assert.JSONEq(t, `{"Student":["a","c"],"AskAcademia":["z"]}`, string(data))
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
