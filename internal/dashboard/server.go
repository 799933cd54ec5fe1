package dashboard

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sort"

	"github.com/dvornikita/SleecReddit/internal/domain"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// NewHandler serves charts built from the results file, re-read on every request.
func NewHandler(dataFile string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		results, err := loadResults(dataFile)
		if err != nil {
			logger.Error("Failed to load results", "file", dataFile, "err", err)
			http.Error(w, "results unavailable", http.StatusInternalServerError)
			return
		}
		counts := countVerdicts(results)
		subs := sortedKeys(counts)

		// 1. Positive share
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Positive Verdicts by Subreddit"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)

		var pieItems []opts.PieData
		for _, sub := range subs {
			if n := counts[sub][domain.VerdictYes]; n > 0 {
				pieItems = append(pieItems, opts.PieData{Name: sub, Value: n})
			}
		}
		pie.AddSeries("Yes", pieItems)

		// 2. Verdict mix
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Verdicts by Subreddit"}))
		bar.SetXAxis(subs)
		for _, verdict := range []string{domain.VerdictYes, domain.VerdictNo, domain.VerdictError} {
			var series []opts.BarData
			for _, sub := range subs {
				series = append(series, opts.BarData{Value: counts[sub][verdict]})
			}
			bar.AddSeries(verdict, series, charts.WithBarChartOpts(opts.BarChart{Stack: "verdict"}))
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pie.Render(w); err != nil {
			logger.Error("Render failed", "chart", "pie", "err", err)
			return
		}
		if err := bar.Render(w); err != nil {
			logger.Error("Render failed", "chart", "bar", "err", err)
		}
	})
	return mux
}

func StartServer(dataFile string, port string, logger *slog.Logger) error {
	return http.ListenAndServe(":"+port, NewHandler(dataFile, logger))
}

// loadResults reads the results array. A missing file is an empty run.
func loadResults(path string) ([]domain.ClassificationResult, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var results []domain.ClassificationResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func countVerdicts(results []domain.ClassificationResult) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	for _, r := range results {
		if counts[r.Subreddit] == nil {
			counts[r.Subreddit] = make(map[string]int)
		}
		counts[r.Subreddit][r.Verdict]++
	}
	return counts
}

func sortedKeys(m map[string]map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
