package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dvornikita/SleecReddit/internal/domain"
)

// Analysis is a validated model answer. Verdict is always Yes or No.
type Analysis struct {
	Verdict string
	Reason  string
}

type analysisJSON struct {
	Verdict *string `json:"verdict"`
	Reason  *string `json:"reason"`
}

// ParseAnalysis validates raw model output: one JSON object with exactly a
// "verdict" of Yes or No (any case) and a non-empty "reason".
func ParseAnalysis(raw string) (Analysis, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var a analysisJSON
	if err := dec.Decode(&a); err != nil {
		return Analysis{}, fmt.Errorf("invalid json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Analysis{}, errors.New("invalid json: trailing data after object")
	}
	if a.Verdict == nil {
		return Analysis{}, errors.New("missing field \"verdict\"")
	}
	if a.Reason == nil {
		return Analysis{}, errors.New("missing field \"reason\"")
	}

	var verdict string
	switch v := strings.TrimSpace(*a.Verdict); {
	case strings.EqualFold(v, domain.VerdictYes):
		verdict = domain.VerdictYes
	case strings.EqualFold(v, domain.VerdictNo):
		verdict = domain.VerdictNo
	default:
		return Analysis{}, fmt.Errorf("verdict must be Yes or No, got %q", *a.Verdict)
	}

	reason := strings.TrimSpace(*a.Reason)
	if reason == "" {
		return Analysis{}, errors.New("reason is empty")
	}
	return Analysis{Verdict: verdict, Reason: reason}, nil
}

// encodeAnalysis renders a in the shape ParseAnalysis accepts.
func encodeAnalysis(a Analysis) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]string{"verdict": a.Verdict, "reason": a.Reason}); err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
