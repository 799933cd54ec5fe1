package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			name        string
			raw         string
			wantVerdict string
			wantReason  string
		}{
			{"yes", `{"verdict":"Yes","reason":"Names calculus and hopelessness."}`, "Yes", "Names calculus and hopelessness."},
			{"no with whitespace", "\n {\"reason\": \" only hopelessness \", \"verdict\": \"No\"} \n", "No", "only hopelessness"},
			{"lowercase verdict", `{"verdict":"yes","reason":"trigonometry"}`, "Yes", "trigonometry"},
			{"padded verdict", `{"verdict":" NO ","reason":"r"}`, "No", "r"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				a, err := ParseAnalysis(tt.raw)
				require.NoError(t, err)
				assert.Equal(t, tt.wantVerdict, a.Verdict)
				assert.Equal(t, tt.wantReason, a.Reason)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			raw  string
		}{
			{"empty", ``},
			{"not json", `Yes, because calculus`},
			{"code fence", "```json\n{\"verdict\":\"Yes\",\"reason\":\"x\"}\n```"},
			{"array", `[{"verdict":"Yes","reason":"x"}]`},
			{"null", `null`},
			{"missing verdict", `{"reason":"x"}`},
			{"missing reason", `{"verdict":"No"}`},
			{"empty reason", `{"verdict":"No","reason":"   "}`},
			{"unknown verdict", `{"verdict":"Maybe","reason":"x"}`},
			{"error verdict from model", `{"verdict":"error","reason":"x"}`},
			{"extra field", `{"verdict":"Yes","reason":"x","subject":"calculus"}`},
			{"wrong type", `{"verdict":true,"reason":"x"}`},
			{"trailing object", `{"verdict":"Yes","reason":"x"} {"verdict":"No","reason":"y"}`},
			{"truncated", `{"verdict":"Yes","reas`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseAnalysis(tt.raw)
				assert.Error(t, err)
			})
		}
	})
}

func TestEncodeAnalysisRoundTrip(t *testing.T) {
	in := Analysis{Verdict: "Yes", Reason: `names "calculus" & <hopeless>`}
	raw, err := encodeAnalysis(in)
	require.NoError(t, err)
	assert.NotContains(t, raw, `\u0026`)

	out, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
