package classifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dvornikita/SleecReddit/internal/domain"
	"github.com/dvornikita/SleecReddit/internal/llm"
)

// HeuristicProvider answers the classification prompt offline with keyword
// matching. It applies the same rule as the prompt: a named subject or
// difficulty together with hopelessness is Yes, anything else is No.
type HeuristicProvider struct{}

// Longer forms come first so "calculus" wins over "calc".
var subjectTerms = compileTerms(
	"calculus", "trigonometry", "algebra", "geometry", "statistics", "math", "calc",
	"physics", "chemistry", "biology", "programming", "coding",
	"thesis", "dissertation", "funding", "grant", "essay", "exam", "homework",
	"too hard", "too difficult", "can't understand", "don't understand",
)

var hopelessTerms = compileTerms(
	"hopeless", "give up", "giving up", "gave up", "no motivation", "lost motivation",
	"unmotivated", "pointless", "what's the point", "can't do this anymore",
	"burned out", "burnt out", "worthless", "no hope",
)

var promptFields = regexp.MustCompile(`(?s)Title: (.*?)\nSubreddit: .*?\nContent: (.*?)\n\nYour analysis`)

func (HeuristicProvider) Complete(_ context.Context, req llm.Request) (string, error) {
	m := promptFields.FindStringSubmatch(req.User)
	if m == nil {
		return "", fmt.Errorf("heuristic: prompt does not contain a post")
	}
	title, body := strings.ToLower(m[1]), strings.ToLower(m[2])

	subject := firstTerm(subjectTerms, body)
	if subject == "" {
		subject = firstTerm(subjectTerms, title)
	}
	hopeless := firstTerm(hopelessTerms, title+"\n"+body) != ""

	var a Analysis
	switch {
	case subject != "" && hopeless:
		a = Analysis{
			Verdict: domain.VerdictYes,
			Reason:  fmt.Sprintf("The user names %q as the source of difficulty and expresses hopelessness.", subject),
		}
	case hopeless:
		a = Analysis{
			Verdict: domain.VerdictNo,
			Reason:  "The user expresses general hopelessness without naming a specific subject or difficulty.",
		}
	default:
		a = Analysis{
			Verdict: domain.VerdictNo,
			Reason:  "The post does not express a loss of motivation.",
		}
	}
	return encodeAnalysis(a)
}

type term struct {
	word string
	re   *regexp.Regexp
}

func compileTerms(words ...string) []term {
	terms := make([]term, len(words))
	for i, w := range words {
		terms[i] = term{word: w, re: regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)}
	}
	return terms
}

func firstTerm(terms []term, text string) string {
	for _, t := range terms {
		if t.re.MatchString(text) {
			return t.word
		}
	}
	return ""
}
