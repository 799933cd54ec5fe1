package classifier

import (
	"strings"

	"github.com/dvornikita/SleecReddit/internal/domain"
)

// SystemPrompt asks for the two-field JSON object.
const SystemPrompt = "You are an expert in analyzing Reddit posts. Provide your " +
	"analysis in JSON format with 'verdict' and 'reason' fields as " +
	"specified in the prompt."

// PromptTemplate carries the decision rule. Yes needs a named difficulty or
// subject AND a loss of motivation; hopelessness alone is No.
const PromptTemplate = `
Analyze the following Reddit post and determine if the user is struggling with a
specific subject or topic and experiences loss of motivation, or the user is just
generally feeling hopeless.

Specifically, answer Yes if:
- The user discusses experiencing difficulty explicitly, e.g., "too hard".
- A specific subject is causing this difficulty, e.g., "trigonometry" or "funding"
- AND the user experiences loss of motivation (e.g., "hopeless", negative beliefs)

Otherwise, answer No if:
- the user only mentions loss of motivation (e.g., "hopeless", negative beliefs)
- AND NOT explicitly discussing the difficulty or a specific subject or topic

Title: {title}
Subreddit: {subreddit}
Content: {content}

Your analysis should be provided as a JSON object with two fields:
1. "verdict": Either "Yes" if the user is struggling with a specific
   subject/topic, or "No" if it's a general loss of motivation or hopelessness.
2. "reason": A brief explanation of why you reached this conclusion, including
   the specific subject/topic if applicable.
`

// RenderPrompt fills the template in a single pass, so braces inside the
// post text are left alone.
func RenderPrompt(item domain.Item) string {
	r := strings.NewReplacer(
		"{title}", item.Title,
		"{subreddit}", item.Subreddit,
		"{content}", item.Body,
	)
	return r.Replace(PromptTemplate)
}
