package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/manangupta12/mock-interviews-ai/internal/llm"
)

var feedbackOptions = llm.Options{
	Temperature:     0.7,
	TopP:            0.9,
	TopK:            40,
	MaxOutputTokens: 2000,
}

// FeedbackInput carries everything the end-of-session report needs.
type FeedbackInput struct {
	QuestionTitle string
	Difficulty    string
	Language      string
	Code          string
	StageSeconds  map[string]int
	Turns         []Turn
	TotalSeconds  int
}

// Summarize generates the structured end-of-session feedback report. It is
// one model call; the caller caches the first successful result per session
// and never regenerates it. Failures return an error so a failed attempt is
// never cached as the authoritative report.
func (c *Controller) Summarize(ctx context.Context, in FeedbackInput) (string, error) {
	report, err := c.provider.Generate(ctx, buildFeedbackPrompt(in), feedbackOptions)
	if err != nil {
		return "", fmt.Errorf("feedback generation failed: %w", err)
	}
	return report, nil
}

func buildFeedbackPrompt(in FeedbackInput) string {
	language := in.Language
	if language == "" {
		language = "Not specified"
	}
	conversation := formatTurns(lastTurns(in.Turns, feedbackWindow), true)

	codeSection := "CODE: Not provided"
	if in.Code != "" {
		codeSection = "CODE:\n" + in.Code
	}

	var b strings.Builder
	b.WriteString("You are a senior software engineer providing concise, actionable interview feedback for a DSA interview at a top tech company.\n\n")
	fmt.Fprintf(&b, "INTERVIEW SUMMARY:\nQuestion: %s (%s)\nLanguage: %s\nTotal Time: %s\n\n",
		in.QuestionTitle, in.Difficulty, language, minSec(in.TotalSeconds))
	b.WriteString("TIME PER STAGE:\n")
	for _, stage := range []Stage{StageExplanation, StageCoding, StageFollowup, StageComplexity, StageOptimization} {
		fmt.Fprintf(&b, "- %s: %s\n", stageLabel(stage), minSec(in.StageSeconds[string(stage)]))
	}
	fmt.Fprintf(&b, "\nCONVERSATION:\n%s\n\n%s\n\n", conversation, codeSection)
	b.WriteString(feedbackTemplate)
	return b.String()
}

const feedbackTemplate = `Provide ultra-concise, keyword-packed feedback in this exact format (keep total under 200 words):

## Overall Rating
[One phrase: Strong/Good/Needs Improvement]

## Strengths
- [Keyword/phrase 1]
- [Keyword/phrase 2]
- [Keyword/phrase 3 if applicable]

## Improvements
- [Keyword/phrase 1]
- [Keyword/phrase 2]
- [Keyword/phrase 3 if applicable]

## Assessment
**Problem-Solving:** [One phrase: e.g., "Clear approach, missed edge cases"]
**Code:** [One phrase: e.g., "Correct but verbose" or "Incomplete"]
**Complexity:** [One phrase: e.g., "Accurate O(n) analysis" or "Incorrect space complexity"]
**Communication:** [One phrase: e.g., "Clear explanations" or "Needs clarity"]
**Time:** [One phrase: e.g., "Efficient" or "Too slow"]

## Verdict
[Strong Hire/Hire/Weak Hire/No Hire] - [One phrase justification]

Rules:
- Maximum 200 words total
- Use keywords/phrases, not full sentences
- Be specific but brief
- Reference actual examples
- FAANG standards`

func minSec(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func stageLabel(s Stage) string {
	switch s {
	case StageFollowup:
		return "Follow-up"
	default:
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}
