package interview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manangupta12/mock-interviews-ai/internal/llm"
)

var dialogueOptions = llm.Options{
	Temperature:     0.7,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 300,
}

// Controller produces the next interviewer utterance and stage for one
// dialogue turn. It is stateless; all durable state lives in the caller's
// session store.
type Controller struct {
	provider llm.Provider
}

func NewController(p llm.Provider) *Controller {
	return &Controller{provider: p}
}

// Respond runs one dialogue turn. The only error it returns is an undefined
// stage, which indicates caller corruption; every model-side failure is
// absorbed into a Decision so the interview never stalls.
func (c *Controller) Respond(ctx context.Context, ic Context) (Decision, error) {
	if !ValidStage(ic.Stage) {
		return Decision{}, fmt.Errorf("undefined interview stage %q", ic.Stage)
	}

	reply, err := c.provider.Generate(ctx, buildPrompt(ic), dialogueOptions)
	if err != nil {
		if errors.Is(err, llm.ErrBlocked) {
			return blockedDecision(ic.Stage), nil
		}
		log.Printf("interview: model call failed in stage %s: %v", ic.Stage, err)
		return failureDecision(ic.Stage, err), nil
	}

	next := safeClassify(ic.Stage, reply, ic.StageTurns)
	if ic.Stage == StageCoding && ic.CodingComplete {
		// The explicit "coding complete" signal always advances.
		next = StageFollowup
	}
	return Decision{Message: reply, NextStage: next}, nil
}

// safeClassify shields the caller from any defect in the classifier; a
// panic falls back to the static progression table.
func safeClassify(stage Stage, reply string, stageTurns int) (next Stage) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("interview: stage classification failed (%v), using fallback", r)
			next = FallbackStage(stage)
		}
	}()
	return ClassifyNextStage(stage, reply, stageTurns)
}

// blockedDecision synthesizes a neutral continuation when the model output
// is empty or filtered, so the candidate never sees the failure.
func blockedDecision(stage Stage) Decision {
	switch stage {
	case StageExplanation:
		return Decision{
			Message:   "I understand your approach. Please proceed to coding the solution.",
			NextStage: StageCoding,
		}
	case StageCoding:
		return Decision{
			Message:   "Good work on the code. Let's move to follow-up questions.",
			NextStage: StageFollowup,
		}
	case StageFollowup:
		return Decision{
			Message:   "Can you walk me through the key part of your solution and why you wrote it that way?",
			NextStage: StageFollowup,
		}
	default:
		return Decision{
			Message:   "I understand. Let's continue with the next step.",
			NextStage: stage,
		}
	}
}

// failureDecision maps an external call failure to a short user-facing
// explanation. The stage never advances on failure.
func failureDecision(stage Stage, err error) Decision {
	msg := strings.ToLower(err.Error())
	var text string
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "authentication") || strings.Contains(msg, "401"):
		text = "API authentication error. Please check the interviewer's API key configuration."
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		text = "API quota exceeded. Please try again in a moment."
	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked"):
		text = "Your message was filtered by safety settings. Could you rephrase it?"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		text = "Request timed out. Please try again."
	default:
		text = "I encountered an issue processing that. Could you please rephrase or try again?"
	}
	return Decision{Message: text, NextStage: stage}
}
