package interview

import "strings"

// The model is not trusted to emit structured output, so stage advancement
// is a post-hoc scan of its free-text reply for marker vocabulary. This is
// a best-effort heuristic, isolated here so it could be swapped for a
// structured stage tag from the model without touching the controller.

var (
	approvalWords     = []string{"good", "sounds good", "proceed", "code", "implement", "write"}
	completionWords   = []string{"complete", "completed", "finished", "done coding"}
	transitionWords   = []string{"complexity", "move on", "next"}
	optimizationWords = []string{"optimization", "optimize", "better approach", "can you improve"}
	confirmWords      = []string{"great", "excellent", "correct", "that's right", "perfect"}
)

// followupTurnThreshold is how many interviewer turns must occur in the
// followup stage before transition language is honored.
const followupTurnThreshold = 2

// ClassifyNextStage decides the next stage from the interviewer reply.
// stageTurns is the interviewer-turn count within the current stage, before
// this reply is recorded.
func ClassifyNextStage(stage Stage, reply string, stageTurns int) Stage {
	lower := strings.ToLower(reply)

	switch stage {
	case StageExplanation:
		if containsAny(lower, approvalWords) {
			return StageCoding
		}
		return StageExplanation

	case StageCoding:
		// Coding is candidate-driven; the only model-side advance is an
		// explicit completion marker. Everything else holds the stage.
		if containsAny(lower, completionWords) {
			return StageFollowup
		}
		return StageCoding

	case StageFollowup:
		if askingComplexity(lower) {
			return StageComplexity
		}
		if stageTurns >= followupTurnThreshold && containsAny(lower, transitionWords) {
			return StageComplexity
		}
		return StageFollowup

	case StageComplexity:
		if containsAny(lower, optimizationWords) {
			return StageOptimization
		}
		if containsAny(lower, confirmWords) &&
			(strings.Contains(lower, "complexity") || strings.Contains(lower, "analysis")) {
			return StageComplete
		}
		return StageComplexity

	case StageOptimization:
		return StageComplete
	}
	return stage
}

// askingComplexity reports that the reply itself already asks a complexity
// question: a complexity keyword co-occurring with a time/space keyword.
func askingComplexity(lower string) bool {
	if !strings.Contains(lower, "complexity") && !strings.Contains(lower, "analyze") {
		return false
	}
	return strings.Contains(lower, "time") || strings.Contains(lower, "space") || strings.Contains(lower, "big o")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// fallbackNext is the static progression used when classification itself
// fails; it guarantees a defined next stage for every defined stage.
var fallbackNext = map[Stage]Stage{
	StageExplanation:  StageCoding,
	StageCoding:       StageFollowup,
	StageFollowup:     StageComplexity,
	StageComplexity:   StageOptimization,
	StageOptimization: StageComplete,
	StageComplete:     StageComplete,
}

// FallbackStage returns the canonical next stage from the static table.
func FallbackStage(s Stage) Stage {
	if next, ok := fallbackNext[s]; ok {
		return next
	}
	return s
}
