package interview

import "context"

// Store owns all durable session state. The core reads a snapshot at the
// start of an operation and writes the outcome at the end; callers are
// expected to serialize operations per session id.
type Store interface {
	CreateSession(ctx context.Context, userID, questionID string) (Session, error)
	GetSession(ctx context.Context, id, userID string) (Session, error)
	ListSessions(ctx context.Context, userID string) ([]Session, error)

	AppendTurn(ctx context.Context, sessionID, speaker, message string) (Turn, error)
	Transcript(ctx context.Context, sessionID string) ([]Turn, error)

	// AdvanceStage applies a stage decision: same stage bumps the
	// interviewer-turn counter, a new stage resets it, and reaching
	// complete marks the session completed.
	AdvanceStage(ctx context.Context, sessionID string, next Stage) (Session, error)

	SaveCode(ctx context.Context, sessionID, code, language string) error
	SaveTestResults(ctx context.Context, sessionID string, res TestResultSummary) error

	// MergeStageTimes adds the supplied per-stage seconds to whatever is
	// already recorded and returns the merged map.
	MergeStageTimes(ctx context.Context, sessionID string, times map[string]int) (map[string]int, error)

	// SaveFeedbackOnce persists feedback only when none exists yet and
	// returns the authoritative value either way.
	SaveFeedbackOnce(ctx context.Context, sessionID, feedback string) (string, error)
}
