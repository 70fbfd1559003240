package interview

// Stage is one phase of the scripted interview flow. The six names below
// are the whole vocabulary surfaced to callers, as plain strings.
type Stage string

const (
	StageExplanation  Stage = "explanation"
	StageCoding       Stage = "coding"
	StageFollowup     Stage = "followup"
	StageComplexity   Stage = "complexity"
	StageOptimization Stage = "optimization"
	StageComplete     Stage = "complete"
)

// Speakers recorded in the transcript.
const (
	SpeakerUser        = "user"
	SpeakerInterviewer = "interviewer"
)

// Session statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

func ValidStage(s Stage) bool {
	switch s {
	case StageExplanation, StageCoding, StageFollowup, StageComplexity, StageOptimization, StageComplete:
		return true
	}
	return false
}

// Turn is one transcript entry. Append-only, ordered by Position.
type Turn struct {
	Speaker  string `json:"speaker"`
	Message  string `json:"message"`
	Position int    `json:"position"`
}

// Context is the read-only snapshot the dialogue controller works from.
// The controller never mutates session state; it returns a Decision the
// caller applies.
type Context struct {
	Stage               Stage
	QuestionTitle       string
	QuestionDescription string
	Difficulty          string
	UserMessage         string
	Turns               []Turn // full transcript; the prompt embeds a bounded window
	Code                string // optional submitted solution
	StageTurns          int    // interviewer turns since the current stage was entered
	CodingComplete      bool   // explicit caller signal that coding is done
}

// Decision is the controller's output: the interviewer utterance plus the
// stage the caller should persist. Both fields are always set.
type Decision struct {
	Message   string `json:"message"`
	NextStage Stage  `json:"next_stage"`
}

// TestResultSummary is the persisted rollup of the latest execution run.
type TestResultSummary struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// Session is the durable per-interview record.
type Session struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	QuestionID   string             `json:"question_id"`
	Status       string             `json:"status"`
	CurrentStage Stage              `json:"current_stage"`
	StageTurns   int                `json:"-"`
	CodeSolution string             `json:"code_solution,omitempty"`
	Language     string             `json:"language,omitempty"`
	StageStats   map[string]int     `json:"stage_statistics,omitempty"`
	TestResults  *TestResultSummary `json:"test_results,omitempty"`
	Feedback     string             `json:"feedback,omitempty"`
	StartedAt    int64              `json:"started_at"`
	CompletedAt  int64              `json:"completed_at,omitempty"`
}

// TotalSeconds sums the recorded per-stage times.
func (s Session) TotalSeconds() int {
	total := 0
	for _, v := range s.StageStats {
		total += v
	}
	return total
}
