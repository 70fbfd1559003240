package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/manangupta12/mock-interviews-ai/internal/auth/middleware"
	"github.com/manangupta12/mock-interviews-ai/internal/interview"
	"github.com/manangupta12/mock-interviews-ai/internal/judge"
	"github.com/manangupta12/mock-interviews-ai/internal/questionbank"
)

// StartInterviewHandler creates a session against a randomly drawn question.
// POST /api/interviews/start  { "difficulty": "Easy", "company": "General" }
func StartInterviewHandler(sessions interview.Store, questions questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req struct {
			Difficulty string `json:"difficulty"`
			Company    string `json:"company"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Difficulty == "" {
			http.Error(w, "difficulty required", http.StatusBadRequest)
			return
		}
		q, err := questions.Random(r.Context(), req.Difficulty, req.Company)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		sess, err := sessions.CreateSession(r.Context(), userID, q.ID)
		if err != nil {
			http.Error(w, "create session", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"session_id": sess.ID,
			"stage":      sess.CurrentStage,
			"question": map[string]interface{}{
				"id":          q.ID,
				"title":       q.Title,
				"description": q.Description,
				"difficulty":  q.Difficulty,
				"company":     q.Company,
				"examples":    q.Examples,
				"constraints": q.Constraints,
			},
		})
	}
}

// ChatHandler records a user turn, asks the interviewer for a reply, and
// advances the stage according to the reply.
// POST /api/interviews/{sessionID}/chat  { "message": "..." }
func ChatHandler(sessions interview.Store, questions questionbank.Store, ctrl *interview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
			http.Error(w, "message required", http.StatusBadRequest)
			return
		}
		sess, err := sessions.GetSession(r.Context(), sessionID, userID)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if sess.Status == interview.StatusCompleted {
			http.Error(w, "session already completed", http.StatusConflict)
			return
		}
		q, err := questions.Get(r.Context(), sess.QuestionID)
		if err != nil {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		if _, err := sessions.AppendTurn(r.Context(), sessionID, interview.SpeakerUser, req.Message); err != nil {
			http.Error(w, "record message", 500)
			return
		}
		turns, err := sessions.Transcript(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "load transcript", 500)
			return
		}
		dec, err := ctrl.Respond(r.Context(), interview.Context{
			Stage:               sess.CurrentStage,
			QuestionTitle:       q.Title,
			QuestionDescription: q.Description,
			Difficulty:          q.Difficulty,
			UserMessage:         req.Message,
			Turns:               turns,
			Code:                sess.CodeSolution,
			StageTurns:          sess.StageTurns,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := sessions.AppendTurn(r.Context(), sessionID, interview.SpeakerInterviewer, dec.Message); err != nil {
			http.Error(w, "record reply", 500)
			return
		}
		if _, err := sessions.AdvanceStage(r.Context(), sessionID, dec.NextStage); err != nil {
			http.Error(w, "advance stage", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(dec)
	}
}

// SubmitCodeHandler stores the candidate's current solution draft.
// POST /api/interviews/{sessionID}/submit-code  { "code": "...", "language": "python" }
func SubmitCodeHandler(sessions interview.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		var req struct {
			Code     string `json:"code"`
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}
		if req.Language == "" {
			req.Language = "python"
		}
		if _, err := sessions.GetSession(r.Context(), sessionID, userID); err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if err := sessions.SaveCode(r.Context(), sessionID, req.Code, req.Language); err != nil {
			http.Error(w, "save code", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "saved"})
	}
}

// CompleteCodingHandler marks the coding stage finished and produces the
// interviewer's transition into follow-up questions.
// POST /api/interviews/{sessionID}/complete-coding
func CompleteCodingHandler(sessions interview.Store, questions questionbank.Store, ctrl *interview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		sess, err := sessions.GetSession(r.Context(), sessionID, userID)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if sess.CurrentStage != interview.StageCoding {
			http.Error(w, "session is not in the coding stage", http.StatusConflict)
			return
		}
		if sess.CodeSolution == "" {
			http.Error(w, "no code submitted yet", http.StatusConflict)
			return
		}
		q, err := questions.Get(r.Context(), sess.QuestionID)
		if err != nil {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		turns, err := sessions.Transcript(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "load transcript", 500)
			return
		}
		dec, err := ctrl.Respond(r.Context(), interview.Context{
			Stage:               sess.CurrentStage,
			QuestionTitle:       q.Title,
			QuestionDescription: q.Description,
			Difficulty:          q.Difficulty,
			UserMessage:         "I have finished implementing my solution.",
			Turns:               turns,
			Code:                sess.CodeSolution,
			StageTurns:          sess.StageTurns,
			CodingComplete:      true,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := sessions.AppendTurn(r.Context(), sessionID, interview.SpeakerInterviewer, dec.Message); err != nil {
			http.Error(w, "record reply", 500)
			return
		}
		if _, err := sessions.AdvanceStage(r.Context(), sessionID, dec.NextStage); err != nil {
			http.Error(w, "advance stage", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(dec)
	}
}

// ExecuteCodeHandler runs the stored solution against the question's test
// cases through the remote judge and records the pass/fail tally.
// POST /api/interviews/{sessionID}/execute-code  { "code": "...", "language": "python" }
func ExecuteCodeHandler(sessions interview.Store, questions questionbank.Store, harness *judge.Harness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		var req struct {
			Code     string `json:"code"`
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		sess, err := sessions.GetSession(r.Context(), sessionID, userID)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		code, language := req.Code, req.Language
		if code == "" {
			code, language = sess.CodeSolution, sess.Language
		}
		if code == "" {
			http.Error(w, "no code to execute", http.StatusBadRequest)
			return
		}
		if language == "" {
			language = "python"
		}
		q, err := questions.Get(r.Context(), sess.QuestionID)
		if err != nil {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		if len(q.TestCases) == 0 {
			http.Error(w, "question has no test cases", http.StatusConflict)
			return
		}
		cases := make([]judge.TestCase, len(q.TestCases))
		for i, tc := range q.TestCases {
			cases[i] = judge.TestCase{Input: tc.Input, Expected: tc.Output}
		}
		if err := sessions.SaveCode(r.Context(), sessionID, code, language); err != nil {
			http.Error(w, "save code", 500)
			return
		}
		summary := harness.Run(r.Context(), code, language, cases)
		res := interview.TestResultSummary{
			Passed: summary.Passed,
			Failed: summary.Total - summary.Passed,
			Total:  summary.Total,
		}
		if err := sessions.SaveTestResults(r.Context(), sessionID, res); err != nil {
			log.Printf("execute-code: save results for %s: %v", sessionID, err)
		}
		_ = json.NewEncoder(w).Encode(summary)
	}
}

// SaveStatisticsHandler merges per-stage elapsed seconds reported by the
// client into the session's stored tallies.
// POST /api/interviews/{sessionID}/save-statistics  { "stage_times": {"coding": 120} }
func SaveStatisticsHandler(sessions interview.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		var req struct {
			StageTimes map[string]int `json:"stage_times"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.StageTimes) == 0 {
			http.Error(w, "stage_times required", http.StatusBadRequest)
			return
		}
		for stage, secs := range req.StageTimes {
			if !interview.ValidStage(interview.Stage(stage)) || secs < 0 {
				http.Error(w, "invalid stage_times", http.StatusBadRequest)
				return
			}
		}
		if _, err := sessions.GetSession(r.Context(), sessionID, userID); err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		merged, err := sessions.MergeStageTimes(r.Context(), sessionID, req.StageTimes)
		if err != nil {
			http.Error(w, "save statistics", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"stage_times": merged})
	}
}

// ListSessionsHandler returns the caller's sessions enriched with question
// titles for the history view.
// GET /api/interviews/sessions
func ListSessionsHandler(sessions interview.Store, questions questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		list, err := sessions.ListSessions(r.Context(), userID)
		if err != nil {
			http.Error(w, "list sessions", 500)
			return
		}
		out := make([]map[string]interface{}, 0, len(list))
		for _, s := range list {
			item := map[string]interface{}{
				"session_id":         s.ID,
				"status":             s.Status,
				"current_stage":      s.CurrentStage,
				"started_at":         s.StartedAt,
				"completed_at":       s.CompletedAt,
				"test_results":       s.TestResults,
				"total_time_seconds": s.TotalSeconds(),
				"has_feedback":       s.Feedback != "",
			}
			if q, err := questions.Get(r.Context(), s.QuestionID); err == nil {
				item["question_title"] = q.Title
				item["difficulty"] = q.Difficulty
			}
			out = append(out, item)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sessions": out})
	}
}

// GetSessionHandler returns one session with its question and transcript.
// GET /api/interviews/session/{sessionID}
func GetSessionHandler(sessions interview.Store, questions questionbank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		sess, err := sessions.GetSession(r.Context(), sessionID, userID)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		turns, err := sessions.Transcript(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "load transcript", 500)
			return
		}
		resp := map[string]interface{}{
			"session":    sess,
			"transcript": turns,
		}
		if q, err := questions.Get(r.Context(), sess.QuestionID); err == nil {
			resp["question"] = q
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// FeedbackHandler returns the cached interview feedback, generating and
// caching it on first request.
// GET /api/interviews/session/{sessionID}/feedback
func FeedbackHandler(sessions interview.Store, questions questionbank.Store, ctrl *interview.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		sessionID := chi.URLParam(r, "sessionID")
		sess, err := sessions.GetSession(r.Context(), sessionID, userID)
		if err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if sess.Feedback != "" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"session_id": sessionID, "feedback": sess.Feedback, "cached": true,
			})
			return
		}
		turns, err := sessions.Transcript(r.Context(), sessionID)
		if err != nil {
			http.Error(w, "load transcript", 500)
			return
		}
		in := interview.FeedbackInput{
			Difficulty:   "Medium",
			Language:     sess.Language,
			Code:         sess.CodeSolution,
			StageSeconds: sess.StageStats,
			Turns:        turns,
			TotalSeconds: sess.TotalSeconds(),
		}
		if q, err := questions.Get(r.Context(), sess.QuestionID); err == nil {
			in.QuestionTitle = q.Title
			in.Difficulty = q.Difficulty
		}
		feedback, err := ctrl.Summarize(r.Context(), in)
		if err != nil {
			log.Printf("feedback: generate for %s: %v", sessionID, err)
			http.Error(w, "feedback generation failed, try again later", http.StatusBadGateway)
			return
		}
		stored, err := sessions.SaveFeedbackOnce(r.Context(), sessionID, feedback)
		if err != nil {
			http.Error(w, "save feedback", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"session_id": sessionID, "feedback": stored, "cached": stored != feedback,
		})
	}
}
