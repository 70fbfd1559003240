package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	auth "github.com/manangupta12/mock-interviews-ai/internal/auth/middleware"
	"github.com/manangupta12/mock-interviews-ai/internal/interview"
	"github.com/manangupta12/mock-interviews-ai/internal/judge"
	"github.com/manangupta12/mock-interviews-ai/internal/llm"
	"github.com/manangupta12/mock-interviews-ai/internal/questionbank"
)

type fakeQuestions struct {
	byID map[string]questionbank.Question
}

func (f *fakeQuestions) Put(_ context.Context, q questionbank.Question) error {
	f.byID[q.ID] = q
	return nil
}

func (f *fakeQuestions) Get(_ context.Context, id string) (questionbank.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return questionbank.Question{}, questionbank.ErrNoQuestions
	}
	return q, nil
}

func (f *fakeQuestions) Random(_ context.Context, difficulty, _ string) (questionbank.Question, error) {
	for _, q := range f.byID {
		if q.Difficulty == difficulty {
			return q, nil
		}
	}
	return questionbank.Question{}, questionbank.ErrNoQuestions
}

type scriptedProvider struct {
	replies []string
	err     error
	calls   int
}

func (s *scriptedProvider) Generate(_ context.Context, _ string, _ llm.Options) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	i := s.calls
	s.calls++
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return s.replies[len(s.replies)-1], nil
}

type fixedSubmitter struct{ result judge.SubmissionResult }

func (f fixedSubmitter) Submit(_ context.Context, _ judge.Submission) (judge.SubmissionResult, error) {
	return f.result, nil
}

type env struct {
	sessions  interview.Store
	questions *fakeQuestions
	provider  *scriptedProvider
	router    chi.Router
}

func newEnv(t *testing.T, provider *scriptedProvider, submitter judge.Submitter) *env {
	t.Helper()
	e := &env{
		sessions: interview.NewInMemoryStore(),
		questions: &fakeQuestions{byID: map[string]questionbank.Question{
			"q1": {
				ID: "q1", Title: "Two Sum", Description: "Find two indices.", Difficulty: "Easy",
				TestCases: []questionbank.TestCase{
					{Input: "[2,7,11,15]\n9", Output: "[0,1]"},
					{Input: "[3,3]\n6", Output: "[0,1]"},
				},
			},
		}},
		provider: provider,
	}
	ctrl := interview.NewController(provider)
	harness := judge.NewHarness(submitter)

	r := chi.NewRouter()
	r.Post("/start", StartInterviewHandler(e.sessions, e.questions))
	r.Get("/sessions", ListSessionsHandler(e.sessions, e.questions))
	r.Get("/session/{sessionID}", GetSessionHandler(e.sessions, e.questions))
	r.Get("/session/{sessionID}/feedback", FeedbackHandler(e.sessions, e.questions, ctrl))
	r.Post("/{sessionID}/chat", ChatHandler(e.sessions, e.questions, ctrl))
	r.Post("/{sessionID}/submit-code", SubmitCodeHandler(e.sessions))
	r.Post("/{sessionID}/complete-coding", CompleteCodingHandler(e.sessions, e.questions, ctrl))
	r.Post("/{sessionID}/execute-code", ExecuteCodeHandler(e.sessions, e.questions, harness))
	r.Post("/{sessionID}/save-statistics", SaveStatisticsHandler(e.sessions))
	e.router = r
	return e
}

func (e *env) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req = req.WithContext(auth.WithSubject(req.Context(), "u1"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) start(t *testing.T) string {
	t.Helper()
	rec := e.do(t, "POST", "/start", `{"difficulty":"Easy"}`)
	if rec.Code != 200 {
		t.Fatalf("start: status %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.SessionID
}

func TestStartInterview(t *testing.T) {
	e := newEnv(t, &scriptedProvider{replies: []string{"ok"}}, fixedSubmitter{})

	rec := e.do(t, "POST", "/start", `{"difficulty":"Easy","company":"General"}`)
	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		SessionID string `json:"session_id"`
		Stage     string `json:"stage"`
		Question  struct {
			Title string `json:"title"`
		} `json:"question"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" || resp.Stage != "explanation" || resp.Question.Title != "Two Sum" {
		t.Errorf("resp = %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "test_cases") {
		t.Error("hidden test cases leaked in start response")
	}

	if rec := e.do(t, "POST", "/start", `{"difficulty":"Hard"}`); rec.Code != http.StatusNotFound {
		t.Errorf("no Hard questions: status %d", rec.Code)
	}
	if rec := e.do(t, "POST", "/start", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing difficulty: status %d", rec.Code)
	}
}

func TestChatAdvancesStage(t *testing.T) {
	e := newEnv(t, &scriptedProvider{replies: []string{"Good plan, please write the code."}}, fixedSubmitter{})
	id := e.start(t)

	rec := e.do(t, "POST", "/"+id+"/chat", `{"message":"I'll use a hash map."}`)
	if rec.Code != 200 {
		t.Fatalf("chat: status %d: %s", rec.Code, rec.Body)
	}
	var dec interview.Decision
	if err := json.Unmarshal(rec.Body.Bytes(), &dec); err != nil {
		t.Fatal(err)
	}
	if dec.NextStage != interview.StageCoding {
		t.Errorf("next stage = %s", dec.NextStage)
	}

	sess, _ := e.sessions.GetSession(context.Background(), id, "u1")
	if sess.CurrentStage != interview.StageCoding {
		t.Errorf("persisted stage = %s", sess.CurrentStage)
	}
	turns, _ := e.sessions.Transcript(context.Background(), id)
	if len(turns) != 2 || turns[0].Speaker != interview.SpeakerUser || turns[1].Speaker != interview.SpeakerInterviewer {
		t.Errorf("transcript = %+v", turns)
	}
}

func TestChatValidation(t *testing.T) {
	e := newEnv(t, &scriptedProvider{replies: []string{"ok"}}, fixedSubmitter{})
	id := e.start(t)

	if rec := e.do(t, "POST", "/"+id+"/chat", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty message: status %d", rec.Code)
	}
	if rec := e.do(t, "POST", "/nope/chat", `{"message":"hi"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown session: status %d", rec.Code)
	}
}

func TestSubmitAndCompleteCoding(t *testing.T) {
	e := newEnv(t, &scriptedProvider{replies: []string{
		"Good, write the code.",
		"Why did you choose a hash map?",
	}}, fixedSubmitter{})
	id := e.start(t)
	e.do(t, "POST", "/"+id+"/chat", `{"message":"hash map"}`) // -> coding

	// Completing without code is rejected.
	if rec := e.do(t, "POST", "/"+id+"/complete-coding", ""); rec.Code != http.StatusConflict {
		t.Errorf("complete without code: status %d", rec.Code)
	}

	rec := e.do(t, "POST", "/"+id+"/submit-code", `{"code":"def two_sum(nums, target): pass","language":"python"}`)
	if rec.Code != 200 {
		t.Fatalf("submit-code: status %d", rec.Code)
	}

	rec = e.do(t, "POST", "/"+id+"/complete-coding", "")
	if rec.Code != 200 {
		t.Fatalf("complete-coding: status %d: %s", rec.Code, rec.Body)
	}
	var dec interview.Decision
	_ = json.Unmarshal(rec.Body.Bytes(), &dec)
	if dec.NextStage != interview.StageFollowup {
		t.Errorf("next stage = %s", dec.NextStage)
	}

	// Completing again from followup is a conflict.
	if rec := e.do(t, "POST", "/"+id+"/complete-coding", ""); rec.Code != http.StatusConflict {
		t.Errorf("double complete: status %d", rec.Code)
	}
}

func TestExecuteCode(t *testing.T) {
	sub := fixedSubmitter{result: judge.SubmissionResult{
		Status: judge.SubmissionStatus{ID: judge.StatusAccepted, Description: "Accepted"},
		Stdout: "[0,1]\n",
	}}
	e := newEnv(t, &scriptedProvider{replies: []string{"ok"}}, sub)
	id := e.start(t)

	rec := e.do(t, "POST", "/"+id+"/execute-code", `{"code":"def two_sum(nums, target): return [0,1]","language":"python"}`)
	if rec.Code != 200 {
		t.Fatalf("execute-code: status %d: %s", rec.Code, rec.Body)
	}
	var sum judge.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if !sum.AllPassed || sum.Total != 2 || sum.Passed != 2 {
		t.Errorf("summary = %+v", sum)
	}

	sess, _ := e.sessions.GetSession(context.Background(), id, "u1")
	if sess.TestResults == nil || sess.TestResults.Passed != 2 || sess.TestResults.Total != 2 {
		t.Errorf("persisted results = %+v", sess.TestResults)
	}
	if sess.CodeSolution == "" {
		t.Error("executed code not persisted")
	}

	// No code anywhere: rejected.
	id2 := e.start(t)
	if rec := e.do(t, "POST", "/"+id2+"/execute-code", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("no code: status %d", rec.Code)
	}
}

func TestSaveStatistics(t *testing.T) {
	e := newEnv(t, &scriptedProvider{replies: []string{"ok"}}, fixedSubmitter{})
	id := e.start(t)

	rec := e.do(t, "POST", "/"+id+"/save-statistics", `{"stage_times":{"coding":90,"explanation":30}}`)
	if rec.Code != 200 {
		t.Fatalf("save-statistics: status %d: %s", rec.Code, rec.Body)
	}
	rec = e.do(t, "POST", "/"+id+"/save-statistics", `{"stage_times":{"coding":10}}`)
	if rec.Code != 200 {
		t.Fatalf("second save: status %d", rec.Code)
	}
	var resp struct {
		StageTimes map[string]int `json:"stage_times"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.StageTimes["coding"] != 100 || resp.StageTimes["explanation"] != 30 {
		t.Errorf("merged = %v", resp.StageTimes)
	}

	if rec := e.do(t, "POST", "/"+id+"/save-statistics", `{"stage_times":{"daydreaming":5}}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown stage: status %d", rec.Code)
	}
	if rec := e.do(t, "POST", "/"+id+"/save-statistics", `{"stage_times":{"coding":-1}}`); rec.Code != http.StatusBadRequest {
		t.Errorf("negative seconds: status %d", rec.Code)
	}
}

func TestFeedbackCachedOnce(t *testing.T) {
	p := &scriptedProvider{replies: []string{"## Overall Rating\nGood"}}
	e := newEnv(t, p, fixedSubmitter{})
	id := e.start(t)

	rec := e.do(t, "GET", "/session/"+id+"/feedback", "")
	if rec.Code != 200 {
		t.Fatalf("feedback: status %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Feedback string `json:"feedback"`
		Cached   bool   `json:"cached"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Cached || resp.Feedback == "" {
		t.Errorf("first call = %+v", resp)
	}
	callsAfterFirst := p.calls

	rec = e.do(t, "GET", "/session/"+id+"/feedback", "")
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Cached {
		t.Error("second call not served from cache")
	}
	if p.calls != callsAfterFirst {
		t.Error("second call hit the model again")
	}
}

func TestFeedbackFailureNotCached(t *testing.T) {
	p := &scriptedProvider{err: errors.New("boom")}
	e := newEnv(t, p, fixedSubmitter{})
	id := e.start(t)

	if rec := e.do(t, "GET", "/session/"+id+"/feedback", ""); rec.Code != http.StatusBadGateway {
		t.Fatalf("failed generation: status %d", rec.Code)
	}
	sess, _ := e.sessions.GetSession(context.Background(), id, "u1")
	if sess.Feedback != "" {
		t.Errorf("failure was cached: %q", sess.Feedback)
	}

	// Recovery: the next attempt succeeds and is cached.
	p.err = nil
	p.replies = []string{"recovered report"}
	rec := e.do(t, "GET", "/session/"+id+"/feedback", "")
	if rec.Code != 200 {
		t.Fatalf("retry: status %d", rec.Code)
	}
	sess, _ = e.sessions.GetSession(context.Background(), id, "u1")
	if sess.Feedback != "recovered report" {
		t.Errorf("retry not cached: %q", sess.Feedback)
	}
}

func TestListAndGetSession(t *testing.T) {
	e := newEnv(t, &scriptedProvider{replies: []string{"ok"}}, fixedSubmitter{})
	id := e.start(t)

	rec := e.do(t, "GET", "/sessions", "")
	if rec.Code != 200 {
		t.Fatalf("sessions: status %d", rec.Code)
	}
	var list struct {
		Sessions []map[string]interface{} `json:"sessions"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Sessions) != 1 || list.Sessions[0]["question_title"] != "Two Sum" {
		t.Errorf("list = %+v", list.Sessions)
	}

	rec = e.do(t, "GET", "/session/"+id, "")
	if rec.Code != 200 {
		t.Fatalf("session: status %d", rec.Code)
	}
	for _, key := range []string{`"session"`, `"question"`, `"transcript"`} {
		if !strings.Contains(rec.Body.String(), key) {
			t.Errorf("session response missing %s", key)
		}
	}
}

func TestHandlersRequireSubject(t *testing.T) {
	e := newEnv(t, &scriptedProvider{replies: []string{"ok"}}, fixedSubmitter{})
	req := httptest.NewRequest("POST", "/start", strings.NewReader(`{"difficulty":"Easy"}`))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no subject: status %d", rec.Code)
	}
}
