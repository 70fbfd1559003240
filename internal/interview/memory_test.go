package interview

import (
	"context"
	"testing"
)

func TestMemoryStoreSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()

	sess, err := st.CreateSession(ctx, "u1", "q1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.CurrentStage != StageExplanation || sess.Status != StatusInProgress {
		t.Fatalf("new session = %+v", sess)
	}

	// Ownership check: another user must not see the session.
	if _, err := st.GetSession(ctx, sess.ID, "u2"); err == nil {
		t.Fatal("expected not-found for foreign user")
	}

	if _, err := st.AppendTurn(ctx, sess.ID, SpeakerUser, "hello"); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if _, err := st.AppendTurn(ctx, sess.ID, SpeakerInterviewer, "hi"); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	turns, err := st.Transcript(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if len(turns) != 2 || turns[0].Position != 0 || turns[1].Position != 1 {
		t.Fatalf("transcript = %+v", turns)
	}
}

func TestMemoryStoreStageTurnCounting(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	sess, _ := st.CreateSession(ctx, "u1", "q1")

	// Self-loop increments, stage change resets.
	s, err := st.AdvanceStage(ctx, sess.ID, StageExplanation)
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if s.StageTurns != 1 {
		t.Errorf("after self-loop, StageTurns = %d, want 1", s.StageTurns)
	}
	s, _ = st.AdvanceStage(ctx, sess.ID, StageExplanation)
	if s.StageTurns != 2 {
		t.Errorf("after second self-loop, StageTurns = %d, want 2", s.StageTurns)
	}
	s, _ = st.AdvanceStage(ctx, sess.ID, StageCoding)
	if s.StageTurns != 0 {
		t.Errorf("after stage change, StageTurns = %d, want 0", s.StageTurns)
	}

	s, _ = st.AdvanceStage(ctx, sess.ID, StageComplete)
	if s.Status != StatusCompleted || s.CompletedAt == 0 {
		t.Errorf("completion not recorded: %+v", s)
	}
}

func TestMemoryStoreMergeStageTimes(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	sess, _ := st.CreateSession(ctx, "u1", "q1")

	merged, err := st.MergeStageTimes(ctx, sess.ID, map[string]int{"coding": 60, "explanation": 30})
	if err != nil {
		t.Fatalf("MergeStageTimes: %v", err)
	}
	if merged["coding"] != 60 || merged["explanation"] != 30 {
		t.Fatalf("first merge = %v", merged)
	}
	merged, _ = st.MergeStageTimes(ctx, sess.ID, map[string]int{"coding": 15})
	if merged["coding"] != 75 || merged["explanation"] != 30 {
		t.Fatalf("second merge = %v", merged)
	}

	got, _ := st.GetSession(ctx, sess.ID, "u1")
	if got.TotalSeconds() != 105 {
		t.Errorf("TotalSeconds = %d, want 105", got.TotalSeconds())
	}
}

func TestMemoryStoreFeedbackWriteOnce(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	sess, _ := st.CreateSession(ctx, "u1", "q1")

	first, err := st.SaveFeedbackOnce(ctx, sess.ID, "report A")
	if err != nil {
		t.Fatalf("SaveFeedbackOnce: %v", err)
	}
	if first != "report A" {
		t.Fatalf("first save = %q", first)
	}
	second, err := st.SaveFeedbackOnce(ctx, sess.ID, "report B")
	if err != nil {
		t.Fatalf("SaveFeedbackOnce: %v", err)
	}
	if second != "report A" {
		t.Errorf("second save replaced feedback: %q", second)
	}
}
