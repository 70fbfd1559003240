package interview

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("interview session not found")

type SQLStore struct {
	db     *sql.DB
	events *EventRepo
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, events: NewEventRepo(db)}
}

func (s *SQLStore) CreateSession(ctx context.Context, userID, questionID string) (Session, error) {
	sess := Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		QuestionID:   questionID,
		Status:       StatusInProgress,
		CurrentStage: StageExplanation,
		StartedAt:    time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id,user_id,question_id,status,current_stage,stage_turns,started_at)
		 VALUES ($1,$2,$3,$4,$5,0,$6)`,
		sess.ID, sess.UserID, sess.QuestionID, sess.Status, string(sess.CurrentStage), sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	s.logEvent(ctx, EventSessionStarted, sess.ID, map[string]interface{}{"question_id": questionID})
	return sess, nil
}

func (s *SQLStore) GetSession(ctx context.Context, id, userID string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,question_id,status,current_stage,stage_turns,
		        COALESCE(code_solution,''),COALESCE(language,''),
		        COALESCE(stage_stats_json,''),COALESCE(test_results_json,''),
		        COALESCE(feedback,''),started_at,COALESCE(completed_at,0)
		   FROM sessions WHERE id=$1 AND user_id=$2`, id, userID)
	return scanSession(row)
}

func (s *SQLStore) ListSessions(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,question_id,status,current_stage,stage_turns,
		        COALESCE(code_solution,''),COALESCE(language,''),
		        COALESCE(stage_stats_json,''),COALESCE(test_results_json,''),
		        COALESCE(feedback,''),started_at,COALESCE(completed_at,0)
		   FROM sessions WHERE user_id=$1 ORDER BY started_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (Session, error) {
	var sess Session
	var stage, statsJSON, resultsJSON string
	err := row.Scan(&sess.ID, &sess.UserID, &sess.QuestionID, &sess.Status, &stage, &sess.StageTurns,
		&sess.CodeSolution, &sess.Language, &statsJSON, &resultsJSON, &sess.Feedback,
		&sess.StartedAt, &sess.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	sess.CurrentStage = Stage(stage)
	if statsJSON != "" {
		if err := json.Unmarshal([]byte(statsJSON), &sess.StageStats); err != nil {
			sess.StageStats = map[string]int{}
		}
	}
	if resultsJSON != "" {
		var res TestResultSummary
		if err := json.Unmarshal([]byte(resultsJSON), &res); err == nil {
			sess.TestResults = &res
		}
	}
	return sess, nil
}

func (s *SQLStore) AppendTurn(ctx context.Context, sessionID, speaker, message string) (Turn, error) {
	var pos int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transcripts WHERE session_id=$1`, sessionID).Scan(&pos); err != nil {
		return Turn{}, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcripts (id,session_id,speaker,message,position,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.NewString(), sessionID, speaker, message, pos, time.Now().Unix())
	if err != nil {
		return Turn{}, err
	}
	return Turn{Speaker: speaker, Message: message, Position: pos}, nil
}

func (s *SQLStore) Transcript(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT speaker,message,position FROM transcripts WHERE session_id=$1 ORDER BY position`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Speaker, &t.Message, &t.Position); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *SQLStore) AdvanceStage(ctx context.Context, sessionID string, next Stage) (Session, error) {
	sess, err := s.getByID(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}

	turns := 0
	if next == sess.CurrentStage {
		turns = sess.StageTurns + 1
	}
	status := sess.Status
	completedAt := sess.CompletedAt
	if next == StageComplete && status != StatusCompleted {
		status = StatusCompleted
		completedAt = time.Now().Unix()
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET current_stage=$1, stage_turns=$2, status=$3, completed_at=$4 WHERE id=$5`,
		string(next), turns, status, nullableInt(completedAt), sessionID)
	if err != nil {
		return Session{}, err
	}
	if next != sess.CurrentStage {
		s.logEvent(ctx, EventStageAdvanced, sessionID, map[string]interface{}{
			"from": sess.CurrentStage, "to": next,
		})
	}

	sess.CurrentStage = next
	sess.StageTurns = turns
	sess.Status = status
	sess.CompletedAt = completedAt
	return sess, nil
}

func (s *SQLStore) SaveCode(ctx context.Context, sessionID, code, language string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET code_solution=$1, language=$2 WHERE id=$3`, code, language, sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	s.logEvent(ctx, EventCodeSubmitted, sessionID, map[string]interface{}{
		"language": language, "code_len": len(code),
	})
	return nil
}

func (s *SQLStore) SaveTestResults(ctx context.Context, sessionID string, res TestResultSummary) error {
	buf, _ := json.Marshal(res)
	r, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET test_results_json=$1 WHERE id=$2`, string(buf), sessionID)
	if err != nil {
		return err
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	s.logEvent(ctx, EventTestsExecuted, sessionID, map[string]interface{}{
		"passed": res.Passed, "total": res.Total,
	})
	return nil
}

func (s *SQLStore) MergeStageTimes(ctx context.Context, sessionID string, times map[string]int) (map[string]int, error) {
	sess, err := s.getByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	merged := map[string]int{}
	for stage, secs := range sess.StageStats {
		merged[stage] = secs
	}
	for stage, secs := range times {
		merged[stage] += secs
	}
	buf, _ := json.Marshal(merged)
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET stage_stats_json=$1 WHERE id=$2`, string(buf), sessionID)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *SQLStore) SaveFeedbackOnce(ctx context.Context, sessionID, feedback string) (string, error) {
	sess, err := s.getByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess.Feedback != "" {
		return sess.Feedback, nil
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET feedback=$1 WHERE id=$2 AND (feedback IS NULL OR feedback='')`,
		feedback, sessionID)
	if err != nil {
		return "", err
	}
	s.logEvent(ctx, EventFeedbackGenerated, sessionID, nil)
	return feedback, nil
}

func (s *SQLStore) getByID(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,question_id,status,current_stage,stage_turns,
		        COALESCE(code_solution,''),COALESCE(language,''),
		        COALESCE(stage_stats_json,''),COALESCE(test_results_json,''),
		        COALESCE(feedback,''),started_at,COALESCE(completed_at,0)
		   FROM sessions WHERE id=$1`, id)
	return scanSession(row)
}

func (s *SQLStore) logEvent(ctx context.Context, typ, key string, data map[string]interface{}) {
	payload := "{}"
	if data != nil {
		if buf, err := json.Marshal(data); err == nil {
			payload = string(buf)
		}
	}
	if err := s.events.Append(ctx, Event{Type: typ, Key: key, DataJSON: payload}); err != nil {
		// Event log is advisory; never fail the operation over it.
		log.Printf("event log append failed: %v", err)
	}
}

func nullableInt(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
