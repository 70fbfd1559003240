package questionbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Put(ctx context.Context, q Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Company == "" {
		q.Company = "General"
	}
	ej, err := json.Marshal(q.Examples)
	if err != nil {
		return err
	}
	tj, err := json.Marshal(q.TestCases)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id,title,description,difficulty,company,examples_json,test_cases_json,constraints)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description,
		   difficulty=EXCLUDED.difficulty, company=EXCLUDED.company, examples_json=EXCLUDED.examples_json,
		   test_cases_json=EXCLUDED.test_cases_json, constraints=EXCLUDED.constraints`,
		q.ID, q.Title, q.Description, q.Difficulty, q.Company, string(ej), string(tj), q.Constraints)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,difficulty,company,examples_json,test_cases_json,constraints
		   FROM questions WHERE id=$1`, id)
	return scanQuestion(row)
}

func (s *SQLStore) Random(ctx context.Context, difficulty, company string) (Question, error) {
	query := `SELECT id,title,description,difficulty,company,examples_json,test_cases_json,constraints
	            FROM questions WHERE difficulty=$1`
	args := []interface{}{difficulty}
	if filterByCompany(company) {
		query += ` AND company=$2`
		args = append(args, company)
	}
	query += ` ORDER BY RANDOM() LIMIT 1`

	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, ErrNoQuestions) {
		msg := fmt.Sprintf("no %s questions available", difficulty)
		if filterByCompany(company) {
			msg += " for " + company
		}
		return Question{}, errors.New(msg)
	}
	return q, err
}

func filterByCompany(company string) bool {
	return company != "" && company != "General" && company != "All"
}

func scanQuestion(row *sql.Row) (Question, error) {
	var q Question
	var ej, tj string
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Difficulty, &q.Company, &ej, &tj, &q.Constraints); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNoQuestions
		}
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(ej), &q.Examples); err != nil {
		q.Examples = nil
	}
	if err := json.Unmarshal([]byte(tj), &q.TestCases); err != nil {
		return Question{}, fmt.Errorf("corrupt test cases for question %s: %w", q.ID, err)
	}
	return q, nil
}
