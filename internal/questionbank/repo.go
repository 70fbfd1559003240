package questionbank

import (
	"context"
	"errors"
)

var ErrNoQuestions = errors.New("no questions available")

// Store is the read-mostly question bank. Put exists for seeding.
type Store interface {
	Put(ctx context.Context, q Question) error
	Get(ctx context.Context, id string) (Question, error)

	// Random picks a random question for the difficulty. Company filters
	// when set to a concrete tag; "", "General" and "All" mean any.
	Random(ctx context.Context, difficulty, company string) (Question, error)
}
