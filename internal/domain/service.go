package domain

import "context"

// QuizRepository stores validated quizzes.
type QuizRepository interface {
	// Save stores the quiz and all of its questions atomically.
	Save(ctx context.Context, draft *QuizDraft, ownerID string) (*PersistedQuiz, error)
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
