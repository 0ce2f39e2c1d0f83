package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/repository/models"
	"quiz-tube/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	insertQuizQuery = `INSERT INTO quizzes (
		id, user_id, title, description, video_url, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`

	insertQuestionQuery = `INSERT INTO questions (
		id, quiz_id, position, question_title, question_options, answer, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db DBTX
	tm domain.TransactionManager
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB, tm domain.TransactionManager) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db, tm: tm}
}

// Save implements domain.QuizRepository
func (a *QuizDatabaseAdapter) Save(ctx context.Context, draft *domain.QuizDraft, ownerID string) (*domain.PersistedQuiz, error) {
	if draft == nil {
		return nil, fmt.Errorf("cannot save nil quiz")
	}

	now := time.Now().UTC()
	quizRow, questionRows := toModelRows(draft, ownerID, now)

	err := a.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, a.db)

		if _, err := exec.ExecContext(ctx, insertQuizQuery,
			quizRow.ID,
			quizRow.UserID,
			quizRow.Title,
			quizRow.Description,
			quizRow.VideoURL,
			quizRow.CreatedAt,
			quizRow.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert quiz: %w", err)
		}

		for _, q := range questionRows {
			if _, err := exec.ExecContext(ctx, insertQuestionQuery,
				q.ID,
				q.QuizID,
				q.Position,
				q.QuestionTitle,
				q.QuestionOptions,
				q.Answer,
				q.CreatedAt,
				q.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert question %d: %w", q.Position, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toDomainQuiz(quizRow, questionRows), nil
}

func toModelRows(draft *domain.QuizDraft, ownerID string, now time.Time) (*models.QuizRow, []models.QuestionRow) {
	quizRow := &models.QuizRow{
		ID:          util.NewULID(),
		UserID:      ownerID,
		Title:       draft.Title,
		Description: draft.Description,
		VideoURL:    draft.VideoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	questionRows := make([]models.QuestionRow, 0, len(draft.Questions))
	for i, q := range draft.Questions {
		questionRows = append(questionRows, models.QuestionRow{
			ID:              util.NewULID(),
			QuizID:          quizRow.ID,
			Position:        i + 1,
			QuestionTitle:   q.QuestionTitle,
			QuestionOptions: models.StringSlice(q.QuestionOptions),
			Answer:          q.Answer,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return quizRow, questionRows
}

func toDomainQuiz(quizRow *models.QuizRow, questionRows []models.QuestionRow) *domain.PersistedQuiz {
	quiz := &domain.PersistedQuiz{
		ID:          quizRow.ID,
		OwnerID:     quizRow.UserID,
		Title:       quizRow.Title,
		Description: quizRow.Description,
		VideoURL:    quizRow.VideoURL,
		CreatedAt:   quizRow.CreatedAt,
		UpdatedAt:   quizRow.UpdatedAt,
		Questions:   make([]domain.PersistedQuestion, 0, len(questionRows)),
	}
	for _, q := range questionRows {
		quiz.Questions = append(quiz.Questions, domain.PersistedQuestion{
			ID:              q.ID,
			QuestionTitle:   q.QuestionTitle,
			QuestionOptions: []string(q.QuestionOptions),
			Answer:          q.Answer,
			CreatedAt:       q.CreatedAt,
			UpdatedAt:       q.UpdatedAt,
		})
	}
	return quiz
}
