package service

import (
	"context"
	"errors"

	"quiz-tube/internal/domain"

	"go.uber.org/zap"
)

// QuizCreationService builds a quiz from a video and stores it for its owner.
type QuizCreationService interface {
	CreateQuiz(ctx context.Context, url string, ownerID string) (*domain.PersistedQuiz, error)
}

// QuizRunner produces a validated draft. *QuizPipeline is the production implementation.
type QuizRunner interface {
	Run(ctx context.Context, url string, ownerID string) (*domain.QuizDraft, error)
}

type quizCreationServiceImpl struct {
	pipeline QuizRunner
	repo     domain.QuizRepository
	logger   *zap.Logger
}

func NewQuizCreationService(pipeline QuizRunner, repo domain.QuizRepository, logger *zap.Logger) QuizCreationService {
	return &quizCreationServiceImpl{pipeline: pipeline, repo: repo, logger: logger}
}

// CreateQuiz persists only a fully validated quiz. Any pipeline error is returned as-is
// and nothing is written.
func (s *quizCreationServiceImpl) CreateQuiz(ctx context.Context, url string, ownerID string) (*domain.PersistedQuiz, error) {
	if ownerID == "" {
		return nil, domain.NewUnauthorizedError("missing quiz owner")
	}

	draft, err := s.pipeline.Run(ctx, url, ownerID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.repo.Save(ctx, draft, ownerID)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error("Failed to save quiz", zap.String("owner_id", ownerID), zap.String("video_url", draft.VideoURL), zap.Error(err))
		return nil, domain.NewInternalError("failed to save quiz", err)
	}

	s.logger.Info("Quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("owner_id", ownerID),
		zap.String("video_url", quiz.VideoURL))
	return quiz, nil
}
