package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-tube/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQuizCreationService_CreateQuiz(t *testing.T) {
	ctx := context.Background()
	runner := new(MockQuizRunner)
	repo := new(MockQuizRepository)

	draft := &domain.QuizDraft{Title: "t", VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
	now := time.Now()
	stored := &domain.PersistedQuiz{ID: "01J0000000000000000000000Q", OwnerID: testOwner, Title: "t", VideoURL: draft.VideoURL, CreatedAt: now, UpdatedAt: now}

	runner.On("Run", ctx, testVideoURL, testOwner).Return(draft, nil).Once()
	repo.On("Save", ctx, draft, testOwner).Return(stored, nil).Once()

	got, err := NewQuizCreationService(runner, repo, zap.NewNop()).CreateQuiz(ctx, testVideoURL, testOwner)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	runner.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestQuizCreationService_CreateQuiz_PipelineErrorSkipsSave(t *testing.T) {
	ctx := context.Background()
	runner := new(MockQuizRunner)
	repo := new(MockQuizRepository)
	runner.On("Run", ctx, testVideoURL, testOwner).Return(nil, domain.NewDownloadError("video unavailable", nil)).Once()

	_, err := NewQuizCreationService(runner, repo, zap.NewNop()).CreateQuiz(ctx, testVideoURL, testOwner)
	assert.True(t, errors.Is(err, domain.ErrDownload))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizCreationService_CreateQuiz_EightQuestionsNeverSaved(t *testing.T) {
	f := newFixture(t)
	f.expectFetch().Once()
	f.speech.On("Transcribe", mock.Anything, mock.Anything).Return(domain.Transcript("lyrics"), nil).Once()
	f.generator.On("Generate", mock.Anything, mock.Anything).Return(samplePayload(8), nil).Once()
	repo := new(MockQuizRepository)

	svc := NewQuizCreationService(f.pipeline(t), repo, zap.NewNop())
	_, err := svc.CreateQuiz(context.Background(), testVideoURL, testOwner)

	assert.True(t, errors.Is(err, domain.ErrValidation))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizCreationService_CreateQuiz_EndToEnd(t *testing.T) {
	f := newFixture(t)
	f.expectFetch().Once()
	f.speech.On("Transcribe", mock.Anything, mock.Anything).Return(domain.Transcript("lyrics"), nil).Once()
	f.generator.On("Generate", mock.Anything, mock.Anything).Return(samplePayload(10), nil).Once()

	repo := new(MockQuizRepository)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(d *domain.QuizDraft) bool {
		return d.VideoURL == "https://www.youtube.com/watch?v=dQw4w9WgXcQ" && len(d.Questions) == 10
	}), testOwner).Return(&domain.PersistedQuiz{ID: "q1"}, nil).Once()

	got, err := NewQuizCreationService(f.pipeline(t), repo, zap.NewNop()).CreateQuiz(context.Background(), testVideoURL, testOwner)
	require.NoError(t, err)
	assert.Equal(t, "q1", got.ID)
	repo.AssertExpectations(t)
}

func TestQuizCreationService_CreateQuiz_SaveError(t *testing.T) {
	ctx := context.Background()
	runner := new(MockQuizRunner)
	repo := new(MockQuizRepository)
	draft := &domain.QuizDraft{Title: "t"}
	runner.On("Run", ctx, testVideoURL, testOwner).Return(draft, nil).Once()
	repo.On("Save", ctx, draft, testOwner).Return(nil, errors.New("ORA-12541: TNS:no listener")).Once()

	_, err := NewQuizCreationService(runner, repo, zap.NewNop()).CreateQuiz(ctx, testVideoURL, testOwner)
	var de *domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.ErrInternal, de.Code)
}

func TestQuizCreationService_CreateQuiz_MissingOwner(t *testing.T) {
	runner := new(MockQuizRunner)
	_, err := NewQuizCreationService(runner, new(MockQuizRepository), zap.NewNop()).CreateQuiz(context.Background(), testVideoURL, "")
	var de *domain.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.ErrUnauthorized, de.Code)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}
