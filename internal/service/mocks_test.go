package service

import (
	"context"
	"time"

	"quiz-tube/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockAudioSource ---
type MockAudioSource struct {
	mock.Mock
}

func (m *MockAudioSource) Fetch(ctx context.Context, ref domain.VideoReference, dir string) (*domain.AudioArtifact, error) {
	args := m.Called(ctx, ref, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioArtifact), args.Error(1)
}

// --- MockSpeechRecognizer ---
type MockSpeechRecognizer struct {
	mock.Mock
}

func (m *MockSpeechRecognizer) Transcribe(ctx context.Context, artifact *domain.AudioArtifact) (domain.Transcript, error) {
	args := m.Called(ctx, artifact)
	return args.Get(0).(domain.Transcript), args.Error(1)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) Generate(ctx context.Context, transcript domain.Transcript) (*domain.RawQuizPayload, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawQuizPayload), args.Error(1)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Save(ctx context.Context, draft *domain.QuizDraft, ownerID string) (*domain.PersistedQuiz, error) {
	args := m.Called(ctx, draft, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersistedQuiz), args.Error(1)
}

// --- MockQuizRunner ---
type MockQuizRunner struct {
	mock.Mock
}

func (m *MockQuizRunner) Run(ctx context.Context, url string, ownerID string) (*domain.QuizDraft, error) {
	args := m.Called(ctx, url, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizDraft), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

var (
	_ domain.AudioSource      = (*MockAudioSource)(nil)
	_ domain.SpeechRecognizer = (*MockSpeechRecognizer)(nil)
	_ QuizGenerator           = (*MockQuizGenerator)(nil)
	_ domain.QuizRepository   = (*MockQuizRepository)(nil)
	_ QuizRunner              = (*MockQuizRunner)(nil)
	_ domain.Cache            = (*MockCache)(nil)
)
