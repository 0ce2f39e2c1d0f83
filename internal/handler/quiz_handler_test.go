package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/dto"
	"quiz-tube/internal/handler"
	"quiz-tube/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockQuizCreationService struct {
	CreateQuizFunc func(ctx context.Context, url string, ownerID string) (*domain.PersistedQuiz, error)
}

func (m *MockQuizCreationService) CreateQuiz(ctx context.Context, url string, ownerID string) (*domain.PersistedQuiz, error) {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, url, ownerID)
	}
	panic("MockQuizCreationService.CreateQuizFunc not implemented")
}

// fakeAuth stands in for middleware.Protected and authenticates every request as user-1.
func fakeAuth(c *fiber.Ctx) error {
	c.Locals(middleware.UserIDKey, "user-1")
	return c.Next()
}

func setupApp(svc *MockQuizCreationService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewQuizHandler(svc)
	h.RegisterRoutes(app.Group("/api"), fakeAuth, middleware.NewValidationMiddleware())
	return app
}

func persistedQuiz() *domain.PersistedQuiz {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q := &domain.PersistedQuiz{
		ID:          "01J0000000000000000000000Q",
		OwnerID:     "user-1",
		Title:       "Goroutines",
		Description: "Scheduling basics.",
		VideoURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		q.Questions = append(q.Questions, domain.PersistedQuestion{
			ID:              "question",
			QuestionTitle:   "What is a goroutine?",
			QuestionOptions: []string{"thread", "lightweight thread", "process", "fiber"},
			Answer:          "lightweight thread",
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return q
}

func TestCreateQuiz(t *testing.T) {
	for _, path := range []string{"/api/createQuiz/", "/api/createQuiz"} {
		t.Run(path, func(t *testing.T) {
			svc := &MockQuizCreationService{
				CreateQuizFunc: func(ctx context.Context, url string, ownerID string) (*domain.PersistedQuiz, error) {
					assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", url)
					assert.Equal(t, "user-1", ownerID)
					return persistedQuiz(), nil
				},
			}
			app := setupApp(svc)

			req := httptest.NewRequest("POST", path, strings.NewReader(`{"url":"https://youtu.be/dQw4w9WgXcQ"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

			var body dto.QuizResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "01J0000000000000000000000Q", body.ID)
			assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", body.VideoURL)
			assert.Len(t, body.Questions, domain.QuestionsPerQuiz)
			assert.Equal(t, "lightweight thread", body.Questions[0].Answer)
		})
	}
}

func TestCreateQuiz_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing url",
			body:           `{}`,
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
		{
			name:           "not a youtube url",
			body:           `{"url":"https://example.com"}`,
			serviceErr:     domain.NewInvalidReferenceError("no video id found"),
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "INVALID_REFERENCE",
		},
		{
			name:           "download failure",
			body:           `{"url":"dQw4w9WgXcQ"}`,
			serviceErr:     domain.NewPermanentDownloadError("private video", nil),
			expectedStatus: fiber.StatusBadGateway,
			expectedCode:   "DOWNLOAD_ERROR",
		},
		{
			name:           "invalid quiz",
			body:           `{"url":"dQw4w9WgXcQ"}`,
			serviceErr:     domain.NewValidationError("wrong question count"),
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "generation timeout",
			body:           `{"url":"dQw4w9WgXcQ"}`,
			serviceErr:     domain.NewTimeoutError(domain.StageGenerate, domain.KindGeneration, context.DeadlineExceeded),
			expectedStatus: fiber.StatusGatewayTimeout,
			expectedCode:   "GENERATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &MockQuizCreationService{
				CreateQuizFunc: func(ctx context.Context, url string, ownerID string) (*domain.PersistedQuiz, error) {
					called = true
					return nil, tt.serviceErr
				},
			}
			app := setupApp(svc)

			req := httptest.NewRequest("POST", "/api/createQuiz/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.serviceErr != nil, called)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body.Code)
		})
	}
}
