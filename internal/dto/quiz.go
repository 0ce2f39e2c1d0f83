package dto

import (
	"time"

	"quiz-tube/internal/domain"
)

// CreateQuizRequest is the body of POST /api/createQuiz/
// @Description YouTube URL or bare video ID to build a quiz from
type CreateQuizRequest struct {
	URL string `json:"url" validate:"required,max=2048" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
}

// QuestionResponse represents one stored question
type QuestionResponse struct {
	ID              string    `json:"id"`
	QuestionTitle   string    `json:"question_title"`
	QuestionOptions []string  `json:"question_options"`
	Answer          string    `json:"answer"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QuizResponse represents a stored quiz in the API response
// @Description Generated quiz with its ten questions
type QuizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoURL    string             `json:"video_url"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Questions   []QuestionResponse `json:"questions"`
}

// NewQuizResponse maps a persisted quiz to its API shape.
func NewQuizResponse(q *domain.PersistedQuiz) *QuizResponse {
	resp := &QuizResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		VideoURL:    q.VideoURL,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		Questions:   make([]QuestionResponse, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{
			ID:              question.ID,
			QuestionTitle:   question.QuestionTitle,
			QuestionOptions: question.QuestionOptions,
			Answer:          question.Answer,
			CreatedAt:       question.CreatedAt,
			UpdatedAt:       question.UpdatedAt,
		})
	}
	return resp
}
