package handler

import (
	"quiz-tube/internal/domain"
	"quiz-tube/internal/dto"
	"quiz-tube/internal/logger"
	"quiz-tube/internal/middleware"
	"quiz-tube/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizCreationService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizCreationService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// RegisterRoutes mounts the quiz endpoints on api. Without strict routing the route also
// answers with a trailing slash.
func (h *QuizHandler) RegisterRoutes(api fiber.Router, protected fiber.Handler, validation *middleware.ValidationMiddleware) {
	api.Post("/createQuiz", protected, validation.ValidateCreateQuiz(), h.CreateQuiz)
}

// CreateQuiz godoc
// @Summary Create a quiz from a YouTube video
// @Description Downloads the video's audio, transcribes it and generates a ten question multiple choice quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuizRequest true "YouTube URL or video ID"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /createQuiz/ [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.ValidatedBodyKey).(*dto.CreateQuizRequest)
	if !ok {
		return domain.NewInvalidInputError("request body is missing")
	}
	userID := middleware.UserID(c)

	quiz, err := h.service.CreateQuiz(c.UserContext(), req.URL, userID)
	if err != nil {
		logger.Get().Warn("Failed to create quiz",
			zap.Error(err),
			zap.String("url", req.URL),
			zap.String("user_id", userID),
		)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(quiz))
}
