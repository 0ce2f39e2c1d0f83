package middleware

import (
	"errors"
	"net/http"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorHandler is a centralized error handler, installed through fiber.Config.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var pipelineErr *domain.PipelineError
		if errors.As(err, &pipelineErr) {
			statusCode := mapPipelineErrorToHTTPStatus(pipelineErr)
			log.Warn("Quiz pipeline error",
				zap.String("stage", string(pipelineErr.Stage)),
				zap.String("kind", string(pipelineErr.Kind)),
				zap.String("reason", pipelineErr.Reason),
				zap.Int("status", statusCode),
				zap.Error(pipelineErr.Err),
			)
			return c.Status(statusCode).JSON(ErrorResponse{
				Code:    string(pipelineErr.Kind),
				Message: pipelineErr.Reason,
				Status:  statusCode,
				Details: map[string]interface{}{"stage": string(pipelineErr.Stage)},
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			log.Error("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Err),
			)
			return c.Status(statusCode).JSON(ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Status:  statusCode,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.ErrInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

func mapPipelineErrorToHTTPStatus(err *domain.PipelineError) int {
	if err.Timeout {
		return http.StatusGatewayTimeout
	}
	switch err.Kind {
	case domain.KindInvalidReference, domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDownload:
		return http.StatusBadGateway
	case domain.KindGeneration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
