package middleware

import (
	"quiz-tube/internal/domain"
	"quiz-tube/internal/dto"
	"quiz-tube/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedBodyKey holds the parsed and validated request body in fiber.Ctx locals.
const ValidatedBodyKey = "validated_body"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.RequestValidator
}

func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewRequestValidator(),
	}
}

// ValidateCreateQuiz parses a dto.CreateQuizRequest body and rejects it before any
// pipeline work starts.
func (vm *ValidationMiddleware) ValidateCreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.CreateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("request body must be JSON with a url field")
		}
		if err := vm.validator.Struct(&req); err != nil {
			return err
		}

		c.Locals(ValidatedBodyKey, &req)
		return c.Next()
	}
}
