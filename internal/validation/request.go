package validation

import (
	"errors"
	"fmt"
	"strings"

	"quiz-tube/internal/domain"

	"github.com/go-playground/validator/v10"
)

// RequestValidator checks inbound DTOs using their `validate` struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Struct returns an INVALID_INPUT DomainError describing every failed field.
func (v *RequestValidator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewError(domain.ErrInvalidInput, "invalid request", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return domain.NewInvalidInputError(strings.Join(msgs, "; "))
}
