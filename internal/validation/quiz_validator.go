package validation

import (
	"fmt"
	"unicode/utf8"

	"quiz-tube/internal/domain"
)

// QuizValidator checks generator output against the structural rules of a quiz.
// It reports the first violation found and never repairs content.
type QuizValidator struct{}

func NewQuizValidator() *QuizValidator {
	return &QuizValidator{}
}

// Validate converts payload into a QuizDraft. The draft's VideoURL is left empty for the caller.
func (v *QuizValidator) Validate(payload *domain.RawQuizPayload) (*domain.QuizDraft, error) {
	if payload == nil {
		return nil, domain.NewValidationError("empty payload")
	}

	if utf8.RuneCountInString(payload.Description) > domain.MaxDescriptionLength {
		return nil, domain.NewValidationError("description too long")
	}

	if len(payload.Questions) != domain.QuestionsPerQuiz {
		return nil, domain.NewValidationError("wrong question count")
	}

	for _, check := range questionChecks {
		for i, q := range payload.Questions {
			if err := check(q); err != nil {
				err.Err = fmt.Errorf("question %d", i+1)
				return nil, err
			}
		}
	}

	if err := validateBounds(payload); err != nil {
		return nil, err
	}

	draft := &domain.QuizDraft{
		Title:       payload.Title,
		Description: payload.Description,
		Questions:   make([]domain.QuestionDraft, 0, len(payload.Questions)),
	}
	for _, q := range payload.Questions {
		options := make([]string, len(q.QuestionOptions))
		copy(options, q.QuestionOptions)
		draft.Questions = append(draft.Questions, domain.QuestionDraft{
			QuestionTitle:   q.QuestionTitle,
			QuestionOptions: options,
			Answer:          q.Answer,
		})
	}
	return draft, nil
}

// questionChecks run in order, each across every question, so the earliest rule wins.
var questionChecks = []func(domain.RawQuestion) *domain.PipelineError{
	checkOptionCount,
	checkDistinctOptions,
	checkAnswerInOptions,
}

func checkOptionCount(q domain.RawQuestion) *domain.PipelineError {
	if len(q.QuestionOptions) != domain.OptionsPerQuestion {
		return domain.NewValidationError("wrong option count")
	}
	return nil
}

func checkDistinctOptions(q domain.RawQuestion) *domain.PipelineError {
	seen := make(map[string]struct{}, len(q.QuestionOptions))
	for _, opt := range q.QuestionOptions {
		if _, dup := seen[opt]; dup {
			return domain.NewValidationError("duplicate options")
		}
		seen[opt] = struct{}{}
	}
	return nil
}

func checkAnswerInOptions(q domain.RawQuestion) *domain.PipelineError {
	for _, opt := range q.QuestionOptions {
		if opt == q.Answer {
			return nil
		}
	}
	return domain.NewValidationError("answer not in options")
}

// validateBounds enforces the column sizes of the quizzes and questions tables.
func validateBounds(payload *domain.RawQuizPayload) *domain.PipelineError {
	if payload.Title == "" {
		return domain.NewValidationError("missing title")
	}
	if utf8.RuneCountInString(payload.Title) > domain.MaxTitleLength {
		return domain.NewValidationError("title too long")
	}
	for _, q := range payload.Questions {
		if utf8.RuneCountInString(q.QuestionTitle) > domain.MaxTitleLength {
			return domain.NewValidationError("question title too long")
		}
		if utf8.RuneCountInString(q.Answer) > domain.MaxTitleLength {
			return domain.NewValidationError("answer too long")
		}
	}
	return nil
}
