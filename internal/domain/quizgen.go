package domain

import "context"

// QuizLanguageModel is the generative backend behind quiz generation.
// Complete sends a single prompt and returns the raw text response.
type QuizLanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
