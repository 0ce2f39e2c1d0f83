package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/logger"

	"go.uber.org/zap"
)

const promptTemplate = `Based on the following transcript, generate a quiz in valid JSON format.
The quiz must follow this exact structure:
{"title": "Create a concise quiz title based on the topic of the transcript.",
"description": "Summarize the transcript in no more than 150 characters. Do not include any quiz questions or answers.",
"questions": [
{"question_title": "The question goes here.",
"question_options": ["Option A", "Option B", "Option C", "Option D"],
"answer": "The correct answer from the above options"},
...
(exactly 10 questions)]}
Requirements:
- Each question must have exactly 4 distinct answer options.
- Only one correct answer is allowed per question, and it must be present in 'question_options'.
- The output must be valid JSON and parsable as-is.
- Do not include explanations, comments, or any text outside the JSON.
This is the following Transcript: %s`

// Generator turns a transcript into an unvalidated quiz payload.
type Generator struct {
	model domain.QuizLanguageModel
}

func NewGenerator(model domain.QuizLanguageModel) *Generator {
	return &Generator{model: model}
}

// BuildPrompt embeds the transcript verbatim in the fixed quiz prompt.
func BuildPrompt(transcript domain.Transcript) string {
	return fmt.Sprintf(promptTemplate, string(transcript))
}

// Generate calls the language model once. Backend failures are GenerationErrors, responses
// that are not JSON are MalformedOutputErrors and JSON of the wrong shape is a ValidationError.
func (g *Generator) Generate(ctx context.Context, transcript domain.Transcript) (*domain.RawQuizPayload, error) {
	l := logger.Get()

	raw, err := g.model.Complete(ctx, BuildPrompt(transcript))
	if err != nil {
		if errors.Is(err, domain.ErrGeneration) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewTimeoutError(domain.StageGenerate, domain.KindGeneration, err)
		}
		return nil, domain.NewGenerationError("language model call failed", err)
	}
	l.Debug("Raw quiz response received", zap.Int("length", len(raw)))

	body, ok := ExtractJSON(raw)
	if !ok {
		l.Warn("No JSON object found in quiz response", zap.String("response", truncate(raw, 200)))
		return nil, domain.NewMalformedOutputError("no json object in response", nil)
	}

	if !json.Valid([]byte(body)) {
		l.Warn("Quiz response is not valid JSON", zap.String("json", truncate(body, 200)))
		return nil, domain.NewMalformedOutputError("invalid json", nil)
	}

	var payload domain.RawQuizPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		l.Warn("Quiz response has the wrong shape", zap.Error(err), zap.String("json", truncate(body, 200)))
		ve := domain.NewValidationError(shapeReason(err))
		ve.Err = err
		return nil, ve
	}
	return &payload, nil
}

// shapeReason names the quiz rule a mistyped field breaks.
func shapeReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return "invalid quiz shape"
	}
	switch {
	case strings.HasSuffix(typeErr.Field, "question_options"):
		return "wrong option count"
	case typeErr.Field == "questions":
		return "wrong question count"
	default:
		return "invalid quiz shape"
	}
}

// ExtractJSON strips reasoning blocks and markdown fences, then returns the span from the
// first '{' to the last '}'.
func ExtractJSON(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s[start:], "</think>")
		if end == -1 {
			s = s[:start]
			break
		}
		s = s[:start] + s[start+end+len("</think>"):]
	}
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// truncate keeps at most n bytes of s without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
