package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"quiz-tube/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload(questions int) *domain.RawQuizPayload {
	p := &domain.RawQuizPayload{
		Title:       "Photosynthesis basics",
		Description: "How plants turn light into sugar.",
	}
	for i := 0; i < questions; i++ {
		p.Questions = append(p.Questions, domain.RawQuestion{
			QuestionTitle:   fmt.Sprintf("Question %d?", i+1),
			QuestionOptions: []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Helium"},
			Answer:          "Carbon dioxide",
		})
	}
	return p
}

func assertValidationReason(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	var pe *domain.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, reason, pe.Reason)
}

func TestQuizValidator_Validate(t *testing.T) {
	v := NewQuizValidator()

	draft, err := v.Validate(validPayload(10))
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis basics", draft.Title)
	assert.Len(t, draft.Questions, 10)
	assert.Empty(t, draft.VideoURL)
	assert.Equal(t, "Carbon dioxide", draft.Questions[0].Answer)
}

func TestQuizValidator_QuestionCount(t *testing.T) {
	v := NewQuizValidator()
	for _, n := range []int{0, 8, 9, 11} {
		t.Run(fmt.Sprintf("%d questions", n), func(t *testing.T) {
			_, err := v.Validate(validPayload(n))
			assertValidationReason(t, err, "wrong question count")
		})
	}
}

func TestQuizValidator_OptionCount(t *testing.T) {
	v := NewQuizValidator()

	three := validPayload(10)
	three.Questions[4].QuestionOptions = []string{"Oxygen", "Carbon dioxide", "Nitrogen"}
	_, err := v.Validate(three)
	assertValidationReason(t, err, "wrong option count")

	five := validPayload(10)
	five.Questions[0].QuestionOptions = append(five.Questions[0].QuestionOptions, "Argon")
	_, err = v.Validate(five)
	assertValidationReason(t, err, "wrong option count")
}

func TestQuizValidator_DuplicateOptions(t *testing.T) {
	p := validPayload(10)
	p.Questions[2].QuestionOptions = []string{"Oxygen", "Carbon dioxide", "Oxygen", "Helium"}
	_, err := NewQuizValidator().Validate(p)
	assertValidationReason(t, err, "duplicate options")
}

func TestQuizValidator_AnswerNotInOptions(t *testing.T) {
	v := NewQuizValidator()

	caseMismatch := validPayload(10)
	caseMismatch.Questions[9].Answer = "carbon dioxide"
	_, err := v.Validate(caseMismatch)
	assertValidationReason(t, err, "answer not in options")

	padded := validPayload(10)
	padded.Questions[1].Answer = "Carbon dioxide "
	_, err = v.Validate(padded)
	assertValidationReason(t, err, "answer not in options")
}

func TestQuizValidator_DescriptionLength(t *testing.T) {
	v := NewQuizValidator()

	atLimit := validPayload(10)
	atLimit.Description = strings.Repeat("a", 150)
	_, err := v.Validate(atLimit)
	assert.NoError(t, err)

	multiByte := validPayload(10)
	multiByte.Description = strings.Repeat("é", 150)
	_, err = v.Validate(multiByte)
	assert.NoError(t, err)

	over := validPayload(10)
	over.Description = strings.Repeat("a", 151)
	_, err = v.Validate(over)
	assertValidationReason(t, err, "description too long")
}

func TestQuizValidator_CheckOrder(t *testing.T) {
	p := validPayload(9)
	p.Description = strings.Repeat("a", 151)
	_, err := NewQuizValidator().Validate(p)
	assertValidationReason(t, err, "description too long")

	answerBeforeCount := validPayload(10)
	answerBeforeCount.Questions[0].Answer = "Argon"
	answerBeforeCount.Questions[5].QuestionOptions = []string{"Oxygen", "Carbon dioxide", "Nitrogen"}
	_, err = NewQuizValidator().Validate(answerBeforeCount)
	assertValidationReason(t, err, "wrong option count")

	var pe *domain.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.EqualError(t, pe.Err, "question 6")

	answerBeforeDuplicate := validPayload(10)
	answerBeforeDuplicate.Questions[1].Answer = "Argon"
	answerBeforeDuplicate.Questions[8].QuestionOptions = []string{"Oxygen", "Oxygen", "Nitrogen", "Helium"}
	_, err = NewQuizValidator().Validate(answerBeforeDuplicate)
	assertValidationReason(t, err, "duplicate options")
}

func TestQuizValidator_Bounds(t *testing.T) {
	v := NewQuizValidator()

	noTitle := validPayload(10)
	noTitle.Title = ""
	_, err := v.Validate(noTitle)
	assertValidationReason(t, err, "missing title")

	longTitle := validPayload(10)
	longTitle.Title = strings.Repeat("t", 201)
	_, err = v.Validate(longTitle)
	assertValidationReason(t, err, "title too long")

	longQuestion := validPayload(10)
	longQuestion.Questions[3].QuestionTitle = strings.Repeat("q", 201)
	_, err = v.Validate(longQuestion)
	assertValidationReason(t, err, "question title too long")

	longAnswer := validPayload(10)
	long := strings.Repeat("x", 201)
	longAnswer.Questions[3].QuestionOptions = []string{long, "b", "c", "d"}
	longAnswer.Questions[3].Answer = long
	_, err = v.Validate(longAnswer)
	assertValidationReason(t, err, "answer too long")
}

func TestQuizValidator_NilPayload(t *testing.T) {
	_, err := NewQuizValidator().Validate(nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
