package domain

import "time"

// VideoReference is the 11-character YouTube video ID.
type VideoReference string

func (r VideoReference) String() string {
	return string(r)
}

// AudioArtifact is a downloaded audio track living inside a run's scratch directory.
type AudioArtifact struct {
	VideoID VideoReference
	Path    string
}

// Transcript is the speech-to-text output for one video. It may be empty.
type Transcript string

// RawQuestion mirrors one entry of the generator's JSON output before validation.
type RawQuestion struct {
	QuestionTitle   string   `json:"question_title"`
	QuestionOptions []string `json:"question_options"`
	Answer          string   `json:"answer"`
}

// RawQuizPayload is the decoded generator output. Nothing about it has been checked.
type RawQuizPayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Questions   []RawQuestion `json:"questions"`
}

type QuestionDraft struct {
	QuestionTitle   string   `json:"question_title"`
	QuestionOptions []string `json:"question_options"`
	Answer          string   `json:"answer"`
}

// QuizDraft is a quiz that passed validation and is ready to be stored.
type QuizDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	VideoURL    string          `json:"video_url"`
	Questions   []QuestionDraft `json:"questions"`
}

type PersistedQuestion struct {
	ID              string
	QuestionTitle   string
	QuestionOptions []string
	Answer          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PersistedQuiz is a stored quiz as returned by the repository.
type PersistedQuiz struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoURL    string
	Questions   []PersistedQuestion
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Quiz shape constraints shared by the validator and the storage schema.
const (
	QuestionsPerQuiz     = 10
	OptionsPerQuestion   = 4
	MaxDescriptionLength = 150
	MaxTitleLength       = 200
)
