// Package session runs fixed-length quizzes over generated content.
package session

import "time"

// Phase is the current phase of a quiz run.
type Phase int

const (
	PhaseAwaitingQuestion Phase = iota // Waiting for the next generated item
	PhaseAwaitingAnswer                // Item shown, learner may answer
	PhaseComplete                      // All questions answered; terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingQuestion:
		return "awaiting-question"
	case PhaseAwaitingAnswer:
		return "awaiting-answer"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Gradable is a generated question that can check an answer.
type Gradable interface {
	IsCorrect(answer string) bool
}

// Result is one answered question.
type Result[T Gradable] struct {
	Question   T
	UserAnswer string
	IsCorrect  bool
}

// RunState tracks the progress of one quiz run. Complete holds exactly when
// QuestionsAnswered equals the configured length.
type RunState[T Gradable] struct {
	QuestionsAnswered int
	CorrectAnswers    int
	Complete          bool
	Results           []Result[T]
}

// Default quiz lengths.
const (
	AssessmentLength = 25
	ListeningLength  = 10
)

// DefaultDisplayDelay is how long an answered question stays on screen
// before the next one is requested.
const DefaultDisplayDelay = 1500 * time.Millisecond

// Config sizes a quiz.
type Config struct {
	Length       int
	DisplayDelay time.Duration
}

// AssessmentConfig returns the default assessment quiz settings.
func AssessmentConfig() Config {
	return Config{Length: AssessmentLength, DisplayDelay: DefaultDisplayDelay}
}

// ListeningConfig returns the default listening quiz settings.
func ListeningConfig() Config {
	return Config{Length: ListeningLength, DisplayDelay: DefaultDisplayDelay}
}
