package session

import "github.com/abhisek/deutschlern/internal/content"

// Ticket identifies one generation request. Deliveries carrying an older
// ticket are dropped.
type Ticket uint64

// Delivery is the outcome of a generation request.
type Delivery[T Gradable] struct {
	Ticket Ticket
	Item   T
	Err    error
}

// Outcome describes an accepted answer.
type Outcome struct {
	Correct  bool
	Complete bool
}

// Quiz is the question/answer state machine. It is not safe for concurrent
// use; callers confine it to one goroutine and apply deliveries there.
type Quiz[T Gradable] struct {
	config Config
	epoch  content.Epoch
	ticket Ticket

	phase    Phase
	current  T
	answered bool
	err      error
	state    RunState[T]
}

// NewQuiz creates a quiz that ends after cfg.Length answers. A length below
// one is treated as one.
func NewQuiz[T Gradable](cfg Config) *Quiz[T] {
	if cfg.Length < 1 {
		cfg.Length = 1
	}
	return &Quiz[T]{config: cfg, phase: PhaseAwaitingQuestion}
}

// Start resets the run to zero and requests the first question.
func (q *Quiz[T]) Start() Ticket {
	var zero T
	q.state = RunState[T]{}
	q.current = zero
	q.answered = false
	q.err = nil
	q.phase = PhaseAwaitingQuestion
	return q.begin()
}

// Retry requests a new question after a failed delivery. It reports false
// outside PhaseAwaitingQuestion.
func (q *Quiz[T]) Retry() (Ticket, bool) {
	if q.phase != PhaseAwaitingQuestion {
		return 0, false
	}
	q.err = nil
	return q.begin(), true
}

// Deliver applies a generation result. Stale tickets and deliveries outside
// PhaseAwaitingQuestion are ignored and reported as false. A failed delivery
// keeps the quiz waiting with Err set.
func (q *Quiz[T]) Deliver(d Delivery[T]) bool {
	if q.phase != PhaseAwaitingQuestion || !q.epoch.IsCurrent(uint64(d.Ticket)) {
		return false
	}
	if d.Err != nil {
		q.err = d.Err
		return true
	}
	q.current = d.Item
	q.answered = false
	q.err = nil
	q.phase = PhaseAwaitingAnswer
	return true
}

// Answer grades answer against the current question. Only the first answer
// per question is accepted; later calls, and calls in any other phase,
// return false.
func (q *Quiz[T]) Answer(answer string) (Outcome, bool) {
	if q.phase != PhaseAwaitingAnswer || q.answered {
		return Outcome{}, false
	}
	q.answered = true

	correct := q.current.IsCorrect(answer)
	q.state.Results = append(q.state.Results, Result[T]{
		Question:   q.current,
		UserAnswer: answer,
		IsCorrect:  correct,
	})
	q.state.QuestionsAnswered++
	if correct {
		q.state.CorrectAnswers++
	}

	if q.state.QuestionsAnswered == q.config.Length {
		q.state.Complete = true
		q.phase = PhaseComplete
		q.epoch.Invalidate()
	}
	return Outcome{Correct: correct, Complete: q.state.Complete}, true
}

// Advance moves on to the next question once the display delay has passed.
// It reports false unless the current question has been answered and the
// run is not complete.
func (q *Quiz[T]) Advance() (Ticket, bool) {
	if q.phase != PhaseAwaitingAnswer || !q.answered {
		return 0, false
	}
	var zero T
	q.current = zero
	q.answered = false
	q.phase = PhaseAwaitingQuestion
	return q.begin(), true
}

func (q *Quiz[T]) begin() Ticket {
	q.ticket = Ticket(q.epoch.Begin())
	return q.ticket
}

// Phase returns the current phase.
func (q *Quiz[T]) Phase() Phase { return q.phase }

// Current returns the question being answered, if any.
func (q *Quiz[T]) Current() (T, bool) {
	return q.current, q.phase == PhaseAwaitingAnswer
}

// Answered reports whether the current question already has an answer.
func (q *Quiz[T]) Answered() bool { return q.answered }

// LastResult returns the most recent result.
func (q *Quiz[T]) LastResult() (Result[T], bool) {
	if len(q.state.Results) == 0 {
		return Result[T]{}, false
	}
	return q.state.Results[len(q.state.Results)-1], true
}

// Err returns the last generation error while waiting for a question.
func (q *Quiz[T]) Err() error { return q.err }

// State returns a copy of the run state.
func (q *Quiz[T]) State() RunState[T] {
	s := q.state
	s.Results = append([]Result[T](nil), q.state.Results...)
	return s
}

// Config returns the quiz settings.
func (q *Quiz[T]) Config() Config { return q.config }
