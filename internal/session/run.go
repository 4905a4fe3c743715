package session

import (
	"context"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/report"
)

// Generator produces the next question for a level.
type Generator[T Gradable] func(ctx context.Context, level string) (T, error)

// Run is a quiz for one level and skill, fed by the orchestrator.
type Run[T Gradable] struct {
	*Quiz[T]

	Level string
	Skill content.Skill

	orch     *content.Orchestrator
	generate Generator[T]
}

// NewAssessmentRun creates the fill-in-the-blank assessment quiz.
func NewAssessmentRun(orch *content.Orchestrator, level string, cfg Config) *Run[*content.AssessmentItem] {
	return &Run[*content.AssessmentItem]{
		Quiz:     NewQuiz[*content.AssessmentItem](cfg),
		Level:    level,
		Skill:    content.SkillAssessment,
		orch:     orch,
		generate: orch.GenerateAssessment,
	}
}

// NewListeningRun creates the listening comprehension quiz.
func NewListeningRun(orch *content.Orchestrator, level string, cfg Config) *Run[*content.ListeningItem] {
	return &Run[*content.ListeningItem]{
		Quiz:     NewQuiz[*content.ListeningItem](cfg),
		Level:    level,
		Skill:    content.SkillListening,
		orch:     orch,
		generate: orch.GenerateListening,
	}
}

// Start forgets the skill's history for the level and begins a fresh run.
func (r *Run[T]) Start() Ticket {
	r.orch.ClearHistory(r.Level, r.Skill)
	return r.Quiz.Start()
}

// Fetch generates the question for ticket. It does not touch quiz state and
// may run on any goroutine; apply the result with Deliver.
func (r *Run[T]) Fetch(ctx context.Context, ticket Ticket) Delivery[T] {
	item, err := r.generate(ctx, r.Level)
	return Delivery[T]{Ticket: ticket, Item: item, Err: err}
}

// ListeningReport builds the report for a completed listening run.
func ListeningReport(level string, state RunState[*content.ListeningItem]) report.Report {
	results := make([]report.Result, 0, len(state.Results))
	for _, r := range state.Results {
		if r.Question == nil {
			continue
		}
		results = append(results, report.Result{
			Question:   *r.Question,
			UserAnswer: r.UserAnswer,
			IsCorrect:  r.IsCorrect,
		})
	}
	return report.Report{
		Title:   report.Title(level),
		LevelID: level,
		Score:   state.CorrectAnswers,
		Total:   state.QuestionsAnswered,
		Results: results,
	}
}
