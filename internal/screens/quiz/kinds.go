package quiz

import (
	"context"
	"strings"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/report"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/session"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/theme"
)

// NewAssessment creates the fill-in-the-blank quiz for level.
func NewAssessment(svc screen.Services, level string) *QuizScreen[*content.AssessmentItem] {
	run := session.NewAssessmentRun(svc.Orchestrator, level, svc.Assessment)
	return newQuiz(svc, run, kind[*content.AssessmentItem]{
		name:    "Assessment",
		options: func(q *content.AssessmentItem) []string { return q.Options },
		correct: func(q *content.AssessmentItem) string { return q.CorrectAnswer },
		render:  renderAssessment,
	})
}

// NewListening creates the listening comprehension quiz for level. A
// finished run is saved to the report center.
func NewListening(svc screen.Services, level string) *QuizScreen[*content.ListeningItem] {
	run := session.NewListeningRun(svc.Orchestrator, level, svc.Listening)
	return newQuiz(svc, run, kind[*content.ListeningItem]{
		name:    "Listening",
		options: func(q *content.ListeningItem) []string { return q.Options },
		correct: func(q *content.ListeningItem) string { return q.CorrectAnswer },
		hints:   func(q *content.ListeningItem) []string { return q.OptionTranslations },
		script:  func(q *content.ListeningItem) string { return q.Script },
		save:    saveListening,
		render:  renderListening,
	})
}

func saveListening(ctx context.Context, svc screen.Services, level string, st session.RunState[*content.ListeningItem]) (*report.Report, error) {
	return svc.Reports.Add(ctx, session.ListeningReport(level, st))
}

func renderAssessment(s *QuizScreen[*content.AssessmentItem], width int) string {
	q, _ := s.run.Current()
	var b strings.Builder

	sentence := strings.ReplaceAll(q.Sentence, "___", theme.Selected.Render("_____"))
	b.WriteString(components.Centered(sentence, theme.Text, true, width))
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.choice.View(), width, 60))

	if s.run.Answered() {
		b.WriteString("\n")
		r, ok := s.run.LastResult()
		b.WriteString(renderVerdict(r, ok))
		b.WriteString(components.Centered(q.Translation, theme.TextDim, false, width))
	}
	return b.String()
}

func renderListening(s *QuizScreen[*content.ListeningItem], width int) string {
	q, _ := s.run.Current()
	answered := s.run.Answered()
	var b strings.Builder

	switch {
	case answered || s.showScript:
		script := q.Script
		if answered {
			script += "\n\n" + theme.Hint.Render(q.Translation)
		}
		b.WriteString(components.Panel(script, width, 80))
	case s.playing:
		b.WriteString(components.Centered("🔊 Playing...", theme.Secondary, true, width))
	default:
		b.WriteString(components.Centered("🔊 Press P to listen to the script (T shows the text).", theme.TextDim, false, width))
	}
	b.WriteString("\n\n")

	b.WriteString(components.Centered(q.Question, theme.Text, true, width))
	if answered {
		b.WriteString("\n")
		b.WriteString(components.Centered(q.QuestionTranslation, theme.TextDim, false, width))
	}
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.choice.View(), width, 70))

	if answered {
		b.WriteString("\n")
		r, ok := s.run.LastResult()
		b.WriteString(renderVerdict(r, ok))
	}
	return b.String()
}
