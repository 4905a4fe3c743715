package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/session"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/theme"
)

func (s *QuizScreen[T]) View(width, height int) string {
	st := s.run.State()
	var b strings.Builder

	progress := components.ProgressBar{
		Label: fmt.Sprintf("Score %d", st.CorrectAnswers),
		Done:  st.QuestionsAnswered,
		Total: s.run.Config().Length,
		Width: min(width-4, 70),
	}
	b.WriteString(components.Centered(progress.View(), theme.Text, false, width))
	b.WriteString("\n\n")

	switch s.run.Phase() {
	case session.PhaseComplete:
		b.WriteString(s.renderComplete(width))
	case session.PhaseAwaitingQuestion:
		if err := s.run.Err(); err != nil {
			b.WriteString(components.Panel(components.RenderMarkdown(content.ErrorMarkdown(err), 60), width, 70))
			b.WriteString("\n")
			b.WriteString(components.Centered("Press R to try again.", theme.TextDim, false, width))
		} else {
			b.WriteString(components.Loading(s.spin, fmt.Sprintf("Preparing question %d...", st.QuestionsAnswered+1), width))
		}
	default:
		b.WriteString(s.kind.render(s, width))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(components.Notice(s.notice, width))
	}
	return b.String()
}

func renderVerdict[T session.Gradable](r session.Result[T], ok bool) string {
	if !ok {
		return ""
	}
	if r.IsCorrect {
		return theme.Correct.Render("  Richtig! ") + "\n"
	}
	return theme.Incorrect.Render("  Leider falsch. ") +
		theme.Hint.Render("You answered "+r.UserAnswer) + "\n"
}

func (s *QuizScreen[T]) renderComplete(width int) string {
	st := s.run.State()
	var b strings.Builder

	pct := 0
	if st.QuestionsAnswered > 0 {
		pct = st.CorrectAnswers * 100 / st.QuestionsAnswered
	}
	b.WriteString(components.Centered("Quiz complete!", theme.Primary, true, width))
	b.WriteString("\n\n")
	b.WriteString(components.Centered(
		fmt.Sprintf("You answered %d of %d correctly (%d%%).", st.CorrectAnswers, st.QuestionsAnswered, pct),
		theme.Text, false, width))
	b.WriteString("\n\n")

	switch {
	case s.saveErr != nil:
		b.WriteString(components.Notice("Could not save the report: "+s.saveErr.Error(), width))
	case s.saved != nil:
		b.WriteString(components.Centered("Saved to the Report Center as \""+s.saved.Title+"\".", theme.Success, false, width))
	}
	b.WriteString("\n\n")
	b.WriteString(components.Centered("Press R to start again or Esc to go back.", theme.TextDim, false, width))
	return b.String()
}
