package reports

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/report"
	"github.com/abhisek/deutschlern/internal/router"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/layout"
	"github.com/abhisek/deutschlern/internal/ui/theme"
)

type reportMsg struct {
	owner  int64
	report *report.Report
	err    error
}

// DetailScreen shows one report question by question.
type DetailScreen struct {
	id       int64
	svc      screen.Services
	reportID string

	report  *report.Report
	loaded  bool
	err     error
	confirm bool
	doc     components.DocView
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail creates the view for the report with id.
func NewDetail(svc screen.Services, id string) *DetailScreen {
	return &DetailScreen{id: screen.NewID(), svc: svc, reportID: id, doc: components.NewDocView()}
}

func (s *DetailScreen) Init() tea.Cmd {
	id, reports, reportID := s.id, s.svc.Reports, s.reportID
	return func() tea.Msg {
		r, err := reports.Get(context.Background(), reportID)
		return reportMsg{owner: id, report: r, err: err}
	}
}

func (s *DetailScreen) Title() string {
	return "Report"
}

func (s *DetailScreen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{{Key: "Y", Description: "Delete"}, {Key: "N", Description: "Keep"}}
	}
	return []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}, {Key: "D", Description: "Delete"}}
}

func (s *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		if msg.owner != s.id {
			return s, nil
		}
		s.loaded = true
		s.report, s.err = msg.report, msg.err
		if s.report != nil {
			s.doc.SetMarkdown(Markdown(*s.report))
		}
		return s, nil

	case deletedMsg:
		if msg.owner != s.id {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		return s, router.Back

	case tea.KeyPressMsg:
		if s.report == nil {
			return s, nil
		}
		switch key := msg.String(); {
		case s.confirm && (key == "y" || key == "Y"):
			s.confirm = false
			id, reports, reportID := s.id, s.svc.Reports, s.report.ID
			return s, func() tea.Msg {
				n, err := reports.Delete(context.Background(), reportID)
				return deletedMsg{owner: id, n: n, err: err}
			}
		case s.confirm:
			s.confirm = false
			return s, nil
		case key == "d":
			s.confirm = true
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.doc, cmd = s.doc.Update(msg)
	return s, cmd
}

func (s *DetailScreen) View(width, height int) string {
	switch {
	case s.err != nil:
		return components.Notice(s.err.Error(), width)
	case !s.loaded:
		return components.Centered("Loading report...", theme.TextDim, false, width)
	case s.report == nil:
		return components.Notice("This report no longer exists.", width)
	}
	w := min(width-4, 100)
	body := s.doc.View(w, height-2)
	if s.confirm {
		body += "\n" + components.Centered("Delete this report? [Y/N]", theme.Accent, true, w)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// Markdown renders a report as a markdown document.
func Markdown(r report.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "%s · Score **%d/%d**\n\n", r.CreatedAt.Local().Format(timeFormat), r.Score, r.Total)
	for i, res := range r.Results {
		q := res.Question
		verdict := "✓"
		if !res.IsCorrect {
			verdict = "✗"
		}
		fmt.Fprintf(&b, "---\n## %d. %s %s\n", i+1, q.Question, verdict)
		if q.QuestionTranslation != "" {
			fmt.Fprintf(&b, "*%s*\n", q.QuestionTranslation)
		}
		fmt.Fprintf(&b, "\n%s\n\n*%s*\n\n", q.Script, q.Translation)
		fmt.Fprintf(&b, "- Your answer: **%s**\n", res.UserAnswer)
		if !res.IsCorrect {
			fmt.Fprintf(&b, "- Correct answer: **%s**\n", q.CorrectAnswer)
		}
		b.WriteString("\n")
	}
	return b.String()
}
