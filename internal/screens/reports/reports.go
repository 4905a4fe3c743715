// Package reports is the report center: saved listening quiz results.
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

const timeFormat = "02 Jan 2006 15:04"

type loadedMsg struct {
	owner   int64
	reports []report.Report
	err     error
}

type deletedMsg struct {
	owner int64
	n     int
	err   error
}

// ListScreen lists saved reports, newest first. Opening it marks the
// reports as read.
type ListScreen struct {
	id  int64
	svc screen.Services

	reports  []report.Report
	selected int
	marked   map[string]bool
	confirm  bool
	loaded   bool
	err      error
	status   string
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)

// New creates the report list.
func New(svc screen.Services) *ListScreen {
	return &ListScreen{id: screen.NewID(), svc: svc, marked: map[string]bool{}}
}

func (s *ListScreen) Init() tea.Cmd {
	return s.load(true)
}

func (s *ListScreen) load(markRead bool) tea.Cmd {
	id, reports, log := s.id, s.svc.Reports, s.svc.Log
	return func() tea.Msg {
		ctx := context.Background()
		if markRead {
			if err := reports.MarkRead(ctx); err != nil {
				log.Warn("mark reports read", "error", err)
			}
		}
		list, err := reports.List(ctx)
		return loadedMsg{owner: id, reports: list, err: err}
	}
}

func (s *ListScreen) Title() string {
	return "Report Center"
}

func (s *ListScreen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	if len(s.reports) == 0 {
		return nil
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Space", Description: "Mark"},
		{Key: "D", Description: "Delete"},
	}
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != s.id {
			return s, nil
		}
		s.loaded = true
		s.reports, s.err = msg.reports, msg.err
		s.selected = max(0, min(s.selected, len(s.reports)-1))
		return s, nil

	case deletedMsg:
		if msg.owner != s.id {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.status = fmt.Sprintf("Deleted %d report(s).", msg.n)
		s.marked = map[string]bool{}
		return s, s.load(false)

	case router.ResumeMsg:
		return s, s.load(true)

	case tea.KeyPressMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *ListScreen) handleKey(key string) tea.Cmd {
	if s.confirm {
		switch key {
		case "y", "Y":
			s.confirm = false
			return s.delete(s.targets())
		case "n", "N":
			s.confirm = false
		}
		return nil
	}
	if len(s.reports) == 0 {
		return nil
	}

	s.status = ""
	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.reports)-1 {
			s.selected++
		}
	case "space":
		id := s.reports[s.selected].ID
		s.marked[id] = !s.marked[id]
	case "d":
		s.confirm = true
	case "enter":
		return router.Open(NewDetail(s.svc, s.reports[s.selected].ID))
	}
	return nil
}

// targets are the marked reports, or the selected one when none is marked.
func (s *ListScreen) targets() []string {
	var ids []string
	for _, r := range s.reports {
		if s.marked[r.ID] {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 && s.selected < len(s.reports) {
		ids = append(ids, s.reports[s.selected].ID)
	}
	return ids
}

func (s *ListScreen) delete(ids []string) tea.Cmd {
	id, reports := s.id, s.svc.Reports
	return func() tea.Msg {
		n, err := reports.Delete(context.Background(), ids...)
		return deletedMsg{owner: id, n: n, err: err}
	}
}

func (s *ListScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Report Center"))
	b.WriteString("\n\n")

	switch {
	case s.err != nil:
		b.WriteString(components.Notice(s.err.Error(), width))
	case !s.loaded:
		b.WriteString(components.Centered("Loading reports...", theme.TextDim, false, width))
	case len(s.reports) == 0:
		b.WriteString(components.Centered("No reports yet. Finish a listening quiz to create one.", theme.TextDim, false, width))
	default:
		b.WriteString(components.Panel(s.renderList(), width, 90))
	}

	if s.confirm {
		b.WriteString("\n\n")
		b.WriteString(components.Centered(
			fmt.Sprintf("Delete %d report(s)? [Y/N]", len(s.targets())), theme.Accent, true, width))
	} else if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Centered(s.status, theme.Success, false, width))
	}
	return lipgloss.PlaceVertical(height, lipgloss.Top, b.String())
}

func (s *ListScreen) renderList() string {
	var b strings.Builder
	for i, r := range s.reports {
		mark := "  "
		if s.marked[r.ID] {
			mark = "● "
		}
		line := fmt.Sprintf("%s%-32s %s   %d/%d", mark, r.Title, r.CreatedAt.Local().Format(timeFormat), r.Score, r.Total)
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
