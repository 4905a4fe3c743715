// Package lesson shows generated reading and writing exercises.
package lesson

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/layout"
)

type generatedMsg struct {
	owner   int64
	ticket  uint64
	content content.Content
	err     error
}

// LessonScreen generates one markdown exercise for a level and skill and
// lets the learner scroll it or ask for another one.
type LessonScreen struct {
	id    int64
	svc   screen.Services
	level string
	skill content.Skill

	epoch   content.Epoch
	loading bool
	spin    spinner.Model
	doc     components.DocView
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates the lesson screen.
func New(svc screen.Services, level string, skill content.Skill) *LessonScreen {
	return &LessonScreen{
		id:    screen.NewID(),
		svc:   svc,
		level: level,
		skill: skill,
		spin:  components.NewSpinner(),
		doc:   components.NewDocView(),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return tea.Batch(s.generate(), s.spin.Tick)
}

func (s *LessonScreen) Title() string {
	return fmt.Sprintf("%s · %s", s.skill, s.level)
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return nil
	}
	return []layout.KeyHint{
		{Key: "↑↓/PgUp/PgDn", Description: "Scroll"},
		{Key: "R", Description: "New exercise"},
	}
}

// generate requests new content. A response for an older request is
// dropped when it arrives.
func (s *LessonScreen) generate() tea.Cmd {
	ticket := s.epoch.Begin()
	s.loading = true
	id, orch, level, skill := s.id, s.svc.Orchestrator, s.level, s.skill
	return func() tea.Msg {
		c, err := orch.Generate(context.Background(), level, skill)
		return generatedMsg{owner: id, ticket: ticket, content: c, err: err}
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		if msg.owner != s.id || !s.epoch.IsCurrent(msg.ticket) {
			return s, nil
		}
		s.loading = false
		c := msg.content
		if msg.err != nil {
			s.svc.Log.Warn("lesson generation failed", "level", s.level, "skill", s.skill, "error", msg.err)
			c = content.ErrorContent(msg.err)
		}
		s.doc.SetMarkdown(c.Markdown)
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if msg.String() == "r" && !s.loading {
			return s, tea.Batch(s.generate(), s.spin.Tick)
		}
	}

	var cmd tea.Cmd
	s.doc, cmd = s.doc.Update(msg)
	return s, cmd
}

func (s *LessonScreen) View(width, height int) string {
	if s.loading {
		return components.Loading(s.spin, fmt.Sprintf("Generating your %s exercise...", s.skill), width)
	}
	w := min(width-4, 100)
	body := s.doc.View(w, height-1)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// Close discards any request still in flight.
func (s *LessonScreen) Close() {
	s.epoch.Invalidate()
}
