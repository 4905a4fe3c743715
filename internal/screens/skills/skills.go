package skills

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/levels"
	"github.com/abhisek/deutschlern/internal/router"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/screens/lesson"
	"github.com/abhisek/deutschlern/internal/screens/quiz"
	"github.com/abhisek/deutschlern/internal/screens/speaking"
	"github.com/abhisek/deutschlern/internal/screens/vocab"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/theme"
)

var skillDetails = map[content.Skill]string{
	content.SkillReading:    "a short text with vocabulary",
	content.SkillWriting:    "a writing prompt with tips",
	content.SkillSpeaking:   "read a sentence, get pronunciation feedback",
	content.SkillVocabulary: "noun and adjective flashcards",
}

// SkillsScreen offers the practice modes for one level.
type SkillsScreen struct {
	level levels.Level
	menu  components.Menu
}

var _ screen.Screen = (*SkillsScreen)(nil)

// New creates the skill menu for level.
func New(svc screen.Services, level levels.Level) *SkillsScreen {
	items := make([]components.MenuItem, 0, len(content.Skills))
	for _, skill := range content.Skills {
		detail := skillDetails[skill]
		switch skill {
		case content.SkillListening:
			detail = fmt.Sprintf("%d-question quiz with spoken scripts", svc.Listening.Length)
		case content.SkillAssessment:
			detail = fmt.Sprintf("%d-question fill-in-the-blank quiz", svc.Assessment.Length)
		}
		items = append(items, components.MenuItem{
			Label:  string(skill),
			Detail: detail,
			Action: func() tea.Cmd { return router.Open(open(svc, level.ID, skill)) },
		})
	}
	return &SkillsScreen{level: level, menu: components.NewMenu(items)}
}

func open(svc screen.Services, level string, skill content.Skill) screen.Screen {
	switch skill {
	case content.SkillAssessment:
		return quiz.NewAssessment(svc, level)
	case content.SkillListening:
		return quiz.NewListening(svc, level)
	case content.SkillSpeaking:
		return speaking.New(svc, level)
	case content.SkillVocabulary:
		return vocab.New(svc, level)
	default:
		return lesson.New(svc, level, skill)
	}
}

func (s *SkillsScreen) Init() tea.Cmd {
	return nil
}

func (s *SkillsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SkillsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render(fmt.Sprintf("Level %s · %s", s.level.ID, s.level.Title)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(s.level.Description))
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.menu.View(), width, 80))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *SkillsScreen) Title() string {
	return "Level " + s.level.ID
}
