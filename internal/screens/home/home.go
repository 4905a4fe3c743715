package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/deutschlern/internal/levels"
	"github.com/abhisek/deutschlern/internal/router"
	"github.com/abhisek/deutschlern/internal/screen"
	"github.com/abhisek/deutschlern/internal/screens/assistant"
	"github.com/abhisek/deutschlern/internal/screens/reports"
	"github.com/abhisek/deutschlern/internal/screens/skills"
	"github.com/abhisek/deutschlern/internal/screens/translate"
	"github.com/abhisek/deutschlern/internal/ui/components"
	"github.com/abhisek/deutschlern/internal/ui/theme"
)

// reportsItem is the index of the report center entry, after the levels.
var reportsItem = len(levels.All())

type newReportsMsg struct {
	hasNew bool
}

// HomeScreen lists the CEFR levels and the tools that are not tied to a
// level.
type HomeScreen struct {
	svc  screen.Services
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc screen.Services) *HomeScreen {
	var items []components.MenuItem
	for _, lvl := range levels.All() {
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%s  %s", lvl.ID, lvl.Title),
			Detail: lvl.Description,
			Action: func() tea.Cmd { return router.Open(skills.New(svc, lvl)) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "Report Center",
			Action:   func() tea.Cmd { return router.Open(reports.New(svc)) },
			Disabled: svc.Reports == nil,
		},
		components.MenuItem{
			Label:  "Translator",
			Action: func() tea.Cmd { return router.Open(translate.New(svc)) },
		},
		components.MenuItem{
			Label:  "Voice Assistant",
			Action: func() tea.Cmd { return router.Open(assistant.New(svc)) },
		},
		components.MenuItem{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)

	return &HomeScreen{svc: svc, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.checkReports()
}

func (h *HomeScreen) checkReports() tea.Cmd {
	if h.svc.Reports == nil {
		return nil
	}
	svc := h.svc
	return func() tea.Msg {
		hasNew, err := svc.Reports.HasNew(context.Background())
		if err != nil {
			svc.Log.Warn("check new reports", "error", err)
		}
		return newReportsMsg{hasNew: hasNew}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case newReportsMsg:
		badge := ""
		if msg.hasNew {
			badge = "NEW"
		}
		h.menu.Items[reportsItem].Badge = badge
		return h, nil
	case router.ResumeMsg:
		return h, h.checkReports()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Willkommen!"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Choose your level to start learning German."))
	b.WriteString("\n\n")
	b.WriteString(components.Panel(h.menu.View(), width, 90))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (h *HomeScreen) Title() string {
	return "Home"
}
