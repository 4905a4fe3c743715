package vocab

import (
	"errors"
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/history"
	"github.com/abhisek/deutschlern/internal/llm"
	"github.com/abhisek/deutschlern/internal/screen"
)

const (
	tischJSON   = `{"word":"Tisch","translation":"table","exampleSentence":"Der Tisch ist groß.","exampleTranslation":"The table is big."}`
	schnellJSON = `{"word":"schnell","translation":"fast","exampleSentence":"Das Auto ist schnell.","exampleTranslation":"The car is fast."}`
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func newScreen(responses ...llm.MockResponse) (*VocabScreen, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	orch := content.New(mock, nil, nil, content.DefaultConfig())
	return New(screen.Services{Orchestrator: orch}.WithDefaults(), "A1"), mock
}

// apply runs cmd and feeds its messages, minus spinner ticks, to s.
func apply(s *VocabScreen, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			apply(s, c)
		}
		return
	}
	if _, ok := msg.(spinner.TickMsg); ok || msg == nil {
		return
	}
	_, next := s.Update(msg)
	apply(s, next)
}

func TestFlipAndNext(t *testing.T) {
	s, _ := newScreen(llm.MockResponse{Content: tischJSON}, llm.MockResponse{Content: tischJSON})
	apply(s, s.Init())

	view := s.View(100, 30)
	if !strings.Contains(view, "Tisch") || strings.Contains(view, "table") {
		t.Fatalf("front should show only the word:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace})
	if view := s.View(100, 30); !strings.Contains(view, "table") || !strings.Contains(view, "Der Tisch ist groß.") {
		t.Errorf("back should show translation and example:\n%s", view)
	}

	_, cmd := s.Update(keyPress('n'))
	if s.card != nil || s.flipped {
		t.Error("next should clear the card while loading")
	}
	apply(s, cmd)
	if s.card == nil || s.flipped {
		t.Error("next card should arrive face up")
	}

	items := s.svc.Orchestrator.History().Items(history.Key{Level: "A1", Skill: "Vocabulary", Category: "noun"})
	if len(items) != 2 || items[0] != "Tisch" {
		t.Errorf("history = %v, want both words recorded", items)
	}
}

func TestTabSwitchesCategory(t *testing.T) {
	s, mock := newScreen(llm.MockResponse{Content: tischJSON}, llm.MockResponse{Content: schnellJSON})
	stale := s.Init()

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.category != content.CategoryAdjective {
		t.Fatalf("category = %q, want adjective", s.category)
	}
	// The noun request was superseded by the switch.
	apply(s, stale)
	if s.card != nil {
		t.Fatal("card from the previous category must be dropped")
	}

	apply(s, cmd)
	if s.card == nil || s.card.Word != "schnell" {
		t.Fatalf("card = %+v, want schnell", s.card)
	}
	req, _ := mock.LastCall()
	if last := req.Messages[len(req.Messages)-1].Content; !strings.Contains(last, `"adjective"`) {
		t.Errorf("prompt does not ask for adjectives:\n%s", last)
	}
}

func TestGenerationErrorOffersRetry(t *testing.T) {
	s, _ := newScreen(
		llm.MockResponse{Err: &llm.ErrTransport{Err: errors.New("connection reset")}},
		llm.MockResponse{Content: tischJSON},
	)
	apply(s, s.Init())
	if view := s.View(100, 30); !strings.Contains(view, "Press N") {
		t.Fatalf("error placeholder missing retry hint:\n%s", view)
	}

	_, cmd := s.Update(keyPress('n'))
	apply(s, cmd)
	if s.err != nil || s.card == nil {
		t.Errorf("retry should load a card, err %v", s.err)
	}
}

func TestOpeningClearsHistory(t *testing.T) {
	orch := content.New(llm.NewMockProvider(), nil, nil, content.DefaultConfig())
	key := history.Key{Level: "B1", Skill: "Vocabulary", Category: "adjective"}
	orch.History().Record(key, "schön")

	New(screen.Services{Orchestrator: orch}.WithDefaults(), "B1")
	if items := orch.History().Items(key); len(items) != 0 {
		t.Errorf("history = %v, want cleared on open", items)
	}
}
