package content

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/deutschlern/internal/llm"
)

func TestEpoch(t *testing.T) {
	var e Epoch

	first := e.Begin()
	if !e.IsCurrent(first) {
		t.Fatal("fresh ticket should be current")
	}

	second := e.Begin()
	if e.IsCurrent(first) {
		t.Error("first ticket should be stale after a new request")
	}
	if !e.IsCurrent(second) {
		t.Error("second ticket should be current")
	}

	e.Invalidate()
	if e.IsCurrent(second) {
		t.Error("Invalidate should make the outstanding ticket stale")
	}
}

// gatedProvider blocks each call until its reply is released, so tests can
// control the order in which responses arrive.
type gatedProvider struct {
	mu      sync.Mutex
	replies map[string]chan string
}

func (g *gatedProvider) gate(level string) chan string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.replies == nil {
		g.replies = make(map[string]chan string)
	}
	ch, ok := g.replies[level]
	if !ok {
		ch = make(chan string, 1)
		g.replies[level] = ch
	}
	return ch
}

func (g *gatedProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	level := "A1"
	if len(req.Messages) > 1 && strings.Contains(req.Messages[1].Content, "B2 level") {
		level = "B2"
	}
	select {
	case text := <-g.gate(level):
		return &llm.Response{Content: text}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedProvider) ModelID() string { return "gated" }

func TestEpoch_DropsStaleResponse(t *testing.T) {
	p := &gatedProvider{}
	o := New(p, nil, nil, DefaultConfig())
	var e Epoch

	type result struct {
		ticket uint64
		md     string
	}
	results := make(chan result, 2)
	request := func(level string) {
		ticket := e.Begin()
		go func() {
			md, err := o.GenerateMarkdown(context.Background(), level, SkillReading)
			if err != nil {
				t.Errorf("generate %s: %v", level, err)
			}
			results <- result{ticket, md}
		}()
	}

	// The learner picks A1, then B2 before A1's reply lands.
	request("A1")
	request("B2")

	p.gate("B2") <- "B2 exercise"
	r := <-results
	var shown string
	if e.IsCurrent(r.ticket) {
		shown = r.md
	}

	p.gate("A1") <- "A1 exercise"
	r = <-results
	if e.IsCurrent(r.ticket) {
		shown = r.md
	}

	if shown != "B2 exercise" {
		t.Errorf("shown = %q, want the latest request's reply", shown)
	}
}
