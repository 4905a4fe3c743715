package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"kv", "llm_request_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/idempotent.db"
	for i := 0; i < 2; i++ {
		s, err := Open(dsn)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestKVRepo(t *testing.T) {
	s := openTestStore(t)
	kv := s.KVRepo()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := kv.Put(ctx, "reports", `[1]`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "reports", `[1,2]`); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, ok, err := kv.Get(ctx, "reports")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != `[1,2]` {
		t.Errorf("get = (%q, %v), want (%q, true)", got, ok, `[1,2]`)
	}

	if err := kv.Delete(ctx, "reports"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "reports"); ok {
		t.Error("expected key to be gone after delete")
	}
	if err := kv.Delete(ctx, "reports"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func appendEvent(t *testing.T, repo EventRepo, purpose, model string, success bool) {
	t.Helper()
	err := repo.AppendLLMRequest(context.Background(), LLMRequestEventData{
		Provider:     "openrouter",
		Model:        model,
		Purpose:      purpose,
		InputTokens:  100,
		OutputTokens: 50,
		LatencyMs:    200,
		Success:      success,
		RequestBody:  "[user]\nhello",
		ResponseBody: "hallo",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestLLMEventsQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendEvent(t, repo, "lesson", "deepseek/deepseek-chat", true)
	appendEvent(t, repo, "assessment", "deepseek/deepseek-chat", true)
	appendEvent(t, repo, "assessment", "deepseek/deepseek-chat", false)

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].Sequence < events[1].Sequence {
		t.Error("expected newest event first")
	}
	if events[0].Success {
		t.Error("newest event should be the failed one")
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "assessment", Limit: 1})
	if err != nil {
		t.Fatalf("query filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Purpose != "assessment" {
		t.Errorf("filtered = %+v, want one assessment event", filtered)
	}

	got, err := repo.GetLLMEvent(ctx, events[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "[user]\nhello" || got.ResponseBody != "hallo" {
		t.Errorf("get = %+v, want stored bodies", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendEvent(t, repo, "lesson", "deepseek/deepseek-chat", true)
	appendEvent(t, repo, "lesson", "deepseek/deepseek-chat", true)
	appendEvent(t, repo, "vocabulary", "google/gemma-7b-it:free", false)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("len(byPurpose) = %d, want 2", len(byPurpose))
	}
	if byPurpose[0].Purpose != "lesson" || byPurpose[0].Calls != 2 || byPurpose[0].InputTokens != 200 {
		t.Errorf("lesson stats = %+v", byPurpose[0])
	}
	if byPurpose[0].AvgLatencyMs != 200 {
		t.Errorf("avg latency = %d, want 200", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 1 {
		t.Fatalf("len(byModel) = %d, want 1 (failed calls excluded)", len(byModel))
	}
	if byModel[0].OutputTokens != 100 {
		t.Errorf("output tokens = %d, want 100", byModel[0].OutputTokens)
	}
}

func TestPruneLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		appendEvent(t, repo, "lesson", "deepseek/deepseek-chat", true)
	}

	removed, err := repo.PruneLLMEvents(ctx, 5)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	events, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	if len(events) != 5 {
		t.Fatalf("remaining = %d, want 5", len(events))
	}
	if events[0].Sequence != 7 {
		t.Errorf("newest sequence = %d, want 7", events[0].Sequence)
	}

	removed, err = repo.PruneLLMEvents(ctx, 10)
	if err != nil {
		t.Fatalf("prune no-op: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
