package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/history"
	"github.com/abhisek/deutschlern/internal/llm"
	"github.com/abhisek/deutschlern/internal/report"
	"github.com/abhisek/deutschlern/internal/store"
)

func assessmentItem(i int) *content.AssessmentItem {
	return &content.AssessmentItem{
		Sentence:      fmt.Sprintf("Satz %d ___.", i),
		Options:       []string{"a", "b", "c"},
		CorrectAnswer: "a",
	}
}

func TestQuiz_AssessmentTermination(t *testing.T) {
	q := NewQuiz[*content.AssessmentItem](AssessmentConfig())
	ticket := q.Start()

	wantCorrect := 0
	completions := 0
	for i := 0; i < AssessmentLength; i++ {
		if q.Phase() != PhaseAwaitingQuestion {
			t.Fatalf("question %d: phase = %v, want awaiting-question", i, q.Phase())
		}
		if !q.Deliver(Delivery[*content.AssessmentItem]{Ticket: ticket, Item: assessmentItem(i)}) {
			t.Fatalf("question %d: delivery rejected", i)
		}

		answer := "b"
		if i%3 == 0 {
			answer = "a"
			wantCorrect++
		}
		out, ok := q.Answer(answer)
		if !ok {
			t.Fatalf("question %d: answer rejected", i)
		}
		if out.Complete {
			completions++
			continue
		}
		ticket, ok = q.Advance()
		if !ok {
			t.Fatalf("question %d: advance rejected", i)
		}
	}

	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	st := q.State()
	if !st.Complete || q.Phase() != PhaseComplete {
		t.Errorf("run not complete: %+v phase %v", st, q.Phase())
	}
	if st.QuestionsAnswered != AssessmentLength {
		t.Errorf("QuestionsAnswered = %d, want %d", st.QuestionsAnswered, AssessmentLength)
	}
	if st.CorrectAnswers != wantCorrect {
		t.Errorf("CorrectAnswers = %d, want %d", st.CorrectAnswers, wantCorrect)
	}
	if len(st.Results) != AssessmentLength {
		t.Errorf("len(Results) = %d", len(st.Results))
	}

	// A 26th answer is a no-op.
	if _, ok := q.Answer("a"); ok {
		t.Error("answer accepted after completion")
	}
	if _, ok := q.Advance(); ok {
		t.Error("advance accepted after completion")
	}
	if q.Deliver(Delivery[*content.AssessmentItem]{Ticket: ticket, Item: assessmentItem(99)}) {
		t.Error("delivery accepted after completion")
	}
	if q.State().QuestionsAnswered != AssessmentLength {
		t.Error("state changed after completion")
	}
}

func TestQuiz_AnswerIsIdempotent(t *testing.T) {
	q := NewQuiz[*content.AssessmentItem](AssessmentConfig())
	ticket := q.Start()
	q.Deliver(Delivery[*content.AssessmentItem]{Ticket: ticket, Item: assessmentItem(0)})

	if _, ok := q.Answer("b"); !ok {
		t.Fatal("first answer rejected")
	}
	if _, ok := q.Answer("a"); ok {
		t.Fatal("second answer accepted")
	}

	st := q.State()
	if st.QuestionsAnswered != 1 || st.CorrectAnswers != 0 {
		t.Errorf("state = %+v, want one wrong answer", st)
	}
	last, _ := q.LastResult()
	if last.UserAnswer != "b" || last.IsCorrect {
		t.Errorf("last result = %+v", last)
	}
}

func TestQuiz_AnswerBeforeQuestion(t *testing.T) {
	q := NewQuiz[*content.AssessmentItem](AssessmentConfig())
	q.Start()
	if _, ok := q.Answer("a"); ok {
		t.Error("answer accepted with no question shown")
	}
}

func TestQuiz_StaleDeliveryDropped(t *testing.T) {
	q := NewQuiz[*content.AssessmentItem](AssessmentConfig())
	first := q.Start()
	second := q.Start()

	if q.Deliver(Delivery[*content.AssessmentItem]{Ticket: first, Item: assessmentItem(1)}) {
		t.Fatal("stale delivery applied")
	}
	if q.Phase() != PhaseAwaitingQuestion {
		t.Fatalf("phase = %v after stale delivery", q.Phase())
	}
	if !q.Deliver(Delivery[*content.AssessmentItem]{Ticket: second, Item: assessmentItem(2)}) {
		t.Fatal("current delivery rejected")
	}
	cur, ok := q.Current()
	if !ok || cur.Sentence != "Satz 2 ___." {
		t.Errorf("current = %+v", cur)
	}
}

func TestQuiz_GenerationFailureWaits(t *testing.T) {
	q := NewQuiz[*content.AssessmentItem](AssessmentConfig())
	ticket := q.Start()

	boom := errors.New("boom")
	if !q.Deliver(Delivery[*content.AssessmentItem]{Ticket: ticket, Err: boom}) {
		t.Fatal("failed delivery not applied")
	}
	if q.Phase() != PhaseAwaitingQuestion || !errors.Is(q.Err(), boom) {
		t.Fatalf("phase %v err %v", q.Phase(), q.Err())
	}

	retry, ok := q.Retry()
	if !ok {
		t.Fatal("retry rejected")
	}
	if q.Err() != nil {
		t.Error("retry should clear the error")
	}
	if q.Deliver(Delivery[*content.AssessmentItem]{Ticket: ticket, Item: assessmentItem(0)}) {
		t.Error("delivery for the failed ticket applied after retry")
	}
	if !q.Deliver(Delivery[*content.AssessmentItem]{Ticket: retry, Item: assessmentItem(0)}) {
		t.Error("retry delivery rejected")
	}
	if _, ok := q.Retry(); ok {
		t.Error("retry accepted while a question is shown")
	}
}

func TestQuiz_StartResets(t *testing.T) {
	q := NewQuiz[*content.AssessmentItem](Config{Length: 2})
	ticket := q.Start()
	q.Deliver(Delivery[*content.AssessmentItem]{Ticket: ticket, Item: assessmentItem(0)})
	q.Answer("a")

	q.Start()
	st := q.State()
	if st.QuestionsAnswered != 0 || st.CorrectAnswers != 0 || len(st.Results) != 0 || st.Complete {
		t.Errorf("state not reset: %+v", st)
	}
}

func listeningJSON(i int) string {
	return fmt.Sprintf(`{"script":"Skript %d.","translation":"Script %d.","question":"Frage %d?","questionTranslation":"Question?","options":["ja","nein"],"optionsTranslations":["yes","no"],"correctAnswer":"ja"}`, i, i, i)
}

func TestListeningRun_ProducesReport(t *testing.T) {
	mock := llm.NewMockProvider()
	for i := 0; i < ListeningLength; i++ {
		mock.AddResponse(llm.MockResponse{Content: listeningJSON(i)})
	}
	orch := content.New(mock, history.New(0), nil, content.DefaultConfig())

	name := strings.NewReplacer("/", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()
	reports := report.NewService(s.KVRepo())

	ctx := context.Background()
	run := NewListeningRun(orch, "A2", ListeningConfig())
	ticket := run.Start()

	var added []*report.Report
	for i := 0; i < ListeningLength; i++ {
		if !run.Deliver(run.Fetch(ctx, ticket)) {
			t.Fatalf("question %d: delivery rejected", i)
		}
		answer := "nein"
		if i < 7 {
			answer = "ja"
		}
		out, ok := run.Answer(answer)
		if !ok {
			t.Fatalf("question %d: answer rejected", i)
		}
		if out.Complete {
			r, err := reports.Add(ctx, ListeningReport(run.Level, run.State()))
			if err != nil {
				t.Fatalf("add report: %v", err)
			}
			added = append(added, r)
			break
		}
		ticket, _ = run.Advance()
	}

	if len(added) != 1 {
		t.Fatalf("reports added = %d, want 1", len(added))
	}
	got, err := reports.Get(ctx, added[0].ID)
	if err != nil || got == nil {
		t.Fatalf("get report: %v %v", got, err)
	}
	if got.Score != 7 || got.Total != 10 {
		t.Errorf("score = %d/%d, want 7/10", got.Score, got.Total)
	}
	if got.Title != "Listening Quiz - Level A2" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Results) != 10 || got.Results[0].Question.Script != "Skript 0." {
		t.Errorf("results not preserved: %+v", got.Results)
	}

	if n, err := reports.Delete(ctx, got.ID); err != nil || n != 1 {
		t.Fatalf("delete: %d %v", n, err)
	}
	if got, _ := reports.Get(ctx, added[0].ID); got != nil {
		t.Error("report still present after delete")
	}
}

func TestRun_StartClearsHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: listeningJSON(1)})
	hist := history.New(0)
	orch := content.New(mock, hist, nil, content.DefaultConfig())

	key := history.Key{Level: "B1", Skill: string(content.SkillListening)}
	hist.Record(key, "old script")

	run := NewListeningRun(orch, "B1", ListeningConfig())
	ticket := run.Start()
	if len(hist.Items(key)) != 0 {
		t.Fatal("history not cleared on start")
	}

	run.Deliver(run.Fetch(context.Background(), ticket))
	req, _ := mock.LastCall()
	if strings.Contains(req.Messages[1].Content, "old script") {
		t.Error("first prompt of a fresh run still lists the previous run's script")
	}
}

func TestRun_FetchFailureKeepsWaiting(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAPI{StatusCode: 500, Message: "down"}})
	orch := content.New(mock, nil, nil, content.DefaultConfig())

	run := NewAssessmentRun(orch, "A1", AssessmentConfig())
	ticket := run.Start()
	run.Deliver(run.Fetch(context.Background(), ticket))

	if run.Phase() != PhaseAwaitingQuestion {
		t.Errorf("phase = %v, want awaiting-question", run.Phase())
	}
	if content.UserMessage(run.Err()) != "down" {
		t.Errorf("err = %v", run.Err())
	}
}
