// Package report keeps the learner's completed listening quiz reports.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/deutschlern/internal/content"
	"github.com/abhisek/deutschlern/internal/store"
)

const (
	// StorageKey is the kv key holding the whole report list.
	StorageKey = "deutschlern-reports"

	newFlagKey = "deutschlern-reports-new"
)

// Result is one answered listening question.
type Result struct {
	Question   content.ListeningItem `json:"question"`
	UserAnswer string                `json:"userAnswer"`
	IsCorrect  bool                  `json:"isCorrect"`
}

// Report is a finished listening quiz. Reports are never modified after
// they are added.
type Report struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	LevelID   string    `json:"levelId"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Results   []Result  `json:"results"`
}

// Title returns the display title for a listening report.
func Title(levelID string) string {
	return fmt.Sprintf("Listening Quiz - Level %s", levelID)
}

// Service reads and replaces the report list stored under StorageKey.
type Service struct {
	mu    sync.Mutex
	repo  store.KVRepo
	now   func() time.Time
	newID func() string
}

// NewService creates a Service backed by repo.
func NewService(repo store.KVRepo) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Add stores r as the newest report and raises the has-new flag. The ID and
// CreatedAt fields are assigned here; a blank title defaults to Title(LevelID).
func (s *Service) Add(ctx context.Context, r Report) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	r.ID = s.newID()
	r.CreatedAt = s.now()
	if r.Title == "" {
		r.Title = Title(r.LevelID)
	}
	reports = append([]Report{r}, reports...)

	if err := s.save(ctx, reports); err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, newFlagKey, "true"); err != nil {
		return nil, fmt.Errorf("set new-report flag: %w", err)
	}
	return &r, nil
}

// List returns all reports, newest first.
func (s *Service) List(ctx context.Context) ([]Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the report with the given id, or nil if there is none.
func (s *Service) Get(ctx context.Context, id string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		if reports[i].ID == id {
			return &reports[i], nil
		}
	}
	return nil, nil
}

// Delete removes the reports with the given ids and returns how many were
// found.
func (s *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	kept := slices.DeleteFunc(reports, func(r Report) bool {
		return slices.Contains(ids, r.ID)
	})
	removed := len(reports) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(ctx, kept)
}

// HasNew reports whether a report was added since the last MarkRead.
func (s *Service) HasNew(ctx context.Context) (bool, error) {
	v, ok, err := s.repo.Get(ctx, newFlagKey)
	if err != nil {
		return false, fmt.Errorf("read new-report flag: %w", err)
	}
	return ok && v == "true", nil
}

// MarkRead clears the has-new flag.
func (s *Service) MarkRead(ctx context.Context) error {
	if err := s.repo.Delete(ctx, newFlagKey); err != nil {
		return fmt.Errorf("clear new-report flag: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context) ([]Report, error) {
	raw, ok, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var reports []Report
	if err := json.Unmarshal([]byte(raw), &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

func (s *Service) save(ctx context.Context, reports []Report) error {
	if reports == nil {
		reports = []Report{}
	}
	data, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	if err := s.repo.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("save reports: %w", err)
	}
	return nil
}
