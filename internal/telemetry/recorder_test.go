package telemetry_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/randomtoy/raas-go/internal/domain"
	"github.com/randomtoy/raas-go/internal/telemetry"
)

type captureStore struct {
	mu         sync.Mutex
	increments []string
	summaries  []string
	readings   []domain.ReadingRecord
	incErr     error
	sumErr     error
	insErr     error
}

func (s *captureStore) IncrementCardStat(_ context.Context, readerAlias string, card domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.increments = append(s.increments, readerAlias+"/"+card.Name)
	return s.incErr
}

func (s *captureStore) UpsertReaderSummary(_ context.Context, readerAlias string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, readerAlias)
	return s.sumErr
}

func (s *captureStore) TopCardStats(_ context.Context, _ string, _ int) ([]domain.CardStat, error) {
	return nil, nil
}

func (s *captureStore) InsertReading(_ context.Context, rec domain.ReadingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, rec)
	return s.insErr
}

func (s *captureStore) ReaderActivity(_ context.Context, _ string, _ time.Time) (domain.ReaderActivity, error) {
	return domain.ReaderActivity{}, nil
}

func (s *captureStore) TrendingReaders(_ context.Context, _ time.Time, _ int) ([]domain.ReaderActivity, error) {
	return nil, nil
}

func testEvent() domain.ReadingEvent {
	return domain.ReadingEvent{
		ReaderAlias: "luna",
		UserID:      "anon",
		Question:    "What lies ahead?",
		Spread:      domain.SpreadThreeCard,
		Cards: []domain.DrawnCard{
			{Card: domain.Card{ID: 1, Name: "The Fool"}, Position: 1, Label: "Past"},
			{Card: domain.Card{ID: 2, Name: "The Magician"}, Position: 2, Label: "Present"},
			{Card: domain.Card{ID: 3, Name: "The Star"}, Position: 3, Label: "Future"},
		},
		Response: "A reading.",
	}
}

func TestRecord_WritesAllThree(t *testing.T) {
	store := &captureStore{}
	rec := telemetry.NewRecorder(store, slog.Default())

	rec.Record(testEvent())
	rec.Close()

	if len(store.increments) != 3 {
		t.Errorf("expected 3 card increments, got %d", len(store.increments))
	}
	if len(store.summaries) != 1 {
		t.Errorf("expected 1 summary upsert, got %d", len(store.summaries))
	}
	if len(store.readings) != 1 {
		t.Fatalf("expected 1 reading row, got %d", len(store.readings))
	}

	row := store.readings[0]
	if row.ID == "" {
		t.Error("reading row missing generated id")
	}
	if len(row.CardNames) != 3 || row.CardNames[0] != "The Fool" {
		t.Errorf("unexpected card names: %v", row.CardNames)
	}
	if row.CreatedAt.IsZero() {
		t.Error("reading row missing timestamp")
	}
}

func TestRecord_StoreFailuresSwallowed(t *testing.T) {
	store := &captureStore{
		incErr: errors.New("stat boom"),
		sumErr: errors.New("summary boom"),
		insErr: errors.New("log boom"),
	}
	rec := telemetry.NewRecorder(store, slog.Default())

	// Must not panic or block; failures only get logged.
	rec.Record(testEvent())
	rec.Close()

	if len(store.increments) != 3 {
		t.Errorf("expected all increments attempted, got %d", len(store.increments))
	}
}

func TestRecordDraw_IncrementsOnly(t *testing.T) {
	store := &captureStore{}
	rec := telemetry.NewRecorder(store, slog.Default())

	rec.RecordDraw("luna", testEvent().Cards[:2])
	rec.Close()

	if len(store.increments) != 2 {
		t.Errorf("expected 2 increments, got %d", len(store.increments))
	}
	if len(store.summaries) != 0 || len(store.readings) != 0 {
		t.Error("draw-only recording must not touch summary or log")
	}
}

func TestRecord_ConcurrentEventsAllLand(t *testing.T) {
	store := &captureStore{}
	rec := telemetry.NewRecorder(store, slog.Default())

	for i := 0; i < 10; i++ {
		rec.Record(testEvent())
	}
	rec.Close()

	if len(store.increments) != 30 {
		t.Errorf("expected 30 increments, got %d", len(store.increments))
	}
	if len(store.readings) != 10 {
		t.Errorf("expected 10 reading rows, got %d", len(store.readings))
	}
}
