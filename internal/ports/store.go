package ports

import (
	"context"
	"time"

	"github.com/randomtoy/raas-go/internal/domain"
)

// ReaderStore resolves reader personas by alias.
type ReaderStore interface {
	GetReader(ctx context.Context, alias string) (domain.Reader, error)
}

// CardStore provides the full card table to draw from.
type CardStore interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
}

// StatsStore persists aggregate usage counters and the reading log. Counter
// updates must be single atomic upsert-with-increment statements so that
// concurrent requests for the same key never lose updates.
type StatsStore interface {
	IncrementCardStat(ctx context.Context, readerAlias string, card domain.Card) error
	UpsertReaderSummary(ctx context.Context, readerAlias string, cardsDrawn int) error
	TopCardStats(ctx context.Context, readerAlias string, limit int) ([]domain.CardStat, error)
	InsertReading(ctx context.Context, rec domain.ReadingRecord) error
	ReaderActivity(ctx context.Context, readerAlias string, since time.Time) (domain.ReaderActivity, error)
	TrendingReaders(ctx context.Context, since time.Time, limit int) ([]domain.ReaderActivity, error)
}

// Recorder accepts a completed reading for best-effort persistence. Record
// must not block the caller and must never surface failures to it.
type Recorder interface {
	Record(ev domain.ReadingEvent)
	RecordDraw(readerAlias string, cards []domain.DrawnCard)
}
