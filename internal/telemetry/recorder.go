// Package telemetry persists usage counters and the reading log off the
// request path. Every write is best-effort: failures are logged and never
// reach the caller that produced the reading.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/randomtoy/raas-go/internal/domain"
	"github.com/randomtoy/raas-go/internal/ports"
)

const defaultTimeout = 5 * time.Second

// Recorder implements ports.Recorder over a StatsStore. Each Record call
// runs detached from the request context; Close drains in-flight writes.
type Recorder struct {
	store   ports.StatsStore
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRecorder(store ports.StatsStore, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:   store,
		logger:  logger,
		timeout: defaultTimeout,
	}
}

// Record persists one completed reading: per-card stat increments, the
// reader summary upsert, and the reading log row. Non-blocking.
func (r *Recorder) Record(ev domain.ReadingEvent) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.record(ctx, ev)
	}()
}

// RecordDraw persists stat increments for a card-only draw. Non-blocking.
func (r *Recorder) RecordDraw(readerAlias string, cards []domain.DrawnCard) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.incrementCards(ctx, readerAlias, cards)
	}()
}

// Close waits for in-flight writes to finish. Called on shutdown.
func (r *Recorder) Close() {
	r.wg.Wait()
}

func (r *Recorder) record(ctx context.Context, ev domain.ReadingEvent) {
	names := make([]string, len(ev.Cards))
	for i, c := range ev.Cards {
		names[i] = c.Name
	}

	// Card increments and the log row are independent; the summary runs
	// after the log insert so unique_users sees this reading's user.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.incrementCards(gctx, ev.ReaderAlias, ev.Cards)
		return nil
	})
	g.Go(func() error {
		rec := domain.ReadingRecord{
			ID:          uuid.NewString(),
			ReaderAlias: ev.ReaderAlias,
			UserID:      ev.UserID,
			Question:    ev.Question,
			SpreadType:  string(ev.Spread),
			CardNames:   names,
			Response:    ev.Response,
			CreatedAt:   time.Now().UTC(),
		}
		if err := r.store.InsertReading(gctx, rec); err != nil {
			r.logger.Warn("reading log write failed",
				"reader", ev.ReaderAlias, "error", err)
		}
		return nil
	})
	_ = g.Wait()

	if err := r.store.UpsertReaderSummary(ctx, ev.ReaderAlias, len(ev.Cards)); err != nil {
		r.logger.Warn("reader summary write failed",
			"reader", ev.ReaderAlias, "error", err)
	}
}

func (r *Recorder) incrementCards(ctx context.Context, readerAlias string, cards []domain.DrawnCard) {
	for _, c := range cards {
		if err := r.store.IncrementCardStat(ctx, readerAlias, c.Card); err != nil {
			r.logger.Warn("card stat write failed",
				"reader", readerAlias, "card", c.Name, "error", err)
		}
	}
}
