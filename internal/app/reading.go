// Package app contains the reading orchestrator: resolve the persona, draw
// the cards, assemble the prompt, call the generator, and hand the result to
// telemetry. Generation failure is soft (fallback text, degraded flag);
// input and lookup failures are hard.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/randomtoy/raas-go/internal/domain"
	"github.com/randomtoy/raas-go/internal/ports"
	"github.com/randomtoy/raas-go/internal/prompt"
)

// analyticsWindow is the lookback used by activity queries.
const analyticsWindow = 24 * time.Hour

// ReadingRequest is the application-level input (no HTTP types).
type ReadingRequest struct {
	ReaderAlias string
	Question    string
	SpreadType  string
	UserID      string
	History     []ports.Message
}

// ReadingResponse is the application-level output. Degraded is set when the
// provider failed and Text carries the fallback message instead of a reading.
type ReadingResponse struct {
	Reader    domain.Reader
	Draw      domain.Draw
	Text      string
	Degraded  bool
	Model     string
	LatencyMS int64
}

// DrawRequest asks for cards only, with no generated text.
type DrawRequest struct {
	ReaderAlias string
	SpreadType  string
}

// Defaults hold the generation parameters used when a reader carries no
// overrides.
type Defaults struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ReadingService orchestrates draws, prompt assembly, and generation.
type ReadingService struct {
	readers  ports.ReaderStore
	cards    ports.CardStore
	stats    ports.StatsStore
	gen      ports.Generator
	recorder ports.Recorder
	rng      domain.RNG
	defaults Defaults
	logger   *slog.Logger
}

func NewReadingService(
	readers ports.ReaderStore,
	cards ports.CardStore,
	stats ports.StatsStore,
	gen ports.Generator,
	recorder ports.Recorder,
	rng domain.RNG,
	defaults Defaults,
	logger *slog.Logger,
) *ReadingService {
	return &ReadingService{
		readers:  readers,
		cards:    cards,
		stats:    stats,
		gen:      gen,
		recorder: recorder,
		rng:      rng,
		defaults: defaults,
		logger:   logger,
	}
}

// Reading performs one full orchestration. Cards are drawn on every request;
// the spread defaults to three_card.
func (s *ReadingService) Reading(ctx context.Context, req ReadingRequest) (ReadingResponse, error) {
	if strings.TrimSpace(req.ReaderAlias) == "" {
		return ReadingResponse{}, domain.ErrMissingAlias
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return ReadingResponse{}, domain.ErrEmptyQuestion
	}

	spread, err := domain.ResolveSpread(req.SpreadType)
	if err != nil {
		return ReadingResponse{}, err
	}

	reader, err := s.readers.GetReader(ctx, req.ReaderAlias)
	if err != nil {
		return ReadingResponse{}, fmt.Errorf("get reader: %w", err)
	}

	cards, err := s.cards.ListCards(ctx)
	if err != nil {
		return ReadingResponse{}, fmt.Errorf("list cards: %w", err)
	}

	draw, err := domain.GenerateDraw(cards, spread, s.rng)
	if err != nil {
		return ReadingResponse{}, fmt.Errorf("generate draw: %w", err)
	}

	msgs := prompt.Build(reader, draw, question, req.History)

	in := ports.GenerateInput{
		Model:       s.defaults.Model,
		Temperature: s.defaults.Temperature,
		MaxTokens:   s.defaults.MaxTokens,
		Messages:    msgs,
	}
	if reader.Model != "" {
		in.Model = reader.Model
	}
	if reader.Temperature != nil {
		in.Temperature = *reader.Temperature
	}

	start := time.Now()
	out, genErr := s.gen.Generate(ctx, in)
	latency := time.Since(start).Milliseconds()

	resp := ReadingResponse{
		Reader:    reader,
		Draw:      draw,
		Text:      strings.TrimSpace(out.Text),
		Model:     in.Model,
		LatencyMS: latency,
	}
	if out.Model != "" {
		resp.Model = out.Model
	}

	// A failed or empty generation is not a request failure: substitute the
	// fallback and flag the response as degraded.
	if genErr != nil || resp.Text == "" {
		if genErr != nil {
			s.logger.WarnContext(ctx, "generation failed, returning fallback",
				"reader", reader.Alias, "error", genErr)
		}
		resp.Text = domain.FallbackMessage
		resp.Degraded = true
	}

	s.recorder.Record(domain.ReadingEvent{
		ReaderAlias: reader.Alias,
		UserID:      userOrAnon(req.UserID),
		Question:    question,
		Spread:      spread,
		Cards:       draw.Cards,
		Response:    resp.Text,
		Degraded:    resp.Degraded,
	})

	return resp, nil
}

// Draw resolves a reader and draws cards without generating text. Stat
// increments for the drawn cards are recorded best-effort.
func (s *ReadingService) Draw(ctx context.Context, req DrawRequest) (domain.Draw, error) {
	if strings.TrimSpace(req.ReaderAlias) == "" {
		return domain.Draw{}, domain.ErrMissingAlias
	}
	spread, err := domain.ResolveSpread(req.SpreadType)
	if err != nil {
		return domain.Draw{}, err
	}

	reader, err := s.readers.GetReader(ctx, req.ReaderAlias)
	if err != nil {
		return domain.Draw{}, fmt.Errorf("get reader: %w", err)
	}

	cards, err := s.cards.ListCards(ctx)
	if err != nil {
		return domain.Draw{}, fmt.Errorf("list cards: %w", err)
	}

	draw, err := domain.GenerateDraw(cards, spread, s.rng)
	if err != nil {
		return domain.Draw{}, fmt.Errorf("generate draw: %w", err)
	}

	s.recorder.RecordDraw(reader.Alias, draw.Cards)

	return draw, nil
}

// ReaderProfile returns the persona together with its most-drawn cards.
func (s *ReadingService) ReaderProfile(ctx context.Context, alias string) (domain.Reader, []domain.CardStat, error) {
	if strings.TrimSpace(alias) == "" {
		return domain.Reader{}, nil, domain.ErrMissingAlias
	}

	reader, err := s.readers.GetReader(ctx, alias)
	if err != nil {
		return domain.Reader{}, nil, fmt.Errorf("get reader: %w", err)
	}

	stats, err := s.stats.TopCardStats(ctx, alias, 3)
	if err != nil {
		return domain.Reader{}, nil, fmt.Errorf("top card stats: %w", err)
	}

	return reader, stats, nil
}

// LogReading appends a reading log entry directly. Used by the write-only
// log endpoint; the row id is assigned by the store when empty.
func (s *ReadingService) LogReading(ctx context.Context, rec domain.ReadingRecord) error {
	if strings.TrimSpace(rec.ReaderAlias) == "" {
		return domain.ErrMissingAlias
	}
	rec.UserID = userOrAnon(rec.UserID)
	if err := s.stats.InsertReading(ctx, rec); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Activity returns the 24h window for one reader.
func (s *ReadingService) Activity(ctx context.Context, alias string) (domain.ReaderActivity, error) {
	if strings.TrimSpace(alias) == "" {
		return domain.ReaderActivity{}, domain.ErrMissingAlias
	}
	act, err := s.stats.ReaderActivity(ctx, alias, time.Now().Add(-analyticsWindow))
	if err != nil {
		return domain.ReaderActivity{}, fmt.Errorf("reader activity: %w", err)
	}
	act.ReaderAlias = alias
	return act, nil
}

// Trending returns the most active readers over the last 24h.
func (s *ReadingService) Trending(ctx context.Context) ([]domain.ReaderActivity, error) {
	trending, err := s.stats.TrendingReaders(ctx, time.Now().Add(-analyticsWindow), 10)
	if err != nil {
		return nil, fmt.Errorf("trending readers: %w", err)
	}
	return trending, nil
}

func userOrAnon(userID string) string {
	if strings.TrimSpace(userID) == "" {
		return "anon"
	}
	return userID
}
