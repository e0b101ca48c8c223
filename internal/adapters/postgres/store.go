// Package postgres implements the reader, card, and stats stores over a
// managed Postgres database. Counter updates are single-statement atomic
// upserts so concurrent requests never lose increments.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/randomtoy/raas-go/internal/domain"
)

// Store implements ports.ReaderStore, ports.CardStore, and ports.StatsStore.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetReader(ctx context.Context, alias string) (domain.Reader, error) {
	var (
		r            domain.Reader
		model        sql.NullString
		temperature  sql.NullFloat64
		instructions sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT alias, name, tagline, persona, model, temperature, system_instructions
		FROM readers WHERE alias = $1
	`, alias).Scan(&r.Alias, &r.Name, &r.Tagline, &r.Persona, &model, &temperature, &instructions)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reader{}, domain.ErrReaderNotFound
	}
	if err != nil {
		return domain.Reader{}, fmt.Errorf("query reader: %w", err)
	}

	if model.Valid {
		r.Model = model.String
	}
	if temperature.Valid {
		t := temperature.Float64
		r.Temperature = &t
	}
	if instructions.Valid {
		r.SystemInstructions = instructions.String
	}
	return r, nil
}

func (s *Store) ListCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, image_url, meaning, positive, negative, symbolism
		FROM cards ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.ImageURL,
			&c.Meaning, &c.Positive, &c.Negative, &c.Symbolism); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

// IncrementCardStat bumps draw_count for one (reader, card) pair with a
// single upsert, relying on the database to serialize concurrent increments.
func (s *Store) IncrementCardStat(ctx context.Context, readerAlias string, card domain.Card) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_stats (reader_alias, card_id, card_name, category, image_url, draw_count, last_drawn)
		VALUES ($1, $2, $3, $4, $5, 1, NOW())
		ON CONFLICT (reader_alias, card_id) DO UPDATE SET
			draw_count = card_stats.draw_count + 1,
			last_drawn = NOW()
	`, readerAlias, card.ID, card.Name, card.Category, card.ImageURL)
	if err != nil {
		return fmt.Errorf("upsert card stat: %w", err)
	}
	return nil
}

// UpsertReaderSummary advances the per-reader counters: total_readings
// increments, avg_cards_per_reading folds in this reading as a running mean,
// and unique_users is recomputed from the reading log in the same statement.
func (s *Store) UpsertReaderSummary(ctx context.Context, readerAlias string, cardsDrawn int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reader_summary AS rs (reader_alias, total_readings, unique_users, avg_cards_per_reading, last_active)
		VALUES ($1, 1,
			GREATEST(1, (SELECT COUNT(DISTINCT user_id) FROM readings WHERE reader_alias = $1)),
			$2, NOW())
		ON CONFLICT (reader_alias) DO UPDATE SET
			total_readings = rs.total_readings + 1,
			avg_cards_per_reading = (rs.avg_cards_per_reading * rs.total_readings + $2) / (rs.total_readings + 1),
			unique_users = GREATEST(rs.unique_users,
				(SELECT COUNT(DISTINCT user_id) FROM readings WHERE reader_alias = $1)),
			last_active = NOW()
	`, readerAlias, float64(cardsDrawn))
	if err != nil {
		return fmt.Errorf("upsert reader summary: %w", err)
	}
	return nil
}

func (s *Store) TopCardStats(ctx context.Context, readerAlias string, limit int) ([]domain.CardStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reader_alias, card_id, card_name, category, image_url, draw_count, last_drawn
		FROM card_stats
		WHERE reader_alias = $1
		ORDER BY draw_count DESC
		LIMIT $2
	`, readerAlias, limit)
	if err != nil {
		return nil, fmt.Errorf("query card stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.CardStat
	for rows.Next() {
		var st domain.CardStat
		if err := rows.Scan(&st.ReaderAlias, &st.CardID, &st.CardName,
			&st.Category, &st.ImageURL, &st.DrawCount, &st.LastDrawn); err != nil {
			return nil, fmt.Errorf("scan card stat: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card stats: %w", err)
	}
	return stats, nil
}

func (s *Store) InsertReading(ctx context.Context, rec domain.ReadingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO readings (id, reader_alias, user_id, question, spread_type, card_names, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.ReaderAlias, rec.UserID, rec.Question, rec.SpreadType,
		pq.Array(rec.CardNames), rec.Response, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func (s *Store) ReaderActivity(ctx context.Context, readerAlias string, since time.Time) (domain.ReaderActivity, error) {
	var act domain.ReaderActivity
	act.ReaderAlias = readerAlias
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id)
		FROM readings
		WHERE reader_alias = $1 AND created_at >= $2
	`, readerAlias, since).Scan(&act.Readings24h, &act.Users24h)
	if err != nil {
		return domain.ReaderActivity{}, fmt.Errorf("query reader activity: %w", err)
	}
	return act, nil
}

func (s *Store) TrendingReaders(ctx context.Context, since time.Time, limit int) ([]domain.ReaderActivity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT reader_alias, COUNT(*) AS readings, COUNT(DISTINCT user_id)
		FROM readings
		WHERE created_at >= $1
		GROUP BY reader_alias
		ORDER BY readings DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query trending readers: %w", err)
	}
	defer rows.Close()

	var trending []domain.ReaderActivity
	for rows.Next() {
		var act domain.ReaderActivity
		if err := rows.Scan(&act.ReaderAlias, &act.Readings24h, &act.Users24h); err != nil {
			return nil, fmt.Errorf("scan trending reader: %w", err)
		}
		trending = append(trending, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trending readers: %w", err)
	}
	return trending, nil
}
