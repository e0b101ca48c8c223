package domain

import (
	"strconv"
	"time"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Card is a single tarot card. Reference data: seeded once, never mutated.
type Card struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url"`
	Meaning   string `json:"meaning"`
	Positive  string `json:"positive"`
	Negative  string `json:"negative"`
	Symbolism string `json:"symbolism"`
}

// Reader is an AI persona configuration, keyed by a human-chosen alias slug.
// Model and Temperature override the service defaults when set.
type Reader struct {
	Alias              string   `json:"alias"`
	Name               string   `json:"name"`
	Tagline            string   `json:"tagline"`
	Persona            string   `json:"persona"`
	Model              string   `json:"model,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
	SystemInstructions string   `json:"system_instructions,omitempty"`
}

// SpreadType identifies the positional arrangement of a draw.
type SpreadType string

const (
	SpreadSingle    SpreadType = "single"
	SpreadTwoCard   SpreadType = "two_card"
	SpreadThreeCard SpreadType = "three_card"
)

// ResolveSpread maps a raw spread string to a SpreadType.
// An empty string defaults to the three-card spread.
func ResolveSpread(raw string) (SpreadType, error) {
	switch raw {
	case "", string(SpreadThreeCard):
		return SpreadThreeCard, nil
	case string(SpreadSingle):
		return SpreadSingle, nil
	case string(SpreadTwoCard):
		return SpreadTwoCard, nil
	default:
		return "", ErrInvalidSpread
	}
}

// Count returns the number of cards the spread draws.
func (s SpreadType) Count() int {
	switch s {
	case SpreadSingle:
		return 1
	case SpreadTwoCard:
		return 2
	default:
		return 3
	}
}

// threeCardLabels are the positional labels of the three-card spread.
var threeCardLabels = [3]string{"Past", "Present", "Future"}

// PositionLabel returns the label for a 1-based position within the spread.
func (s SpreadType) PositionLabel(position int) string {
	if s == SpreadThreeCard && position >= 1 && position <= 3 {
		return threeCardLabels[position-1]
	}
	return "Card " + strconv.Itoa(position)
}

// DrawnCard is a card selected for one reading, with its 1-based position
// and positional label. Draw order is meaningful and never re-sorted.
type DrawnCard struct {
	Card
	Position int    `json:"position"`
	Label    string `json:"label"`
}

// Draw is the ephemeral set of cards selected for one request.
type Draw struct {
	Spread SpreadType  `json:"spread"`
	Cards  []DrawnCard `json:"cards"`
}

// CardStat is the aggregate draw counter for one (reader, card) pair.
type CardStat struct {
	ReaderAlias string    `json:"reader_alias"`
	CardID      int64     `json:"card_id"`
	CardName    string    `json:"card_name"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	DrawCount   int64     `json:"draw_count"`
	LastDrawn   time.Time `json:"last_drawn"`
}

// ReaderSummary holds per-reader aggregate counters. TotalReadings is
// monotonically non-decreasing; AvgCardsPerReading is a running mean.
type ReaderSummary struct {
	ReaderAlias        string    `json:"reader_alias"`
	TotalReadings      int64     `json:"total_readings"`
	UniqueUsers        int64     `json:"unique_users"`
	AvgCardsPerReading float64   `json:"avg_cards_per_reading"`
	LastActive         time.Time `json:"last_active"`
}

// ReadingRecord is one append-only log row per orchestration call.
type ReadingRecord struct {
	ID          string    `json:"id"`
	ReaderAlias string    `json:"reader_alias"`
	UserID      string    `json:"user_id"`
	Question    string    `json:"question"`
	SpreadType  string    `json:"spread_type"`
	CardNames   []string  `json:"card_names"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReadingEvent carries everything the telemetry recorder persists after a
// reading has already been returned to the caller.
type ReadingEvent struct {
	ReaderAlias string
	UserID      string
	Question    string
	Spread      SpreadType
	Cards       []DrawnCard
	Response    string
	Degraded    bool
}

// ReaderActivity is an activity window for one reader.
type ReaderActivity struct {
	ReaderAlias string `json:"reader_alias"`
	Readings24h int64  `json:"readings_24h"`
	Users24h    int64  `json:"users_24h"`
}
