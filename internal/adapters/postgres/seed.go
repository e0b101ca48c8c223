package postgres

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/randomtoy/raas-go/internal/domain"
)

//go:embed data/*.json
var seedFS embed.FS

// Seed loads the embedded card deck and default reader personas into the
// database. Existing rows win: seeding never overwrites reference data.
func Seed(db *sql.DB) error {
	if err := seedCards(db); err != nil {
		return err
	}
	return seedReaders(db)
}

func seedCards(db *sql.DB) error {
	raw, err := seedFS.ReadFile("data/cards.json")
	if err != nil {
		return fmt.Errorf("read embedded cards: %w", err)
	}
	var cards []domain.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return fmt.Errorf("parse embedded cards: %w", err)
	}

	for _, c := range cards {
		_, err := db.Exec(`
			INSERT INTO cards (id, name, category, image_url, meaning, positive, negative, symbolism)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, c.ID, c.Name, c.Category, c.ImageURL, c.Meaning, c.Positive, c.Negative, c.Symbolism)
		if err != nil {
			return fmt.Errorf("seed card %q: %w", c.Name, err)
		}
	}
	return nil
}

func seedReaders(db *sql.DB) error {
	raw, err := seedFS.ReadFile("data/readers.json")
	if err != nil {
		return fmt.Errorf("read embedded readers: %w", err)
	}
	var readers []domain.Reader
	if err := json.Unmarshal(raw, &readers); err != nil {
		return fmt.Errorf("parse embedded readers: %w", err)
	}

	for _, r := range readers {
		var model, instructions sql.NullString
		if r.Model != "" {
			model = sql.NullString{String: r.Model, Valid: true}
		}
		if r.SystemInstructions != "" {
			instructions = sql.NullString{String: r.SystemInstructions, Valid: true}
		}
		var temperature sql.NullFloat64
		if r.Temperature != nil {
			temperature = sql.NullFloat64{Float64: *r.Temperature, Valid: true}
		}

		_, err := db.Exec(`
			INSERT INTO readers (alias, name, tagline, persona, model, temperature, system_instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (alias) DO NOTHING
		`, r.Alias, r.Name, r.Tagline, r.Persona, model, temperature, instructions)
		if err != nil {
			return fmt.Errorf("seed reader %q: %w", r.Alias, err)
		}
	}
	return nil
}
