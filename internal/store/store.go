// Package store keeps the trivia catalog in SQLite and serves it to the
// loader in the same document shapes the JSON files use.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/maptrivia/internal/trivia"
)

var ErrNotFound = errors.New("not found")

type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Places returns the stored locations in catalog order. ErrNotFound means
// the table is empty.
func (s *CatalogStore) Places(ctx context.Context) (trivia.PlacesDoc, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, lat, lng FROM locations ORDER BY position
	`)
	if err != nil {
		return trivia.PlacesDoc{}, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var doc trivia.PlacesDoc
	for rows.Next() {
		var p trivia.Place
		if err := rows.Scan(&p.Name, &p.GeoLat, &p.GeoLong); err != nil {
			return trivia.PlacesDoc{}, fmt.Errorf("scanning location: %w", err)
		}
		doc.Places = append(doc.Places, p)
	}
	if err := rows.Err(); err != nil {
		return trivia.PlacesDoc{}, err
	}
	if len(doc.Places) == 0 {
		return doc, fmt.Errorf("locations: %w", ErrNotFound)
	}
	return doc, nil
}

// Questions returns the stored questions in catalog order. ErrNotFound
// means the table is empty.
func (s *CatalogStore) Questions(ctx context.Context) (trivia.QuestionsDoc, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, answers FROM questions ORDER BY position
	`)
	if err != nil {
		return trivia.QuestionsDoc{}, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var doc trivia.QuestionsDoc
	for rows.Next() {
		var (
			q       trivia.QuestionEntry
			answers string
		)
		if err := rows.Scan(&q.Question, &answers); err != nil {
			return trivia.QuestionsDoc{}, fmt.Errorf("scanning question: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &q.Answers); err != nil {
			return trivia.QuestionsDoc{}, fmt.Errorf("decoding answers of %q: %w", q.Question, err)
		}
		doc.Questions = append(doc.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return trivia.QuestionsDoc{}, err
	}
	if len(doc.Questions) == 0 {
		return doc, fmt.Errorf("questions: %w", ErrNotFound)
	}
	return doc, nil
}

// Counts reports how many locations and questions are stored.
func (s *CatalogStore) Counts(ctx context.Context) (locations, questions int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM locations), (SELECT COUNT(*) FROM questions)
	`).Scan(&locations, &questions)
	return locations, questions, err
}

// Import replaces the whole catalog. The documents are validated first so a
// bad import never leaves a half-written catalog behind.
func (s *CatalogStore) Import(ctx context.Context, places trivia.PlacesDoc, questions trivia.QuestionsDoc) error {
	if _, err := trivia.NewCatalog(places, questions); err != nil {
		return fmt.Errorf("validating catalog: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("clearing questions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("clearing locations: %w", err)
	}

	for i, p := range places.Places {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO locations (position, name, lat, lng) VALUES (?, ?, ?, ?)
		`, i, p.Name, p.GeoLat, p.GeoLong); err != nil {
			return fmt.Errorf("inserting location %q: %w", p.Name, err)
		}
	}
	for i, q := range questions.Questions {
		answers, err := json.Marshal(q.Answers)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (position, text, answers) VALUES (?, ?, ?)
		`, i, q.Question, string(answers)); err != nil {
			return fmt.Errorf("inserting question %d: %w", i, err)
		}
	}

	return tx.Commit()
}
