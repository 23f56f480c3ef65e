package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/playperu/maptrivia/internal/trivia"
)

//go:embed seed/*.json
var seedFS embed.FS

// DemoDocs returns the bundled Disneyland location and question set.
func DemoDocs() (trivia.PlacesDoc, trivia.QuestionsDoc, error) {
	var (
		places    trivia.PlacesDoc
		questions trivia.QuestionsDoc
	)
	if err := decodeSeed("seed/places.json", &places); err != nil {
		return places, questions, err
	}
	if err := decodeSeed("seed/questions.json", &questions); err != nil {
		return places, questions, err
	}
	return places, questions, nil
}

func decodeSeed(path string, v any) error {
	data, err := seedFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// SeedDemo imports the bundled catalog if no locations are stored yet.
// Idempotent: does nothing once a catalog exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, s *CatalogStore) error {
	locations, _, err := s.Counts(ctx)
	if err != nil {
		return fmt.Errorf("counting catalog: %w", err)
	}
	if locations > 0 {
		return nil
	}

	places, questions, err := DemoDocs()
	if err != nil {
		return err
	}
	if err := s.Import(ctx, places, questions); err != nil {
		return fmt.Errorf("importing demo catalog: %w", err)
	}

	logger.Info("demo catalog seeded", "locations", len(places.Places), "questions", len(questions.Questions))
	return nil
}
