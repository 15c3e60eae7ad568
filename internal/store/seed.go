package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

//go:embed seeddata/destinations.json
var seedDestinations []byte

// Catalog decodes the bundled starter destinations.
func Catalog() ([]globetrotter.Destination, error) {
	var docs []struct {
		City    string `json:"city"`
		Country string `json:"country"`
		destinationDoc
	}
	if err := json.Unmarshal(seedDestinations, &docs); err != nil {
		return nil, fmt.Errorf("decoding seed catalog: %w", err)
	}
	out := make([]globetrotter.Destination, 0, len(docs))
	for _, d := range docs {
		out = append(out, globetrotter.Destination{
			City:     d.City,
			Country:  d.Country,
			Clues:    d.Clues,
			FunFacts: d.FunFacts,
			Trivia:   d.Trivia,
		})
	}
	return out, nil
}

// SeedCatalog loads the bundled destinations into an empty catalog. It
// returns the number of destinations inserted.
func (s *SQLiteStore) SeedCatalog(ctx context.Context) (int, error) {
	n, err := s.CountDestinations(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	catalog, err := Catalog()
	if err != nil {
		return 0, err
	}
	for _, d := range catalog {
		if _, err := s.CreateDestination(ctx, d); err != nil {
			return 0, fmt.Errorf("seeding %s: %w", d.City, err)
		}
	}
	return len(catalog), nil
}
