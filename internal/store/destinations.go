package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

// destinationDoc is the JSONB payload; city and country live in columns so
// options can be listed without decoding documents.
type destinationDoc struct {
	Clues    []string `json:"clues"`
	FunFacts []string `json:"fun_fact"`
	Trivia   []string `json:"trivia"`
}

func scanDestination(row rowScanner) (globetrotter.Destination, error) {
	var (
		d    globetrotter.Destination
		data string
	)
	err := row.Scan(&d.ID, &d.City, &d.Country, &data)
	if err != nil {
		return d, err
	}
	var doc destinationDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return d, fmt.Errorf("decoding destination %s: %w", d.ID, err)
	}
	d.Clues, d.FunFacts, d.Trivia = doc.Clues, doc.FunFacts, doc.Trivia
	return d, nil
}

func (s *SQLiteStore) RandomDestination(ctx context.Context) (globetrotter.Destination, error) {
	d, err := scanDestination(s.db.QueryRowContext(ctx, `
		SELECT id, city, country, json(data) FROM destinations
		ORDER BY random() LIMIT 1
	`))
	if errors.Is(err, sql.ErrNoRows) {
		return d, fmt.Errorf("empty catalog: %w", globetrotter.ErrContentUnavailable)
	}
	return d, err
}

// DestinationOptions returns the destination's own option first, followed
// by count-1 distractors picked at random. Callers shuffle.
func (s *SQLiteStore) DestinationOptions(ctx context.Context, destinationID string, count int) ([]globetrotter.AnswerOption, error) {
	var correct globetrotter.AnswerOption
	err := s.db.QueryRowContext(ctx, `
		SELECT id, city, country FROM destinations WHERE id = ?
	`, destinationID).Scan(&correct.ID, &correct.City, &correct.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("destination %q: %w", destinationID, globetrotter.ErrContentUnavailable)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, country FROM destinations
		WHERE id != ?
		ORDER BY random()
		LIMIT ?
	`, destinationID, count-1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []globetrotter.AnswerOption{correct}
	for rows.Next() {
		var o globetrotter.AnswerOption
		if err := rows.Scan(&o.ID, &o.City, &o.Country); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(options) < count {
		return nil, fmt.Errorf("need %d distractors, have %d: %w", count-1, len(options)-1, globetrotter.ErrContentUnavailable)
	}
	return options, nil
}

func (s *SQLiteStore) CountDestinations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) ListDestinations(ctx context.Context) ([]globetrotter.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, city, country, json(data) FROM destinations
		ORDER BY country, city
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []globetrotter.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetDestination(ctx context.Context, id string) (globetrotter.Destination, error) {
	d, err := scanDestination(s.db.QueryRowContext(ctx, `
		SELECT id, city, country, json(data) FROM destinations WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// CreateDestination stores d under a new id and returns it.
func (s *SQLiteStore) CreateDestination(ctx context.Context, d globetrotter.Destination) (globetrotter.Destination, error) {
	d.ID = newID()
	data, err := json.Marshal(destinationDoc{Clues: d.Clues, FunFacts: d.FunFacts, Trivia: d.Trivia})
	if err != nil {
		return d, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO destinations (id, city, country, data, created_at)
		VALUES (?, ?, ?, jsonb(?), ?)
	`, d.ID, d.City, d.Country, string(data), s.nowUTC())
	if err != nil {
		return d, fmt.Errorf("inserting destination: %w", err)
	}
	return d, nil
}

func (s *SQLiteStore) UpdateDestination(ctx context.Context, d globetrotter.Destination) (globetrotter.Destination, error) {
	data, err := json.Marshal(destinationDoc{Clues: d.Clues, FunFacts: d.FunFacts, Trivia: d.Trivia})
	if err != nil {
		return d, err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE destinations SET city = ?, country = ?, data = jsonb(?)
		WHERE id = ?
	`, d.City, d.Country, string(data), d.ID)
	if err != nil {
		return d, err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return d, ErrNotFound
	}
	return d, nil
}

func (s *SQLiteStore) DeleteDestination(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
