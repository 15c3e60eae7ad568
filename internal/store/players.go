package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

func (s *SQLiteStore) CreatePlayer(ctx context.Context, username string) (globetrotter.Player, error) {
	name, err := globetrotter.NormalizeUsername(username)
	if err != nil {
		return globetrotter.Player{}, err
	}

	id := newID()
	createdAt := s.nowUTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (id, username, created_at)
		VALUES (?, ?, ?)
	`, id, name, createdAt)
	if err != nil {
		return globetrotter.Player{}, fmt.Errorf("inserting player: %w", err)
	}

	return globetrotter.Player{
		ID:        id,
		Username:  name,
		CreatedAt: parseTime(createdAt),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (globetrotter.Player, error) {
	var (
		p         globetrotter.Player
		createdAt string
	)
	err := row.Scan(&p.ID, &p.Username, &p.Score.Correct, &p.Score.Incorrect, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return globetrotter.Player{}, globetrotter.ErrUnknownPlayer
	}
	if err != nil {
		return globetrotter.Player{}, err
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

const selectPlayer = `SELECT id, username, correct, incorrect, created_at FROM players WHERE id = ?`

func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (globetrotter.Player, error) {
	return scanPlayer(s.db.QueryRowContext(ctx, selectPlayer, id))
}

// DeletePlayer removes a player and their applied outcomes.
func (s *SQLiteStore) DeletePlayer(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return globetrotter.ErrUnknownPlayer
	}
	return nil
}

// ApplyOutcome increments one counter unless roundID was already applied.
// The transaction's first statement is a write, so it never holds a stale read
// snapshot; a second writer waits out busy_timeout (set on every connection by
// database.Open) and then increments from the committed row.
func (s *SQLiteStore) ApplyOutcome(ctx context.Context, playerID, roundID string, correct bool) (globetrotter.Player, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return globetrotter.Player{}, err
	}
	defer tx.Rollback()

	isCorrect := 0
	if correct {
		isCorrect = 1
	}
	result, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO score_events (round_id, player_id, is_correct, applied_at)
		SELECT ?, id, ?, ? FROM players WHERE id = ?
	`, roundID, isCorrect, s.nowUTC(), playerID)
	if err != nil {
		return globetrotter.Player{}, fmt.Errorf("recording round %s: %w", roundID, err)
	}

	if n, _ := result.RowsAffected(); n == 1 {
		_, err = tx.ExecContext(ctx, `
			UPDATE players SET correct = correct + ?, incorrect = incorrect + ?
			WHERE id = ?
		`, isCorrect, 1-isCorrect, playerID)
		if err != nil {
			return globetrotter.Player{}, fmt.Errorf("updating score: %w", err)
		}
	}

	p, err := scanPlayer(tx.QueryRowContext(ctx, selectPlayer, playerID))
	if err != nil {
		return globetrotter.Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return globetrotter.Player{}, err
	}
	return p, nil
}
