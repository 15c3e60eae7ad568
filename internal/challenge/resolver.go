package challenge

import (
	"context"
	"errors"
	"fmt"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

// Resolver turns a followed challenge link into the challenger's public
// profile and registers the challenged player.
type Resolver struct {
	players globetrotter.PlayerStore
}

func NewResolver(players globetrotter.PlayerStore) *Resolver {
	return &Resolver{players: players}
}

// Resolve returns the challenger's current profile. Resolution is live: a
// challenger who kept playing shows their latest score.
func (r *Resolver) Resolve(ctx context.Context, t Token) (globetrotter.Profile, error) {
	id, err := t.PlayerID()
	if err != nil {
		return globetrotter.Profile{}, err
	}

	p, err := r.players.GetPlayer(ctx, id)
	if errors.Is(err, globetrotter.ErrUnknownPlayer) {
		return globetrotter.Profile{}, fmt.Errorf("challenger %q: %w", id, globetrotter.ErrInvalidInvitation)
	}
	if err != nil {
		return globetrotter.Profile{}, fmt.Errorf("loading challenger %q: %w", id, err)
	}
	return p.Profile(), nil
}

// Accept registers a new player with its own identity. The new player is
// not linked to the challenger in any way.
func (r *Resolver) Accept(ctx context.Context, username string) (globetrotter.Player, error) {
	p, err := r.players.CreatePlayer(ctx, username)
	if err != nil {
		return globetrotter.Player{}, fmt.Errorf("registering challenged player: %w", err)
	}
	return p, nil
}
