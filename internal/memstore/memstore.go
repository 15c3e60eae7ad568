// Package memstore keeps players and destinations in process memory. State
// is lost on restart; it backs STORE=memory and tests.
package memstore

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

// Store implements globetrotter.PlayerStore and globetrotter.DestinationProvider.
type Store struct {
	mu           sync.RWMutex
	players      map[string]globetrotter.Player
	applied      map[string]struct{}
	destinations []globetrotter.Destination
	now          func() time.Time
}

func New(destinations ...globetrotter.Destination) *Store {
	return &Store{
		players:      make(map[string]globetrotter.Player),
		applied:      make(map[string]struct{}),
		destinations: destinations,
		now:          time.Now,
	}
}

func (s *Store) CreatePlayer(_ context.Context, username string) (globetrotter.Player, error) {
	name, err := globetrotter.NormalizeUsername(username)
	if err != nil {
		return globetrotter.Player{}, err
	}
	p := globetrotter.Player{
		ID:        uuid.NewString(),
		Username:  name,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.players[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

func (s *Store) GetPlayer(_ context.Context, id string) (globetrotter.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return globetrotter.Player{}, globetrotter.ErrUnknownPlayer
	}
	return p, nil
}

// DeletePlayer removes a player. Sessions and invitations naming the player
// stop resolving.
func (s *Store) DeletePlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return globetrotter.ErrUnknownPlayer
	}
	delete(s.players, id)
	return nil
}

func (s *Store) ApplyOutcome(_ context.Context, playerID, roundID string, correct bool) (globetrotter.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return globetrotter.Player{}, globetrotter.ErrUnknownPlayer
	}
	if _, done := s.applied[roundID]; done {
		return p, nil
	}
	s.applied[roundID] = struct{}{}
	p.Score = globetrotter.RecordOutcome(p.Score, correct)
	s.players[playerID] = p
	return p, nil
}

// AddDestination appends d to the catalog, assigning an id when d has none.
func (s *Store) AddDestination(d globetrotter.Destination) globetrotter.Destination {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.destinations = append(s.destinations, d)
	s.mu.Unlock()
	return d
}

func (s *Store) CountDestinations(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.destinations), nil
}

func (s *Store) RandomDestination(_ context.Context) (globetrotter.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.destinations) == 0 {
		return globetrotter.Destination{}, fmt.Errorf("empty catalog: %w", globetrotter.ErrContentUnavailable)
	}
	return s.destinations[rand.IntN(len(s.destinations))], nil
}

func (s *Store) DestinationOptions(_ context.Context, destinationID string, count int) ([]globetrotter.AnswerOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		correct     *globetrotter.Destination
		distractors []globetrotter.AnswerOption
	)
	for i := range s.destinations {
		d := s.destinations[i]
		if d.ID == destinationID {
			correct = &s.destinations[i]
			continue
		}
		distractors = append(distractors, d.Option())
	}
	if correct == nil {
		return nil, fmt.Errorf("destination %q: %w", destinationID, globetrotter.ErrContentUnavailable)
	}
	if len(distractors) < count-1 {
		return nil, fmt.Errorf("need %d distractors, have %d: %w", count-1, len(distractors), globetrotter.ErrContentUnavailable)
	}

	rand.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	return append([]globetrotter.AnswerOption{correct.Option()}, distractors[:count-1]...), nil
}
