package server

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

var errNoSession = errors.New("no valid session")

// Sessions maps bearer tokens to live game sessions. A player has at most
// one session; opening it again returns the existing token so every tab
// shares one score. Sessions idle for longer than the sweep TTL are evicted;
// the player's score lives on in the store.
type Sessions struct {
	logger      *slog.Logger
	players     globetrotter.PlayerStore
	provider    globetrotter.DestinationProvider
	optionCount int
	broker      *Broker
	now         func() time.Time

	seedMu sync.Mutex
	seeds  *rand.Rand

	mu       sync.RWMutex
	byToken  map[string]*game.Session
	byPlayer map[string]string
}

func NewSessions(logger *slog.Logger, players globetrotter.PlayerStore, provider globetrotter.DestinationProvider, optionCount int, seed uint64) *Sessions {
	return &Sessions{
		logger:      logger,
		players:     players,
		provider:    provider,
		optionCount: optionCount,
		broker:      NewBroker(),
		now:         time.Now,
		seeds:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		byToken:     make(map[string]*game.Session),
		byPlayer:    make(map[string]string),
	}
}

// Open returns the player's session token, beginning a session if needed.
// The player lookup runs without holding the registry lock; when two
// requests race for the same player the first insert wins and the other
// session is dropped unused.
func (s *Sessions) Open(ctx context.Context, playerID string) (string, *game.Session, error) {
	if token, sess, ok := s.lookup(playerID); ok {
		return token, sess, nil
	}

	token := uuid.NewString()
	sess, err := game.Begin(ctx, s.players, s.provider, game.Options{
		OptionCount: s.optionCount,
		Rand:        s.nextRand(),
		Logger:      s.logger,
		OnEvent:     func(e game.Event) { s.broker.Publish(token, e) },
		Now:         s.now,
	}, playerID)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byPlayer[playerID]; ok {
		won := s.byToken[existing]
		won.Touch()
		return existing, won, nil
	}
	s.byToken[token] = sess
	s.byPlayer[playerID] = token
	return token, sess, nil
}

// lookup touches the session under the read lock so a concurrent Evict
// cannot drop it between lookup and use.
func (s *Sessions) lookup(playerID string) (string, *game.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.byPlayer[playerID]
	if !ok {
		return "", nil, false
	}
	sess := s.byToken[token]
	sess.Touch()
	return token, sess, true
}

func (s *Sessions) nextRand() *rand.Rand {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	return rand.New(rand.NewPCG(s.seeds.Uint64(), s.seeds.Uint64()))
}

func (s *Sessions) Get(token string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byToken[token]
	if !ok {
		return nil, errNoSession
	}
	return sess, nil
}

// Evict drops sessions idle for at least idle. Their event streams are
// closed and pending score writes are flushed before Evict returns.
func (s *Sessions) Evict(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	type evicted struct {
		token string
		sess  *game.Session
	}
	var gone []evicted

	s.mu.Lock()
	for playerID, token := range s.byPlayer {
		sess := s.byToken[token]
		if sess.LastActive().After(cutoff) {
			continue
		}
		delete(s.byPlayer, playerID)
		delete(s.byToken, token)
		gone = append(gone, evicted{token: token, sess: sess})
	}
	s.mu.Unlock()

	for _, e := range gone {
		s.broker.Close(e.token)
		if err := e.sess.Wait(); err != nil {
			s.logger.Warn("evicted session had unsaved scores", "player_id", e.sess.Player().ID, "error", err)
		}
	}
	if len(gone) > 0 {
		s.logger.Info("evicted idle sessions", "count", len(gone))
	}
	return len(gone)
}

// Sweep evicts idle sessions every interval until ctx is done.
func (s *Sessions) Sweep(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Evict(idle)
		}
	}
}

// sweepInterval checks a few times per TTL, but at most once a second.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}

// Wait flushes pending score writes of every session.
func (s *Sessions) Wait() error {
	s.mu.RLock()
	all := make([]*game.Session, 0, len(s.byToken))
	for _, sess := range s.byToken {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	var errs []error
	for _, sess := range all {
		if err := sess.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
