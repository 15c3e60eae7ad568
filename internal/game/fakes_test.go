package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func destination(id string) globetrotter.Destination {
	return globetrotter.Destination{
		ID:       id,
		City:     "City " + id,
		Country:  "Country " + id,
		Clues:    []string{"first clue for " + id, "second clue for " + id},
		FunFacts: []string{"fun fact A", "fun fact B"},
		Trivia:   []string{"trivia A", "trivia B", "trivia C"},
	}
}

// fixedProvider always serves the same destination and options.
type fixedProvider struct {
	dest    globetrotter.Destination
	options []globetrotter.AnswerOption
	err     error
	calls   int
}

func newFixedProvider() *fixedProvider {
	return &fixedProvider{
		dest: destination("D1"),
		options: []globetrotter.AnswerOption{
			destination("D1").Option(),
			destination("D2").Option(),
			destination("D3").Option(),
			destination("D4").Option(),
		},
	}
}

func (p *fixedProvider) RandomDestination(context.Context) (globetrotter.Destination, error) {
	p.calls++
	if p.err != nil {
		return globetrotter.Destination{}, p.err
	}
	return p.dest, nil
}

func (p *fixedProvider) DestinationOptions(context.Context, string, int) ([]globetrotter.AnswerOption, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.options, nil
}

// failingStore loads players from an embedded store but cannot save scores.
type failingStore struct {
	globetrotter.PlayerStore
}

var errDiskFull = errors.New("disk full")

func (failingStore) ApplyOutcome(context.Context, string, string, bool) (globetrotter.Player, error) {
	return globetrotter.Player{}, errDiskFull
}

// recordingStore remembers the context each score write ran under.
type recordingStore struct {
	globetrotter.PlayerStore

	mu   sync.Mutex
	ctxs []context.Context
}

func (r *recordingStore) ApplyOutcome(ctx context.Context, playerID, roundID string, correct bool) (globetrotter.Player, error) {
	r.mu.Lock()
	r.ctxs = append(r.ctxs, ctx)
	r.mu.Unlock()
	return r.PlayerStore.ApplyOutcome(ctx, playerID, roundID, correct)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
