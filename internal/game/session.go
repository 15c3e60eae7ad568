package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/globetrotter/internal/challenge"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

type EventType string

const (
	EventRoundStarted    EventType = "round_started"
	EventRoundResolved   EventType = "round_resolved"
	EventScoreSaved      EventType = "score_saved"
	EventScoreSaveFailed EventType = "score_save_failed"
)

// Event describes something that happened in a session, for observers such
// as the SSE stream.
type Event struct {
	Type      EventType
	PlayerID  string
	RoundID   string
	IsCorrect bool
	Score     globetrotter.Score
}

type Options struct {
	// OptionCount is the number of answer options per round.
	OptionCount int
	// Rand picks facts and shuffles options. Required for reproducible play;
	// a randomly seeded source is used when nil.
	Rand    *rand.Rand
	Logger  *slog.Logger
	OnEvent func(Event)
	// Now stamps activity for idle eviction. Defaults to time.Now.
	Now func() time.Time
}

// Session owns one player's identity and score while they play. Rounds are
// sequenced one at a time; the session itself has no end.
type Session struct {
	players  globetrotter.PlayerStore
	provider globetrotter.DestinationProvider
	opts     Options
	logger   *slog.Logger

	// bgCtx is detached from every request: score writes outlive the
	// request that triggered them and must not pin its values.
	bgCtx   context.Context
	persist errgroup.Group

	mu         sync.Mutex
	player     globetrotter.Player
	round      *Round
	lastActive time.Time
}

// Begin loads the player and opens a session. An unknown player is terminal:
// the caller must restart registration or obtain a fresh link.
func Begin(ctx context.Context, players globetrotter.PlayerStore, provider globetrotter.DestinationProvider, opts Options, playerID string) (*Session, error) {
	p, err := players.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading player %q: %w", playerID, err)
	}

	if opts.OptionCount == 0 {
		opts.OptionCount = globetrotter.DefaultOptionCount
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		players:    players,
		provider:   provider,
		opts:       opts,
		logger:     logger.With("player_id", p.ID),
		bgCtx:      context.Background(),
		player:     p,
		lastActive: opts.Now(),
	}, nil
}

// LastActive reports when the player last touched the session.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Touch marks the session as in use without playing.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Session) touch() { s.lastActive = s.opts.Now() }

// Player returns the session's view of the player, including optimistic
// score updates that may not have reached the store yet.
func (s *Session) Player() globetrotter.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// NextRound discards the current round, resolved or not, and starts a new
// one. An abandoned open round never touches the score.
func (s *Session) NextRound(ctx context.Context) (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	r := NewRound(s.provider, s.opts.Rand, s.opts.OptionCount, s.onRoundResolved)
	s.round = nil
	if err := r.Start(ctx); err != nil {
		return Question{}, err
	}
	s.round = r

	q, err := r.Present()
	if err != nil {
		return Question{}, err
	}
	s.emit(Event{Type: EventRoundStarted, PlayerID: s.player.ID, RoundID: r.ID(), Score: s.player.Score})
	return q, nil
}

// Question returns the active round's question, if any.
func (s *Session) Question() (Question, RoundState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.round == nil {
		return Question{}, "", false
	}
	q, err := s.round.Present()
	if err != nil {
		return Question{}, "", false
	}
	return q, s.round.State(), true
}

// Submit answers the active round.
func (s *Session) Submit(optionID string) (Outcome, globetrotter.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.submit(optionID)
}

// Answer is Submit for the round the player was shown. An answer aimed at a
// round that has since been replaced fails with ErrRoundState. An empty
// roundID skips the check.
func (s *Session) Answer(roundID, optionID string) (Outcome, globetrotter.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if roundID != "" && (s.round == nil || s.round.ID() != roundID) {
		return Outcome{}, s.player.Score, fmt.Errorf("round %s is no longer active: %w", roundID, globetrotter.ErrRoundState)
	}
	return s.submit(optionID)
}

// Outcome returns the active round's outcome once it is resolved.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return Outcome{}, false
	}
	return s.round.Outcome()
}

func (s *Session) submit(optionID string) (Outcome, globetrotter.Score, error) {
	if s.round == nil {
		return Outcome{}, s.player.Score, fmt.Errorf("no active round: %w", globetrotter.ErrRoundState)
	}
	out, err := s.round.Submit(optionID)
	if err != nil {
		return Outcome{}, s.player.Score, err
	}
	return out, s.player.Score, nil
}

// IssueChallenge returns a token inviting others to beat this player.
func (s *Session) IssueChallenge() challenge.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return challenge.Issue(s.player.ID)
}

// Wait blocks until pending score writes finish and returns the first write
// failure of the session, if any. Call it once no more answers are coming.
func (s *Session) Wait() error {
	return s.persist.Wait()
}

// onRoundResolved runs from Round.Submit with s.mu held.
func (s *Session) onRoundResolved(out Outcome) {
	s.player.Score = globetrotter.RecordOutcome(s.player.Score, out.IsCorrect)
	s.emit(Event{
		Type:      EventRoundResolved,
		PlayerID:  s.player.ID,
		RoundID:   out.RoundID,
		IsCorrect: out.IsCorrect,
		Score:     s.player.Score,
	})

	playerID := s.player.ID
	s.persist.Go(func() error {
		p, err := s.players.ApplyOutcome(s.bgCtx, playerID, out.RoundID, out.IsCorrect)
		if err != nil {
			s.logger.Error("saving score failed", "round_id", out.RoundID, "error", err)
			s.emit(Event{Type: EventScoreSaveFailed, PlayerID: playerID, RoundID: out.RoundID})
			return fmt.Errorf("saving round %s: %w", out.RoundID, err)
		}
		s.logger.Debug("score saved", "round_id", out.RoundID, "correct", p.Score.Correct, "incorrect", p.Score.Incorrect)
		s.emit(Event{Type: EventScoreSaved, PlayerID: playerID, RoundID: out.RoundID, Score: p.Score})
		return nil
	})
}

func (s *Session) emit(e Event) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(e)
	}
}
