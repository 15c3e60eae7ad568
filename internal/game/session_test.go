package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/playperu/globetrotter/internal/challenge"
	"github.com/playperu/globetrotter/internal/globetrotter"
	"github.com/playperu/globetrotter/internal/memstore"
)

func beginSession(t *testing.T, players globetrotter.PlayerStore, p globetrotter.DestinationProvider, playerID string) *Session {
	t.Helper()
	s, err := Begin(context.Background(), players, p, Options{Rand: seededRand(), Logger: slog.Default()}, playerID)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return s
}

func TestBeginUnknownPlayer(t *testing.T) {
	_, err := Begin(context.Background(), memstore.New(), newFixedProvider(), Options{}, "ghost")
	if !errors.Is(err, globetrotter.ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

// Register Amit, answer D1 correctly, then D3 incorrectly, then challenge
// Priya with the resulting score.
func TestSessionScenarios(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()

	amit, err := players.CreatePlayer(ctx, "Amit")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	s := beginSession(t, players, newFixedProvider(), amit.ID)

	// Scenario 1: correct answer.
	q, err := s.NextRound(ctx)
	if err != nil {
		t.Fatalf("next round: %v", err)
	}
	if len(q.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(q.Options))
	}
	out, score, err := s.Submit("D1")
	if err != nil {
		t.Fatalf("submit D1: %v", err)
	}
	if !out.IsCorrect {
		t.Error("D1: expected correct")
	}
	if score != (globetrotter.Score{Correct: 1}) {
		t.Errorf("D1: score = %+v, want {1 0}", score)
	}

	// Scenario 2: incorrect answer.
	if _, err := s.NextRound(ctx); err != nil {
		t.Fatalf("next round: %v", err)
	}
	out, score, err = s.Submit("D3")
	if err != nil {
		t.Fatalf("submit D3: %v", err)
	}
	if out.IsCorrect {
		t.Error("D3: expected incorrect")
	}
	if score != (globetrotter.Score{Correct: 1, Incorrect: 1}) {
		t.Errorf("D3: score = %+v, want {1 1}", score)
	}
	if got := globetrotter.Accuracy(score); got != 50 {
		t.Errorf("accuracy = %d, want 50", got)
	}

	if err := s.Wait(); err != nil {
		t.Fatalf("persisting scores: %v", err)
	}
	stored, _ := players.GetPlayer(ctx, amit.ID)
	if stored.Score != score {
		t.Errorf("stored score = %+v, want %+v", stored.Score, score)
	}

	// Scenario 3: challenge.
	token := s.IssueChallenge()
	resolver := challenge.NewResolver(players)
	profile, err := resolver.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := globetrotter.Profile{Username: "Amit", Score: globetrotter.Score{Correct: 1, Incorrect: 1}}
	if profile != want {
		t.Errorf("profile = %+v, want %+v", profile, want)
	}

	priya, err := resolver.Accept(ctx, "Priya")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if priya.ID == amit.ID {
		t.Error("challenged player shares the challenger's id")
	}
	if priya.Score != (globetrotter.Score{}) {
		t.Errorf("new player score = %+v, want zero", priya.Score)
	}

	again, _ := resolver.Resolve(ctx, token)
	if again != want {
		t.Errorf("challenger changed after accept: %+v", again)
	}
}

func TestSessionSecondSubmitKeepsScore(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Amit")
	s := beginSession(t, players, newFixedProvider(), p.ID)

	if _, err := s.NextRound(ctx); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if _, _, err := s.Submit("D1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, score, err := s.Submit("D1")
	if !errors.Is(err, globetrotter.ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
	if score != (globetrotter.Score{Correct: 1}) {
		t.Errorf("score = %+v, want {1 0}", score)
	}

	s.Wait()
	stored, _ := players.GetPlayer(ctx, p.ID)
	if stored.Score != (globetrotter.Score{Correct: 1}) {
		t.Errorf("stored score = %+v, want {1 0}", stored.Score)
	}
}

func TestSessionSubmitWithoutRound(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Amit")
	s := beginSession(t, players, newFixedProvider(), p.ID)

	if _, _, err := s.Submit("D1"); !errors.Is(err, globetrotter.ErrRoundState) {
		t.Fatalf("expected ErrRoundState, got %v", err)
	}
	if _, _, ok := s.Question(); ok {
		t.Error("expected no question before the first round")
	}
}

func TestSessionChallengeBeforeFirstRound(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Amit")
	s := beginSession(t, players, newFixedProvider(), p.ID)

	id, err := s.IssueChallenge().PlayerID()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id != p.ID {
		t.Errorf("token names %q, want %q", id, p.ID)
	}
}

func TestSessionPersistFailureKeepsLocalScore(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Amit")
	store := failingStore{PlayerStore: players}

	var (
		mu     sync.Mutex
		events []EventType
	)
	s, err := Begin(ctx, store, newFixedProvider(), Options{
		Rand: seededRand(),
		OnEvent: func(e Event) {
			mu.Lock()
			events = append(events, e.Type)
			mu.Unlock()
		},
	}, p.ID)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if _, err := s.NextRound(ctx); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if _, score, err := s.Submit("D1"); err != nil || score.Correct != 1 {
		t.Fatalf("submit: score %+v, err %v", score, err)
	}

	if err := s.Wait(); !errors.Is(err, errDiskFull) {
		t.Errorf("wait: expected errDiskFull, got %v", err)
	}
	if got := s.Player().Score; got != (globetrotter.Score{Correct: 1}) {
		t.Errorf("local score = %+v, want {1 0}", got)
	}

	// Play continues after the failed write.
	if _, err := s.NextRound(ctx); err != nil {
		t.Fatalf("next round after failure: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []EventType{EventRoundStarted, EventRoundResolved, EventScoreSaveFailed, EventRoundStarted}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestSessionNextRoundContentUnavailable(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Amit")
	provider := newFixedProvider()
	s := beginSession(t, players, provider, p.ID)

	if _, err := s.NextRound(ctx); err != nil {
		t.Fatalf("next round: %v", err)
	}

	provider.err = globetrotter.ErrContentUnavailable
	if _, err := s.NextRound(ctx); !errors.Is(err, globetrotter.ErrContentUnavailable) {
		t.Fatalf("expected ErrContentUnavailable, got %v", err)
	}
	if _, _, ok := s.Question(); ok {
		t.Error("failed round should not stay active")
	}
}

func TestSessionUnboundedRounds(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Amit")
	s := beginSession(t, players, newFixedProvider(), p.ID)

	for i := range 20 {
		if _, err := s.NextRound(ctx); err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		if _, _, err := s.Submit("D2"); err != nil {
			t.Fatalf("round %d submit: %v", i, err)
		}
	}
	s.Wait()

	stored, _ := players.GetPlayer(ctx, p.ID)
	if stored.Score != (globetrotter.Score{Incorrect: 20}) {
		t.Errorf("stored score = %+v, want {0 20}", stored.Score)
	}
}

func TestSessionAnswerRejectsStaleRound(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Amit")
	s := beginSession(t, players, newFixedProvider(), p.ID)

	first, err := s.NextRound(ctx)
	if err != nil {
		t.Fatalf("next round: %v", err)
	}
	second, err := s.NextRound(ctx)
	if err != nil {
		t.Fatalf("next round: %v", err)
	}

	if _, _, err := s.Answer(first.RoundID, "D1"); !errors.Is(err, globetrotter.ErrRoundState) {
		t.Fatalf("stale answer: expected ErrRoundState, got %v", err)
	}
	if _, ok := s.Outcome(); ok {
		t.Fatal("stale answer must not resolve the active round")
	}

	out, score, err := s.Answer(second.RoundID, "D1")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if out.RoundID != second.RoundID || !out.IsCorrect {
		t.Errorf("outcome = %+v", out)
	}
	if score != (globetrotter.Score{Correct: 1}) {
		t.Errorf("score = %+v", score)
	}

	got, ok := s.Outcome()
	if !ok || got.RoundID != second.RoundID {
		t.Errorf("Outcome() = %+v, %v", got, ok)
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

type requestKey struct{}

func TestSessionScoreWritesDetachedFromRequest(t *testing.T) {
	players := memstore.New()
	p, _ := players.CreatePlayer(context.Background(), "Nadia")
	store := &recordingStore{PlayerStore: players}

	reqCtx, cancel := context.WithCancel(context.WithValue(context.Background(), requestKey{}, "req-1"))
	s, err := Begin(reqCtx, store, newFixedProvider(), Options{Rand: seededRand()}, p.ID)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	cancel()

	if _, err := s.NextRound(context.Background()); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if _, _, err := s.Submit("D1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.ctxs) != 1 {
		t.Fatalf("score writes = %d, want 1", len(store.ctxs))
	}
	ctx := store.ctxs[0]
	if v := ctx.Value(requestKey{}); v != nil {
		t.Errorf("score write carries request value %v", v)
	}
	if err := ctx.Err(); err != nil {
		t.Errorf("score write ctx err = %v", err)
	}

	got, _ := players.GetPlayer(context.Background(), p.ID)
	if got.Score != (globetrotter.Score{Correct: 1}) {
		t.Errorf("stored score = %+v, want {1 0}", got.Score)
	}
}

func TestSessionLastActive(t *testing.T) {
	ctx := context.Background()
	players := memstore.New()
	p, _ := players.CreatePlayer(ctx, "Omar")
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	s, err := Begin(ctx, players, newFixedProvider(), Options{Rand: seededRand(), Now: clock.Now}, p.ID)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if got := s.LastActive(); !got.Equal(clock.Now()) {
		t.Errorf("after begin LastActive = %v, want %v", got, clock.Now())
	}

	clock.Advance(time.Minute)
	if _, err := s.NextRound(ctx); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if got := s.LastActive(); !got.Equal(clock.Now()) {
		t.Errorf("after round LastActive = %v, want %v", got, clock.Now())
	}

	clock.Advance(time.Minute)
	s.Submit("D2")
	if got := s.LastActive(); !got.Equal(clock.Now()) {
		t.Errorf("after submit LastActive = %v, want %v", got, clock.Now())
	}

	// Reading the score is not play.
	clock.Advance(time.Minute)
	s.Player()
	if got := s.LastActive(); got.Equal(clock.Now()) {
		t.Error("Player() refreshed LastActive")
	}
	s.Wait()
}
