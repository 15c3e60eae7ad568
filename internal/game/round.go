package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

type RoundState string

const (
	RoundLoading    RoundState = "loading"
	RoundPresenting RoundState = "presenting"
	RoundAwaiting   RoundState = "awaiting"
	RoundResolved   RoundState = "resolved"
)

// Question is what a player sees: clues and options, never the answer.
type Question struct {
	RoundID string
	Clues   []string
	Options []globetrotter.AnswerOption
}

// Outcome is the result of the single answer a round accepts.
type Outcome struct {
	RoundID       string
	DestinationID string
	SelectedID    string
	IsCorrect     bool
	Fact          string
	CorrectOption globetrotter.AnswerOption
}

// Round drives one question. It is bound to a single destination for its
// whole lifetime and accepts exactly one answer. Round is not safe for
// concurrent use; Session serializes access.
type Round struct {
	id          string
	provider    globetrotter.DestinationProvider
	rng         *rand.Rand
	optionCount int
	onResolved  func(Outcome)

	state       RoundState
	destination globetrotter.Destination
	options     []globetrotter.AnswerOption
	outcome     *Outcome
}

// NewRound returns a round in the loading state. onResolved may be nil.
func NewRound(provider globetrotter.DestinationProvider, rng *rand.Rand, optionCount int, onResolved func(Outcome)) *Round {
	if optionCount < 2 {
		optionCount = globetrotter.DefaultOptionCount
	}
	return &Round{
		id:          uuid.NewString(),
		provider:    provider,
		rng:         rng,
		optionCount: optionCount,
		onResolved:  onResolved,
		state:       RoundLoading,
	}
}

func (r *Round) ID() string        { return r.id }
func (r *Round) State() RoundState { return r.state }

// Outcome returns the resolved outcome, or false while the round is open.
func (r *Round) Outcome() (Outcome, bool) {
	if r.outcome == nil {
		return Outcome{}, false
	}
	return *r.outcome, true
}

// Start fetches the destination and its options. Failures are surfaced as
// ErrContentUnavailable and leave the round in the loading state.
func (r *Round) Start(ctx context.Context) error {
	if r.state != RoundLoading {
		return fmt.Errorf("start in state %s: %w", r.state, globetrotter.ErrRoundState)
	}

	dest, err := r.provider.RandomDestination(ctx)
	if err != nil {
		return fmt.Errorf("fetching destination: %w", contentUnavailable(err))
	}

	opts, err := r.provider.DestinationOptions(ctx, dest.ID, r.optionCount)
	if err != nil {
		return fmt.Errorf("fetching options for %s: %w", dest.ID, contentUnavailable(err))
	}
	if err := validateOptions(dest.ID, opts, r.optionCount); err != nil {
		return fmt.Errorf("options for %s: %w", dest.ID, err)
	}

	shuffled := make([]globetrotter.AnswerOption, len(opts))
	copy(shuffled, opts)
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	r.destination = dest
	r.options = shuffled
	r.state = RoundPresenting
	return nil
}

// Present returns the question and marks it as shown to the player.
func (r *Round) Present() (Question, error) {
	switch r.state {
	case RoundPresenting:
		r.state = RoundAwaiting
	case RoundAwaiting, RoundResolved:
	default:
		return Question{}, fmt.Errorf("present in state %s: %w", r.state, globetrotter.ErrRoundState)
	}

	opts := make([]globetrotter.AnswerOption, len(r.options))
	copy(opts, r.options)
	clues := make([]string, len(r.destination.Clues))
	copy(clues, r.destination.Clues)
	return Question{RoundID: r.id, Clues: clues, Options: opts}, nil
}

// Submit records the player's single answer. A second call reports
// ErrAlreadyAnswered and changes nothing.
func (r *Round) Submit(optionID string) (Outcome, error) {
	switch r.state {
	case RoundPresenting, RoundAwaiting:
	case RoundResolved:
		return Outcome{}, globetrotter.ErrAlreadyAnswered
	default:
		return Outcome{}, fmt.Errorf("submit in state %s: %w", r.state, globetrotter.ErrRoundState)
	}

	if !r.offered(optionID) {
		return Outcome{}, fmt.Errorf("option %q: %w", optionID, globetrotter.ErrUnknownOption)
	}

	isCorrect := optionID == r.destination.ID
	facts := r.destination.Trivia
	if isCorrect {
		facts = r.destination.FunFacts
	}
	if len(facts) == 0 {
		return Outcome{}, fmt.Errorf("destination %s: %w", r.destination.ID, globetrotter.ErrMissingContent)
	}

	out := Outcome{
		RoundID:       r.id,
		DestinationID: r.destination.ID,
		SelectedID:    optionID,
		IsCorrect:     isCorrect,
		Fact:          facts[r.rng.IntN(len(facts))],
		CorrectOption: r.destination.Option(),
	}
	r.outcome = &out
	r.state = RoundResolved

	if r.onResolved != nil {
		r.onResolved(out)
	}
	return out, nil
}

func (r *Round) offered(optionID string) bool {
	for _, o := range r.options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// validateOptions checks the set has the configured size, unique ids and
// exactly one option for the destination itself.
func validateOptions(destinationID string, opts []globetrotter.AnswerOption, want int) error {
	if len(opts) != want {
		return fmt.Errorf("got %d options, want %d: %w", len(opts), want, globetrotter.ErrContentUnavailable)
	}
	seen := make(map[string]struct{}, len(opts))
	correct := 0
	for _, o := range opts {
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("duplicate option %q: %w", o.ID, globetrotter.ErrContentUnavailable)
		}
		seen[o.ID] = struct{}{}
		if o.ID == destinationID {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%d correct options: %w", correct, globetrotter.ErrContentUnavailable)
	}
	return nil
}

// contentUnavailable keeps provider errors matchable as ErrContentUnavailable.
func contentUnavailable(err error) error {
	if errors.Is(err, globetrotter.ErrContentUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", globetrotter.ErrContentUnavailable, err)
}
