// Package globetrotter defines the core domain types and collaborator
// interfaces. It imports only the standard library.
package globetrotter

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUsernameLength is counted in runes, not bytes.
const MaxUsernameLength = 30

// DefaultOptionCount is the number of answer options offered per round.
const DefaultOptionCount = 4

type Player struct {
	ID        string
	Username  string
	Score     Score
	CreatedAt time.Time
}

// Profile is the public view of a player shown to challenged friends.
type Profile struct {
	Username string
	Score    Score
}

func (p Player) Profile() Profile {
	return Profile{Username: p.Username, Score: p.Score}
}

type Destination struct {
	ID       string
	City     string
	Country  string
	Clues    []string
	FunFacts []string
	Trivia   []string
}

// Option returns the answer option that names this destination.
func (d Destination) Option() AnswerOption {
	return AnswerOption{ID: d.ID, City: d.City, Country: d.Country}
}

type AnswerOption struct {
	ID      string
	City    string
	Country string
}

// DestinationProvider supplies round content. Both methods fail with
// ErrContentUnavailable when the catalog cannot satisfy the request.
type DestinationProvider interface {
	RandomDestination(ctx context.Context) (Destination, error)
	// DestinationOptions returns count options: the destination itself plus
	// count-1 distractors drawn from other destinations.
	DestinationOptions(ctx context.Context, destinationID string, count int) ([]AnswerOption, error)
}

// PlayerStore persists players. ApplyOutcome must be safe for concurrent
// calls on the same player and must apply a given roundID at most once.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, username string) (Player, error)
	GetPlayer(ctx context.Context, id string) (Player, error)
	ApplyOutcome(ctx context.Context, playerID, roundID string, correct bool) (Player, error)
}

// NormalizeUsername trims the name and checks it is non-empty and at most
// MaxUsernameLength runes.
func NormalizeUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	return name, nil
}
