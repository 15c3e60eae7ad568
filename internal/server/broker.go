package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/globetrotter/internal/game"
)

// SSEEvent is the payload published to session subscribers.
type SSEEvent struct {
	Type      string         `json:"type"`
	RoundID   string         `json:"roundId,omitempty"`
	IsCorrect bool           `json:"isCorrect,omitempty"`
	Score     *ScoreResponse `json:"score,omitempty"`
}

func newSSEEvent(e game.Event) SSEEvent {
	ev := SSEEvent{
		Type:      string(e.Type),
		RoundID:   e.RoundID,
		IsCorrect: e.IsCorrect,
	}
	if e.Type != game.EventScoreSaveFailed {
		score := newScoreResponse(e.Score)
		ev.Score = &score
	}
	return ev
}

// Broker is an in-process pub/sub for SSE events, keyed by session token.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the session.
func (b *Broker) Subscribe(token string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[token] == nil {
		b.subs[token] = make(map[chan []byte]struct{})
	}
	b.subs[token][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(token string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[token], ch)
	if len(b.subs[token]) == 0 {
		delete(b.subs, token)
	}
	b.mu.Unlock()
}

// Close ends every stream of the session. Their channels are closed, so
// readers see the end of the stream.
func (b *Broker) Close(token string) {
	b.mu.Lock()
	for ch := range b.subs[token] {
		close(ch)
	}
	delete(b.subs, token)
	b.mu.Unlock()
}

// Publish never blocks; slow subscribers miss events.
func (b *Broker) Publish(token string, e game.Event) {
	data, _ := json.Marshal(newSSEEvent(e))
	b.mu.RLock()
	for ch := range b.subs[token] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}
