// Package challenge implements challenge invitations: the token that names a
// challenger, the resolver that shows their score to a friend, and the share
// link built around it.
package challenge

import (
	"encoding/base64"
	"fmt"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

// Token is a shareable reference to a challenger. It carries only the
// player id, is safe to use as a URL path segment, and never expires.
type Token string

// Issue encodes playerID. Anyone who knows the id gets the same token.
func Issue(playerID string) Token {
	return Token(base64.RawURLEncoding.EncodeToString([]byte(playerID)))
}

// PlayerID decodes the token. Malformed tokens are ErrInvalidInvitation.
func (t Token) PlayerID() (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(string(t))
	if err != nil || len(b) == 0 {
		return "", fmt.Errorf("decoding token: %w", globetrotter.ErrInvalidInvitation)
	}
	return string(b), nil
}

func (t Token) String() string { return string(t) }
