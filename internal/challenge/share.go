package challenge

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsAppURL = "https://wa.me/?text="

// Share is everything a client needs to pass a challenge on.
type Share struct {
	Token       Token
	Link        string
	Message     string
	WhatsAppURL string
}

// NewShare builds the challenge link under baseURL, e.g.
// https://example.com/challenge/<token>.
func NewShare(baseURL string, t Token) (Share, error) {
	link, err := url.JoinPath(strings.TrimRight(baseURL, "/"), "challenge", t.String())
	if err != nil {
		return Share{}, fmt.Errorf("building challenge link: %w", err)
	}
	msg := "Hey! I challenge you to beat my score in the Globetrotter Challenge. Click here to play: " + link
	return Share{
		Token:       t,
		Link:        link,
		Message:     msg,
		WhatsAppURL: whatsAppURL + url.QueryEscape(msg),
	}, nil
}
