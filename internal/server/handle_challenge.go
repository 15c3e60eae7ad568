package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/globetrotter/internal/challenge"
)

// ChallengeResponse is what the inviting player shares.
type ChallengeResponse struct {
	Token       string          `json:"token"`
	Link        string          `json:"link"`
	Message     string          `json:"message"`
	WhatsAppURL string          `json:"whatsappUrl"`
	Inviter     ProfileResponse `json:"inviter"`
}

// ChallengePath binds {token} for the OpenAPI document.
type ChallengePath struct {
	Token string `path:"token"`
}

type AcceptChallengeRequest struct {
	Username string `json:"username"`
}

type AcceptChallengeResponse struct {
	SessionResponse
	Inviter ProfileResponse `json:"inviter"`
}

func handleIssueChallenge(logger *slog.Logger, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		share, err := challenge.NewShare(publicURL, sess.IssueChallenge())
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, ChallengeResponse{
			Token:       share.Token.String(),
			Link:        share.Link,
			Message:     share.Message,
			WhatsAppURL: share.WhatsAppURL,
			Inviter:     newProfileResponse(sess.Player().Profile()),
		})
	}
}

// handleResolveChallenge shows the inviter's current score. It reads the
// store every time so the invitee sees live numbers.
func handleResolveChallenge(logger *slog.Logger, resolver *challenge.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := resolver.Resolve(r.Context(), challenge.Token(chi.URLParam(r, "token")))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newProfileResponse(profile))
	}
}

// handleAcceptChallenge registers the invitee as a new, independent player
// and opens their session.
func handleAcceptChallenge(logger *slog.Logger, resolver *challenge.Resolver, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AcceptChallengeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		inviter, err := resolver.Resolve(r.Context(), challenge.Token(chi.URLParam(r, "token")))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}

		p, err := resolver.Accept(r.Context(), req.Username)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}

		token, sess, err := sessions.Open(r.Context(), p.ID)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}

		logger.Info("challenge accepted", "player_id", p.ID)
		writeJSON(w, http.StatusCreated, AcceptChallengeResponse{
			SessionResponse: SessionResponse{Token: token, Player: newPlayerResponse(sess.Player())},
			Inviter:         newProfileResponse(inviter),
		})
	}
}
