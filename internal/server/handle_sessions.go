package server

import (
	"log/slog"
	"net/http"
	"strings"
)

type BeginSessionRequest struct {
	PlayerID string `json:"playerId"`
}

func handleBeginSession(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BeginSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.PlayerID = strings.TrimSpace(req.PlayerID)
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}

		token, sess, err := sessions.Open(r.Context(), req.PlayerID)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, SessionResponse{
			Token:  token,
			Player: newPlayerResponse(sess.Player()),
		})
	}
}
