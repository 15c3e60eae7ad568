package server

import (
	"log/slog"
	"net/http"
)

// handleNextRound abandons any open round and starts a new one.
func handleNextRound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := sessionFrom(r).NextRound(r.Context())
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newQuestionResponse(q))
	}
}
