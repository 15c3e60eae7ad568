package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps game errors to statuses. Anything unrecognised is
// logged and reported as an internal error.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, globetrotter.ErrInvalidInvitation):
		writeError(w, http.StatusNotFound, "Could not find this user. The invitation might be invalid.")
	case errors.Is(err, globetrotter.ErrUnknownPlayer):
		writeError(w, http.StatusNotFound, "player not found: the invitation or session is no longer valid")
	case errors.Is(err, globetrotter.ErrInvalidUsername):
		writeError(w, http.StatusBadRequest, globetrotter.ErrInvalidUsername.Error())
	case errors.Is(err, globetrotter.ErrUnknownOption):
		writeError(w, http.StatusBadRequest, "option was not offered in this round")
	case errors.Is(err, globetrotter.ErrAlreadyAnswered):
		writeError(w, http.StatusConflict, "round already answered")
	case errors.Is(err, globetrotter.ErrRoundState):
		writeError(w, http.StatusConflict, "no round is waiting for an answer")
	case errors.Is(err, globetrotter.ErrContentUnavailable):
		logger.Warn("content unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not load a destination, please try again")
	case errors.Is(err, globetrotter.ErrMissingContent):
		logger.Error("catalog data problem", "error", err)
		writeError(w, http.StatusInternalServerError, "destination is missing its facts")
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
