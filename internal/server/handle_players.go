package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/globetrotter/internal/globetrotter"
)

type CreatePlayerRequest struct {
	Username string `json:"username"`
}

// PlayerPath binds {playerID} for the OpenAPI document.
type PlayerPath struct {
	PlayerID string `path:"playerID"`
}

func handleCreatePlayer(logger *slog.Logger, players globetrotter.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := players.CreatePlayer(r.Context(), req.Username)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}

		logger.Info("player registered", "player_id", p.ID)
		writeJSON(w, http.StatusCreated, newPlayerResponse(p))
	}
}

// handleGetPlayer returns username and score only. Player ids are not
// secrets: the caller already knows this one, and challenge tokens carry it.
func handleGetPlayer(logger *slog.Logger, players globetrotter.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.GetPlayer(r.Context(), chi.URLParam(r, "playerID"))
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, newProfileResponse(p.Profile()))
	}
}
