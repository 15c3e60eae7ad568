package server

import (
	"log/slog"
	"net/http"
	"strings"
)

type AnswerRequest struct {
	// RoundID is optional; when set, answers for a replaced round are rejected.
	RoundID  string `json:"roundId,omitempty"`
	OptionID string `json:"optionId"`
}

type AnswerResponse struct {
	Outcome OutcomeResponse `json:"outcome"`
	Score   ScoreResponse   `json:"score"`
}

func handleAnswer(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.OptionID = strings.TrimSpace(req.OptionID)
		if req.OptionID == "" {
			writeError(w, http.StatusBadRequest, "optionId is required")
			return
		}

		out, score, err := sessionFrom(r).Answer(req.RoundID, req.OptionID)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, AnswerResponse{
			Outcome: newOutcomeResponse(out),
			Score:   newScoreResponse(score),
		})
	}
}
