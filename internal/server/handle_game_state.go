package server

import (
	"net/http"

	"github.com/playperu/globetrotter/internal/game"
)

type RoundResponse struct {
	State    game.RoundState  `json:"state"`
	Question QuestionResponse `json:"question"`
	Outcome  *OutcomeResponse `json:"outcome,omitempty"`
}

type GameStateResponse struct {
	Player PlayerResponse `json:"player"`
	// Round is null until the first round starts.
	Round *RoundResponse `json:"round"`
}

func handleGameState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		resp := GameStateResponse{Player: newPlayerResponse(sess.Player())}
		if q, state, ok := sess.Question(); ok {
			round := &RoundResponse{State: state, Question: newQuestionResponse(q)}
			if out, ok := sess.Outcome(); ok && out.RoundID == q.RoundID {
				o := newOutcomeResponse(out)
				round.Outcome = &o
			}
			resp.Round = round
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
