package server

import (
	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/globetrotter"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type ScoreResponse struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
	// Accuracy is the rounded percentage of correct answers.
	Accuracy int `json:"accuracy"`
}

func newScoreResponse(s globetrotter.Score) ScoreResponse {
	return ScoreResponse{
		Correct:   s.Correct,
		Incorrect: s.Incorrect,
		Total:     s.Total(),
		Accuracy:  globetrotter.Accuracy(s),
	}
}

type PlayerResponse struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Score    ScoreResponse `json:"score"`
}

func newPlayerResponse(p globetrotter.Player) PlayerResponse {
	return PlayerResponse{ID: p.ID, Username: p.Username, Score: newScoreResponse(p.Score)}
}

// ProfileResponse is the public view of a player: username and score.
type ProfileResponse struct {
	Username string        `json:"username"`
	Score    ScoreResponse `json:"score"`
}

func newProfileResponse(p globetrotter.Profile) ProfileResponse {
	return ProfileResponse{Username: p.Username, Score: newScoreResponse(p.Score)}
}

type OptionResponse struct {
	ID      string `json:"id"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func newOptionResponse(o globetrotter.AnswerOption) OptionResponse {
	return OptionResponse{ID: o.ID, City: o.City, Country: o.Country}
}

type QuestionResponse struct {
	RoundID string           `json:"roundId"`
	Clues   []string         `json:"clues"`
	Options []OptionResponse `json:"options"`
}

func newQuestionResponse(q game.Question) QuestionResponse {
	opts := make([]OptionResponse, len(q.Options))
	for i, o := range q.Options {
		opts[i] = newOptionResponse(o)
	}
	return QuestionResponse{RoundID: q.RoundID, Clues: q.Clues, Options: opts}
}

type OutcomeResponse struct {
	RoundID       string         `json:"roundId"`
	SelectedID    string         `json:"selectedId"`
	IsCorrect     bool           `json:"isCorrect"`
	Fact          string         `json:"fact"`
	CorrectOption OptionResponse `json:"correctOption"`
}

func newOutcomeResponse(o game.Outcome) OutcomeResponse {
	return OutcomeResponse{
		RoundID:       o.RoundID,
		SelectedID:    o.SelectedID,
		IsCorrect:     o.IsCorrect,
		Fact:          o.Fact,
		CorrectOption: newOptionResponse(o.CorrectOption),
	}
}

type SessionResponse struct {
	Token  string         `json:"token"`
	Player PlayerResponse `json:"player"`
}
