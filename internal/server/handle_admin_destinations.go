package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/globetrotter/internal/globetrotter"
	"github.com/playperu/globetrotter/internal/store"
)

type DestinationRequest struct {
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Clues    []string `json:"clues"`
	FunFacts []string `json:"funFacts"`
	Trivia   []string `json:"trivia"`
}

type DestinationResponse struct {
	ID       string   `json:"id"`
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Clues    []string `json:"clues"`
	FunFacts []string `json:"funFacts"`
	Trivia   []string `json:"trivia"`
}

// DestinationPath binds {id} for the OpenAPI document.
type DestinationPath struct {
	ID string `path:"id"`
}

func newDestinationResponse(d globetrotter.Destination) DestinationResponse {
	return DestinationResponse{
		ID:       d.ID,
		City:     d.City,
		Country:  d.Country,
		Clues:    nonNil(d.Clues),
		FunFacts: nonNil(d.FunFacts),
		Trivia:   nonNil(d.Trivia),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// validate normalises the request. A destination needs clues to be asked
// and at least one fun fact and one trivia item to be answered either way.
func (req *DestinationRequest) validate() string {
	req.City = strings.TrimSpace(req.City)
	req.Country = strings.TrimSpace(req.Country)
	req.Clues = trimAll(req.Clues)
	req.FunFacts = trimAll(req.FunFacts)
	req.Trivia = trimAll(req.Trivia)
	switch {
	case req.City == "":
		return "city is required"
	case req.Country == "":
		return "country is required"
	case len(req.Clues) == 0:
		return "at least one clue is required"
	case len(req.FunFacts) == 0:
		return "at least one fun fact is required"
	case len(req.Trivia) == 0:
		return "at least one trivia item is required"
	}
	return ""
}

func (req DestinationRequest) destination(id string) globetrotter.Destination {
	return globetrotter.Destination{
		ID:       id,
		City:     req.City,
		Country:  req.Country,
		Clues:    req.Clues,
		FunFacts: req.FunFacts,
		Trivia:   req.Trivia,
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

func handleAdminListDestinations(logger *slog.Logger, admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := admin.ListDestinations(r.Context())
		if err != nil {
			logger.Error("listing destinations failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]DestinationResponse, len(ds))
		for i, d := range ds {
			out[i] = newDestinationResponse(d)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleAdminCreateDestination(logger *slog.Logger, admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DestinationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		d, err := admin.CreateDestination(r.Context(), req.destination(""))
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "destination already exists")
			return
		}
		if err != nil {
			logger.Error("creating destination failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("destination created", "destination_id", d.ID, "admin_id", adminFrom(r).ID)
		writeJSON(w, http.StatusCreated, newDestinationResponse(d))
	}
}

func handleAdminGetDestination(logger *slog.Logger, admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := admin.GetDestination(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "destination not found")
			return
		}
		if err != nil {
			logger.Error("loading destination failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, newDestinationResponse(d))
	}
}

// Rounds already in progress keep the destination they loaded; edits apply
// to rounds started afterwards.
func handleAdminUpdateDestination(logger *slog.Logger, admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DestinationRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		d, err := admin.UpdateDestination(r.Context(), req.destination(chi.URLParam(r, "id")))
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "destination not found")
			return
		case isUniqueViolation(err):
			writeError(w, http.StatusConflict, "destination already exists")
			return
		case err != nil:
			logger.Error("updating destination failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, newDestinationResponse(d))
	}
}

func handleAdminDeleteDestination(logger *slog.Logger, admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := admin.DeleteDestination(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "destination not found")
			return
		}
		if err != nil {
			logger.Error("deleting destination failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
