package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/globetrotter/internal/challenge"
	"github.com/playperu/globetrotter/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, sessions *Sessions) {
	resolver := challenge.NewResolver(deps.Players)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Globetrotter API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Post("/api/players", handleCreatePlayer(logger, deps.Players))
	r.Get("/api/players/{playerID}", handleGetPlayer(logger, deps.Players))
	r.Post("/api/sessions", handleBeginSession(logger, sessions))

	r.Get("/api/challenges/{token}", handleResolveChallenge(logger, resolver))
	r.Post("/api/challenges/{token}/accept", handleAcceptChallenge(logger, resolver, sessions))

	r.Route("/api/game", func(r chi.Router) {
		// EventSource cannot send headers; the stream checks ?token= itself.
		r.Get("/events", handleEvents(sessions))

		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware(sessions))
			r.Get("/state", handleGameState())
			r.Post("/round", handleNextRound(logger))
			r.Post("/answer", handleAnswer(logger))
			r.Get("/challenge", handleIssueChallenge(logger, deps.PublicURL))
		})
	})

	if deps.Admin != nil {
		admin := deps.Admin
		r.Route("/api/admin", func(r chi.Router) {
			r.Post("/login", handleAdminLogin(logger, admin))
			r.Post("/logout", handleAdminLogout(logger, admin))

			r.Group(func(r chi.Router) {
				r.Use(adminAuthMiddleware(admin))
				r.Get("/me", handleAdminMe())
				r.Get("/destinations", handleAdminListDestinations(logger, admin))
				r.Post("/destinations", handleAdminCreateDestination(logger, admin))
				r.Get("/destinations/{id}", handleAdminGetDestination(logger, admin))
				r.Put("/destinations/{id}", handleAdminUpdateDestination(logger, admin))
				r.Delete("/destinations/{id}", handleAdminDeleteDestination(logger, admin))
			})
		})
	}

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
