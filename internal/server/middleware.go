package server

import (
	"context"
	"net/http"

	"github.com/playperu/globetrotter/internal/game"
	"github.com/playperu/globetrotter/internal/store"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyAdmin
)

func sessionMiddleware(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}

			sess, err := sessions.Get(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminAuthMiddleware(admin AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, err := adminFromRequest(r, admin)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin, a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) *game.Session {
	return r.Context().Value(ctxKeySession).(*game.Session)
}

func adminFrom(r *http.Request) store.Admin {
	return r.Context().Value(ctxKeyAdmin).(store.Admin)
}
