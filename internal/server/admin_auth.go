package server

import (
	"context"
	"net/http"

	"github.com/playperu/globetrotter/internal/globetrotter"
	"github.com/playperu/globetrotter/internal/store"
)

// AdminStore manages admin accounts and the destination catalog.
// *store.SQLiteStore implements it.
type AdminStore interface {
	Authenticate(ctx context.Context, email, password string) (store.Admin, error)
	CreateAdminSession(ctx context.Context, adminID string) (string, error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (store.Admin, error)

	ListDestinations(ctx context.Context) ([]globetrotter.Destination, error)
	GetDestination(ctx context.Context, id string) (globetrotter.Destination, error)
	CreateDestination(ctx context.Context, d globetrotter.Destination) (globetrotter.Destination, error)
	UpdateDestination(ctx context.Context, d globetrotter.Destination) (globetrotter.Destination, error)
	DeleteDestination(ctx context.Context, id string) error
}

const adminCookieName = "admin_session"

// adminFromRequest reads the admin_session cookie and looks up the admin session.
func adminFromRequest(r *http.Request, admin AdminStore) (store.Admin, error) {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return store.Admin{}, store.ErrNoAdminSession
	}
	return admin.AdminFromSession(r.Context(), cookie.Value)
}
