package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/globetrotter/internal/database"
	"github.com/playperu/globetrotter/internal/globetrotter"
	"github.com/playperu/globetrotter/internal/handler/health"
	"github.com/playperu/globetrotter/internal/migrations"
	"github.com/playperu/globetrotter/internal/store"
)

const (
	testAdminEmail    = "admin@globetrotter.test"
	testAdminPassword = "changeme"
	testPublicURL     = "https://play.example.com"
)

// fixedCatalog always asks about D1 and offers D1 to D4.
type fixedCatalog struct {
	empty bool
}

var fixedDestinations = []globetrotter.Destination{
	{ID: "D1", City: "Paris", Country: "France", Clues: []string{"tower"}, FunFacts: []string{"fun fact"}, Trivia: []string{"trivia item"}},
	{ID: "D2", City: "Tokyo", Country: "Japan"},
	{ID: "D3", City: "Lima", Country: "Peru"},
	{ID: "D4", City: "Rome", Country: "Italy"},
}

func (c fixedCatalog) RandomDestination(context.Context) (globetrotter.Destination, error) {
	if c.empty {
		return globetrotter.Destination{}, globetrotter.ErrContentUnavailable
	}
	return fixedDestinations[0], nil
}

func (c fixedCatalog) DestinationOptions(context.Context, string, int) ([]globetrotter.AnswerOption, error) {
	opts := make([]globetrotter.AnswerOption, len(fixedDestinations))
	for i, d := range fixedDestinations {
		opts[i] = d.Option()
	}
	return opts, nil
}

func (c fixedCatalog) CountDestinations(context.Context) (int, error) {
	if c.empty {
		return 0, nil
	}
	return len(fixedDestinations), nil
}

type testEnv struct {
	router   *chi.Mux
	store    *store.SQLiteStore
	sessions *Sessions
}

// newTestEnv serves players and admins from an in-memory database and
// rounds from catalog.
func newTestEnv(t *testing.T, catalog Catalog) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.MemoryPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(db)
	if err := st.EnsureAdmin(ctx, testAdminEmail, testAdminPassword); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)
	deps := Deps{
		Players: st,
		Catalog: catalog,
		Admin:   st,
		Checks: map[string]health.Checker{
			"sqlite":  st,
			"catalog": health.NonEmpty(catalog),
		},
		PublicURL:   testPublicURL,
		OptionCount: globetrotter.DefaultOptionCount,
		Seed:        7,
	}
	sessions := NewSessions(logger, deps.Players, deps.Catalog, deps.OptionCount, deps.Seed)
	t.Cleanup(func() { sessions.Wait() })

	return &testEnv{
		router:   newRouter(logger, deps, sessions),
		store:    st,
		sessions: sessions,
	}
}

type reqOption func(*http.Request)

func withBearer(token string) reqOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookies(cookies []*http.Cookie) reqOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...reqOption) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

// register creates a player and opens their session.
func (e *testEnv) register(t *testing.T, username string) SessionResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/players", CreatePlayerRequest{Username: username})
	expectStatus(t, w, http.StatusCreated)
	p := decode[PlayerResponse](t, w)

	w = e.do(t, http.MethodPost, "/api/sessions", BeginSessionRequest{PlayerID: p.ID})
	expectStatus(t, w, http.StatusOK)
	return decode[SessionResponse](t, w)
}
