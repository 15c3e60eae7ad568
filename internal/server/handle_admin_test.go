package server

import (
	"log/slog"
	"net/http"
	"testing"
)

func adminLogin(t *testing.T, e *testEnv) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/admin/login", AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	expectStatus(t, w, http.StatusOK)
	return w.Result().Cookies()
}

func TestAdminLogin(t *testing.T) {
	e := newTestEnv(t, fixedCatalog{})

	tests := []struct {
		name string
		req  AdminLoginRequest
		want int
	}{
		{"good", AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword}, http.StatusOK},
		{"case insensitive email", AdminLoginRequest{Email: "ADMIN@globetrotter.test", Password: testAdminPassword}, http.StatusOK},
		{"wrong password", AdminLoginRequest{Email: testAdminEmail, Password: "nope"}, http.StatusUnauthorized},
		{"unknown email", AdminLoginRequest{Email: "who@globetrotter.test", Password: testAdminPassword}, http.StatusUnauthorized},
		{"missing fields", AdminLoginRequest{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/admin/login", tt.req)
			expectStatus(t, w, tt.want)
		})
	}
}

func TestAdminMeAndLogout(t *testing.T) {
	e := newTestEnv(t, fixedCatalog{})

	w := e.do(t, http.MethodGet, "/api/admin/me", nil)
	expectStatus(t, w, http.StatusUnauthorized)

	cookies := adminLogin(t, e)
	w = e.do(t, http.MethodGet, "/api/admin/me", nil, withCookies(cookies))
	expectStatus(t, w, http.StatusOK)
	if me := decode[AdminMeResponse](t, w); me.Email != testAdminEmail {
		t.Errorf("email = %q", me.Email)
	}

	w = e.do(t, http.MethodPost, "/api/admin/logout", nil, withCookies(cookies))
	expectStatus(t, w, http.StatusOK)

	w = e.do(t, http.MethodGet, "/api/admin/me", nil, withCookies(cookies))
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestAdminDestinations(t *testing.T) {
	e := newTestEnv(t, fixedCatalog{})
	auth := withCookies(adminLogin(t, e))

	w := e.do(t, http.MethodGet, "/api/admin/destinations", nil)
	expectStatus(t, w, http.StatusUnauthorized)

	w = e.do(t, http.MethodGet, "/api/admin/destinations", nil, auth)
	expectStatus(t, w, http.StatusOK)
	if list := decode[[]DestinationResponse](t, w); len(list) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(list))
	}

	req := DestinationRequest{
		City:     " Cusco ",
		Country:  "Peru",
		Clues:    []string{"Former capital of an empire", " "},
		FunFacts: []string{"Sits at 3,400 metres"},
		Trivia:   []string{"Gateway to Machu Picchu"},
	}
	w = e.do(t, http.MethodPost, "/api/admin/destinations", req, auth)
	expectStatus(t, w, http.StatusCreated)
	created := decode[DestinationResponse](t, w)
	if created.ID == "" || created.City != "Cusco" || len(created.Clues) != 1 {
		t.Errorf("created = %+v", created)
	}

	w = e.do(t, http.MethodPost, "/api/admin/destinations", req, auth)
	expectStatus(t, w, http.StatusConflict)

	w = e.do(t, http.MethodGet, "/api/admin/destinations/"+created.ID, nil, auth)
	expectStatus(t, w, http.StatusOK)

	req.Trivia = append(req.Trivia, "Built without mortar")
	w = e.do(t, http.MethodPut, "/api/admin/destinations/"+created.ID, req, auth)
	expectStatus(t, w, http.StatusOK)
	if got := decode[DestinationResponse](t, w); len(got.Trivia) != 2 {
		t.Errorf("updated trivia = %v", got.Trivia)
	}

	w = e.do(t, http.MethodDelete, "/api/admin/destinations/"+created.ID, nil, auth)
	expectStatus(t, w, http.StatusOK)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w = e.do(t, method, "/api/admin/destinations/"+created.ID, nil, auth)
		expectStatus(t, w, http.StatusNotFound)
	}
	w = e.do(t, http.MethodPut, "/api/admin/destinations/"+created.ID, req, auth)
	expectStatus(t, w, http.StatusNotFound)
}

func TestAdminDestinationValidation(t *testing.T) {
	e := newTestEnv(t, fixedCatalog{})
	auth := withCookies(adminLogin(t, e))

	valid := func() DestinationRequest {
		return DestinationRequest{
			City:     "Cusco",
			Country:  "Peru",
			Clues:    []string{"clue"},
			FunFacts: []string{"fact"},
			Trivia:   []string{"trivia"},
		}
	}
	tests := []struct {
		name   string
		mutate func(*DestinationRequest)
	}{
		{"no city", func(r *DestinationRequest) { r.City = " " }},
		{"no country", func(r *DestinationRequest) { r.Country = "" }},
		{"no clues", func(r *DestinationRequest) { r.Clues = nil }},
		{"blank fun facts", func(r *DestinationRequest) { r.FunFacts = []string{""} }},
		{"no trivia", func(r *DestinationRequest) { r.Trivia = []string{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			w := e.do(t, http.MethodPost, "/api/admin/destinations", req, auth)
			expectStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestAdminRoutesDisabledWithoutStore(t *testing.T) {
	e := newTestEnv(t, fixedCatalog{})
	logger := slog.New(slog.DiscardHandler)
	deps := Deps{Players: e.store, Catalog: fixedCatalog{}}
	r := newRouter(logger, deps, NewSessions(logger, deps.Players, deps.Catalog, 4, 1))
	e.router = r

	w := e.do(t, http.MethodPost, "/api/admin/login", AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	expectStatus(t, w, http.StatusNotFound)
}
