package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/globetrotter/internal/handler/health"
)

type eventsQuery struct {
	Token string `query:"token" required:"true"`
}

type createDestinationInput struct {
	DestinationRequest
}

type updateDestinationInput struct {
	DestinationPath
	DestinationRequest
}

type acceptChallengeInput struct {
	ChallengePath
	AcceptChallengeRequest
}

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               any
	status                             int
	errors                             []int
	contentType                        string
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Globetrotter API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Globetrotter destination guessing game.")

	ops := []operation{
		{
			method: http.MethodGet, path: "/healthz",
			summary:     "Health check",
			description: "Returns the health of the database, its migrations and the destination catalog.",
			resp:        health.Response{}, status: http.StatusOK,
			errors: []int{http.StatusServiceUnavailable},
		},
		{
			method: http.MethodPost, path: "/api/players",
			summary:     "Register player",
			description: "Creates a player with a trimmed username of 1 to 30 characters.",
			req:         CreatePlayerRequest{},
			resp:        PlayerResponse{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest},
		},
		{
			method: http.MethodGet, path: "/api/players/{playerID}",
			summary:     "Player profile",
			description: "Returns a player's username, score and accuracy.",
			req:         PlayerPath{},
			resp:        ProfileResponse{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/sessions",
			summary:     "Begin session",
			description: "Opens a game session for a registered player. Returns the bearer token used by /api/game.",
			req:         BeginSessionRequest{},
			resp:        SessionResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodGet, path: "/api/game/state",
			summary:     "Game state",
			description: "Returns the player, their score and the current round. Requires Bearer token.",
			resp:        GameStateResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized},
		},
		{
			method: http.MethodPost, path: "/api/game/round",
			summary:     "Next round",
			description: "Starts a new round, abandoning an unanswered one. Requires Bearer token.",
			resp:        QuestionResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized, http.StatusServiceUnavailable, http.StatusInternalServerError},
		},
		{
			method: http.MethodPost, path: "/api/game/answer",
			summary:     "Submit answer",
			description: "Answers the current round once. Requires Bearer token.",
			req:         AnswerRequest{},
			resp:        AnswerResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict, http.StatusInternalServerError},
		},
		{
			method: http.MethodGet, path: "/api/game/challenge",
			summary:     "Challenge a friend",
			description: "Returns a shareable challenge link and message. Requires Bearer token.",
			resp:        ChallengeResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized},
		},
		{
			method: http.MethodGet, path: "/api/game/events",
			summary:     "SSE event stream",
			description: "Server-Sent Events for round and score updates. Pass the session token as a query parameter.",
			req:         eventsQuery{},
			status:      http.StatusOK, contentType: "text/event-stream",
			errors: []int{http.StatusUnauthorized},
		},
		{
			method: http.MethodGet, path: "/api/challenges/{token}",
			summary:     "Resolve challenge",
			description: "Returns the inviting player's current username and score.",
			req:         ChallengePath{},
			resp:        ProfileResponse{}, status: http.StatusOK,
			errors: []int{http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/challenges/{token}/accept",
			summary:     "Accept challenge",
			description: "Registers the invitee as a new player and opens their session.",
			req:         acceptChallengeInput{},
			resp:        AcceptChallengeResponse{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest, http.StatusNotFound},
		},
		{
			method: http.MethodPost, path: "/api/admin/login",
			summary:     "Admin login",
			description: "Authenticate with email and password. Sets admin_session cookie.",
			req:         AdminLoginRequest{},
			resp:        AdminMeResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized},
		},
		{
			method: http.MethodPost, path: "/api/admin/logout",
			summary:     "Admin logout",
			description: "Clears admin session and cookie.",
			status:      http.StatusOK,
		},
		{
			method: http.MethodGet, path: "/api/admin/me",
			summary:     "Current admin",
			description: "Returns the currently authenticated admin. Requires admin_session cookie.",
			resp:        AdminMeResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized},
		},
		{
			method: http.MethodGet, path: "/api/admin/destinations",
			summary:     "List destinations",
			description: "Returns the whole catalog. Requires admin_session cookie.",
			resp:        []DestinationResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized},
		},
		{
			method: http.MethodPost, path: "/api/admin/destinations",
			summary:     "Create destination",
			description: "Adds a destination with clues, fun facts and trivia. Requires admin_session cookie.",
			req:         createDestinationInput{},
			resp:        DestinationResponse{}, status: http.StatusCreated,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict},
		},
		{
			method: http.MethodGet, path: "/api/admin/destinations/{id}",
			summary:     "Get destination",
			description: "Requires admin_session cookie.",
			req:         DestinationPath{},
			resp:        DestinationResponse{}, status: http.StatusOK,
			errors: []int{http.StatusUnauthorized, http.StatusNotFound},
		},
		{
			method: http.MethodPut, path: "/api/admin/destinations/{id}",
			summary:     "Update destination",
			description: "Replaces a destination. Rounds already started keep the old content. Requires admin_session cookie.",
			req:         updateDestinationInput{},
			resp:        DestinationResponse{}, status: http.StatusOK,
			errors: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict},
		},
		{
			method: http.MethodDelete, path: "/api/admin/destinations/{id}",
			summary:     "Delete destination",
			description: "Requires admin_session cookie.",
			req:         DestinationPath{},
			status:      http.StatusOK,
			errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
		},
	}

	for _, op := range ops {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		if op.contentType != "" {
			oc.AddRespStructure(nil, openapi.WithHTTPStatus(op.status), openapi.WithContentType(op.contentType))
		} else {
			oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		}
		for _, code := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(code))
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
