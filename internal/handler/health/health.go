// Package health serves /healthz: every registered dependency is checked
// concurrently and the endpoint answers 503 when any of them fails.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

var ErrEmpty = errors.New("no entries")

// Counter is implemented by the destination catalogs.
type Counter interface {
	CountDestinations(ctx context.Context) (int, error)
}

// NonEmpty fails while c counts zero entries. Rounds cannot start from an
// empty catalog, so the service is not ready to play.
func NonEmpty(c Counter) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		n, err := c.CountDestinations(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrEmpty
		}
		return nil
	})
}

type Handler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, logger: logger, timeout: 3 * time.Second}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

// Response is the /healthz body.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		resp = Response{Status: "ok", Checks: make(map[string]string, len(h.checks))}
		g    errgroup.Group
	)
	for name, c := range h.checks {
		g.Go(func() error {
			status := "ok"
			if err := c.Check(ctx); err != nil {
				h.logger.Error("health check failed", "name", name, "error", err)
				status = "error"
			}
			mu.Lock()
			resp.Checks[name] = status
			if status != "ok" {
				resp.Status = "unavailable"
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
