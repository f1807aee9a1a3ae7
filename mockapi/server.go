// Package mockapi is an in-memory stand-in for the SickSense backend, used for
// local development and integration tests.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"sicksense-cli/locator"
	"sicksense-cli/model"
)

const defaultTokenTTL = 8 * time.Hour

type Options struct {
	Secret   string
	TokenTTL time.Duration
	Clock    clockwork.Clock
	Logger   *slog.Logger
}

// Server exposes the SickSense REST API under /api.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	clock      clockwork.Clock
	secret     []byte
	tokenTTL   time.Duration

	catalog  *locator.Catalog
	seats    map[string]model.ReportLocation
	symptoms map[string]model.Symptom

	mu        sync.Mutex
	users     map[string]model.User
	passwords map[string]string
	reports   []model.HealthReport
	actions   []model.SuggestedAction
}

func NewServer(addr string, opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}

	s := &Server{
		logger:    opts.Logger,
		clock:     opts.Clock,
		secret:    []byte(opts.Secret),
		tokenTTL:  opts.TokenTTL,
		catalog:   locator.NewCatalog(Locations()),
		seats:     make(map[string]model.ReportLocation),
		symptoms:  make(map[string]model.Symptom),
		users:     make(map[string]model.User),
		passwords: make(map[string]string),
		actions:   suggestedActions(opts.Clock.Now()),
	}
	for _, b := range s.catalog.Buildings() {
		for _, r := range b.Rooms {
			for _, seat := range r.Seats {
				s.seats[seat.ID] = model.ReportLocation{
					Building:   b.Building,
					Room:       r.Name,
					SeatNumber: seat.Number,
					SeatID:     seat.ID,
				}
			}
		}
	}
	for _, sym := range Symptoms() {
		s.symptoms[sym.ID] = sym
	}
	for _, u := range fixtureUsers() {
		s.users[u.Email] = u
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/signup", s.handleSignup)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/resources/locations", s.handleLocations)
			r.Get("/resources/symptoms", s.handleSymptoms)
			r.Post("/reports", s.handleCreateReport)
			r.Get("/reports/me", s.handleMyReports)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(model.RoleAdmin))
				r.Get("/reports", s.handleAllReports)
				r.Patch("/reports/{id}/status", s.handleReportStatus)
				r.Get("/dashboard", s.handleDashboard)
				r.Patch("/dashboard/actions/{id}/status", s.handleActionStatus)
			})
		})
	})
	return r
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("mock api starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.clock.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", s.clock.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

// writeError uses the backend's {"message": ...} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.APIMessage{Message: message})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
