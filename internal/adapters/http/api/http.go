// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/herofan/internal/domain/arena"
	"github.com/okian/herofan/internal/domain/catalog"
	"github.com/okian/herofan/internal/domain/dedupe"
	"github.com/okian/herofan/internal/domain/model"
)

// HeroDependencies reads the battle roster.
type HeroDependencies interface {
	Roster(ctx context.Context) ([]model.CompetitorProfile, error)
	Hero(ctx context.Context, id int) (model.CompetitorProfile, error)
}

// ContentDependencies reads the static site content.
type ContentDependencies interface {
	Content(ctx context.Context) (*catalog.Catalog, error)
}

// BattleDependencies resolves one-shot battles.
type BattleDependencies interface {
	Battle(ctx context.Context, challengerID, opponentID int) (string, model.BattleOutcome, error)
	RevealDelay() time.Duration
}

// NewsletterDependencies accepts signups.
type NewsletterDependencies interface {
	dedupe.Deduper

	// EnqueueSignup queues a normalized address. Returns false on backpressure.
	EnqueueSignup(ctx context.Context, email string) bool
}

// ArenaDependencies opens live arena sessions.
type ArenaDependencies interface {
	HeroDependencies
	NewArena(opts ...arena.Option) (*arena.Arena, error)
	RevealDelay() time.Duration
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	HeroDependencies
	ContentDependencies
	BattleDependencies
	NewsletterDependencies
	NewArena(opts ...arena.Option) (*arena.Arena, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	heroesHandler     *HeroesHandler
	contentHandler    *ContentHandler
	battlesHandler    *BattlesHandler
	newsletterHandler *NewsletterHandler
	arenaHandler      *ArenaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		heroesHandler:     NewHeroesHandler(deps),
		contentHandler:    NewContentHandler(deps),
		battlesHandler:    NewBattlesHandler(deps),
		newsletterHandler: NewNewsletterHandler(deps),
		arenaHandler:      NewArenaHandler(deps),
	}
}

// Register attaches all HTTP routes to serveMux. JSON resources live on a
// gorilla/mux router mounted at /api/.
func (s *Server) Register(_ context.Context, serveMux *http.ServeMux) {
	serveMux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	serveMux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	serveMux.HandleFunc("/ws/arena", MetricsMiddleware(s.arenaHandler.HandleArena, "ws_arena"))
	serveMux.Handle("/api/", s.Router())
}

// Router returns the /api router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/heroes", MetricsMiddleware(s.heroesHandler.HandleList, "heroes")).Methods(http.MethodGet)
	api.HandleFunc("/heroes/{id}", MetricsMiddleware(s.heroesHandler.HandleGet, "hero")).Methods(http.MethodGet)
	api.HandleFunc("/content", MetricsMiddleware(s.contentHandler.HandleContent, "content")).Methods(http.MethodGet)
	api.HandleFunc("/battles", MetricsMiddleware(s.battlesHandler.HandlePostBattle, "battles")).Methods(http.MethodPost)
	api.HandleFunc("/newsletter", MetricsMiddleware(s.newsletterHandler.HandlePostSignup, "newsletter")).Methods(http.MethodPost)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
