package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/scoreboard"
	"github.com/jackymlr/basketball/internal/scoring"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	router   *chi.Mux
	registry *league.Registry
	manager  *scoring.Manager
	board    *scoreboard.Board
	hub      *Hub
	devMode  bool
}

// Config holds server configuration.
type Config struct {
	DevMode bool
}

// NewServer creates a new HTTP server.
func NewServer(registry *league.Registry, manager *scoring.Manager, board *scoreboard.Board, cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		registry: registry,
		manager:  manager,
		board:    board,
		hub:      NewHub(manager, board),
		devMode:  cfg.DevMode,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", s.handleHealth)

	// SSE endpoint
	r.Get("/events", s.handleSSE)

	// Dev mode routes
	if s.devMode {
		r.Get("/dev/sessions", s.handleDevSessions)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/search", s.handleSearch)
		r.Get("/scoreboard", s.handleScoreboard)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", s.handleListTeams)
			r.Post("/", s.handleCreateTeam)
			r.Get("/{teamID}", s.handleGetTeam)
			r.Put("/{teamID}", s.handleUpdateTeam)
			r.Delete("/{teamID}", s.handleDeleteTeam)
			r.Get("/{teamID}/players", s.handleTeamPlayers)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.handleListPlayers)
			r.Post("/", s.handleCreatePlayer)
			r.Get("/{playerID}", s.handleGetPlayer)
			r.Put("/{playerID}", s.handleUpdatePlayer)
			r.Delete("/{playerID}", s.handleDeletePlayer)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", s.handleListGames)
			r.Post("/", s.handleCreateGame)
			r.Get("/{gameID}", s.handleGetGame)
			r.Delete("/{gameID}", s.handleDeleteGame)
			r.Get("/{gameID}/stats", s.handleGameStats)

			// Scoring session lifecycle
			r.Post("/{gameID}/open", s.handleOpenSession)
			r.Get("/{gameID}/live", s.handleLiveGame)
			r.Post("/{gameID}/close", s.handleCloseSession)
			r.Post("/{gameID}/start", s.handleStartGame)
			r.Post("/{gameID}/finish", s.handleFinishGame)
			r.Post("/{gameID}/save", s.handleSaveGame)

			// Stat actions
			r.Post("/{gameID}/actions", s.handleAction)

			// Lineup
			r.Post("/{gameID}/lineup/in", s.handleSubIn)
			r.Post("/{gameID}/lineup/out", s.handleSubOut)
			r.Post("/{gameID}/lineup/swap", s.handleSubstitute)

			// Game clock
			r.Route("/{gameID}/clock", func(r chi.Router) {
				r.Post("/start", s.handleClockStart)
				r.Post("/pause", s.handleClockPause)
				r.Post("/reset", s.handleClockReset)
				r.Post("/next-quarter", s.handleNextQuarter)
				r.Post("/adjust", s.handleClockAdjust)
				r.Post("/length", s.handleClockLength)
			})
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// WatchSession feeds one scoring session's events into the SSE hub.
// Registered as a session-open hook at startup.
func (s *Server) WatchSession(ctx context.Context, sess *scoring.Session) {
	go s.hub.Watch(ctx, sess.GameID(), sess.Events())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	s.hub.HandleConnection(w, r, r.URL.Query().Get("game"))
}

func (s *Server) handleDevSessions(w http.ResponseWriter, r *http.Request) {
	if !s.devMode {
		respondError(w, http.StatusNotFound, "not available")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"openSessions": s.manager.OpenGameIDs(),
	})
}
