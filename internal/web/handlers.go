package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/scoreboard"
)

type teamRequest struct {
	Name        string `json:"name"`
	LogoURL     string `json:"logoUrl"`
	Description string `json:"description"`
}

type playerRequest struct {
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
	TeamID   string `json:"teamId"`
}

type gameRequest struct {
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	Date       string `json:"date"`
	Location   string `json:"location"`
}

// gameView is a game record with the live scoreboard entry layered on
// top when a scoring session is open for it.
type gameView struct {
	league.Game
	Live *scoreboard.Entry `json:"live,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.StateSnapshot())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter q required")
		return
	}
	respondJSON(w, http.StatusOK, s.registry.Search(query))
}

func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": s.board.Entries(),
	})
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.Teams())
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name required")
		return
	}
	team := s.registry.CreateTeam(r.Context(), req.Name, req.LogoURL, req.Description)
	respondJSON(w, http.StatusCreated, team)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.registry.Team(chi.URLParam(r, "teamID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	team, err := s.registry.UpdateTeam(r.Context(), chi.URLParam(r, "teamID"), req.Name, req.LogoURL, req.Description)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.DeleteTeam(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTeamPlayers(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	if _, err := s.registry.Team(teamID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.registry.PlayersOfTeam(teamID))
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.Players())
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name required")
		return
	}
	player, err := s.registry.CreatePlayer(r.Context(), req.Name, req.Number, req.Position, req.TeamID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, player)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.registry.Player(chi.URLParam(r, "playerID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	player, err := s.registry.UpdatePlayer(r.Context(), chi.URLParam(r, "playerID"), req.Name, req.Number, req.Position)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.DeletePlayer(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games := s.registry.Games()
	views := make([]gameView, 0, len(games))
	for _, game := range games {
		views = append(views, s.gameViewOf(game))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be RFC 3339")
			return
		}
		date = parsed
	}
	game, err := s.registry.CreateGame(r.Context(), req.HomeTeamID, req.AwayTeamID, date, req.Location)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, game)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.registry.Game(chi.URLParam(r, "gameID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.gameViewOf(game))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	// An open session would keep scoring a deleted game; close it first.
	if _, err := s.manager.Get(gameID); err == nil {
		respondError(w, http.StatusConflict, "game has an open scoring session")
		return
	}
	if err := s.registry.DeleteGame(r.Context(), gameID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGameStats(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if _, err := s.registry.Game(gameID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.registry.GameStats(gameID))
}

// gameViewOf layers the live scoreboard entry over the saved record so
// listings show current scores while a game is being scored.
func (s *Server) gameViewOf(game league.Game) gameView {
	view := gameView{Game: game}
	if entry, ok := s.board.Live(game.ID); ok {
		live := entry
		view.Live = &live
		view.HomeScore = entry.HomeScore
		view.AwayScore = entry.AwayScore
	}
	return view
}
