package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jackymlr/basketball/internal/scoring"
)

type actionRequest struct {
	Type     string `json:"type"` // shot | stat | edit
	PlayerID string `json:"playerId"`
	ShotType string `json:"shotType,omitempty"`
	Made     bool   `json:"made,omitempty"`
	Field    string `json:"field,omitempty"`
	Delta    *int   `json:"delta,omitempty"`
	Value    *int   `json:"value,omitempty"`
}

type subRequest struct {
	PlayerID string `json:"playerId"`
}

type swapRequest struct {
	OutPlayerID string `json:"outPlayerId"`
	InPlayerID  string `json:"inPlayerId"`
}

type adjustRequest struct {
	Seconds int `json:"seconds"`
}

type lengthRequest struct {
	Minutes int `json:"minutes"`
}

// session resolves the open scoring session for the game in the URL.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*scoring.Session, bool) {
	sess, err := s.manager.Get(chi.URLParam(r, "gameID"))
	if err != nil {
		respondDomainError(w, err)
		return nil, false
	}
	return sess, true
}

// sendCommand submits a command to the session and reports the outcome.
func (s *Server) sendCommand(w http.ResponseWriter, sess *scoring.Session, build func(resp chan error) scoring.Command) {
	resp := make(chan error, 1)
	sess.Send(build(resp))
	if err := waitForResponse(resp); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveGameTeam maps a player onto one of the game's two teams.
func (s *Server) resolveGameTeam(gameID, playerID string) (string, error) {
	player, err := s.registry.Player(playerID)
	if err != nil {
		return "", err
	}
	game, err := s.registry.Game(gameID)
	if err != nil {
		return "", err
	}
	if player.TeamID != game.HomeTeamID && player.TeamID != game.AwayTeamID {
		return "", fmt.Errorf("player %s is not on a team in this game", player.Name)
	}
	return player.TeamID, nil
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Open(chi.URLParam(r, "gameID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	snap, err := sess.GetSnapshot()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLiveGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.GetSnapshot()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Close(chi.URLParam(r, "gameID")); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.StartGame{Response: resp}
	})
}

func (s *Server) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.FinishGame{Response: resp}
	})
}

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.SaveGame{Response: resp}
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	teamID, err := s.resolveGameTeam(sess.GameID(), req.PlayerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	switch req.Type {
	case "shot":
		shot, err := scoring.ParseShotType(req.ShotType)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		s.sendCommand(w, sess, func(resp chan error) scoring.Command {
			return scoring.RecordShot{PlayerID: req.PlayerID, TeamID: teamID, Shot: shot, Made: req.Made, Response: resp}
		})
	case "stat":
		field, err := scoring.ParseStatField(req.Field)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		delta := 1
		if req.Delta != nil {
			delta = *req.Delta
		}
		s.sendCommand(w, sess, func(resp chan error) scoring.Command {
			return scoring.RecordStat{PlayerID: req.PlayerID, TeamID: teamID, Field: field, Delta: delta, Response: resp}
		})
	case "edit":
		field, err := scoring.ParseStatField(req.Field)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		if req.Value == nil {
			respondError(w, http.StatusBadRequest, "value required for edit")
			return
		}
		s.sendCommand(w, sess, func(resp chan error) scoring.Command {
			return scoring.EditStat{PlayerID: req.PlayerID, TeamID: teamID, Field: field, Value: *req.Value, Response: resp}
		})
	default:
		respondError(w, http.StatusBadRequest, "type must be one of shot, stat, edit")
	}
}

func (s *Server) handleSubIn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req subRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	teamID, err := s.resolveGameTeam(sess.GameID(), req.PlayerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.SubIn{PlayerID: req.PlayerID, TeamID: teamID, Response: resp}
	})
}

func (s *Server) handleSubOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req subRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.SubOut{PlayerID: req.PlayerID, Response: resp}
	})
}

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req swapRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	outTeam, err := s.resolveGameTeam(sess.GameID(), req.OutPlayerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	inTeam, err := s.resolveGameTeam(sess.GameID(), req.InPlayerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if outTeam != inTeam {
		respondError(w, http.StatusBadRequest, "players must be on the same team")
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.Substitute{OutPlayerID: req.OutPlayerID, InPlayerID: req.InPlayerID, TeamID: inTeam, Response: resp}
	})
}

func (s *Server) handleClockStart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.StartClock{Response: resp}
	})
}

func (s *Server) handleClockPause(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.PauseClock{Response: resp}
	})
}

func (s *Server) handleClockReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.ResetClock{Response: resp}
	})
}

func (s *Server) handleNextQuarter(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.AdvanceQuarter{Response: resp}
	})
}

func (s *Server) handleClockAdjust(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req adjustRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.AdjustClock{Seconds: req.Seconds, Response: resp}
	})
}

func (s *Server) handleClockLength(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req lengthRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sendCommand(w, sess, func(resp chan error) scoring.Command {
		return scoring.SetQuarterLength{Minutes: req.Minutes, Response: resp}
	})
}
