package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/scoring"
)

const handlerTimeout = 10 * time.Second

var errTimedOut = fmt.Errorf("request timed out")

// waitForResponse waits for a session response with a timeout.
func waitForResponse(resp <-chan error) error {
	select {
	case err := <-resp:
		return err
	case <-time.After(handlerTimeout):
		return errTimedOut
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Web: failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError picks the HTTP status for a domain error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, league.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scoring.ErrLineupFull),
		errors.Is(err, scoring.ErrGameNotStarted),
		errors.Is(err, scoring.ErrGameAlreadyStarted),
		errors.Is(err, scoring.ErrGameAlreadyFinished),
		errors.Is(err, scoring.ErrNoSession),
		errors.Is(err, scoring.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, scoring.ErrUnknownField),
		errors.Is(err, scoring.ErrUnknownShotType):
		return http.StatusBadRequest
	case errors.Is(err, errTimedOut):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadRequest
}

func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
