package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/jackymlr/basketball/internal/scoreboard"
	"github.com/jackymlr/basketball/internal/scoring"
)

// Client represents a connected SSE client.
type Client struct {
	ID      string
	GameID  string // empty receives every game
	Channel chan string
}

// Hub manages SSE connections and broadcasts scoring events as JSON.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	manager *scoring.Manager
	board   *scoreboard.Board
}

// NewHub creates a new SSE hub.
func NewHub(manager *scoring.Manager, board *scoreboard.Board) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		manager: manager,
		board:   board,
	}
}

// envelope is the wire format for one SSE message.
type envelope struct {
	Game    string      `json:"game,omitempty"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Watch consumes one scoring session's events and broadcasts them until
// the channel closes or ctx is cancelled.
func (h *Hub) Watch(ctx context.Context, gameID string, events <-chan scoring.Event) {
	log.Printf("SSE hub: watching game %s", gameID)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(gameID, event)
		}
	}
}

func (h *Hub) broadcast(gameID string, event scoring.Event) {
	name := eventName(event)
	if name == "" {
		return
	}
	msg, err := json.Marshal(envelope{Game: gameID, Type: name, Payload: event})
	if err != nil {
		log.Printf("SSE hub: failed to encode %s event: %v", name, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.GameID != "" && client.GameID != gameID {
			continue
		}
		select {
		case client.Channel <- string(msg):
		default:
			// Client too slow, skip
			log.Printf("SSE hub: dropping message for slow client %s", client.ID)
		}
	}
}

func eventName(event scoring.Event) string {
	switch event.(type) {
	case scoring.StatUpdated:
		return "statUpdated"
	case scoring.ScoreChanged:
		return "scoreChanged"
	case scoring.LineupChanged:
		return "lineupChanged"
	case scoring.ClockUpdated:
		return "clockUpdated"
	case scoring.QuarterAdvanced:
		return "quarterAdvanced"
	case scoring.StatusChanged:
		return "statusChanged"
	case scoring.GameSaved:
		return "gameSaved"
	case scoring.SessionClosed:
		return "sessionClosed"
	}
	return ""
}

// initialState renders the first frame for a new connection: the live
// snapshot when watching one game, the scoreboard otherwise.
func (h *Hub) initialState(gameID string) string {
	if gameID == "" {
		msg, err := json.Marshal(envelope{Type: "scoreboard", Payload: h.board.Entries()})
		if err != nil {
			log.Printf("SSE hub: failed to encode scoreboard: %v", err)
			return ""
		}
		return string(msg)
	}
	sess, err := h.manager.Get(gameID)
	if err != nil {
		return ""
	}
	snap, err := sess.GetSnapshot()
	if err != nil {
		return ""
	}
	msg, err := json.Marshal(envelope{Game: gameID, Type: "snapshot", Payload: snap})
	if err != nil {
		log.Printf("SSE hub: failed to encode snapshot: %v", err)
		return ""
	}
	return string(msg)
}

// HandleConnection handles a new SSE connection. gameID filters the
// stream to a single game; empty receives every game.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request, gameID string) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	client := &Client{
		ID:      fmt.Sprintf("%p", r),
		GameID:  gameID,
		Channel: make(chan string, 10),
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	log.Printf("SSE client connected: %s (game: %q)", client.ID, gameID)

	// Ensure cleanup on disconnect
	defer func() {
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()
		close(client.Channel)
		log.Printf("SSE client disconnected: %s", client.ID)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Send initial keepalive
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	// Send initial state sync
	if initial := h.initialState(gameID); initial != "" {
		writeSSE(w, initial)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-client.Channel:
			if !ok {
				return
			}
			writeSSE(w, msg)
			flusher.Flush()
		}
	}
}

// writeSSE frames a message; each line must be prefixed with "data: "
// and an empty line marks the end of the message.
func writeSSE(w http.ResponseWriter, msg string) {
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprintf(w, "\n")
}
