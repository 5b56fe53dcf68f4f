// Package scoreboard keeps a live view of the games currently being
// scored: running score, clock and status per open session. It is
// presentation state only; durable scores are written by the scoring
// sessions at save checkpoints, not from here.
package scoreboard

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/scoring"
)

// Entry is the live line for one game on the board.
type Entry struct {
	GameID       string            `json:"gameId"`
	HomeScore    int               `json:"homeScore"`
	AwayScore    int               `json:"awayScore"`
	Quarter      int               `json:"quarter"`
	SecondsLeft  int               `json:"secondsLeft"`
	ClockRunning bool              `json:"clockRunning"`
	Status       league.GameStatus `json:"status"`
}

// Board holds one entry per game with an open scoring session.
type Board struct {
	mu   sync.RWMutex
	live map[string]Entry
}

func New() *Board {
	return &Board{live: make(map[string]Entry)}
}

// Watch consumes one session's events until the session closes or ctx
// is cancelled, keeping that game's entry current. Run it on its own
// goroutine per session.
func (b *Board) Watch(ctx context.Context, gameID string, events <-chan scoring.Event) {
	log.Printf("Scoreboard: watching game %s", gameID)
	for {
		select {
		case <-ctx.Done():
			b.remove(gameID)
			return
		case event, ok := <-events:
			if !ok {
				b.remove(gameID)
				return
			}
			if closed := b.handleEvent(gameID, event); closed {
				b.remove(gameID)
				return
			}
		}
	}
}

// handleEvent folds one event into the game's entry. Returns true when
// the session closed and the entry should come off the board.
func (b *Board) handleEvent(gameID string, event scoring.Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry := b.live[gameID]
	entry.GameID = gameID
	switch ev := event.(type) {
	case scoring.ScoreChanged:
		entry.HomeScore = ev.HomeScore
		entry.AwayScore = ev.AwayScore
	case scoring.GameSaved:
		entry.HomeScore = ev.HomeScore
		entry.AwayScore = ev.AwayScore
	case scoring.ClockUpdated:
		entry.Quarter = ev.Clock.Quarter
		entry.SecondsLeft = ev.Clock.SecondsLeft
		entry.ClockRunning = ev.Clock.Running
	case scoring.QuarterAdvanced:
		entry.Quarter = ev.Quarter
	case scoring.StatusChanged:
		entry.Status = ev.Status
	case scoring.SessionClosed:
		return true
	}
	b.live[gameID] = entry
	return false
}

func (b *Board) remove(gameID string) {
	b.mu.Lock()
	if _, ok := b.live[gameID]; ok {
		delete(b.live, gameID)
		log.Printf("Scoreboard: game %s off the board", gameID)
	}
	b.mu.Unlock()
}

// Live returns the live entry for a game, if one is being scored.
func (b *Board) Live(gameID string) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.live[gameID]
	return entry, ok
}

// Entries returns every live entry, ordered by game for stable output.
func (b *Board) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entries := make([]Entry, 0, len(b.live))
	for _, entry := range b.live {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].GameID < entries[j].GameID })
	return entries
}
