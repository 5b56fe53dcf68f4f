package scoring

import "github.com/jackymlr/basketball/internal/league"

// Event is the interface for events emitted by a scoring session.
// Consumers receive them on the channels returned by Events and
// Subscribe.
type Event interface {
	event() // marker method
}

// StatUpdated carries a player's full record after any stat change.
type StatUpdated struct {
	GameID string             `json:"gameId"`
	Stats  league.PlayerStats `json:"stats"`
}

// ScoreChanged carries the running team totals after points moved.
type ScoreChanged struct {
	GameID    string `json:"gameId"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
}

// LineupChanged carries a team's on-court set after a substitution.
type LineupChanged struct {
	GameID  string   `json:"gameId"`
	TeamID  string   `json:"teamId"`
	OnCourt []string `json:"onCourt"`
}

// ClockUpdated carries the clock state after a tick or a clock command.
type ClockUpdated struct {
	GameID string     `json:"gameId"`
	Clock  ClockState `json:"clock"`
}

// QuarterAdvanced signals a move to the next quarter.
type QuarterAdvanced struct {
	GameID  string `json:"gameId"`
	Quarter int    `json:"quarter"`
}

// StatusChanged signals a game lifecycle transition.
type StatusChanged struct {
	GameID string            `json:"gameId"`
	Status league.GameStatus `json:"status"`
}

// GameSaved signals a successful save checkpoint.
type GameSaved struct {
	GameID    string `json:"gameId"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
}

// SessionClosed is the last event a session emits.
type SessionClosed struct {
	GameID string `json:"gameId"`
}

func (StatUpdated) event()     {}
func (ScoreChanged) event()    {}
func (LineupChanged) event()   {}
func (ClockUpdated) event()    {}
func (QuarterAdvanced) event() {}
func (StatusChanged) event()   {}
func (GameSaved) event()       {}
func (SessionClosed) event()   {}
