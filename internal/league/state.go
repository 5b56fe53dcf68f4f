package league

import "time"

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Number    int       `json:"number"`
	Position  string    `json:"position"`
	TeamID    string    `json:"teamId"`
	CreatedAt time.Time `json:"createdAt"`
}

type GameStatus string

const (
	GamePending  GameStatus = "pending"  // Scheduled, no stats recorded yet
	GameOngoing  GameStatus = "ongoing"  // Being scored
	GameFinished GameStatus = "finished" // Final, still editable for corrections
)

type Game struct {
	ID         string     `json:"id"`
	HomeTeamID string     `json:"homeTeamId"`
	AwayTeamID string     `json:"awayTeamId"`
	HomeScore  int        `json:"homeScore"`
	AwayScore  int        `json:"awayScore"`
	Date       time.Time  `json:"date"`
	Location   string     `json:"location,omitempty"`
	Status     GameStatus `json:"status"`
	// Per-quarter score breakdown, 4 slots each, filled as quarters end.
	HomeQuarterScores []int     `json:"homeQuarterScores,omitempty"`
	AwayQuarterScores []int     `json:"awayQuarterScores,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PlayerStats is one player's accumulated box score for one game.
// MinutesPlayed is stored in whole seconds, PlusMinus is signed; every
// other counter is kept non-negative.
type PlayerStats struct {
	ID                   string `json:"id"`
	GameID               string `json:"gameId"`
	PlayerID             string `json:"playerId"`
	TeamID               string `json:"teamId"`
	Points               int    `json:"points"`
	TwoPointsMade        int    `json:"twoPointsMade"`
	TwoPointsAttempted   int    `json:"twoPointsAttempted"`
	ThreePointsMade      int    `json:"threePointsMade"`
	ThreePointsAttempted int    `json:"threePointsAttempted"`
	FreeThrowsMade       int    `json:"freeThrowsMade"`
	FreeThrowsAttempted  int    `json:"freeThrowsAttempted"`
	OffensiveRebounds    int    `json:"offensiveRebounds"`
	DefensiveRebounds    int    `json:"defensiveRebounds"`
	Assists              int    `json:"assists"`
	Steals               int    `json:"steals"`
	Blocks               int    `json:"blocks"`
	Turnovers            int    `json:"turnovers"`
	Fouls                int    `json:"fouls"`
	MinutesPlayed        int    `json:"minutesPlayed"`
	PlusMinus            int    `json:"plusMinus"`
}

// AppState is the whole application state, serialized as a single JSON
// blob in the snapshot store. PlayerStats is keyed by StatKey.
type AppState struct {
	Teams       []Team                  `json:"teams"`
	Players     []Player                `json:"players"`
	Games       []Game                  `json:"games"`
	PlayerStats map[string]*PlayerStats `json:"playerStats"`
}

func NewAppState() *AppState {
	return &AppState{
		Teams:       []Team{},
		Players:     []Player{},
		Games:       []Game{},
		PlayerStats: make(map[string]*PlayerStats),
	}
}

// StatKey builds the PlayerStats map key for a (game, player) pair.
func StatKey(gameID, playerID string) string {
	return gameID + ":" + playerID
}

func (s *AppState) Team(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

func (s *AppState) Player(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

func (s *AppState) Game(id string) *Game {
	for i := range s.Games {
		if s.Games[i].ID == id {
			return &s.Games[i]
		}
	}
	return nil
}

func (s *AppState) PlayersOfTeam(teamID string) []Player {
	var players []Player
	for _, p := range s.Players {
		if p.TeamID == teamID {
			players = append(players, p)
		}
	}
	return players
}

func (s *AppState) StatsOfGame(gameID string) []PlayerStats {
	var stats []PlayerStats
	for _, ps := range s.PlayerStats {
		if ps.GameID == gameID {
			stats = append(stats, *ps)
		}
	}
	return stats
}
