package scoring

import (
	"errors"
	"sort"
)

// MaxOnCourt is the on-court capacity per team.
const MaxOnCourt = 5

var ErrLineupFull = errors.New("lineup full")

// Lineup tracks which players are on court for each team. Not safe for
// concurrent use; the owning session serializes all access.
type Lineup struct {
	onCourt map[string]map[string]bool // teamID -> player set
}

func NewLineup(homeTeamID, awayTeamID string) *Lineup {
	return &Lineup{
		onCourt: map[string]map[string]bool{
			homeTeamID: {},
			awayTeamID: {},
		},
	}
}

func (l *Lineup) team(teamID string) map[string]bool {
	set, ok := l.onCourt[teamID]
	if !ok {
		set = make(map[string]bool)
		l.onCourt[teamID] = set
	}
	return set
}

// SubIn adds a player to the team's on-court set. Subbing in a player
// who is already on court is a no-op. Fails with ErrLineupFull when the
// team already has five on court.
func (l *Lineup) SubIn(playerID, teamID string) error {
	set := l.team(teamID)
	if set[playerID] {
		return nil
	}
	if len(set) >= MaxOnCourt {
		return ErrLineupFull
	}
	set[playerID] = true
	return nil
}

// SubOut removes a player from the court; a no-op if they are not on it.
func (l *Lineup) SubOut(playerID string) {
	for _, set := range l.onCourt {
		delete(set, playerID)
	}
}

// Substitute swaps out for in on one team as a single transaction: if
// the incoming player cannot enter, the outgoing player stays on court.
func (l *Lineup) Substitute(outPlayerID, inPlayerID, teamID string) error {
	set := l.team(teamID)
	wasOn := set[outPlayerID]
	if wasOn {
		delete(set, outPlayerID)
	}
	if err := l.SubIn(inPlayerID, teamID); err != nil {
		if wasOn {
			set[outPlayerID] = true
		}
		return err
	}
	return nil
}

func (l *Lineup) IsOnCourt(playerID string) bool {
	for _, set := range l.onCourt {
		if set[playerID] {
			return true
		}
	}
	return false
}

// TeamOf returns the team a player is currently on court for, or "".
func (l *Lineup) TeamOf(playerID string) string {
	for teamID, set := range l.onCourt {
		if set[playerID] {
			return teamID
		}
	}
	return ""
}

// OnCourt returns the team's on-court players, sorted for stable output.
func (l *Lineup) OnCourt(teamID string) []string {
	set := l.onCourt[teamID]
	players := make([]string, 0, len(set))
	for playerID := range set {
		players = append(players, playerID)
	}
	sort.Strings(players)
	return players
}
