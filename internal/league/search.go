package league

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// searchThreshold is the minimum similarity for a fuzzy match to count.
const searchThreshold = 0.6

type SearchResults struct {
	Teams   []Team   `json:"teams"`
	Players []Player `json:"players"`
}

// Search finds teams and players whose names approximately match the
// query, best matches first. Exact and prefix matches rank above fuzzy
// ones so search-as-you-type feels right.
func (r *Registry) Search(query string) SearchResults {
	results := SearchResults{Teams: []Team{}, Players: []Player{}}
	if strings.TrimSpace(query) == "" {
		return results
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type scoredTeam struct {
		team  Team
		score float64
	}
	var teams []scoredTeam
	for _, t := range r.state.Teams {
		if score := matchScore(query, t.Name); score >= searchThreshold {
			teams = append(teams, scoredTeam{team: t, score: score})
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].score != teams[j].score {
			return teams[i].score > teams[j].score
		}
		return teams[i].team.Name < teams[j].team.Name
	})
	for _, st := range teams {
		results.Teams = append(results.Teams, st.team)
	}

	type scoredPlayer struct {
		player Player
		score  float64
	}
	var players []scoredPlayer
	for _, p := range r.state.Players {
		if score := matchScore(query, p.Name); score >= searchThreshold {
			players = append(players, scoredPlayer{player: p, score: score})
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].score != players[j].score {
			return players[i].score > players[j].score
		}
		return players[i].player.Name < players[j].player.Name
	})
	for _, sp := range players {
		results.Players = append(results.Players, sp.player)
	}

	return results
}

func matchScore(query, name string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(name)
	if q == "" || n == "" {
		return 0
	}
	if q == n {
		return 1
	}
	if strings.HasPrefix(n, q) {
		return 0.95
	}
	if strings.Contains(n, q) {
		return 0.85
	}
	distance := fuzzy.LevenshteinDistance(q, n)
	maxLen := float64(max(len(q), len(n)))
	return 1 - float64(distance)/maxLen
}
