package scoring

import "github.com/jackymlr/basketball/internal/league"

// TeamScore sums points across the team's records.
func (b *BoxScore) TeamScore(teamID string) int {
	total := 0
	for _, rec := range b.records {
		if rec.TeamID == teamID {
			total += rec.Points
		}
	}
	return total
}

// TeamTotals sums every counter across the team's records, for the
// summary row under a box score. Only the team identifier is set on the
// returned record.
func (b *BoxScore) TeamTotals(teamID string) league.PlayerStats {
	totals := league.PlayerStats{GameID: b.gameID, TeamID: teamID}
	for _, rec := range b.records {
		if rec.TeamID != teamID {
			continue
		}
		totals.Points += rec.Points
		totals.TwoPointsMade += rec.TwoPointsMade
		totals.TwoPointsAttempted += rec.TwoPointsAttempted
		totals.ThreePointsMade += rec.ThreePointsMade
		totals.ThreePointsAttempted += rec.ThreePointsAttempted
		totals.FreeThrowsMade += rec.FreeThrowsMade
		totals.FreeThrowsAttempted += rec.FreeThrowsAttempted
		totals.OffensiveRebounds += rec.OffensiveRebounds
		totals.DefensiveRebounds += rec.DefensiveRebounds
		totals.Assists += rec.Assists
		totals.Steals += rec.Steals
		totals.Blocks += rec.Blocks
		totals.Turnovers += rec.Turnovers
		totals.Fouls += rec.Fouls
		totals.MinutesPlayed += rec.MinutesPlayed
		totals.PlusMinus += rec.PlusMinus
	}
	return totals
}

// CommitToGame returns a copy of game with home and away scores set
// from the current records. The records themselves are untouched.
func (b *BoxScore) CommitToGame(game league.Game) league.Game {
	game.HomeScore = b.TeamScore(game.HomeTeamID)
	game.AwayScore = b.TeamScore(game.AwayTeamID)
	return game
}
