package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackymlr/basketball/internal/league"
)

func TestParseStatField(t *testing.T) {
	f, err := ParseStatField("threePointsMade")
	require.NoError(t, err)
	assert.Equal(t, FieldThreePointsMade, f)

	_, err = ParseStatField("points")
	assert.ErrorIs(t, err, ErrUnknownField, "points is derived and not editable")

	_, err = ParseStatField("plusMinus")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = ParseStatField("rebounds")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestGetDoesNotCreate(t *testing.T) {
	box := NewBoxScore("g1", nil)

	rec := box.Get("p1", "t1")
	assert.Empty(t, rec.ID, "reads never mint a record")
	assert.Equal(t, "g1", rec.GameID)
	assert.Equal(t, "p1", rec.PlayerID)
	assert.Empty(t, box.SaveAll())
}

func TestEnsureCreatesOnce(t *testing.T) {
	box := NewBoxScore("g1", nil)

	first := box.ensure("p1", "t1")
	assert.NotEmpty(t, first.ID)
	second := box.ensure("p1", "t1")
	assert.Same(t, first, second)
	assert.Len(t, box.SaveAll(), 1)
}

func TestApplyClampsAndRecomputes(t *testing.T) {
	box := NewBoxScore("g1", nil)

	rec := box.Apply("p1", "t1", FieldTwoPointsMade, 3)
	assert.Equal(t, 3, rec.TwoPointsMade)
	assert.Equal(t, 6, rec.Points)

	rec = box.Apply("p1", "t1", FieldFreeThrowsMade, 2)
	assert.Equal(t, 8, rec.Points)

	rec = box.Apply("p1", "t1", FieldThreePointsMade, 1)
	assert.Equal(t, 11, rec.Points)

	// Negative values clamp to zero and points recompute accordingly.
	rec = box.Apply("p1", "t1", FieldTwoPointsMade, -5)
	assert.Equal(t, 0, rec.TwoPointsMade)
	assert.Equal(t, 5, rec.Points)
}

func TestApplyNonScoringFieldLeavesPoints(t *testing.T) {
	box := NewBoxScore("g1", nil)
	box.Apply("p1", "t1", FieldTwoPointsMade, 2)

	rec := box.Apply("p1", "t1", FieldAssists, 7)
	assert.Equal(t, 7, rec.Assists)
	assert.Equal(t, 4, rec.Points)

	// Attempts do not affect points; made greater than attempted is not
	// rejected, corrections are the operator's call.
	rec = box.Apply("p1", "t1", FieldTwoPointsAttempted, 1)
	assert.Equal(t, 1, rec.TwoPointsAttempted)
	assert.Equal(t, 2, rec.TwoPointsMade)
	assert.Equal(t, 4, rec.Points)
}

func TestAddClamps(t *testing.T) {
	box := NewBoxScore("g1", nil)

	box.add("p1", "t1", FieldSteals, 1)
	rec := box.add("p1", "t1", FieldSteals, -5)
	assert.Equal(t, 0, rec.Steals)
}

func TestSeedFromSavedStats(t *testing.T) {
	saved := []league.PlayerStats{
		{ID: "s1", GameID: "g1", PlayerID: "p1", TeamID: "t1", Points: 10, TwoPointsMade: 5},
	}
	box := NewBoxScore("g1", saved)

	rec := box.Get("p1", "t1")
	assert.Equal(t, "s1", rec.ID, "saved record keeps its identifier")
	assert.Equal(t, 10, rec.Points)

	box.add("p1", "t1", FieldTwoPointsMade, 1)
	rec = box.Get("p1", "t1")
	assert.Equal(t, 12, rec.Points, "new scoring continues from the saved line")
}

func TestSaveAllSorted(t *testing.T) {
	box := NewBoxScore("g1", nil)
	box.ensure("p3", "t1")
	box.ensure("p1", "t1")
	box.ensure("p2", "t2")

	all := box.SaveAll()
	require.Len(t, all, 3)
	assert.Equal(t, "p1", all[0].PlayerID)
	assert.Equal(t, "p2", all[1].PlayerID)
	assert.Equal(t, "p3", all[2].PlayerID)
}

func TestTeamScoreAndTotals(t *testing.T) {
	box := NewBoxScore("g1", nil)
	box.Apply("p1", "home", FieldTwoPointsMade, 3)
	box.Apply("p2", "home", FieldThreePointsMade, 2)
	box.Apply("p3", "away", FieldFreeThrowsMade, 4)
	box.add("p1", "home", FieldAssists, 5)

	assert.Equal(t, 12, box.TeamScore("home"))
	assert.Equal(t, 4, box.TeamScore("away"))

	totals := box.TeamTotals("home")
	assert.Equal(t, 12, totals.Points)
	assert.Equal(t, 3, totals.TwoPointsMade)
	assert.Equal(t, 2, totals.ThreePointsMade)
	assert.Equal(t, 5, totals.Assists)

	game := box.CommitToGame(league.Game{ID: "g1", HomeTeamID: "home", AwayTeamID: "away"})
	assert.Equal(t, 12, game.HomeScore)
	assert.Equal(t, 4, game.AwayScore)
}
