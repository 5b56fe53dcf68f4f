package league

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRanksExactAboveFuzzy(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	r.CreateTeam(ctx, "Webb", "", "")
	r.CreateTeam(ctx, "Webber", "", "")
	r.CreateTeam(ctx, "Riverside Hawks", "", "")

	results := r.Search("webb")
	require.Len(t, results.Teams, 2)
	assert.Equal(t, "Webb", results.Teams[0].Name, "exact match ranks first")
	assert.Equal(t, "Webber", results.Teams[1].Name)
}

func TestSearchMatchesPlayersFuzzily(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	team := r.CreateTeam(ctx, "Hawks", "", "")
	_, err := r.CreatePlayer(ctx, "Marcus Webb", 4, "PG", team.ID)
	require.NoError(t, err)
	_, err = r.CreatePlayer(ctx, "Danny Alvarez", 3, "PG", team.ID)
	require.NoError(t, err)

	// Transposed letters still find the player.
	results := r.Search("Marcsu Webb")
	require.Len(t, results.Players, 1)
	assert.Equal(t, "Marcus Webb", results.Players[0].Name)
}

func TestSearchSubstring(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	r.CreateTeam(ctx, "Riverside Hawks", "", "")

	results := r.Search("hawks")
	require.Len(t, results.Teams, 1)
}

func TestSearchNoMatch(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	r.CreateTeam(ctx, "Riverside Hawks", "", "")

	results := r.Search("zzzzqqqq")
	assert.Empty(t, results.Teams)
	assert.Empty(t, results.Players)
}

func TestSearchEmptyQuery(t *testing.T) {
	r := newTestRegistry()
	r.CreateTeam(context.Background(), "Hawks", "", "")

	assert.Empty(t, r.Search("").Teams)
	assert.Empty(t, r.Search("   ").Teams)
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, 1.0, matchScore("hawks", "Hawks"))
	assert.Equal(t, 0.95, matchScore("haw", "Hawks"))
	assert.Equal(t, 0.85, matchScore("side", "Riverside"))
	assert.Less(t, matchScore("zzz", "Hawks"), searchThreshold)
}
