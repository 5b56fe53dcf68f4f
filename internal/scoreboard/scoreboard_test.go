package scoreboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/scoring"
)

func watchGame(t *testing.T, b *Board, gameID string) chan scoring.Event {
	t.Helper()
	events := make(chan scoring.Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go b.Watch(ctx, gameID, events)
	return events
}

func TestBoardFoldsSessionEvents(t *testing.T) {
	b := New()
	events := watchGame(t, b, "g1")

	events <- scoring.StatusChanged{GameID: "g1", Status: league.GameOngoing}
	events <- scoring.ScoreChanged{GameID: "g1", HomeScore: 12, AwayScore: 9}
	events <- scoring.ClockUpdated{GameID: "g1", Clock: scoring.ClockState{Quarter: 2, SecondsLeft: 341, Running: true}}

	require.Eventually(t, func() bool {
		entry, ok := b.Live("g1")
		return ok && entry.HomeScore == 12 && entry.SecondsLeft == 341
	}, 2*time.Second, 10*time.Millisecond)

	entry, ok := b.Live("g1")
	require.True(t, ok)
	assert.Equal(t, "g1", entry.GameID)
	assert.Equal(t, 12, entry.HomeScore)
	assert.Equal(t, 9, entry.AwayScore)
	assert.Equal(t, 2, entry.Quarter)
	assert.Equal(t, 341, entry.SecondsLeft)
	assert.True(t, entry.ClockRunning)
	assert.Equal(t, league.GameOngoing, entry.Status)

	// A save checkpoint refreshes the score too.
	events <- scoring.GameSaved{GameID: "g1", HomeScore: 15, AwayScore: 9}
	require.Eventually(t, func() bool {
		entry, ok := b.Live("g1")
		return ok && entry.HomeScore == 15
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBoardQuarterAdvanced(t *testing.T) {
	b := New()
	events := watchGame(t, b, "g1")

	events <- scoring.QuarterAdvanced{GameID: "g1", Quarter: 3}

	require.Eventually(t, func() bool {
		entry, ok := b.Live("g1")
		return ok && entry.Quarter == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBoardSessionClosedRemovesEntry(t *testing.T) {
	b := New()
	events := watchGame(t, b, "g1")

	events <- scoring.ScoreChanged{GameID: "g1", HomeScore: 4, AwayScore: 2}
	require.Eventually(t, func() bool {
		_, ok := b.Live("g1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	events <- scoring.SessionClosed{GameID: "g1"}
	require.Eventually(t, func() bool {
		_, ok := b.Live("g1")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBoardClosedChannelRemovesEntry(t *testing.T) {
	b := New()
	events := watchGame(t, b, "g1")

	events <- scoring.ScoreChanged{GameID: "g1", HomeScore: 4, AwayScore: 2}
	require.Eventually(t, func() bool {
		_, ok := b.Live("g1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	close(events)
	require.Eventually(t, func() bool {
		_, ok := b.Live("g1")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBoardContextCancelRemovesEntry(t *testing.T) {
	b := New()
	events := make(chan scoring.Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Watch(ctx, "g1", events)

	events <- scoring.ScoreChanged{GameID: "g1", HomeScore: 4, AwayScore: 2}
	require.Eventually(t, func() bool {
		_, ok := b.Live("g1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		_, ok := b.Live("g1")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBoardEntriesSortedByGame(t *testing.T) {
	b := New()
	first := watchGame(t, b, "a-game")
	second := watchGame(t, b, "b-game")

	second <- scoring.ScoreChanged{GameID: "b-game", HomeScore: 7, AwayScore: 3}
	first <- scoring.ScoreChanged{GameID: "a-game", HomeScore: 1, AwayScore: 0}

	require.Eventually(t, func() bool {
		return len(b.Entries()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	entries := b.Entries()
	assert.Equal(t, "a-game", entries[0].GameID)
	assert.Equal(t, "b-game", entries[1].GameID)
}
