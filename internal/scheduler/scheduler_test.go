package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/scoring"
	"github.com/jackymlr/basketball/internal/store"
)

func TestSchedulerCheckpointsOpenSessions(t *testing.T) {
	ctx := context.Background()
	registry := league.NewRegistry(store.NewMemoryStore())
	registry.Load(ctx)

	home := registry.CreateTeam(ctx, "Hawks", "", "")
	away := registry.CreateTeam(ctx, "Comets", "", "")
	player, err := registry.CreatePlayer(ctx, "Hawk 1", 4, "G", home.ID)
	require.NoError(t, err)
	game, err := registry.CreateGame(ctx, home.ID, away.ID, time.Time{}, "")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	manager := scoring.NewManager(registry, clockwork.NewFakeClock(), 12, logger)
	t.Cleanup(manager.Shutdown)

	sess, err := manager.Open(game.ID)
	require.NoError(t, err)

	resp := make(chan error, 1)
	sess.Send(scoring.StartGame{Response: resp})
	require.NoError(t, <-resp)
	resp = make(chan error, 1)
	sess.Send(scoring.RecordShot{PlayerID: player.ID, TeamID: home.ID, Shot: scoring.ShotTwo, Made: true, Response: resp})
	require.NoError(t, <-resp)

	sched, err := New(manager, 20*time.Millisecond, logger)
	require.NoError(t, err)
	sched.Start()

	require.Eventually(t, func() bool {
		saved, err := registry.Game(game.ID)
		return err == nil && saved.HomeScore == 2
	}, 2*time.Second, 10*time.Millisecond, "the autosave job must checkpoint the open session")

	require.NoError(t, sched.Stop())
}

func TestSchedulerRejectsZeroInterval(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := league.NewRegistry(store.NewMemoryStore())
	registry.Load(context.Background())
	manager := scoring.NewManager(registry, clockwork.NewFakeClock(), 12, logger)

	_, err := New(manager, 0, logger)
	assert.Error(t, err)
}
