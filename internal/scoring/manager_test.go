package scoring

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
	"github.com/jackymlr/basketball/internal/store"
)

type managerFixture struct {
	mgr      *Manager
	registry *league.Registry
	home     league.Team
	away     league.Team
	homeIDs  []string
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	ctx := context.Background()
	registry := league.NewRegistry(store.NewMemoryStore())
	registry.Load(ctx)

	home := registry.CreateTeam(ctx, "Hawks", "", "")
	away := registry.CreateTeam(ctx, "Comets", "", "")
	var homeIDs []string
	for _, name := range []string{"Hawk 1", "Hawk 2"} {
		p, err := registry.CreatePlayer(ctx, name, 0, "G", home.ID)
		require.NoError(t, err)
		homeIDs = append(homeIDs, p.ID)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mgr := NewManager(registry, clockwork.NewFakeClock(), 12, logger)
	t.Cleanup(mgr.Shutdown)

	return &managerFixture{mgr: mgr, registry: registry, home: home, away: away, homeIDs: homeIDs}
}

func (f *managerFixture) newGame(t *testing.T) string {
	t.Helper()
	game, err := f.registry.CreateGame(context.Background(), f.home.ID, f.away.ID, time.Time{}, "")
	require.NoError(t, err)
	return game.ID
}

func startGameOn(t *testing.T, sess *Session) {
	t.Helper()
	resp := make(chan error, 1)
	sess.Send(StartGame{Response: resp})
	require.NoError(t, await(t, resp))
}

func twoPointerOn(t *testing.T, sess *Session, playerID, teamID string) {
	t.Helper()
	resp := make(chan error, 1)
	sess.Send(RecordShot{PlayerID: playerID, TeamID: teamID, Shot: ShotTwo, Made: true, Response: resp})
	require.NoError(t, await(t, resp))
}

func TestManagerOpenAndReattach(t *testing.T) {
	f := newManagerFixture(t)
	gameID := f.newGame(t)

	sess, err := f.mgr.Open(gameID)
	require.NoError(t, err)
	require.NotNil(t, sess)

	again, err := f.mgr.Open(gameID)
	require.NoError(t, err)
	assert.Same(t, sess, again, "reopening attaches to the live session")

	got, err := f.mgr.Get(gameID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	assert.Equal(t, []string{gameID}, f.mgr.OpenGameIDs())
}

func TestManagerOpenUnknownGame(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.mgr.Open("no-such-game")
	assert.ErrorIs(t, err, league.ErrNotFound)
}

func TestManagerGetWithoutSession(t *testing.T) {
	f := newManagerFixture(t)
	gameID := f.newGame(t)

	_, err := f.mgr.Get(gameID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManagerCloseSavesAndRemoves(t *testing.T) {
	f := newManagerFixture(t)
	gameID := f.newGame(t)

	sess, err := f.mgr.Open(gameID)
	require.NoError(t, err)
	startGameOn(t, sess)
	twoPointerOn(t, sess, f.homeIDs[0], f.home.ID)

	require.NoError(t, f.mgr.Close(gameID))

	_, err = f.mgr.Get(gameID)
	assert.ErrorIs(t, err, ErrNoSession)

	game, err := f.registry.Game(gameID)
	require.NoError(t, err)
	assert.Equal(t, 2, game.HomeScore, "closing writes the final box score")

	<-sess.done
	_, err = sess.GetSnapshot()
	assert.ErrorIs(t, err, ErrSessionClosed)

	assert.ErrorIs(t, f.mgr.Close(gameID), ErrNoSession)
}

func TestManagerClosePendingGameSkipsSave(t *testing.T) {
	f := newManagerFixture(t)
	gameID := f.newGame(t)

	_, err := f.mgr.Open(gameID)
	require.NoError(t, err)
	require.NoError(t, f.mgr.Close(gameID))

	assert.Empty(t, f.registry.GameStats(gameID))
}

func TestManagerSaveAllSkipsPendingGames(t *testing.T) {
	f := newManagerFixture(t)
	started := f.newGame(t)
	pending := f.newGame(t)

	sess, err := f.mgr.Open(started)
	require.NoError(t, err)
	startGameOn(t, sess)
	twoPointerOn(t, sess, f.homeIDs[0], f.home.ID)

	_, err = f.mgr.Open(pending)
	require.NoError(t, err)

	f.mgr.SaveAll()

	game, err := f.registry.Game(started)
	require.NoError(t, err)
	assert.Equal(t, 2, game.HomeScore)
	assert.Empty(t, f.registry.GameStats(pending))

	// A checkpoint leaves both sessions open.
	_, err = f.mgr.Get(started)
	assert.NoError(t, err)
	_, err = f.mgr.Get(pending)
	assert.NoError(t, err)
}

func TestManagerOnSessionOpenHook(t *testing.T) {
	f := newManagerFixture(t)
	gameID := f.newGame(t)

	var hooked *Session
	var events <-chan Event
	f.mgr.OnSessionOpen(func(ctx context.Context, s *Session) {
		hooked = s
		events = s.Subscribe()
	})

	sess, err := f.mgr.Open(gameID)
	require.NoError(t, err)
	require.Same(t, sess, hooked, "hooks run for the session being opened")

	// The hook subscribed before the loop started, so it sees the
	// session's opening state.
	select {
	case ev := <-events:
		status, ok := ev.(StatusChanged)
		require.True(t, ok)
		assert.Equal(t, league.GamePending, status.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the opening event")
	}
}

func TestManagerShutdownClosesEverySession(t *testing.T) {
	f := newManagerFixture(t)
	first := f.newGame(t)
	second := f.newGame(t)

	s1, err := f.mgr.Open(first)
	require.NoError(t, err)
	startGameOn(t, s1)
	twoPointerOn(t, s1, f.homeIDs[0], f.home.ID)
	_, err = f.mgr.Open(second)
	require.NoError(t, err)

	f.mgr.Shutdown()

	assert.Empty(t, f.mgr.OpenGameIDs())
	game, err := f.registry.Game(first)
	require.NoError(t, err)
	assert.Equal(t, 2, game.HomeScore, "shutdown saves open games")
}
