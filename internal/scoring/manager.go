package scoring

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/jackymlr/basketball/internal/league"
)

var ErrNoSession = errors.New("no open scoring session for game")

// Manager tracks open scoring sessions, one per game. Opening a game
// that already has a session re-attaches to it; closing performs the
// session's final save and stops its loop.
type Manager struct {
	mu             sync.Mutex
	sessions       map[string]*managedSession
	registry       *league.Registry
	clk            clockwork.Clock
	quarterMinutes int
	onOpen         []func(ctx context.Context, s *Session)
	log            *logrus.Logger
}

type managedSession struct {
	session *Session
	cancel  context.CancelFunc
}

func NewManager(registry *league.Registry, clk clockwork.Clock, quarterMinutes int, log *logrus.Logger) *Manager {
	return &Manager{
		sessions:       make(map[string]*managedSession),
		registry:       registry,
		clk:            clk,
		quarterMinutes: quarterMinutes,
		log:            log,
	}
}

// OnSessionOpen registers a hook invoked for every newly opened session
// before its loop starts, with the session's lifetime context. Register
// hooks at startup, before any session opens.
func (m *Manager) OnSessionOpen(fn func(ctx context.Context, s *Session)) {
	m.onOpen = append(m.onOpen, fn)
}

// Open starts a scoring session for the game, seeded with any
// previously saved box score. If the game already has one, the existing
// session is returned.
func (m *Manager) Open(gameID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms, ok := m.sessions[gameID]; ok {
		return ms.session, nil
	}
	game, err := m.registry.Game(gameID)
	if err != nil {
		return nil, err
	}
	sess := newSession(m.registry, game, m.registry.GameStats(gameID), m.clk, m.quarterMinutes, m.log)
	ctx, cancel := context.WithCancel(context.Background())
	for _, fn := range m.onOpen {
		fn(ctx, sess)
	}
	m.sessions[gameID] = &managedSession{session: sess, cancel: cancel}
	go sess.Run(ctx)
	m.log.WithField("game", shortID(gameID)).Info("session opened")
	return sess, nil
}

// Get returns the open session for the game, if any.
func (m *Manager) Get(gameID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[gameID]
	if !ok {
		return nil, ErrNoSession
	}
	return ms.session, nil
}

// Close ends the game's session: final save unless the game never
// started, then the loop stops.
func (m *Manager) Close(gameID string) error {
	m.mu.Lock()
	ms, ok := m.sessions[gameID]
	if !ok {
		m.mu.Unlock()
		return ErrNoSession
	}
	delete(m.sessions, gameID)
	m.mu.Unlock()

	resp := make(chan error, 1)
	ms.session.Send(CloseSession{Response: resp})
	var err error
	select {
	case err = <-resp:
	case <-ms.session.done:
		err = ErrSessionClosed
	}
	ms.cancel()
	return err
}

// SaveAll checkpoints every open session. Sessions whose game has not
// started yet have nothing durable and are skipped.
func (m *Manager) SaveAll() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, ms := range m.sessions {
		open = append(open, ms.session)
	}
	m.mu.Unlock()

	saved := 0
	for _, sess := range open {
		resp := make(chan error, 1)
		sess.Send(SaveGame{Response: resp})
		var err error
		select {
		case err = <-resp:
		case <-sess.done:
			continue
		}
		switch {
		case err == nil:
			saved++
		case errors.Is(err, ErrGameNotStarted):
			m.log.WithField("game", shortID(sess.GameID())).Debug("skipping autosave, game not started")
		default:
			m.log.WithField("game", shortID(sess.GameID())).WithError(err).Warn("autosave failed")
		}
	}
	if saved > 0 {
		m.log.WithField("sessions", saved).Info("autosave checkpoint")
	}
}

// OpenGameIDs lists the games with a session currently open.
func (m *Manager) OpenGameIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown closes every open session, saving each. Called on process
// shutdown.
func (m *Manager) Shutdown() {
	ids := m.OpenGameIDs()
	if len(ids) == 0 {
		return
	}
	m.log.WithField("sessions", len(ids)).Info("closing open scoring sessions")
	for _, id := range ids {
		if err := m.Close(id); err != nil && !errors.Is(err, ErrNoSession) {
			m.log.WithField("game", shortID(id)).WithError(err).Warn("session close failed")
		}
	}
}
