package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/jackymlr/basketball/internal/league"
)

var (
	ErrGameNotStarted      = errors.New("game not started")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrSessionClosed       = errors.New("session closed")
)

// Snapshot is a deep copy of a session's live state, safe to hand to
// other goroutines.
type Snapshot struct {
	Game        league.Game          `json:"game"`
	Box         []league.PlayerStats `json:"box"`
	HomeOnCourt []string             `json:"homeOnCourt"`
	AwayOnCourt []string             `json:"awayOnCourt"`
	HomeScore   int                  `json:"homeScore"`
	AwayScore   int                  `json:"awayScore"`
	HomeTotals  league.PlayerStats   `json:"homeTotals"`
	AwayTotals  league.PlayerStats   `json:"awayTotals"`
	Clock       ClockState           `json:"clock"`
}

// Session scores one game. It owns the box score, lineup and clock for
// that game and processes commands strictly in order on a single
// goroutine; sending commands is the only way live state is mutated.
type Session struct {
	gameID      string
	commands    chan Command
	events      chan Event
	subscribers []chan Event
	done        chan struct{}

	registry *league.Registry
	game     league.Game
	box      *BoxScore
	lineup   *Lineup
	clock    *Clock

	// score at the start of the current quarter, for the breakdown
	quarterStartHome int
	quarterStartAway int

	log *logrus.Entry
}

func newSession(registry *league.Registry, game league.Game, saved []league.PlayerStats, clk clockwork.Clock, quarterMinutes int, logger *logrus.Logger) *Session {
	s := &Session{
		gameID:   game.ID,
		commands: make(chan Command, 100),
		events:   make(chan Event, 100),
		done:     make(chan struct{}),
		registry: registry,
		game:     game,
		box:      NewBoxScore(game.ID, saved),
		lineup:   NewLineup(game.HomeTeamID, game.AwayTeamID),
		clock:    NewClock(clk, quarterMinutes),
		log:      logger.WithField("game", shortID(game.ID)),
	}
	if len(s.game.HomeQuarterScores) < NumQuarters {
		s.game.HomeQuarterScores = append(s.game.HomeQuarterScores, make([]int, NumQuarters-len(s.game.HomeQuarterScores))...)
	}
	if len(s.game.AwayQuarterScores) < NumQuarters {
		s.game.AwayQuarterScores = append(s.game.AwayQuarterScores, make([]int, NumQuarters-len(s.game.AwayQuarterScores))...)
	}
	s.resetQuarterBaselines()
	// Non-blocking: the session goroutine pauses the clock and waits for
	// the ticker to finish, so a tick must never block on a full queue.
	s.clock.SetOnTick(func(secondsLeft int) {
		select {
		case s.commands <- clockTicked{secondsLeft: secondsLeft}:
		case <-s.done:
		default:
		}
	})
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// GameID returns the game this session is scoring.
func (s *Session) GameID() string {
	return s.gameID
}

// Send submits a command to the session.
func (s *Session) Send(cmd Command) {
	s.commands <- cmd
}

// Events returns the session's main event channel.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Subscribe adds an event channel that receives every event the main
// channel does. Must be called before Run starts.
func (s *Session) Subscribe() <-chan Event {
	ch := make(chan Event, 100)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// GetSnapshot returns a copy of the live session state. Fails with
// ErrSessionClosed once the session loop has exited.
func (s *Session) GetSnapshot() (Snapshot, error) {
	respCh := make(chan Snapshot, 1)
	select {
	case s.commands <- getSnapshotCmd{Response: respCh}:
	case <-s.done:
		return Snapshot{}, ErrSessionClosed
	}
	select {
	case snap := <-respCh:
		return snap, nil
	case <-s.done:
		return Snapshot{}, ErrSessionClosed
	}
}

// Run processes commands until ctx is cancelled. It emits the starting
// state first so consumers attached at open see scores and clock
// immediately.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	defer s.clock.Teardown()
	s.log.Info("scoring session started")

	s.emit(StatusChanged{GameID: s.gameID, Status: s.game.Status})
	s.emitScore()
	s.emitClock()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scoring session shutting down")
			return
		case cmd := <-s.commands:
			s.handleCommand(ctx, cmd)
		}
	}
}

func (s *Session) handleCommand(ctx context.Context, cmd Command) {
	switch cmd := cmd.(type) {
	case RecordShot:
		err := s.applyAction(cmd)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case RecordStat:
		err := s.applyAction(cmd)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case EditStat:
		err := s.applyAction(cmd)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case SubIn:
		err := s.handleSubIn(cmd)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case SubOut:
		err := s.handleSubOut(cmd)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case Substitute:
		err := s.handleSubstitute(cmd)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case StartGame:
		err := s.handleStartGame(ctx)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case FinishGame:
		err := s.handleFinishGame(ctx)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case SaveGame:
		err := s.handleSaveGame(ctx)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case CloseSession:
		err := s.handleClose(ctx)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case StartClock:
		err := s.handleClock(func() { s.clock.Start() })
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case PauseClock:
		err := s.handleClock(func() { s.clock.Pause() })
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case ResetClock:
		err := s.handleClock(func() { s.clock.Reset() })
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case AdvanceQuarter:
		err := s.handleAdvanceQuarter()
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case AdjustClock:
		err := s.handleClock(func() { s.clock.AdjustTime(cmd.Seconds) })
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case SetQuarterLength:
		err := s.handleSetQuarterLength(cmd)
		if cmd.Response != nil {
			cmd.Response <- err
		}
	case clockTicked:
		s.handleClockTicked()
	case getSnapshotCmd:
		cmd.Response <- s.snapshot()
	default:
		s.log.Warnf("unhandled command type %T", cmd)
	}
}

// mutable gates every stat, lineup and clock mutation: a pending game
// has no live state to change yet.
func (s *Session) mutable() error {
	if s.game.Status == league.GamePending {
		return ErrGameNotStarted
	}
	return nil
}

// applyAction is the single entry point for every stat mutation.
func (s *Session) applyAction(action ScoreAction) error {
	if err := s.mutable(); err != nil {
		return err
	}
	switch a := action.(type) {
	case RecordShot:
		return s.applyShot(a)
	case RecordStat:
		return s.applyStat(a)
	case EditStat:
		return s.applyEdit(a)
	}
	return fmt.Errorf("unhandled action type %T", action)
}

func (s *Session) applyShot(a RecordShot) error {
	if a.Shot.PointValue() == 0 {
		return ErrUnknownShotType
	}
	s.box.add(a.PlayerID, a.TeamID, a.Shot.attemptedField(), 1)
	if a.Made {
		s.box.add(a.PlayerID, a.TeamID, a.Shot.madeField(), 1)
		s.propagate(a.Shot.PointValue(), a.TeamID)
	}
	s.emitStat(a.PlayerID, a.TeamID)
	if a.Made {
		s.emitScore()
	}
	return nil
}

func (s *Session) applyStat(a RecordStat) error {
	if !a.Field.counting() {
		return ErrUnknownField
	}
	s.box.add(a.PlayerID, a.TeamID, a.Field, a.Delta)
	s.emitStat(a.PlayerID, a.TeamID)
	return nil
}

func (s *Session) applyEdit(a EditStat) error {
	if _, err := ParseStatField(string(a.Field)); err != nil {
		return err
	}
	old := statValue(s.box.ensure(a.PlayerID, a.TeamID), a.Field)
	updated := s.box.Apply(a.PlayerID, a.TeamID, a.Field, a.Value)
	if pv := a.Field.pointValue(); pv > 0 {
		delta := (statValue(&updated, a.Field) - old) * pv
		s.propagate(delta, a.TeamID)
		s.emitScore()
	}
	s.emitStat(a.PlayerID, a.TeamID)
	return nil
}

// propagate applies a signed point swing to every on-court player:
// positive for the scoring team, negative for the opponents. Each set
// is walked once, so the shooter is adjusted exactly once.
func (s *Session) propagate(points int, scoringTeamID string) {
	if points == 0 {
		return
	}
	opponentID := s.opponentOf(scoringTeamID)
	for _, playerID := range s.lineup.OnCourt(scoringTeamID) {
		s.box.ensure(playerID, scoringTeamID).PlusMinus += points
	}
	for _, playerID := range s.lineup.OnCourt(opponentID) {
		s.box.ensure(playerID, opponentID).PlusMinus -= points
	}
}

func (s *Session) opponentOf(teamID string) string {
	if teamID == s.game.HomeTeamID {
		return s.game.AwayTeamID
	}
	return s.game.HomeTeamID
}

func (s *Session) handleSubIn(cmd SubIn) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if err := s.lineup.SubIn(cmd.PlayerID, cmd.TeamID); err != nil {
		return err
	}
	s.box.ensure(cmd.PlayerID, cmd.TeamID)
	s.emitLineup(cmd.TeamID)
	return nil
}

func (s *Session) handleSubOut(cmd SubOut) error {
	if err := s.mutable(); err != nil {
		return err
	}
	teamID := s.lineup.TeamOf(cmd.PlayerID)
	s.lineup.SubOut(cmd.PlayerID)
	if teamID != "" {
		s.emitLineup(teamID)
	}
	return nil
}

func (s *Session) handleSubstitute(cmd Substitute) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if err := s.lineup.Substitute(cmd.OutPlayerID, cmd.InPlayerID, cmd.TeamID); err != nil {
		return err
	}
	s.box.ensure(cmd.InPlayerID, cmd.TeamID)
	s.emitLineup(cmd.TeamID)
	return nil
}

func (s *Session) handleStartGame(ctx context.Context) error {
	switch s.game.Status {
	case league.GameOngoing:
		return ErrGameAlreadyStarted
	case league.GameFinished:
		return ErrGameAlreadyFinished
	}
	if _, err := s.registry.SetGameStatus(ctx, s.gameID, league.GameOngoing); err != nil {
		return err
	}
	s.game.Status = league.GameOngoing
	s.resetQuarterBaselines()
	s.emit(StatusChanged{GameID: s.gameID, Status: s.game.Status})
	s.log.Info("game started")
	return nil
}

func (s *Session) handleFinishGame(ctx context.Context) error {
	if s.game.Status == league.GamePending {
		return ErrGameNotStarted
	}
	if s.game.Status == league.GameFinished {
		return ErrGameAlreadyFinished
	}
	s.clock.Pause()
	s.recordQuarterScore(s.clock.Snapshot().Quarter)
	s.game.Status = league.GameFinished
	if err := s.commit(ctx); err != nil {
		return err
	}
	s.emit(StatusChanged{GameID: s.gameID, Status: s.game.Status})
	s.emitClock()
	s.log.Info("game finished")
	return nil
}

func (s *Session) handleSaveGame(ctx context.Context) error {
	if s.game.Status == league.GamePending {
		return ErrGameNotStarted
	}
	return s.commit(ctx)
}

// commit writes the box score and the updated game record through the
// registry. The clock never persists; scores, status and the quarter
// breakdown do.
func (s *Session) commit(ctx context.Context) error {
	s.game = s.box.CommitToGame(s.game)
	if err := s.registry.CommitGame(ctx, s.game, s.box.SaveAll()); err != nil {
		s.log.WithError(err).Warn("save failed")
		return err
	}
	s.emit(GameSaved{GameID: s.gameID, HomeScore: s.game.HomeScore, AwayScore: s.game.AwayScore})
	s.log.WithFields(logrus.Fields{"home": s.game.HomeScore, "away": s.game.AwayScore}).Info("game saved")
	return nil
}

func (s *Session) handleClose(ctx context.Context) error {
	if s.game.Status != league.GamePending {
		if err := s.commit(ctx); err != nil {
			s.log.WithError(err).Warn("final save on close failed")
		}
	}
	s.clock.Teardown()
	s.emit(SessionClosed{GameID: s.gameID})
	s.log.Info("scoring session closed")
	return nil
}

func (s *Session) handleClock(apply func()) error {
	if err := s.mutable(); err != nil {
		return err
	}
	apply()
	s.emitClock()
	return nil
}

func (s *Session) handleAdvanceQuarter() error {
	if err := s.mutable(); err != nil {
		return err
	}
	quarter, advanced := s.clock.NextQuarter()
	if !advanced {
		return nil
	}
	s.recordQuarterScore(quarter - 1)
	s.resetQuarterBaselines()
	s.emit(QuarterAdvanced{GameID: s.gameID, Quarter: quarter})
	s.emitClock()
	return nil
}

func (s *Session) handleSetQuarterLength(cmd SetQuarterLength) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if cmd.Minutes <= 0 {
		return errors.New("quarter length must be positive")
	}
	s.clock.SetQuarterLength(cmd.Minutes)
	s.emitClock()
	return nil
}

func (s *Session) handleClockTicked() {
	if s.game.Status == league.GamePending {
		return
	}
	s.accrueCourtTime(1)
	s.emitClock()
}

// accrueCourtTime adds tickSeconds of playing time to every player
// currently on court, both teams.
func (s *Session) accrueCourtTime(tickSeconds int) {
	for _, teamID := range []string{s.game.HomeTeamID, s.game.AwayTeamID} {
		for _, playerID := range s.lineup.OnCourt(teamID) {
			s.box.add(playerID, teamID, FieldMinutesPlayed, tickSeconds)
		}
	}
}

// recordQuarterScore writes the score accumulated since the quarter
// baseline into the given quarter's slot of the breakdown.
func (s *Session) recordQuarterScore(quarter int) {
	if quarter < 1 || quarter > NumQuarters {
		return
	}
	s.game.HomeQuarterScores[quarter-1] = s.box.TeamScore(s.game.HomeTeamID) - s.quarterStartHome
	s.game.AwayQuarterScores[quarter-1] = s.box.TeamScore(s.game.AwayTeamID) - s.quarterStartAway
}

func (s *Session) resetQuarterBaselines() {
	s.quarterStartHome = s.box.TeamScore(s.game.HomeTeamID)
	s.quarterStartAway = s.box.TeamScore(s.game.AwayTeamID)
}

func (s *Session) snapshot() Snapshot {
	game := s.game
	game.HomeQuarterScores = append([]int{}, s.game.HomeQuarterScores...)
	game.AwayQuarterScores = append([]int{}, s.game.AwayQuarterScores...)
	return Snapshot{
		Game:        game,
		Box:         s.box.SaveAll(),
		HomeOnCourt: s.lineup.OnCourt(s.game.HomeTeamID),
		AwayOnCourt: s.lineup.OnCourt(s.game.AwayTeamID),
		HomeScore:   s.box.TeamScore(s.game.HomeTeamID),
		AwayScore:   s.box.TeamScore(s.game.AwayTeamID),
		HomeTotals:  s.box.TeamTotals(s.game.HomeTeamID),
		AwayTotals:  s.box.TeamTotals(s.game.AwayTeamID),
		Clock:       s.clock.Snapshot(),
	}
}

func (s *Session) emitStat(playerID, teamID string) {
	s.emit(StatUpdated{GameID: s.gameID, Stats: s.box.Get(playerID, teamID)})
}

func (s *Session) emitScore() {
	s.emit(ScoreChanged{
		GameID:    s.gameID,
		HomeScore: s.box.TeamScore(s.game.HomeTeamID),
		AwayScore: s.box.TeamScore(s.game.AwayTeamID),
	})
}

func (s *Session) emitLineup(teamID string) {
	s.emit(LineupChanged{GameID: s.gameID, TeamID: teamID, OnCourt: s.lineup.OnCourt(teamID)})
}

func (s *Session) emitClock() {
	s.emit(ClockUpdated{GameID: s.gameID, Clock: s.clock.Snapshot()})
}

// emit fans an event out to the main channel and every subscriber.
// Sends never block; a full channel drops the event.
func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
		s.log.Warn("event channel full, dropping event")
	}
	for _, sub := range s.subscribers {
		select {
		case sub <- event:
		default:
			s.log.Warn("subscriber channel full, dropping event")
		}
	}
}
