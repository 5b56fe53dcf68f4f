package scoring

import "errors"

// Command is the interface all session commands implement.
type Command interface {
	command() // marker method
}

// ScoreAction is a stat-mutating command. Every one of them is routed
// through the session's single applyAction entry point, so the point
// and plus/minus propagation rules live in exactly one place.
type ScoreAction interface {
	Command
	scoreAction() // marker method
}

// ShotType identifies a shot category.
type ShotType string

const (
	ShotTwo       ShotType = "two"
	ShotThree     ShotType = "three"
	ShotFreeThrow ShotType = "freeThrow"
)

var ErrUnknownShotType = errors.New("unknown shot type")

// ParseShotType maps a wire name onto a shot category.
func ParseShotType(name string) (ShotType, error) {
	switch t := ShotType(name); t {
	case ShotTwo, ShotThree, ShotFreeThrow:
		return t, nil
	}
	return "", ErrUnknownShotType
}

// PointValue returns the value of a made shot of this type.
func (t ShotType) PointValue() int {
	switch t {
	case ShotTwo:
		return 2
	case ShotThree:
		return 3
	case ShotFreeThrow:
		return 1
	}
	return 0
}

func (t ShotType) madeField() StatField {
	switch t {
	case ShotTwo:
		return FieldTwoPointsMade
	case ShotThree:
		return FieldThreePointsMade
	default:
		return FieldFreeThrowsMade
	}
}

func (t ShotType) attemptedField() StatField {
	switch t {
	case ShotTwo:
		return FieldTwoPointsAttempted
	case ShotThree:
		return FieldThreePointsAttempted
	default:
		return FieldFreeThrowsAttempted
	}
}

// RecordShot records a shot attempt. A make also books the points and
// the plus/minus swing across both on-court sets.
type RecordShot struct {
	PlayerID string
	TeamID   string
	Shot     ShotType
	Made     bool
	Response chan error
}

// RecordStat shifts one counting stat (rebounds, assists, steals,
// blocks, turnovers, fouls) by a small delta, clamped at zero. It never
// touches points or plus/minus.
type RecordStat struct {
	PlayerID string
	TeamID   string
	Field    StatField
	Delta    int
	Response chan error
}

// EditStat overwrites a single counter with an absolute value. Edits to
// made-shot counters propagate the signed point difference exactly like
// live shots do.
type EditStat struct {
	PlayerID string
	TeamID   string
	Field    StatField
	Value    int
	Response chan error
}

// SubIn puts a player on the court.
type SubIn struct {
	PlayerID string
	TeamID   string
	Response chan error
}

// SubOut removes a player from the court.
type SubOut struct {
	PlayerID string
	Response chan error
}

// Substitute swaps one player for another atomically.
type Substitute struct {
	OutPlayerID string
	InPlayerID  string
	TeamID      string
	Response    chan error
}

// StartGame moves the game from pending to ongoing.
type StartGame struct {
	Response chan error
}

// FinishGame pauses the clock, marks the game finished and saves it.
type FinishGame struct {
	Response chan error
}

// SaveGame commits the current box score and game record to storage.
type SaveGame struct {
	Response chan error
}

// CloseSession performs a final save (unless the game never started)
// and shuts the session down.
type CloseSession struct {
	Response chan error
}

// StartClock starts the countdown.
type StartClock struct {
	Response chan error
}

// PauseClock stops the countdown.
type PauseClock struct {
	Response chan error
}

// ResetClock stops the countdown and restores the full quarter length.
type ResetClock struct {
	Response chan error
}

// AdvanceQuarter records the completed quarter's score and moves the
// clock to the next quarter.
type AdvanceQuarter struct {
	Response chan error
}

// AdjustClock shifts the remaining time by Seconds, floored at zero.
type AdjustClock struct {
	Seconds  int
	Response chan error
}

// SetQuarterLength changes the per-quarter duration in minutes.
type SetQuarterLength struct {
	Minutes  int
	Response chan error
}

// clockTicked is the internal per-second feed from the game clock back
// into the session loop.
type clockTicked struct {
	secondsLeft int
}

// getSnapshotCmd requests a deep copy of the session state.
type getSnapshotCmd struct {
	Response chan Snapshot
}

func (RecordShot) command()       {}
func (RecordStat) command()       {}
func (EditStat) command()         {}
func (SubIn) command()            {}
func (SubOut) command()           {}
func (Substitute) command()       {}
func (StartGame) command()        {}
func (FinishGame) command()       {}
func (SaveGame) command()         {}
func (CloseSession) command()     {}
func (StartClock) command()       {}
func (PauseClock) command()       {}
func (ResetClock) command()       {}
func (AdvanceQuarter) command()   {}
func (AdjustClock) command()      {}
func (SetQuarterLength) command() {}
func (clockTicked) command()      {}
func (getSnapshotCmd) command()   {}

func (RecordShot) scoreAction() {}
func (RecordStat) scoreAction() {}
func (EditStat) scoreAction()   {}
