package scoring

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/jackymlr/basketball/internal/league"
)

// StatField names one editable box-score counter. Points and plus/minus
// are engine-derived and not valid edit targets.
type StatField string

const (
	FieldTwoPointsMade        StatField = "twoPointsMade"
	FieldTwoPointsAttempted   StatField = "twoPointsAttempted"
	FieldThreePointsMade      StatField = "threePointsMade"
	FieldThreePointsAttempted StatField = "threePointsAttempted"
	FieldFreeThrowsMade       StatField = "freeThrowsMade"
	FieldFreeThrowsAttempted  StatField = "freeThrowsAttempted"
	FieldOffensiveRebounds    StatField = "offensiveRebounds"
	FieldDefensiveRebounds    StatField = "defensiveRebounds"
	FieldAssists              StatField = "assists"
	FieldSteals               StatField = "steals"
	FieldBlocks               StatField = "blocks"
	FieldTurnovers            StatField = "turnovers"
	FieldFouls                StatField = "fouls"
	FieldMinutesPlayed        StatField = "minutesPlayed"
)

var ErrUnknownField = errors.New("unknown stat field")

// ParseStatField maps a wire name onto an editable counter.
func ParseStatField(name string) (StatField, error) {
	switch f := StatField(name); f {
	case FieldTwoPointsMade, FieldTwoPointsAttempted,
		FieldThreePointsMade, FieldThreePointsAttempted,
		FieldFreeThrowsMade, FieldFreeThrowsAttempted,
		FieldOffensiveRebounds, FieldDefensiveRebounds,
		FieldAssists, FieldSteals, FieldBlocks,
		FieldTurnovers, FieldFouls, FieldMinutesPlayed:
		return f, nil
	}
	return "", ErrUnknownField
}

// counting reports whether the field is one of the non-shooting
// counters recordable as quick ±1 actions.
func (f StatField) counting() bool {
	switch f {
	case FieldOffensiveRebounds, FieldDefensiveRebounds, FieldAssists,
		FieldSteals, FieldBlocks, FieldTurnovers, FieldFouls:
		return true
	}
	return false
}

// pointValue returns the value of one made shot for a made-shot
// counter, 0 for every other field.
func (f StatField) pointValue() int {
	switch f {
	case FieldTwoPointsMade:
		return 2
	case FieldThreePointsMade:
		return 3
	case FieldFreeThrowsMade:
		return 1
	}
	return 0
}

func statValue(ps *league.PlayerStats, f StatField) int {
	switch f {
	case FieldTwoPointsMade:
		return ps.TwoPointsMade
	case FieldTwoPointsAttempted:
		return ps.TwoPointsAttempted
	case FieldThreePointsMade:
		return ps.ThreePointsMade
	case FieldThreePointsAttempted:
		return ps.ThreePointsAttempted
	case FieldFreeThrowsMade:
		return ps.FreeThrowsMade
	case FieldFreeThrowsAttempted:
		return ps.FreeThrowsAttempted
	case FieldOffensiveRebounds:
		return ps.OffensiveRebounds
	case FieldDefensiveRebounds:
		return ps.DefensiveRebounds
	case FieldAssists:
		return ps.Assists
	case FieldSteals:
		return ps.Steals
	case FieldBlocks:
		return ps.Blocks
	case FieldTurnovers:
		return ps.Turnovers
	case FieldFouls:
		return ps.Fouls
	case FieldMinutesPlayed:
		return ps.MinutesPlayed
	}
	return 0
}

func setStat(ps *league.PlayerStats, f StatField, v int) {
	switch f {
	case FieldTwoPointsMade:
		ps.TwoPointsMade = v
	case FieldTwoPointsAttempted:
		ps.TwoPointsAttempted = v
	case FieldThreePointsMade:
		ps.ThreePointsMade = v
	case FieldThreePointsAttempted:
		ps.ThreePointsAttempted = v
	case FieldFreeThrowsMade:
		ps.FreeThrowsMade = v
	case FieldFreeThrowsAttempted:
		ps.FreeThrowsAttempted = v
	case FieldOffensiveRebounds:
		ps.OffensiveRebounds = v
	case FieldDefensiveRebounds:
		ps.DefensiveRebounds = v
	case FieldAssists:
		ps.Assists = v
	case FieldSteals:
		ps.Steals = v
	case FieldBlocks:
		ps.Blocks = v
	case FieldTurnovers:
		ps.Turnovers = v
	case FieldFouls:
		ps.Fouls = v
	case FieldMinutesPlayed:
		ps.MinutesPlayed = v
	}
}

func recomputePoints(ps *league.PlayerStats) {
	ps.Points = 2*ps.TwoPointsMade + 3*ps.ThreePointsMade + ps.FreeThrowsMade
}

// BoxScore holds the in-memory box-score records for the game being
// scored. Not safe for concurrent use; the owning session serializes
// all access.
type BoxScore struct {
	gameID  string
	records map[string]*league.PlayerStats // playerID -> record
}

// NewBoxScore creates a box score seeded with previously saved records,
// so reopening a game picks up where the last save left off.
func NewBoxScore(gameID string, saved []league.PlayerStats) *BoxScore {
	b := &BoxScore{
		gameID:  gameID,
		records: make(map[string]*league.PlayerStats),
	}
	for _, ps := range saved {
		rec := ps
		b.records[ps.PlayerID] = &rec
	}
	return b
}

// Get returns a copy of the player's record, or a zeroed one if absent.
// It never creates anything; a missing record stays missing.
func (b *BoxScore) Get(playerID, teamID string) league.PlayerStats {
	if rec, ok := b.records[playerID]; ok {
		return *rec
	}
	return league.PlayerStats{
		GameID:   b.gameID,
		PlayerID: playerID,
		TeamID:   teamID,
	}
}

// ensure returns the live record for the player, creating a zeroed one
// with a fresh identifier on first touch.
func (b *BoxScore) ensure(playerID, teamID string) *league.PlayerStats {
	if rec, ok := b.records[playerID]; ok {
		return rec
	}
	rec := &league.PlayerStats{
		ID:       uuid.New().String(),
		GameID:   b.gameID,
		PlayerID: playerID,
		TeamID:   teamID,
	}
	b.records[playerID] = rec
	return rec
}

// Apply writes an absolute value to one counter, clamped at zero, and
// recomputes points when a made-shot counter changed. This is the sole
// entry point for manual field edits.
func (b *BoxScore) Apply(playerID, teamID string, field StatField, value int) league.PlayerStats {
	rec := b.ensure(playerID, teamID)
	if value < 0 {
		value = 0
	}
	setStat(rec, field, value)
	if field.pointValue() > 0 {
		recomputePoints(rec)
	}
	return *rec
}

// add shifts one counter by delta, clamped at zero.
func (b *BoxScore) add(playerID, teamID string, field StatField, delta int) *league.PlayerStats {
	rec := b.ensure(playerID, teamID)
	v := statValue(rec, field) + delta
	if v < 0 {
		v = 0
	}
	setStat(rec, field, v)
	if field.pointValue() > 0 {
		recomputePoints(rec)
	}
	return rec
}

// SaveAll materializes every record for persistence, ordered by player.
func (b *BoxScore) SaveAll() []league.PlayerStats {
	out := make([]league.PlayerStats, 0, len(b.records))
	for _, rec := range b.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
