package league

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackymlr/basketball/internal/store"
)

// snapshotKey is the single store key the whole AppState lives under.
const snapshotKey = "appState"

var ErrNotFound = errors.New("not found")

// Registry owns the in-memory AppState and mirrors every CRUD mutation to
// the snapshot store. The in-memory state is the source of truth; failed
// writes are logged and the session continues.
type Registry struct {
	mu    sync.RWMutex
	state *AppState
	store store.Store
}

func NewRegistry(st store.Store) *Registry {
	return &Registry{
		state: NewAppState(),
		store: st,
	}
}

// Load reads the saved snapshot into memory. Missing or corrupt data
// leaves the registry empty; Load never fails.
func (r *Registry) Load(ctx context.Context) {
	data, err := r.store.LoadSnapshot(ctx, snapshotKey)
	if err != nil {
		log.Printf("League: failed to read snapshot, starting empty: %v", err)
		return
	}
	if data == nil {
		log.Println("League: no saved snapshot, starting empty")
		return
	}

	state := &AppState{}
	if err := json.Unmarshal(data, state); err != nil {
		log.Printf("League: corrupt snapshot, starting empty: %v", err)
		return
	}
	if state.Teams == nil {
		state.Teams = []Team{}
	}
	if state.Players == nil {
		state.Players = []Player{}
	}
	if state.Games == nil {
		state.Games = []Game{}
	}
	if state.PlayerStats == nil {
		state.PlayerStats = make(map[string]*PlayerStats)
	}

	r.mu.Lock()
	r.state = state
	r.mu.Unlock()

	log.Printf("League: loaded %d teams, %d players, %d games, %d stat lines",
		len(state.Teams), len(state.Players), len(state.Games), len(state.PlayerStats))
}

// persistLocked writes the current state to the store. Write errors are
// logged and swallowed; the caller's mutation stands either way.
// Must be called with r.mu held.
func (r *Registry) persistLocked(ctx context.Context) {
	data, err := json.Marshal(r.state)
	if err != nil {
		log.Printf("League: failed to serialize state: %v", err)
		return
	}
	if err := r.store.SaveSnapshot(ctx, snapshotKey, data); err != nil {
		log.Printf("League: failed to save snapshot: %v", err)
	}
}

// StateSnapshot returns a deep copy of the full AppState.
func (r *Registry) StateSnapshot() AppState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := AppState{
		Teams:       append([]Team{}, r.state.Teams...),
		Players:     append([]Player{}, r.state.Players...),
		Games:       make([]Game, 0, len(r.state.Games)),
		PlayerStats: make(map[string]*PlayerStats, len(r.state.PlayerStats)),
	}
	for _, g := range r.state.Games {
		snap.Games = append(snap.Games, cloneGame(g))
	}
	for k, ps := range r.state.PlayerStats {
		rec := *ps
		snap.PlayerStats[k] = &rec
	}
	return snap
}

func cloneGame(g Game) Game {
	if g.HomeQuarterScores != nil {
		g.HomeQuarterScores = append([]int{}, g.HomeQuarterScores...)
	}
	if g.AwayQuarterScores != nil {
		g.AwayQuarterScores = append([]int{}, g.AwayQuarterScores...)
	}
	return g
}

func (r *Registry) Teams() []Team {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Team{}, r.state.Teams...)
}

func (r *Registry) Team(id string) (Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := r.state.Team(id)
	if t == nil {
		return Team{}, ErrNotFound
	}
	return *t, nil
}

func (r *Registry) CreateTeam(ctx context.Context, name, logoURL, description string) Team {
	r.mu.Lock()
	defer r.mu.Unlock()

	team := Team{
		ID:          uuid.New().String(),
		Name:        name,
		LogoURL:     logoURL,
		Description: description,
		CreatedAt:   time.Now(),
	}
	r.state.Teams = append(r.state.Teams, team)
	log.Printf("League: created team %s (%s)", team.Name, team.ID[:8])

	r.persistLocked(ctx)
	return team
}

func (r *Registry) UpdateTeam(ctx context.Context, id, name, logoURL, description string) (Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.state.Team(id)
	if t == nil {
		return Team{}, ErrNotFound
	}
	t.Name = name
	t.LogoURL = logoURL
	t.Description = description

	r.persistLocked(ctx)
	return *t, nil
}

// DeleteTeam removes a team and cascades to its players and their stats.
func (r *Registry) DeleteTeam(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	teams := r.state.Teams[:0]
	for _, t := range r.state.Teams {
		if t.ID == id {
			found = true
			continue
		}
		teams = append(teams, t)
	}
	if !found {
		return ErrNotFound
	}
	r.state.Teams = teams

	players := r.state.Players[:0]
	for _, p := range r.state.Players {
		if p.TeamID == id {
			r.deleteStatsOfPlayerLocked(p.ID)
			continue
		}
		players = append(players, p)
	}
	r.state.Players = players

	log.Printf("League: deleted team %s and its roster", id[:8])
	r.persistLocked(ctx)
	return nil
}

func (r *Registry) Players() []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Player{}, r.state.Players...)
}

func (r *Registry) PlayersOfTeam(teamID string) []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := r.state.PlayersOfTeam(teamID)
	if players == nil {
		players = []Player{}
	}
	return players
}

func (r *Registry) Player(id string) (Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.state.Player(id)
	if p == nil {
		return Player{}, ErrNotFound
	}
	return *p, nil
}

func (r *Registry) CreatePlayer(ctx context.Context, name string, number int, position, teamID string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Team(teamID) == nil {
		return Player{}, ErrNotFound
	}

	player := Player{
		ID:        uuid.New().String(),
		Name:      name,
		Number:    number,
		Position:  position,
		TeamID:    teamID,
		CreatedAt: time.Now(),
	}
	r.state.Players = append(r.state.Players, player)
	log.Printf("League: created player %s (#%d)", player.Name, player.Number)

	r.persistLocked(ctx)
	return player, nil
}

func (r *Registry) UpdatePlayer(ctx context.Context, id, name string, number int, position string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.state.Player(id)
	if p == nil {
		return Player{}, ErrNotFound
	}
	p.Name = name
	p.Number = number
	p.Position = position

	r.persistLocked(ctx)
	return *p, nil
}

// DeletePlayer removes a player and cascades to their stats in all games.
func (r *Registry) DeletePlayer(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	players := r.state.Players[:0]
	for _, p := range r.state.Players {
		if p.ID == id {
			found = true
			continue
		}
		players = append(players, p)
	}
	if !found {
		return ErrNotFound
	}
	r.state.Players = players
	r.deleteStatsOfPlayerLocked(id)

	r.persistLocked(ctx)
	return nil
}

func (r *Registry) deleteStatsOfPlayerLocked(playerID string) {
	for key, ps := range r.state.PlayerStats {
		if ps.PlayerID == playerID {
			delete(r.state.PlayerStats, key)
		}
	}
}

func (r *Registry) Games() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	games := make([]Game, 0, len(r.state.Games))
	for _, g := range r.state.Games {
		games = append(games, cloneGame(g))
	}
	return games
}

func (r *Registry) Game(id string) (Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g := r.state.Game(id)
	if g == nil {
		return Game{}, ErrNotFound
	}
	return cloneGame(*g), nil
}

func (r *Registry) CreateGame(ctx context.Context, homeTeamID, awayTeamID string, date time.Time, location string) (Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Team(homeTeamID) == nil || r.state.Team(awayTeamID) == nil {
		return Game{}, ErrNotFound
	}
	if homeTeamID == awayTeamID {
		return Game{}, errors.New("home and away teams must differ")
	}
	if date.IsZero() {
		date = time.Now()
	}

	game := Game{
		ID:         uuid.New().String(),
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		Date:       date,
		Location:   location,
		Status:     GamePending,
		CreatedAt:  time.Now(),
	}
	r.state.Games = append(r.state.Games, game)
	log.Printf("League: created game %s", game.ID[:8])

	r.persistLocked(ctx)
	return game, nil
}

// DeleteGame removes a game and cascades to its stats.
func (r *Registry) DeleteGame(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	games := r.state.Games[:0]
	for _, g := range r.state.Games {
		if g.ID == id {
			found = true
			continue
		}
		games = append(games, g)
	}
	if !found {
		return ErrNotFound
	}
	r.state.Games = games

	for key, ps := range r.state.PlayerStats {
		if ps.GameID == id {
			delete(r.state.PlayerStats, key)
		}
	}

	log.Printf("League: deleted game %s", id[:8])
	r.persistLocked(ctx)
	return nil
}

// GameStats returns the saved box scores of a game, ordered by player ID.
func (r *Registry) GameStats(gameID string) []PlayerStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := r.state.StatsOfGame(gameID)
	if stats == nil {
		stats = []PlayerStats{}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].PlayerID < stats[j].PlayerID })
	return stats
}

// SetGameStatus writes a new lifecycle status. Transition rules are the
// scoring session's concern; the registry just records and persists.
func (r *Registry) SetGameStatus(ctx context.Context, gameID string, status GameStatus) (Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.state.Game(gameID)
	if g == nil {
		return Game{}, ErrNotFound
	}
	g.Status = status

	r.persistLocked(ctx)
	return cloneGame(*g), nil
}

// CommitGame is the save checkpoint: it replaces the game record (scores,
// status, quarter breakdown) and upserts the given box scores, then
// persists the whole state once.
func (r *Registry) CommitGame(ctx context.Context, game Game, stats []PlayerStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.state.Game(game.ID)
	if g == nil {
		return ErrNotFound
	}
	*g = cloneGame(game)

	for _, ps := range stats {
		rec := ps
		r.state.PlayerStats[StatKey(ps.GameID, ps.PlayerID)] = &rec
	}

	log.Printf("League: committed game %s (%d-%d, %d stat lines)",
		game.ID[:8], game.HomeScore, game.AwayScore, len(stats))
	r.persistLocked(ctx)
	return nil
}
