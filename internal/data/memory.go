package data

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type memTables struct {
	teams   map[int64]*Team
	players map[int64]*Player
	games   map[int64]*Game
	lineups map[int64]*LineupEntry
	events  map[int64]*Event
	seq     struct{ team, player, game, lineup, event int64 }
}

func newMemTables() *memTables {
	return &memTables{
		teams:   make(map[int64]*Team),
		players: make(map[int64]*Player),
		games:   make(map[int64]*Game),
		lineups: make(map[int64]*LineupEntry),
		events:  make(map[int64]*Event),
	}
}

func (t *memTables) clone() *memTables {
	c := newMemTables()
	c.seq = t.seq
	for id, v := range t.teams {
		team := *v
		c.teams[id] = &team
	}
	for id, v := range t.players {
		c.players[id] = clonePlayer(v)
	}
	for id, v := range t.games {
		game := *v
		c.games[id] = &game
	}
	for id, v := range t.lineups {
		c.lineups[id] = v.clone()
	}
	for id, v := range t.events {
		c.events[id] = v.clone()
	}
	return c
}

func clonePlayer(p *Player) *Player {
	c := *p
	c.Positions = slices.Clone(p.Positions)
	return &c
}

// MemoryStore keeps every table in process memory. Transactions work on a copy of the tables
// that replaces the original only when fn succeeds.
type MemoryStore struct {
	mu     *sync.Mutex
	tables *memTables
	inTx   bool
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:     &sync.Mutex{},
		tables: newMemTables(),
		now:    time.Now,
	}
}

// view returns the tables to operate on and a release func.
func (s *MemoryStore) view() (*memTables, func()) {
	if s.inTx {
		return s.tables, func() {}
	}
	s.mu.Lock()
	return s.tables, s.mu.Unlock
}

func (s *MemoryStore) Tx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{tables: s.tables.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.tables = tx.tables
	return nil
}

func (s *MemoryStore) InsertTeam(_ context.Context, team *Team) error {
	t, release := s.view()
	defer release()

	t.seq.team++
	team.ID = t.seq.team
	team.CreatedAt = s.now()
	team.Version = 1
	stored := *team
	t.teams[team.ID] = &stored
	return nil
}

func (s *MemoryStore) GetTeam(_ context.Context, id int64) (*Team, error) {
	t, release := s.view()
	defer release()

	team, ok := t.teams[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	c := *team
	return &c, nil
}

func (s *MemoryStore) GetAllTeams(_ context.Context) ([]*Team, error) {
	t, release := s.view()
	defer release()

	teams := make([]*Team, 0, len(t.teams))
	for _, team := range t.teams {
		c := *team
		teams = append(teams, &c)
	}
	slices.SortFunc(teams, func(a, b *Team) int { return cmp.Compare(a.ID, b.ID) })
	return teams, nil
}

func (s *MemoryStore) UpdateTeam(_ context.Context, team *Team) error {
	t, release := s.view()
	defer release()

	stored, ok := t.teams[team.ID]
	if !ok {
		return ErrRecordNotFound
	}
	if stored.Version != team.Version {
		return ErrEditConflict
	}
	stored.Name = team.Name
	stored.Version++
	team.Version = stored.Version
	return nil
}

func (s *MemoryStore) DeleteTeam(_ context.Context, id int64) error {
	t, release := s.view()
	defer release()

	if _, ok := t.teams[id]; !ok {
		return ErrRecordNotFound
	}
	if len(t.teams) == 1 {
		return ErrLastTeam
	}

	for gameID, g := range t.games {
		if g.TeamID == id {
			t.deleteGame(gameID)
		}
	}
	for playerID, p := range t.players {
		if p.TeamID == id {
			delete(t.players, playerID)
		}
	}
	delete(t.teams, id)
	return nil
}

func (s *MemoryStore) InsertPlayer(_ context.Context, player *Player) error {
	t, release := s.view()
	defer release()

	if _, ok := t.teams[player.TeamID]; !ok {
		return ErrRecordNotFound
	}
	t.seq.player++
	player.ID = t.seq.player
	player.CreatedAt = s.now()
	player.Version = 1
	t.players[player.ID] = clonePlayer(player)
	return nil
}

func (s *MemoryStore) GetPlayer(_ context.Context, id int64) (*Player, error) {
	t, release := s.view()
	defer release()

	p, ok := t.players[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return clonePlayer(p), nil
}

func (s *MemoryStore) GetAllPlayers(_ context.Context, teamID int64) ([]*Player, error) {
	t, release := s.view()
	defer release()

	players := make([]*Player, 0)
	for _, p := range t.players {
		if p.TeamID == teamID {
			players = append(players, clonePlayer(p))
		}
	}
	sortPlayers(players)
	return players, nil
}

func (s *MemoryStore) UpdatePlayer(_ context.Context, player *Player) error {
	t, release := s.view()
	defer release()

	stored, ok := t.players[player.ID]
	if !ok {
		return ErrRecordNotFound
	}
	if stored.Version != player.Version {
		return ErrEditConflict
	}
	player.Version++
	player.TeamID = stored.TeamID
	player.CreatedAt = stored.CreatedAt
	t.players[player.ID] = clonePlayer(player)
	return nil
}

func (s *MemoryStore) DeletePlayer(_ context.Context, id int64) error {
	t, release := s.view()
	defer release()

	if _, ok := t.players[id]; !ok {
		return ErrRecordNotFound
	}
	for _, e := range t.lineups {
		if e.PlayerID == id {
			return ErrPlayerInUse
		}
	}
	for _, e := range t.events {
		if e.PlayerID == id {
			return ErrPlayerInUse
		}
	}
	delete(t.players, id)
	return nil
}

func (s *MemoryStore) InsertGame(_ context.Context, game *Game) error {
	t, release := s.view()
	defer release()

	if _, ok := t.teams[game.TeamID]; !ok {
		return ErrRecordNotFound
	}
	game.setDefaults()
	t.seq.game++
	game.ID = t.seq.game
	game.CreatedAt = s.now()
	stored := *game
	t.games[game.ID] = &stored
	return nil
}

func (s *MemoryStore) GetGame(_ context.Context, id int64) (*Game, error) {
	t, release := s.view()
	defer release()

	g, ok := t.games[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	c := *g
	return &c, nil
}

func (s *MemoryStore) GetAllGames(_ context.Context, teamID int64) ([]*Game, error) {
	t, release := s.view()
	defer release()

	games := make([]*Game, 0)
	for _, g := range t.games {
		if g.TeamID == teamID {
			c := *g
			games = append(games, &c)
		}
	}
	sortGames(games)
	return games, nil
}

func (s *MemoryStore) UpdateGame(_ context.Context, id int64, update GameUpdate) (*Game, error) {
	t, release := s.view()
	defer release()

	g, ok := t.games[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	update.apply(g)
	c := *g
	return &c, nil
}

func (s *MemoryStore) DeleteGame(_ context.Context, id int64) error {
	t, release := s.view()
	defer release()

	if _, ok := t.games[id]; !ok {
		return ErrRecordNotFound
	}
	t.deleteGame(id)
	return nil
}

func (t *memTables) deleteGame(id int64) {
	for entryID, e := range t.lineups {
		if e.GameID == id {
			delete(t.lineups, entryID)
		}
	}
	for eventID, e := range t.events {
		if e.GameID == id {
			delete(t.events, eventID)
		}
	}
	delete(t.games, id)
}

func (s *MemoryStore) SetGameLineup(_ context.Context, gameID int64, entries []*LineupEntry) error {
	t, release := s.view()
	defer release()

	if _, ok := t.games[gameID]; !ok {
		return ErrRecordNotFound
	}
	for _, e := range entries {
		if _, ok := t.players[e.PlayerID]; !ok {
			return ErrRecordNotFound
		}
	}

	for id, e := range t.lineups {
		if e.GameID == gameID {
			delete(t.lineups, id)
		}
	}
	for _, e := range entries {
		t.seq.lineup++
		e.ID = t.seq.lineup
		e.GameID = gameID
		t.lineups[e.ID] = e.clone()
	}
	return nil
}

func (s *MemoryStore) GetGameLineup(_ context.Context, gameID int64) ([]*LineupEntry, error) {
	t, release := s.view()
	defer release()

	return t.collectLineups(func(e *LineupEntry) bool { return e.GameID == gameID }), nil
}

func (s *MemoryStore) GetPlayerLineups(_ context.Context, playerID int64) ([]*LineupEntry, error) {
	t, release := s.view()
	defer release()

	return t.collectLineups(func(e *LineupEntry) bool { return e.PlayerID == playerID }), nil
}

func (t *memTables) collectLineups(keep func(*LineupEntry) bool) []*LineupEntry {
	entries := make([]*LineupEntry, 0)
	for _, e := range t.lineups {
		if keep(e) {
			entries = append(entries, e.clone())
		}
	}
	slices.SortFunc(entries, func(a, b *LineupEntry) int { return cmp.Compare(a.ID, b.ID) })
	return entries
}

func (s *MemoryStore) UpdateLineupEntry(_ context.Context, id int64, update LineupUpdate) error {
	t, release := s.view()
	defer release()

	e, ok := t.lineups[id]
	if !ok {
		return ErrRecordNotFound
	}
	update.apply(e)
	return nil
}

func (s *MemoryStore) AddGameEvent(_ context.Context, event *Event) (int64, error) {
	t, release := s.view()
	defer release()

	if _, ok := t.games[event.GameID]; !ok {
		return 0, ErrRecordNotFound
	}
	if event.LinkedEventID != nil {
		if _, ok := t.events[*event.LinkedEventID]; !ok {
			return 0, ErrRecordNotFound
		}
	}
	t.seq.event++
	event.ID = t.seq.event
	t.events[event.ID] = event.clone()
	return event.ID, nil
}

func (s *MemoryStore) DeleteGameEvent(_ context.Context, id int64) error {
	t, release := s.view()
	defer release()

	if _, ok := t.events[id]; !ok {
		return ErrRecordNotFound
	}
	delete(t.events, id)
	for _, e := range t.events {
		if e.LinkedEventID != nil && *e.LinkedEventID == id {
			e.LinkedEventID = nil
		}
	}
	return nil
}

func (s *MemoryStore) GetGameEvents(_ context.Context, gameID int64) ([]*Event, error) {
	t, release := s.view()
	defer release()

	return t.collectEvents(func(e *Event) bool { return e.GameID == gameID }), nil
}

func (s *MemoryStore) GetPlayerEvents(_ context.Context, playerID int64) ([]*Event, error) {
	t, release := s.view()
	defer release()

	return t.collectEvents(func(e *Event) bool { return e.PlayerID == playerID }), nil
}

func (t *memTables) collectEvents(keep func(*Event) bool) []*Event {
	events := make([]*Event, 0)
	for _, e := range t.events {
		if keep(e) {
			events = append(events, e.clone())
		}
	}
	slices.SortFunc(events, func(a, b *Event) int { return cmp.Compare(a.ID, b.ID) })
	return events
}

func (s *MemoryStore) Export(_ context.Context) (*Backup, error) {
	t, release := s.view()
	defer release()

	c := t.clone()
	b := &Backup{Version: BackupVersion, ExportDate: s.now()}
	b.Data.Teams = sortedValues(c.teams, func(v *Team) int64 { return v.ID })
	b.Data.Players = sortedValues(c.players, func(v *Player) int64 { return v.ID })
	b.Data.Games = sortedValues(c.games, func(v *Game) int64 { return v.ID })
	b.Data.GameLineups = sortedValues(c.lineups, func(v *LineupEntry) int64 { return v.ID })
	b.Data.GameEvents = sortedValues(c.events, func(v *Event) int64 { return v.ID })
	return b, nil
}

func (s *MemoryStore) Import(_ context.Context, backup *Backup) error {
	if err := backup.prepare(); err != nil {
		return err
	}

	t, release := s.view()
	defer release()

	fresh := newMemTables()
	for _, v := range backup.Data.Teams {
		team := *v
		team.Version = max(team.Version, 1)
		fresh.teams[team.ID] = &team
		fresh.seq.team = max(fresh.seq.team, team.ID)
	}
	for _, v := range backup.Data.Players {
		player := clonePlayer(v)
		player.Version = max(player.Version, 1)
		fresh.players[v.ID] = player
		fresh.seq.player = max(fresh.seq.player, v.ID)
	}
	for _, v := range backup.Data.Games {
		game := *v
		game.setDefaults()
		fresh.games[game.ID] = &game
		fresh.seq.game = max(fresh.seq.game, game.ID)
	}
	for _, v := range backup.Data.GameLineups {
		fresh.lineups[v.ID] = v.clone()
		fresh.seq.lineup = max(fresh.seq.lineup, v.ID)
	}
	for _, v := range backup.Data.GameEvents {
		fresh.events[v.ID] = v.clone()
		fresh.seq.event = max(fresh.seq.event, v.ID)
	}

	*t = *fresh
	return nil
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	values := make([]T, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return values
}
