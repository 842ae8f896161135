package lineup

import (
	"MatchTracker/internal/config"
	"MatchTracker/internal/data"
	"MatchTracker/internal/validator"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

var ErrNotInLineup = errors.New("player is not in the game lineup")

// ValidateStartingLineup checks a squad selection against the team roster before it is
// committed. Every squad member not named in starters goes to the bench.
func ValidateStartingLineup(v *validator.Validator, roster []*data.Player, squad,
	starters []int64, rules config.Rules) {
	v.Check(len(starters) == rules.Starters, "starters",
		fmt.Sprintf("must contain exactly %d players", rules.Starters))
	v.Check(validator.Unique(squad), "squad", "must not contain duplicates")
	v.Check(validator.Unique(starters), "starters", "must not contain duplicates")
	v.Check(validator.Subset(starters, squad), "starters", "must be part of the squad")

	byID := make(map[int64]*data.Player, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}
	for _, id := range squad {
		if _, ok := byID[id]; !ok {
			v.AddError("squad", fmt.Sprintf("player %d is not on the team roster", id))
		}
	}

	if rules.RequireGoalkeeper {
		v.Check(slices.ContainsFunc(starters, func(id int64) bool {
			p, ok := byID[id]
			return ok && p.HasPosition(data.PositionGK)
		}), "starters", "must include a goalkeeper")
	}
}

// Commit writes the lineup of a game and puts the game live. Starters enter at 0 and bench
// players have no in time.
func Commit(ctx context.Context, store data.Store, gameID int64, squad, starters []int64) error {
	entries := make([]*data.LineupEntry, 0, len(squad))
	for _, id := range squad {
		entry := &data.LineupEntry{PlayerID: id}
		if slices.Contains(starters, id) {
			in := 0
			entry.IsStarter = true
			entry.InTime = &in
		}
		entries = append(entries, entry)
	}

	live := data.GameLive
	return store.Tx(ctx, func(tx data.Store) error {
		if err := tx.SetGameLineup(ctx, gameID, entries); err != nil {
			return err
		}
		_, err := tx.UpdateGame(ctx, gameID, data.GameUpdate{Status: &live})
		return err
	})
}

// Manager tracks the on-field and bench partition of one game.
type Manager struct {
	mu      sync.Mutex
	store   data.Store
	gameID  int64
	entries []*data.LineupEntry
	logger  zerolog.Logger
}

func Load(ctx context.Context, store data.Store, gameID int64, logger zerolog.Logger) (*Manager,
	error) {
	m := &Manager{
		store:  store,
		gameID: gameID,
		logger: logger.With().Int64("game_id", gameID).Logger(),
	}
	if err := m.refresh(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) refresh(ctx context.Context) error {
	entries, err := m.store.GetGameLineup(ctx, m.gameID)
	if err != nil {
		return fmt.Errorf("failed to load lineup: %w", err)
	}
	m.entries = entries
	return nil
}

func (m *Manager) Entries() []*data.LineupEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

// PlayerEntries returns the entries of one player, oldest first.
func (m *Manager) PlayerEntries(playerID int64) []*data.LineupEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]*data.LineupEntry, 0, 1)
	for _, e := range m.entries {
		if e.PlayerID == playerID {
			entries = append(entries, e)
		}
	}
	return entries
}

// ActivePlayerIDs returns the players currently on the field in ascending id order.
func (m *Manager) ActivePlayerIDs() []int64 {
	return m.partition(true)
}

// BenchPlayerIDs returns the lineup players not currently on the field.
func (m *Manager) BenchPlayerIDs() []int64 {
	return m.partition(false)
}

func (m *Manager) partition(active bool) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	on := make(map[int64]bool)
	for _, e := range m.entries {
		if e.IsActive() {
			on[e.PlayerID] = true
		}
	}

	ids := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, e := range m.entries {
		if seen[e.PlayerID] || on[e.PlayerID] != active {
			continue
		}
		seen[e.PlayerID] = true
		ids = append(ids, e.PlayerID)
	}
	slices.Sort(ids)
	return ids
}

func (m *Manager) IsActive(playerID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.entries, func(e *data.LineupEntry) bool {
		return e.PlayerID == playerID && e.IsActive()
	})
}

func (m *Manager) InLineup(playerID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.entries, func(e *data.LineupEntry) bool {
		return e.PlayerID == playerID
	})
}

// Substitute closes the active entry of playerOut at the given time and opens the entry of
// playerIn, re-activating it when the player had already come off. Both updates commit
// together and the lineup is reloaded afterwards.
func (m *Manager) Substitute(ctx context.Context, playerOut, playerIn int64, at int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	outEntry := m.find(playerOut, (*data.LineupEntry).IsActive)
	inEntry := m.find(playerIn, func(e *data.LineupEntry) bool { return !e.IsActive() })
	if inEntry == nil {
		inEntry = m.find(playerIn, func(*data.LineupEntry) bool { return true })
	}
	if inEntry == nil {
		return fmt.Errorf("%w: %d", ErrNotInLineup, playerIn)
	}

	err := m.store.Tx(ctx, func(tx data.Store) error {
		if outEntry != nil {
			if err := tx.UpdateLineupEntry(ctx, outEntry.ID,
				data.LineupUpdate{OutTime: &at}); err != nil {
				return err
			}
		}
		return tx.UpdateLineupEntry(ctx, inEntry.ID,
			data.LineupUpdate{InTime: &at, ClearOutTime: true})
	})
	if err != nil {
		m.logger.Error().Err(err).Int64("player_out", playerOut).Int64("player_in", playerIn).
			Msg("substitution failed")
		return err
	}

	if err := m.refresh(ctx); err != nil {
		return err
	}
	m.logger.Info().Int64("player_out", playerOut).Int64("player_in", playerIn).Int("at", at).
		Msg("substitution")
	return nil
}

// find returns the latest entry of a player matching keep.
func (m *Manager) find(playerID int64, keep func(*data.LineupEntry) bool) *data.LineupEntry {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if e := m.entries[i]; e.PlayerID == playerID && keep(e) {
			return e
		}
	}
	return nil
}
