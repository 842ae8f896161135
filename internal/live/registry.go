package live

import (
	"MatchTracker/internal/data"
	"MatchTracker/internal/lineup"
	"MatchTracker/internal/validator"
	"context"
	"errors"
	"sync"
)

// Registry holds the sessions of the games in progress, keyed by game id.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	store    data.Store
	opts     Options
}

func NewRegistry(store data.Store, opts Options) *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
		store:    store,
		opts:     opts,
	}
}

// Start validates and commits the starting lineup of a scheduled game, puts it live and opens
// its session. Validation failures are returned as data.ModelValidationErr.
func (r *Registry) Start(ctx context.Context, gameID int64, squad, starters []int64) (*Session,
	error) {
	game, err := r.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if game.Status != data.GameScheduled {
		return nil, ErrGameNotReady
	}

	players, err := r.store.GetAllPlayers(ctx, game.TeamID)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	lineup.ValidateStartingLineup(v, players, squad, starters, r.opts.Rules)
	if !v.Valid() {
		return nil, data.ModelValidationErr{Errors: v.Errors}
	}

	if err := lineup.Commit(ctx, r.store, gameID, squad, starters); err != nil {
		return nil, err
	}
	return r.Open(ctx, gameID)
}

// Open returns the session of a live game, opening it when needed.
func (r *Registry) Open(ctx context.Context, gameID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[gameID]; ok {
		return s, nil
	}

	s, err := Open(ctx, r.store, gameID, r.opts)
	if err != nil {
		return nil, err
	}
	s.onClose = func() { r.remove(gameID, s) }
	r.sessions[gameID] = s
	return s, nil
}

func (r *Registry) Get(gameID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[gameID]
	return s, ok
}

func (r *Registry) remove(gameID int64, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[gameID] == s {
		delete(r.sessions, gameID)
	}
}

// Close closes the session of a game if one is open.
func (r *Registry) Close(ctx context.Context, gameID int64) error {
	r.mu.Lock()
	s, ok := r.sessions[gameID]
	delete(r.sessions, gameID)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return s.Close(ctx)
}

// CloseAll closes every open session, persisting their clocks.
func (r *Registry) CloseAll(ctx context.Context) error {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		sessions = append(sessions, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		errs = append(errs, s.Close(ctx))
	}
	return errors.Join(errs...)
}
