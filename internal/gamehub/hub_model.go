package gamehub

import (
	"MatchTracker/internal/live"
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// HubModel keeps one running hub per game in progress.
type HubModel struct {
	mu       sync.Mutex
	active   map[int64]*Hub
	sessions *live.Registry
	logger   zerolog.Logger
}

func NewHubModel(sessions *live.Registry, logger zerolog.Logger) *HubModel {
	return &HubModel{
		active:   make(map[int64]*Hub),
		sessions: sessions,
		logger:   logger,
	}
}

// Get returns the hub of a game, opening its live session and starting the hub when needed.
// Errors from live.Registry.Open are returned unchanged.
func (m *HubModel) Get(ctx context.Context, gameID int64) (*Hub, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.active[gameID]; ok {
		select {
		case <-hub.Done():
		default:
			return hub, nil
		}
	}

	session, err := m.sessions.Open(ctx, gameID)
	if err != nil {
		return nil, err
	}

	hub := NewHub(session, m.logger)
	m.active[gameID] = hub
	go func() {
		hub.Run()
		m.remove(gameID, hub)
	}()
	return hub, nil
}

func (m *HubModel) remove(gameID int64, hub *Hub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active[gameID] == hub {
		delete(m.active, gameID)
	}
}

func (m *HubModel) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}
