package gamehub

import (
	"MatchTracker/internal/live"
	"context"
	json2 "encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type envelope map[string]any

type keeperCommand struct {
	keeper  *Keeper
	command Command
}

// Hub fans a live session out to websocket clients. Keepers send commands and receive
// snapshots plus their own errors; watchers only receive snapshots. All client bookkeeping
// happens on the Run goroutine.
type Hub struct {
	session      *live.Session
	keepers      map[*Keeper]bool
	watchers     map[*Watcher]bool
	joinKeeper   chan *Keeper
	leaveKeeper  chan *Keeper
	joinWatcher  chan *Watcher
	leaveWatcher chan *Watcher
	commands     chan keeperCommand
	done         chan struct{}
	logger       zerolog.Logger
}

func NewHub(session *live.Session, logger zerolog.Logger) *Hub {
	return &Hub{
		session:      session,
		keepers:      make(map[*Keeper]bool),
		watchers:     make(map[*Watcher]bool),
		joinKeeper:   make(chan *Keeper),
		leaveKeeper:  make(chan *Keeper),
		joinWatcher:  make(chan *Watcher),
		leaveWatcher: make(chan *Watcher),
		commands:     make(chan keeperCommand),
		done:         make(chan struct{}),
		logger:       logger.With().Int64("game_id", session.GameID()).Logger(),
	}
}

// Done is closed once the session has ended and every client was released.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) JoinKeeper(conn *websocket.Conn) error {
	keeper := newKeeper(h, conn)
	select {
	case h.joinKeeper <- keeper:
	case <-h.done:
		_ = conn.Close()
		return ErrHubClosed
	}

	go keeper.WriteEvents()
	go keeper.ReadEvents()
	return nil
}

func (h *Hub) JoinWatcher(conn *websocket.Conn) error {
	watcher := newWatcher(h, conn)
	select {
	case h.joinWatcher <- watcher:
	case <-h.done:
		_ = conn.Close()
		return ErrHubClosed
	}

	go watcher.WriteEvents()
	go watcher.ReadEvents()
	return nil
}

func (h *Hub) LeaveKeeper(k *Keeper) {
	select {
	case h.leaveKeeper <- k:
	case <-h.done:
	}
}

func (h *Hub) LeaveWatcher(w *Watcher) {
	select {
	case h.leaveWatcher <- w:
	case <-h.done:
	}
}

func (h *Hub) submit(k *Keeper, cmd Command) {
	select {
	case h.commands <- keeperCommand{keeper: k, command: cmd}:
	case <-h.done:
	}
}

func (h *Hub) Run() {
	updates, cancel := h.session.Subscribe()
	defer cancel()
	defer close(h.done)

	for {
		select {
		case keeper := <-h.joinKeeper:
			h.keepers[keeper] = true
			h.logger.Info().Stringer("conn_id", keeper.ID).Msg("keeper joined")
			keeper.trySend(h.snapshotMessage(h.session.Snapshot()))
		case keeper := <-h.leaveKeeper:
			if _, ok := h.keepers[keeper]; ok {
				delete(h.keepers, keeper)
				close(keeper.Receive)
				h.logger.Info().Stringer("conn_id", keeper.ID).Msg("keeper left")
			}
		case watcher := <-h.joinWatcher:
			h.watchers[watcher] = true
			watcher.trySend(h.snapshotMessage(h.session.Snapshot()))
		case watcher := <-h.leaveWatcher:
			if _, ok := h.watchers[watcher]; ok {
				delete(h.watchers, watcher)
				close(watcher.Receive)
			}
		case kc := <-h.commands:
			h.execute(kc)
		case snap, ok := <-updates:
			if !ok {
				h.closeAll()
				return
			}
			h.ToAll(h.snapshotMessage(snap))
		}
	}
}

func (h *Hub) execute(kc keeperCommand) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := kc.command.execute(ctx, h.session); err != nil {
		h.logger.Warn().Err(err).Stringer("conn_id", kc.keeper.ID).Msg("keeper command rejected")
		h.sendError(kc.keeper, err)
	}
}

func (h *Hub) sendError(k *Keeper, err error) {
	if _, ok := h.keepers[k]; !ok {
		return
	}
	if !k.trySend(h.toByteArr(envelope{"type": "error", "error": err.Error()})) {
		delete(h.keepers, k)
		close(k.Receive)
	}
}

// ToAll offers msg to every client. A client whose buffer is full is dropped.
func (h *Hub) ToAll(msg []byte) {
	for keeper := range h.keepers {
		if !keeper.trySend(msg) {
			close(keeper.Receive)
			delete(h.keepers, keeper)
		}
	}
	for watcher := range h.watchers {
		if !watcher.trySend(msg) {
			close(watcher.Receive)
			delete(h.watchers, watcher)
		}
	}
}

func (h *Hub) closeAll() {
	for keeper := range h.keepers {
		close(keeper.Receive)
		delete(h.keepers, keeper)
	}
	for watcher := range h.watchers {
		close(watcher.Receive)
		delete(h.watchers, watcher)
	}
	h.logger.Info().Msg("game hub closed")
}

func (h *Hub) snapshotMessage(snap live.Snapshot) []byte {
	return h.toByteArr(envelope{"type": "snapshot", "snapshot": snap})
}

func (h *Hub) toByteArr(env envelope) []byte {
	b, err := json2.Marshal(env)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode hub message")
		return nil
	}
	return b
}

// client is the connection half shared by keepers and watchers.
type client struct {
	ID      uuid.UUID
	Conn    *websocket.Conn
	Receive chan []byte
}

func newClient(conn *websocket.Conn) client {
	return client{
		ID:      uuid.New(),
		Conn:    conn,
		Receive: make(chan []byte, sendBuffer),
	}
}

func (c *client) trySend(msg []byte) bool {
	if msg == nil {
		return true
	}
	select {
	case c.Receive <- msg:
		return true
	default:
		return false
	}
}
