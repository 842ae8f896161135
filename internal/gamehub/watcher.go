package gamehub

import (
	"github.com/gorilla/websocket"
)

type Watcher struct {
	client
	Hub *Hub
}

func newWatcher(hub *Hub, conn *websocket.Conn) *Watcher {
	return &Watcher{client: newClient(conn), Hub: hub}
}

func (w *Watcher) WriteEvents() {
	defer w.Hub.LeaveWatcher(w)
	w.writeEvents()
}

// ReadEvents discards anything a watcher sends. Reading keeps pong and close frames flowing.
func (w *Watcher) ReadEvents() {
	defer func() {
		w.Hub.LeaveWatcher(w)
		_ = w.Conn.Close()
	}()
	w.prepareRead()

	for {
		if _, _, err := w.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
