package gamehub

import (
	"MatchTracker/internal/live"
	"context"
	json2 "encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

type Keeper struct {
	client
	Hub *Hub
}

func newKeeper(hub *Hub, conn *websocket.Conn) *Keeper {
	return &Keeper{client: newClient(conn), Hub: hub}
}

func (k *Keeper) WriteEvents() {
	defer k.Hub.LeaveKeeper(k)
	k.writeEvents()
}

// ReadEvents parses keeper commands and hands them to the hub. Malformed commands are
// answered with an error message on the same connection.
func (k *Keeper) ReadEvents() {
	defer func() {
		k.Hub.LeaveKeeper(k)
		_ = k.Conn.Close()
	}()
	k.prepareRead()

	for {
		_, bytes, err := k.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				k.Hub.logger.Warn().Err(err).Stringer("conn_id", k.ID).Msg("keeper connection lost")
			}
			return
		}

		var generic GenericCommand
		if err := json2.Unmarshal(bytes, &generic); err != nil {
			k.Hub.submit(k, rejectedCommand{fmt.Errorf("%w: %w", ErrCommandParseFailed, err)})
			continue
		}

		command, err := generic.parseCommand()
		if err != nil {
			k.Hub.submit(k, rejectedCommand{err})
			continue
		}
		k.Hub.submit(k, command)
	}
}

// rejectedCommand carries a parse error back through the hub to its keeper.
type rejectedCommand struct {
	err error
}

func (c rejectedCommand) execute(context.Context, *live.Session) error {
	return c.err
}

func (c *client) prepareRead() {
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

// writeEvents pumps Receive to the connection and pings the peer. It returns when Receive is
// closed or a write fails, closing the connection.
func (c *client) writeEvents() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Receive:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			writer, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = writer.Write(msg)

			n := len(c.Receive)
			for i := 0; i < n; i++ {
				_, _ = writer.Write(newline)
				_, _ = writer.Write(<-c.Receive)
			}

			if err := writer.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
