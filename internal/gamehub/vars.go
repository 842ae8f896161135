package gamehub

import (
	"errors"
	"time"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 1 * time.Minute

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for a keeper command to reach the store.
	commandTimeout = 5 * time.Second

	sendBuffer = 16
)

var (
	newline                    = []byte{'\n'}
	ErrCommandParseFailed      = errors.New("could not parse keeper command")
	ErrCommandValidationFailed = errors.New("command validation failed")
	ErrHubClosed               = errors.New("game hub is closed")
)
