package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendBufferSize = 64
	writeWait      = 10 * time.Second
)

// Client is one authenticated websocket connection bound to a player and the
// room they joined.
type Client struct {
	playerID uuid.UUID
	roomID   uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	logger   logrus.FieldLogger
}

func newClient(conn *websocket.Conn, playerID, roomID uuid.UUID, logger logrus.FieldLogger) *Client {
	return &Client{
		playerID: playerID,
		roomID:   roomID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		logger:   logger.WithField("playerID", playerID),
	}
}

// trySend queues a frame without ever blocking. Frames to a client whose
// buffer is full are dropped; the tick loop rebroadcasts full state, so
// nothing is permanently lost.
func (c *Client) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping frame")
	}
}

// writePump drains the send channel onto the connection. It exits when the
// channel closes or a write fails; meant to run on its own goroutine.
func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.logger.WithError(err).Warn("websocket write failed")
			return
		}
	}
}

// readPump reads frames until the connection drops and hands each decoded
// message to the dispatcher. Undecodable frames are skipped.
func (c *Client) readPump(dispatch func(*Client, clientMessage) bool) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Warn("websocket read failed")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.WithError(err).Warn("dropping malformed frame")
			continue
		}
		if !dispatch(c, msg) {
			return
		}
	}
}
