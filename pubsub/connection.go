// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Connection is a single subscriber.
type Connection struct {
	s    *Server
	conn *websocket.Conn

	// Outbound messages.
	send chan []byte

	active atomic.Bool
}

// Send queues [msg] and reports whether it was accepted. Messages are
// dropped when the subscriber is gone or too far behind.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Connection) deactivate() {
	c.active.Store(false)
	c.s.conns.Remove(c)
	// close is called by both pumps so one of them will always error
	_ = c.conn.Close()
}

// readPump only services control frames. Subscribers have nothing to say
// beyond keeping the connection alive.
func (c *Connection) readPump() {
	defer c.deactivate()

	c.conn.SetReadLimit(int64(c.s.config.MaxReadMessageSize))
	if err := c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
	})
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				c.s.log.Debug("unexpected close in websockets",
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.deactivate()
	}()
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.s.log.Debug("closing the connection",
					zap.String("reason", "failed to write message"),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.s.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
