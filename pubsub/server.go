// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server fans out published messages to every websocket subscriber.
//
// Mount it on an http server and connect with websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   Config
	upgrader websocket.Upgrader
	conns    *Connections

	done      chan struct{}
	closeOnce sync.Once
}

func New(log logging.Logger, config Config) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns: NewConnections(),
		done:  make(chan struct{}),
	}
}

// ServeHTTP upgrades the request and registers the subscriber.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		send: make(chan []byte, s.config.MaxPendingMessages),
	}
	conn.active.Store(true)
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every subscriber.
func (s *Server) Publish(msg []byte) {
	for _, conn := range s.conns.Conns() {
		if !conn.Send(msg) {
			s.log.Verbo("dropping message to subscriber")
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (s *Server) Subscribers() int {
	return s.conns.Len()
}

// Close disconnects every subscriber.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
