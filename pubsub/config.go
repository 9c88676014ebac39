// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

type Config struct {
	ReadBufferSize  int `json:"readBufferSize"`
	WriteBufferSize int `json:"writeBufferSize"`
	// Messages beyond this many queued for one subscriber are dropped.
	MaxPendingMessages int `json:"maxPendingMessages"`
	MaxReadMessageSize int `json:"maxReadMessageSize"`

	WriteWait time.Duration `json:"writeWait"`
	PongWait  time.Duration `json:"pongWait"`
	// Must be less than PongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
}

func NewDefaultConfig() Config {
	pongWait := 60 * time.Second
	return Config{
		ReadBufferSize:     units.KiB,
		WriteBufferSize:    units.KiB,
		MaxPendingMessages: 1_024,
		MaxReadMessageSize: units.KiB,
		WriteWait:          10 * time.Second,
		PongWait:           pongWait,
		PingPeriod:         (pongWait * 9) / 10,
	}
}
