// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/pebble"
	"github.com/ava-labs/fortunevm/trace"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the node-local configuration of a FortuneVM instance. Anything
// that changes how actions execute belongs in genesis rules instead.
type Config struct {
	LogLevel logging.Level `json:"logLevel"`
	LogDir   string        `json:"logDir"`

	// DataDir holds the pebble state database. State is kept in memory when
	// it is empty.
	DataDir string        `json:"dataDir"`
	Pebble  pebble.Config `json:"pebble"`

	ExecutionCores int  `json:"executionCores"`
	MaxBatchSize   int  `json:"maxBatchSize"`
	MetricsEnabled bool `json:"metricsEnabled"`

	Trace trace.Config `json:"trace"`
}

func NewConfig() Config {
	return Config{
		LogLevel:       logging.Info,
		Pebble:         pebble.NewDefaultConfig(),
		ExecutionCores: 1,
		MaxBatchSize:   1_024,
		MetricsEnabled: true,
		Trace: trace.Config{
			SampleRate: 0.1,
			Endpoint:   trace.DefaultEndpoint,
			AppName:    consts.Name,
			Version:    consts.Version.String(),
		},
	}
}

// Load overlays [b] on the defaults.
func Load(b []byte) (Config, error) {
	c := NewConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	if err := c.Verify(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Verify() error {
	switch {
	case c.ExecutionCores <= 0:
		return fmt.Errorf("%w: executionCores=%d", ErrInvalidConfig, c.ExecutionCores)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: maxBatchSize=%d", ErrInvalidConfig, c.MaxBatchSize)
	}
	if err := c.Trace.Verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
