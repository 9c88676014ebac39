// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/avalanchego/api/metrics"

	"github.com/ava-labs/fortunevm/pebble"
	"github.com/ava-labs/fortunevm/utils"
)

// New opens the pebble state database in [dataDir]/[namespace] and registers
// its metrics under [namespace].
func New(cfg pebble.Config, dataDir string, namespace string, gatherer metrics.MultiGatherer) (*pebble.Database, error) {
	path, err := utils.InitSubDirectory(dataDir, namespace)
	if err != nil {
		return nil, err
	}

	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, err
	}

	if err := gatherer.Register(namespace, registry); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
