// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var (
	_ Database  = (*BatchDatabase)(nil)
	_ Immutable = (*BatchDatabase)(nil)
)

// BatchDatabase adapts any avalanchego [database.Database] (memdb, leveldb,
// prefixdb...) to [Database].
type BatchDatabase struct {
	database.Database
}

func NewBatchDatabase(db database.Database) *BatchDatabase {
	return &BatchDatabase{db}
}

func (b *BatchDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return b.Get(key)
}

func (b *BatchDatabase) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := b.NewBatch()
	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}
