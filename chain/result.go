// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/ava-labs/avalanchego/ids"

type Result struct {
	TxID    ids.ID
	Success bool
	// Err is set when the action was rejected. None of its changes were
	// persisted.
	Err error

	Outputs [][]byte
}
