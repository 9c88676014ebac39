// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import "errors"

var (
	ErrClosed         = errors.New("vm closed")
	ErrUnknownAction  = errors.New("unknown action")
	ErrNoSubmissions  = errors.New("no submissions")
	ErrCorruptedSlots = errors.New("slot history is empty")
)
