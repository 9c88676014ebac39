// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import "errors"

var (
	ErrStopped      = errors.New("stopped")
	ErrTooManyTasks = errors.New("too many tasks enqueued")
)
