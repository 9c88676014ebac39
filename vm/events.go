// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/fortunevm/codec"
)

// Event describes a processed action.
type Event struct {
	Slot    uint64        `json:"slot"`
	TxID    ids.ID        `json:"txId"`
	Action  string        `json:"action"`
	Actor   codec.Address `json:"actor"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	// Result is the decoded output of an accepted action, if it has one.
	Result interface{} `json:"result,omitempty"`
}

// Listener is called with every processed action in execution order.
// It runs while the VM is locked and must not call back into it.
type Listener func(*Event)

// Subscribe registers [l] for every action processed from now on.
func (vm *VM) Subscribe(l Listener) {
	vm.l.Lock()
	defer vm.l.Unlock()

	vm.listeners = append(vm.listeners, l)
}

// Assumes [vm.l] is held
func (vm *VM) notify(e *Event) {
	for _, l := range vm.listeners {
		l(e)
	}
}
