// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/fortunevm/chain"
)

// FromJSON builds the action registered as [name] from its JSON fields.
func FromJSON(name string, params []byte) (chain.Action, error) {
	action, ok := New(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	if len(params) == 0 {
		return action, nil
	}
	if err := json.Unmarshal(params, action); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return action, nil
}

// DecodeOutputs parses the result of the action registered as [name].
// Actions without a typed result return [outputs] unchanged.
func DecodeOutputs(name string, outputs [][]byte) (interface{}, error) {
	if len(outputs) == 0 {
		return nil, nil
	}
	switch name {
	case CreatePoolName:
		return UnmarshalCreatePoolResult(outputs[0])
	case BuyName:
		return UnmarshalBuyResult(outputs[0])
	case ExecuteBurnName:
		return UnmarshalExecuteBurnResult(outputs[0])
	case ClosePoolName:
		return UnmarshalClosePoolResult(outputs[0])
	default:
		return outputs, nil
	}
}
