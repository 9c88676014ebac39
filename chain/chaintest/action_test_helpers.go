// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/state"
)

var (
	_ state.Mutable = (*InMemoryStore)(nil)
	_ chain.Rules   = (*Rules)(nil)
)

// InMemoryStore is an in-memory implementation of `state.Mutable`
type InMemoryStore struct {
	Storage map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Storage: make(map[string][]byte),
	}
}

func (i *InMemoryStore) GetValue(_ context.Context, key []byte) ([]byte, error) {
	val, ok := i.Storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return val, nil
}

func (i *InMemoryStore) Insert(_ context.Context, key []byte, value []byte) error {
	i.Storage[string(key)] = value
	return nil
}

func (i *InMemoryStore) Remove(_ context.Context, key []byte) error {
	delete(i.Storage, string(key))
	return nil
}

// Clone returns an independent copy of the store so table cases can share a
// prepared state.
func (i *InMemoryStore) Clone() *InMemoryStore {
	c := NewInMemoryStore()
	for k, v := range i.Storage {
		c.Storage[k] = v
	}
	return c
}

// Rules is a fixed [chain.Rules] for tests.
type Rules struct {
	ClaimPolicy       chain.ClaimPolicy
	BurnAuthorization chain.BurnAuthorization
}

// NewRules returns the default rules.
func NewRules() *Rules {
	return &Rules{
		ClaimPolicy:       chain.ClaimPolicyForbid,
		BurnAuthorization: chain.BurnPermissioned,
	}
}

func (r *Rules) GetClaimPolicy() chain.ClaimPolicy {
	return r.ClaimPolicy
}

func (r *Rules) GetBurnAuthorization() chain.BurnAuthorization {
	return r.BurnAuthorization
}

// ActionTest is a single parameterized test. It calls Execute on the action with the passed parameters
// and checks that all assertions pass.
type ActionTest struct {
	Name string

	Action chain.Action

	Rules     chain.Rules
	State     state.Mutable
	Timestamp int64
	Actor     codec.Address
	ActionID  ids.ID

	ExpectedOutputs [][]byte
	ExpectedErr     error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

// Run executes the [ActionTest] and make sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		rules := test.Rules
		if rules == nil {
			rules = NewRules()
		}
		output, err := test.Action.Execute(ctx, rules, test.State, test.Timestamp, test.Actor, test.ActionID)

		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutputs, output)

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}
