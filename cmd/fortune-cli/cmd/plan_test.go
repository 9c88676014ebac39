// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/genesis"
	"github.com/ava-labs/fortunevm/storage"
)

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name      string
		actual    uint64
		assertion *ResultAssertion
		expected  bool
		wantErr   error
	}{
		{"IsGreaterThan", 5, &ResultAssertion{Operator: string(NumericGt), Value: "3"}, true, nil},
		{"IsNotGreaterThan", 5, &ResultAssertion{Operator: string(NumericGt), Value: "10"}, false, nil},
		{"IsLessThan", 5, &ResultAssertion{Operator: string(NumericLt), Value: "10"}, true, nil},
		{"IsNotLessThan", 5, &ResultAssertion{Operator: string(NumericLt), Value: "2"}, false, nil},
		{"IsEqualTo", 5, &ResultAssertion{Operator: string(NumericEq), Value: "5"}, true, nil},
		{"IsNotEqual", 5, &ResultAssertion{Operator: string(NumericNe), Value: "3"}, true, nil},
		{"IsGreaterThanOrEqualToSame", 5, &ResultAssertion{Operator: string(NumericGe), Value: "5"}, true, nil},
		{"IsLessThanOrEqualToSmaller", 5, &ResultAssertion{Operator: string(NumericLe), Value: "1"}, false, nil},
		{"ParseNothingFails", 5, &ResultAssertion{Operator: string(NumericEq)}, false, strconv.ErrSyntax},
		{"UnknownOperator", 5, &ResultAssertion{Operator: "~", Value: "5"}, false, ErrInvalidAssertion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			result, err := validateAssertion(tt.actual, tt.assertion)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.expected, result)
		})
	}
}

func TestUnmarshalPlan(t *testing.T) {
	require := require.New(t)
	p, err := unmarshalPlan([]byte(`
name: tiny
actors: [alice]
balance: 10
rules:
  claim_policy: overwrite
steps:
  - actor: alice
    action: buy
    params:
      pool: "@alice"
      amount: 3
      nested:
        key: value
`))
	require.NoError(err)
	require.Equal("tiny", p.Name)
	require.Len(p.Steps, 1)
	require.Equal(map[string]interface{}{"key": "value"}, p.Steps[0].Params["nested"])

	g, err := p.Genesis()
	require.NoError(err)
	require.Equal(chain.ClaimPolicyOverwrite, g.Rules.ClaimPolicy)
	require.Equal(chain.BurnPermissioned, g.Rules.BurnAuthorization)
	require.Len(g.CustomAllocation, 1)
	require.Equal(ActorAddress("alice").String(), g.CustomAllocation[0].Address)

	p.Rules.BurnAuthorization = "anyone"
	_, err = p.Genesis()
	require.ErrorIs(err, genesis.ErrInvalidRules)
}

func TestSymbols(t *testing.T) {
	require := require.New(t)
	syms := newSymbols(&Plan{
		Actors: []string{"alice"},
		Assets: []Asset{{Name: "painting", Owner: "alice"}},
	})
	pool := ActorAddress("pool")
	syms.savePool("gallery", pool)

	resolved, err := syms.resolve(map[string]interface{}{
		"user":    "@alice",
		"nftMint": "@painting",
		"mint":    "@gallery.ptokens",
		"amount":  3,
		"memo":    "plain",
	})
	require.NoError(err)
	require.Equal(ActorAddress("alice").String(), resolved["user"])
	require.Equal(genesis.AssetMint("painting").String(), resolved["nftMint"])
	require.Equal(storage.PtokenMintAddress(pool).String(), resolved["mint"])
	require.Equal(3, resolved["amount"])
	require.Equal("plain", resolved["memo"])

	_, err = syms.resolve(map[string]interface{}{"user": "@mallory"})
	require.ErrorIs(err, ErrUnknownSymbol)
}

func TestVerifyRejectsUnknownSteps(t *testing.T) {
	tests := []struct {
		name string
		plan *Plan
	}{
		{"Empty", &Plan{}},
		{"UnknownAction", &Plan{Actors: []string{"alice"}, Steps: []Step{{Actor: "alice", Action: "steal"}}}},
		{"UnknownActor", &Plan{Steps: []Step{{Actor: "mallory", Action: "buy"}}}},
		{
			"ResultOnAction",
			&Plan{Actors: []string{"alice"}, Steps: []Step{{
				Actor:   "alice",
				Action:  "buy",
				Require: &Require{Result: &ResultAssertion{Operator: "==", Value: "1"}},
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &runCmd{plan: tt.plan}
			require.Error(t, r.Verify())
		})
	}
}

func TestRunLifecycle(t *testing.T) {
	require := require.New(t)
	b, err := os.ReadFile("testdata/lifecycle.yaml")
	require.NoError(err)
	p, err := unmarshalPlan(b)
	require.NoError(err)

	r := &runCmd{
		f:           &fortune{log: logging.NoLog{}},
		plan:        p,
		showMetrics: true,
	}
	require.NoError(r.Verify())
	var out bytes.Buffer
	require.NoError(r.Run(context.Background(), &out))
	require.Contains(out.String(), "fortunevm_actions_burns_won 1")
}

func TestRunFailsOnBrokenAssertion(t *testing.T) {
	require := require.New(t)
	yes := true
	r := &runCmd{
		f: &fortune{log: logging.NoLog{}},
		plan: &Plan{
			Actors:  []string{"alice"},
			Balance: 1,
			Steps: []Step{{
				Actor:   "alice",
				Action:  "buy",
				Params:  map[string]interface{}{"pool": "@alice", "amount": 1},
				Require: &Require{Success: &yes},
			}},
		},
	}
	require.NoError(r.Verify())
	require.ErrorIs(r.Run(context.Background(), &bytes.Buffer{}), ErrAssertionFailed)
}
