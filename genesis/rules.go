// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"fmt"

	"github.com/ava-labs/fortunevm/chain"
)

var (
	_ chain.Rules       = (*Rules)(nil)
	_ chain.RuleFactory = (*ImmutableRuleFactory)(nil)
)

type Rules struct {
	ClaimPolicy       chain.ClaimPolicy       `json:"claimPolicy"`
	BurnAuthorization chain.BurnAuthorization `json:"burnAuthorization"`
}

func NewDefaultRules() *Rules {
	return &Rules{
		ClaimPolicy:       chain.ClaimPolicyForbid,
		BurnAuthorization: chain.BurnPermissioned,
	}
}

func (r *Rules) Verify() error {
	if !r.ClaimPolicy.Valid() {
		return fmt.Errorf("%w: claim policy %q", ErrInvalidRules, r.ClaimPolicy)
	}
	if !r.BurnAuthorization.Valid() {
		return fmt.Errorf("%w: burn authorization %q", ErrInvalidRules, r.BurnAuthorization)
	}
	return nil
}

func (r *Rules) GetClaimPolicy() chain.ClaimPolicy {
	return r.ClaimPolicy
}

func (r *Rules) GetBurnAuthorization() chain.BurnAuthorization {
	return r.BurnAuthorization
}

type ImmutableRuleFactory struct {
	Rules chain.Rules
}

func (i *ImmutableRuleFactory) GetRules(_ int64) chain.Rules {
	return i.Rules
}
