// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/fortunevm/auth"
	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/crypto/ed25519"
	"github.com/ava-labs/fortunevm/genesis"
	"github.com/ava-labs/fortunevm/storage"
	"github.com/ava-labs/fortunevm/utils"
)

// Step kinds that are not actions.
const (
	AdvanceSlot = "advance_slot"

	QueryBalance  = "balance"
	QueryPtokens  = "ptokens"
	QueryStaged   = "staged"
	QueryPool     = "pool"
	QueryProtocol = "protocol"
)

// symbolPrefix marks a string param that names an actor, asset, mint or
// saved pool.
const symbolPrefix = "@"

type Plan struct {
	// The name of the plan.
	Name string `yaml:"name" json:"name"`
	// A description of the plan.
	Description string `yaml:"description" json:"description"`
	// Actors funded at genesis. Each actor's address is derived from its
	// name.
	Actors []string `yaml:"actors" json:"actors"`
	// Lamports given to every actor at genesis.
	Balance uint64 `yaml:"balance" json:"balance"`
	// Single-unit assets created at genesis.
	Assets []Asset    `yaml:"assets" json:"assets"`
	Rules  *PlanRules `yaml:"rules,omitempty" json:"rules,omitempty"`
	Steps  []Step     `yaml:"steps" json:"steps"`
}

type Asset struct {
	Name  string `yaml:"name" json:"name"`
	Owner string `yaml:"owner" json:"owner"`
}

type PlanRules struct {
	ClaimPolicy       string `yaml:"claim_policy" json:"claimPolicy"`
	BurnAuthorization string `yaml:"burn_authorization" json:"burnAuthorization"`
}

type Step struct {
	// Description of the step.
	Description string `yaml:"description" json:"description"`
	// The actor submitting an action.
	Actor string `yaml:"actor" json:"actor"`
	// An action name, [AdvanceSlot] or a query.
	Action string `yaml:"action" json:"action"`
	// Action fields by their JSON name. Strings starting with "@" are
	// resolved to addresses.
	Params map[string]interface{} `yaml:"params" json:"params"`
	// Name under which a created pool is saved for later steps.
	Save string `yaml:"save,omitempty" json:"save,omitempty"`
	// Define required assertions against this step.
	Require *Require `yaml:"require,omitempty" json:"require,omitempty"`
}

type Require struct {
	// Whether the action must be accepted. Defaults to true.
	Success *bool `yaml:"success,omitempty" json:"success,omitempty"`
	// A substring of the expected rejection.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
	// Whether an executed burn must win.
	Won *bool `yaml:"won,omitempty" json:"won,omitempty"`
	// Assertion against a query result.
	Result *ResultAssertion `yaml:"result,omitempty" json:"result,omitempty"`
}

type ResultAssertion struct {
	// The operator to use for the assertion.
	Operator string `yaml:"operator" json:"operator"`
	// The value to compare against.
	Value string `yaml:"value" json:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The step action.
	Action string `json:"action"`
	// The tx id of the transaction that was created.
	TxID string `json:"txId,omitempty"`
	// Decoded action outputs.
	Result interface{} `json:"result,omitempty"`
	// The value of a numeric query.
	Value *uint64 `json:"value,omitempty"`
	// The rejection message if available.
	Error string `json:"error,omitempty"`
}

func (r *Response) Print() {
	b, err := json.Marshal(r)
	if err != nil {
		utils.Outf("{{red}}failed to marshal response:{{/}} %v\n", err)
		return
	}
	fmt.Println(string(b))
}

// validateAssertion reports whether [actual] satisfies [assertion].
func validateAssertion(actual uint64, assertion *ResultAssertion) (bool, error) {
	value, err := strconv.ParseUint(assertion.Value, 10, 64)
	if err != nil {
		return false, err
	}

	switch Operator(assertion.Operator) {
	case NumericGt:
		return actual > value, nil
	case NumericLt:
		return actual < value, nil
	case NumericGe:
		return actual >= value, nil
	case NumericLe:
		return actual <= value, nil
	case NumericEq:
		return actual == value, nil
	case NumericNe:
		return actual != value, nil
	default:
		return false, fmt.Errorf("%w: unknown operator %q", ErrInvalidAssertion, assertion.Operator)
	}
}

// unmarshalPlan accepts YAML or JSON.
func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFormat, err)
	}
	for i := range p.Steps {
		params, err := normalize(p.Steps[i].Params)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
		if params != nil {
			p.Steps[i].Params = params.(map[string]interface{})
		}
	}
	return &p, nil
}

// normalize converts the map[interface{}]interface{} values produced by
// yaml into JSON-encodable maps.
func normalize(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, v := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %v", ErrInvalidParamType, k)
			}
			n, err := normalize(v)
			if err != nil {
				return nil, err
			}
			m[ks] = n
		}
		return m, nil
	case map[string]interface{}:
		if t == nil {
			return nil, nil
		}
		m := make(map[string]interface{}, len(t))
		for k, v := range t {
			n, err := normalize(v)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, v := range t {
			n, err := normalize(v)
			if err != nil {
				return nil, err
			}
			s[i] = n
		}
		return s, nil
	default:
		return v, nil
	}
}

// ActorKey is the signing key plans use for the actor called [name]. It is
// derived from the name alone, so it must only ever hold development funds.
func ActorKey(name string) *auth.ED25519Factory {
	return auth.NewED25519Factory(ed25519.PrivateKeyFromSeed(utils.ToID([]byte(name))))
}

// ActorAddress is the address of [ActorKey].
func ActorAddress(name string) codec.Address {
	return ActorKey(name).Address()
}

// actorKeys maps each plan actor to its signing key.
func actorKeys(p *Plan) map[string]chain.AuthFactory {
	keys := make(map[string]chain.AuthFactory, len(p.Actors))
	for _, actor := range p.Actors {
		keys[actor] = ActorKey(actor)
	}
	return keys
}

// symbols resolves plan names to addresses.
type symbols map[string]codec.Address

func newSymbols(p *Plan) symbols {
	s := symbols{"lamports": storage.LamportMint}
	for _, actor := range p.Actors {
		s[actor] = ActorAddress(actor)
	}
	for _, asset := range p.Assets {
		s[asset.Name] = genesis.AssetMint(asset.Name)
	}
	return s
}

func (s symbols) savePool(name string, pool codec.Address) {
	s[name] = pool
	s[name+".ptokens"] = storage.PtokenMintAddress(pool)
}

func (s symbols) lookup(name string) (codec.Address, error) {
	addr, ok := s[strings.TrimPrefix(name, symbolPrefix)]
	if !ok {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownSymbol, name)
	}
	return addr, nil
}

// resolve replaces every symbol in [params] with its hex address.
func (s symbols) resolve(params map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		str, ok := v.(string)
		if !ok || !strings.HasPrefix(str, symbolPrefix) {
			out[k] = v
			continue
		}
		addr, err := s.lookup(str)
		if err != nil {
			return nil, err
		}
		out[k] = addr.String()
	}
	return out, nil
}

// Genesis builds the genesis described by the plan.
func (p *Plan) Genesis() (*genesis.Genesis, error) {
	allocs := make([]*genesis.CustomAllocation, 0, len(p.Actors))
	for _, actor := range p.Actors {
		allocs = append(allocs, &genesis.CustomAllocation{
			Address: ActorAddress(actor).String(),
			Balance: p.Balance,
		})
	}
	g := genesis.NewDefaultGenesis(allocs)
	for _, asset := range p.Assets {
		g.Assets = append(g.Assets, &genesis.AssetAllocation{
			Name:  asset.Name,
			Owner: ActorAddress(asset.Owner).String(),
		})
	}
	if p.Rules != nil {
		if len(p.Rules.ClaimPolicy) > 0 {
			g.Rules.ClaimPolicy = chain.ClaimPolicy(p.Rules.ClaimPolicy)
		}
		if len(p.Rules.BurnAuthorization) > 0 {
			g.Rules.BurnAuthorization = chain.BurnAuthorization(p.Rules.BurnAuthorization)
		}
	}
	if err := g.Rules.Verify(); err != nil {
		return nil, err
	}
	return g, nil
}
