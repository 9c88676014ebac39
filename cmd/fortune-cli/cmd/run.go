// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/fortunevm/actions"
	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/utils"
	"github.com/ava-labs/fortunevm/vm"
)

type runCmd struct {
	f    *fortune
	plan *Plan

	showMetrics bool
}

func newRunCmd(f *fortune) *cobra.Command {
	r := &runCmd{f: f}
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run a FortuneVM plan, reading it from stdin if path is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPlan(cmd, args[0])
			if err != nil {
				return err
			}
			r.plan = p
			if err := r.Verify(); err != nil {
				return err
			}
			return r.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&r.showMetrics, "metrics", false, "print action counters when the plan finishes")
	return cmd
}

func readPlan(cmd *cobra.Command, arg string) (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if arg == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(arg)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalPlan(b)
}

func isQuery(name string) bool {
	switch name {
	case QueryBalance, QueryPtokens, QueryStaged, QueryPool, QueryProtocol:
		return true
	default:
		return false
	}
}

func (c *runCmd) Verify() error {
	if len(c.plan.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	keys := actorKeys(c.plan)
	for i, step := range c.plan.Steps {
		switch {
		case step.Action == AdvanceSlot, isQuery(step.Action):
		default:
			if _, ok := actions.New(step.Action); !ok {
				return fmt.Errorf("%w %d: unknown action %q", ErrInvalidStep, i, step.Action)
			}
			if _, ok := keys[strings.TrimPrefix(step.Actor, symbolPrefix)]; !ok {
				return fmt.Errorf("%w %d: %w: %s", ErrInvalidStep, i, ErrUnknownActor, step.Actor)
			}
		}
		if step.Require != nil && step.Require.Result != nil && !isQuery(step.Action) && step.Action != AdvanceSlot {
			return fmt.Errorf("%w %d: result assertions need a query", ErrInvalidStep, i)
		}
	}
	return nil
}

func (c *runCmd) Run(ctx context.Context, out io.Writer) error {
	g, err := c.plan.Genesis()
	if err != nil {
		return err
	}
	genesisBytes, err := json.Marshal(g)
	if err != nil {
		return err
	}
	cfg, err := c.f.Config()
	if err != nil {
		return err
	}
	v, err := vm.New(ctx, c.f.log, cfg, genesisBytes)
	if err != nil {
		return err
	}
	defer func() {
		if err := v.Close(); err != nil {
			c.f.log.Error("failed to close vm", zap.Error(err))
		}
	}()

	r := &runner{
		vm:   v,
		log:  c.f.log,
		syms: newSymbols(c.plan),
		keys: actorKeys(c.plan),
	}
	for i, step := range c.plan.Steps {
		resp, err := r.step(ctx, i, &step)
		if resp != nil {
			resp.Print()
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Description, err)
		}
	}
	if c.showMetrics {
		if err := printMetrics(out, v); err != nil {
			return err
		}
	}
	utils.Outf("{{green}}plan %q passed{{/}} (%d steps)\n", c.plan.Name, len(c.plan.Steps))
	return nil
}

type runner struct {
	vm   *vm.VM
	log  logging.Logger
	syms symbols
	keys map[string]chain.AuthFactory
}

func (r *runner) step(ctx context.Context, i int, step *Step) (*Response, error) {
	resp := &Response{ID: i, Action: step.Action}
	params, err := r.syms.resolve(step.Params)
	if err != nil {
		return nil, err
	}

	switch {
	case step.Action == AdvanceSlot:
		slot, err := r.vm.AdvanceSlot(ctx)
		if err != nil {
			return nil, err
		}
		resp.Value = &slot
		return resp, checkValue(slot, step.Require)
	case isQuery(step.Action):
		return r.query(ctx, resp, step.Action, params, step.Require)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	action, err := actions.FromJSON(step.Action, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParamType, err)
	}
	key, ok := r.keys[strings.TrimPrefix(step.Actor, symbolPrefix)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActor, step.Actor)
	}
	result, err := r.vm.Submit(ctx, key, action)
	if err != nil {
		return nil, err
	}
	resp.TxID = result.TxID.String()
	if !result.Success {
		resp.Error = result.Err.Error()
	}
	resp.Result, err = actions.DecodeOutputs(step.Action, result.Outputs)
	if err != nil {
		return resp, err
	}
	if created, ok := resp.Result.(*actions.CreatePoolResult); ok && len(step.Save) > 0 {
		r.syms.savePool(step.Save, created.Pool)
		r.log.Info("saved pool", zap.String("name", step.Save), zap.Stringer("pool", created.Pool))
	}
	return resp, checkResult(result, resp.Result, step.Require)
}

func (r *runner) query(ctx context.Context, resp *Response, name string, params map[string]interface{}, req *Require) (*Response, error) {
	var (
		value uint64
		err   error
	)
	switch name {
	case QueryProtocol:
		resp.Result, err = r.vm.GetProtocol(ctx)
		return resp, err
	case QueryPool:
		pool, err := addressParam(params, "pool")
		if err != nil {
			return nil, err
		}
		p, err := r.vm.GetPool(ctx, pool)
		if err != nil {
			return nil, err
		}
		resp.Result = p
		return resp, nil
	case QueryBalance:
		mint, err := addressParam(params, "mint")
		if err != nil {
			return nil, err
		}
		owner, err := addressParam(params, "owner")
		if err != nil {
			return nil, err
		}
		value, err = r.vm.AccountBalance(ctx, mint, owner)
		if err != nil {
			return nil, err
		}
	case QueryPtokens, QueryStaged:
		pool, err := addressParam(params, "pool")
		if err != nil {
			return nil, err
		}
		user, err := addressParam(params, "user")
		if err != nil {
			return nil, err
		}
		if name == QueryPtokens {
			value, err = r.vm.PtokenBalance(ctx, pool, user)
		} else {
			value, err = r.vm.BurnStaged(ctx, pool, user)
		}
		if err != nil {
			return nil, err
		}
	}
	resp.Value = &value
	return resp, checkValue(value, req)
}

func addressParam(params map[string]interface{}, key string) (codec.Address, error) {
	s, ok := params[key].(string)
	if !ok {
		return codec.EmptyAddress, fmt.Errorf("%w: %q must be an address", ErrInvalidParamType, key)
	}
	return codec.StringToAddress(s)
}

func checkResult(result *chain.Result, decoded interface{}, req *Require) error {
	if req == nil {
		req = &Require{}
	}
	expectSuccess := len(req.Error) == 0
	if req.Success != nil {
		expectSuccess = *req.Success
	}
	switch {
	case expectSuccess && !result.Success:
		return fmt.Errorf("%w: action rejected: %w", ErrAssertionFailed, result.Err)
	case !expectSuccess && result.Success:
		return fmt.Errorf("%w: action accepted", ErrAssertionFailed)
	case len(req.Error) > 0 && !strings.Contains(result.Err.Error(), req.Error):
		return fmt.Errorf("%w: %q does not contain %q", ErrAssertionFailed, result.Err, req.Error)
	}
	if req.Won != nil {
		burn, ok := decoded.(*actions.ExecuteBurnResult)
		if !ok {
			return fmt.Errorf("%w: won is only set by execute_burn", ErrInvalidAssertion)
		}
		if burn.Won != *req.Won {
			return fmt.Errorf("%w: won=%t sample=%d threshold=%d", ErrAssertionFailed, burn.Won, burn.Sample, burn.Threshold)
		}
	}
	return nil
}

func checkValue(value uint64, req *Require) error {
	if req == nil || req.Result == nil {
		return nil
	}
	ok, err := validateAssertion(value, req.Result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d %s %s", ErrAssertionFailed, value, req.Result.Operator, req.Result.Value)
	}
	return nil
}

func printMetrics(out io.Writer, v *vm.VM) error {
	families, err := v.Gatherer().Gather()
	if err != nil {
		return err
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				fmt.Fprintf(out, "%s %.0f\n", f.GetName(), c.GetValue())
			}
		}
	}
	return nil
}
