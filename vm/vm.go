// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/fortunevm/actions"
	"github.com/ava-labs/fortunevm/auth"
	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/config"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/entropy"
	"github.com/ava-labs/fortunevm/genesis"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"

	ametrics "github.com/ava-labs/avalanchego/api/metrics"
	ftrace "github.com/ava-labs/fortunevm/trace"
)

const stateNamespace = "state"

var _ chain.StateManager = storage.StateManager{}

type stateDB interface {
	state.Database
	state.Immutable

	Close() error
}

// Submission is an action signed by [Auth]. The action runs as the
// address of [Auth].
type Submission struct {
	Auth   chain.AuthFactory
	Action chain.Action
}

// VM hosts FortuneVM state on a single node. It owns the state database,
// orders submitted actions into batches and maintains the slot history
// burns draw from.
type VM struct {
	config     config.Config
	log        logging.Logger
	tracer     trace.Tracer
	genesis    *genesis.Genesis
	rules      chain.RuleFactory
	parser     *codec.TypeParser[chain.Action]
	authParser *codec.TypeParser[chain.Auth]
	gatherer   ametrics.MultiGatherer
	metrics    *Metrics

	db        stateDB
	processor *chain.Processor

	// l serializes batches and slot updates
	l    sync.Mutex
	slot uint64
	// digest of the transactions executed during [slot]
	slotTxs   [entropy.HashLen]byte
	closed    bool
	listeners []Listener
}

// New opens (or creates) the state described by [cfg] and initializes it
// from [genesisBytes] when it is empty.
func New(ctx context.Context, log logging.Logger, cfg config.Config, genesisBytes []byte) (*VM, error) {
	g, rules, err := genesis.Load(genesisBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to load genesis: %w", err)
	}
	parser, err := actions.NewParser()
	if err != nil {
		return nil, err
	}
	authParser, err := auth.NewParser()
	if err != nil {
		return nil, err
	}
	vm := &VM{
		config:     cfg,
		log:        log,
		genesis:    g,
		rules:      rules,
		parser:     parser,
		authParser: authParser,
		gatherer:   ametrics.NewPrefixGatherer(),
	}

	vm.tracer, err = ftrace.New(cfg.Trace)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, err
	}
	vm.metrics = metrics
	if cfg.MetricsEnabled {
		if err := vm.gatherer.Register(consts.Name, registry); err != nil {
			return nil, err
		}
	}

	if len(cfg.DataDir) == 0 {
		vm.db = state.NewBatchDatabase(memdb.New())
	} else {
		vm.db, err = storage.New(cfg.Pebble, cfg.DataDir, stateNamespace, vm.gatherer)
		if err != nil {
			return nil, fmt.Errorf("failed to open state: %w", err)
		}
	}
	vm.processor = chain.NewProcessor(vm.tracer, log, vm.db, storage.StateManager{}, cfg.ExecutionCores, cfg.MaxBatchSize)

	if err := vm.loadSlot(ctx); err != nil {
		_ = vm.db.Close()
		_ = vm.tracer.Close()
		return nil, err
	}
	log.Info("initialized fortunevm",
		zap.String("dataDir", cfg.DataDir),
		zap.Uint64("slot", vm.slot),
		zap.String("claimPolicy", string(g.Rules.ClaimPolicy)),
		zap.String("burnAuthorization", string(g.Rules.BurnAuthorization)),
	)
	return vm, nil
}

// loadSlot applies genesis to an empty database and recovers the latest
// slot otherwise.
func (vm *VM) loadSlot(ctx context.Context) error {
	raw, err := storage.GetSlotHashes(ctx, vm.db)
	if errors.Is(err, database.ErrNotFound) {
		mu := state.NewSimpleMutable(vm.db)
		if err := vm.genesis.InitializeState(ctx, mu); err != nil {
			return fmt.Errorf("failed to initialize genesis state: %w", err)
		}
		if err := mu.Commit(ctx); err != nil {
			return err
		}
		vm.slot = vm.genesis.InitialSlot
		vm.metrics.slot.Set(float64(vm.slot))
		vm.log.Info("applied genesis",
			zap.Int("allocations", len(vm.genesis.CustomAllocation)),
			zap.Int("assets", len(vm.genesis.Assets)),
		)
		return nil
	}
	if err != nil {
		return err
	}
	slots, err := entropy.Unmarshal(raw)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return ErrCorruptedSlots
	}
	vm.slot = slots[0].Slot
	vm.metrics.slot.Set(float64(vm.slot))
	return nil
}

// Submit signs [action] with [factory] and runs it as its own batch.
func (vm *VM) Submit(ctx context.Context, factory chain.AuthFactory, action chain.Action) (*chain.Result, error) {
	results, err := vm.SubmitBatch(ctx, []Submission{{Auth: factory, Action: action}})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// SubmitBatch signs and runs [subs] as one batch. Each submission carries
// the next nonce of its signer. Results are returned in submission order.
// An error is only returned if the batch could not run at all.
func (vm *VM) SubmitBatch(ctx context.Context, subs []Submission) ([]*chain.Result, error) {
	if len(subs) == 0 {
		return nil, ErrNoSubmissions
	}

	vm.l.Lock()
	defer vm.l.Unlock()

	if vm.closed {
		return nil, ErrClosed
	}
	nonces := make(map[codec.Address]uint64, len(subs))
	txs := make([]*chain.Transaction, 0, len(subs))
	for _, s := range subs {
		actor := s.Auth.Address()
		nonce, ok := nonces[actor]
		if !ok {
			var err error
			nonce, err = storage.GetNonce(ctx, vm.db, actor)
			if err != nil {
				return nil, err
			}
		}
		nonces[actor] = nonce + 1
		tx, err := chain.NewTransaction(nonce, s.Action).Sign(s.Auth)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return vm.execute(ctx, txs)
}

// SubmitBytes decodes and runs a signed transaction produced by
// [chain.Transaction.Bytes].
func (vm *VM) SubmitBytes(ctx context.Context, b []byte) (*chain.Result, error) {
	tx, err := chain.UnmarshalTransaction(b, vm.parser, vm.authParser)
	if err != nil {
		return nil, err
	}
	if err := tx.Verify(); err != nil {
		return nil, err
	}

	vm.l.Lock()
	defer vm.l.Unlock()

	results, err := vm.execute(ctx, []*chain.Transaction{tx})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Assumes [vm.l] is held
func (vm *VM) execute(ctx context.Context, txs []*chain.Transaction) ([]*chain.Result, error) {
	if vm.closed {
		return nil, ErrClosed
	}
	start := time.Now()
	timestamp := start.UnixMilli()
	results, err := vm.processor.Execute(ctx, vm.rules.GetRules(timestamp), timestamp, txs)
	if err != nil {
		return nil, err
	}
	vm.metrics.batchExecute.Observe(float64(time.Since(start)))
	for i, result := range results {
		id := txs[i].ID()
		vm.slotTxs = entropy.Accumulate(vm.slotTxs, id[:])
		vm.record(txs[i], result)
	}
	return results, nil
}

func (vm *VM) record(tx *chain.Transaction, result *chain.Result) {
	name, _ := vm.parser.Name(tx.Action.GetTypeID())
	event := &Event{
		Slot:    vm.slot,
		TxID:    tx.ID(),
		Action:  name,
		Actor:   tx.Actor(),
		Success: result.Success,
	}
	defer vm.notify(event)

	if !result.Success {
		event.Error = result.Err.Error()
		vm.metrics.txsRejected.Inc()
		vm.log.Info("action rejected",
			zap.String("action", name),
			zap.Stringer("actor", tx.Actor()),
			zap.Error(result.Err),
		)
		return
	}
	vm.metrics.txsAccepted.Inc()
	if c, ok := vm.metrics.counter(tx.Action.GetTypeID()); ok {
		c.Inc()
	}
	vm.log.Debug("action accepted",
		zap.String("action", name),
		zap.Stringer("txID", tx.ID()),
		zap.Stringer("actor", tx.Actor()),
	)

	decoded, err := actions.DecodeOutputs(name, result.Outputs)
	if err != nil {
		vm.log.Warn("unable to parse result",
			zap.String("action", name),
			zap.Error(err),
		)
		return
	}
	event.Result = decoded

	burn, ok := tx.Action.(*actions.ExecuteBurn)
	if !ok || len(result.Outputs) == 0 {
		return
	}
	vm.metrics.ptokensBurnt.Add(float64(burn.Amount))
	if outcome := decoded.(*actions.ExecuteBurnResult); outcome.Won {
		vm.metrics.burnsWon.Inc()
		vm.log.Info("prize won",
			zap.Stringer("pool", burn.Pool),
			zap.Stringer("user", burn.User),
			zap.Uint64("sample", outcome.Sample),
			zap.Uint64("threshold", outcome.Threshold),
		)
	}
}

// AdvanceSlot records the next slot in the slot history and returns it.
// The new slot hash mixes fresh randomness with the transactions executed
// during the slot it closes. Burns executed afterwards draw from it.
func (vm *VM) AdvanceSlot(ctx context.Context) (uint64, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.AdvanceSlot")
	defer span.End()

	vm.l.Lock()
	defer vm.l.Unlock()

	if vm.closed {
		return 0, ErrClosed
	}
	mu := state.NewSimpleMutable(vm.db)
	raw, err := storage.GetSlotHashes(ctx, mu)
	if err != nil {
		return 0, err
	}
	slots, err := entropy.Unmarshal(raw)
	if err != nil {
		return 0, err
	}
	seed, err := entropy.Seed(vm.slotTxs)
	if err != nil {
		return 0, err
	}
	next := vm.slot + 1
	if err := storage.SetSlotHashes(ctx, mu, slots.Advance(next, seed).Marshal()); err != nil {
		return 0, err
	}
	if err := mu.Commit(ctx); err != nil {
		return 0, err
	}
	vm.slot = next
	vm.slotTxs = [entropy.HashLen]byte{}
	vm.metrics.slot.Set(float64(next))
	vm.log.Debug("advanced slot", zap.Uint64("slot", next))
	return next, nil
}

func (vm *VM) Slot() uint64 {
	vm.l.Lock()
	defer vm.l.Unlock()

	return vm.slot
}

func (vm *VM) Genesis() *genesis.Genesis {
	return vm.genesis
}

func (vm *VM) Rules(timestamp int64) chain.Rules {
	return vm.rules.GetRules(timestamp)
}

func (vm *VM) Parser() *codec.TypeParser[chain.Action] {
	return vm.parser
}

func (vm *VM) Tracer() trace.Tracer {
	return vm.tracer
}

func (vm *VM) Logger() logging.Logger {
	return vm.log
}

// Gatherer exposes the metrics of the VM and its database.
func (vm *VM) Gatherer() ametrics.MultiGatherer {
	return vm.gatherer
}

func (vm *VM) Close() error {
	vm.l.Lock()
	defer vm.l.Unlock()

	if vm.closed {
		return nil
	}
	vm.closed = true
	return errors.Join(vm.db.Close(), vm.tracer.Close())
}
