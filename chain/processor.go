// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/executor"
	"github.com/ava-labs/fortunevm/keys"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Processor executes batches of transactions against [state.Database].
//
// Transactions in a batch run concurrently unless they declare conflicting
// keys, in which case they run in submission order. A transaction whose
// nonce does not match leaves no trace. A rejected action leaves no trace
// beyond consuming the nonce of its actor. The changes of every transaction
// are written to the database in one batch once all of them have run.
type Processor struct {
	tracer  trace.Tracer
	log     logging.Logger
	db      state.Database
	sm      StateManager
	cores   int
	maxSize int

	// Only run one batch at once
	l sync.Mutex
}

func NewProcessor(
	tracer trace.Tracer,
	log logging.Logger,
	db state.Database,
	sm StateManager,
	cores int,
	maxSize int,
) *Processor {
	return &Processor{
		tracer:  tracer,
		log:     log,
		db:      db,
		sm:      sm,
		cores:   cores,
		maxSize: maxSize,
	}
}

func (p *Processor) Execute(ctx context.Context, r Rules, timestamp int64, txs []*Transaction) ([]*Result, error) {
	switch {
	case len(txs) == 0:
		return nil, ErrEmptyBatch
	case len(txs) > p.maxSize:
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(txs), p.maxSize)
	}
	seen := make(map[ids.ID]struct{}, len(txs))
	for _, tx := range txs {
		if tx.Action == nil {
			return nil, ErrMissingAction
		}
		if err := tx.Verify(); err != nil {
			return nil, err
		}
		if _, ok := seen[tx.ID()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
		}
		seen[tx.ID()] = struct{}{}
	}

	ctx, span := p.tracer.Start(ctx, "Processor.Execute",
		oteltrace.WithAttributes(
			attribute.Int("txs", len(txs)),
			attribute.Int64("timestamp", timestamp),
		),
	)
	defer span.End()

	p.l.Lock()
	defer p.l.Unlock()

	var (
		ts      = tstate.New(len(txs) * 2)
		e       = executor.New(len(txs), p.cores)
		results = make([]*Result, len(txs))
	)
	for i, tx := range txs {
		i, tx := i, tx
		stateKeys := tx.StateKeys(p.sm)
		e.Run(stateKeys, func() error {
			storage, err := p.fetch(stateKeys)
			if err != nil {
				return err
			}
			results[i] = p.execute(ctx, r, ts.NewView(stateKeys, storage), timestamp, tx)
			return nil
		})
	}
	if err := e.Wait(); err != nil {
		return nil, err
	}

	_, cspan := p.tracer.Start(ctx, "Processor.Execute.Apply")
	defer cspan.End()

	if err := p.db.Apply(ctx, ts.Changes()); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) fetch(stateKeys state.Keys) (map[string][]byte, error) {
	storage := make(map[string][]byte, len(stateKeys))
	for k := range stateKeys {
		v, err := p.db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if _, ok := keys.NumChunks(v); !ok {
			return nil, fmt.Errorf("%w: %x", ErrInvalidKeyRead, k)
		}
		storage[k] = v
	}
	return storage, nil
}

func (p *Processor) execute(ctx context.Context, r Rules, view *tstate.TStateView, timestamp int64, tx *Transaction) *Result {
	result := &Result{TxID: tx.ID()}
	actor := tx.Actor()
	if err := p.consumeNonce(ctx, view, actor, tx.Nonce); err != nil {
		view.Rollback(ctx, 0)
		result.Err = err
		p.log.Debug("transaction rejected",
			zap.Stringer("txID", tx.ID()),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return result
	}
	start := view.OpIndex()
	outputs, err := tx.Action.Execute(ctx, r, view, timestamp, actor, tx.ID())
	if err != nil {
		view.Rollback(ctx, start)
		view.Commit()
		result.Err = err
		p.log.Debug("action rejected",
			zap.Stringer("txID", tx.ID()),
			zap.Uint8("type", tx.Action.GetTypeID()),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return result
	}
	view.Commit()
	result.Success = true
	result.Outputs = outputs
	return result
}

func (p *Processor) consumeNonce(ctx context.Context, mu state.Mutable, actor codec.Address, nonce uint64) error {
	expected, err := p.sm.GetNonce(ctx, mu, actor)
	if err != nil {
		return err
	}
	if nonce != expected {
		return fmt.Errorf("%w: expected=%d got=%d", ErrInvalidNonce, expected, nonce)
	}
	return p.sm.SetNonce(ctx, mu, actor, nonce+1)
}
