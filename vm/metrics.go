// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/fortunevm/consts"
)

type Metrics struct {
	txsAccepted prometheus.Counter
	txsRejected prometheus.Counter

	initialize   prometheus.Counter
	createPool   prometheus.Counter
	buy          prometheus.Counter
	requestBurn  prometheus.Counter
	executeBurn  prometheus.Counter
	claimAsset   prometheus.Counter
	closePool    prometheus.Counter
	userWithdraw prometheus.Counter
	userDeposit  prometheus.Counter

	burnsWon     prometheus.Counter
	ptokensBurnt prometheus.Counter
	slot         prometheus.Gauge

	batchExecute metric.Averager
}

func newCounter(name string, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "actions",
		Name:      name,
		Help:      help,
	})
}

func newMetrics() (*prometheus.Registry, *Metrics, error) {
	r := prometheus.NewRegistry()

	batchExecute, err := metric.NewAverager(
		"chain_batch_execute",
		"time spent executing a batch of transactions",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	m := &Metrics{
		txsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_accepted",
			Help:      "number of txs whose changes were committed",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_rejected",
			Help:      "number of txs whose action returned an error",
		}),
		initialize:   newCounter("initialize", "number of initialize actions"),
		createPool:   newCounter("create_pool", "number of create pool actions"),
		buy:          newCounter("buy", "number of buy actions"),
		requestBurn:  newCounter("request_burn", "number of request burn actions"),
		executeBurn:  newCounter("execute_burn", "number of execute burn actions"),
		claimAsset:   newCounter("claim_asset", "number of claim asset actions"),
		closePool:    newCounter("close_pool", "number of close pool actions"),
		userWithdraw: newCounter("user_withdraw", "number of user withdraw actions"),
		userDeposit:  newCounter("user_deposit", "number of user deposit actions"),
		burnsWon:     newCounter("burns_won", "number of executed burns that won the prize"),
		ptokensBurnt: newCounter("ptokens_burnt", "ptokens destroyed by executed burns"),
		slot: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chain",
			Name:      "slot",
			Help:      "most recent slot recorded in the slot history",
		}),
		batchExecute: batchExecute,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsAccepted),
		r.Register(m.txsRejected),

		r.Register(m.initialize),
		r.Register(m.createPool),
		r.Register(m.buy),
		r.Register(m.requestBurn),
		r.Register(m.executeBurn),
		r.Register(m.claimAsset),
		r.Register(m.closePool),
		r.Register(m.userWithdraw),
		r.Register(m.userDeposit),

		r.Register(m.burnsWon),
		r.Register(m.ptokensBurnt),
		r.Register(m.slot),
	)
	return r, m, errs.Err
}

// counter returns the per-action counter for [typeID].
func (m *Metrics) counter(typeID uint8) (prometheus.Counter, bool) {
	switch typeID {
	case consts.InitializeID:
		return m.initialize, true
	case consts.CreatePoolID:
		return m.createPool, true
	case consts.BuyID:
		return m.buy, true
	case consts.RequestBurnID:
		return m.requestBurn, true
	case consts.ExecuteBurnID:
		return m.executeBurn, true
	case consts.ClaimAssetID:
		return m.claimAsset, true
	case consts.ClosePoolID:
		return m.closePool, true
	case consts.UserWithdrawID:
		return m.userWithdraw, true
	case consts.UserDepositID:
		return m.userDeposit, true
	default:
		return nil, false
	}
}
