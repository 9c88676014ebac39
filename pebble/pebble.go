// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/fortunevm/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	CacheSize             int64 `json:"cacheSize"`
	BytesPerSync          int   `json:"bytesPerSync"`
	WALBytesPerSync       int   `json:"walBytesPerSync"`
	MaxOpenFiles          int   `json:"maxOpenFiles"`
	ConcurrentCompactions int   `json:"concurrentCompactions"`
	Sync                  bool  `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:             64 * 1024 * 1024,
		BytesPerSync:          1024 * 1024,
		WALBytesPerSync:       1024 * 1024,
		MaxOpenFiles:          4_096,
		ConcurrentCompactions: 1,
		Sync:                  true,
	}
}

// Database persists FortuneVM state on disk. Every [Apply] is a single
// pebble batch so an action's changes land together or not at all.
type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOpts *pebble.WriteOptions

	closing   chan struct{}
	closed    sync.Once
	collector sync.WaitGroup
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics:   metrics,
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		closing:   make(chan struct{}),
	}
	opts := &pebble.Options{
		Cache:                    pebble.NewCache(cfg.CacheSize),
		BytesPerSync:             cfg.BytesPerSync,
		WALBytesPerSync:          cfg.WALBytesPerSync,
		MaxOpenFiles:             cfg.MaxOpenFiles,
		MaxConcurrentCompactions: func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	defer opts.Cache.Unref()
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	d.collector.Add(1)
	go func() {
		defer d.collector.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (d *Database) Has(key []byte) (bool, error) {
	_, err := d.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (d *Database) Get(key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		d.metrics.getLatency.Observe(float64(time.Since(start)))
	}()

	v, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return d.Get(key)
}

func (d *Database) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := d.db.NewBatch()
	defer batch.Close()

	for k, v := range changes {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k), nil)
		} else {
			err = batch.Set([]byte(k), v.Value(), nil)
		}
		if err != nil {
			return err
		}
	}
	d.metrics.batches.Inc()
	return batch.Commit(d.writeOpts)
}

func (d *Database) Close() error {
	var err error
	d.closed.Do(func() {
		close(d.closing)
		d.collector.Wait()
		err = d.db.Close()
	})
	return err
}
