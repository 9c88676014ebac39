// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/ava-labs/fortunevm/state"
)

// Executor runs tasks concurrently while preserving enqueue order between
// tasks that touch the same key.
//
// A task that writes a key waits for every earlier task that read or wrote
// it. A task that only reads a key waits for the earlier writer only, so
// concurrent readers of the same key do not block each other.
type Executor struct {
	added int
	tasks []*task
	edges map[string]*deps

	workers chan struct{}

	outstanding sync.WaitGroup

	err atomic.Error
}

type deps struct {
	writer  int
	readers []int
}

// New creates an [Executor] that accepts up to [items] tasks and runs at
// most [concurrency] of them at once.
func New(items int, concurrency int) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		tasks:   make([]*task, items),
		edges:   make(map[string]*deps, items*2),
		workers: make(chan struct{}, concurrency),
	}
}

type task struct {
	f func() error

	l        sync.Mutex
	waiters  map[int]*sync.WaitGroup
	executed bool
}

// Run executes [f] after all previously enqueued tasks that conflict
// on [conflicts] are executed.
//
// Run is not safe to call concurrently.
func (e *Executor) Run(conflicts state.Keys, f func() error) {
	if e.added >= len(e.tasks) {
		e.err.CompareAndSwap(nil, ErrTooManyTasks)
		return
	}

	id := e.added
	e.added++
	t := &task{
		f:       f,
		waiters: map[int]*sync.WaitGroup{},
	}
	e.tasks[id] = t
	e.outstanding.Add(1)

	wg := &sync.WaitGroup{}
	seen := make(map[int]struct{}, len(conflicts))
	for k, perm := range conflicts {
		d, ok := e.edges[k]
		if !ok {
			d = &deps{writer: -1}
			e.edges[k] = d
		}
		if d.writer >= 0 {
			e.waitOn(d.writer, id, wg, seen)
		}
		if perm == state.Read {
			d.readers = append(d.readers, id)
			continue
		}
		for _, r := range d.readers {
			e.waitOn(r, id, wg, seen)
		}
		d.writer = id
		d.readers = nil
	}

	go func() {
		wg.Wait()

		defer func() {
			t.l.Lock()
			for _, w := range t.waiters {
				w.Done()
			}
			t.waiters = nil
			t.executed = true
			t.l.Unlock()
			e.outstanding.Done()
		}()

		if e.err.Load() != nil {
			return
		}

		e.workers <- struct{}{}
		defer func() { <-e.workers }()
		if err := t.f(); err != nil {
			e.err.CompareAndSwap(nil, err)
		}
	}()
}

func (e *Executor) waitOn(dep int, id int, wg *sync.WaitGroup, seen map[int]struct{}) {
	if _, ok := seen[dep]; ok {
		return
	}
	seen[dep] = struct{}{}
	dt := e.tasks[dep]
	dt.l.Lock()
	if !dt.executed {
		wg.Add(1)
		dt.waiters[id] = wg
	}
	dt.l.Unlock()
}

// Stop prevents any task that has not started from running.
func (e *Executor) Stop() {
	e.err.CompareAndSwap(nil, ErrStopped)
}

// Wait returns once every enqueued task has finished or been skipped. It
// returns the first error encountered.
//
// You should not call [Run] after [Wait] is called.
func (e *Executor) Wait() error {
	e.outstanding.Wait()
	return e.err.Load()
}
