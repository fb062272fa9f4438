// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crawler

import (
	"context"
	"sync"
)

// WorkerPool manages a fixed number of worker goroutines that process work
// items from a queue. This provides controlled concurrency and prevents
// unbounded goroutine creation.
type WorkerPool struct {
	maxWorkers int
	workQueue  chan func()
	wg         *sync.WaitGroup
	ctx        context.Context
}

// NewWorkerPool creates a worker pool with maxWorkers goroutines pulling
// from a queue of queueSize. Submit blocks when the queue is full.
func NewWorkerPool(ctx context.Context, maxWorkers int, queueSize int) *WorkerPool {
	wp := &WorkerPool{
		maxWorkers: maxWorkers,
		workQueue:  make(chan func(), queueSize),
		wg:         &sync.WaitGroup{},
		ctx:        ctx,
	}

	for i := 0; i < maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}

	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case work, ok := <-wp.workQueue:
			if !ok {
				return
			}
			work()

		case <-wp.ctx.Done():
			return
		}
	}
}

// Submit queues a work item, blocking when the queue is full to provide
// backpressure. Returns the context error once the pool is cancelled.
func (wp *WorkerPool) Submit(work func()) error {
	select {
	case wp.workQueue <- work:
		return nil

	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Close shuts the pool down gracefully: the queue is closed and Close
// returns once every worker finishes its current item.
func (wp *WorkerPool) Close() {
	close(wp.workQueue)
	wp.wg.Wait()
}
