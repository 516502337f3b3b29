/*
   Copyright 2025 The Velk Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package sched implements the process-wide deferred-task queue: a FIFO of
// (invocable, owned-argument-snapshot) pairs drained by Update.
package sched

import (
	"sync"

	"velk.dev/velk/apis"
)

// Queue is the deferred-task FIFO. Enqueue is safe from any goroutine;
// Update is single-threaded by contract.
type Queue struct {
	mu    sync.Mutex
	tasks []apis.DeferredTask
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends tasks in order.
func (q *Queue) Enqueue(tasks []apis.DeferredTask) {
	if len(tasks) == 0 {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, tasks...)
	q.mu.Unlock()
}

// Len returns the number of queued tasks. Diagnostic use.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Update swaps the queue out and invokes the captured batch in FIFO order.
// Tasks whose target has expired are silently dropped; tasks queued during
// the drain run on the next Update.
func (q *Queue) Update() {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for i := range batch {
		t := &batch[i]
		ref, ok := t.Target.Upgrade()
		t.Target.Release()
		if !ok {
			continue
		}
		if fn, fok := ref.Interface().(apis.Function); fok {
			fn.Invoke(t.Args, apis.Immediate)
		}
		ref.Release()
	}
}
