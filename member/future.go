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

package member

import (
	"sync"

	"velk.dev/velk/anyval"
	"velk.dev/velk/apis"
)

// futureState is the shared promise/future state: the resolved result and
// the internal event carrying continuations. Continuations are plain
// handlers on that event; the state keeps their function objects alive.
type futureState struct {
	inst apis.Velk

	mu   sync.Mutex
	cond *sync.Cond

	ready  bool
	result apis.Any

	event    apis.Event
	eventRef apis.Ref

	continuations []Callback
}

// Promise is the write side of a promise/future pair.
type Promise struct {
	s *futureState
}

// Future is the read side of a promise/future pair.
type Future struct {
	s *futureState
}

// NewPromise creates a promise whose internal event is built through inst.
func NewPromise(inst apis.Velk) (Promise, bool) {
	if inst == nil {
		return Promise{}, false
	}
	ref := inst.Create(apis.ClassEvent)
	if !ref.IsValid() {
		return Promise{}, false
	}
	ev, ok := apis.Get[apis.Event](ref.Interface(), apis.InterfaceEvent)
	if !ok {
		ref.Release()
		return Promise{}, false
	}
	s := &futureState{inst: inst, event: ev, eventRef: ref}
	s.cond = sync.NewCond(&s.mu)
	return Promise{s: s}, true
}

// IsValid reports whether the promise holds state.
func (p Promise) IsValid() bool { return p.s != nil }

// Future returns the read side sharing this promise's state.
func (p Promise) Future() Future { return Future{s: p.s} }

// SetResult resolves the promise with result and fires the continuations
// with it as the single argument. Resolving an already-resolved promise
// returns NothingToDo and the first result persists.
func (p Promise) SetResult(result apis.Any) apis.ReturnValue {
	if p.s == nil {
		return apis.InvalidArgument
	}
	s := p.s
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return apis.NothingToDo
	}
	s.ready = true
	s.result = result
	event := s.event
	s.cond.Broadcast()
	s.mu.Unlock()

	event.Invoke(resultArgs(result), apis.Immediate)
	return apis.Success
}

// Complete resolves the promise with no value (the void future).
func (p Promise) Complete() apis.ReturnValue {
	return p.SetResult(nil)
}

// Release drops the pair's event and continuation references. Valid once
// no goroutine is waiting on the future.
func (p *Promise) Release() {
	if p.s == nil {
		return
	}
	s := p.s
	p.s = nil
	s.mu.Lock()
	conts := s.continuations
	s.continuations = nil
	s.event = nil
	ref := s.eventRef
	s.eventRef = apis.Ref{}
	s.mu.Unlock()
	for i := range conts {
		conts[i].Release()
	}
	ref.Release()
}

// SetPromiseValue resolves p with a typed value.
func SetPromiseValue[T comparable](p Promise, v T) apis.ReturnValue {
	return p.SetResult(anyval.New(v))
}

// IsValid reports whether the future holds state.
func (f Future) IsValid() bool { return f.s != nil }

// IsReady reports whether the promise has been resolved.
func (f Future) IsReady() bool {
	if f.s == nil {
		return false
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.ready
}

// Wait blocks until the promise is resolved.
func (f Future) Wait() {
	if f.s == nil {
		return
	}
	f.s.mu.Lock()
	for !f.s.ready {
		f.s.cond.Wait()
	}
	f.s.mu.Unlock()
}

// Result blocks until the promise is resolved and returns its result.
// Nil for void completion.
func (f Future) Result() apis.Any {
	if f.s == nil {
		return nil
	}
	f.s.mu.Lock()
	for !f.s.ready {
		f.s.cond.Wait()
	}
	defer f.s.mu.Unlock()
	return f.s.result
}

// Then registers fn as a continuation: a handler on the future's internal
// event. On an unresolved future the handler fires when the promise
// resolves (Immediate synchronously with the resolution, Deferred on the
// next Update). On an already-resolved future an immediate continuation
// runs now and a deferred one is queued with the result.
func (f Future) Then(fn apis.CallbackFn, mode apis.InvokeType) apis.ReturnValue {
	if f.s == nil || fn == nil {
		return apis.InvalidArgument
	}
	s := f.s
	s.mu.Lock()
	if s.ready {
		result := s.result
		s.mu.Unlock()
		if mode == apis.Immediate {
			return fn(resultArgs(result))
		}
		cb, ok := NewCallback(s.inst, fn)
		if !ok {
			return apis.Fail
		}
		s.mu.Lock()
		s.continuations = append(s.continuations, cb)
		s.mu.Unlock()
		return cb.Invoke(resultArgs(result), apis.Deferred)
	}
	if s.event == nil {
		s.mu.Unlock()
		return apis.Fail
	}
	cb, ok := NewCallback(s.inst, fn)
	if !ok {
		s.mu.Unlock()
		return apis.Fail
	}
	s.continuations = append(s.continuations, cb)
	// Registration stays inside the lock so resolution observes either a
	// registered handler or a ready result, never neither.
	r := s.event.AddHandler(cb.Function(), mode)
	s.mu.Unlock()
	return r
}

// resultArgs builds the continuation argument view for a result cell.
func resultArgs(result apis.Any) apis.FnArgs {
	if result == nil {
		return nil
	}
	return apis.FnArgs{result}
}

// FutureOf is a typed convenience view over a Future.
type FutureOf[T comparable] struct {
	f Future
}

// TypedFuture wraps f with typed accessors for T.
func TypedFuture[T comparable](f Future) FutureOf[T] {
	return FutureOf[T]{f: f}
}

// IsReady reports whether the promise has been resolved.
func (f FutureOf[T]) IsReady() bool { return f.f.IsReady() }

// Wait blocks until the promise is resolved.
func (f FutureOf[T]) Wait() { f.f.Wait() }

// Get blocks until resolution and returns the typed result, or the zero T
// for a void or mismatched result.
func (f FutureOf[T]) Get() T {
	v, _ := anyval.Get[T](f.f.Result())
	return v
}

// Then registers a typed continuation receiving the resolved value.
func (f FutureOf[T]) Then(fn func(T), mode apis.InvokeType) apis.ReturnValue {
	if fn == nil {
		return apis.InvalidArgument
	}
	return f.f.Then(func(args apis.FnArgs) apis.ReturnValue {
		if len(args) == 0 {
			return apis.InvalidArgument
		}
		v, ok := anyval.Get[T](args[0])
		if !ok {
			return apis.Fail
		}
		fn(v)
		return apis.Success
	}, mode)
}
