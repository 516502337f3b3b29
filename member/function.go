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

// Package member implements the object members of the core: properties
// with change notification, events, functions with immediate and deferred
// handlers, and the per-instance metadata container that instantiates them
// lazily from class descriptors.
package member

import (
	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/object"
)

// handlerList is an ordered handler vector partitioned into an immediate
// prefix [0, deferredBegin) and a deferred suffix [deferredBegin, end).
type handlerList struct {
	handlers      []apis.Function
	deferredBegin int
}

// add registers fn. Identity-duplicate registrations return NothingToDo.
// The list takes a strong reference on the handler.
func (l *handlerList) add(fn apis.Function, mode apis.InvokeType) apis.ReturnValue {
	if fn == nil {
		return apis.InvalidArgument
	}
	for _, h := range l.handlers {
		if h == fn {
			return apis.NothingToDo
		}
	}
	fn.Ref()
	if mode == apis.Immediate {
		l.handlers = append(l.handlers, nil)
		copy(l.handlers[l.deferredBegin+1:], l.handlers[l.deferredBegin:])
		l.handlers[l.deferredBegin] = fn
		l.deferredBegin++
	} else {
		l.handlers = append(l.handlers, fn)
	}
	return apis.Success
}

// remove unregisters fn; NothingToDo if absent.
func (l *handlerList) remove(fn apis.Function) apis.ReturnValue {
	if fn == nil {
		return apis.InvalidArgument
	}
	for i, h := range l.handlers {
		if h == fn {
			if i < l.deferredBegin {
				l.deferredBegin--
			}
			l.handlers = append(l.handlers[:i], l.handlers[i+1:]...)
			fn.Unref()
			return apis.Success
		}
	}
	return apis.NothingToDo
}

// immediate returns the immediate prefix.
func (l *handlerList) immediate() []apis.Function {
	return l.handlers[:l.deferredBegin]
}

// deferred returns the deferred suffix.
func (l *handlerList) deferred() []apis.Function {
	return l.handlers[l.deferredBegin:]
}

// hasHandlers reports whether the list is non-empty.
func (l *handlerList) hasHandlers() bool {
	return len(l.handlers) > 0
}

// dispose releases every held handler reference.
func (l *handlerList) dispose() {
	for _, h := range l.handlers {
		h.Unref()
	}
	l.handlers = nil
	l.deferredBegin = 0
}

// Function is the invocable dispatch point: one optional primary target
// plus the partitioned handler list.
type Function struct {
	object.Core

	inst apis.Velk

	primary  apis.CallbackFn
	boundCtx any
	boundFn  apis.BoundFn

	list handlerList
}

// Init wires the function's core and interface table.
func (f *Function) Init(block *lifetime.Block) {
	f.InitCore(block, apis.ClassFunction,
		apis.InterfaceEntry{Uid: apis.InterfaceFunction, Iface: f},
		apis.InterfaceEntry{Uid: apis.InterfaceFunctionInternal, Iface: f},
		apis.InterfaceEntry{Uid: apis.InterfaceEvent, Iface: f},
		apis.InterfaceEntry{Uid: apis.InterfaceObject, Iface: f},
	)
}

// SetInstance wires the process instance used for deferred queueing.
func (f *Function) SetInstance(inst apis.Velk) { f.inst = inst }

// SetInvokeCallback installs fn as the primary target.
func (f *Function) SetInvokeCallback(fn apis.CallbackFn) {
	f.primary = fn
	f.boundCtx = nil
	f.boundFn = nil
}

// Bind installs a (context, trampoline) pair as the primary target.
func (f *Function) Bind(ctx any, fn apis.BoundFn) {
	f.primary = nil
	f.boundCtx = ctx
	f.boundFn = fn
}

// Invoke runs the function per the dispatch contract.
func (f *Function) Invoke(args apis.FnArgs, mode apis.InvokeType) apis.ReturnValue {
	if mode == apis.Deferred {
		return f.invokeDeferred(args)
	}
	return invokeList(f.inst, &f.list, args, f.primaryTarget())
}

// primaryTarget returns the primary invocation, or nil when none is set.
func (f *Function) primaryTarget() apis.CallbackFn {
	if f.primary != nil {
		return f.primary
	}
	if f.boundFn != nil {
		ctx, fn := f.boundCtx, f.boundFn
		return func(args apis.FnArgs) apis.ReturnValue {
			return fn(ctx, args)
		}
	}
	return nil
}

// invokeDeferred queues one task carrying (self, cloned args).
func (f *Function) invokeDeferred(args apis.FnArgs) apis.ReturnValue {
	if f.inst == nil {
		return apis.Fail
	}
	self := f.Self()
	if !self.IsValid() {
		return apis.Fail
	}
	task := apis.DeferredTask{Target: self.Downgrade(), Args: apis.CloneArgs(args)}
	self.Release()
	f.inst.QueueDeferredTasks([]apis.DeferredTask{task})
	return apis.Success
}

// AddHandler registers fn on the handler list.
func (f *Function) AddHandler(fn apis.Function, mode apis.InvokeType) apis.ReturnValue {
	return f.list.add(fn, mode)
}

// RemoveHandler unregisters fn from the handler list.
func (f *Function) RemoveHandler(fn apis.Function) apis.ReturnValue {
	return f.list.remove(fn)
}

// HasHandlers reports whether any handler is registered.
func (f *Function) HasHandlers() bool {
	return f.list.hasHandlers()
}

// Dispose releases the handler references and the core's resources.
func (f *Function) Dispose() {
	f.list.dispose()
	f.primary = nil
	f.boundCtx = nil
	f.boundFn = nil
	f.Core.Dispose()
}

// invokeList is the shared immediate dispatch path for functions and
// events: primary (if any), then the immediate prefix synchronously, then
// one queued task per deferred handler sharing a single argument snapshot.
func invokeList(inst apis.Velk, list *handlerList, args apis.FnArgs, primary apis.CallbackFn) apis.ReturnValue {
	result := apis.NothingToDo
	if primary != nil {
		result = primary(args)
	}

	ran := false
	for _, h := range list.immediate() {
		h.Invoke(args, apis.Immediate)
		ran = true
	}

	if deferred := list.deferred(); len(deferred) > 0 && inst != nil {
		// One snapshot shared across every queued task for this invocation.
		snapshot := apis.CloneArgs(args)
		tasks := make([]apis.DeferredTask, 0, len(deferred))
		for _, h := range deferred {
			obj, ok := h.(apis.Object)
			if !ok {
				continue
			}
			self := obj.Self()
			if !self.IsValid() {
				continue
			}
			tasks = append(tasks, apis.DeferredTask{Target: self.Downgrade(), Args: snapshot})
			self.Release()
			ran = true
		}
		if len(tasks) > 0 {
			inst.QueueDeferredTasks(tasks)
		}
	}

	if primary != nil {
		return result
	}
	if ran {
		return apis.Success
	}
	return apis.NothingToDo
}
