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

	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/object"
)

// Property is a value cell with change notification: writes are
// equality-short-circuited, the value is committed before OnChanged fires,
// and deferred writes coalesce to the final value within one Update drain.
type Property struct {
	object.Core

	inst apis.Velk

	mu     sync.Mutex
	data   apis.Any
	access apis.AccessMode

	onChanged    apis.Event
	onChangedRef apis.Ref

	// Deferred write coalescing: pending holds the latest queued value;
	// a single applier task drains it on Update.
	pending       apis.Any
	pendingQueued bool
	applier       apis.Function
	applierRef    apis.Ref
}

// Init wires the property's core and interface table.
func (p *Property) Init(block *lifetime.Block) {
	p.InitCore(block, apis.ClassProperty,
		apis.InterfaceEntry{Uid: apis.InterfaceProperty, Iface: p},
		apis.InterfaceEntry{Uid: apis.InterfacePropertyInternal, Iface: p},
		apis.InterfaceEntry{Uid: apis.InterfaceObject, Iface: p},
	)
}

// SetInstance wires the process instance used for satellite creation and
// deferred queueing.
func (p *Property) SetInstance(inst apis.Velk) { p.inst = inst }

// SetValue commits from into the backing cell and fires OnChanged.
func (p *Property) SetValue(from apis.Any) apis.ReturnValue {
	if from == nil {
		return apis.InvalidArgument
	}

	p.mu.Lock()
	if p.access == apis.ReadOnlyAccess {
		p.mu.Unlock()
		return apis.ReadOnly
	}
	data := p.data
	if data == nil || !apis.IsCompatible(data, from.TypeUid()) {
		p.mu.Unlock()
		return apis.Fail
	}
	r := data.CopyFrom(from)
	event := p.onChanged
	p.mu.Unlock()

	if r != apis.Success {
		return r
	}
	// Value committed; notify with the backing cell as the single argument.
	if event != nil {
		event.Invoke(apis.FnArgs{data}, apis.Immediate)
	}
	return apis.Success
}

// SetValueDeferred queues the write for the next Update. Queued writes to
// the same property coalesce: one task applies the final value and fires
// OnChanged at most once.
func (p *Property) SetValueDeferred(from apis.Any) apis.ReturnValue {
	if from == nil {
		return apis.InvalidArgument
	}
	if p.inst == nil {
		return apis.Fail
	}

	p.mu.Lock()
	if p.access == apis.ReadOnlyAccess {
		p.mu.Unlock()
		return apis.ReadOnly
	}
	if p.data == nil || !apis.IsCompatible(p.data, from.TypeUid()) {
		p.mu.Unlock()
		return apis.Fail
	}
	p.pending = from.Clone()
	if p.pendingQueued {
		p.mu.Unlock()
		return apis.Success
	}
	p.pendingQueued = true
	applier, ok := p.applierLocked()
	p.mu.Unlock()
	if !ok {
		p.dropPending()
		return apis.Fail
	}

	obj := applier.(apis.Object)
	self := obj.Self()
	if !self.IsValid() {
		p.dropPending()
		return apis.Fail
	}
	task := apis.DeferredTask{Target: self.Downgrade()}
	self.Release()
	p.inst.QueueDeferredTasks([]apis.DeferredTask{task})
	return apis.Success
}

// applierLocked lazily creates the coalescing applier function.
// Called with p.mu held; the applier lives as long as the property.
func (p *Property) applierLocked() (apis.Function, bool) {
	if p.applier != nil {
		return p.applier, true
	}
	ref := p.inst.Create(apis.ClassFunction)
	if !ref.IsValid() {
		return nil, false
	}
	fn, ok := apis.Get[apis.Function](ref.Interface(), apis.InterfaceFunction)
	internal, iok := apis.Get[apis.FunctionInternal](ref.Interface(), apis.InterfaceFunctionInternal)
	if !ok || !iok {
		ref.Release()
		return nil, false
	}
	internal.SetInvokeCallback(func(apis.FnArgs) apis.ReturnValue {
		return p.applyPending()
	})
	p.applier = fn
	p.applierRef = ref
	return fn, true
}

// dropPending abandons a queued write that could not be scheduled.
func (p *Property) dropPending() {
	p.mu.Lock()
	p.pending = nil
	p.pendingQueued = false
	p.mu.Unlock()
}

// applyPending commits the latest queued value.
func (p *Property) applyPending() apis.ReturnValue {
	p.mu.Lock()
	v := p.pending
	p.pending = nil
	p.pendingQueued = false
	p.mu.Unlock()
	if v == nil {
		return apis.NothingToDo
	}
	return p.SetValue(v)
}

// GetValue returns the backing cell.
func (p *Property) GetValue() apis.Any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// OnChanged returns the change event, created lazily.
func (p *Property) OnChanged() apis.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.onChanged != nil {
		return p.onChanged
	}
	if p.inst == nil {
		return nil
	}
	ref := p.inst.Create(apis.ClassEvent)
	if !ref.IsValid() {
		return nil
	}
	ev, ok := apis.Get[apis.Event](ref.Interface(), apis.InterfaceEvent)
	if !ok {
		ref.Release()
		return nil
	}
	p.onChanged = ev
	p.onChangedRef = ref
	return ev
}

// SetAny installs the backing cell. Valid exactly once; the property takes
// a strong reference on the cell.
func (p *Property) SetAny(a apis.Any) bool {
	if a == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data != nil {
		return false
	}
	a.Ref()
	p.data = a
	return true
}

// GetAny returns the backing cell. Writes through it bypass change
// notification.
func (p *Property) GetAny() apis.Any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// SetAccessMode switches the property between read-write and read-only.
func (p *Property) SetAccessMode(mode apis.AccessMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.access = mode
}

// Dispose releases the backing cell and the satellites.
func (p *Property) Dispose() {
	p.mu.Lock()
	data := p.data
	p.data = nil
	p.pending = nil
	p.onChanged = nil
	p.applier = nil
	onChangedRef := p.onChangedRef
	applierRef := p.applierRef
	p.onChangedRef = apis.Ref{}
	p.applierRef = apis.Ref{}
	p.mu.Unlock()

	if data != nil {
		data.Unref()
	}
	onChangedRef.Release()
	applierRef.Release()
	p.Core.Dispose()
}
