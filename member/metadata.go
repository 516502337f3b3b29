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
)

// satellite is one cached lazily-created member instance.
type satellite struct {
	name  string
	iface apis.Interface
	ref   apis.Ref
}

// stateWrite is one queued deferred property-state mutation.
type stateWrite struct {
	interfaceUid apis.Uid
	fn           func()
}

// Container is the per-instance metadata container. It owns the class's
// descriptor view and creates property/event/function satellites on first
// access through the instance. Satellites are never re-created for the
// owning object's lifetime.
//
// The container delegates the Interface capability to its owning object.
type Container struct {
	owner   apis.Object
	inst    apis.Velk
	members []apis.MemberDesc

	mu         sync.Mutex
	properties []satellite
	events     []satellite
	functions  []satellite

	// Deferred state-write machinery: queued mutations drained by a single
	// applier satellite whose expiry drops them with the object.
	pendingWrites []stateWrite
	stateApplier  apis.Function
	stateRef      apis.Ref
}

// NewContainer builds the container for owner from the class's descriptor
// list. The owner takes ownership.
func NewContainer(owner apis.Object, inst apis.Velk, members []apis.MemberDesc) *Container {
	return &Container{owner: owner, inst: inst, members: members}
}

// GetInterface delegates to the owning object.
func (c *Container) GetInterface(uid apis.Uid) apis.Interface {
	return c.owner.GetInterface(uid)
}

// Ref delegates to the owning object.
func (c *Container) Ref() { c.owner.Ref() }

// Unref delegates to the owning object.
func (c *Container) Unref() { c.owner.Unref() }

// GetStaticMetadata returns the descriptor view verbatim.
func (c *Container) GetStaticMetadata() []apis.MemberDesc { return c.members }

// GetProperty returns the property satellite named name, creating it on
// first access from its descriptor's type and default value.
func (c *Container) GetProperty(name string) apis.Property {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.properties {
		if s.name == name {
			return s.iface.(apis.Property)
		}
	}
	for _, desc := range c.members {
		if desc.Kind != apis.KindProperty || desc.Name != name {
			continue
		}
		initial, initialRef := c.defaultCell(desc)
		ref := c.inst.CreateProperty(desc.TypeUid, initial)
		// CreateProperty took its own strong reference on the cell.
		initialRef.Release()
		if !ref.IsValid() {
			return nil
		}
		prop, ok := apis.Get[apis.Property](ref.Interface(), apis.InterfaceProperty)
		if !ok {
			ref.Release()
			return nil
		}
		c.properties = append(c.properties, satellite{name: name, iface: prop, ref: ref})
		return prop
	}
	return nil
}

// defaultCell builds the initial backing cell for desc together with its
// creation reference, or nil and the null reference when the descriptor
// carries no default. The caller releases the reference once the cell has
// been handed to CreateProperty.
func (c *Container) defaultCell(desc apis.MemberDesc) (apis.Any, apis.Ref) {
	if desc.Default == nil {
		return nil, apis.Ref{}
	}
	ref := c.inst.CreateAny(desc.TypeUid)
	if !ref.IsValid() {
		return nil, apis.Ref{}
	}
	a, ok := apis.Get[apis.Any](ref.Interface(), apis.InterfaceAny)
	if !ok {
		ref.Release()
		return nil, apis.Ref{}
	}
	a.SetData(desc.Default)
	return a, ref
}

// GetEvent returns the event satellite named name, creating it on first
// access.
func (c *Container) GetEvent(name string) apis.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.events {
		if s.name == name {
			return s.iface.(apis.Event)
		}
	}
	for _, desc := range c.members {
		if desc.Kind != apis.KindEvent || desc.Name != name {
			continue
		}
		ref := c.inst.Create(apis.ClassEvent)
		if !ref.IsValid() {
			return nil
		}
		ev, ok := apis.Get[apis.Event](ref.Interface(), apis.InterfaceEvent)
		if !ok {
			ref.Release()
			return nil
		}
		c.events = append(c.events, satellite{name: name, iface: ev, ref: ref})
		return ev
	}
	return nil
}

// GetFunction returns the function satellite named name, creating it on
// first access.
func (c *Container) GetFunction(name string) apis.Function {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.functions {
		if s.name == name {
			return s.iface.(apis.Function)
		}
	}
	for _, desc := range c.members {
		if desc.Kind != apis.KindFunction || desc.Name != name {
			continue
		}
		ref := c.inst.Create(apis.ClassFunction)
		if !ref.IsValid() {
			return nil
		}
		fn, ok := apis.Get[apis.Function](ref.Interface(), apis.InterfaceFunction)
		if !ok {
			ref.Release()
			return nil
		}
		c.functions = append(c.functions, satellite{name: name, iface: fn, ref: ref})
		return fn
	}
	return nil
}

// Notify fires the notification for the member declared by interfaceUid.
// Only Changed is defined; the matching property's change event fires with
// the property's current value.
func (c *Container) Notify(kind apis.MemberKind, interfaceUid apis.Uid, n apis.Notification) {
	if kind != apis.KindProperty || n != apis.Changed {
		return
	}
	for _, desc := range c.members {
		if desc.Kind != apis.KindProperty || desc.Owner != interfaceUid {
			continue
		}
		prop := c.GetProperty(desc.Name)
		if prop == nil {
			continue
		}
		if ev := prop.OnChanged(); ev != nil {
			ev.Invoke(apis.FnArgs{prop.GetValue()}, apis.Immediate)
		}
	}
}

// QueueStateWrite queues a deferred property-state mutation drained on the
// next Update. Mutations die with the owning object.
func (c *Container) QueueStateWrite(interfaceUid apis.Uid, fn func()) apis.ReturnValue {
	if fn == nil {
		return apis.InvalidArgument
	}
	c.mu.Lock()
	applier, ok := c.stateApplierLocked()
	if !ok {
		c.mu.Unlock()
		return apis.Fail
	}
	c.pendingWrites = append(c.pendingWrites, stateWrite{interfaceUid: interfaceUid, fn: fn})
	c.mu.Unlock()

	obj := applier.(apis.Object)
	self := obj.Self()
	if !self.IsValid() {
		return apis.Fail
	}
	task := apis.DeferredTask{Target: self.Downgrade()}
	self.Release()
	c.inst.QueueDeferredTasks([]apis.DeferredTask{task})
	return apis.Success
}

// stateApplierLocked lazily creates the drain function. Called with c.mu
// held.
func (c *Container) stateApplierLocked() (apis.Function, bool) {
	if c.stateApplier != nil {
		return c.stateApplier, true
	}
	ref := c.inst.Create(apis.ClassFunction)
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
		return c.drainStateWrites()
	})
	c.stateApplier = fn
	c.stateRef = ref
	return fn, true
}

// drainStateWrites applies every queued mutation and notifies per write.
func (c *Container) drainStateWrites() apis.ReturnValue {
	c.mu.Lock()
	writes := c.pendingWrites
	c.pendingWrites = nil
	c.mu.Unlock()
	if len(writes) == 0 {
		return apis.NothingToDo
	}
	for _, w := range writes {
		w.fn()
		c.Notify(apis.KindProperty, w.interfaceUid, apis.Changed)
	}
	return apis.Success
}

// Dispose releases every cached satellite reference.
func (c *Container) Dispose() {
	c.mu.Lock()
	props, events, funcs := c.properties, c.events, c.functions
	stateRef := c.stateRef
	c.properties, c.events, c.functions = nil, nil, nil
	c.stateApplier = nil
	c.stateRef = apis.Ref{}
	c.pendingWrites = nil
	c.mu.Unlock()

	for _, s := range props {
		s.ref.Release()
	}
	for _, s := range events {
		s.ref.Release()
	}
	for _, s := range funcs {
		s.ref.Release()
	}
	stateRef.Release()
}
