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

// Package object provides the reusable object core (control-block wiring,
// UID-addressed interface table, self back-reference, metadata attachment)
// and the generic factory used to register classes with the instance.
package object

import (
	"sync"

	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
)

// stateEntry associates a declaring interface UID with its property-state
// struct.
type stateEntry struct {
	uid   apis.Uid
	state any
}

// Core is the embeddable object base: it implements the Interface and
// Object capabilities for any concrete type that embeds it as its first
// field and calls InitCore during construction.
type Core struct {
	block    *lifetime.Block
	classUid apis.Uid

	// ifaces is the fixed interface table, scanned linearly (the set is
	// small, typically under ten entries).
	ifaces []apis.InterfaceEntry

	// self is the weak back-reference seeded by SetSelf.
	self     apis.WeakRef
	selfOnce sync.Once

	meta apis.Metadata

	states []stateEntry

	// freeLink is the intrusive freelist scratch word used by slot
	// containers while the slot is free.
	freeLink uint32
}

// InitCore wires the core to its control block and installs the fixed
// interface table. Called exactly once during construction.
func (c *Core) InitCore(block *lifetime.Block, classUid apis.Uid, ifaces ...apis.InterfaceEntry) {
	c.block = block
	c.classUid = classUid
	c.ifaces = ifaces
}

// Block returns the object's control block.
func (c *Core) Block() *lifetime.Block { return c.block }

// ClassUid returns the UID of the class this object was created as.
func (c *Core) ClassUid() apis.Uid { return c.classUid }

// GetInterface returns the capability registered under uid, or nil.
func (c *Core) GetInterface(uid apis.Uid) apis.Interface {
	for _, e := range c.ifaces {
		if e.Uid == uid {
			return e.Iface
		}
	}
	if uid == apis.InterfaceMetadata && c.meta != nil {
		return c.meta
	}
	return nil
}

// Ref increments the strong reference count.
func (c *Core) Ref() { c.block.AcquireStrong() }

// Unref decrements the strong reference count, destroying the object when
// it reaches zero.
func (c *Core) Unref() { c.block.ReleaseStrong() }

// SetSelf seeds the weak self back-reference from the owning handle.
// Only the first call takes effect.
func (c *Core) SetSelf(r apis.Ref) {
	c.selfOnce.Do(func() {
		c.self = r.Downgrade()
	})
}

// Self returns a strong handle upgraded from the seeded back-reference,
// or the null handle before SetSelf or during destruction.
func (c *Core) Self() apis.Ref {
	r, _ := c.self.Upgrade()
	return r
}

// SetMetadata attaches the metadata container. The object takes ownership.
func (c *Core) SetMetadata(m apis.Metadata) { c.meta = m }

// Metadata returns the attached metadata container, or nil.
func (c *Core) Metadata() apis.Metadata { return c.meta }

// AddPropertyState registers a property-state struct for the declaring
// interface UID. Part of construction; the set is fixed afterwards.
func (c *Core) AddPropertyState(interfaceUid apis.Uid, state any) {
	c.states = append(c.states, stateEntry{uid: interfaceUid, state: state})
}

// GetPropertyState returns the state struct registered for interfaceUid,
// or nil.
func (c *Core) GetPropertyState(interfaceUid apis.Uid) any {
	for _, e := range c.states {
		if e.uid == interfaceUid {
			return e.state
		}
	}
	return nil
}

// FreeLink returns the intrusive freelist scratch word. Only meaningful
// while the owning slot is free.
func (c *Core) FreeLink() *uint32 { return &c.freeLink }

// Dispose releases resources the core owns: the metadata container's
// satellites and the seeded self back-reference.
func (c *Core) Dispose() {
	if d, ok := c.meta.(lifetime.Disposer); ok {
		d.Dispose()
	}
	c.meta = nil
	c.self.Release()
}
