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
	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/object"
)

// Event is the degenerate dispatch point: the same handler list as
// Function, with no primary target.
type Event struct {
	object.Core

	inst apis.Velk
	list handlerList
}

// Init wires the event's core and interface table.
func (e *Event) Init(block *lifetime.Block) {
	e.InitCore(block, apis.ClassEvent,
		apis.InterfaceEntry{Uid: apis.InterfaceEvent, Iface: e},
		apis.InterfaceEntry{Uid: apis.InterfaceFunction, Iface: e},
		apis.InterfaceEntry{Uid: apis.InterfaceObject, Iface: e},
	)
}

// SetInstance wires the process instance used for deferred queueing.
func (e *Event) SetInstance(inst apis.Velk) { e.inst = inst }

// Invoke dispatches to the handler list.
func (e *Event) Invoke(args apis.FnArgs, mode apis.InvokeType) apis.ReturnValue {
	if mode == apis.Deferred {
		if e.inst == nil {
			return apis.Fail
		}
		self := e.Self()
		if !self.IsValid() {
			return apis.Fail
		}
		task := apis.DeferredTask{Target: self.Downgrade(), Args: apis.CloneArgs(args)}
		self.Release()
		e.inst.QueueDeferredTasks([]apis.DeferredTask{task})
		return apis.Success
	}
	return invokeList(e.inst, &e.list, args, nil)
}

// AddHandler registers fn on the handler list.
func (e *Event) AddHandler(fn apis.Function, mode apis.InvokeType) apis.ReturnValue {
	return e.list.add(fn, mode)
}

// RemoveHandler unregisters fn from the handler list.
func (e *Event) RemoveHandler(fn apis.Function) apis.ReturnValue {
	return e.list.remove(fn)
}

// HasHandlers reports whether any handler is registered.
func (e *Event) HasHandlers() bool {
	return e.list.hasHandlers()
}

// Dispose releases the handler references and the core's resources.
func (e *Event) Dispose() {
	e.list.dispose()
	e.Core.Dispose()
}
