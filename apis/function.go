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

package apis

// CallbackFn is the native callback signature for a function's primary
// target.
type CallbackFn func(args FnArgs) ReturnValue

// BoundFn is a trampoline taking an explicit context, used to route an
// invocation through a method on an owning object.
type BoundFn func(ctx any, args FnArgs) ReturnValue

// Function is a multicast dispatch point with one optional primary target
// and an ordered handler list partitioned into an immediate prefix and a
// deferred suffix.
type Function interface {
	Interface

	// Invoke runs the function. Immediate: the primary target (if set)
	// runs and its result is recorded, immediate handlers run
	// synchronously, and deferred handlers are queued with a shared
	// argument snapshot; the primary result is returned if a primary was
	// set, otherwise Success if any handler ran, else NothingToDo.
	// Deferred: the whole invocation is queued and Success is returned.
	Invoke(args FnArgs, mode InvokeType) ReturnValue
	// AddHandler registers fn. Registering an already-present handler
	// returns NothingToDo. Immediate handlers join the prefix, deferred
	// handlers the suffix.
	AddHandler(fn Function, mode InvokeType) ReturnValue
	// RemoveHandler unregisters fn; NothingToDo if absent.
	RemoveHandler(fn Function) ReturnValue
	// HasHandlers reports whether any handler is registered.
	HasHandlers() bool
}

// Event is a degenerate Function without a primary target.
type Event = Function

// FunctionInternal configures a function's primary target.
type FunctionInternal interface {
	Interface

	// SetInvokeCallback installs fn as the primary target.
	SetInvokeCallback(fn CallbackFn)
	// Bind installs a (context, trampoline) pair as the primary target.
	Bind(ctx any, fn BoundFn)
}
