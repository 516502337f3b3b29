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

// Package anyval implements the type-erased value cell: a single typed
// slot tagged with the UID of its value type.
package anyval

import (
	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/object"
	"velk.dev/velk/uid"
)

// Typed is a value cell storing exactly one T. Its class UID equals the
// UID of T, so the registry resolves CreateAny(typeUid) directly to it.
type Typed[T comparable] struct {
	object.Core
	data T
}

// Init wires the cell's core and interface table.
func (a *Typed[T]) Init(block *lifetime.Block) {
	a.InitCore(block, uid.OfType[T](),
		apis.InterfaceEntry{Uid: apis.InterfaceAny, Iface: a},
		apis.InterfaceEntry{Uid: apis.InterfaceObject, Iface: a},
	)
}

// TypeUid returns the UID of T.
func (a *Typed[T]) TypeUid() apis.Uid { return uid.OfType[T]() }

// CompatibleTypes returns the single-element list containing TypeUid.
func (a *Typed[T]) CompatibleTypes() []apis.Uid {
	return []apis.Uid{uid.OfType[T]()}
}

// GetData copies the stored value into to, which must be a *T.
func (a *Typed[T]) GetData(to any) apis.ReturnValue {
	if to == nil {
		return apis.InvalidArgument
	}
	p, ok := to.(*T)
	if !ok || p == nil {
		return apis.Fail
	}
	*p = a.data
	return apis.Success
}

// SetData overwrites the stored value from a T. Writing the identical
// value returns NothingToDo.
func (a *Typed[T]) SetData(from any) apis.ReturnValue {
	if from == nil {
		return apis.InvalidArgument
	}
	v, ok := from.(T)
	if !ok {
		return apis.Fail
	}
	if v == a.data {
		return apis.NothingToDo
	}
	a.data = v
	return apis.Success
}

// CopyFrom is SetData sourced from another cell of matching UID.
func (a *Typed[T]) CopyFrom(other apis.Any) apis.ReturnValue {
	if other == nil {
		return apis.InvalidArgument
	}
	if !apis.IsCompatible(other, uid.OfType[T]()) {
		return apis.Fail
	}
	var v T
	if r := other.GetData(&v); !apis.Succeeded(r) {
		return apis.Fail
	}
	return a.SetData(v)
}

// Clone returns a fresh cell with the same UID and value.
func (a *Typed[T]) Clone() apis.Any {
	return New[T](a.data)
}

// New constructs a standalone cell holding v. The cell owns its own
// control block; the caller's reference is tracked by the collector.
func New[T comparable](v T) apis.Any {
	a := &Typed[T]{data: v}
	block := lifetime.NewBlock(a)
	a.Init(block)
	return a
}

// Get reads a T out of cell a. The zero T and false are returned on a
// type mismatch or nil cell.
func Get[T comparable](a apis.Any) (T, bool) {
	var v T
	if a == nil {
		return v, false
	}
	if r := a.GetData(&v); !apis.Succeeded(r) {
		var zero T
		return zero, false
	}
	return v, true
}

// Set writes v into cell a.
func Set[T comparable](a apis.Any, v T) apis.ReturnValue {
	if a == nil {
		return apis.InvalidArgument
	}
	return a.SetData(v)
}
