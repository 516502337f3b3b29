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

import (
	"velk.dev/velk/lifetime"
)

// Interface is the root capability of every velk object: UID-based
// interface querying plus manual reference counting.
//
// An object's interface set is fixed at construction and never changes.
type Interface interface {
	// GetInterface returns the capability registered under uid, or nil.
	// A missing interface is a queryable property of the object, not an
	// error.
	GetInterface(uid Uid) Interface
	// Ref increments the strong reference count. Only valid while the
	// caller already holds a strong reference.
	Ref()
	// Unref decrements the strong reference count. The object is destroyed
	// when it reaches zero.
	Unref()
}

// InterfaceInfo is the static descriptor for an interface type.
type InterfaceInfo struct {
	// Uid identifies the interface.
	Uid Uid
	// Name is the interface's registered name.
	Name string
}

// InterfaceEntry associates an interface UID with its implementation on a
// concrete object.
type InterfaceEntry struct {
	// Uid identifies the capability.
	Uid Uid
	// Iface is the implementation, usually the object itself.
	Iface Interface
}

// Get queries obj for uid and type-asserts the result to T.
// The zero T and false are returned when the interface is absent.
func Get[T Interface](obj Interface, uid Uid) (T, bool) {
	var zero T
	if obj == nil {
		return zero, false
	}
	i := obj.GetInterface(uid)
	if i == nil {
		return zero, false
	}
	t, ok := i.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Ref is a strong handle: it owns one strong count on the referenced
// object. The zero Ref is the null handle.
//
// Refs are moved, not copied; use Clone to take an additional count and
// Release to drop the held one.
type Ref struct {
	obj   Interface
	block *lifetime.Block
}

// AdoptRef wraps obj and its control block without changing counts: the
// returned handle adopts the strong count the caller already holds.
func AdoptRef(obj Interface, block *lifetime.Block) Ref {
	return Ref{obj: obj, block: block}
}

// IsValid reports whether the handle references an object.
func (r Ref) IsValid() bool { return r.block != nil }

// Interface returns the referenced object, or nil for the null handle.
func (r Ref) Interface() Interface { return r.obj }

// Block returns the referenced control block. Diagnostic use.
func (r Ref) Block() *lifetime.Block { return r.block }

// Clone returns a new handle owning an additional strong count.
func (r Ref) Clone() Ref {
	if r.block == nil {
		return Ref{}
	}
	r.block.AcquireStrong()
	return r
}

// Release drops the held strong count and nulls the handle.
func (r *Ref) Release() {
	if r.block == nil {
		return
	}
	b := r.block
	r.obj = nil
	r.block = nil
	b.ReleaseStrong()
}

// Downgrade returns a weak handle to the same object. The strong handle is
// left untouched.
func (r Ref) Downgrade() WeakRef {
	if r.block == nil {
		return WeakRef{}
	}
	r.block.AcquireWeak()
	return WeakRef{obj: r.obj, block: r.block}
}

// WeakRef is a weak handle: it owns one weak count and does not keep the
// object alive. The zero WeakRef is the null handle.
type WeakRef struct {
	obj   Interface
	block *lifetime.Block
}

// IsValid reports whether the handle references a control block.
func (w WeakRef) IsValid() bool { return w.block != nil }

// Expired reports whether the referenced object has been destroyed.
// A null handle is expired.
func (w WeakRef) Expired() bool { return w.block == nil || w.block.Expired() }

// Upgrade attempts to obtain a strong handle. It refuses once the object's
// destruction has begun.
func (w WeakRef) Upgrade() (Ref, bool) {
	if w.block == nil || !w.block.TryUpgrade() {
		return Ref{}, false
	}
	return Ref{obj: w.obj, block: w.block}, true
}

// Release drops the held weak count and nulls the handle.
func (w *WeakRef) Release() {
	if w.block == nil {
		return
	}
	b := w.block
	w.obj = nil
	w.block = nil
	b.ReleaseWeak()
}
