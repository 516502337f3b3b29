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

package object

import (
	"unsafe"

	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
)

// Constructor constrains the pointer type of a class that can be produced
// by Factory: it must be a velk object whose Init method wires the
// embedded Core to its control block.
type Constructor[T any] interface {
	*T
	apis.Object

	// Init wires the embedded Core (block, class UID, interface table).
	Init(block *lifetime.Block)
	// FreeLink exposes the core's freelist scratch word.
	FreeLink() *uint32
}

// Factory produces instances of one class, both heap-allocated and in
// slot-managed slabs.
type Factory[T any, PT Constructor[T]] struct {
	info  apis.ClassInfo
	setup func(PT)
}

// NewFactory returns a factory for T. setup, if non-nil, runs after Init
// on every constructed instance (instance wiring, state registration).
func NewFactory[T any, PT Constructor[T]](info apis.ClassInfo, setup func(PT)) *Factory[T, PT] {
	return &Factory[T, PT]{info: info, setup: setup}
}

// ClassInfo returns the static description of the produced class.
func (f *Factory[T, PT]) ClassInfo() *apis.ClassInfo { return &f.info }

// New heap-constructs an instance born with a fresh control block.
func (f *Factory[T, PT]) New() (apis.Object, *lifetime.Block) {
	pt := PT(new(T))
	block := lifetime.NewBlock(pt)
	pt.Init(block)
	if f.setup != nil {
		f.setup(pt)
	}
	return pt, block
}

// NewSlots allocates a contiguous slab for capacity instances.
func (f *Factory[T, PT]) NewSlots(capacity int) apis.Slots {
	return &slab[T, PT]{backing: make([]T, capacity), setup: f.setup}
}

// slab is a dense, pointer-stable run of object storage.
type slab[T any, PT Constructor[T]] struct {
	backing []T
	setup   func(PT)
}

// Len returns the slab capacity.
func (s *slab[T, PT]) Len() int { return len(s.backing) }

// Construct placement-initializes slot i with the given control block.
// Reused slots are zeroed first.
func (s *slab[T, PT]) Construct(i int, block *lifetime.Block) apis.Object {
	var zero T
	s.backing[i] = zero
	pt := PT(&s.backing[i])
	block.SetSelf(pt)
	pt.Init(block)
	if s.setup != nil {
		s.setup(pt)
	}
	return pt
}

// At returns the object occupying slot i.
func (s *slab[T, PT]) At(i int) apis.Object {
	return PT(&s.backing[i])
}

// IndexOf locates obj within the slab by address, or returns -1.
func (s *slab[T, PT]) IndexOf(obj apis.Interface) int {
	pt, ok := obj.(PT)
	if !ok || len(s.backing) == 0 {
		return -1
	}
	size := unsafe.Sizeof(s.backing[0])
	if size == 0 {
		return -1
	}
	base := uintptr(unsafe.Pointer(&s.backing[0]))
	addr := uintptr(unsafe.Pointer(pt))
	if addr < base || addr >= base+size*uintptr(len(s.backing)) {
		return -1
	}
	off := addr - base
	if off%size != 0 {
		return -1
	}
	return int(off / size)
}

// FreeLink returns the freelist scratch word of slot i.
func (s *slab[T, PT]) FreeLink(i int) *uint32 {
	return PT(&s.backing[i]).FreeLink()
}
