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

// ObjectFactory constructs instances of one class.
type ObjectFactory interface {
	// ClassInfo returns the static description of the produced class.
	ClassInfo() *ClassInfo
	// New heap-constructs an instance born with a fresh control block
	// (strong=1, weak=1). The caller adopts the initial strong count.
	New() (Object, *lifetime.Block)
}

// SlotFactory is implemented by factories whose class can live in
// slot-managed (hive) storage.
type SlotFactory interface {
	ObjectFactory

	// NewSlots allocates contiguous storage for capacity instances.
	NewSlots(capacity int) Slots
}

// Slots is a contiguous slab of object storage. Slots are constructed in
// place and reused; the slab itself is allocated once per page.
type Slots interface {
	// Len returns the slab capacity.
	Len() int
	// Construct placement-initializes slot i with the given control block
	// and returns the object.
	Construct(i int, block *lifetime.Block) Object
	// At returns the object occupying slot i. Only valid for slots that
	// have been constructed.
	At(i int) Object
	// IndexOf returns the slot index occupied by obj, or -1 when obj is
	// not stored in this slab.
	IndexOf(obj Interface) int
	// FreeLink returns the intrusive freelist scratch word of slot i.
	// Only meaningful while the slot is free.
	FreeLink(i int) *uint32
}
