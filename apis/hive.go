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

// VisitorFn visits one live object during iteration. Returning false stops
// the iteration early.
type VisitorFn func(ctx any, obj Object) bool

// StateVisitorFn visits one live object together with its property-state
// struct for the interface the iteration was started with.
type StateVisitorFn func(ctx any, obj Object, state any) bool

// Hive stores objects of a single class in cache-dense pages with O(1)
// placement construction. Removed objects stay alive as zombies while
// external strong references exist; pages with zombies outlive the hive
// itself as orphans.
type Hive interface {
	Interface

	// BindClass binds the hive to the class it stores. The class's factory
	// must support slot construction. Valid exactly once, before any Add.
	BindClass(classUid Uid) ReturnValue
	// ElementClassUid returns the UID of the stored class.
	ElementClassUid() Uid
	// Size returns the number of active objects. Lock-free.
	Size() int
	// Empty reports Size() == 0. Lock-free.
	Empty() bool
	// Add constructs a new object in a free slot and returns the owning
	// handle. The hive itself retains one additional strong reference.
	Add() Ref
	// Remove transitions the object's slot to zombie and releases the
	// hive's strong reference. The object stays alive until external
	// references drop; the slot is reclaimed by the last release.
	// Objects not stored in this hive are rejected with Fail.
	Remove(obj Object) ReturnValue
	// Contains reports whether obj occupies an active slot of this hive.
	Contains(obj Object) bool
	// ForEach visits every active object. Holds the hive's shared lock; a
	// visitor that mutates the same hive deadlocks.
	ForEach(ctx any, visitor VisitorFn)
	// ForEachState visits every active object along with its
	// property-state struct for interfaceUid. Objects without that state
	// are skipped.
	ForEachState(interfaceUid Uid, ctx any, visitor StateVisitorFn)
	// Close destroys the hive: active objects become zombies, pages with
	// surviving zombies are orphaned, and the rest are released. The hive
	// must not be used afterwards.
	Close()
}

// HiveStore caches one hive per class UID.
type HiveStore interface {
	Interface

	// GetHive returns the hive for classUid, creating it on first access.
	GetHive(classUid Uid) Hive
	// Close closes all cached hives.
	Close()
}
