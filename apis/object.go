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

// Object is an entity created through the registry: it owns a stable
// back-pointer to its control block, exposes a fixed interface set, and
// optionally carries a metadata container.
type Object interface {
	Interface

	// ClassUid returns the UID of the class this object was created as.
	ClassUid() Uid
	// Self returns a strong handle to this object, upgraded from the weak
	// back-reference seeded by SetSelf. The null handle is returned before
	// SetSelf or during destruction. The caller releases the handle.
	Self() Ref
	// SetSelf seeds the weak self back-reference from the owning handle.
	// Called exactly once after construction; later calls are no-ops.
	SetSelf(Ref)
	// Metadata returns the object's metadata container, or nil when the
	// class declares no members.
	Metadata() Metadata
}

// PropertyState is implemented by objects that expose a direct-write
// property-state struct per declaring interface.
type PropertyState interface {
	Interface

	// GetPropertyState returns the state struct registered for the given
	// interface UID, or nil.
	GetPropertyState(interfaceUid Uid) any
}
