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

// MemberDesc describes one declared member of a class: a property, event,
// or function. Descriptors are static per class and read-only after
// registration.
type MemberDesc struct {
	// Name is the member's name.
	Name string
	// Kind classifies the member.
	Kind MemberKind
	// TypeUid is the UID of the member's value type (properties only).
	TypeUid Uid
	// Owner is the UID of the interface that declared the member. Used by
	// Notify to locate the member for an interface UID.
	Owner Uid
	// Default is the property's default value, typed as the member's value
	// type. Nil for events and functions.
	Default any
}

// DefaultValue returns desc's default value as T.
func DefaultValue[T any](desc MemberDesc) (T, bool) {
	v, ok := desc.Default.(T)
	return v, ok
}

// ClassInfo is the static description of a registered class.
type ClassInfo struct {
	// Uid identifies the class in the registry.
	Uid Uid
	// Name is the class's registered name.
	Name string
	// Members lists the class's declared members. May be empty.
	Members []MemberDesc
}

// Metadata is the per-instance container that lazily instantiates
// property/event/function satellites from the class's member descriptors.
//
// Satellites are created once per name and cached for the lifetime of the
// owning object; their identities remain stable.
type Metadata interface {
	Interface

	// GetStaticMetadata returns the class's descriptor list verbatim.
	GetStaticMetadata() []MemberDesc
	// GetProperty returns the property satellite named name, creating it
	// on first access. Nil if no property descriptor has that name.
	GetProperty(name string) Property
	// GetEvent returns the event satellite named name, creating it on
	// first access. Nil if no event descriptor has that name.
	GetEvent(name string) Event
	// GetFunction returns the function satellite named name, creating it
	// on first access. Nil if no function descriptor has that name.
	GetFunction(name string) Function
	// Notify fires the notification for the member declared by the given
	// interface UID. Used by the state-struct direct write path.
	Notify(kind MemberKind, interfaceUid Uid, n Notification)
}
