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

// AccessMode controls whether a property accepts writes.
type AccessMode int

const (
	// ReadWrite accepts writes.
	ReadWrite AccessMode = iota
	// ReadOnlyAccess refuses writes with ReadOnly.
	ReadOnlyAccess
)

// Property is a value cell with change notification and an
// equality-short-circuit write.
type Property interface {
	Interface

	// SetValue writes from into the property. Incompatible values return
	// Fail; writing the current value returns NothingToDo without firing
	// the change event; otherwise the value is committed first and
	// OnChanged fires with the new value as the single argument.
	SetValue(from Any) ReturnValue
	// SetValueDeferred queues the write for the next Update call.
	// Within a single drain, queued writes to the same property coalesce:
	// only the final value is applied and OnChanged fires at most once.
	SetValueDeferred(from Any) ReturnValue
	// GetValue returns the property's current value cell.
	GetValue() Any
	// OnChanged returns the change event, created lazily.
	OnChanged() Event
}

// PropertyInternal initializes a property's backing storage.
type PropertyInternal interface {
	Interface

	// SetAny installs the backing cell. Valid exactly once; the backing
	// cell cannot be replaced after initialization.
	SetAny(a Any) bool
	// GetAny returns the backing cell. Writes through it bypass change
	// notification.
	GetAny() Any
	// SetAccessMode switches the property between read-write and
	// read-only.
	SetAccessMode(mode AccessMode)
}
