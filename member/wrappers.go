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
	"velk.dev/velk/anyval"
	"velk.dev/velk/apis"
	"velk.dev/velk/uid"
)

// PropertyOf is a typed convenience wrapper over a Property handle.
type PropertyOf[T comparable] struct {
	prop apis.Property
	ref  apis.Ref
}

// NewPropertyOf creates a property of type T through inst and wraps it.
func NewPropertyOf[T comparable](inst apis.Velk) (PropertyOf[T], bool) {
	ref := inst.CreateProperty(uid.OfType[T](), nil)
	if !ref.IsValid() {
		return PropertyOf[T]{}, false
	}
	prop, ok := apis.Get[apis.Property](ref.Interface(), apis.InterfaceProperty)
	if !ok {
		ref.Release()
		return PropertyOf[T]{}, false
	}
	return PropertyOf[T]{prop: prop, ref: ref}, true
}

// WrapProperty wraps an existing property without taking ownership.
func WrapProperty[T comparable](prop apis.Property) PropertyOf[T] {
	return PropertyOf[T]{prop: prop}
}

// IsValid reports whether the wrapper holds a property.
func (p PropertyOf[T]) IsValid() bool { return p.prop != nil }

// Property returns the wrapped interface.
func (p PropertyOf[T]) Property() apis.Property { return p.prop }

// Get returns the current value, or the zero T.
func (p PropertyOf[T]) Get() T {
	var v T
	if p.prop == nil {
		return v
	}
	v, _ = anyval.Get[T](p.prop.GetValue())
	return v
}

// Set writes v through the notification path.
func (p PropertyOf[T]) Set(v T) apis.ReturnValue {
	if p.prop == nil {
		return apis.InvalidArgument
	}
	return p.prop.SetValue(anyval.New(v))
}

// SetDeferred queues the write for the next Update.
func (p PropertyOf[T]) SetDeferred(v T) apis.ReturnValue {
	if p.prop == nil {
		return apis.InvalidArgument
	}
	return p.prop.SetValueDeferred(anyval.New(v))
}

// OnChanged returns the property's change event.
func (p PropertyOf[T]) OnChanged() apis.Event {
	if p.prop == nil {
		return nil
	}
	return p.prop.OnChanged()
}

// Release drops the owned handle, if any.
func (p *PropertyOf[T]) Release() {
	p.prop = nil
	p.ref.Release()
}

// Callback owns a Function created with a primary callback.
type Callback struct {
	fn  apis.Function
	ref apis.Ref
}

// NewCallback creates a Function through inst and installs cb as its
// primary target.
func NewCallback(inst apis.Velk, cb apis.CallbackFn) (Callback, bool) {
	ref := inst.Create(apis.ClassFunction)
	if !ref.IsValid() {
		return Callback{}, false
	}
	fn, ok := apis.Get[apis.Function](ref.Interface(), apis.InterfaceFunction)
	internal, iok := apis.Get[apis.FunctionInternal](ref.Interface(), apis.InterfaceFunctionInternal)
	if !ok || !iok {
		ref.Release()
		return Callback{}, false
	}
	if cb != nil {
		internal.SetInvokeCallback(cb)
	}
	return Callback{fn: fn, ref: ref}, true
}

// IsValid reports whether the wrapper holds a function.
func (c Callback) IsValid() bool { return c.fn != nil }

// Function returns the wrapped interface.
func (c Callback) Function() apis.Function { return c.fn }

// Invoke runs the function.
func (c Callback) Invoke(args apis.FnArgs, mode apis.InvokeType) apis.ReturnValue {
	if c.fn == nil {
		return apis.InvalidArgument
	}
	return c.fn.Invoke(args, mode)
}

// Release drops the owned handle.
func (c *Callback) Release() {
	c.fn = nil
	c.ref.Release()
}

// Invoke calls fn with the given value cells as arguments.
func Invoke(fn apis.Function, args ...apis.Any) apis.ReturnValue {
	if fn == nil {
		return apis.InvalidArgument
	}
	return fn.Invoke(apis.FnArgs(args), apis.Immediate)
}

// InvokeNamed looks up the function named name on obj's metadata and
// invokes it.
func InvokeNamed(obj apis.Interface, name string, args ...apis.Any) apis.ReturnValue {
	meta, ok := apis.Get[apis.Metadata](obj, apis.InterfaceMetadata)
	if !ok {
		return apis.InvalidArgument
	}
	return Invoke(meta.GetFunction(name), args...)
}

// WriteState mutates obj's property-state struct for interfaceUid and
// fires the change notification. Immediate runs synchronously; Deferred
// queues the mutation for the next Update, dying silently with the object.
func WriteState(obj apis.Interface, interfaceUid apis.Uid, fn func(state any), mode apis.InvokeType) apis.ReturnValue {
	if fn == nil {
		return apis.InvalidArgument
	}
	meta, ok := apis.Get[apis.Metadata](obj, apis.InterfaceMetadata)
	if !ok {
		return apis.InvalidArgument
	}
	ps, ok := apis.Get[apis.PropertyState](obj, apis.InterfacePropertyState)
	if !ok {
		return apis.InvalidArgument
	}
	state := ps.GetPropertyState(interfaceUid)
	if state == nil {
		return apis.Fail
	}

	if mode == apis.Immediate {
		fn(state)
		meta.Notify(apis.KindProperty, interfaceUid, apis.Changed)
		return apis.Success
	}

	container, ok := meta.(*Container)
	if !ok {
		return apis.Fail
	}
	return container.QueueStateWrite(interfaceUid, func() { fn(state) })
}
