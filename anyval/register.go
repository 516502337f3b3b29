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

package anyval

import (
	"reflect"

	"velk.dev/velk/apis"
	"velk.dev/velk/object"
	"velk.dev/velk/uid"
)

// typeOf returns the reflect.Type of T.
func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// NewFactory returns the factory for the Typed[T] cell class.
func NewFactory[T comparable]() apis.ObjectFactory {
	info := apis.ClassInfo{
		Uid:  uid.OfType[T](),
		Name: "velk.Any[" + uid.NameOf(typeOf[T]()) + "]",
	}
	return object.NewFactory[Typed[T]](info, nil)
}

// RegisterBuiltins registers cell classes for the primitive value types.
func RegisterBuiltins(register func(apis.ObjectFactory) apis.ReturnValue) {
	register(NewFactory[bool]())
	register(NewFactory[float32]())
	register(NewFactory[float64]())
	register(NewFactory[int8]())
	register(NewFactory[int16]())
	register(NewFactory[int32]())
	register(NewFactory[int64]())
	register(NewFactory[int]())
	register(NewFactory[uint8]())
	register(NewFactory[uint16]())
	register(NewFactory[uint32]())
	register(NewFactory[uint64]())
	register(NewFactory[uint]())
	register(NewFactory[string]())
}
