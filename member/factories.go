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
	"velk.dev/velk/apis"
	"velk.dev/velk/object"
)

// NewPropertyFactory returns the factory for the Property class.
// Instances are wired to inst for satellite creation and deferred writes.
func NewPropertyFactory(inst apis.Velk) apis.ObjectFactory {
	info := apis.ClassInfo{Uid: apis.ClassProperty, Name: "velk.Property"}
	return object.NewFactory[Property](info, func(p *Property) {
		p.SetInstance(inst)
	})
}

// NewEventFactory returns the factory for the Event class.
func NewEventFactory(inst apis.Velk) apis.ObjectFactory {
	info := apis.ClassInfo{Uid: apis.ClassEvent, Name: "velk.Event"}
	return object.NewFactory[Event](info, func(e *Event) {
		e.SetInstance(inst)
	})
}

// NewFunctionFactory returns the factory for the Function class.
func NewFunctionFactory(inst apis.Velk) apis.ObjectFactory {
	info := apis.ClassInfo{Uid: apis.ClassFunction, Name: "velk.Function"}
	return object.NewFactory[Function](info, func(f *Function) {
		f.SetInstance(inst)
	})
}
