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

package hive

import (
	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/object"
)

// Configurator exposes the instance knobs hive factories consume.
type Configurator interface {
	apis.Velk
	Config() apis.Config
}

// Plugin registers the hive classes (Hive, HiveStore, and the info-only
// RawHive) with the instance.
// Statically linked; applications create hive stores via
// Create(apis.ClassHiveStore) after initialization.
type Plugin struct{}

// Name returns the plugin's registered name.
func (Plugin) Name() string { return "HivePlugin" }

// Version returns the plugin's version string.
func (Plugin) Version() string { return "0.1.0" }

// ClassUid returns the plugin's class UID.
func (Plugin) ClassUid() apis.Uid { return apis.ClassHivePlugin }

// Initialize registers the hive types.
func (Plugin) Initialize(v Configurator) apis.ReturnValue {
	if v == nil {
		return apis.InvalidArgument
	}
	v.RegisterType(NewHiveFactory(v))
	v.RegisterType(NewStoreFactory(v))
	v.RegisterType(rawHiveFactory{})
	return apis.Success
}

// Shutdown unregisters nothing: registered classes live for the process.
func (Plugin) Shutdown(v Configurator) apis.ReturnValue {
	return apis.Success
}

// rawHiveFactory describes the RawHive class. Raw hives are generic
// containers constructed directly via NewRaw; the registration only makes
// the class UID resolvable through GetClassInfo.
type rawHiveFactory struct{}

var rawHiveInfo = apis.ClassInfo{Uid: apis.ClassRawHive, Name: "velk.RawHive"}

// ClassInfo returns the raw hive class description.
func (rawHiveFactory) ClassInfo() *apis.ClassInfo { return &rawHiveInfo }

// New returns no instance: raw hives are parameterized by their element
// type and cannot be constructed through the type-erased registry.
func (rawHiveFactory) New() (apis.Object, *lifetime.Block) { return nil, nil }

// NewHiveFactory returns the factory for the Hive class. Instances read
// the page schedule and logger from v's configuration at creation time.
func NewHiveFactory(v Configurator) apis.ObjectFactory {
	info := apis.ClassInfo{Uid: apis.ClassHive, Name: "velk.Hive"}
	return object.NewFactory[Hive](info, func(h *Hive) {
		cfg := v.Config()
		h.inst = v
		h.schedule = cfg.PageSchedule
		h.log = cfg.Logger
	})
}

// NewStoreFactory returns the factory for the HiveStore class.
func NewStoreFactory(v Configurator) apis.ObjectFactory {
	info := apis.ClassInfo{Uid: apis.ClassHiveStore, Name: "velk.HiveStore"}
	return object.NewFactory[Store](info, func(s *Store) {
		s.SetInstance(v)
	})
}
