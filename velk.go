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

package velk

import (
	"sync"
	"sync/atomic"

	"velk.dev/velk/apis"
	"velk.dev/velk/config"
	"velk.dev/velk/hive"
	"velk.dev/velk/member"
	"velk.dev/velk/registry"
)

// init initializes the global instance with the default configuration and
// the built-in classes: Property, Event, Function, the primitive value
// cells, then the hive plugin.
func init() {
	cfg := config.DefaultConfig()
	r := registry.New(cfg)
	hive.Plugin{}.Initialize(r)
	st.Store(&state{cfg: cfg, inst: r})
}

// Instance returns the global process instance.
func Instance() apis.Velk {
	return st.Load().inst
}

// Create constructs an object by class UID via the global instance.
func Create(classUid apis.Uid) apis.Ref {
	return st.Load().inst.Create(classUid)
}

// CreateAny constructs a value cell for typeUid via the global instance.
func CreateAny(typeUid apis.Uid) apis.Ref {
	return st.Load().inst.CreateAny(typeUid)
}

// CreateProperty constructs a property of typeUid via the global instance.
func CreateProperty(typeUid apis.Uid, initial apis.Any) apis.Ref {
	return st.Load().inst.CreateProperty(typeUid, initial)
}

// RegisterType adds a factory to the global instance.
func RegisterType(f apis.ObjectFactory) apis.ReturnValue {
	return st.Load().inst.RegisterType(f)
}

// UnregisterType removes a factory from the global instance.
func UnregisterType(f apis.ObjectFactory) apis.ReturnValue {
	return st.Load().inst.UnregisterType(f)
}

// GetClassInfo returns the class description registered with the global
// instance, or nil.
func GetClassInfo(classUid apis.Uid) *apis.ClassInfo {
	return st.Load().inst.GetClassInfo(classUid)
}

// QueueDeferredTasks appends tasks to the global deferred queue.
func QueueDeferredTasks(tasks []apis.DeferredTask) {
	st.Load().inst.QueueDeferredTasks(tasks)
}

// Update drains the global deferred queue in FIFO order. Single-threaded
// by contract: the caller serializes Update against itself.
func Update() {
	st.Load().inst.Update()
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig applies cfg to the global instance and publishes a new state
// snapshot.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	old.inst.(*registry.Registry).SetConfig(cfg)
	st.Store(&state{cfg: cfg, inst: old.inst})
}

// WriteState mutates obj's property-state struct for interfaceUid through
// the global instance's notification machinery.
func WriteState(obj apis.Interface, interfaceUid apis.Uid, fn func(state any), mode apis.InvokeType) apis.ReturnValue {
	return member.WriteState(obj, interfaceUid, fn, mode)
}

// buildMu serializes writers (reconfigurations) so we never publish
// partially-applied snapshots.
var buildMu sync.Mutex

// st is the global velk state.
var st atomic.Pointer[state]

// state is the global velk state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate
// fields of a published state. Writers create a new state and swap it.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// inst is the global process instance.
	inst apis.Velk
}
