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

// Package registry implements the process instance: the class-UID-keyed
// factory map, the creation pipeline, and the deferred-task queue.
package registry

import (
	"sync"

	"github.com/rs/zerolog"

	"velk.dev/velk/anyval"
	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/member"
	"velk.dev/velk/sched"
)

// Registry is the apis.Velk implementation. Registration is serialized
// under an internal lock; Create is concurrent-safe once boot registration
// completes.
type Registry struct {
	cfg apis.Config
	log zerolog.Logger

	mu    sync.RWMutex
	types map[apis.Uid]apis.ObjectFactory

	queue *sched.Queue
}

// New constructs a registry with the built-in classes registered in boot
// order: Property, Event, Function, then the primitive value cells.
func New(cfg apis.Config) *Registry {
	r := &Registry{
		cfg:   cfg,
		log:   cfg.Logger,
		types: make(map[apis.Uid]apis.ObjectFactory),
		queue: sched.New(),
	}
	lifetime.SetPoolCapacity(cfg.BlockPoolCapacity)

	r.RegisterType(member.NewPropertyFactory(r))
	r.RegisterType(member.NewEventFactory(r))
	r.RegisterType(member.NewFunctionFactory(r))
	anyval.RegisterBuiltins(r.RegisterType)
	return r
}

// Config returns the registry's configuration.
func (r *Registry) Config() apis.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// SetConfig applies a new configuration: pool capacity takes effect
// immediately, the logger is swapped, and the page schedule applies to
// hives created afterwards.
func (r *Registry) SetConfig(cfg apis.Config) {
	lifetime.SetPoolCapacity(cfg.BlockPoolCapacity)
	r.mu.Lock()
	r.cfg = cfg
	r.log = cfg.Logger
	r.mu.Unlock()
}

// logger returns the current logger under the read lock.
func (r *Registry) logger() zerolog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log
}

// RegisterType adds factory keyed on its class UID. Re-registering a UID
// replaces the factory.
func (r *Registry) RegisterType(f apis.ObjectFactory) apis.ReturnValue {
	if f == nil || f.ClassInfo() == nil {
		return apis.InvalidArgument
	}
	info := f.ClassInfo()
	r.mu.Lock()
	r.types[info.Uid] = f
	log := r.log
	r.mu.Unlock()
	log.Debug().Str("class", info.Name).Stringer("uid", info.Uid).Msg("register type")
	return apis.Success
}

// UnregisterType removes the factory keyed on f's class UID.
func (r *Registry) UnregisterType(f apis.ObjectFactory) apis.ReturnValue {
	if f == nil || f.ClassInfo() == nil {
		return apis.InvalidArgument
	}
	info := f.ClassInfo()
	r.mu.Lock()
	_, ok := r.types[info.Uid]
	delete(r.types, info.Uid)
	log := r.log
	r.mu.Unlock()
	if !ok {
		return apis.NothingToDo
	}
	log.Debug().Str("class", info.Name).Stringer("uid", info.Uid).Msg("unregister type")
	return apis.Success
}

// GetFactory returns the registered factory for classUid, or nil.
func (r *Registry) GetFactory(classUid apis.Uid) apis.ObjectFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[classUid]
}

// GetClassInfo returns the registered class description, or nil.
func (r *Registry) GetClassInfo(classUid apis.Uid) *apis.ClassInfo {
	if f := r.GetFactory(classUid); f != nil {
		return f.ClassInfo()
	}
	return nil
}

// Create constructs an object by class UID: the factory produces the
// instance and its control block, the self back-reference is seeded, and a
// metadata container is attached when the class declares members.
func (r *Registry) Create(classUid apis.Uid) apis.Ref {
	f := r.GetFactory(classUid)
	if f == nil {
		return apis.Ref{}
	}
	obj, block := f.New()
	if obj == nil {
		return apis.Ref{}
	}
	ref := apis.AdoptRef(obj, block)
	obj.SetSelf(ref)
	info := f.ClassInfo()
	if len(info.Members) > 0 && obj.Metadata() == nil {
		if mo, ok := obj.(interface{ SetMetadata(apis.Metadata) }); ok {
			mo.SetMetadata(member.NewContainer(obj, r, info.Members))
		}
	}
	return ref
}

// CreateAny constructs a value cell for typeUid. Cell classes register
// under the UID of their value type, so this is a plain Create.
func (r *Registry) CreateAny(typeUid apis.Uid) apis.Ref {
	return r.Create(typeUid)
}

// CreateProperty constructs a property whose backing cell has typeUid. A
// compatible initial cell is adopted as backing storage; otherwise a fresh
// cell is created.
func (r *Registry) CreateProperty(typeUid apis.Uid, initial apis.Any) apis.Ref {
	ref := r.Create(apis.ClassProperty)
	if !ref.IsValid() {
		return apis.Ref{}
	}
	internal, ok := apis.Get[apis.PropertyInternal](ref.Interface(), apis.InterfacePropertyInternal)
	if !ok {
		ref.Release()
		return apis.Ref{}
	}

	if initial != nil {
		if apis.IsCompatible(initial, typeUid) && internal.SetAny(initial) {
			return ref
		}
		log := r.logger()
		log.Error().Stringer("type", typeUid).Msg("initial value is of incompatible type")
	}

	// No usable initial cell; create a fresh one of the requested type.
	aref := r.CreateAny(typeUid)
	if aref.IsValid() {
		if a, aok := apis.Get[apis.Any](aref.Interface(), apis.InterfaceAny); aok && internal.SetAny(a) {
			aref.Release()
			return ref
		}
		aref.Release()
	}
	ref.Release()
	return apis.Ref{}
}

// QueueDeferredTasks appends tasks to the deferred queue.
func (r *Registry) QueueDeferredTasks(tasks []apis.DeferredTask) {
	r.queue.Enqueue(tasks)
}

// Update drains the deferred queue in FIFO order.
func (r *Registry) Update() {
	r.queue.Update()
}
