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
	"sync"

	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/object"
)

// storeEntry is one cached hive.
type storeEntry struct {
	hive apis.Hive
	ref  apis.Ref
}

// Store caches one hive per class UID, created lazily on first access.
type Store struct {
	object.Core

	inst apis.Velk

	mu    sync.Mutex
	hives map[apis.Uid]storeEntry
}

// Init wires the store's core and interface table.
func (s *Store) Init(block *lifetime.Block) {
	s.InitCore(block, apis.ClassHiveStore,
		apis.InterfaceEntry{Uid: apis.InterfaceHiveStore, Iface: s},
		apis.InterfaceEntry{Uid: apis.InterfaceObject, Iface: s},
	)
}

// SetInstance wires the process instance used for hive creation.
func (s *Store) SetInstance(inst apis.Velk) { s.inst = inst }

// GetHive returns the hive for classUid, creating and retaining it on
// first access.
func (s *Store) GetHive(classUid apis.Uid) apis.Hive {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.hives[classUid]; ok {
		return e.hive
	}
	if s.inst == nil {
		return nil
	}
	ref := s.inst.Create(apis.ClassHive)
	if !ref.IsValid() {
		return nil
	}
	h, ok := apis.Get[apis.Hive](ref.Interface(), apis.InterfaceHive)
	if !ok {
		ref.Release()
		return nil
	}
	if r := h.BindClass(classUid); r != apis.Success {
		ref.Release()
		return nil
	}
	if s.hives == nil {
		s.hives = make(map[apis.Uid]storeEntry)
	}
	s.hives[classUid] = storeEntry{hive: h, ref: ref}
	return h
}

// Close closes and releases every cached hive.
func (s *Store) Close() {
	s.mu.Lock()
	hives := s.hives
	s.hives = nil
	s.mu.Unlock()

	for _, e := range hives {
		e.hive.Close()
		e.ref.Release()
	}
}

// Dispose closes the store when its own last strong reference drops.
func (s *Store) Dispose() {
	s.Close()
	s.Core.Dispose()
}
