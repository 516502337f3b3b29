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

// Package velk is the core runtime of a process-local component/object
// framework: a registry of class factories keyed on 128-bit UIDs, a
// multi-interface object model with intrusive reference counting and
// external control blocks, a deferred-task scheduler coupling property and
// event notification to cooperative update ticks, and a paged, cache-dense
// object container (the hive) with zombie and orphan lifecycles.
//
// # Design
//
// The core of velk is a global, read-mostly state snapshot holding the
// configuration and the process instance. The instance is responsible for:
//
//   - Type registration: factories are keyed on their class UID. The
//     built-in classes (Property, Event, Function, the primitive value
//     cells, Hive, HiveStore) are registered at init in a fixed order.
//
//   - Creation: Create(classUid) looks up the factory, constructs the
//     object born with its control block, seeds the self back-reference,
//     and attaches a metadata container when the class declares members.
//
//   - Deferred work: property writes, event handlers, and continuations
//     can be queued as (invocable, argument-snapshot) tasks; Update drains
//     them in FIFO order on the calling goroutine. Tasks whose target has
//     been destroyed are silently dropped.
//
// Objects expose their capabilities as UID-addressable interfaces fixed at
// construction; GetInterface is a linear scan over a small table. Lifetime
// follows the control-block protocol in package lifetime: strong counts
// guard the object, weak counts guard the block, and slot-managed objects
// intercept destruction with an external destroy callback so hive slots
// can be reclaimed from whichever goroutine drops the last reference.
//
// Objects stored in a hive share the same interface surface as heap
// objects; only their allocation and destruction path differs. See package
// hive for the zombie and orphan lifecycles.
package velk
