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

import (
	"github.com/rs/zerolog"
)

// Config carries the runtime knobs. It is passed by value and treated as
// immutable by implementations.
type Config struct {
	// BlockPoolCapacity bounds the control-block recycling pool.
	// Zero disables pooling.
	BlockPoolCapacity int

	// PageSchedule lists hive page capacities in allocation order; the
	// last entry repeats for all further pages.
	PageSchedule []int

	// Logger receives structured debug events (type registration, page
	// allocation, orphaned pages).
	Logger zerolog.Logger

	// MaxUnwrap records a container unwrapping depth (ptr/slice/array/chan/
	// map) for UID derivation. UID derivation in package uid does not read
	// this field; it always unwraps at most 8 levels.
	MaxUnwrap int
}
