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
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Uid is a 128-bit identifier derived deterministically from a type's
// textual name. It is stable across builds with the same source.
//
// Two semantic uses: class UIDs identify factories in the registry, and
// interface UIDs identify queryable capabilities on an object. The zero
// value denotes "root/unspecified".
type Uid struct {
	Hi uint64
	Lo uint64
}

// NilUid is the null UID.
var NilUid = Uid{}

// IsNil reports whether u is the null UID.
func (u Uid) IsNil() bool { return u == Uid{} }

// String renders the UID as two fixed-width hex halves.
func (u Uid) String() string {
	return fmt.Sprintf("%016x-%016x", u.Hi, u.Lo)
}

// UidFromName derives a UID from a textual name using FNV-128a.
// Equal names always yield equal UIDs.
func UidFromName(name string) Uid {
	h := fnv.New128a()
	_, _ = h.Write([]byte(name))
	var sum [16]byte
	h.Sum(sum[:0])
	return Uid{
		Hi: binary.BigEndian.Uint64(sum[0:8]),
		Lo: binary.BigEndian.Uint64(sum[8:16]),
	}
}
