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

// Package uid derives stable 128-bit identifiers from Go types.
//
// Derivation resolves a type to a stable "pkg.Type" name (unwrapping
// pointer/slice/array/chan/map containers to the nearest named inner type)
// and hashes it. Values implementing Classed short-circuit with their
// explicit class name.
package uid

import (
	"path"
	"reflect"
	"strings"
	"sync"

	"velk.dev/velk/apis"
)

// defaultMaxUnwrap limits container unwrapping when no explicit limit is
// given.
const defaultMaxUnwrap = 8

// Classed is a zero-cost fast path: values providing their own class name
// bypass reflection entirely.
type Classed interface {
	// ClassName returns the stable domain-level name hashed into the UID.
	ClassName() string
}

// typeNameCache caches resolved type names by type.
var typeNameCache sync.Map // key: reflect.Type, val: string

// OfType returns the UID for type T.
func OfType[T any]() apis.Uid {
	return OfReflectType(reflect.TypeOf((*T)(nil)).Elem())
}

// OfValue returns the UID for v's dynamic type. Values implementing
// Classed use their explicit name; nil yields the null UID.
func OfValue(v any) apis.Uid {
	if v == nil {
		return apis.NilUid
	}
	if c, ok := v.(Classed); ok {
		return apis.UidFromName(c.ClassName())
	}
	return OfReflectType(reflect.TypeOf(v))
}

// OfReflectType returns the UID for t, or the null UID when no named type
// can be resolved.
func OfReflectType(t reflect.Type) apis.Uid {
	name := NameOf(t)
	if name == "" {
		return apis.NilUid
	}
	return apis.UidFromName(name)
}

// NameOf resolves the stable "pkg.Type" name for t with memoization.
// Builtin types resolve to their bare name ("float32", "string").
// An empty string is returned when no named type can be resolved.
func NameOf(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if v, ok := typeNameCache.Load(t); ok {
		return v.(string)
	}

	name := ""
	if base, err := normalize(t, defaultMaxUnwrap); err == nil && base != nil {
		name = stripTypeParams(base.Name())
		if p := base.PkgPath(); p != "" {
			name = path.Base(p) + "." + name
		}
	}

	typeNameCache.Store(t, name)
	return name
}

// stripTypeParams removes the generic instantiation suffix:
// "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
