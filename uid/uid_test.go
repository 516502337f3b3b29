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

package uid_test

import (
	"reflect"
	"testing"

	"velk.dev/velk/apis"
	"velk.dev/velk/uid"
)

type T1 struct{}
type T2 struct{}

type named struct{}

func (named) ClassName() string { return "domain.Named" }

func TestOfTypeStableAndDistinct(t *testing.T) {
	a := uid.OfType[T1]()
	b := uid.OfType[T1]()
	if a != b {
		t.Fatalf("OfType[T1] not stable: %v vs %v", a, b)
	}
	if a == uid.OfType[T2]() {
		t.Fatalf("OfType[T1] == OfType[T2]")
	}
	if a.IsNil() {
		t.Fatalf("OfType[T1] is nil")
	}
}

func TestOfTypeUnwrapsContainers(t *testing.T) {
	base := uid.OfType[T1]()
	if got := uid.OfReflectType(reflect.TypeOf(&T1{})); got != base {
		t.Fatalf("*T1: got %v, want %v", got, base)
	}
	if got := uid.OfReflectType(reflect.TypeOf([]*T1{})); got != base {
		t.Fatalf("[]*T1: got %v, want %v", got, base)
	}
	if got := uid.OfReflectType(reflect.TypeOf(map[string]T1{})); got != base {
		t.Fatalf("map[string]T1: got %v, want %v", got, base)
	}
}

func TestOfTypeBuiltins(t *testing.T) {
	if got := uid.NameOf(reflect.TypeOf(float32(0))); got != "float32" {
		t.Fatalf("NameOf(float32) = %q, want %q", got, "float32")
	}
	if uid.OfType[float32]() == uid.OfType[float64]() {
		t.Fatalf("float32 and float64 share a UID")
	}
}

func TestOfValue(t *testing.T) {
	if got, want := uid.OfValue(named{}), apis.UidFromName("domain.Named"); got != want {
		t.Fatalf("OfValue(named): got %v, want %v", got, want)
	}
	if got := uid.OfValue(nil); !got.IsNil() {
		t.Fatalf("OfValue(nil) = %v, want nil UID", got)
	}
	if got, want := uid.OfValue(T1{}), uid.OfType[T1](); got != want {
		t.Fatalf("OfValue(T1{}): got %v, want %v", got, want)
	}
}

func TestNameOfAnonymous(t *testing.T) {
	if got := uid.NameOf(reflect.TypeOf(struct{ X int }{})); got != "" {
		t.Fatalf("NameOf(anonymous struct) = %q, want empty", got)
	}
	if got := uid.NameOf(nil); got != "" {
		t.Fatalf("NameOf(nil) = %q, want empty", got)
	}
}

func TestUidFromNameDeterministic(t *testing.T) {
	a := apis.UidFromName("velk.Property")
	b := apis.UidFromName("velk.Property")
	if a != b {
		t.Fatalf("UidFromName not deterministic: %v vs %v", a, b)
	}
	if a == apis.UidFromName("velk.Event") {
		t.Fatalf("distinct names share a UID")
	}
}
