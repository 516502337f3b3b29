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

package registry_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"velk.dev/velk/anyval"
	"velk.dev/velk/apis"
	"velk.dev/velk/config"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/object"
	"velk.dev/velk/registry"
	"velk.dev/velk/uid"
)

// widget is a test class declaring members.
type widget struct {
	object.Core
}

func (w *widget) Init(block *lifetime.Block) {
	w.InitCore(block, uid.OfType[widget](),
		apis.InterfaceEntry{Uid: apis.InterfaceObject, Iface: w},
	)
}

var widgetMembers = []apis.MemberDesc{
	{Name: "width", Kind: apis.KindProperty, TypeUid: uid.OfType[float32](), Default: float32(100)},
	{Name: "height", Kind: apis.KindProperty, TypeUid: uid.OfType[float32](), Default: float32(50)},
	{Name: "on_clicked", Kind: apis.KindEvent},
	{Name: "reset", Kind: apis.KindFunction},
}

func newWidgetFactory() apis.ObjectFactory {
	info := apis.ClassInfo{
		Uid:     uid.OfType[widget](),
		Name:    "registry_test.widget",
		Members: widgetMembers,
	}
	return object.NewFactory[widget](info, nil)
}

func TestCreateUnknownClassReturnsNullHandle(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	if ref := r.Create(apis.UidFromName("no.such.class")); ref.IsValid() {
		t.Fatalf("Create(unknown) returned a valid handle")
	}
	if info := r.GetClassInfo(apis.UidFromName("no.such.class")); info != nil {
		t.Fatalf("GetClassInfo(unknown) = %v, want nil", info)
	}
}

func TestCreateBuiltinClasses(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	for _, classUid := range []apis.Uid{apis.ClassProperty, apis.ClassEvent, apis.ClassFunction} {
		ref := r.Create(classUid)
		if !ref.IsValid() {
			t.Fatalf("Create(%v) returned null handle", classUid)
		}
		obj, ok := ref.Interface().(apis.Object)
		if !ok {
			t.Fatalf("created %v is not an Object", classUid)
		}
		if got := obj.ClassUid(); got != classUid {
			t.Fatalf("ClassUid = %v, want %v", got, classUid)
		}
		// Self works from the seeded back-reference.
		self := obj.Self()
		if !self.IsValid() {
			t.Fatalf("Self() invalid after create")
		}
		self.Release()
		ref.Release()
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	f := newWidgetFactory()

	if got := r.RegisterType(f); got != apis.Success {
		t.Fatalf("RegisterType = %v, want Success", got)
	}
	info := r.GetClassInfo(uid.OfType[widget]())
	if info == nil {
		t.Fatalf("GetClassInfo(widget) = nil")
	}
	if diff := cmp.Diff(widgetMembers, info.Members); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}

	if got := r.UnregisterType(f); got != apis.Success {
		t.Fatalf("UnregisterType = %v, want Success", got)
	}
	if got := r.UnregisterType(f); got != apis.NothingToDo {
		t.Fatalf("UnregisterType(absent) = %v, want NothingToDo", got)
	}
	if ref := r.Create(uid.OfType[widget]()); ref.IsValid() {
		t.Fatalf("Create after unregister returned a valid handle")
	}

	if got := r.RegisterType(nil); got != apis.InvalidArgument {
		t.Fatalf("RegisterType(nil) = %v, want InvalidArgument", got)
	}
}

func TestCreateAttachesMetadata(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	r.RegisterType(newWidgetFactory())

	ref := r.Create(uid.OfType[widget]())
	if !ref.IsValid() {
		t.Fatalf("Create(widget) returned null handle")
	}
	defer ref.Release()

	obj := ref.Interface().(apis.Object)
	meta := obj.Metadata()
	if meta == nil {
		t.Fatalf("widget has no metadata container")
	}
	if got := len(meta.GetStaticMetadata()); got != 4 {
		t.Fatalf("static metadata size = %d, want 4", got)
	}
}

func TestCreateAny(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	ref := r.CreateAny(uid.OfType[float32]())
	if !ref.IsValid() {
		t.Fatalf("CreateAny(float32) returned null handle")
	}
	defer ref.Release()

	a, ok := apis.Get[apis.Any](ref.Interface(), apis.InterfaceAny)
	if !ok {
		t.Fatalf("created cell does not expose Any")
	}
	if got, want := a.TypeUid(), uid.OfType[float32](); got != want {
		t.Fatalf("TypeUid = %v, want %v", got, want)
	}
}

func TestCreatePropertyDefaultAndInitial(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	// Fresh backing cell.
	ref := r.CreateProperty(uid.OfType[int](), nil)
	if !ref.IsValid() {
		t.Fatalf("CreateProperty(int, nil) returned null handle")
	}
	prop, ok := apis.Get[apis.Property](ref.Interface(), apis.InterfaceProperty)
	if !ok {
		t.Fatalf("created property does not expose Property")
	}
	if v, _ := anyval.Get[int](prop.GetValue()); v != 0 {
		t.Fatalf("default-backed value = %d, want 0", v)
	}
	ref.Release()

	// Compatible initial cell is adopted.
	ref = r.CreateProperty(uid.OfType[int](), anyval.New[int](42))
	if !ref.IsValid() {
		t.Fatalf("CreateProperty(int, 42) returned null handle")
	}
	prop, _ = apis.Get[apis.Property](ref.Interface(), apis.InterfaceProperty)
	if v, _ := anyval.Get[int](prop.GetValue()); v != 42 {
		t.Fatalf("initial-backed value = %d, want 42", v)
	}
	ref.Release()

	// Incompatible initial falls back to a fresh cell of the requested type.
	ref = r.CreateProperty(uid.OfType[int](), anyval.New[string]("nope"))
	if !ref.IsValid() {
		t.Fatalf("CreateProperty(int, string-cell) returned null handle")
	}
	prop, _ = apis.Get[apis.Property](ref.Interface(), apis.InterfaceProperty)
	if got, want := prop.GetValue().TypeUid(), uid.OfType[int](); got != want {
		t.Fatalf("fallback cell UID = %v, want %v", got, want)
	}
	ref.Release()
}

func TestRefCountBalance(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	ref := r.Create(apis.ClassEvent)
	if !ref.IsValid() {
		t.Fatalf("Create(Event) returned null handle")
	}
	block := ref.Block()
	if got := block.Strong(); got != 1 {
		t.Fatalf("strong after create = %d, want 1", got)
	}
	// Self back-reference contributes one weak on top of the object's own.
	if got := block.Weak(); got != 2 {
		t.Fatalf("weak after create = %d, want 2", got)
	}

	clone := ref.Clone()
	if got := block.Strong(); got != 2 {
		t.Fatalf("strong after clone = %d, want 2", got)
	}
	clone.Release()
	ref.Release()

	if got := block.Strong(); got != 0 {
		t.Fatalf("final strong = %d, want 0", got)
	}
	if got := block.Weak(); got != 0 {
		t.Fatalf("final weak = %d, want 0", got)
	}
}

var _ apis.Velk = registry.New(config.DefaultConfig())
