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

package member_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velk.dev/velk/anyval"
	"velk.dev/velk/apis"
	"velk.dev/velk/config"
	"velk.dev/velk/member"
	"velk.dev/velk/registry"
	"velk.dev/velk/uid"
)

// newProperty creates an int-typed property on a fresh registry.
func newProperty(t *testing.T, r *registry.Registry) (apis.Property, *apis.Ref) {
	t.Helper()
	ref := r.CreateProperty(uid.OfType[int](), nil)
	require.True(t, ref.IsValid(), "CreateProperty returned null handle")
	prop, ok := apis.Get[apis.Property](ref.Interface(), apis.InterfaceProperty)
	require.True(t, ok)
	return prop, &ref
}

// observe registers an immediate handler recording each notification value.
func observe(t *testing.T, r *registry.Registry, prop apis.Property, values *[]int) member.Callback {
	t.Helper()
	handler, ok := member.NewCallback(r, func(args apis.FnArgs) apis.ReturnValue {
		require.Len(t, args, 1)
		v, vok := anyval.Get[int](args[0])
		require.True(t, vok)
		*values = append(*values, v)
		return apis.Success
	})
	require.True(t, ok)
	require.Equal(t, apis.Success, prop.OnChanged().AddHandler(handler.Function(), apis.Immediate))
	return handler
}

func TestSetValueIdempotent(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	prop, ref := newProperty(t, r)
	defer ref.Release()

	var seen []int
	handler := observe(t, r, prop, &seen)
	defer handler.Release()

	assert.Equal(t, apis.Success, prop.SetValue(anyval.New[int](5)))
	assert.Equal(t, apis.NothingToDo, prop.SetValue(anyval.New[int](5)))

	// on_changed fired exactly once, with the new value.
	require.Equal(t, []int{5}, seen)
	v, _ := anyval.Get[int](prop.GetValue())
	assert.Equal(t, 5, v)
}

func TestSetValueIncompatible(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	prop, ref := newProperty(t, r)
	defer ref.Release()

	assert.Equal(t, apis.Fail, prop.SetValue(anyval.New[string]("nope")))
	assert.Equal(t, apis.InvalidArgument, prop.SetValue(nil))
	v, _ := anyval.Get[int](prop.GetValue())
	assert.Equal(t, 0, v)
}

func TestSetValueReadOnly(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	prop, ref := newProperty(t, r)
	defer ref.Release()

	internal, ok := apis.Get[apis.PropertyInternal](ref.Interface(), apis.InterfacePropertyInternal)
	require.True(t, ok)
	internal.SetAccessMode(apis.ReadOnlyAccess)

	assert.Equal(t, apis.ReadOnly, prop.SetValue(anyval.New[int](1)))
	assert.Equal(t, apis.ReadOnly, prop.SetValueDeferred(anyval.New[int](1)))

	internal.SetAccessMode(apis.ReadWrite)
	assert.Equal(t, apis.Success, prop.SetValue(anyval.New[int](1)))
}

func TestSetAnyOnce(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	prop, ref := newProperty(t, r)
	defer ref.Release()

	internal, ok := apis.Get[apis.PropertyInternal](ref.Interface(), apis.InterfacePropertyInternal)
	require.True(t, ok)

	// Backing storage was installed at creation; a second install fails.
	assert.False(t, internal.SetAny(anyval.New[int](9)))
	assert.NotNil(t, internal.GetAny())

	// Writes through the direct accessor bypass notification.
	var seen []int
	handler := observe(t, r, prop, &seen)
	defer handler.Release()
	internal.GetAny().SetData(123)
	assert.Empty(t, seen)
	v, _ := anyval.Get[int](prop.GetValue())
	assert.Equal(t, 123, v)
}

func TestDeferredCoalescing(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	prop, ref := newProperty(t, r)
	defer ref.Release()

	var seen []int
	handler := observe(t, r, prop, &seen)
	defer handler.Release()

	require.Equal(t, apis.Success, prop.SetValueDeferred(anyval.New[int](1)))
	require.Equal(t, apis.Success, prop.SetValueDeferred(anyval.New[int](2)))
	require.Equal(t, apis.Success, prop.SetValueDeferred(anyval.New[int](3)))

	// Nothing applied before the drain.
	v, _ := anyval.Get[int](prop.GetValue())
	require.Equal(t, 0, v)
	require.Empty(t, seen)

	r.Update()

	v, _ = anyval.Get[int](prop.GetValue())
	assert.Equal(t, 3, v)
	// on_changed fired exactly once, with the final value.
	assert.Equal(t, []int{3}, seen)
}

func TestDeferredWriteToDroppedProperty(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	prop, ref := newProperty(t, r)

	require.Equal(t, apis.Success, prop.SetValueDeferred(anyval.New[int](42)))
	ref.Release()

	// The queued task's target expired with the property; the drain must
	// complete without observable effect.
	r.Update()
}

func TestDeferredThenImmediate(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	prop, ref := newProperty(t, r)
	defer ref.Release()

	var seen []int
	handler := observe(t, r, prop, &seen)
	defer handler.Release()

	prop.SetValueDeferred(anyval.New[int](7))
	prop.SetValue(anyval.New[int](9))
	require.Equal(t, []int{9}, seen)

	// The queued write still applies on the drain.
	r.Update()
	v, _ := anyval.Get[int](prop.GetValue())
	assert.Equal(t, 7, v)
	assert.Equal(t, []int{9, 7}, seen)
}
