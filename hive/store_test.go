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

package hive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velk.dev/velk/apis"
	"velk.dev/velk/config"
	"velk.dev/velk/hive"
	"velk.dev/velk/registry"
	"velk.dev/velk/uid"
)

func TestStoreCachesOneHivePerClass(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	hive.Plugin{}.Initialize(r)
	r.RegisterType(newShapeFactory())

	ref := r.Create(apis.ClassHiveStore)
	require.True(t, ref.IsValid(), "Create(HiveStore) returned null handle")
	defer ref.Release()

	store, ok := apis.Get[apis.HiveStore](ref.Interface(), apis.InterfaceHiveStore)
	require.True(t, ok)

	h1 := store.GetHive(uid.OfType[shape]())
	require.NotNil(t, h1)
	assert.Same(t, h1, store.GetHive(uid.OfType[shape]()))
	assert.Equal(t, uid.OfType[shape](), h1.ElementClassUid())

	// Unknown classes yield no hive.
	assert.Nil(t, store.GetHive(apis.UidFromName("no.such.class")))
}

func TestStoreCloseClosesHives(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	hive.Plugin{}.Initialize(r)
	r.RegisterType(newShapeFactory())

	ref := r.Create(apis.ClassHiveStore)
	require.True(t, ref.IsValid())
	store, _ := apis.Get[apis.HiveStore](ref.Interface(), apis.InterfaceHiveStore)

	h := store.GetHive(uid.OfType[shape]())
	require.NotNil(t, h)
	obj := h.Add()
	require.True(t, obj.IsValid())
	require.Equal(t, 1, h.Size())

	// Dropping the store closes the hive; the held object survives as an
	// orphan until released.
	ref.Release()
	got, ok := apis.Get[apis.Object](obj.Interface(), apis.InterfaceObject)
	require.True(t, ok)
	assert.NotNil(t, got)
	obj.Release()
}
