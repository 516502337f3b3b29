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
)

func counterCallback(t *testing.T, r *registry.Registry, n *int) member.Callback {
	t.Helper()
	cb, ok := member.NewCallback(r, func(apis.FnArgs) apis.ReturnValue {
		*n++
		return apis.Success
	})
	require.True(t, ok)
	return cb
}

func TestInvokePrimaryAndHandlers(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	var primaryRuns, imm1, imm2, def1 int
	fn, ok := member.NewCallback(r, func(args apis.FnArgs) apis.ReturnValue {
		primaryRuns++
		require.Empty(t, args)
		return apis.Success
	})
	require.True(t, ok)
	defer fn.Release()

	h1 := counterCallback(t, r, &imm1)
	defer h1.Release()
	h2 := counterCallback(t, r, &imm2)
	defer h2.Release()
	hd := counterCallback(t, r, &def1)
	defer hd.Release()

	require.Equal(t, apis.Success, fn.Function().AddHandler(h1.Function(), apis.Immediate))
	require.Equal(t, apis.Success, fn.Function().AddHandler(h2.Function(), apis.Immediate))
	require.Equal(t, apis.Success, fn.Function().AddHandler(hd.Function(), apis.Deferred))

	// Primary runs, both immediates run, the return is the primary's.
	assert.Equal(t, apis.Success, fn.Invoke(nil, apis.Immediate))
	assert.Equal(t, 1, primaryRuns)
	assert.Equal(t, 1, imm1)
	assert.Equal(t, 1, imm2)
	assert.Equal(t, 0, def1)

	// The deferred handler runs exactly once on the drain.
	r.Update()
	assert.Equal(t, 1, def1)
	r.Update()
	assert.Equal(t, 1, def1)
}

func TestInvokeWithoutPrimary(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	fn, ok := member.NewCallback(r, nil)
	require.True(t, ok)
	defer fn.Release()

	assert.Equal(t, apis.NothingToDo, fn.Invoke(nil, apis.Immediate))

	var runs int
	h := counterCallback(t, r, &runs)
	defer h.Release()
	fn.Function().AddHandler(h.Function(), apis.Immediate)
	assert.Equal(t, apis.Success, fn.Invoke(nil, apis.Immediate))
	assert.Equal(t, 1, runs)
}

func TestAddHandlerDeduplicates(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	fn, _ := member.NewCallback(r, nil)
	defer fn.Release()

	var runs int
	h := counterCallback(t, r, &runs)
	defer h.Release()

	assert.Equal(t, apis.Success, fn.Function().AddHandler(h.Function(), apis.Immediate))
	assert.Equal(t, apis.NothingToDo, fn.Function().AddHandler(h.Function(), apis.Immediate))
	assert.Equal(t, apis.NothingToDo, fn.Function().AddHandler(h.Function(), apis.Deferred))
	assert.Equal(t, apis.InvalidArgument, fn.Function().AddHandler(nil, apis.Immediate))

	fn.Invoke(nil, apis.Immediate)
	assert.Equal(t, 1, runs)
}

func TestRemoveHandler(t *testing.T) {
	r := registry.New(config.DefaultConfig())
	fn, _ := member.NewCallback(r, nil)
	defer fn.Release()

	var a, b int
	ha := counterCallback(t, r, &a)
	defer ha.Release()
	hb := counterCallback(t, r, &b)
	defer hb.Release()

	fn.Function().AddHandler(ha.Function(), apis.Immediate)
	fn.Function().AddHandler(hb.Function(), apis.Deferred)

	assert.Equal(t, apis.Success, fn.Function().RemoveHandler(ha.Function()))
	assert.Equal(t, apis.NothingToDo, fn.Function().RemoveHandler(ha.Function()))

	fn.Invoke(nil, apis.Immediate)
	r.Update()
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}

func TestBindRoutesThroughContext(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	ref := r.Create(apis.ClassFunction)
	require.True(t, ref.IsValid())
	defer ref.Release()

	internal, ok := apis.Get[apis.FunctionInternal](ref.Interface(), apis.InterfaceFunctionInternal)
	require.True(t, ok)
	fn, _ := apis.Get[apis.Function](ref.Interface(), apis.InterfaceFunction)

	type receiver struct{ hits int }
	rec := &receiver{}
	internal.Bind(rec, func(ctx any, args apis.FnArgs) apis.ReturnValue {
		ctx.(*receiver).hits++
		return apis.Success
	})

	assert.Equal(t, apis.Success, fn.Invoke(nil, apis.Immediate))
	assert.Equal(t, 1, rec.hits)
}

func TestDeferredInvokeClonesArgs(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	var got int
	fn, ok := member.NewCallback(r, func(args apis.FnArgs) apis.ReturnValue {
		require.Len(t, args, 1)
		got, _ = anyval.Get[int](args[0])
		return apis.Success
	})
	require.True(t, ok)
	defer fn.Release()

	arg := anyval.New[int](10)
	require.Equal(t, apis.Success, fn.Invoke(apis.FnArgs{arg}, apis.Deferred))

	// Mutating the caller's cell after the enqueue must not leak into the
	// snapshot.
	arg.SetData(99)
	r.Update()
	assert.Equal(t, 10, got)
}

func TestEventDispatch(t *testing.T) {
	r := registry.New(config.DefaultConfig())

	ref := r.Create(apis.ClassEvent)
	require.True(t, ref.IsValid())
	defer ref.Release()
	ev, ok := apis.Get[apis.Event](ref.Interface(), apis.InterfaceEvent)
	require.True(t, ok)

	// No primary target: an event with no handlers is a no-op.
	assert.Equal(t, apis.NothingToDo, ev.Invoke(nil, apis.Immediate))
	assert.False(t, ev.HasHandlers())

	var runs int
	h := counterCallback(t, r, &runs)
	defer h.Release()
	require.Equal(t, apis.Success, ev.AddHandler(h.Function(), apis.Immediate))
	assert.True(t, ev.HasHandlers())
	assert.Equal(t, apis.Success, ev.Invoke(nil, apis.Immediate))
	assert.Equal(t, 1, runs)

	// Removing the handler empties the dispatch list again.
	require.Equal(t, apis.Success, ev.RemoveHandler(h.Function()))
	assert.False(t, ev.HasHandlers())
	ev.Invoke(nil, apis.Immediate)
	assert.Equal(t, 1, runs)
}
