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

// Package lifetime implements the control-block protocol: intrusive
// strong/weak reference counts with an optional external destroy callback
// that intercepts destruction for slot-managed objects.
package lifetime

import (
	"sync/atomic"
)

// Disposer is implemented by objects that need to release owned resources
// (satellites, back-references) when their last strong reference drops.
type Disposer interface {
	Dispose()
}

// DestroyFunc is the external destruction hook. It runs in place of the
// default disposer path when the block is in external mode.
type DestroyFunc func(*Block)

// Block is the per-object control block.
//
// strong reaching zero destroys the object (default disposer path, or the
// external destroy callback). weak reaching zero releases the block itself.
// The live object always contributes one weak; strong <= weak at all times.
type Block struct {
	strong atomic.Int64
	weak   atomic.Int64

	// external is 1 while the block is in external mode. It is cleared
	// exactly once at the start of external destruction so that any weak
	// references released afterwards use the regular deallocation path.
	external atomic.Uint32

	// self is the object this block manages. Published with the block
	// before the block is shared; cleared by the disposer path.
	self any

	// destroy runs in place of the default disposer when external mode is
	// set. Set before publication, cleared when external destruction starts.
	destroy DestroyFunc

	// noPool marks blocks that must not be recycled (extended blocks
	// allocated by slot containers).
	noPool bool
}

// NewBlock returns a block with strong=1, weak=1 managing self.
// The block may come from the process-wide recycling pool.
func NewBlock(self any) *Block {
	b := getBlock()
	b.self = self
	return b
}

// NewExternalBlock returns a block with strong=1, weak=1 in external mode.
// destroy runs instead of the default disposer path when the last strong
// reference drops. External blocks are never pooled.
func NewExternalBlock(self any, destroy DestroyFunc) *Block {
	b := &Block{noPool: true}
	b.strong.Store(1)
	b.weak.Store(1)
	b.self = self
	b.destroy = destroy
	b.external.Store(1)
	return b
}

// Self returns the managed object, or nil after destruction.
func (b *Block) Self() any { return b.self }

// SetSelf replaces the managed object pointer. Only valid before the block
// is shared between goroutines.
func (b *Block) SetSelf(self any) { b.self = self }

// Strong returns the current strong count. Test and diagnostic use only.
func (b *Block) Strong() int64 { return b.strong.Load() }

// Weak returns the current weak count. Test and diagnostic use only.
func (b *Block) Weak() int64 { return b.weak.Load() }

// External reports whether the block is still in external mode.
func (b *Block) External() bool { return b.external.Load() != 0 }

// AcquireStrong increments the strong count. Only valid while the caller
// already holds a strong reference.
func (b *Block) AcquireStrong() {
	if b.strong.Add(1) <= 1 {
		panic("lifetime: AcquireStrong on destroyed object")
	}
}

// TryUpgrade increments the strong count iff it is currently positive.
// It is the weak-to-strong upgrade; it fails once destruction has begun.
func (b *Block) TryUpgrade() bool {
	for {
		s := b.strong.Load()
		if s <= 0 {
			return false
		}
		if b.strong.CompareAndSwap(s, s+1) {
			return true
		}
	}
}

// ReleaseStrong decrements the strong count. When it reaches zero the
// object is destroyed exactly once: the external destroy callback if the
// block is in external mode, otherwise the default disposer path followed
// by the release of the object's contributed weak reference.
func (b *Block) ReleaseStrong() {
	n := b.strong.Add(-1)
	if n < 0 {
		panic("lifetime: negative strong count")
	}
	if n != 0 {
		return
	}
	// Clear the external tag first: any weak references released after this
	// point deallocate through the regular path.
	if b.external.CompareAndSwap(1, 0) {
		destroy := b.destroy
		b.destroy = nil
		destroy(b)
		return
	}
	b.RunDisposer()
	b.ReleaseWeak()
}

// RunDisposer runs the managed object's Dispose (if implemented) and clears
// the self pointer. The disposer may release weak references it acquired
// (the seeded self back-reference); the object's contributed weak is
// released by the caller.
func (b *Block) RunDisposer() {
	self := b.self
	b.self = nil
	if d, ok := self.(Disposer); ok {
		d.Dispose()
	}
}

// AcquireWeak increments the weak count.
func (b *Block) AcquireWeak() {
	if b.weak.Add(1) <= 1 {
		panic("lifetime: AcquireWeak on released block")
	}
}

// ReleaseWeak decrements the weak count. When it reaches zero the block is
// returned to the pool (or left to the collector for unpoolable blocks).
func (b *Block) ReleaseWeak() {
	n := b.weak.Add(-1)
	if n < 0 {
		panic("lifetime: negative weak count")
	}
	if n == 0 {
		putBlock(b)
	}
}

// Expired reports whether the strong count has reached zero.
func (b *Block) Expired() bool { return b.strong.Load() <= 0 }
