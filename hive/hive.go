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

// Package hive implements the paged object container: O(1) placement
// construction into cache-dense slabs, zombie objects that outlive removal,
// and orphaned pages that outlive the container itself.
package hive

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"velk.dev/velk/apis"
	"velk.dev/velk/lifetime"
	"velk.dev/velk/member"
	"velk.dev/velk/object"
)

// freeSentinel terminates a page's intrusive freelist.
const freeSentinel = ^uint32(0)

// slotState tracks one slot's lifecycle.
type slotState uint8

const (
	slotFree slotState = iota
	slotActive
	slotZombie
)

// page is one contiguous run of slots plus its bookkeeping arrays.
type page struct {
	slots  apis.Slots
	state  []slotState
	blocks []*slotBlock

	// active is the bitmask of active slots, one bit per slot, scanned
	// word-at-a-time during iteration.
	active []uint64

	freeHead uint32

	// live counts active plus zombie slots. Atomic so orphaned pages can
	// reclaim without a lock.
	live atomic.Int32
}

// slotBlock is the extended control block for a slot-managed object: the
// lifetime block plus the reclamation context.
type slotBlock struct {
	block *lifetime.Block
	hive  *Hive
	page  *page
	slot  uint32

	// orphan flips when the hive is destroyed while the slot's object is
	// still externally referenced; reclamation then runs page-locally.
	orphan atomic.Bool
}

// destroy runs when the last strong reference drops. It protects the block
// through the disposer chain with an extra weak count, destroys the object
// in place, and reclaims the slot.
func (sb *slotBlock) destroy(b *lifetime.Block) {
	b.AcquireWeak()
	b.RunDisposer()
	b.ReleaseWeak() // the object's contributed weak
	b.ReleaseWeak() // the protective bump

	if sb.orphan.Load() {
		sb.reclaimOrphan()
		return
	}
	sb.hive.reclaim(sb)
}

// reclaimOrphan frees the slot without a lock: the owning hive no longer
// exists and each slot is reached through exactly one last-reference
// release. The last orphan on a page frees the page.
func (sb *slotBlock) reclaimOrphan() {
	p := sb.page
	p.state[sb.slot] = slotFree
	p.blocks[sb.slot] = nil
	if p.live.Add(-1) == 0 {
		p.slots = nil
		p.state = nil
		p.blocks = nil
		p.active = nil
	}
}

// Hive stores objects of one class in pages sized by the schedule.
//
// Lock discipline: Add/Remove and slot reclamation take the exclusive
// lock; ForEach/Contains take the shared lock; Size/Empty are lock-free.
type Hive struct {
	object.Core

	inst     apis.Velk
	schedule []int
	log      zerolog.Logger

	mu       sync.RWMutex
	elemUid  apis.Uid
	factory  apis.SlotFactory
	pages    []*page
	closed   bool
	liveSize atomic.Int64
}

// BindClass binds the hive to the class it stores.
func (h *Hive) BindClass(classUid apis.Uid) apis.ReturnValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.factory != nil {
		return apis.NothingToDo
	}
	if h.inst == nil {
		return apis.Fail
	}
	f := h.inst.GetFactory(classUid)
	if f == nil {
		return apis.InvalidArgument
	}
	sf, ok := f.(apis.SlotFactory)
	if !ok {
		return apis.InvalidArgument
	}
	h.elemUid = classUid
	h.factory = sf
	return apis.Success
}

// ElementClassUid returns the UID of the stored class.
func (h *Hive) ElementClassUid() apis.Uid {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.elemUid
}

// Size returns the number of active objects.
func (h *Hive) Size() int { return int(h.liveSize.Load()) }

// Empty reports whether no objects are active.
func (h *Hive) Empty() bool { return h.liveSize.Load() == 0 }

// nextPageCapacity returns the schedule entry for the next page.
func (h *Hive) nextPageCapacity() int {
	i := len(h.pages)
	if i >= len(h.schedule) {
		i = len(h.schedule) - 1
	}
	return h.schedule[i]
}

// allocPage appends a fresh page with an intact freelist.
func (h *Hive) allocPage() *page {
	capacity := h.nextPageCapacity()
	p := &page{
		slots:  h.factory.NewSlots(capacity),
		state:  make([]slotState, capacity),
		blocks: make([]*slotBlock, capacity),
		active: make([]uint64, (capacity+63)/64),
	}
	for i := 0; i < capacity-1; i++ {
		*p.slots.FreeLink(i) = uint32(i + 1)
	}
	*p.slots.FreeLink(capacity-1) = freeSentinel
	p.freeHead = 0
	h.pages = append(h.pages, p)
	h.log.Debug().Int("capacity", capacity).Int("pages", len(h.pages)).Msg("hive page allocated")
	return p
}

// Add constructs a new object in a free slot.
func (h *Hive) Add() apis.Ref {
	h.mu.Lock()
	if h.closed || h.factory == nil {
		h.mu.Unlock()
		return apis.Ref{}
	}

	var target *page
	for _, p := range h.pages {
		if p.freeHead != freeSentinel {
			target = p
			break
		}
	}
	if target == nil {
		target = h.allocPage()
	}

	// Pop the head slot off the intrusive freelist.
	slot := target.freeHead
	target.freeHead = *target.slots.FreeLink(int(slot))

	// Prepare the extended block before construction so the object is born
	// with it.
	sb := &slotBlock{hive: h, page: target, slot: slot}
	sb.block = lifetime.NewExternalBlock(nil, sb.destroy)

	obj := target.slots.Construct(int(slot), sb.block)
	if info := h.factory.ClassInfo(); len(info.Members) > 0 && obj.Metadata() == nil {
		if mo, ok := obj.(interface{ SetMetadata(apis.Metadata) }); ok {
			mo.SetMetadata(member.NewContainer(obj, h.inst, info.Members))
		}
	}

	target.state[slot] = slotActive
	target.blocks[slot] = sb
	target.active[slot/64] |= 1 << (slot % 64)
	target.live.Add(1)
	h.liveSize.Add(1)

	ref := apis.AdoptRef(obj, sb.block)
	obj.SetSelf(ref)
	// The hive itself owns one strong reference until Remove.
	obj.Ref()
	h.mu.Unlock()
	return ref
}

// findSlotLocked locates obj's active slot. Caller holds a lock.
func (h *Hive) findSlotLocked(obj apis.Interface) (*page, int) {
	for _, p := range h.pages {
		if p.slots == nil {
			continue
		}
		if i := p.slots.IndexOf(obj); i >= 0 {
			if p.state[i] == slotActive {
				return p, i
			}
			return nil, -1
		}
	}
	return nil, -1
}

// Remove transitions obj's slot to zombie and drops the hive's strong
// reference. The release happens outside the lock: the reclamation
// callback re-acquires it when this was the last reference.
func (h *Hive) Remove(obj apis.Object) apis.ReturnValue {
	if obj == nil {
		return apis.InvalidArgument
	}
	h.mu.Lock()
	p, i := h.findSlotLocked(obj)
	if p == nil {
		h.mu.Unlock()
		return apis.Fail
	}
	p.state[i] = slotZombie
	p.active[i/64] &^= 1 << (i % 64)
	h.liveSize.Add(-1)
	h.mu.Unlock()

	obj.Unref()
	return apis.Success
}

// reclaim returns a zombie slot to the freelist. Runs under the exclusive
// lock; called from the destroy callback on whichever goroutine dropped
// the last strong reference.
func (h *Hive) reclaim(sb *slotBlock) {
	h.mu.Lock()
	p := sb.page
	detached := h.closed || !h.owns(p)
	p.state[sb.slot] = slotFree
	p.blocks[sb.slot] = nil
	if !detached {
		*p.slots.FreeLink(int(sb.slot)) = p.freeHead
		p.freeHead = sb.slot
	}
	last := p.live.Add(-1) == 0
	h.mu.Unlock()

	if detached && last {
		p.slots = nil
		p.state = nil
		p.blocks = nil
		p.active = nil
	}
}

// owns reports whether p is still attached to the hive.
func (h *Hive) owns(p *page) bool {
	for _, q := range h.pages {
		if q == p {
			return true
		}
	}
	return false
}

// Contains reports whether obj occupies an active slot.
func (h *Hive) Contains(obj apis.Object) bool {
	if obj == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, _ := h.findSlotLocked(obj)
	return p != nil
}

// ForEach visits every active object, skipping free and zombie slots via
// the per-page bitmask.
func (h *Hive) ForEach(ctx any, visitor apis.VisitorFn) {
	if visitor == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range h.pages {
		for wi, w := range p.active {
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				w &^= 1 << bit
				if !visitor(ctx, p.slots.At(wi*64+bit)) {
					return
				}
			}
		}
	}
}

// ForEachState visits every active object along with its property-state
// struct for interfaceUid. Objects without that state are skipped.
func (h *Hive) ForEachState(interfaceUid apis.Uid, ctx any, visitor apis.StateVisitorFn) {
	if visitor == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range h.pages {
		for wi, w := range p.active {
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				w &^= 1 << bit
				obj := p.slots.At(wi*64 + bit)
				ps, ok := apis.Get[apis.PropertyState](obj, apis.InterfacePropertyState)
				if !ok {
					continue
				}
				state := ps.GetPropertyState(interfaceUid)
				if state == nil {
					continue
				}
				if !visitor(ctx, obj, state) {
					return
				}
			}
		}
	}
}

// Close destroys the hive. Active objects become zombies and the hive's
// strong references are released; pages with surviving zombies are
// orphaned and freed by their last zombie's destroy callback.
func (h *Hive) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	pages := h.pages
	h.pages = nil
	h.mu.Unlock()

	for _, p := range pages {
		// Release the hive's strong reference on every active slot,
		// transitioning Active -> Zombie. Zombies (old and new) reclaim
		// page-locally from here on; the hive no longer owns the page.
		var victims []apis.Object
		for i := range p.state {
			if p.state[i] == slotActive {
				p.state[i] = slotZombie
				p.active[i/64] &^= 1 << (i % 64)
				h.liveSize.Add(-1)
				victims = append(victims, p.slots.At(i))
			}
		}
		orphans := 0
		for i := range p.state {
			if p.state[i] == slotZombie && p.blocks[i] != nil {
				p.blocks[i].orphan.Store(true)
				orphans++
			}
		}
		if orphans > 0 {
			h.log.Debug().Int("zombies", orphans).Msg("hive page orphaned")
		}
		for _, o := range victims {
			o.Unref()
		}
	}
}

// Dispose closes the hive when its own last strong reference drops.
func (h *Hive) Dispose() {
	h.Close()
	h.Core.Dispose()
}

// Init wires the hive object's core and interface table.
func (h *Hive) Init(block *lifetime.Block) {
	h.InitCore(block, apis.ClassHive,
		apis.InterfaceEntry{Uid: apis.InterfaceHive, Iface: h},
		apis.InterfaceEntry{Uid: apis.InterfaceObject, Iface: h},
	)
}
