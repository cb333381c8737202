// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import (
	"sync/atomic"
	"unsafe"
)

// SystemAllocator is the default underlying allocator, backed directly by
// the Go runtime heap. It is the natural stand-in for Rust's std::alloc::System
// or C's malloc/free in this port: Alloc hands out a fresh block; Dealloc
// is a deliberate no-op, since a garbage collected runtime reclaims a
// block once nothing keeps a live reference to it rather than on an
// explicit free call.
//
// Alloc backs its blocks with a []unsafe.Pointer rather than a []byte.
// LazyCell routes every infrastructure payload it lazily constructs
// (State, the size-class table, each ShufflingArray) through this same
// Allocator, and every one of those payloads itself holds live Go
// pointers (to a Mutex, to other LazyCells, to the warm blocks in a
// ShufflingArray's slots). A []byte-backed block is noscan: the garbage
// collector never walks its contents, so any pointer stored inside it is
// invisible to the collector and the object it points to can be reclaimed
// out from under a still-live slot. Backing every block with
// []unsafe.Pointer instead makes the block scannable, so the collector
// sees and keeps alive whatever pointers end up written into it,
// regardless of what type LazyCell or ShufflingArray actually construct
// there.
type SystemAllocator struct{}

// Alloc implements Allocator. A []unsafe.Pointer is only word-aligned, so
// for an Align above WordSize the block is over-allocated by Align-WordSize
// bytes and the returned pointer is the first Align-aligned address in it.
func (SystemAllocator) Alloc(layout Layout) unsafe.Pointer {
	size := max(layout.Size, 1)
	if layout.Align > WordSize {
		size += layout.Align - WordSize
	}
	words := (size + WordSize - 1) / WordSize
	buf := make([]unsafe.Pointer, words)
	p := unsafe.Pointer(unsafe.SliceData(buf))
	if layout.Align > WordSize {
		p = unsafe.Add(p, -uintptr(p)&(layout.Align-1))
	}
	return p
}

// Dealloc implements Allocator. It intentionally does nothing; see
// SystemAllocator's doc comment.
func (SystemAllocator) Dealloc(unsafe.Pointer, Layout) {}

// Stats reports the cumulative Alloc/Dealloc call counts observed by a
// CountingAllocator.
type Stats struct {
	Allocs   uint64
	Deallocs uint64
}

// CountingAllocator wraps another Allocator and counts calls to Alloc and
// Dealloc with atomic counters, in the spirit of the teacher cache types'
// hit/miss/eviction bookkeeping (ShardedCache, OptimizedFontCache). It
// exists to make the outstanding-block invariants in the testable
// properties observable: tests wrap SystemAllocator in one of these and
// assert on Stats/Outstanding before and after a batch of allocator calls.
type CountingAllocator struct {
	inner    Allocator
	allocs   atomic.Uint64
	deallocs atomic.Uint64
}

// NewCountingAllocator wraps inner, counting every call made to it.
func NewCountingAllocator(inner Allocator) *CountingAllocator {
	return &CountingAllocator{inner: inner}
}

// Alloc implements Allocator.
func (c *CountingAllocator) Alloc(layout Layout) unsafe.Pointer {
	p := c.inner.Alloc(layout)
	if p != nil {
		c.allocs.Add(1)
	}
	return p
}

// Dealloc implements Allocator.
func (c *CountingAllocator) Dealloc(ptr unsafe.Pointer, layout Layout) {
	if ptr == nil {
		return
	}
	c.deallocs.Add(1)
	c.inner.Dealloc(ptr, layout)
}

// Stats returns a snapshot of the call counters.
func (c *CountingAllocator) Stats() Stats {
	return Stats{Allocs: c.allocs.Load(), Deallocs: c.deallocs.Load()}
}

// Outstanding returns the net number of blocks allocated but not yet
// deallocated through this counter.
func (c *CountingAllocator) Outstanding() int64 {
	return int64(c.allocs.Load()) - int64(c.deallocs.Load())
}
