// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import (
	"sync/atomic"
	"unsafe"
)

// LazyCell is a one-shot, thread-safe, lock-free container holding either
// nothing or exactly one heap-allocated value of type T, allocated through
// allocator rather than Go's own heap. Multiple goroutines may race to
// create T; exactly one's payload wins and is published, and the losers'
// candidates are torn down and their storage released before they observe
// the winner.
//
// A LazyCell's zero value, once its allocator and destroy fields are set,
// is empty and ready to use — this is what lets a ShufflingAllocator be
// declared as a package-level var with no allocation at declaration time.
type LazyCell[T any] struct {
	ptr       atomic.Pointer[T]
	allocator Allocator

	// destroy tears down a fully-constructed T before its storage is
	// released, for both the losing side of a construction race and
	// explicit Teardown. May be nil if T owns no resources beyond its own
	// memory (e.g. trivial structs).
	destroy func(*T)
}

// NewLazyCell creates an empty LazyCell backed by allocator. destroy may be
// nil.
func NewLazyCell[T any](allocator Allocator, destroy func(*T)) *LazyCell[T] {
	return &LazyCell[T]{allocator: allocator, destroy: destroy}
}

// GetOrCreate returns the cell's stable contained value, initializing it
// via init on first use. init is called in place, writing directly into
// freshly allocated (zeroed) storage — it must never be called more than
// once per winning publication, but may run redundantly across racing
// goroutines; only one goroutine's write is ever observed by later
// readers.
func (c *LazyCell[T]) GetOrCreate(init func(*T)) *T {
	if p := c.ptr.Load(); p != nil {
		return p
	}

	layout := layoutOf[T]()
	raw := c.allocator.Alloc(layout)
	if raw == nil {
		handleAllocError("lazy cell", layout)
	}
	candidate := (*T)(raw)
	init(candidate)

	if c.ptr.CompareAndSwap(nil, candidate) {
		// We won the race: our candidate is now the published value.
		return candidate
	}

	// We lost the race. Tear down and release the candidate we built;
	// init is assumed pure apart from allocation, so this is safe.
	if c.destroy != nil {
		c.destroy(candidate)
	}
	c.allocator.Dealloc(unsafe.Pointer(candidate), layout)
	return c.ptr.Load()
}

// Teardown destroys the contained value, if any, and releases its storage.
// Not safe to call concurrently with GetOrCreate.
func (c *LazyCell[T]) Teardown() {
	p := c.ptr.Swap(nil)
	if p == nil {
		return
	}
	if c.destroy != nil {
		c.destroy(p)
	}
	c.allocator.Dealloc(unsafe.Pointer(p), layoutOf[T]())
}
