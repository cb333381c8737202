// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import (
	"sync/atomic"
	"unsafe"
)

// shufflingArraySize is the number of slots in a ShufflingArray. Curtsinger
// and Berger found 256 gives good randomization for acceptable overhead;
// it is a fixed build constant, never a runtime-adjustable parameter.
const shufflingArraySize = 256

// ShufflingArray is a fixed-capacity ring of live pointers for a single
// size class. On construction every slot holds a freshly allocated,
// word-aligned block of sizeClass bytes from allocator; the only
// subsequent operation on a slot is an atomic swap.
type ShufflingArray struct {
	slots     [shufflingArraySize]atomic.Pointer[byte]
	sizeClass uintptr
	allocator Allocator
}

// elemLayout is the layout of every block held by this array's slots:
// sizeClass bytes, word-aligned.
func (a *ShufflingArray) elemLayout() Layout {
	return Layout{Size: a.sizeClass, Align: WordSize}
}

// initShufflingArray returns an in-place initializer for a ShufflingArray
// of the given size class, suitable for passing to LazyCell.GetOrCreate.
// It fills all 256 slots with fresh blocks from allocator; any allocation
// failure here is unrecoverable (see handleAllocError).
func initShufflingArray(sizeClass uintptr, allocator Allocator) func(*ShufflingArray) {
	return func(a *ShufflingArray) {
		a.sizeClass = sizeClass
		a.allocator = allocator

		layout := a.elemLayout()
		for i := range a.slots {
			p := allocator.Alloc(layout)
			if p == nil {
				handleAllocError("shuffling array warm-up", layout)
			}
			a.slots[i].Store((*byte)(p))
		}
	}
}

// swap atomically replaces the contents of slot index with p and returns
// what was there before.
func (a *ShufflingArray) swap(index int, p *byte) *byte {
	return a.slots[index].Swap(p)
}

// Teardown returns every slot's block to the underlying allocator, then
// leaves the array empty. Not safe to call concurrently with swap.
func (a *ShufflingArray) Teardown() {
	layout := a.elemLayout()
	for i := range a.slots {
		p := a.slots[i].Swap(nil)
		if p != nil {
			a.allocator.Dealloc(unsafe.Pointer(p), layout)
		}
	}
}
