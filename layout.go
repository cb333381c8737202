// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import "unsafe"

// WordSize is the machine word size in bytes, the alignment boundary at or
// below which a request is eligible for shuffling.
const WordSize = unsafe.Sizeof(uintptr(0))

// Layout describes the size and alignment of a block, mirroring Rust's
// std::alloc::Layout. Align must be a power of two.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// NewLayout builds a Layout from a size and alignment.
func NewLayout(size, align uintptr) Layout {
	return Layout{Size: size, Align: align}
}

// wordAligned reports whether a block of this layout needs no stricter
// alignment than a machine word, the precondition for shuffling it.
func (l Layout) wordAligned() bool {
	return l.Align <= WordSize
}

// Allocator is the interface every allocator in this package implements,
// standing in for Rust's GlobalAlloc trait. Alloc returns nil on failure;
// Dealloc must be given the same Layout that produced ptr, and must treat
// ptr == nil as a no-op.
type Allocator interface {
	Alloc(layout Layout) unsafe.Pointer
	Dealloc(ptr unsafe.Pointer, layout Layout)
}

// layoutOf returns the Layout of T: its size and its natural alignment,
// which may be smaller than a word. unsafe.Sizeof and
// unsafe.Alignof do not evaluate their operand, so declaring zero does not
// copy or construct a T.
func layoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: uintptr(unsafe.Alignof(zero))}
}
