// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shufalloc wraps an allocator to randomize the spatial placement
// of the heap objects it returns, removing accidental locality between a
// program's allocations and cache/TLB behaviour so that benchmarks measure
// the code under test rather than the luck of the layout. Not a security
// mitigation. Design inspired by Stabilizer (Curtsinger & Berger).
package shufalloc

import "unsafe"

// sizeClassTable is the 32-entry table of per-class lazy cells. Each entry
// is itself a LazyCell so that a process which never allocates through a
// given size class never materializes that class's 256-slot array.
type sizeClassTable [numSizeClasses]*LazyCell[ShufflingArray]

func initSizeClassTable(allocator Allocator) func(*sizeClassTable) {
	return func(t *sizeClassTable) {
		for i := range t {
			t[i] = NewLazyCell[ShufflingArray](allocator, (*ShufflingArray).Teardown)
		}
	}
}

func teardownSizeClassTable(t *sizeClassTable) {
	for i := range t {
		t[i].Teardown()
	}
}

// State is the allocator's lazily-materialized working state: the
// mutex-guarded random generator used to pick shuffle indices, and the
// nested lazy cell holding the size-class table. Both are constructed the
// first time a ShufflingAllocator is used, never before.
type State struct {
	rng         *Mutex[randomGenerator]
	sizeClasses *LazyCell[sizeClassTable]
}

func initState(allocator Allocator) func(*State) {
	return func(s *State) {
		s.rng = NewMutex[randomGenerator](allocator, newRNG())
		s.sizeClasses = NewLazyCell[sizeClassTable](allocator, teardownSizeClassTable)
	}
}

func (s *State) teardown() {
	s.rng.Teardown()
	s.sizeClasses.Teardown()
}

// ShufflingAllocator wraps inner, randomizing the placement of the heap
// objects it yields. Zero value is not usable — construct with Wrap (or
// its alias New).
type ShufflingAllocator struct {
	inner     Allocator
	stateCell *LazyCell[State]
}

// Wrap builds a ShufflingAllocator around inner. Construction makes no call
// to inner (only the wrapper and its empty state cell are allocated, on the
// Go heap): the state cell's payload, random generator, and size-class
// table are all materialized lazily on first use, which is what makes it
// possible to declare a ShufflingAllocator as a package-level var (the Go
// equivalent of the constant-initialized static the design calls for).
func Wrap(inner Allocator) *ShufflingAllocator {
	return &ShufflingAllocator{
		inner:     inner,
		stateCell: NewLazyCell[State](inner, (*State).teardown),
	}
}

// New is an alias for Wrap, for callers who expect a conventional
// constructor name.
func New(inner Allocator) *ShufflingAllocator {
	return Wrap(inner)
}

func (sa *ShufflingAllocator) state() *State {
	return sa.stateCell.GetOrCreate(initState(sa.inner))
}

func (sa *ShufflingAllocator) randomIndex() int {
	st := sa.state()
	st.rng.Lock()
	defer st.rng.Unlock()
	return st.rng.Value().IntN(shufflingArraySize)
}

// shufflingArray returns the shuffling array for size's class, lazily
// creating both the size-class table and the specific array on first use.
// ok is false when size exceeds the largest size class.
func (sa *ShufflingAllocator) shufflingArray(size uintptr) (array *ShufflingArray, ok bool) {
	class, classSize, ok := classify(size)
	if !ok {
		return nil, false
	}

	table := sa.state().sizeClasses.GetOrCreate(initSizeClassTable(sa.inner))
	cell := table[class]
	return cell.GetOrCreate(initShufflingArray(classSize, sa.inner)), true
}

// Alloc implements Allocator. Over-aligned or over-sized requests bypass
// the shuffle and are forwarded to the underlying allocator unchanged.
func (sa *ShufflingAllocator) Alloc(layout Layout) unsafe.Pointer {
	if !layout.wordAligned() {
		return sa.inner.Alloc(layout)
	}

	array, ok := sa.shufflingArray(layout.Size)
	if !ok {
		return sa.inner.Alloc(layout)
	}

	replacement := sa.inner.Alloc(array.elemLayout())
	if replacement == nil {
		return nil
	}

	index := sa.randomIndex()
	old := array.swap(index, (*byte)(replacement))
	return unsafe.Pointer(old)
}

// Dealloc implements Allocator. layout must be the same layout passed to
// the Alloc call that produced ptr. dealloc(nil, _) is a no-op.
func (sa *ShufflingAllocator) Dealloc(ptr unsafe.Pointer, layout Layout) {
	if ptr == nil {
		return
	}

	if !layout.wordAligned() {
		sa.inner.Dealloc(ptr, layout)
		return
	}

	array, ok := sa.shufflingArray(layout.Size)
	if !ok {
		sa.inner.Dealloc(ptr, layout)
		return
	}

	index := sa.randomIndex()
	old := array.swap(index, (*byte)(ptr))
	sa.inner.Dealloc(unsafe.Pointer(old), array.elemLayout())
}
