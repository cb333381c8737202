// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package shufalloc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// nativeMutex wraps a Windows slim reader-writer lock (SRWLOCK), used
// exclusively (never shared) so it behaves as a plain mutex. An SRWLOCK is
// a single opaque pointer-sized word; its storage is allocator-provided
// like the POSIX backend's pthread_mutex_t.
type nativeMutex struct {
	inner unsafe.Pointer
}

var (
	modkernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procInitializeSRWLock       = modkernel32.NewProc("InitializeSRWLock")
	procAcquireSRWLockExclusive = modkernel32.NewProc("AcquireSRWLockExclusive")
	procReleaseSRWLockExclusive = modkernel32.NewProc("ReleaseSRWLockExclusive")
)

func nativeMutexLayout() Layout {
	return Layout{Size: WordSize, Align: WordSize}
}

func newNativeMutex(allocator Allocator) *nativeMutex {
	layout := nativeMutexLayout()
	raw := allocator.Alloc(layout)
	if raw == nil {
		handleAllocError("native mutex", layout)
	}

	procInitializeSRWLock.Call(uintptr(raw))
	return &nativeMutex{inner: raw}
}

func (n *nativeMutex) lock() {
	procAcquireSRWLockExclusive.Call(uintptr(n.inner))
}

func (n *nativeMutex) unlock() {
	procReleaseSRWLockExclusive.Call(uintptr(n.inner))
}

func (n *nativeMutex) teardown(allocator Allocator) {
	// SRWLOCK has no destroy routine; only its storage needs releasing.
	allocator.Dealloc(n.inner, nativeMutexLayout())
}
