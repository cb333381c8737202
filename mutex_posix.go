// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package shufalloc

/*
#include <pthread.h>

// shufalloc_mutex_init initializes *m as a PTHREAD_MUTEX_NORMAL mutex, so
// that a re-entrant lock attempt deadlocks instead of triggering undefined
// behavior.
static int shufalloc_mutex_init(pthread_mutex_t *m) {
	pthread_mutexattr_t attr;
	int rc = pthread_mutexattr_init(&attr);
	if (rc != 0) {
		return rc;
	}
	rc = pthread_mutexattr_settype(&attr, PTHREAD_MUTEX_NORMAL);
	if (rc != 0) {
		pthread_mutexattr_destroy(&attr);
		return rc;
	}
	rc = pthread_mutex_init(m, &attr);
	pthread_mutexattr_destroy(&attr);
	return rc;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// nativeMutex is a POSIX pthread mutex whose control block lives in
// allocator-provided storage rather than on the Go heap.
type nativeMutex struct {
	inner *C.pthread_mutex_t
}

func nativeMutexLayout() Layout {
	var zero C.pthread_mutex_t
	return Layout{Size: uintptr(unsafe.Sizeof(zero)), Align: WordSize}
}

func newNativeMutex(allocator Allocator) *nativeMutex {
	layout := nativeMutexLayout()
	raw := allocator.Alloc(layout)
	if raw == nil {
		handleAllocError("native mutex", layout)
	}

	inner := (*C.pthread_mutex_t)(raw)
	if rc := C.shufalloc_mutex_init(inner); rc != 0 {
		panic(fmt.Sprintf("shufalloc: pthread_mutex_init failed: errno %d", int(rc)))
	}

	return &nativeMutex{inner: inner}
}

func (n *nativeMutex) lock() {
	if rc := C.pthread_mutex_lock(n.inner); rc != 0 {
		panic(fmt.Sprintf("shufalloc: pthread_mutex_lock failed: errno %d", int(rc)))
	}
}

func (n *nativeMutex) unlock() {
	if rc := C.pthread_mutex_unlock(n.inner); rc != 0 {
		panic(fmt.Sprintf("shufalloc: pthread_mutex_unlock failed: errno %d", int(rc)))
	}
}

func (n *nativeMutex) teardown(allocator Allocator) {
	if rc := C.pthread_mutex_destroy(n.inner); rc != 0 {
		panic(fmt.Sprintf("shufalloc: pthread_mutex_destroy failed: errno %d", int(rc)))
	}
	allocator.Dealloc(unsafe.Pointer(n.inner), nativeMutexLayout())
}
