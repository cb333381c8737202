// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import (
	"errors"
	"fmt"
	"os"
)

// AllocError reports that the underlying allocator failed to satisfy a
// request the shuffling core cannot recover from: construction of a lazy
// cell's payload, a shuffling array's 256-slot warm-up, or a native mutex
// control block. Per the error model, this is an abort path, not a
// propagated error — it exists mainly so the abort path has a readable
// message and tests have something concrete to assert on.
type AllocError struct {
	Op     string
	Layout Layout
	Err    error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("shufalloc: %s: allocation of %d bytes (align %d) failed: %v",
		e.Op, e.Layout.Size, e.Layout.Align, e.Err)
}

func (e *AllocError) Unwrap() error { return e.Err }

// ErrAllocFailed is the underlying error wrapped by AllocError when the
// wrapped Allocator returns a nil pointer.
var ErrAllocFailed = errors.New("underlying allocator returned nil")

// allocErrorHandler is invoked whenever the underlying allocator fails
// during first-use initialization. The default handler prints and aborts
// the process, which the error model explicitly permits; tests replace it
// to observe the failure without killing the test binary.
var allocErrorHandler = func(op string, layout Layout) {
	fmt.Fprintln(os.Stderr, (&AllocError{Op: op, Layout: layout, Err: ErrAllocFailed}).Error())
	os.Exit(2)
}

// handleAllocError reports an unrecoverable allocation failure for op and
// invokes the current allocErrorHandler.
func handleAllocError(op string, layout Layout) {
	allocErrorHandler(op, layout)
}
