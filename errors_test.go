// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import (
	"errors"
	"strings"
	"testing"
)

func TestAllocErrorMessage(t *testing.T) {
	err := &AllocError{Op: "lazy cell", Layout: NewLayout(24, 8), Err: ErrAllocFailed}
	msg := err.Error()

	for _, want := range []string{"lazy cell", "24", "8", "nil"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want it to contain %q", msg, want)
		}
	}
}

func TestAllocErrorUnwrap(t *testing.T) {
	err := &AllocError{Op: "op", Layout: NewLayout(8, 8), Err: ErrAllocFailed}
	if !errors.Is(err, ErrAllocFailed) {
		t.Fatal("errors.Is(err, ErrAllocFailed) = false, want true")
	}
}

func TestHandleAllocErrorInvokesHandler(t *testing.T) {
	prev := allocErrorHandler
	defer func() { allocErrorHandler = prev }()

	var gotOp string
	var gotLayout Layout
	allocErrorHandler = func(op string, layout Layout) {
		gotOp = op
		gotLayout = layout
	}

	layout := NewLayout(16, 8)
	handleAllocError("test op", layout)

	if gotOp != "test op" || gotLayout != layout {
		t.Fatalf("handler saw (%q, %+v), want (%q, %+v)", gotOp, gotLayout, "test op", layout)
	}
}
