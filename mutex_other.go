// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix && !windows

package shufalloc

// This file deliberately fails to compile on any platform that is neither
// unix nor windows: shufalloc has no mutex backend for it, and the build
// must fail at configuration time rather than produce a binary with a
// silently broken lock. shufflingAllocatorUnsupportedPlatform is never
// defined.
func init() {
	shufflingAllocatorUnsupportedPlatform()
}
