// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
)

// randomGenerator is the per-allocator pseudo-random generator type,
// guarded by a Mutex so the one random draw per shuffle is serialized
// without the generator calling back into any allocator of its own.
type randomGenerator = mathrand.Rand

// newRNG constructs the per-allocator pseudo-random generator, seeded from
// the platform's non-deterministic entropy source. This is not a security
// mitigation and is not intended to resist prediction; it just needs to
// avoid producing the same shuffle pattern on every run. Re-seeding is not
// supported — a ShufflingAllocator's state is constructed exactly once.
func newRNG() randomGenerator {
	return *mathrand.New(mathrand.NewPCG(entropyUint64(), entropyUint64()))
}

// entropyUint64 draws one uint64 of seed material from the OS entropy
// source.
func entropyUint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// The only failure mode documented for crypto/rand.Read on a
		// supported platform is the OS entropy source being unavailable,
		// which this allocator has no recovery strategy for either.
		panic(fmt.Sprintf("shufalloc: failed to read entropy: %v", err))
	}
	return binary.LittleEndian.Uint64(buf[:])
}
