// Copyright 2024 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shufalloc

import "testing"

func TestSizeClassSizesMonotonic(t *testing.T) {
	prev := uintptr(0)
	for i, s := range sizeClassSizes {
		if s <= prev {
			t.Fatalf("class %d size %d is not greater than previous class size %d", i, s, prev)
		}
		prev = s
	}
}

func TestSizeClassSizesFirstClassIsOneWord(t *testing.T) {
	if sizeClassSizes[0] != WordSize {
		t.Fatalf("class 0 size = %d, want %d", sizeClassSizes[0], WordSize)
	}
}

func TestSizeClassStrideDoublesEveryFourClasses(t *testing.T) {
	strideFor := func(i int) uintptr {
		return sizeClassSizes[i] - sizeClassSizes[i-1]
	}

	// Within a group of four, the stride between consecutive classes is
	// constant.
	for group := 0; group < numSizeClasses; group += 4 {
		var want uintptr
		for i := group + 1; i < group+4; i++ {
			got := strideFor(i)
			if want == 0 {
				want = got
			} else if got != want {
				t.Fatalf("class %d stride = %d, want %d (within group starting at %d)", i, got, want, group)
			}
		}
	}

	// The stride doubles at each group boundary after the first.
	strideOfGroup := func(group int) uintptr {
		return strideFor(group + 1)
	}
	prevStride := strideOfGroup(0)
	for group := 4; group < numSizeClasses; group += 4 {
		s := strideOfGroup(group)
		if s != prevStride*2 {
			t.Fatalf("stride for group starting at %d = %d, want %d", group, s, prevStride*2)
		}
		prevStride = s
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		size      uintptr
		wantClass int
		wantOK    bool
	}{
		{"zero", 0, 0, true},
		{"one byte", 1, 0, true},
		{"exactly one word", WordSize, 0, true},
		{"one word plus one", WordSize + 1, 1, true},
		{"class 31 upper bound", sizeClassSizes[31], 31, true},
		{"one byte over class 31", sizeClassSizes[31] + 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, size, ok := classify(tt.size)
			if ok != tt.wantOK {
				t.Fatalf("classify(%d) ok = %v, want %v", tt.size, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if class != tt.wantClass {
				t.Fatalf("classify(%d) class = %d, want %d", tt.size, class, tt.wantClass)
			}
			if size < tt.size {
				t.Fatalf("classify(%d) returned class size %d smaller than request", tt.size, size)
			}
			if size != sizeClassSizes[class] {
				t.Fatalf("classify(%d) size %d does not match table entry for class %d (%d)", tt.size, size, class, sizeClassSizes[class])
			}
		})
	}
}

func TestClassifyEveryClassBoundary(t *testing.T) {
	for class := 0; class < numSizeClasses; class++ {
		size := sizeClassSizes[class]

		gotClass, gotSize, ok := classify(size)
		if !ok || gotClass != class || gotSize != size {
			t.Fatalf("classify(%d) = (%d, %d, %v), want (%d, %d, true)", size, gotClass, gotSize, ok, class, size)
		}

		if class > 0 {
			justBelow := sizeClassSizes[class-1] + 1
			gotClass, gotSize, ok = classify(justBelow)
			if !ok || gotClass != class || gotSize != size {
				t.Fatalf("classify(%d) = (%d, %d, %v), want (%d, %d, true)", justBelow, gotClass, gotSize, ok, class, size)
			}
		}
	}
}

func TestClassifyTooLargeBypasses(t *testing.T) {
	_, _, ok := classify(sizeClassSizes[numSizeClasses-1] + 1)
	if ok {
		t.Fatal("classify should report no class for a request larger than the last class")
	}

	_, _, ok = classify(^uintptr(0))
	if ok {
		t.Fatal("classify should report no class for a maximal request")
	}
}
