//go:build amd64

package main

import "golang.org/x/sys/cpu"

// cpuBannerInfo is an informational signal only: it plays no role in
// allocator correctness, just in describing the machine a benchmark run
// happened on.
func cpuBannerInfo() string {
	if cpu.X86.HasAVX2 {
		return "amd64, AVX2"
	}
	return "amd64"
}
