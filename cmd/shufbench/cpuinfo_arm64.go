//go:build arm64

package main

import "golang.org/x/sys/cpu"

func cpuBannerInfo() string {
	if cpu.ARM64.HasAES {
		return "arm64, AES"
	}
	return "arm64"
}
