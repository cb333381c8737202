//go:build !amd64 && !arm64

package main

func cpuBannerInfo() string {
	return "unknown architecture"
}
