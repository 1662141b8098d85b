//go:build arm64

package popcount

import "golang.org/x/sys/cpu"

func init() {
	// CNT is part of Advanced SIMD.
	hasHardware = cpu.ARM64.HasASIMD
	initCapabilities()
}
