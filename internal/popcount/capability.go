package popcount

import (
	"os"
	"strings"
)

// Kernel identifies a popcount implementation.
type Kernel uint8

const (
	// KernelTable sums byte lookups into the shared 256-entry table.
	KernelTable Kernel = iota
	// KernelHardware uses the CPU population count instruction via math/bits.
	KernelHardware
)

// String returns the string representation of a Kernel.
func (k Kernel) String() string {
	switch k {
	case KernelTable:
		return "table"
	case KernelHardware:
		return "hardware"
	default:
		return "unknown"
	}
}

// ParseKernel parses a string into a Kernel value.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return KernelTable, true
	case "hardware", "hw":
		return KernelHardware, true
	default:
		return KernelTable, false
	}
}

// EnvKernel is the environment variable consulted at init.
const EnvKernel = "RANKSELECT_POPCOUNT"

// Package-level state, initialized once by the platform init.
var (
	activeKernel Kernel

	// hasHardware is set by platform-specific init.
	hasHardware bool

	kernel32 = Table32
	kernel64 = Table64
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	activeKernel = KernelTable
	if override := os.Getenv(EnvKernel); override != "" {
		if k, ok := ParseKernel(override); ok && isKernelAvailable(k) {
			activeKernel = k
		}
	}
	use(activeKernel)
}

func isKernelAvailable(k Kernel) bool {
	switch k {
	case KernelTable:
		return true
	case KernelHardware:
		return hasHardware
	default:
		return false
	}
}

func use(k Kernel) {
	switch k {
	case KernelHardware:
		kernel32, kernel64 = Hardware32, Hardware64
	default:
		kernel32, kernel64 = Table32, Table64
	}
}

// Active returns the kernel used by Count32, Count64, Sum32 and Sum64.
func Active() Kernel {
	return activeKernel
}

// HasHardware reports whether the CPU has a population count instruction.
func HasHardware() bool {
	return hasHardware
}
