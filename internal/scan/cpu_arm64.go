//go:build arm64

package scan

import "golang.org/x/sys/cpu"

// NEON is baseline on arm64; cpu.ARM64 distinguishes the optional wider
// extensions which map onto the same 16-byte block width here.
func hasWide() bool {
	return false
}

func hasNarrow() bool {
	return cpu.ARM64.HasASIMD
}
