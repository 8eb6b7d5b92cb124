//go:build amd64

package scan

import "golang.org/x/sys/cpu"

func hasWide() bool {
	return cpu.X86.HasAVX2
}

func hasNarrow() bool {
	return cpu.X86.HasSSE2
}
