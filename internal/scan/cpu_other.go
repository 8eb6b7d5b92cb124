//go:build !amd64 && !arm64

package scan

func hasWide() bool   { return false }
func hasNarrow() bool { return false }
