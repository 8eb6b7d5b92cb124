//go:build !nosse

package scan

const disableSSE = false
