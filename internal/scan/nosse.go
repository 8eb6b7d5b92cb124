//go:build nosse

package scan

const disableSSE = true
