//go:build !nosimd

package scan

const disableSIMD = false
