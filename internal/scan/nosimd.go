//go:build nosimd

package scan

const disableSIMD = true
