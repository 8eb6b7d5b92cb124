//go:build !noavx

package scan

const disableAVX = false
