//go:build !allowoverlong

package pstring

// allowOverlong controls whether DecodeUTF8 accepts overlong encodings;
// the default build rejects them.
const allowOverlong = false
