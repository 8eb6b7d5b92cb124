// Package pstring implements a byte-string value with small-string,
// heap-owned and non-owning slice storage behind one interface, together
// with the pieces built around it: a string-keyed dictionary, streams,
// formatted printing, byte codecs and a small pattern engine. Hot loops
// run over the block kernels in internal/scan, which pick their width from
// the CPU at startup.
package pstring

import "github.com/pjjov/pstring/internal/scan"

func init() {
	scan.Detect()
}

// Detect re-runs CPU feature detection for builds that defer it; the probe
// happens at most once per process, so calling this after init is a no-op.
func Detect() {
	scan.Detect()
}

type kind uint8

const (
	kindInline kind = iota
	kindOwned
	kindSlice
)

// inlineExtend adds inline bytes above the minimum; the default build
// keeps the value at the header-sized minimum.
const inlineExtend = 0

// InlineSize is the number of bytes a String can hold without touching an
// allocator.
const InlineSize = 23 + inlineExtend

// String is a mutable byte string. The zero value is an empty inline
// string and ready to use. Storage is one of three variants: inline bytes
// held in the value itself, an owned allocator-backed buffer, or a
// non-owning slice of foreign memory. Owned buffers keep a zero byte just
// past the length for interoperability; the length is authoritative.
type String struct {
	data   []byte // owned: full buffer incl. the NUL slot; slice: the window
	n      int    // owned/slice length
	alloc  Allocator
	k      kind
	ilen   uint8
	inline [InlineSize + 1]byte
}

// blockAlign returns the allocation rounding so owned buffers can be
// scanned with whole aligned blocks.
func blockAlign() int {
	if w := scan.Width; w > 0 {
		return w
	}
	return 16
}

func alignSize(n int) int {
	a := blockAlign()
	return (n + a - 1) &^ (a - 1)
}

// New initializes a String by copying b. Storage is inline when b fits and
// a names the default allocator (or nil).
func New(b []byte, a Allocator) (String, error) {
	s, err := Alloc(len(b), a)
	if err != nil {
		return s, err
	}
	copy(s.buf(), b)
	s.setLen(len(b))
	return s, nil
}

// NewString is New for a Go string.
func NewString(str string, a Allocator) (String, error) {
	s, err := Alloc(len(str), a)
	if err != nil {
		return s, err
	}
	copy(s.buf(), str)
	s.setLen(len(str))
	return s, nil
}

// Alloc initializes an empty String with room for capacity bytes.
func Alloc(capacity int, a Allocator) (String, error) {
	if capacity < 0 {
		return String{}, ErrInvalid
	}
	if capacity <= InlineSize && (a == nil || a == Std) {
		return String{}, nil
	}
	if a == nil {
		a = Std
	}

	size := alignSize(capacity + 1)
	buf := allocate(a, size, uintptr(blockAlign()))
	if buf == nil {
		return String{}, ErrNoMemory
	}
	s := String{data: buf, alloc: a, k: kindOwned}
	s.setLen(0)
	return s, nil
}

// Dup copies src into a fresh String. A nil allocator keeps src's
// allocator (slices fall back to the default), which turns slices into
// resizable values: inline when the bytes fit, owned otherwise.
func (s *String) Dup(a Allocator) (String, error) {
	if a == nil {
		a = s.Allocator()
	}
	return New(s.Bytes(), a)
}

// Wrap initializes a slice String over buf. A zero length is computed by
// scanning for a NUL byte, bounded by capacity when capacity is nonzero.
// A zero capacity becomes the computed length.
func Wrap(buf []byte, length, capacity int) (String, error) {
	if buf == nil || length < 0 || capacity < 0 {
		return String{}, ErrInvalid
	}

	if length == 0 {
		limit := len(buf)
		if capacity > 0 && capacity < limit {
			limit = capacity
		}
		for length < limit && buf[length] != 0 {
			length++
		}
	}
	if capacity == 0 {
		capacity = length
	}
	if capacity > len(buf) || length > capacity {
		return String{}, ErrInvalid
	}

	return String{data: buf[:capacity], n: length, k: kindSlice}, nil
}

// Slice returns a non-owning view of s covering [from, to). Both indices
// clamp to the length; a reversed pair yields an empty slice at to. The
// view shares s's storage and goes stale if s is resized.
func (s *String) Slice(from, to int) String {
	if to > s.Len() {
		to = s.Len()
	}
	if to < 0 {
		to = 0
	}
	if from > to {
		from = to
	}
	if from < 0 {
		from = 0
	}
	win := s.buf()[from:to]
	return String{data: win, n: len(win), k: kindSlice}
}

// Range is Slice with open ends: a negative from starts at the beginning,
// a negative to runs to the length.
func (s *String) Range(from, to int) String {
	if from < 0 {
		from = 0
	}
	if to < 0 {
		to = s.Len()
	}
	return s.Slice(from, to)
}

// Cut keeps only the bytes in [from, to), clamped like Slice. Owned and
// inline values move the kept range to the front; slices are repositioned
// without touching the backing buffer.
func (s *String) Cut(from, to int) error {
	if s == nil {
		return ErrInvalid
	}
	if to > s.Len() {
		to = s.Len()
	}
	if to < 0 {
		to = 0
	}
	if from > to {
		from = to
	}
	if from < 0 {
		from = 0
	}

	if s.k == kindSlice {
		s.data = s.data[from:to]
		s.n = len(s.data)
		return nil
	}

	b := s.buf()
	copy(b, b[from:to])
	s.setLen(to - from)
	return nil
}

// Free releases the owned buffer, if any, and resets s to an empty inline
// value. Freeing twice is a no-op.
func (s *String) Free() {
	if s == nil {
		return
	}
	if s.k == kindOwned {
		release(s.alloc, s.data, len(s.data))
	}
	*s = String{}
}

// buf returns the full storage area including spare capacity and the NUL
// slot of resizable variants.
func (s *String) buf() []byte {
	if s.k == kindInline {
		return s.inline[:]
	}
	return s.data
}

// Bytes returns the live bytes of s. The slice goes stale if s is resized.
func (s *String) Bytes() []byte {
	switch s.k {
	case kindInline:
		return s.inline[:s.ilen]
	default:
		return s.data[:s.n]
	}
}

// String returns a copy of the bytes as a Go string.
func (s *String) String() string {
	return string(s.Bytes())
}

// Len returns the length in bytes.
func (s *String) Len() int {
	if s.k == kindInline {
		return int(s.ilen)
	}
	return s.n
}

// Cap returns the number of bytes s can hold without growing.
func (s *String) Cap() int {
	switch s.k {
	case kindInline:
		return InlineSize
	case kindOwned:
		return len(s.data) - 1
	default:
		return len(s.data)
	}
}

// At returns the byte at index i, or 0 when out of bounds.
func (s *String) At(i int) byte {
	if i < 0 || i >= s.Len() {
		return 0
	}
	return s.buf()[i]
}

// Allocator returns the allocator backing s, or nil for slices. Inline
// values report the default allocator.
func (s *String) Allocator() Allocator {
	switch s.k {
	case kindInline:
		return Std
	case kindOwned:
		return s.alloc
	default:
		return nil
	}
}

// IsInline reports whether the bytes live inside the value itself.
func (s *String) IsInline() bool { return s.k == kindInline }

// IsOwned reports whether the bytes live in an allocator-backed buffer.
func (s *String) IsOwned() bool { return s.k == kindOwned }

// IsSlice reports whether s is a non-owning view of foreign memory.
func (s *String) IsSlice() bool { return s.k == kindSlice }

// Resizable reports whether s can change capacity (it is not a slice).
func (s *String) Resizable() bool { return s.k != kindSlice }

// setLen naively sets the length, maintaining the trailing NUL of
// resizable variants. The caller guarantees n fits the capacity.
func (s *String) setLen(n int) {
	switch s.k {
	case kindInline:
		s.ilen = uint8(n)
		s.inline[n] = 0
	case kindOwned:
		s.n = n
		s.data[n] = 0
	default:
		s.n = n
	}
}

// Clear removes all bytes, keeping the capacity.
func (s *String) Clear() {
	s.setLen(0)
}

// Reserve ensures room for count additional bytes, growing geometrically.
func (s *String) Reserve(count int) error {
	if s == nil || count < 0 {
		return ErrInvalid
	}
	if count == 0 || s.Len()+count <= s.Cap() {
		return nil
	}
	need := (s.Len()+count)*2 - s.Len() - s.Cap()
	return s.Grow(need)
}

// Grow enlarges the buffer by at least count bytes, promoting an inline
// value to owned storage on first growth. Slices cannot grow.
func (s *String) Grow(count int) error {
	if s == nil || count <= 0 || s.k == kindSlice {
		return ErrInvalid
	}

	if s.k == kindInline {
		size := alignSize(InlineSize + 1 + count)
		buf := allocate(Std, size, uintptr(blockAlign()))
		if buf == nil {
			return ErrNoMemory
		}
		n := int(s.ilen)
		copy(buf, s.inline[:n])
		s.data = buf
		s.alloc = Std
		s.k = kindOwned
		s.setLen(n)
		return nil
	}

	old := len(s.data)
	size := alignSize(old + count)
	buf := reallocate(s.alloc, s.data, old, size, uintptr(blockAlign()))
	if buf == nil {
		return ErrNoMemory
	}
	s.data = buf
	s.setLen(s.n)
	return nil
}

// Shrink gives back spare capacity, keeping room for the bytes and the
// trailing NUL. Inline values have nothing to release.
func (s *String) Shrink() error {
	if s == nil || s.k == kindSlice {
		return ErrInvalid
	}
	if s.k == kindInline {
		return nil
	}

	old := len(s.data)
	size := alignSize(s.n + 1)
	if size >= old {
		return nil
	}
	buf := reallocate(s.alloc, s.data, old, size, uintptr(blockAlign()))
	if buf == nil {
		return ErrNoMemory
	}
	s.data = buf
	s.setLen(s.n)
	return nil
}
