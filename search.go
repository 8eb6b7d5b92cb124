package pstring

import (
	"math/bits"

	"github.com/pjjov/pstring/internal/scan"
)

// Every search below follows the same template: march whole kernel blocks
// while the remainder covers one, locate the first or last hit lane with
// trailing/leading-zero math, then finish the tail per byte.

// IndexByte returns the index of the first occurrence of c, or -1.
func (s *String) IndexByte(c byte) int {
	b := s.Bytes()
	i := 0
	if w := scan.Width; w > 0 {
		for ; i+w <= len(b); i += w {
			if m := scan.MatchByte(b[i:i+w], c); m != 0 {
				return i + bits.TrailingZeros64(m)
			}
		}
	}
	for ; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// LastIndexByte returns the index of the last occurrence of c, or -1.
func (s *String) LastIndexByte(c byte) int {
	b := s.Bytes()
	i := len(b)
	if w := scan.Width; w > 0 {
		for ; i >= w; i -= w {
			if m := scan.MatchByte(b[i-w:i], c); m != 0 {
				return i - w + bits.Len64(m) - 1
			}
		}
	}
	for i--; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}

func (s *String) indexSet(set []byte, want bool) int {
	b := s.Bytes()
	bs := scan.MakeSet(set)
	i := 0
	if w := scan.Width; w > 0 {
		full := uint64(1)<<w - 1
		for ; i+w <= len(b); i += w {
			m := scan.MatchSet(b[i:i+w], &bs)
			if !want {
				m = ^m & full
			}
			if m != 0 {
				return i + bits.TrailingZeros64(m)
			}
		}
	}
	for ; i < len(b); i++ {
		if bs.Has(b[i]) == want {
			return i
		}
	}
	return -1
}

func (s *String) lastIndexSet(set []byte, want bool) int {
	b := s.Bytes()
	bs := scan.MakeSet(set)
	i := len(b)
	if w := scan.Width; w > 0 {
		full := uint64(1)<<w - 1
		for ; i >= w; i -= w {
			m := scan.MatchSet(b[i-w:i], &bs)
			if !want {
				m = ^m & full
			}
			if m != 0 {
				return i - w + bits.Len64(m) - 1
			}
		}
	}
	for i--; i >= 0; i-- {
		if bs.Has(b[i]) == want {
			return i
		}
	}
	return -1
}

// IndexAny returns the index of the first byte present in set, or -1.
func (s *String) IndexAny(set []byte) int {
	return s.indexSet(set, true)
}

// IndexNotAny returns the index of the first byte absent from set, or -1.
func (s *String) IndexNotAny(set []byte) int {
	return s.indexSet(set, false)
}

// LastIndexAny returns the index of the last byte present in set, or -1.
func (s *String) LastIndexAny(set []byte) int {
	return s.lastIndexSet(set, true)
}

// LastIndexNotAny returns the index of the last byte absent from set, or -1.
func (s *String) LastIndexNotAny(set []byte) int {
	return s.lastIndexSet(set, false)
}

// Span returns the length of the leading run of bytes present in set.
func (s *String) Span(set []byte) int {
	if i := s.IndexNotAny(set); i >= 0 {
		return i
	}
	return s.Len()
}

// CSpan returns the length of the leading run of bytes absent from set.
func (s *String) CSpan(set []byte) int {
	if i := s.IndexAny(set); i >= 0 {
		return i
	}
	return s.Len()
}

// RSpan returns the length of the trailing run of bytes present in set.
func (s *String) RSpan(set []byte) int {
	if i := s.LastIndexNotAny(set); i >= 0 {
		return s.Len() - 1 - i
	}
	return s.Len()
}

// RCSpan returns the length of the trailing run of bytes absent from set.
func (s *String) RCSpan(set []byte) int {
	if i := s.LastIndexAny(set); i >= 0 {
		return s.Len() - 1 - i
	}
	return s.Len()
}

// Index returns the byte offset of the leftmost occurrence of sub, or -1.
// The first byte is located with the kernel and candidates confirmed with
// a block compare.
func (s *String) Index(sub *String) int {
	return s.index(sub.Bytes())
}

// IndexBytes is Index for a raw byte needle.
func (s *String) IndexBytes(sub []byte) int {
	return s.index(sub)
}

func (s *String) index(sub []byte) int {
	b := s.Bytes()
	if len(sub) == 0 {
		return 0
	}
	if len(sub) > len(b) {
		return -1
	}

	first := sub[0]
	limit := len(b) - len(sub)
	for i := 0; i <= limit; {
		view := String{data: b[i:], n: len(b) - i, k: kindSlice}
		j := view.IndexByte(first)
		if j < 0 {
			return -1
		}
		i += j
		if i > limit {
			return -1
		}
		if eqBytes(b[i:i+len(sub)], sub) {
			return i
		}
		i++
	}
	return -1
}

// HasPrefix reports whether s starts with prefix.
func (s *String) HasPrefix(prefix []byte) bool {
	b := s.Bytes()
	return len(prefix) <= len(b) && eqBytes(b[:len(prefix)], prefix)
}

// HasSuffix reports whether s ends with suffix.
func (s *String) HasSuffix(suffix []byte) bool {
	b := s.Bytes()
	return len(suffix) <= len(b) && eqBytes(b[len(b)-len(suffix):], suffix)
}

// offsetIn locates dst's window inside src's storage, for the tokenizer
// cursors below. The cursor is the offset just past dst's window.
func (dst *String) offsetIn(src *String) (int, bool) {
	if dst.k != kindSlice {
		return 0, false
	}
	if len(dst.data) == 0 && cap(dst.data) == 0 {
		// Only a window at the very end of a slice-backed source loses
		// its position; every other empty window keeps its pointer.
		return src.Len(), true
	}
	base := addrOf(src.buf())
	cur := addrOf(dst.data)
	if base == 0 || cur < base || cur+uintptr(len(dst.data)) > base+uintptr(src.Len()) {
		return 0, false
	}
	return int(cur-base) + len(dst.data), true
}

// Tok advances dst over src, producing the next maximal run of bytes not
// in set. Initialize dst by calling with a nil set; exhaustion reports
// ErrNotFound.
func Tok(dst, src *String, set []byte) error {
	if dst == nil || src == nil {
		return ErrInvalid
	}
	if set == nil {
		*dst = src.Slice(0, 0)
		return nil
	}

	pos, ok := dst.offsetIn(src)
	if !ok {
		return ErrInvalid
	}

	rest := src.Slice(pos, src.Len())
	start := pos + rest.Span(set)
	if start >= src.Len() {
		*dst = src.Slice(src.Len(), src.Len())
		return ErrNotFound
	}

	tail := src.Slice(start, src.Len())
	end := start + tail.CSpan(set)
	*dst = src.Slice(start, end)
	return nil
}

// Split advances dst over src, producing tokens separated by the substring
// sep. Initialize dst by calling with a nil sep. A separator sitting
// immediately after the previous token is skipped before searching, so
// alternating separators between calls can surprise.
func Split(dst, src, sep *String) error {
	if dst == nil || src == nil {
		return ErrInvalid
	}
	if sep == nil {
		*dst = src.Slice(0, 0)
		return nil
	}
	if sep.Len() == 0 {
		return ErrInvalid
	}

	pos, ok := dst.offsetIn(src)
	if !ok {
		return ErrInvalid
	}
	if pos >= src.Len() {
		return ErrNotFound
	}

	rest := src.Slice(pos, src.Len())
	if rest.HasPrefix(sep.Bytes()) {
		pos += sep.Len()
		if pos >= src.Len() {
			*dst = src.Slice(src.Len(), src.Len())
			return ErrNotFound
		}
		rest = src.Slice(pos, src.Len())
	}

	end := src.Len()
	if i := rest.Index(sep); i >= 0 {
		end = pos + i
	}
	*dst = src.Slice(pos, end)
	return nil
}

// SplitBytes is Split with a raw byte separator.
func SplitBytes(dst, src *String, sep []byte) error {
	if sep == nil {
		return Split(dst, src, nil)
	}
	w, err := Wrap(sep, len(sep), len(sep))
	if err != nil {
		return err
	}
	return Split(dst, src, &w)
}
