package pstring

// Append concatenates src onto the end of s.
func (s *String) Append(src *String) error {
	if s == nil || src == nil {
		return ErrInvalid
	}
	return s.AppendBytes(src.Bytes())
}

// AppendBytes concatenates b onto the end of s.
func (s *String) AppendBytes(b []byte) error {
	if s == nil {
		return ErrInvalid
	}
	if len(b) == 0 {
		return nil
	}
	if err := s.Reserve(len(b)); err != nil {
		return err
	}
	n := s.Len()
	copy(s.buf()[n:], b)
	s.setLen(n + len(b))
	return nil
}

// AppendByte concatenates a single byte onto the end of s.
func (s *String) AppendByte(c byte) error {
	if s == nil {
		return ErrInvalid
	}
	if err := s.Reserve(1); err != nil {
		return err
	}
	n := s.Len()
	s.buf()[n] = c
	s.setLen(n + 1)
	return nil
}

// Prepend concatenates src onto the start of s.
func (s *String) Prepend(src *String) error {
	if s == nil || src == nil {
		return ErrInvalid
	}
	return s.PrependBytes(src.Bytes())
}

// PrependBytes concatenates b onto the start of s.
func (s *String) PrependBytes(b []byte) error {
	return s.InsertBytes(0, b)
}

// PrependByte concatenates a single byte onto the start of s.
func (s *String) PrependByte(c byte) error {
	return s.InsertBytes(0, []byte{c})
}

// Insert splices src into s at index i.
func (s *String) Insert(i int, src *String) error {
	if s == nil || src == nil {
		return ErrInvalid
	}
	return s.InsertBytes(i, src.Bytes())
}

// InsertBytes splices b into s at index i, shifting the tail right.
func (s *String) InsertBytes(i int, b []byte) error {
	if s == nil || i < 0 || i > s.Len() {
		return ErrInvalid
	}
	if len(b) == 0 {
		return nil
	}
	if err := s.Reserve(len(b)); err != nil {
		return err
	}
	n := s.Len()
	buf := s.buf()
	copy(buf[i+len(b):n+len(b)], buf[i:n])
	copy(buf[i:], b)
	s.setLen(n + len(b))
	return nil
}

// InsertByte splices a single byte into s at index i.
func (s *String) InsertByte(i int, c byte) error {
	return s.InsertBytes(i, []byte{c})
}

// Remove excises the bytes in [from, to), clamped like Slice, and shifts
// the tail left.
func (s *String) Remove(from, to int) error {
	if s == nil {
		return ErrInvalid
	}
	n := s.Len()
	if to > n {
		to = n
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
	if from == to {
		return nil
	}
	if !s.Resizable() {
		return ErrInvalid
	}

	buf := s.buf()
	copy(buf[from:], buf[to:n])
	s.setLen(n - (to - from))
	return nil
}

// Copy replaces the contents of s with those of src.
func (s *String) Copy(src *String) error {
	if s == nil || src == nil {
		return ErrInvalid
	}
	b := src.Bytes()
	if len(b) > s.Cap() {
		if err := s.Reserve(len(b) - s.Len()); err != nil {
			return err
		}
	}
	copy(s.buf(), b)
	s.setLen(len(b))
	return nil
}

// Join concatenates every string in srcs onto s, reserving once.
func (s *String) Join(srcs []String) error {
	if s == nil {
		return ErrInvalid
	}
	req := 0
	for i := range srcs {
		req += srcs[i].Len()
	}
	if req == 0 {
		return nil
	}
	if err := s.Reserve(req); err != nil {
		return err
	}

	n := s.Len()
	buf := s.buf()
	for i := range srcs {
		n += copy(buf[n:], srcs[i].Bytes())
	}
	s.setLen(n)
	return nil
}

// Replace substitutes up to max occurrences of old with new, all of them
// when max is zero. The scan is a single forward pass, so replacement text
// is never re-matched. An empty old is rejected.
func (s *String) Replace(old, new *String, max int) error {
	if s == nil || old == nil || new == nil {
		return ErrInvalid
	}
	return s.ReplaceBytes(old.Bytes(), new.Bytes(), max)
}

// ReplaceBytes is Replace over raw byte needles.
func (s *String) ReplaceBytes(old, new []byte, max int) error {
	if s == nil || len(old) == 0 || max < 0 {
		return ErrInvalid
	}

	// Collect non-overlapping occurrence offsets in one forward pass.
	var hits []int
	b := s.Bytes()
	for i := 0; i+len(old) <= len(b); {
		view := String{data: b[i:], n: len(b) - i, k: kindSlice}
		j := view.index(old)
		if j < 0 {
			break
		}
		hits = append(hits, i+j)
		i += j + len(old)
		if max > 0 && len(hits) == max {
			break
		}
	}
	if len(hits) == 0 {
		return nil
	}

	n := s.Len()
	delta := len(new) - len(old)
	newLen := n + delta*len(hits)
	if newLen != n && !s.Resizable() {
		return ErrInvalid
	}

	if delta > 0 {
		if err := s.Reserve(newLen - n); err != nil {
			return err
		}
		// Expand right-to-left so unprocessed input is never overwritten.
		buf := s.buf()
		src, dst := n, newLen
		for i := len(hits) - 1; i >= 0; i-- {
			h := hits[i]
			tail := src - (h + len(old))
			copy(buf[dst-tail:dst], buf[h+len(old):src])
			dst -= tail
			copy(buf[dst-len(new):dst], new)
			dst -= len(new)
			src = h
		}
		s.setLen(newLen)
		return nil
	}

	// Same size or shrinking: left-to-right compaction.
	buf := s.buf()
	dst := hits[0]
	src := hits[0]
	for _, h := range hits {
		copy(buf[dst:], buf[src:h])
		dst += h - src
		copy(buf[dst:], new)
		dst += len(new)
		src = h + len(old)
	}
	copy(buf[dst:], buf[src:n])
	dst += n - src
	s.setLen(dst)
	return nil
}

// ReplaceByte substitutes up to max occurrences of the byte old with new,
// all of them when max is zero.
func (s *String) ReplaceByte(old, new byte, max int) error {
	if s == nil || max < 0 {
		return ErrInvalid
	}
	b := s.Bytes()
	count := 0
	for i := 0; i < len(b); {
		view := String{data: b[i:], n: len(b) - i, k: kindSlice}
		j := view.IndexByte(old)
		if j < 0 {
			break
		}
		b[i+j] = new
		i += j + 1
		count++
		if max > 0 && count == max {
			break
		}
	}
	return nil
}
