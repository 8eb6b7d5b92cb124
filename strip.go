package pstring

// defaultStripSet is the whitespace class used when nil is passed to the
// strip family.
var defaultStripSet = []byte(" \t\r\n\v\f")

// StripLeft removes leading bytes found in set (whitespace when nil).
// Slices are repositioned instead of shifted.
func (s *String) StripLeft(set []byte) error {
	if s == nil {
		return ErrInvalid
	}
	if set == nil {
		set = defaultStripSet
	}
	n := s.Span(set)
	if n == 0 {
		return nil
	}
	if s.k == kindSlice {
		s.data = s.data[n:]
		s.n = len(s.data)
		return nil
	}
	buf := s.buf()
	copy(buf, buf[n:s.Len()])
	s.setLen(s.Len() - n)
	return nil
}

// StripRight removes trailing bytes found in set (whitespace when nil).
// Slices are repositioned instead of truncated in place.
func (s *String) StripRight(set []byte) error {
	if s == nil {
		return ErrInvalid
	}
	if set == nil {
		set = defaultStripSet
	}
	n := s.RSpan(set)
	if n == 0 {
		return nil
	}
	if s.k == kindSlice {
		s.data = s.data[:s.Len()-n]
		s.n = len(s.data)
		return nil
	}
	s.setLen(s.Len() - n)
	return nil
}

// Strip removes both leading and trailing bytes found in set.
func (s *String) Strip(set []byte) error {
	if err := s.StripRight(set); err != nil {
		return err
	}
	return s.StripLeft(set)
}

// Dedent removes up to n columns of leading indentation from every line,
// counting a tab as tab columns. Carriage returns, vertical tabs and form
// feeds inside the indentation are dropped without consuming columns.
func (s *String) Dedent(n, tab int) error {
	if s == nil || n < 0 {
		return ErrInvalid
	}
	if tab <= 0 {
		tab = 8
	}
	if !s.Resizable() {
		return ErrInvalid
	}

	buf := s.buf()
	length := s.Len()
	dst := 0
	i := 0
	for i < length {
		// Consume the line's indentation budget.
		cols := 0
		for i < length && cols < n {
			switch buf[i] {
			case ' ':
				cols++
			case '\t':
				if cols+tab > n {
					goto body
				}
				cols += tab
			case '\r', '\v', '\f':
				// dropped silently
			default:
				goto body
			}
			i++
		}
	body:
		// Copy the rest of the line including its newline.
		for i < length {
			c := buf[i]
			buf[dst] = c
			dst++
			i++
			if c == '\n' {
				break
			}
		}
	}
	s.setLen(dst)
	return nil
}

// Indent prepends n spaces to every line and returns 0. When n <= 0 the
// string is left untouched and the minimum indentation found on any
// non-empty line is returned instead.
func (s *String) Indent(n int) (int, error) {
	if s == nil {
		return 0, ErrInvalid
	}

	if n <= 0 {
		minIndent := -1
		b := s.Bytes()
		i := 0
		for i < len(b) {
			run := 0
			for i < len(b) && (b[i] == ' ' || b[i] == '\t') {
				run++
				i++
			}
			if i < len(b) && b[i] != '\n' {
				if minIndent < 0 || run < minIndent {
					minIndent = run
				}
			}
			for i < len(b) && b[i] != '\n' {
				i++
			}
			i++
		}
		if minIndent < 0 {
			minIndent = 0
		}
		return minIndent, nil
	}

	// Count the lines that get indented: the start of the string and every
	// newline not sitting at the very end.
	b := s.Bytes()
	lines := 0
	if len(b) > 0 {
		lines = 1
		for i := 0; i < len(b)-1; i++ {
			if b[i] == '\n' {
				lines++
			}
		}
	}
	if lines == 0 {
		return 0, nil
	}

	old := s.Len()
	if err := s.Reserve(lines * n); err != nil {
		return 0, err
	}

	// Expand right-to-left.
	buf := s.buf()
	newLen := old + lines*n
	src, dst := old, newLen
	lineEnd := old
	for src > 0 {
		src--
		if buf[src] == '\n' && src != old-1 {
			// Indent the line that follows this newline.
			seg := lineEnd - (src + 1)
			copy(buf[dst-seg:dst], buf[src+1:lineEnd])
			dst -= seg
			for k := 0; k < n; k++ {
				dst--
				buf[dst] = ' '
			}
			lineEnd = src + 1
		}
	}
	seg := lineEnd
	copy(buf[dst-seg:dst], buf[:lineEnd])
	dst -= seg
	for k := 0; k < n; k++ {
		dst--
		buf[dst] = ' '
	}
	s.setLen(newLen)
	return 0, nil
}
