package pstring

import "encoding/binary"

const matcherDepth = 256

// atom is a decoded MATCH value record.
type atom struct {
	kind  byte
	b     byte
	bytes []byte
}

type capSpan struct {
	start, end int
}

type frameKind uint8

const (
	frameGroup frameKind = iota
	frameQuant
	frameLoop
)

// frame is one continuation on the backtracking stack. Group frames retry
// the next alternative of their chain, quantifier frames rewind greedy
// repetitions one atom at a time, loop frames exit a quantified group
// with fewer iterations.
type frame struct {
	kind frameKind

	// group
	id         int
	chain      int // operand offset of the current chain node, -1 when none
	entry      int // input position when the group was entered
	savedStart int
	savedEnd   int
	looped     bool // entered through a loop edge; the empty tail is off

	// quantifier
	val     atom
	pcAfter int
	count   uint64
	min     uint64

	// loop
	resume int
	pos    int
}

type matcher struct {
	code    []byte
	input   []byte
	caps    []capSpan
	frames  []frame
	full    bool
	viaLoop bool
}

// Match runs the pattern over input, unanchored: the scan starts at every
// byte offset until the program completes. On success the capture spans
// are stored into caps as non-owning slices of input (slot 0 is the whole
// match) and the number of filled slots is returned. No match reports
// ErrNoData.
func (e *Expr) Match(input *String, caps []String) (int, error) {
	if e == nil || input == nil {
		return 0, ErrInvalid
	}

	m := matcher{
		code:  e.code.Bytes(),
		input: input.Bytes(),
		caps:  make([]capSpan, e.numCaps),
	}

	for start := 0; start <= len(m.input); start++ {
		ok, err := m.run(start)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}

		n := min(len(caps), e.numCaps)
		for i := 0; i < n; i++ {
			sp := m.caps[i]
			if sp.start < 0 || sp.end < sp.start {
				caps[i] = input.Slice(0, 0)
				continue
			}
			caps[i] = input.Slice(sp.start, sp.end)
		}
		return n, nil
	}
	return 0, ErrNoData
}

func (m *matcher) word(at int) uint64 {
	return binary.LittleEndian.Uint64(m.code[at:])
}

// readValue decodes the value record at pc, returning it and the offset
// just past it.
func (m *matcher) readValue(pc int) (atom, int) {
	kind := m.code[pc]
	switch kind {
	case valByte, valClass:
		return atom{kind: kind, b: m.code[pc+1]}, pc + 2
	default:
		n := int(m.word(pc + 1))
		start := pc + 1 + wordSize
		return atom{kind: kind, bytes: m.code[start : start+n]}, start + n
	}
}

func (m *matcher) push(f frame) bool {
	if len(m.frames) == matcherDepth {
		m.full = true
		return false
	}
	m.frames = append(m.frames, f)
	return true
}

// run executes the program against input starting at start. The overflow
// flag turns a blown frame stack into an error rather than a false miss.
func (m *matcher) run(start int) (bool, error) {
	m.frames = m.frames[:0]
	m.full = false
	m.viaLoop = false
	for i := range m.caps {
		m.caps[i] = capSpan{start: -1, end: -1}
	}

	pos := start
	pc := 0
	failed := false

	for {
		if failed {
			failed = !m.backtrack(&pc, &pos)
			if failed {
				if m.full {
					return false, ErrNoMemory
				}
				return false, nil
			}
		}

		if pc >= len(m.code) {
			return true, nil
		}

		switch m.code[pc] {
		case opNop:
			pc++

		case opCaptureStart:
			id := int(m.word(pc + 1))
			pc += 1 + wordSize

			f := frame{
				kind:       frameGroup,
				id:         id,
				chain:      -1,
				entry:      pos,
				savedStart: m.caps[id].start,
				savedEnd:   m.caps[id].end,
				looped:     m.viaLoop,
			}
			m.viaLoop = false
			if pc < len(m.code) && m.code[pc] == opBranch {
				// the group's alternation marker
				f.chain = pc + 1
				pc += 1 + wordSize
			}
			if !m.push(f) {
				failed = true
				break
			}
			m.caps[id] = capSpan{start: pos, end: -1}

		case opCaptureEnd:
			id := int(m.word(pc + 1))
			m.caps[id].end = pos
			pc += 1 + wordSize

		case opBranch:
			operand := pc + 1
			target := operand + int(int64(m.word(operand)))
			if target <= pc {
				// Loop edge of a quantified group: greedily go around
				// again when the last iteration consumed input, keeping
				// an exit continuation.
				progressed := false
				for i := len(m.frames) - 1; i >= 0; i-- {
					if m.frames[i].kind == frameGroup {
						progressed = pos > m.frames[i].entry
						break
					}
				}
				if progressed {
					if !m.push(frame{kind: frameLoop, resume: operand + wordSize, pos: pos}) {
						failed = true
						break
					}
					m.viaLoop = true
					pc = target
				} else {
					pc = operand + wordSize
				}
			} else {
				pc = target
			}

		case opMatch:
			minRep := m.word(pc + 1)
			maxRep := m.word(pc + 1 + wordSize)
			val, after := m.readValue(pc + 1 + 2*wordSize)

			entry := pos
			count := uint64(0)
			for count < maxRep {
				stride, ok := m.atomAt(val, pos)
				if !ok {
					break
				}
				pos += stride
				count++
			}
			if count < minRep {
				pos = entry
				failed = true
				break
			}
			if !m.push(frame{kind: frameQuant, val: val, pcAfter: after, entry: entry, count: count, min: minRep}) {
				failed = true
				break
			}
			pc = after

		default:
			return false, ErrInvalid
		}
	}
}

// backtrack unwinds the frame stack after a failure. It reports whether a
// continuation was found, adjusting pc and pos to resume from it.
func (m *matcher) backtrack(pc, pos *int) bool {
	for len(m.frames) > 0 {
		f := &m.frames[len(m.frames)-1]

		switch f.kind {
		case frameQuant:
			if f.count > f.min {
				f.count--
				*pos = m.advance(f.val, f.entry, f.count)
				*pc = f.pcAfter
				return true
			}

		case frameGroup:
			m.caps[f.id] = capSpan{start: f.savedStart, end: f.savedEnd}
			if f.chain >= 0 {
				target := f.chain + int(int64(m.word(f.chain)))
				if target < len(m.code) && m.code[target] == opBranch {
					altStart := target + 1 + wordSize
					next := target + 1 + int(int64(m.word(target+1)))
					if !f.looped || next != altStart {
						f.chain = target + 1
						*pos = f.entry
						*pc = altStart
						m.caps[f.id] = capSpan{start: f.entry, end: -1}
						return true
					}
				}
			}

		case frameLoop:
			*pos = f.pos
			*pc = f.resume
			m.frames = m.frames[:len(m.frames)-1]
			return true
		}

		m.frames = m.frames[:len(m.frames)-1]
	}
	return false
}

// advance returns the input position after count repetitions of val from
// entry. Only the any-byte class has a variable stride, which is
// recomputed by walking.
func (m *matcher) advance(val atom, entry int, count uint64) int {
	if val.kind == valClass && val.b == '.' {
		pos := entry
		for ; count > 0; count-- {
			pos += m.dotStride(pos)
		}
		return pos
	}

	stride := 1
	if val.kind == valUtf8 {
		stride = len(val.bytes)
	}
	return entry + int(count)*stride
}

// dotStride returns the byte width of the codepoint at pos; malformed
// leads advance a single byte.
func (m *matcher) dotStride(pos int) int {
	c := m.input[pos]
	size := 1
	switch {
	case c&0xE0 == 0xC0:
		size = 2
	case c&0xF0 == 0xE0:
		size = 3
	case c&0xF8 == 0xF0:
		size = 4
	}
	if pos+size > len(m.input) {
		size = 1
	}
	return size
}

// atomAt attempts to consume one occurrence of val at pos, returning its
// stride.
func (m *matcher) atomAt(val atom, pos int) (int, bool) {
	if pos >= len(m.input) {
		return 0, false
	}
	c := m.input[pos]

	switch val.kind {
	case valByte:
		return 1, c == val.b

	case valClass:
		if val.b == '.' {
			return m.dotStride(pos), true
		}
		return 1, classHas(val.b, c)

	case valUtf8:
		k := len(val.bytes)
		if pos+k > len(m.input) {
			return 0, false
		}
		return k, eqBytes(m.input[pos:pos+k], val.bytes)

	case valSet:
		return 1, setHas(val.bytes, c)

	case valNegSet:
		return 1, !setHas(val.bytes, c)
	}
	return 0, false
}

func classHas(class, c byte) bool {
	switch class {
	case 'd':
		return c >= '0' && c <= '9'
	case 'D':
		return !(c >= '0' && c <= '9')
	case 's':
		return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
	case 'S':
		return !(c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f')
	case 'w':
		return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	case 'W':
		return !(c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'))
	}
	return false
}

// setHas interprets raw bracket contents against c: ranges, class escapes
// and escaped literals.
func setHas(content []byte, c byte) bool {
	i := 0
	for i < len(content) {
		if content[i] == '\\' && i+1 < len(content) {
			esc := content[i+1]
			i += 2
			switch esc {
			case 't':
				esc = '\t'
			case 'n':
				esc = '\n'
			case 'r':
				esc = '\r'
			case 'f':
				esc = '\f'
			case 'v':
				esc = '\v'
			default:
				if isClassEscape(esc) {
					if classHas(esc, c) {
						return true
					}
					continue
				}
			}
			if esc == c {
				return true
			}
			continue
		}

		if i+2 < len(content) && content[i+1] == '-' {
			if c >= content[i] && c <= content[i+2] {
				return true
			}
			i += 3
			continue
		}

		if content[i] == c {
			return true
		}
		i++
	}
	return false
}
