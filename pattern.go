package pstring

import (
	"encoding/binary"
	"math"
)

// Pattern bytecode. Operands are fixed 64-bit little-endian words.
//
//	NOP
//	MATCH         min:word max:word value-record
//	BRANCH        jump:word  (distance from the operand to the target)
//	CAPTURE_START id:word
//	CAPTURE_END   id:word
//
// A value record is a kind byte followed by one operand byte (Byte, Class)
// or a length word and raw bytes (Utf8, Set, NegSet). The BRANCH right
// after a CAPTURE_START is the group's alternation marker: its target,
// and the targets of the branches terminating each alternative, form a
// chain linking the group's alternative boundaries. A backward BRANCH
// after a CAPTURE_END is a quantified group's loop edge.
const (
	opNop = iota
	opMatch
	opBranch
	opCaptureStart
	opCaptureEnd
)

const (
	valByte = iota
	valUtf8
	valClass
	valSet
	valNegSet
)

const (
	wordSize    = 8
	parserDepth = 64

	// repeatUnbounded is the max operand of an open-ended quantifier.
	repeatUnbounded = math.MaxUint64
)

// Expr is a compiled pattern: bytecode owned through the allocator it was
// compiled with.
type Expr struct {
	code    String
	numCaps int
}

// value is a parse-time atom record; the pool is scratch and the chosen
// record is inlined into the bytecode at emission.
type value struct {
	kind  byte
	b     byte
	bytes []byte
}

type groupFrame struct {
	capture int
	pending int // operand offset of the unpatched chain node
	start   int // offset of CAPTURE_START, for loop edges
}

type parser struct {
	src  []byte
	pos  int
	err  error
	code *String

	vals    []value
	numCaps int
	groups  [parserDepth]groupFrame
	top     int
}

// Compile parses a pattern into executable bytecode. Supported grammar:
// literal bytes, '.', escapes, classes \d \s \w \D \S \W, bracket sets
// with ranges and leading ^ negation, alternation, numbered capturing
// groups, and the quantifiers ? * + and {m,n} (atoms only for the brace
// form). Multibyte UTF-8 sequences match as whole codepoints.
func Compile(pattern string, alloc Allocator) (*Expr, error) {
	code, err := Alloc(len(pattern), alloc)
	if err != nil {
		return nil, err
	}

	p := parser{src: []byte(pattern), code: &code, numCaps: 1}
	p.openGroup(0)
	for p.err == nil && p.pos < len(p.src) {
		p.next()
	}
	if p.err == nil {
		if p.top != 1 {
			p.err = ErrInvalid // unbalanced group
		} else {
			p.closeGroup()
		}
	}
	if p.err != nil {
		code.Free()
		return nil, p.err
	}

	return &Expr{code: code, numCaps: p.numCaps}, nil
}

// NumCaptures returns the number of capture slots a match can fill,
// including the whole-match slot 0.
func (e *Expr) NumCaptures() int { return e.numCaps }

// Free releases the bytecode.
func (e *Expr) Free() {
	if e != nil {
		e.code.Free()
	}
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) peek(i int) byte {
	if p.pos+i < len(p.src) {
		return p.src[p.pos+i]
	}
	return 0
}

func (p *parser) emitOp(op byte) {
	if err := p.code.AppendByte(op); err != nil {
		p.fail(err)
	}
}

func (p *parser) emitWord(w uint64) {
	var buf [wordSize]byte
	binary.LittleEndian.PutUint64(buf[:], w)
	if err := p.code.AppendBytes(buf[:]); err != nil {
		p.fail(err)
	}
}

func (p *parser) patchWord(at int, w uint64) {
	if p.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(p.code.buf()[at:], w)
}

// emitValue inlines the most recent pool record.
func (p *parser) emitValue() {
	if len(p.vals) == 0 {
		p.fail(ErrInvalid)
		return
	}
	v := p.vals[len(p.vals)-1]

	p.emitOp(v.kind)
	switch v.kind {
	case valByte, valClass:
		p.emitOp(v.b)
	default:
		p.emitWord(uint64(len(v.bytes)))
		if err := p.code.AppendBytes(v.bytes); err != nil {
			p.fail(err)
		}
	}
}

// emitMatch wraps the most recent value in a quantified MATCH.
func (p *parser) emitMatch(min, max uint64) {
	p.emitOp(opMatch)
	p.emitWord(min)
	p.emitWord(max)
	p.emitValue()
}

func (p *parser) pushValue(v value) {
	p.vals = append(p.vals, v)
}

func (p *parser) openGroup(id int) {
	if p.top == parserDepth {
		p.fail(ErrNoMemory)
		return
	}

	start := p.code.Len()
	p.emitOp(opCaptureStart)
	p.emitWord(uint64(id))
	p.emitOp(opBranch) // alternation marker
	marker := p.code.Len()
	p.emitWord(0)

	p.groups[p.top] = groupFrame{capture: id, pending: marker, start: start}
	p.top++
}

// alternate terminates the current alternative: the pending chain node is
// patched to this spot, where the alternative's closing branch goes.
func (p *parser) alternate() {
	if p.top == 0 {
		p.fail(ErrInvalid)
		return
	}
	g := &p.groups[p.top-1]
	p.patchWord(g.pending, uint64(p.code.Len()-g.pending))

	p.emitOp(opBranch)
	g.pending = p.code.Len()
	p.emitWord(0)
}

// closeGroup patches the final chain node at the CAPTURE_END and handles a
// trailing quantifier. ? and * append an empty alternative; * and + add a
// backward loop edge.
func (p *parser) closeGroup() {
	p.top--
	g := p.groups[p.top]

	var optional, looped bool
	switch p.peek(0) {
	case '?':
		optional = true
		p.pos++
	case '*':
		optional, looped = true, true
		p.pos++
	case '+':
		looped = true
		p.pos++
	case '{':
		p.fail(ErrNotImplemented) // brace quantifiers cover atoms only
		return
	}
	if p.peek(0) == '?' {
		p.fail(ErrNotImplemented) // non-greedy
		return
	}

	pending := g.pending
	if optional {
		// One more chain node whose alternative is empty.
		p.patchWord(pending, uint64(p.code.Len()-pending))
		p.emitOp(opBranch)
		pending = p.code.Len()
		p.emitWord(0)
	}

	p.patchWord(pending, uint64(p.code.Len()-pending))
	p.emitOp(opCaptureEnd)
	p.emitWord(uint64(g.capture))

	if looped {
		p.emitOp(opBranch)
		at := p.code.Len()
		p.emitWord(uint64(int64(g.start - at)))
	}
}

// quantifier parses the optional postfix after an atom and emits its
// MATCH. The value record to repeat is the most recently pushed one.
func (p *parser) quantifier() {
	min, max := uint64(1), uint64(1)

	switch p.peek(0) {
	case '?':
		min, max = 0, 1
		p.pos++
	case '*':
		min, max = 0, repeatUnbounded
		p.pos++
	case '+':
		min, max = 1, repeatUnbounded
		p.pos++
	case '{':
		p.pos++
		var ok bool
		min, max, ok = p.braces()
		if !ok {
			p.fail(ErrInvalid)
			return
		}
	}
	if p.peek(0) == '?' {
		p.fail(ErrNotImplemented) // ?? *? +? are not supported
		return
	}

	p.emitMatch(min, max)
}

// braces parses {n}, {n,} and {n,m} with the opening brace consumed.
func (p *parser) braces() (min, max uint64, ok bool) {
	digits := 0
	for c := p.peek(0); c >= '0' && c <= '9'; c = p.peek(0) {
		min = min*10 + uint64(c-'0')
		digits++
		p.pos++
	}
	if digits == 0 {
		return 0, 0, false
	}

	switch p.peek(0) {
	case '}':
		p.pos++
		return min, min, true
	case ',':
		p.pos++
	default:
		return 0, 0, false
	}

	if p.peek(0) == '}' {
		p.pos++
		return min, repeatUnbounded, true
	}
	digits = 0
	for c := p.peek(0); c >= '0' && c <= '9'; c = p.peek(0) {
		max = max*10 + uint64(c-'0')
		digits++
		p.pos++
	}
	if digits == 0 || max < min || p.peek(0) != '}' {
		return 0, 0, false
	}
	p.pos++
	return min, max, true
}

func isMeta(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')', '^', '$', '.', '|', '*', '+', '?', '\\':
		return true
	}
	return false
}

func isClassEscape(c byte) bool {
	switch c {
	case 'd', 's', 'w', 'D', 'S', 'W':
		return true
	}
	return false
}

func (p *parser) escape() {
	c := p.peek(0)
	p.pos++

	switch c {
	case 't':
		p.pushValue(value{kind: valByte, b: '\t'})
	case 'n':
		p.pushValue(value{kind: valByte, b: '\n'})
	case 'r':
		p.pushValue(value{kind: valByte, b: '\r'})
	case 'f':
		p.pushValue(value{kind: valByte, b: '\f'})
	case 'v':
		p.pushValue(value{kind: valByte, b: '\v'})
	case 'b', 'B':
		p.fail(ErrNotImplemented) // word boundaries
		return
	default:
		switch {
		case isMeta(c):
			p.pushValue(value{kind: valByte, b: c})
		case isClassEscape(c):
			p.pushValue(value{kind: valClass, b: c})
		default:
			p.fail(ErrInvalid)
			return
		}
	}
	p.quantifier()
}

func (p *parser) set() {
	kind := byte(valSet)
	if p.peek(0) == '^' {
		kind = valNegSet
		p.pos++
	}

	start := p.pos
	for p.pos < len(p.src) {
		if p.src[p.pos] == '\\' {
			p.pos++
		} else if p.src[p.pos] == ']' {
			break
		}
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.fail(ErrInvalid) // unbalanced bracket
		return
	}

	content := p.src[start:p.pos]
	p.pos++ // the closing bracket
	p.pushValue(value{kind: kind, bytes: content})
	p.quantifier()
}

// utf8Atom consumes a whole multibyte sequence as one atom.
func (p *parser) utf8Atom() {
	start := p.pos
	c := p.src[p.pos]
	size := 1
	switch {
	case c&0xE0 == 0xC0:
		size = 2
	case c&0xF0 == 0xE0:
		size = 3
	case c&0xF8 == 0xF0:
		size = 4
	}
	for size > 1 && p.pos+size > len(p.src) {
		size--
	}
	p.pos += size
	p.pushValue(value{kind: valUtf8, bytes: p.src[start : start+size]})
	p.quantifier()
}

func (p *parser) next() {
	c := p.peek(0)

	switch c {
	case '*', '?', '+', ']', '}':
		p.fail(ErrInvalid) // quantifier with nothing to repeat
	case '{':
		p.fail(ErrInvalid)

	case '(':
		p.pos++
		p.openGroup(p.numCaps)
		p.numCaps++
	case ')':
		p.pos++
		if p.top <= 1 {
			p.fail(ErrInvalid) // closes the implicit group
			return
		}
		p.closeGroup()
	case '|':
		p.pos++
		p.alternate()
	case '\\':
		p.pos++
		p.escape()
	case '[':
		p.pos++
		p.set()
	case '.':
		p.pos++
		p.pushValue(value{kind: valClass, b: '.'})
		p.quantifier()

	default:
		if c&0x80 != 0 {
			p.utf8Atom()
			return
		}
		p.pos++
		p.pushValue(value{kind: valByte, b: c})
		p.quantifier()
	}
}
