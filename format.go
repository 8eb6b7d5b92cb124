package pstring

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// streamWriter adapts a Stream to io.Writer for the stdlib formatter.
type streamWriter struct {
	s Stream
}

func (w streamWriter) Write(p []byte) (int, error) {
	n := w.s.Write(p)
	if n != len(p) {
		return n, ErrIO
	}
	return n, nil
}

// Fprintf walks format, copying literal runs and dispatching one directive
// at a time to the stream. Beyond the standard conversions it understands:
//
//	%P        bytes of a *String argument
//	%D        a layout string and a time.Time
//	%?        one argument handed to the stream's Serialize
//	%Ib %Iw %Id %Iq %Im %Ip %IP   signed ints of explicit width
//	%Ub %Uw %Ud %Uq %Um %Up %Us   unsigned ints of explicit width
//
// Directives it does not recognize are forwarded to the stdlib formatter.
func Fprintf(s Stream, format string, args ...any) error {
	if s == nil {
		return ErrInvalid
	}

	rest := format
	for {
		i := strings.IndexByte(rest, '%')
		if i < 0 {
			return writeAll(s, []byte(rest))
		}
		if err := writeAll(s, []byte(rest[:i])); err != nil {
			return err
		}
		rest = rest[i:]

		dir, tail := splitDirective(rest)
		rest = tail

		used, err := formatOne(s, dir, &rest, args)
		if err != nil {
			return err
		}
		args = args[used:]
	}
}

// splitDirective consumes one %-directive from the front of format:
// flags, width, precision, length modifiers and the verb character.
func splitDirective(format string) (dir, rest string) {
	i := 1 // leading '%'
	for i < len(format) {
		switch format[i] {
		case '#', '-', '+', '0', ' ':
			i++
			continue
		}
		break
	}
	dot := false
	for i < len(format) {
		c := format[i]
		if c == '.' {
			if dot {
				break
			}
			dot = true
			i++
			continue
		}
		if (c >= '0' && c <= '9') || c == '*' {
			i++
			continue
		}
		break
	}
	for i < len(format) {
		switch format[i] {
		case 'h', 'l':
			if i+1 < len(format) && format[i+1] == format[i] {
				i++
			}
			i++
			continue
		case 'L', 'z', 'j', 't':
			i++
			continue
		}
		break
	}
	if i < len(format) {
		i++ // the verb
	}
	return format[:i], format[i:]
}

func formatOne(s Stream, dir string, rest *string, args []any) (int, error) {
	if len(dir) < 2 {
		return 0, ErrInvalid
	}

	switch dir[len(dir)-1] {
	case '%':
		return 0, writeAll(s, []byte{'%'})

	case 'P':
		if len(args) == 0 {
			return 0, ErrInvalid
		}
		str, ok := args[0].(*String)
		if !ok || str == nil {
			return 0, ErrInvalid
		}
		return 1, writeAll(s, str.Bytes())

	case 'D':
		if len(args) < 2 {
			return 0, ErrInvalid
		}
		layout, ok := args[0].(string)
		if !ok {
			return 0, ErrInvalid
		}
		when, ok := args[1].(time.Time)
		if !ok {
			return 0, ErrInvalid
		}
		return 2, writeAll(s, when.AppendFormat(nil, layout))

	case '?':
		if len(args) == 0 {
			return 0, ErrInvalid
		}
		return 1, s.Serialize(args[0])

	case 'I':
		if strings.ContainsRune(dir, '*') || len(*rest) == 0 || len(args) == 0 {
			return 0, ErrInvalid
		}
		suffix := (*rest)[0]
		*rest = (*rest)[1:]
		v, err := signedArg(args[0], suffix)
		if err != nil {
			return 0, err
		}
		return 1, forward(s, dir[:len(dir)-1]+"d", v)

	case 'U':
		if strings.ContainsRune(dir, '*') || len(*rest) == 0 || len(args) == 0 {
			return 0, ErrInvalid
		}
		suffix := (*rest)[0]
		*rest = (*rest)[1:]
		v, err := unsignedArg(args[0], suffix)
		if err != nil {
			return 0, err
		}
		return 1, forward(s, dir[:len(dir)-1]+"d", v)

	default:
		n := 1 + strings.Count(dir, "*")
		if len(args) < n {
			return 0, ErrInvalid
		}
		return n, forward(s, dir, args[:n]...)
	}
}

// forward hands a directive the printer does not interpret itself to the
// stdlib formatter, dropping the C length modifiers Go's verbs reject.
func forward(s Stream, dir string, args ...any) error {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case 'h', 'l', 'L', 'z', 'j', 't':
			return -1
		}
		return r
	}, dir[:len(dir)-1])
	if _, err := fmt.Fprintf(streamWriter{s}, "%"+clean[1:]+dir[len(dir)-1:], args...); err != nil {
		return ErrIO
	}
	return nil
}

func signedArg(arg any, suffix byte) (int64, error) {
	var v int64
	switch x := arg.(type) {
	case int:
		v = int64(x)
	case int8:
		v = int64(x)
	case int16:
		v = int64(x)
	case int32:
		v = int64(x)
	case int64:
		v = x
	default:
		return 0, ErrInvalid
	}

	switch suffix {
	case 'b':
		return int64(int8(v)), nil
	case 'w':
		return int64(int16(v)), nil
	case 'd':
		return int64(int32(v)), nil
	case 'q', 'm', 'p', 'P':
		return v, nil
	}
	return 0, ErrInvalid
}

func unsignedArg(arg any, suffix byte) (uint64, error) {
	var v uint64
	switch x := arg.(type) {
	case uint:
		v = uint64(x)
	case uint8:
		v = uint64(x)
	case uint16:
		v = uint64(x)
	case uint32:
		v = uint64(x)
	case uint64:
		v = x
	case uintptr:
		v = uint64(x)
	default:
		return 0, ErrInvalid
	}

	switch suffix {
	case 'b':
		return uint64(uint8(v)), nil
	case 'w':
		return uint64(uint16(v)), nil
	case 'd':
		return uint64(uint32(v)), nil
	case 'q', 'm', 'p', 's':
		return v, nil
	}
	return 0, ErrInvalid
}

// Format appends the formatted output to s through a string stream,
// rolling the length back if any directive fails.
func (s *String) Format(format string, args ...any) error {
	if s == nil {
		return ErrInvalid
	}
	stream, err := NewStringStream(s)
	if err != nil {
		return err
	}

	original := s.Len()
	if err := Fprintf(stream, format, args...); err != nil {
		s.setLen(original)
		return err
	}
	return nil
}

// Ftime appends the calendar time t formatted with layout onto dst.
func Ftime(dst *String, layout string, t time.Time) error {
	if dst == nil || layout == "" {
		return ErrInvalid
	}
	return dst.AppendBytes(t.AppendFormat(nil, layout))
}

// Printf writes formatted output to standard output.
func Printf(format string, args ...any) error {
	stream, err := NewFileStream(os.Stdout)
	if err != nil {
		return err
	}
	return Fprintf(stream, format, args...)
}

// Errorf writes formatted output to standard error.
func Errorf(format string, args ...any) error {
	stream, err := NewFileStream(os.Stderr)
	if err != nil {
		return err
	}
	return Fprintf(stream, format, args...)
}

// Itoa is a small convenience over the strconv formatter used by the text
// serializer, appending the decimal form of v onto dst.
func Itoa(dst *String, v int64) error {
	if dst == nil {
		return ErrInvalid
	}
	var buf [20]byte
	return dst.AppendBytes(strconv.AppendInt(buf[:0], v, 10))
}
