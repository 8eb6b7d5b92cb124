package pstring

import (
	"io"
	"os"
	"strconv"
)

// SeekOrigin selects the reference point of a Seek.
type SeekOrigin int

const (
	SeekSet SeekOrigin = iota
	SeekCur
	SeekEnd
)

// Stream is the eight-operation byte sink/source the printer and the
// serializers write through. Read and Write return the number of bytes
// moved; short counts signal failure to the caller.
type Stream interface {
	Read(p []byte) int
	Write(p []byte) int
	Tell() int64
	Seek(offset int64, origin SeekOrigin) error
	Flush()
	Close()
	Serialize(item any) error
	Deserialize(item any) error
}

func writeAll(s Stream, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if s.Write(b) != len(b) {
		return ErrIO
	}
	return nil
}

// serializeText is the default text-mode serializer shared by the file and
// string streams: integers and floats through strconv, strings as raw
// bytes.
func serializeText(s Stream, item any) error {
	var buf [32]byte
	switch v := item.(type) {
	case int:
		return writeAll(s, strconv.AppendInt(buf[:0], int64(v), 10))
	case int8:
		return writeAll(s, strconv.AppendInt(buf[:0], int64(v), 10))
	case int16:
		return writeAll(s, strconv.AppendInt(buf[:0], int64(v), 10))
	case int32:
		return writeAll(s, strconv.AppendInt(buf[:0], int64(v), 10))
	case int64:
		return writeAll(s, strconv.AppendInt(buf[:0], v, 10))
	case uint:
		return writeAll(s, strconv.AppendUint(buf[:0], uint64(v), 10))
	case uint8:
		return writeAll(s, strconv.AppendUint(buf[:0], uint64(v), 10))
	case uint16:
		return writeAll(s, strconv.AppendUint(buf[:0], uint64(v), 10))
	case uint32:
		return writeAll(s, strconv.AppendUint(buf[:0], uint64(v), 10))
	case uint64:
		return writeAll(s, strconv.AppendUint(buf[:0], v, 10))
	case uintptr:
		return writeAll(s, strconv.AppendUint(buf[:0], uint64(v), 10))
	case float32:
		return writeAll(s, strconv.AppendFloat(buf[:0], float64(v), 'f', 6, 32))
	case float64:
		return writeAll(s, strconv.AppendFloat(buf[:0], v, 'f', 6, 64))
	case string:
		return writeAll(s, []byte(v))
	case []byte:
		return writeAll(s, v)
	case *String:
		if v == nil {
			return ErrInvalid
		}
		return writeAll(s, v.Bytes())
	}
	return ErrInvalid
}

// fileStream wraps an open file handle.
type fileStream struct {
	f *os.File
}

// OpenFile opens the file at path as a stream. The mode string follows the
// stdio convention: "r", "w", "a", each optionally followed by "+".
func OpenFile(path, mode string) (Stream, error) {
	if path == "" {
		return nil, ErrInvalid
	}

	var flag int
	switch mode {
	case "r":
		flag = os.O_RDONLY
	case "r+":
		flag = os.O_RDWR
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "w+":
		flag = os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case "a+":
		flag = os.O_RDWR | os.O_CREATE | os.O_APPEND
	default:
		return nil, ErrInvalid
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, ErrIO
	}
	return &fileStream{f: f}, nil
}

// NewFileStream wraps an already open file. Closing the stream closes the
// file.
func NewFileStream(f *os.File) (Stream, error) {
	if f == nil {
		return nil, ErrInvalid
	}
	return &fileStream{f: f}, nil
}

func (fs *fileStream) Read(p []byte) int {
	n, _ := fs.f.Read(p)
	return n
}

func (fs *fileStream) Write(p []byte) int {
	n, _ := fs.f.Write(p)
	return n
}

func (fs *fileStream) Tell() int64 {
	off, err := fs.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	return off
}

func (fs *fileStream) Seek(offset int64, origin SeekOrigin) error {
	var whence int
	switch origin {
	case SeekSet:
		whence = io.SeekStart
	case SeekCur:
		whence = io.SeekCurrent
	case SeekEnd:
		whence = io.SeekEnd
	default:
		return ErrInvalid
	}
	if _, err := fs.f.Seek(offset, whence); err != nil {
		return ErrIO
	}
	return nil
}

func (fs *fileStream) Flush() { fs.f.Sync() }
func (fs *fileStream) Close() { fs.f.Close() }

func (fs *fileStream) Serialize(item any) error {
	return serializeText(fs, item)
}

func (fs *fileStream) Deserialize(item any) error {
	return ErrNotImplemented
}

// stringStream reads from and writes into an external String through a
// byte cursor. The string is not freed when the stream closes.
type stringStream struct {
	str *String
	cur int
}

// NewStringStream returns a stream over str with the cursor at the end, so
// writes append.
func NewStringStream(str *String) (Stream, error) {
	if str == nil {
		return nil, ErrInvalid
	}
	return &stringStream{str: str, cur: str.Len()}, nil
}

func (ss *stringStream) Read(p []byte) int {
	avail := ss.str.Len() - ss.cur
	if avail <= 0 {
		return 0
	}
	n := copy(p, ss.str.Bytes()[ss.cur:])
	ss.cur += n
	return n
}

func (ss *stringStream) Write(p []byte) int {
	size := len(p)
	if ss.cur+size > ss.str.Cap() {
		if err := ss.str.Reserve(ss.cur + size - ss.str.Len()); err != nil {
			size = ss.str.Cap() - ss.cur
			if size <= 0 {
				return 0
			}
		}
	}

	copy(ss.str.buf()[ss.cur:], p[:size])
	ss.cur += size
	if ss.cur > ss.str.Len() {
		ss.str.setLen(ss.cur)
	}
	return size
}

func (ss *stringStream) Tell() int64 { return int64(ss.cur) }

func (ss *stringStream) Seek(offset int64, origin SeekOrigin) error {
	var pos int64
	switch origin {
	case SeekSet:
		pos = offset
	case SeekCur:
		pos = int64(ss.cur) + offset
	case SeekEnd:
		pos = int64(ss.str.Len()) + offset
	default:
		return ErrInvalid
	}
	if pos < 0 {
		return ErrInvalid
	}

	// Positions past the end reserve capacity; the length only moves when
	// something is written there.
	if n := int(pos); n > ss.str.Len() {
		if err := ss.str.Reserve(n - ss.str.Len()); err != nil {
			return err
		}
	}
	ss.cur = int(pos)
	return nil
}

func (ss *stringStream) Flush() {}
func (ss *stringStream) Close() {}

func (ss *stringStream) Serialize(item any) error {
	return serializeText(ss, item)
}

func (ss *stringStream) Deserialize(item any) error {
	return ErrNotImplemented
}

// VTable is a caller-supplied function table for custom streams. Every
// entry must be non-nil.
type VTable struct {
	Read        func(p []byte) int
	Write       func(p []byte) int
	Tell        func() int64
	Seek        func(offset int64, origin SeekOrigin) error
	Flush       func()
	Close       func()
	Serialize   func(item any) error
	Deserialize func(item any) error
}

// NewStream installs a custom function table as a stream. The table is
// validated once here so the per-call paths never re-check.
func NewStream(vt *VTable) (Stream, error) {
	if vt == nil ||
		vt.Read == nil || vt.Write == nil ||
		vt.Tell == nil || vt.Seek == nil ||
		vt.Flush == nil || vt.Close == nil ||
		vt.Serialize == nil || vt.Deserialize == nil {
		return nil, ErrInvalid
	}
	return &funcStream{vt: *vt}, nil
}

type funcStream struct {
	vt VTable
}

func (f *funcStream) Read(p []byte) int  { return f.vt.Read(p) }
func (f *funcStream) Write(p []byte) int { return f.vt.Write(p) }
func (f *funcStream) Tell() int64        { return f.vt.Tell() }
func (f *funcStream) Seek(offset int64, origin SeekOrigin) error {
	return f.vt.Seek(offset, origin)
}
func (f *funcStream) Flush()                     { f.vt.Flush() }
func (f *funcStream) Close()                     { f.vt.Close() }
func (f *funcStream) Serialize(item any) error   { return f.vt.Serialize(item) }
func (f *funcStream) Deserialize(item any) error { return f.vt.Deserialize(item) }
