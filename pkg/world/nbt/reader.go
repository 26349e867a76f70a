package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	maxDepth = 512
	// maxLen bounds array and list lengths read from untrusted data.
	maxLen = 1 << 24
)

// Reader decodes tags from an io.Reader.
type Reader struct {
	r   *bufio.Reader
	buf [8]byte
}

func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{r: br}
	}
	return &Reader{r: bufio.NewReader(r)}
}

// Decode reads a root compound and returns its name and contents.
func Decode(r io.Reader) (string, Compound, error) {
	return NewReader(r).ReadRoot()
}

// ReadRoot reads one named compound tag.
func (r *Reader) ReadRoot() (string, Compound, error) {
	tag, err := r.u8()
	if err != nil {
		return "", nil, err
	}
	if tag != TagCompound {
		return "", nil, fmt.Errorf("%w: root tag %d is not a compound", ErrInvalidTag, tag)
	}
	name, err := r.str()
	if err != nil {
		return "", nil, err
	}
	v, err := r.payload(TagCompound, 0)
	if err != nil {
		return "", nil, fmt.Errorf("read %q: %w", name, err)
	}
	return name, v.(Compound), nil
}

func (r *Reader) full(n int) ([]byte, error) {
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		return nil, unexpected(err)
	}
	return r.buf[:n], nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (r *Reader) u8() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	return b, nil
}

func (r *Reader) u16() (uint16, error) {
	b, err := r.full(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) u32() (uint32, error) {
	b, err := r.full(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) u64() (uint64, error) {
	b, err := r.full(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) length() (int, error) {
	n, err := r.u32()
	if err != nil {
		return 0, err
	}
	if int32(n) < 0 || n > maxLen {
		return 0, fmt.Errorf("%w: %d", ErrTooLarge, int32(n))
	}
	return int(n), nil
}

func (r *Reader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return "", unexpected(err)
	}
	return string(b), nil
}

func (r *Reader) payload(tag byte, depth int) (any, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	switch tag {
	case TagByte:
		b, err := r.u8()
		return int8(b), unexpected(err)
	case TagShort:
		v, err := r.u16()
		return int16(v), err
	case TagInt:
		v, err := r.u32()
		return int32(v), err
	case TagLong:
		v, err := r.u64()
		return int64(v), err
	case TagFloat:
		v, err := r.u32()
		return math.Float32frombits(v), err
	case TagDouble:
		v, err := r.u64()
		return math.Float64frombits(v), err
	case TagString:
		return r.str()
	case TagByteArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r.r, b); err != nil {
			return nil, unexpected(err)
		}
		return b, nil
	case TagIntArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			v, err := r.u32()
			if err != nil {
				return nil, err
			}
			out[i] = int32(v)
		}
		return out, nil
	case TagLongArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			v, err := r.u64()
			if err != nil {
				return nil, err
			}
			out[i] = int64(v)
		}
		return out, nil
	case TagList:
		elem, err := r.u8()
		if err != nil {
			return nil, unexpected(err)
		}
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		if elem == TagEnd && n > 0 {
			return nil, fmt.Errorf("%w: list of end tags", ErrInvalidTag)
		}
		l := List{Type: elem, Items: make([]any, 0, min(n, 1024))}
		for range n {
			v, err := r.payload(elem, depth+1)
			if err != nil {
				return nil, err
			}
			l.Items = append(l.Items, v)
		}
		return l, nil
	case TagCompound:
		c := Compound{}
		for {
			t, err := r.u8()
			if err != nil {
				return nil, unexpected(err)
			}
			if t == TagEnd {
				return c, nil
			}
			name, err := r.str()
			if err != nil {
				return nil, err
			}
			v, err := r.payload(t, depth+1)
			if err != nil {
				return nil, fmt.Errorf("read %q: %w", name, err)
			}
			c[name] = v
		}
	}
	return nil, fmt.Errorf("%w: type %d", ErrInvalidTag, tag)
}
