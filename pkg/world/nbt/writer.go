package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// Writer streams tags to an io.Writer. Write methods record the first
// error; check Err when done.
type Writer struct {
	w   io.Writer
	err error
	buf [8]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered during writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(data []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

func (w *Writer) u8(v byte) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

func (w *Writer) u16(v uint16) {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

func (w *Writer) u32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *Writer) u64(v uint64) {
	binary.BigEndian.PutUint64(w.buf[:8], v)
	w.write(w.buf[:8])
}

func (w *Writer) str(s string) {
	if len(s) > math.MaxUint16 {
		w.fail(fmt.Errorf("%w: string of %d bytes", ErrTooLarge, len(s)))
		return
	}
	w.u16(uint16(len(s)))
	w.write([]byte(s))
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) header(tag byte, name string) {
	w.u8(tag)
	w.str(name)
}

// BeginCompound opens a named compound. Close it with EndCompound.
func (w *Writer) BeginCompound(name string) { w.header(TagCompound, name) }

func (w *Writer) EndCompound() { w.u8(TagEnd) }

// BeginList opens a named list of count elements of type elem. Write each
// element with Elem.
func (w *Writer) BeginList(name string, elem byte, count int) {
	w.header(TagList, name)
	w.u8(elem)
	w.u32(uint32(count))
}

func (w *Writer) Byte(name string, v int8) {
	w.header(TagByte, name)
	w.u8(byte(v))
}

func (w *Writer) Short(name string, v int16) {
	w.header(TagShort, name)
	w.u16(uint16(v))
}

func (w *Writer) Int(name string, v int32) {
	w.header(TagInt, name)
	w.u32(uint32(v))
}

func (w *Writer) Long(name string, v int64) {
	w.header(TagLong, name)
	w.u64(uint64(v))
}

func (w *Writer) Float(name string, v float32) {
	w.header(TagFloat, name)
	w.u32(math.Float32bits(v))
}

func (w *Writer) Double(name string, v float64) {
	w.header(TagDouble, name)
	w.u64(math.Float64bits(v))
}

func (w *Writer) String(name string, v string) {
	w.header(TagString, name)
	w.str(v)
}

func (w *Writer) ByteArray(name string, v []byte) {
	w.header(TagByteArray, name)
	w.putByteArray(v)
}

func (w *Writer) IntArray(name string, v []int32) {
	w.header(TagIntArray, name)
	w.putIntArray(v)
}

func (w *Writer) LongArray(name string, v []int64) {
	w.header(TagLongArray, name)
	w.putLongArray(v)
}

func (w *Writer) putByteArray(v []byte) {
	w.u32(uint32(len(v)))
	w.write(v)
}

func (w *Writer) putIntArray(v []int32) {
	w.u32(uint32(len(v)))
	for _, x := range v {
		w.u32(uint32(x))
	}
}

func (w *Writer) putLongArray(v []int64) {
	w.u32(uint32(len(v)))
	for _, x := range v {
		w.u64(uint64(x))
	}
}

// Value writes a named tag holding any supported value.
func (w *Writer) Value(name string, v any) {
	tag := tagOf(v)
	if tag == TagEnd {
		w.fail(fmt.Errorf("%w: unsupported value %T for %q", ErrInvalidTag, v, name))
		return
	}
	w.header(tag, name)
	w.payload(v)
}

// Elem writes an unnamed list element.
func (w *Writer) Elem(v any) { w.payload(v) }

func (w *Writer) payload(v any) {
	switch v := v.(type) {
	case int8:
		w.u8(byte(v))
	case int16:
		w.u16(uint16(v))
	case int32:
		w.u32(uint32(v))
	case int64:
		w.u64(uint64(v))
	case float32:
		w.u32(math.Float32bits(v))
	case float64:
		w.u64(math.Float64bits(v))
	case []byte:
		w.putByteArray(v)
	case string:
		w.str(v)
	case []int32:
		w.putIntArray(v)
	case []int64:
		w.putLongArray(v)
	case List:
		w.u8(v.Type)
		w.u32(uint32(len(v.Items)))
		for _, item := range v.Items {
			if tagOf(item) != v.Type {
				w.fail(fmt.Errorf("%w: list of type %d holds %T", ErrInvalidTag, v.Type, item))
				return
			}
			w.payload(item)
		}
	case Compound:
		// Sorted for stable output.
		names := make([]string, 0, len(v))
		for n := range v {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			w.Value(n, v[n])
		}
		w.u8(TagEnd)
	}
}

// Encode writes c as a root compound named name.
func Encode(out io.Writer, name string, c Compound) error {
	w := NewWriter(out)
	w.Value(name, c)
	return w.Err()
}
