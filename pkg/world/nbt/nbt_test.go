package nbt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestWriteByteLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Byte("test", 42)

	data := buf.Bytes()
	if data[0] != TagByte {
		t.Fatalf("expected tag type %d, got %d", TagByte, data[0])
	}
	nameLen := binary.BigEndian.Uint16(data[1:3])
	if nameLen != 4 {
		t.Fatalf("expected name length 4, got %d", nameLen)
	}
	if string(data[3:7]) != "test" {
		t.Fatalf("expected name 'test', got %q", string(data[3:7]))
	}
	if data[7] != 42 {
		t.Fatalf("expected value 42, got %d", data[7])
	}
}

func TestWriteByteArrayLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.ByteArray("ba", []byte{1, 2, 3})

	data := buf.Bytes()
	// tag(1) + name_len(2) + name(2) = 5, then length(4) + data(3)
	if arrLen := int32(binary.BigEndian.Uint32(data[5:9])); arrLen != 3 {
		t.Fatalf("expected array length 3, got %d", arrLen)
	}
	if !bytes.Equal(data[9:12], []byte{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", data[9:12])
	}
}

func TestStreamedCompoundDecodes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.BeginCompound("root")
	w.Int("x", -12345)
	w.Long("seed", 1<<40)
	w.String("name", "stone")
	w.BeginList("extra", TagCompound, 2)
	w.Elem(Compound{"Bits": int8(4)})
	w.Elem(Compound{"Bits": int8(8)})
	w.BeginCompound("nested")
	w.Short("s", 7)
	w.EndCompound()
	w.EndCompound()
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	name, c, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if name != "root" {
		t.Errorf("name = %q, want root", name)
	}
	if v, _ := c.Int("x"); v != -12345 {
		t.Errorf("x = %d", v)
	}
	if v, _ := c.Long("seed"); v != 1<<40 {
		t.Errorf("seed = %d", v)
	}
	if v, _ := c.String("name"); v != "stone" {
		t.Errorf("name = %q", v)
	}
	l, ok := c.List("extra")
	if !ok || l.Type != TagCompound || len(l.Items) != 2 {
		t.Fatalf("extra = %+v", l)
	}
	if b, _ := l.Items[1].(Compound).Byte("Bits"); b != 8 {
		t.Errorf("extra[1].Bits = %d, want 8", b)
	}
	nested, _ := c.Compound("nested")
	if nested["s"] != int16(7) {
		t.Errorf("nested.s = %v", nested["s"])
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in := Compound{
		"b":  int8(-1),
		"f":  float32(1.5),
		"d":  2.25,
		"ba": []byte{9, 8, 7},
		"ia": []int32{1, -2, 3},
		"la": []int64{1 << 50, -4},
		"l":  List{Type: TagString, Items: []any{"a", "b"}},
		"c":  Compound{"inner": int32(5)},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, "chunk", in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	name, out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if name != "chunk" {
		t.Errorf("name = %q", name)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", out, in)
	}
}

func TestEncodeRejectsUnsupportedValues(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, "", Compound{"x": 3}); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("int value: err = %v, want ErrInvalidTag", err)
	}
	buf.Reset()
	if err := Encode(&buf, "", Compound{"l": List{Type: TagInt, Items: []any{"s"}}}); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("mixed list: err = %v, want ErrInvalidTag", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.BeginCompound("")
	w.ByteArray("a", make([]byte, 16))
	w.EndCompound()
	full := buf.Bytes()

	if _, _, err := Decode(bytes.NewReader(full[:len(full)-5])); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated: err = %v, want ErrUnexpectedEOF", err)
	}
	if _, _, err := Decode(bytes.NewReader([]byte{TagInt, 0, 0, 0, 0, 0, 1})); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("non-compound root: err = %v, want ErrInvalidTag", err)
	}
	huge := []byte{TagCompound, 0, 0, TagByteArray, 0, 1, 'a', 0x7f, 0xff, 0xff, 0xff}
	if _, _, err := Decode(bytes.NewReader(huge)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("huge array: err = %v, want ErrTooLarge", err)
	}
	bad := []byte{TagCompound, 0, 0, 42, 0, 0}
	if _, _, err := Decode(bytes.NewReader(bad)); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("unknown tag: err = %v, want ErrInvalidTag", err)
	}
}
