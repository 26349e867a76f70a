// Package nbt reads and writes the named binary tag format used for chunk
// payloads: big-endian, named tags, compounds closed by an End tag.
package nbt

import "errors"

// Tag type IDs.
const (
	TagEnd       byte = 0
	TagByte      byte = 1
	TagShort     byte = 2
	TagInt       byte = 3
	TagLong      byte = 4
	TagFloat     byte = 5
	TagDouble    byte = 6
	TagByteArray byte = 7
	TagString    byte = 8
	TagList      byte = 9
	TagCompound  byte = 10
	TagIntArray  byte = 11
	TagLongArray byte = 12
)

var (
	ErrInvalidTag = errors.New("nbt: invalid tag")
	ErrTooDeep    = errors.New("nbt: nesting too deep")
	ErrTooLarge   = errors.New("nbt: length too large")
)

// Compound is a decoded compound tag. Values are int8, int16, int32, int64,
// float32, float64, []byte, string, List, Compound, []int32 or []int64.
type Compound map[string]any

// List is a decoded list tag.
type List struct {
	Type  byte
	Items []any
}

func (c Compound) Byte(name string) (int8, bool) {
	v, ok := c[name].(int8)
	return v, ok
}

func (c Compound) Int(name string) (int32, bool) {
	v, ok := c[name].(int32)
	return v, ok
}

func (c Compound) Long(name string) (int64, bool) {
	v, ok := c[name].(int64)
	return v, ok
}

func (c Compound) String(name string) (string, bool) {
	v, ok := c[name].(string)
	return v, ok
}

func (c Compound) Bytes(name string) ([]byte, bool) {
	v, ok := c[name].([]byte)
	return v, ok
}

func (c Compound) Compound(name string) (Compound, bool) {
	v, ok := c[name].(Compound)
	return v, ok
}

func (c Compound) List(name string) (List, bool) {
	v, ok := c[name].(List)
	return v, ok
}

// tagOf returns the tag type of a value, or TagEnd for unsupported types.
func tagOf(v any) byte {
	switch v.(type) {
	case int8:
		return TagByte
	case int16:
		return TagShort
	case int32:
		return TagInt
	case int64:
		return TagLong
	case float32:
		return TagFloat
	case float64:
		return TagDouble
	case []byte:
		return TagByteArray
	case string:
		return TagString
	case List:
		return TagList
	case Compound:
		return TagCompound
	case []int32:
		return TagIntArray
	case []int64:
		return TagLongArray
	}
	return TagEnd
}
