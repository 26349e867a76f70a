package codec

import "fmt"

const maxVarIntLen = 5

// AppendVarInt appends value as a little-endian base-128 varint.
func AppendVarInt(buf []byte, value int32) []byte {
	val := uint32(value)
	for {
		b := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if val == 0 {
			return buf
		}
	}
}

// VarInt decodes a varint from the start of buf and returns it with the
// number of bytes read.
func VarInt(buf []byte) (int32, int, error) {
	var result uint32
	for i := 0; i < len(buf); i++ {
		if i == maxVarIntLen {
			return 0, i, fmt.Errorf("%w: varint too long", ErrCorrupt)
		}
		result |= uint32(buf[i]&0x7F) << (7 * i)
		if buf[i]&0x80 == 0 {
			return int32(result), i + 1, nil
		}
	}
	return 0, len(buf), fmt.Errorf("%w: truncated varint", ErrCorrupt)
}

func VarIntSize(value int32) int {
	val := uint32(value)
	size := 0
	for {
		size++
		val >>= 7
		if val == 0 {
			return size
		}
	}
}
