package codec

import "fmt"

// encodeRuns writes n values read through at as (run length, value) varint
// pairs.
func encodeRuns(n int, at func(i int) int32) []byte {
	var out []byte
	for i := 0; i < n; {
		v := at(i)
		j := i + 1
		for j < n && at(j) == v {
			j++
		}
		out = AppendVarInt(out, int32(j-i))
		out = AppendVarInt(out, v)
		i = j
	}
	return out
}

// decodeRuns expands runs into exactly n values, calling set for each.
func decodeRuns(data []byte, n int, set func(i int, v int32)) error {
	i := 0
	for len(data) > 0 {
		run, k, err := VarInt(data)
		if err != nil {
			return err
		}
		data = data[k:]
		v, k, err := VarInt(data)
		if err != nil {
			return err
		}
		data = data[k:]
		if run <= 0 || int(run) > n-i {
			return fmt.Errorf("%w: run of %d at %d overflows %d values", ErrCorrupt, run, i, n)
		}
		for range run {
			set(i, v)
			i++
		}
	}
	if i != n {
		return fmt.Errorf("%w: runs cover %d of %d values", ErrCorrupt, i, n)
	}
	return nil
}
