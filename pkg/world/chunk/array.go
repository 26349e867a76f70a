package chunk

// dense is a per-block array that collapses to a single fill value when
// every entry is equal.
type dense[T uint8 | uint16] struct {
	data []T
	fill T
}

func (a *dense[T]) get(i int) T {
	if a.data == nil {
		return a.fill
	}
	return a.data[i]
}

func (a *dense[T]) set(i int, v T) T {
	if a.data == nil {
		if v == a.fill {
			return v
		}
		a.inflate()
	}
	old := a.data[i]
	a.data[i] = v
	return old
}

func (a *dense[T]) inflate() {
	a.data = make([]T, Volume)
	if a.fill != 0 {
		for i := range a.data {
			a.data[i] = a.fill
		}
	}
}

// deflate collapses a uniform array. It reports whether it did.
func (a *dense[T]) deflate() bool {
	if a.data == nil {
		return false
	}
	v := a.data[0]
	for _, x := range a.data[1:] {
		if x != v {
			return false
		}
	}
	a.data = nil
	a.fill = v
	return true
}

func (a *dense[T]) clone() dense[T] {
	c := dense[T]{fill: a.fill}
	if a.data != nil {
		c.data = make([]T, len(a.data))
		copy(c.data, a.data)
	}
	return c
}

func (a *dense[T]) bytes(width int) int {
	if a.data == nil {
		return width
	}
	return len(a.data) * width
}

// packed stores values of 4, 8 or 16 bits. A nil backing slice means all zero.
type packed struct {
	bits int
	data []byte
}

func newPacked(bits int) packed {
	return packed{bits: bits}
}

func (p *packed) size() int {
	return Volume * p.bits / 8
}

func (p *packed) get(i int) int {
	if p.data == nil {
		return 0
	}
	switch p.bits {
	case 4:
		b := p.data[i>>1]
		if i&1 == 0 {
			return int(b & 0x0F)
		}
		return int(b >> 4)
	case 8:
		return int(p.data[i])
	default:
		return int(p.data[2*i]) | int(p.data[2*i+1])<<8
	}
}

func (p *packed) set(i, v int) int {
	old := p.get(i)
	if p.data == nil {
		if v == 0 {
			return old
		}
		p.data = make([]byte, p.size())
	}
	switch p.bits {
	case 4:
		b := p.data[i>>1]
		if i&1 == 0 {
			b = b&0xF0 | byte(v&0x0F)
		} else {
			b = b&0x0F | byte(v&0x0F)<<4
		}
		p.data[i>>1] = b
	case 8:
		p.data[i] = byte(v)
	default:
		p.data[2*i] = byte(v)
		p.data[2*i+1] = byte(v >> 8)
	}
	return old
}

func (p *packed) deflate() bool {
	if p.data == nil {
		return false
	}
	for _, b := range p.data {
		if b != 0 {
			return false
		}
	}
	p.data = nil
	return true
}

func (p *packed) clone() packed {
	c := packed{bits: p.bits}
	if p.data != nil {
		c.data = make([]byte, len(p.data))
		copy(c.data, p.data)
	}
	return c
}
