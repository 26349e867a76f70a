package codec

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

func TestVarInt(t *testing.T) {
	tests := []struct {
		name  string
		value int32
		size  int
	}{
		{"zero", 0, 1},
		{"127", 127, 1},
		{"128", 128, 2},
		{"25565", 25565, 3},
		{"max", 2147483647, 5},
		{"negative_one", -1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := AppendVarInt(nil, tt.value)
			if len(buf) != tt.size || VarIntSize(tt.value) != tt.size {
				t.Errorf("size = %d / %d, want %d", len(buf), VarIntSize(tt.value), tt.size)
			}
			got, n, err := VarInt(buf)
			if err != nil || n != tt.size || got != tt.value {
				t.Errorf("VarInt = %d, %d, %v; want %d, %d", got, n, err, tt.value, tt.size)
			}
		})
	}

	if _, _, err := VarInt([]byte{0x80, 0x80}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated varint: err = %v", err)
	}
	if _, _, err := VarInt([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("long varint: err = %v", err)
	}
}

func TestRunsRoundTrip(t *testing.T) {
	values := []int32{5, 5, 5, 0, 0, 300, 5}
	data := encodeRuns(len(values), func(i int) int32 { return values[i] })

	got := make([]int32, len(values))
	if err := decodeRuns(data, len(values), func(i int, v int32) { got[i] = v }); err != nil {
		t.Fatalf("decodeRuns: %v", err)
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("value %d = %d, want %d", i, got[i], values[i])
		}
	}

	if err := decodeRuns(data, len(values)+1, func(int, int32) {}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("short runs: err = %v", err)
	}
	if err := decodeRuns(data, len(values)-1, func(int, int32) {}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("overflowing runs: err = %v", err)
	}
}

func extraManager(t *testing.T, reg *block.Registry) *chunk.ExtraDataManager {
	t.Helper()
	m, err := chunk.NewExtraDataManager(reg, []chunk.ExtraField{
		{Name: "moisture", Bits: 4, AppliesTo: func(b block.Block) bool { return b.Name == block.Dirt }},
		{Name: "growth", Bits: 8, AppliesTo: func(b block.Block) bool { return b.Name == block.Grass }},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestChunkRoundTrip(t *testing.T) {
	reg := block.DefaultRegistry()
	extra := extraManager(t, reg)
	c := chunk.New(geom.Vec3i{X: -3, Y: 1, Z: 7}, extra)
	stone := reg.MustID(block.Stone)
	for z := range chunk.SizeZ {
		for x := range chunk.SizeX {
			for y := range 10 {
				c.SetBlock(x, y, z, stone)
			}
			c.SetSunlight(x, 20, z, chunk.MaxSunlight)
		}
	}
	c.SetBlock(4, 40, 9, reg.MustID(block.Glowstone))
	c.SetLight(4, 41, 9, 14)
	c.SetSunlightRegen(1, 2, 3, chunk.MaxSunlightRegen)
	c.SetExtraData(0, 5, 5, 5, 9)
	c.SetExtraData(1, 6, 6, 6, 200)

	data, err := EncodeChunk(c)
	if err != nil {
		t.Fatalf("EncodeChunk: %v", err)
	}
	got, err := Decode(data, extra)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Position() != c.Position() {
		t.Errorf("position = %v, want %v", got.Position(), c.Position())
	}
	if got.IsDirty() {
		t.Error("decoded chunk should not be dirty")
	}
	for z := range chunk.SizeZ {
		for y := range chunk.SizeY {
			for x := range chunk.SizeX {
				if got.Block(x, y, z) != c.Block(x, y, z) ||
					got.Sunlight(x, y, z) != c.Sunlight(x, y, z) ||
					got.SunlightRegen(x, y, z) != c.SunlightRegen(x, y, z) ||
					got.Light(x, y, z) != c.Light(x, y, z) {
					t.Fatalf("cell (%d,%d,%d) differs after round trip", x, y, z)
				}
			}
		}
	}
	if got.ExtraData(0, 5, 5, 5) != 9 || got.ExtraData(1, 6, 6, 6) != 200 {
		t.Errorf("extra data = %d, %d; want 9, 200", got.ExtraData(0, 5, 5, 5), got.ExtraData(1, 6, 6, 6))
	}
}

func TestEncodeDoesNotDisturbChunk(t *testing.T) {
	c := chunk.New(geom.Vec3i{}, nil)
	c.SetBlock(0, 0, 0, 3)
	if _, err := EncodeChunk(c); err != nil {
		t.Fatal(err)
	}
	c.SetBlock(0, 0, 0, 4)
	if c.Block(0, 0, 0) != 4 {
		t.Errorf("block = %d after encode, want 4", c.Block(0, 0, 0))
	}
}

func TestDecodeRejectsCorruptData(t *testing.T) {
	reg := block.DefaultRegistry()
	c := chunk.New(geom.Vec3i{}, extraManager(t, reg))
	data, err := EncodeChunk(c)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Decode(data[:len(data)/2], nil); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated: err = %v, want ErrCorrupt", err)
	}
	if _, err := Decode(data, nil); !errors.Is(err, ErrCorrupt) {
		t.Errorf("slot mismatch: err = %v, want ErrCorrupt", err)
	}
	if _, err := Decode([]byte("not nbt"), nil); !errors.Is(err, ErrCorrupt) {
		t.Errorf("garbage: err = %v, want ErrCorrupt", err)
	}
}
