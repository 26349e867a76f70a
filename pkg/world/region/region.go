// Package region stores encoded chunks in region files.
//
// A region file holds the 32x32 chunk columns of one chunk-Y layer. The
// file starts with a location table and a timestamp table, one 4 KiB
// sector each, followed by chunk payloads padded to whole sectors. Each
// payload is a 4 byte big-endian length, a compression type byte and the
// compressed chunk bytes.
package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// Size is the number of chunk columns along each horizontal side of a
// region.
const Size = 32

const (
	sectorSize    = 4096
	headerSectors = 2 // location table + timestamp table
	maxSectors    = 255
)

// Compression identifies the payload compression of a stored chunk.
type Compression byte

const (
	Zlib Compression = 2
	Zstd Compression = 4
)

func (c Compression) String() string {
	switch c {
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", byte(c))
	}
}

// ParseCompression maps a configuration name to a compression type.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "zlib":
		return Zlib, nil
	case "zstd", "":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("unknown region compression %q", name)
	}
}

var (
	// ErrNoChunk is returned when a region holds no data for a chunk.
	ErrNoChunk = errors.New("chunk not stored in region")
	// ErrCorrupt is returned for malformed region files.
	ErrCorrupt = errors.New("corrupt region file")
)

var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

// RegionPos returns the region holding a chunk. Y is the chunk layer.
func RegionPos(chunkPos geom.Vec3i) geom.Vec3i {
	return geom.Vec3i{X: geom.FloorDiv(chunkPos.X, Size), Y: chunkPos.Y, Z: geom.FloorDiv(chunkPos.Z, Size)}
}

// FileName returns the file name of a region.
func FileName(rp geom.Vec3i) string {
	return fmt.Sprintf("r.%d.%d.%d.rgn", rp.X, rp.Y, rp.Z)
}

func columnIndex(chunkPos geom.Vec3i) int {
	return geom.FloorMod(chunkPos.X, Size) + geom.FloorMod(chunkPos.Z, Size)*Size
}

func chunkAt(rp geom.Vec3i, idx int) geom.Vec3i {
	return geom.Vec3i{X: rp.X*Size + idx%Size, Y: rp.Y, Z: rp.Z*Size + idx/Size}
}

func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case Zstd:
		enc, err := zstdEncoder()
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		return enc.EncodeAll(data, nil), nil
	case Zlib:
		var cbuf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&cbuf, zlib.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("create zlib writer: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("close zlib writer: %w", err)
		}
		return cbuf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported compression %v", c)
	}
}

func decompress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case Zstd:
		dec, err := zstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		return out, nil
	case Zlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %w", ErrCorrupt, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %w", ErrCorrupt, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compression type %d", ErrCorrupt, byte(c))
	}
}

// SaveRegion writes the given chunks to the region file rp, replacing the
// file. Every chunk must belong to rp.
func SaveRegion(dir string, rp geom.Vec3i, chunks map[geom.Vec3i][]byte, c Compression) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create region dir: %w", err)
	}

	type chunkEntry struct {
		index      int
		compressed []byte
	}
	entries := make([]chunkEntry, 0, len(chunks))

	for pos, data := range chunks {
		if RegionPos(pos) != rp {
			return fmt.Errorf("chunk %v is not in region %v", pos, rp)
		}
		compressed, err := compress(c, data)
		if err != nil {
			return fmt.Errorf("compress chunk %v: %w", pos, err)
		}
		entries = append(entries, chunkEntry{index: columnIndex(pos), compressed: compressed})
	}
	slices.SortFunc(entries, func(a, b chunkEntry) int { return a.index - b.index })

	locations := make([]byte, sectorSize)
	timestamps := make([]byte, sectorSize)
	now := uint32(time.Now().Unix())

	var dataBuf bytes.Buffer
	currentSector := uint32(headerSectors)

	for _, e := range entries {
		payloadLen := uint32(len(e.compressed)) + 1 // +1 for compression byte
		totalLen := 4 + payloadLen
		sectorCount := (totalLen + sectorSize - 1) / sectorSize
		if sectorCount > maxSectors {
			return fmt.Errorf("chunk %v: %d bytes exceeds region sector limit",
				chunkAt(rp, e.index), len(e.compressed))
		}

		// Location entry: (offset << 8) | sectorCount
		off := e.index * 4
		binary.BigEndian.PutUint32(locations[off:off+4], (currentSector<<8)|sectorCount)
		binary.BigEndian.PutUint32(timestamps[off:off+4], now)

		var header [5]byte
		binary.BigEndian.PutUint32(header[0:4], payloadLen)
		header[4] = byte(c)
		dataBuf.Write(header[:])
		dataBuf.Write(e.compressed)

		if pad := int(sectorCount)*sectorSize - int(totalLen); pad > 0 {
			dataBuf.Write(make([]byte, pad))
		}

		currentSector += sectorCount
	}

	path := filepath.Join(dir, FileName(rp))
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp region file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	if _, err := f.Write(locations); err != nil {
		return fmt.Errorf("write locations: %w", err)
	}
	if _, err := f.Write(timestamps); err != nil {
		return fmt.Errorf("write timestamps: %w", err)
	}
	if _, err := f.Write(dataBuf.Bytes()); err != nil {
		return fmt.Errorf("write chunk data: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close region file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename region file: %w", err)
	}

	return nil
}

// file is a parsed region file held in memory.
type file struct {
	pos  geom.Vec3i
	data []byte
}

func readFile(dir string, rp geom.Vec3i) (*file, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName(rp)))
	if err != nil {
		return nil, err
	}
	if len(data) < headerSectors*sectorSize {
		return nil, fmt.Errorf("%w: %s: short header", ErrCorrupt, FileName(rp))
	}
	return &file{pos: rp, data: data}, nil
}

func (f *file) location(idx int) (offset, count int) {
	loc := binary.BigEndian.Uint32(f.data[idx*4:])
	return int(loc >> 8), int(loc & 0xFF)
}

func (f *file) timestamp(idx int) time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(f.data[sectorSize+idx*4:])), 0)
}

func (f *file) chunk(idx int) ([]byte, error) {
	offset, count := f.location(idx)
	if offset == 0 && count == 0 {
		return nil, ErrNoChunk
	}
	pos := chunkAt(f.pos, idx)
	start := offset * sectorSize
	end := start + count*sectorSize
	if offset < headerSectors || count == 0 || end > len(f.data) {
		return nil, fmt.Errorf("%w: chunk %v: sectors %d+%d out of range", ErrCorrupt, pos, offset, count)
	}
	length := int(binary.BigEndian.Uint32(f.data[start:]))
	if length < 1 || 4+length > count*sectorSize {
		return nil, fmt.Errorf("%w: chunk %v: payload length %d", ErrCorrupt, pos, length)
	}
	c := Compression(f.data[start+4])
	out, err := decompress(c, f.data[start+5:start+4+length])
	if err != nil {
		return nil, fmt.Errorf("chunk %v: %w", pos, err)
	}
	return out, nil
}

// LoadRegion reads every chunk stored in region rp. A missing region file
// yields an empty map.
func LoadRegion(dir string, rp geom.Vec3i) (map[geom.Vec3i][]byte, error) {
	f, err := readFile(dir, rp)
	if errors.Is(err, fs.ErrNotExist) {
		return map[geom.Vec3i][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read region %v: %w", rp, err)
	}
	chunks := make(map[geom.Vec3i][]byte)
	for idx := range Size * Size {
		data, err := f.chunk(idx)
		if errors.Is(err, ErrNoChunk) {
			continue
		}
		if err != nil {
			return nil, err
		}
		chunks[chunkAt(rp, idx)] = data
	}
	return chunks, nil
}

// ReadChunk reads a single chunk and the time it was last written.
func ReadChunk(dir string, pos geom.Vec3i) ([]byte, time.Time, error) {
	rp := RegionPos(pos)
	f, err := readFile(dir, rp)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, ErrNoChunk
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read region %v: %w", rp, err)
	}
	idx := columnIndex(pos)
	data, err := f.chunk(idx)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, f.timestamp(idx), nil
}

// Merge reads region rp, overlays the given chunks and writes it back.
func Merge(dir string, rp geom.Vec3i, chunks map[geom.Vec3i][]byte, c Compression) error {
	existing, err := LoadRegion(dir, rp)
	if err != nil {
		return err
	}
	for pos, data := range chunks {
		existing[pos] = data
	}
	return SaveRegion(dir, rp, existing, c)
}

// Group splits chunks by the region that holds them.
func Group(chunks map[geom.Vec3i][]byte) map[geom.Vec3i]map[geom.Vec3i][]byte {
	out := make(map[geom.Vec3i]map[geom.Vec3i][]byte)
	for pos, data := range chunks {
		rp := RegionPos(pos)
		if out[rp] == nil {
			out[rp] = make(map[geom.Vec3i][]byte)
		}
		out[rp][pos] = data
	}
	return out
}
