package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/codec"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
	"github.com/OCharnyshevich/worldgen/pkg/world/region"
)

// ErrChunkNotFound is returned by ChunkStore.Load for chunks never saved.
var ErrChunkNotFound = errors.New("chunk not found")

// ChunkStore persists generated chunks.
type ChunkStore interface {
	// Load returns the stored chunk at pos or ErrChunkNotFound.
	Load(ctx context.Context, pos geom.Vec3i) (*chunk.Chunk, error)
	// Save stores the given chunks. Callers must not mutate them concurrently.
	Save(ctx context.Context, chunks []*chunk.Chunk) error
	Close() error
}

func encodeAll(ctx context.Context, chunks []*chunk.Chunk) (map[geom.Vec3i][]byte, error) {
	out := make(map[geom.Vec3i][]byte, len(chunks))
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := codec.EncodeChunk(c)
		if err != nil {
			return nil, fmt.Errorf("encode chunk %v: %w", c.Position(), err)
		}
		out[c.Position()] = data
	}
	return out, nil
}

// RegionStore keeps chunks in region files.
type RegionStore struct {
	dir         string
	compression region.Compression
	extra       *chunk.ExtraDataManager
	log         *slog.Logger

	mu sync.Mutex // serializes region file rewrites
}

// NewRegionStore returns a store writing region files to dir.
func NewRegionStore(dir string, c region.Compression, extra *chunk.ExtraDataManager, log *slog.Logger) *RegionStore {
	return &RegionStore{dir: dir, compression: c, extra: extra, log: log}
}

// Load reads the chunk at pos from its region file.
func (s *RegionStore) Load(ctx context.Context, pos geom.Vec3i) (*chunk.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	data, _, err := region.ReadChunk(s.dir, pos)
	s.mu.Unlock()
	if errors.Is(err, region.ErrNoChunk) {
		return nil, ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load chunk %v: %w", pos, err)
	}
	c, err := codec.Decode(data, s.extra)
	if err != nil {
		return nil, fmt.Errorf("decode chunk %v: %w", pos, err)
	}
	return c, nil
}

// Save merges the chunks into their region files.
func (s *RegionStore) Save(ctx context.Context, chunks []*chunk.Chunk) error {
	encoded, err := encodeAll(ctx, chunks)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for rp, group := range region.Group(encoded) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := region.Merge(s.dir, rp, group, s.compression); err != nil {
			return fmt.Errorf("save region %v: %w", rp, err)
		}
		s.log.Debug("saved region", "region", rp, "chunks", len(group), "compression", s.compression)
	}
	return nil
}

func (s *RegionStore) Close() error { return nil }
