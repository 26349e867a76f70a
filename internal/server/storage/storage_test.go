package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCharnyshevich/worldgen/internal/server/config"
	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestConfigRoundTrip(t *testing.T) {
	s := newStorage(t)

	cfg := config.DefaultConfig()
	if err := s.LoadConfig(cfg); err != nil {
		t.Fatalf("LoadConfig without file: %v", err)
	}
	if *cfg != *config.DefaultConfig() {
		t.Fatal("missing config file changed the config")
	}

	cfg.Seed = 1234
	cfg.Store = "sqlite"
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded := config.DefaultConfig()
	if err := s.LoadConfig(loaded); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *loaded != *cfg {
		t.Fatalf("loaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	s := newStorage(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), "config.yaml"), []byte("seed: 99\npreset: flat\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	if err := s.LoadConfig(cfg); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Seed != 99 || cfg.Preset != "flat" {
		t.Fatalf("got seed=%d preset=%q", cfg.Seed, cfg.Preset)
	}
	if cfg.Workers != config.DefaultConfig().Workers {
		t.Fatalf("unset field lost its default: workers=%d", cfg.Workers)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	s := newStorage(t)
	m, err := s.LoadMeta()
	if err != nil || m != nil {
		t.Fatalf("LoadMeta on new world = %v, %v", m, err)
	}

	want := &WorldMeta{
		Seed:      5,
		Preset:    "default",
		Store:     "region",
		Spawn:     Position{X: 1, Y: 40, Z: -3},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Chunks:    12,
	}
	if err := s.SaveMeta(want); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	got, err := s.LoadMeta()
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if got.Seed != want.Seed || got.Spawn != want.Spawn || !got.CreatedAt.Equal(want.CreatedAt) || got.Chunks != 12 {
		t.Fatalf("meta = %+v, want %+v", got, want)
	}
}

func sampleChunk(pos geom.Vec3i) *chunk.Chunk {
	reg := block.DefaultRegistry()
	c := chunk.New(pos, nil)
	for x := range chunk.SizeX {
		for z := range chunk.SizeZ {
			c.SetBlock(x, 0, z, reg.MustID(block.Bedrock))
			c.SetSunlight(x, chunk.SizeY-1, z, chunk.MaxSunlight)
		}
	}
	c.SetBlock(3, 5, 7, reg.MustID(block.Dirt))
	c.SetLight(3, 6, 7, 9)
	return c
}

func checkChunk(t *testing.T, got *chunk.Chunk, pos geom.Vec3i) {
	t.Helper()
	reg := block.DefaultRegistry()
	if got.Position() != pos {
		t.Fatalf("position = %v, want %v", got.Position(), pos)
	}
	if got.Block(3, 5, 7) != reg.MustID(block.Dirt) || got.Block(31, 0, 31) != reg.MustID(block.Bedrock) {
		t.Fatal("blocks lost in storage")
	}
	if got.Light(3, 6, 7) != 9 || got.Sunlight(0, chunk.SizeY-1, 0) != chunk.MaxSunlight {
		t.Fatal("light lost in storage")
	}
	if got.IsDirty() {
		t.Fatal("loaded chunk should not be dirty")
	}
}

func testChunkStore(t *testing.T, store ChunkStore) {
	ctx := context.Background()
	positions := []geom.Vec3i{{X: 0, Y: 0, Z: 0}, {X: -1, Y: 1, Z: 40}, {X: 33, Y: 0, Z: -2}}

	if _, err := store.Load(ctx, positions[0]); !errors.Is(err, ErrChunkNotFound) {
		t.Fatalf("Load before save: expected ErrChunkNotFound, got %v", err)
	}

	var chunks []*chunk.Chunk
	for _, p := range positions {
		chunks = append(chunks, sampleChunk(p))
	}
	if err := store.Save(ctx, chunks); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for _, p := range positions {
		got, err := store.Load(ctx, p)
		if err != nil {
			t.Fatalf("Load(%v): %v", p, err)
		}
		checkChunk(t, got, p)
	}

	// Saving again overwrites without losing neighbours.
	updated := sampleChunk(positions[0])
	updated.SetBlock(1, 1, 1, block.DefaultRegistry().MustID(block.Stone))
	if err := store.Save(ctx, []*chunk.Chunk{updated}); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	got, err := store.Load(ctx, positions[0])
	if err != nil {
		t.Fatalf("Load updated: %v", err)
	}
	if got.Block(1, 1, 1) != block.DefaultRegistry().MustID(block.Stone) {
		t.Fatal("update not persisted")
	}
	if _, err := store.Load(ctx, positions[1]); err != nil {
		t.Fatalf("neighbour lost after update: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Save(cancelled, chunks); err == nil {
		t.Fatal("Save with cancelled context should fail")
	}
}

func TestWorldMetaPin(t *testing.T) {
	created := config.DefaultConfig()
	created.Seed = 42
	created.Preset = "flat"
	meta := NewWorldMeta(created)

	tests := []struct {
		name     string
		edit     func(*config.Config)
		restored int
	}{
		{"same settings", func(c *config.Config) { c.Seed, c.Preset = 42, "flat" }, 0},
		{"other preset", func(c *config.Config) { c.Seed, c.Preset = 42, "default" }, 1},
		{"other store and seed", func(c *config.Config) { c.Preset, c.Store, c.Seed = "flat", "sqlite", 7 }, 2},
		{"preset file", func(c *config.Config) { c.Seed, c.Preset, c.PresetFile = 42, "flat", "my.yaml" }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.edit(cfg)
			got := meta.Pin(cfg)
			if len(got) != tt.restored {
				t.Errorf("Pin reported %v, want %d overrides", got, tt.restored)
			}
			if cfg.Seed != 42 || cfg.Preset != "flat" || cfg.PresetFile != "" || cfg.Store != "region" {
				t.Errorf("pinned config = seed %d preset %q file %q store %q", cfg.Seed, cfg.Preset, cfg.PresetFile, cfg.Store)
			}
		})
	}

	fromFile := config.DefaultConfig()
	fromFile.PresetFile = "worlds/islands.yaml"
	fileMeta := NewWorldMeta(fromFile)
	cfg := config.DefaultConfig()
	if got := fileMeta.Pin(cfg); len(got) != 1 || cfg.PresetFile != "worlds/islands.yaml" {
		t.Errorf("Pin = %v, preset file %q", got, cfg.PresetFile)
	}
}

func TestRegionStore(t *testing.T) {
	for _, compression := range []string{"zstd", "zlib"} {
		t.Run(compression, func(t *testing.T) {
			s := newStorage(t)
			store, err := s.OpenChunkStore("region", compression, nil)
			if err != nil {
				t.Fatalf("OpenChunkStore: %v", err)
			}
			defer store.Close()
			testChunkStore(t, store)
		})
	}
}

func TestSQLiteStore(t *testing.T) {
	s := newStorage(t)
	store, err := s.OpenChunkStore("sqlite", "", nil)
	if err != nil {
		t.Fatalf("OpenChunkStore: %v", err)
	}
	defer store.Close()
	testChunkStore(t, store)

	n, err := store.(*SQLiteStore).Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.db")
	store, err := OpenSQLite(path, nil, testLogger())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	pos := geom.Vec3i{X: 2, Y: 1, Z: 2}
	if err := store.Save(context.Background(), []*chunk.Chunk{sampleChunk(pos)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = OpenSQLite(path, nil, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	got, err := store.Load(context.Background(), pos)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	checkChunk(t, got, pos)
}

func TestOpenChunkStoreUnknown(t *testing.T) {
	s := newStorage(t)
	if _, err := s.OpenChunkStore("leveldb", "", nil); err == nil {
		t.Fatal("expected error for unknown store")
	}
	if _, err := s.OpenChunkStore("region", "lz4", nil); err == nil {
		t.Fatal("expected error for unknown compression")
	}
}
