package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/worldgen/internal/server/config"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/region"
)

// Storage handles file-based persistence for config, world metadata and
// chunk data.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, "world"),
		filepath.Join(dir, "world", "regions"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the storage root.
func (s *Storage) Dir() string { return s.dir }

// LoadConfig reads config.yaml into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.yaml atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return atomicWrite(filepath.Join(s.dir, "config.yaml"), data)
}

// LoadMeta reads world/meta.json, or returns nil if the world is new.
func (s *Storage) LoadMeta() (*WorldMeta, error) {
	path := filepath.Join(s.dir, "world", "meta.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read world meta: %w", err)
	}

	var m WorldMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse world meta: %w", err)
	}
	return &m, nil
}

// SaveMeta writes world/meta.json atomically.
func (s *Storage) SaveMeta(m *WorldMeta) error {
	path := filepath.Join(s.dir, "world", "meta.json")
	return s.atomicWriteJSON(path, m)
}

// OpenChunkStore opens the chunk store of the given kind ("region" or
// "sqlite") inside the world directory.
func (s *Storage) OpenChunkStore(kind, compression string, extra *chunk.ExtraDataManager) (ChunkStore, error) {
	switch kind {
	case "region", "":
		c, err := region.ParseCompression(compression)
		if err != nil {
			return nil, err
		}
		return NewRegionStore(filepath.Join(s.dir, "world", "regions"), c, extra, s.log), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(s.dir, "world", "chunks.db"), extra, s.log)
	default:
		return nil, fmt.Errorf("unknown chunk store %q", kind)
	}
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func (s *Storage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return atomicWrite(path, append(data, '\n'))
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
