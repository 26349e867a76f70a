package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OCharnyshevich/worldgen/internal/server"
	"github.com/OCharnyshevich/worldgen/internal/server/config"
	"github.com/OCharnyshevich/worldgen/internal/server/storage"
	"github.com/OCharnyshevich/worldgen/internal/server/world"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/preset"
)

func main() {
	cfg := config.DefaultConfig()

	dataDir := flag.String("data", "./data", "world data directory")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "http listen address")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed, random for a new world when 0")
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "builtin world preset")
	flag.StringVar(&cfg.PresetFile, "preset-file", cfg.PresetFile, "preset YAML file, overrides -preset")
	flag.IntVar(&cfg.ViewDistance, "view-distance", cfg.ViewDistance, "chunk columns kept loaded around spawn")
	flag.IntVar(&cfg.PregenRadius, "pregen-radius", cfg.PregenRadius, "chunk columns generated around spawn at startup")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "chunk generation workers")
	flag.StringVar(&cfg.Store, "store", cfg.Store, "chunk store: region or sqlite")
	flag.StringVar(&cfg.Compression, "compression", cfg.Compression, "region compression: zstd or zlib")
	flag.IntVar(&cfg.SaveInterval, "save-interval", cfg.SaveInterval, "seconds between saves, 0 disables")
	flag.BoolVar(&cfg.Preview, "preview", cfg.Preview, "serve the websocket terrain preview")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	st, err := storage.New(*dataDir, log)
	if err != nil {
		log.Error("open storage", "error", err)
		os.Exit(1)
	}
	fromFile := config.DefaultConfig()
	if err := st.LoadConfig(fromFile); err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fromFile, explicit)

	meta, err := st.LoadMeta()
	if err != nil {
		log.Error("load world meta", "error", err)
		os.Exit(1)
	}
	if meta != nil {
		for _, o := range meta.Pin(cfg) {
			log.Warn("existing world keeps its setting", "override", o)
		}
	} else {
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := st.SaveConfig(cfg); err != nil {
			log.Error("save config", "error", err)
			os.Exit(1)
		}
		meta = storage.NewWorldMeta(cfg)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	p, err := loadPreset(cfg)
	if err != nil {
		log.Error("load preset", "error", err)
		os.Exit(1)
	}
	gen, err := p.Build(cfg.Seed, generation.Plugins, log)
	if err != nil {
		log.Error("build world generator", "preset", p.Name, "error", err)
		os.Exit(1)
	}

	store, err := st.OpenChunkStore(cfg.Store, cfg.Compression, nil)
	if err != nil {
		log.Error("open chunk store", "error", err)
		os.Exit(1)
	}
	provider := world.NewProvider(gen, world.Options{
		Workers: cfg.Workers,
		Store:   store,
		OnSpawn: func(e generation.EntityStore) {
			log.Debug("entity spawn", "prefab", e.Prefab, "id", e.ID, "pos", e.Position)
		},
	}, log)
	w := world.NewWorld(provider)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spawn, err := w.SpawnPoint(ctx)
	if err != nil {
		log.Error("locate spawn", "error", err)
		os.Exit(1)
	}
	meta.Spawn = storage.Position{X: spawn.X, Y: spawn.Y, Z: spawn.Z}
	if err := st.SaveMeta(meta); err != nil {
		log.Error("save world meta", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	n, err := provider.PreGenerate(ctx, chunk.ToChunkPos(spawn), cfg.PregenRadius)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("pregenerate", "error", err)
		os.Exit(1)
	}
	log.Info("world ready", "seed", cfg.Seed, "preset", p.Name, "spawn", spawn, "chunks", n, "took", time.Since(start))

	srv := server.New(cfg, w, log)
	runErr := srv.Start(ctx)

	saveCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()
	saved, err := provider.SaveAll(saveCtx)
	if err != nil {
		log.Error("save chunks", "error", err)
	}
	if err := provider.Close(saveCtx); err != nil {
		log.Error("close chunk provider", "error", err)
	}
	meta.SavedAt = time.Now().UTC()
	meta.Chunks = saved
	if err := st.SaveMeta(meta); err != nil {
		log.Error("save world meta", "error", err)
	}

	if runErr != nil {
		log.Error("server error", "error", runErr)
		os.Exit(1)
	}
}

func loadPreset(cfg *config.Config) (*preset.Preset, error) {
	if cfg.PresetFile != "" {
		return preset.Load(cfg.PresetFile)
	}
	return preset.Builtin(cfg.Preset)
}
