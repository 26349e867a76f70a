package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/OCharnyshevich/worldgen/internal/server/config"
	"github.com/OCharnyshevich/worldgen/internal/server/preview"
	"github.com/OCharnyshevich/worldgen/internal/server/world"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
)

const updateInterval = 50 * time.Millisecond

// Server runs the chunk provider's update loop and serves the HTTP
// endpoints.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	world   *world.World
	preview *preview.Service
}

// New creates a new Server with the given config, world and logger.
func New(cfg *config.Config, w *world.World, log *slog.Logger) *Server {
	s := &Server{cfg: cfg, log: log, world: w}
	if cfg.Preview {
		s.preview = preview.NewService(w.Provider().Generator(), log)
	}
	return s
}

// Handler returns the HTTP routes. ctx bounds long-lived preview
// connections.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /spawn", s.handleSpawn)
	if s.preview != nil {
		mux.HandleFunc("GET /preview", s.preview.Handler(ctx))
	}
	return mux
}

type health struct {
	Status string `json:"status"`
	Seed   int64  `json:"seed"`
	Loaded int    `json:"loaded_chunks"`
}

func (s *Server) handleHealth(rw http.ResponseWriter, _ *http.Request) {
	p := s.world.Provider()
	writeJSON(rw, http.StatusOK, health{Status: "ok", Seed: p.Generator().Seed(), Loaded: p.Loaded()})
}

func (s *Server) handleSpawn(rw http.ResponseWriter, r *http.Request) {
	pos, err := s.world.SpawnPoint(r.Context())
	if err != nil {
		s.log.Error("spawn point", "error", err)
		writeJSON(rw, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(rw, http.StatusOK, map[string]int{"x": pos.X, "y": pos.Y, "z": pos.Z})
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

// Start begins listening and runs the update loop on the calling goroutine
// until the context is cancelled. Dirty chunks are saved periodically, and
// chunks further than the view distance from spawn are unloaded after each
// save.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{Handler: s.Handler(ctx), ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	s.log.Info("server started",
		"addr", listener.Addr().String(),
		"seed", s.cfg.Seed,
		"preset", s.cfg.Preset,
		"preview", s.cfg.Preview,
	)

	p := s.world.Provider()
	spawn, err := s.world.SpawnPoint(ctx)
	if err != nil {
		srv.Close()
		return fmt.Errorf("locate spawn: %w", err)
	}
	center := chunk.ToChunkPos(spawn)

	update := time.NewTicker(updateInterval)
	defer update.Stop()
	var save <-chan time.Time
	if every := s.cfg.SaveEvery(); every > 0 {
		t := time.NewTicker(every)
		defer t.Stop()
		save = t.C
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.log.Error("http shutdown", "error", err)
			}
			p.Update()
			return nil
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve http: %w", err)
		case <-update.C:
			p.Update()
		case <-save:
			if _, err := p.SaveAll(ctx); err != nil {
				s.log.Error("periodic save", "error", err)
			}
			if s.cfg.ViewDistance > 0 {
				n, err := p.UnloadOutside(ctx, center, s.cfg.ViewDistance)
				if err != nil {
					s.log.Error("unload chunks", "error", err)
				} else if n > 0 {
					s.log.Debug("unloaded chunks", "count", n)
				}
			}
		}
	}
}
