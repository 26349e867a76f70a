package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OCharnyshevich/worldgen/internal/server/config"
	"github.com/OCharnyshevich/worldgen/internal/server/preview"
	"github.com/OCharnyshevich/worldgen/internal/server/world"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/preset"
)

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *world.World) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := preset.Builtin("flat")
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	g, err := p.Build(cfg.Seed, generation.Plugins, log)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	w := world.NewWorld(world.NewProvider(g, world.Options{Workers: 2}, log))
	return New(cfg, w, log), w
}

func TestHealthz(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 99
	s, w := newTestServer(t, cfg)
	ctx := context.Background()
	if _, err := w.GetBlock(ctx, 0, 0, 0); err != nil {
		t.Fatalf("GetBlock: %v", err)
	}

	srv := httptest.NewServer(s.Handler(ctx))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var h health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "ok" || h.Seed != 99 || h.Loaded != 1 {
		t.Fatalf("health = %+v", h)
	}
}

func TestSpawnEndpoint(t *testing.T) {
	s, _ := newTestServer(t, config.DefaultConfig())
	srv := httptest.NewServer(s.Handler(context.Background()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/spawn")
	if err != nil {
		t.Fatalf("GET /spawn: %v", err)
	}
	defer resp.Body.Close()
	var pos map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&pos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pos["y"] != 5 {
		t.Fatalf("spawn = %v, want y 5 on the flat world", pos)
	}
}

func TestPreviewRoute(t *testing.T) {
	s, _ := newTestServer(t, config.DefaultConfig())
	srv := httptest.NewServer(s.Handler(context.Background()))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/preview", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	if err := conn.WriteJSON(preview.Request{ID: "t", Size: 2, Scale: 16}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var tile preview.Tile
	if err := conn.ReadJSON(&tile); err != nil {
		t.Fatalf("read: %v", err)
	}
	if tile.Error != "" || len(tile.Heights) != 4 {
		t.Fatalf("tile = %+v", tile)
	}
}

func TestPreviewDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Preview = false
	s, _ := newTestServer(t, cfg)
	srv := httptest.NewServer(s.Handler(context.Background()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/preview")
	if err != nil {
		t.Fatalf("GET /preview: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStartStops(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	s, _ := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
