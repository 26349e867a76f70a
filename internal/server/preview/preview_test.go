package preview

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	_ "github.com/OCharnyshevich/worldgen/pkg/world/gen"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/preset"
)

func newService(t *testing.T, name string) *Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := preset.Builtin(name)
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	g, err := p.Build(11, generation.Plugins, log)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return NewService(g, log)
}

func TestTileFlat(t *testing.T) {
	s := newService(t, "flat")
	tile, err := s.Tile(Request{X: -1, Z: 2, Size: 8, Scale: 4})
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if len(tile.Heights) != 64 || len(tile.Biomes) != 64 {
		t.Fatalf("got %d heights and %d biomes, want 64 each", len(tile.Heights), len(tile.Biomes))
	}
	for i, h := range tile.Heights {
		if h != 4 {
			t.Fatalf("height %d = %d, want 4", i, h)
		}
		if tile.Biomes[i] != "plains" {
			t.Fatalf("biome %d = %s, want plains", i, tile.Biomes[i])
		}
	}
	if tile.ID == "" {
		t.Fatal("tile without id")
	}
}

func TestTileDefaultDeterministic(t *testing.T) {
	s := newService(t, "default")
	a, err := s.Tile(Request{ID: "a", X: 3, Z: -2, Size: 16, Scale: 8})
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	b, err := s.Tile(Request{ID: "b", X: 3, Z: -2, Size: 16, Scale: 8})
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	for i := range a.Heights {
		if a.Heights[i] != b.Heights[i] || a.Biomes[i] != b.Biomes[i] {
			t.Fatalf("tiles differ at cell %d", i)
		}
		if a.Heights[i] < 1 {
			t.Fatalf("height %d = %d, want at least 1", i, a.Heights[i])
		}
	}
}

func TestTileRejectsBadRequests(t *testing.T) {
	s := newService(t, "flat")
	for _, req := range []Request{
		{Size: MaxTileSize + 1},
		{Size: -1},
		{Scale: MaxScale * 2},
	} {
		if _, err := s.Tile(req); err == nil {
			t.Errorf("Tile(%+v) succeeded, want error", req)
		}
	}
}

func TestWebsocketPreview(t *testing.T) {
	s := newService(t, "flat")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(s.Handler(ctx))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	if err := conn.WriteJSON(Request{ID: "req-1", X: 0, Z: 0, Size: 4, Scale: 2}); err != nil {
		t.Fatalf("write request: %v", err)
	}
	var tile Tile
	if err := conn.ReadJSON(&tile); err != nil {
		t.Fatalf("read tile: %v", err)
	}
	if tile.ID != "req-1" || tile.Error != "" || len(tile.Heights) != 16 {
		t.Fatalf("unexpected tile %+v", tile)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var bad Tile
	if err := conn.ReadJSON(&bad); err != nil {
		t.Fatalf("read error tile: %v", err)
	}
	if bad.Error == "" {
		t.Fatal("malformed request should produce an error tile")
	}

	if err := conn.WriteJSON(Request{ID: "big", Size: 1000}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var rejected Tile
	if err := conn.ReadJSON(&rejected); err != nil {
		t.Fatalf("read rejected tile: %v", err)
	}
	if rejected.ID != "big" || rejected.Error == "" {
		t.Fatalf("oversized request answered with %+v", rejected)
	}
}
