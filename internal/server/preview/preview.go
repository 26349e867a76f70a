// Package preview streams generated terrain tiles to websocket clients.
//
// A client sends JSON tile requests; each is answered with the surface
// heights and biomes of a square of facet cells computed at the requested
// scale, without generating any chunk.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

const (
	MaxTileSize = 256
	MaxScale    = 64

	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
	queueSize    = 8
)

// Request asks for the tile at (X, Z) in tile units. A tile has Size x
// Size cells and every cell covers Scale blocks per axis.
type Request struct {
	ID    string `json:"id,omitempty"`
	X     int    `json:"x"`
	Z     int    `json:"z"`
	Size  int    `json:"size"`
	Scale int    `json:"scale"`
}

// Tile answers a Request. Heights and Biomes are row-major by z.
type Tile struct {
	ID      string   `json:"id"`
	X       int      `json:"x"`
	Z       int      `json:"z"`
	Size    int      `json:"size"`
	Scale   int      `json:"scale"`
	Heights []int    `json:"heights,omitempty"`
	Biomes  []string `json:"biomes,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Service computes tiles from a world generator.
type Service struct {
	gen *generation.World
	log *slog.Logger

	upgrader websocket.Upgrader
}

// NewService returns a tile service over gen.
func NewService(gen *generation.World, log *slog.Logger) *Service {
	return &Service{
		gen: gen,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (req *Request) normalize() error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Size == 0 {
		req.Size = 64
	}
	if req.Scale == 0 {
		req.Scale = 1
	}
	if req.Size < 1 || req.Size > MaxTileSize {
		return fmt.Errorf("tile size %d out of range 1..%d", req.Size, MaxTileSize)
	}
	if req.Scale < 1 || req.Scale > MaxScale {
		return fmt.Errorf("scale %d out of range 1..%d", req.Scale, MaxScale)
	}
	return nil
}

// Tile computes the tile for req.
func (s *Service) Tile(req Request) (*Tile, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	origin := geom.Vec3i{X: req.X * req.Size, Z: req.Z * req.Size}
	region := s.gen.Region(geom.RegionFromSize(origin, geom.Vec3i{X: req.Size, Y: 1, Z: req.Size}), float32(req.Scale))

	heights, ok := generation.FacetOf[facets.SurfaceHeightFacet](region, facets.SurfaceHeight)
	if !ok {
		return nil, fmt.Errorf("generator has no %s facet at scale %d", facets.SurfaceHeight, req.Scale)
	}
	biomes, hasBiomes := generation.FacetOf[facets.BiomeFacet](region, facets.Biomes)

	t := &Tile{ID: req.ID, X: req.X, Z: req.Z, Size: req.Size, Scale: req.Scale}
	t.Heights = make([]int, 0, req.Size*req.Size)
	if hasBiomes {
		t.Biomes = make([]string, 0, req.Size*req.Size)
	}
	for z := range req.Size {
		for x := range req.Size {
			t.Heights = append(t.Heights, int(heights.Get(x, z)))
			if hasBiomes {
				t.Biomes = append(t.Biomes, biomes.Get(x, z).String())
			}
		}
	}
	return t, nil
}

// Handler upgrades the connection and serves tile requests until the
// client goes away or ctx ends.
func (s *Service) Handler(ctx context.Context) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Debug("preview upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		out := make(chan *Tile, queueSize)

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
					return
				case t := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteJSON(t); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		s.log.Debug("preview client connected", "remote", r.RemoteAddr)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var req Request
			if err := json.Unmarshal(msg, &req); err != nil {
				s.send(ctx, out, &Tile{Error: fmt.Sprintf("bad request: %v", err)})
				continue
			}
			start := time.Now()
			t, err := s.Tile(req)
			if err != nil {
				t = &Tile{ID: req.ID, X: req.X, Z: req.Z, Size: req.Size, Scale: req.Scale, Error: err.Error()}
			} else {
				s.log.Debug("preview tile", "x", t.X, "z", t.Z, "size", t.Size, "scale", t.Scale, "took", time.Since(start))
			}
			if !s.send(ctx, out, t) {
				break
			}
		}
		s.log.Debug("preview client disconnected", "remote", r.RemoteAddr)
	}
}

func (s *Service) send(ctx context.Context, out chan<- *Tile, t *Tile) bool {
	select {
	case out <- t:
		return true
	case <-ctx.Done():
		return false
	}
}
