package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/worldgen/internal/server/storage"
	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// ErrClosed is returned for requests made after Close.
var ErrClosed = errors.New("chunk provider closed")

// Options configures a Provider.
type Options struct {
	Workers  int                          // generation goroutines, at least 1
	Layers   int                          // chunk layers per column starting at chunk y 0
	Store    storage.ChunkStore           // nil keeps chunks in memory only
	Extra    *chunk.ExtraDataManager      // extra data slots of new chunks
	Registry *block.Registry              // used by the lighting pass
	OnSpawn  func(generation.EntityStore) // receives spawn requests during Update
}

// Provider creates or loads chunks on worker goroutines and hands them to
// the caller's goroutine through Update.
type Provider struct {
	gen     *generation.World
	store   storage.ChunkStore
	extra   *chunk.ExtraDataManager
	light   *lighter
	layers  int
	onSpawn func(generation.EntityStore)
	log     *slog.Logger

	sem      chan struct{}
	entities generation.Buffer

	mu        sync.RWMutex
	chunks    map[geom.Vec3i]*chunk.Chunk
	pending   map[geom.Vec3i]*pendingChunk
	unloading map[geom.Vec3i]*chunk.Chunk // disposed, save in progress
	ready     []*chunk.Chunk
	closed    bool
	wg        sync.WaitGroup
}

type pendingChunk struct {
	done chan struct{}
	c    *chunk.Chunk
	err  error
}

// NewProvider returns a provider generating chunks with gen.
func NewProvider(gen *generation.World, opts Options, log *slog.Logger) *Provider {
	opts.Workers = max(opts.Workers, 1)
	if opts.Layers < 1 {
		opts.Layers = 2
	}
	if opts.Registry == nil {
		opts.Registry = block.DefaultRegistry()
	}
	return &Provider{
		gen:     gen,
		store:   opts.Store,
		extra:   opts.Extra,
		light:   newLighter(opts.Registry),
		layers:  opts.Layers,
		onSpawn: opts.OnSpawn,
		log:     log,
		sem:     make(chan struct{}, opts.Workers),
		chunks:    make(map[geom.Vec3i]*chunk.Chunk),
		pending:   make(map[geom.Vec3i]*pendingChunk),
		unloading: make(map[geom.Vec3i]*chunk.Chunk),
	}
}

// Generator returns the world generator.
func (p *Provider) Generator() *generation.World { return p.gen }

// Layers returns the number of chunk layers per column.
func (p *Provider) Layers() int { return p.layers }

// Chunk returns the chunk at pos if it is loaded and ready, or nil.
func (p *Provider) Chunk(pos geom.Vec3i) *chunk.Chunk {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.chunks[pos]; ok && c.IsReady() {
		return c
	}
	return nil
}

// IsLoaded reports whether the chunk at pos has been created or loaded,
// ready or not.
func (p *Provider) IsLoaded(pos geom.Vec3i) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.chunks[pos]
	return ok
}

// Loaded returns the number of chunks held in memory.
func (p *Provider) Loaded() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.chunks)
}

// Load returns the chunk at pos, loading it from the store or generating
// it if needed. Concurrent calls for one position share a single
// generation. A chunk still being saved by Unload is taken back instead of
// restored. The chunk becomes ready on the next Update.
func (p *Provider) Load(ctx context.Context, pos geom.Vec3i) (*chunk.Chunk, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if c, ok := p.chunks[pos]; ok {
		p.mu.Unlock()
		return c, nil
	}
	if c, ok := p.unloading[pos]; ok {
		p.reactivate(pos, c)
		p.mu.Unlock()
		return c, nil
	}
	if pc, ok := p.pending[pos]; ok {
		p.mu.Unlock()
		return pc.wait(ctx)
	}
	pc := &pendingChunk{done: make(chan struct{})}
	p.pending[pos] = pc
	p.wg.Add(1)
	p.mu.Unlock()

	go p.run(pos, pc)
	return pc.wait(ctx)
}

// reactivate moves a chunk from the unload queue back into the cache.
// p.mu must be held.
func (p *Provider) reactivate(pos geom.Vec3i, c *chunk.Chunk) {
	delete(p.unloading, pos)
	c.PrepareForReactivation()
	p.chunks[pos] = c
	p.ready = append(p.ready, c)
}

// Request schedules pos for creation without waiting for it.
func (p *Provider) Request(pos geom.Vec3i) {
	go func() {
		if _, err := p.Load(context.Background(), pos); err != nil && !errors.Is(err, ErrClosed) {
			p.log.Error("chunk request failed", "chunk", pos, "error", err)
		}
	}()
}

func (pc *pendingChunk) wait(ctx context.Context) (*chunk.Chunk, error) {
	select {
	case <-pc.done:
		return pc.c, pc.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run produces one chunk on a worker slot and publishes it.
func (p *Provider) run(pos geom.Vec3i, pc *pendingChunk) {
	defer p.wg.Done()
	p.sem <- struct{}{}
	c, err := p.createOrLoad(pos)
	<-p.sem

	p.mu.Lock()
	delete(p.pending, pos)
	if err == nil {
		p.chunks[pos] = c
		p.ready = append(p.ready, c)
	}
	p.mu.Unlock()

	pc.c, pc.err = c, err
	close(pc.done)
}

func (p *Provider) createOrLoad(pos geom.Vec3i) (*chunk.Chunk, error) {
	if p.store != nil {
		c, err := p.store.Load(context.Background(), pos)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, storage.ErrChunkNotFound) {
			return nil, fmt.Errorf("restore chunk %v: %w", pos, err)
		}
	}

	start := time.Now()
	c := chunk.New(pos, p.extra)
	p.gen.RasterizeChunk(c, &p.entities)
	p.light.process(c)
	c.Deflate()
	p.log.Debug("generated chunk", "chunk", pos, "took", time.Since(start))
	return c, nil
}

// Update marks chunks finished since the last call ready and hands queued
// spawn requests to the spawn callback. It must be called from the
// goroutine that owns the entity manager. Returns the number of chunks
// made ready.
func (p *Provider) Update() int {
	p.mu.Lock()
	ready := p.ready
	p.ready = nil
	p.mu.Unlock()

	for _, c := range ready {
		if !c.IsDisposed() {
			c.MarkReady()
		}
	}

	for _, e := range p.entities.Drain() {
		if p.onSpawn != nil {
			p.onSpawn(e)
		}
	}
	return len(ready)
}

// Subview returns a view over the chunks in chunkRegion with the given
// offset, or nil if any of them is not ready.
func (p *Provider) Subview(chunkRegion geom.BlockRegion, offset geom.Vec3i) *chunk.View {
	chunks := make([]*chunk.Chunk, 0, chunkRegion.Volume())
	p.mu.RLock()
	for z := chunkRegion.Min.Z; z <= chunkRegion.Max.Z; z++ {
		for y := chunkRegion.Min.Y; y <= chunkRegion.Max.Y; y++ {
			for x := chunkRegion.Min.X; x <= chunkRegion.Max.X; x++ {
				c, ok := p.chunks[geom.Vec3i{X: x, Y: y, Z: z}]
				if !ok || !c.IsReady() {
					p.mu.RUnlock()
					return nil
				}
				chunks = append(chunks, c)
			}
		}
	}
	p.mu.RUnlock()

	v, err := chunk.NewView(chunks, chunkRegion, offset, block.Air)
	if err != nil {
		p.log.Error("build chunk view", "region", chunkRegion, "error", err)
		return nil
	}
	return v
}

// ColumnPositions returns the chunk positions of every layer in the
// columns within radius of center, nearest columns first.
func (p *Provider) ColumnPositions(center geom.Vec3i, radius int) []geom.Vec3i {
	r := p.columnsAround(center, radius)
	r.Max.Y = p.layers - 1
	out := make([]geom.Vec3i, 0, r.Volume())
	r.Each(func(pos geom.Vec3i) { out = append(out, pos) })
	slices.SortStableFunc(out, func(a, b geom.Vec3i) int {
		da := (a.X-center.X)*(a.X-center.X) + (a.Z-center.Z)*(a.Z-center.Z)
		db := (b.X-center.X)*(b.X-center.X) + (b.Z-center.Z)*(b.Z-center.Z)
		return da - db
	})
	return out
}

// PreGenerate loads every chunk of the columns within radius of center
// and returns how many chunks it touched.
func (p *Provider) PreGenerate(ctx context.Context, center geom.Vec3i, radius int) (int, error) {
	positions := p.ColumnPositions(center, radius)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cap(p.sem))
	for _, pos := range positions {
		g.Go(func() error {
			_, err := p.Load(ctx, pos)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("pregenerate: %w", err)
	}
	p.log.Info("pregenerated chunks", "center", center, "radius", radius, "chunks", len(positions))
	return len(positions), nil
}

// Unload saves the chunk at pos if dirty and drops it. Until the save
// completes the chunk stays in the unload queue, where Load finds it. If the
// save fails the chunk goes back into the cache.
func (p *Provider) Unload(ctx context.Context, pos geom.Vec3i) error {
	p.mu.Lock()
	c, ok := p.chunks[pos]
	if ok {
		delete(p.chunks, pos)
		c.Dispose()
		p.unloading[pos] = c
	}
	p.mu.Unlock()
	if !ok {
		return nil
	}

	var err error
	if p.store != nil && c.IsDirty() {
		c.SetDirty(false)
		if err = p.store.Save(ctx, []*chunk.Chunk{c}); err != nil {
			c.SetDirty(true)
			err = fmt.Errorf("unload chunk %v: %w", pos, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unloading[pos] != c {
		// Taken back by Load while saving.
		return err
	}
	if err != nil {
		p.reactivate(pos, c)
		return err
	}
	delete(p.unloading, pos)
	return nil
}

// UnloadOutside unloads every loaded chunk whose column lies further than
// radius from center.
func (p *Provider) UnloadOutside(ctx context.Context, center geom.Vec3i, radius int) (int, error) {
	keep := p.columnsAround(center, radius).Area()
	p.mu.RLock()
	var far []geom.Vec3i
	for pos := range p.chunks {
		if !keep.Contains(pos.X, pos.Z) {
			far = append(far, pos)
		}
	}
	p.mu.RUnlock()

	var errs []error
	for _, pos := range far {
		errs = append(errs, p.Unload(ctx, pos))
	}
	return len(far), errors.Join(errs...)
}

// SaveAll writes every dirty loaded chunk to the store. Dirty flags are
// cleared before encoding, so edits made during the save mark the chunk
// dirty again.
func (p *Provider) SaveAll(ctx context.Context) (int, error) {
	if p.store == nil {
		return 0, nil
	}
	p.mu.RLock()
	var dirty []*chunk.Chunk
	for _, c := range p.chunks {
		if c.IsDirty() {
			dirty = append(dirty, c)
		}
	}
	p.mu.RUnlock()
	if len(dirty) == 0 {
		return 0, nil
	}

	for _, c := range dirty {
		c.SetDirty(false)
	}
	if err := p.store.Save(ctx, dirty); err != nil {
		for _, c := range dirty {
			c.SetDirty(true)
		}
		return 0, fmt.Errorf("save chunks: %w", err)
	}
	p.log.Info("saved chunks", "count", len(dirty))
	return len(dirty), nil
}

// Close waits for running generation, saves dirty chunks and closes the
// store.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	_, err := p.SaveAll(ctx)
	if p.store != nil {
		err = errors.Join(err, p.store.Close())
	}
	return err
}

// columnsAround returns the bottom layer of the columns within radius of
// center.
func (p *Provider) columnsAround(center geom.Vec3i, radius int) geom.BlockRegion {
	return chunk.ChunkRegionAround(geom.Vec3i{X: center.X, Z: center.Z}, geom.Vec3i{X: radius, Z: radius})
}
