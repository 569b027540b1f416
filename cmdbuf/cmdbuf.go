// Package cmdbuf holds the data shapes shared by the placement planner
// (package plan) and the command executor (package exec): the Command
// variants emitted by Phase A, the buffer Phase B drains, and the tile
// cache both phases consult. Keeping these here, rather than in plan or
// exec, avoids an import cycle between the two (spec §3, §4.9-§4.11).
package cmdbuf

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/host"
)

// Kind tags the variant of a Command.
type Kind int

const (
	KindCreateArea Kind = iota
	KindCreateTurf
	KindCreateAtom
)

// Command is one staged placement action (spec §4.9 step 12). Only the
// fields relevant to Kind are meaningful.
type Command struct {
	Kind Kind
	Loc  [3]int

	AreaPrefab ast.Prefab // KindCreateArea
	NewZ       bool       // KindCreateArea

	TurfPrefab   ast.Prefab // KindCreateTurf
	NoChangeturf bool       // KindCreateTurf
	PlaceOnTop   bool       // KindCreateTurf

	AtomPrefab ast.Prefab // KindCreateAtom
}

// ResumeKey identifies a single in-flight CommandBuffer within a document
// (spec §3). Allocation is keyed off a monotonic counter, not the plan's
// contents — two identical plans run twice get two distinct keys, since
// each owns independent execution state (created_areas, known_paths, tile
// cache).
type ResumeKey uint64

// CommandBuffer is the ordered command stream Phase A emits and Phase B
// drains. Execution pops from the tail (spec §5): the buffer is a stack,
// not a queue, and that ordering is load-bearing for the cooperative-yield
// contract, not an implementation accident.
type CommandBuffer struct {
	Commands []Command

	// Execution-local memo tables (spec §4.10), persisted across yields
	// since one buffer's Phase B run may span many ticks.
	CreatedAreas map[string]host.AreaRef
	KnownPaths   map[string]host.PathValue

	Cache *TileCache
}

// NewCommandBuffer wraps commands (already in emission order; Pop will
// drain it tail-first) with fresh, empty memo tables.
func NewCommandBuffer(commands []Command, cache *TileCache) *CommandBuffer {
	return &CommandBuffer{
		Commands:     commands,
		CreatedAreas: make(map[string]host.AreaRef),
		KnownPaths:   make(map[string]host.PathValue),
		Cache:        cache,
	}
}

// Pop removes and returns the last command, LIFO (spec §5). ok is false
// once the buffer is empty.
func (b *CommandBuffer) Pop() (Command, bool) {
	n := len(b.Commands)
	if n == 0 {
		return Command{}, false
	}
	cmd := b.Commands[n-1]
	b.Commands = b.Commands[:n-1]
	return cmd, true
}

// Empty reports whether every command has been popped.
func (b *CommandBuffer) Empty() bool {
	return len(b.Commands) == 0
}

// TileRefCount wraps a host tile reference with a refcount: command
// buffers can outlive a single host tick, while the raw host values they
// cache do not carry their own lifetime management (spec §5).
type TileRefCount struct {
	Ref   host.TileRef
	count atomic.Int32
}

// IncRef increments the reference count and returns the wrapper for
// chaining.
func (t *TileRefCount) IncRef() *TileRefCount {
	t.count.Add(1)
	return t
}

// DecRef decrements the reference count, returning true once it reaches
// zero (the wrapper is no longer referenced by any live command buffer).
func (t *TileRefCount) DecRef() bool {
	return t.count.Add(-1) <= 0
}

// coordKey hashes a tile coordinate down to the cache's bucket key. Coords
// are small and dense, but hashing them keeps lookups independent of the
// triple's own ordering and matches how the rest of the map-loading
// pipeline digests positional data.
func coordKey(coord [3]int) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(coord[0]))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(coord[1]))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(coord[2]))
	return xxhash.Sum64(buf[:])
}

// TileCache maps (x,y,z) to a shared, refcounted tile reference, paired
// with the world-bounds snapshot current when each entry (and the cache as
// a whole) was last refreshed (spec §4.11).
type TileCache struct {
	mu       sync.Mutex
	entries  map[uint64]*TileRefCount
	snapshot host.Bounds
	h        host.Host
}

// NewTileCache creates an empty cache snapshotted at the host's current
// world bounds.
func NewTileCache(h host.Host) (*TileCache, error) {
	maxX, maxY, maxZ, err := h.GetWorldBounds()
	if err != nil {
		return nil, err
	}
	return &TileCache{
		entries:  make(map[uint64]*TileRefCount),
		snapshot: host.Bounds{MaxX: maxX, MaxY: maxY, MaxZ: maxZ},
		h:        h,
	}, nil
}

// SetSnapshot overrides the cache's world-bounds snapshot. Used by the
// planner right after a world expansion, so the cache's notion of current
// bounds matches the just-grown world without an extra host round-trip.
func (c *TileCache) SetSnapshot(b host.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = b
}

// Cache inserts an entry for coord by asking the host to locate the tile,
// incrementing its refcount on behalf of the caller.
func (c *TileCache) Cache(coord [3]int) (*TileRefCount, error) {
	key := coordKey(coord)

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		return entry.IncRef(), nil
	}
	ref, err := c.h.LocateTile(coord[0], coord[1], coord[2])
	if err != nil {
		return nil, err
	}
	entry := &TileRefCount{Ref: ref}
	entry.IncRef()
	c.entries[key] = entry
	return entry, nil
}

// Resolve returns the cached reference for coord, fetching on demand if
// absent (spec §4.11).
func (c *TileCache) Resolve(coord [3]int) (*TileRefCount, error) {
	key := coordKey(coord)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return entry, nil
	}
	c.mu.Unlock()
	return c.Cache(coord)
}

// CheckInvalidate clears the cache if the host's world bounds have changed
// since the last snapshot, then refreshes the snapshot (spec §4.10 step 1,
// §4.11).
func (c *TileCache) CheckInvalidate() error {
	maxX, maxY, maxZ, err := c.h.GetWorldBounds()
	if err != nil {
		return err
	}
	current := host.Bounds{MaxX: maxX, MaxY: maxY, MaxZ: maxZ}

	c.mu.Lock()
	defer c.mu.Unlock()
	if current != c.snapshot {
		c.entries = make(map[uint64]*TileRefCount)
	}
	c.snapshot = current
	return nil
}
