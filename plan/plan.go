// Package plan implements Phase A, the placement planner (spec §4.9): it
// walks a parsed document's blocks against a host world and emits an
// ordered cmdbuf.CommandBuffer, without touching the host world itself.
package plan

import (
	"strings"

	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/cmdbuf"
	"github.com/bapicore/dmm/grid"
	"github.com/bapicore/dmm/host"
	"github.com/bapicore/dmm/parser"
)

// Options mirrors the parameters spec §4.9 lists for Phase A. Offset and
// the bounds are float32 so a caller can pass ±Inf for an unbounded axis.
type Options struct {
	Offset       [3]float32
	CropMap      bool
	NoChangeturf bool
	LowerBounds  [3]float32
	UpperBounds  [3]float32
	PlaceOnTop   bool
	NewZ         bool
}

// Run executes Phase A and returns the command buffer it produced, ready
// for a caller (the root package) to register under a fresh ResumeKey.
// handle.Bounds is updated in place with the placed extent (step 13);
// handle.ParsedBounds must already be populated by the caller.
func Run(h host.Host, w host.Warner, handle *host.Handle, doc *parser.MapDocument, opts Options) (*cmdbuf.CommandBuffer, error) {
	worldMaxX, worldMaxY, worldMaxZ, err := h.GetWorldBounds()
	if err != nil {
		return nil, err
	}
	worldBounds := host.Bounds{MaxX: worldMaxX, MaxY: worldMaxY, MaxZ: worldMaxZ}
	cacheBounds := worldBounds

	if !opts.CropMap {
		maxExtent := host.Bounds{
			MaxX: int(opts.Offset[0]) + handle.ParsedBounds.MaxX - 1,
			MaxY: int(opts.Offset[1]) + handle.ParsedBounds.MaxY - 1,
			MaxZ: int(opts.Offset[2]) + handle.ParsedBounds.MaxZ - 1,
		}
		if exceedsUpperBounds(maxExtent, worldBounds) {
			if err := h.ExpandMap(maxExtent.MaxX, maxExtent.MaxY, maxExtent.MaxZ, opts.NewZ, int(opts.Offset[2])); err != nil {
				return nil, err
			}
			cacheBounds = maxExtent
		}
	}

	cache, err := cmdbuf.NewTileCache(h)
	if err != nil {
		return nil, err
	}
	cache.SetSnapshot(cacheBounds)

	worldTurf, err := h.GetWorldTurfType()
	if err != nil {
		return nil, err
	}
	worldArea, err := h.GetWorldAreaType()
	if err != nil {
		return nil, err
	}

	spaceKey := ""
	if opts.NoChangeturf {
		spaceKey = findSpaceKey(doc.Parsed.Prefabs, worldTurf, worldArea)
	}

	noAfterchange := opts.NoChangeturf
	if handle.ParsedBounds.MaxZ+int(opts.Offset[2])-1 > worldBounds.MaxZ {
		if !opts.NoChangeturf {
			w.AddWarning("Z-level expansion occurred without no_changeturf set, this may cause problems when /turf/AfterChange is called, and therefore ChangeTurf will NOT be called")
			noAfterchange = true
		}
	}

	bounds := host.Extent{
		MinX: int(^uint(0) >> 1), MinY: int(^uint(0) >> 1), MinZ: int(^uint(0) >> 1),
		MaxX: 1, MaxY: 1, MaxZ: 1,
	}

	var commands []cmdbuf.Command

	for _, block := range doc.Parsed.Blocks {
		g, err := grid.New(block.Anchor, handle.KeyLen, block.Rows)
		if err != nil {
			w.AddWarning(err.Error())
			continue
		}
		for _, cell := range g.Rotate(grid.None) {
			relative := cell.Coord
			relF := [3]float32{float32(relative[0]), float32(relative[1]), float32(relative[2])}
			if exceedsF(relF, opts.UpperBounds) {
				continue
			}
			if belowF(relF, opts.LowerBounds) {
				continue
			}

			exact := [3]int{
				relative[0] + int(opts.Offset[0]) - 1,
				relative[1] + int(opts.Offset[1]) - 1,
				relative[2] + int(opts.Offset[2]) - 1,
			}

			if exact[0] < 1 || exact[1] < 1 || exact[2] < 1 {
				w.AddWarning("Bad map coord (tries to spawn in negative space)")
				continue
			}
			if opts.CropMap && (exact[0] > worldBounds.MaxX || exact[1] > worldBounds.MaxY || exact[2] > worldBounds.MaxZ) {
				continue
			}
			if spaceKey != "" && cell.Key == spaceKey && noAfterchange {
				continue
			}

			prefabList, ok := doc.Parsed.Prefabs[cell.Key]
			if !ok {
				w.AddWarning("Invalid prefab key: " + cell.Key)
				continue
			}
			if len(prefabList) < 2 {
				w.AddWarning("Prefab " + cell.Key + " is too short, violating requirement for /turf and /area!")
				continue
			}

			bounds = growExtent(bounds, exact)
			if _, err := cache.Cache(exact); err != nil {
				return nil, err
			}

			emitTile(&commands, prefabList, cell.Key, exact, noAfterchange, opts, w)
		}
	}

	if bounds.MinX > bounds.MaxX {
		bounds = host.Extent{MinX: 1, MinY: 1, MinZ: 1, MaxX: 1, MaxY: 1, MaxZ: 1}
	}
	handle.Bounds = bounds

	return cmdbuf.NewCommandBuffer(commands, cache), nil
}

func growExtent(b host.Extent, p [3]int) host.Extent {
	if p[0] < b.MinX {
		b.MinX = p[0]
	}
	if p[1] < b.MinY {
		b.MinY = p[1]
	}
	if p[2] < b.MinZ {
		b.MinZ = p[2]
	}
	if p[0] > b.MaxX {
		b.MaxX = p[0]
	}
	if p[1] > b.MaxY {
		b.MaxY = p[1]
	}
	if p[2] > b.MaxZ {
		b.MaxZ = p[2]
	}
	return b
}

func exceedsUpperBounds(check, bounds host.Bounds) bool {
	return check.MaxX > bounds.MaxX || check.MaxY > bounds.MaxY || check.MaxZ > bounds.MaxZ
}

func exceedsF(check, bounds [3]float32) bool {
	return check[0] > bounds[0] || check[1] > bounds[1] || check[2] > bounds[2]
}

func belowF(check, bounds [3]float32) bool {
	return check[0] < bounds[0] || check[1] < bounds[1] || check[2] < bounds[2]
}

// findSpaceKey looks for the single prefab key whose list is exactly
// (world_turf, no vars) followed by (world_area, no vars) — spec §4.9
// step 8.
func findSpaceKey(prefabs map[string]ast.PrefabList, worldTurf, worldArea string) string {
	for key, list := range prefabs {
		if len(list) != 2 {
			continue
		}
		if list[0].Path != worldTurf || list[0].Vars != nil {
			continue
		}
		if list[1].Path != worldArea || list[1].Vars != nil {
			continue
		}
		return key
	}
	return ""
}

// emitTile walks one tile's prefab list tail-first, appending its area,
// turf, and movable commands to commands in original (area, turf, then
// movables-in-source-order) emission order (spec §4.9 step 12, §5).
func emitTile(commands *[]cmdbuf.Command, list ast.PrefabList, key string, loc [3]int, noAfterchange bool, opts Options, w host.Warner) {
	n := len(list)
	area := list[n-1]
	if !strings.HasPrefix(area.Path, "/area") {
		w.AddWarning("Prefab " + key + " does not end in an area, instead ending in " + area.Path)
		return
	}
	if !strings.HasPrefix(area.Path, "/area/template_noop") {
		*commands = append(*commands, cmdbuf.Command{
			Kind: cmdbuf.KindCreateArea, Loc: loc, AreaPrefab: area, NewZ: opts.NewZ,
		})
	}

	turf := list[n-2]
	if !strings.HasPrefix(turf.Path, "/turf") {
		w.AddWarning("Prefab " + key + " does not second-end in a turf, instead ending in " + turf.Path)
		return
	}
	if !strings.HasPrefix(turf.Path, "/turf/template_noop") {
		*commands = append(*commands, cmdbuf.Command{
			Kind: cmdbuf.KindCreateTurf, Loc: loc, TurfPrefab: turf,
			NoChangeturf: noAfterchange, PlaceOnTop: opts.PlaceOnTop,
		})
	}

	for i := 0; i < n-2; i++ {
		elem := list[i]
		if !strings.HasPrefix(elem.Path, "/obj") && !strings.HasPrefix(elem.Path, "/mob") {
			if strings.HasPrefix(elem.Path, "/turf") {
				w.AddWarning("Prefab " + key + " had a secondary turf that we aren't going to deal with: " + elem.Path)
				continue
			}
			w.AddWarning("Prefab " + key + " has a strange element that we'll treat as a movable: " + elem.Path)
		}
		*commands = append(*commands, cmdbuf.Command{Kind: cmdbuf.KindCreateAtom, Loc: loc, AtomPrefab: elem})
	}
}
