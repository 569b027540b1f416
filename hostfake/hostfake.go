// Package hostfake provides an in-memory host.Host implementation. It
// backs the plan/exec test suites and the cmd/dmmstage-demo CLI, standing
// in for the real game engine on the other side of the host boundary.
package hostfake

import (
	"fmt"

	"github.com/bapicore/dmm/host"
)

// Tile is the fake's tile representation, tracked by coordinate.
type Tile struct {
	Coord [3]int
	Area  string
	Turf  string
	Atoms []string
}

// Host is a minimal, deterministic stand-in for a game engine world. It
// exists to exercise the planner and executor end to end; it does not
// model game rules beyond what spec §6.2 requires of a host.
type Host struct {
	MaxX, MaxY, MaxZ int
	WorldTurf        string
	WorldArea        string

	tiles map[[3]int]*Tile

	ticksSeen int
	Every     int // TickCheck returns true once every `Every` calls; 0 disables

	ExpandCalls            int // number of ExpandMap calls, for assertions about crop_map/world growth
	HandleAreaContainCalls int // number of HandleAreaContain calls, for assertions about new_z
}

// New creates a fake host with the given world extent.
func New(maxX, maxY, maxZ int) *Host {
	return &Host{
		MaxX: maxX, MaxY: maxY, MaxZ: maxZ,
		WorldTurf: "/turf/open/space",
		WorldArea: "/area/space",
		tiles:     make(map[[3]int]*Tile),
	}
}

func (h *Host) tile(x, y, z int) *Tile {
	c := [3]int{x, y, z}
	t, ok := h.tiles[c]
	if !ok {
		t = &Tile{Coord: c, Turf: h.WorldTurf}
		h.tiles[c] = t
	}
	return t
}

func (h *Host) GetWorldBounds() (int, int, int, error) { return h.MaxX, h.MaxY, h.MaxZ, nil }
func (h *Host) GetWorldTurfType() (string, error)       { return h.WorldTurf, nil }
func (h *Host) GetWorldAreaType() (string, error)       { return h.WorldArea, nil }

func (h *Host) ExpandMap(maxX, maxY, maxZ int, newZ bool, zOffset int) error {
	h.ExpandCalls++
	if maxX > h.MaxX {
		h.MaxX = maxX
	}
	if maxY > h.MaxY {
		h.MaxY = maxY
	}
	if maxZ > h.MaxZ {
		h.MaxZ = maxZ
	}
	return nil
}

func (h *Host) LocateTile(x, y, z int) (host.TileRef, error) {
	return h.tile(x, y, z), nil
}

func (h *Host) CreateOrGetArea(path string) (host.AreaRef, error) {
	return path, nil
}

func (h *Host) HandleAreaContain(tile host.TileRef, area host.AreaRef) error {
	h.HandleAreaContainCalls++
	t := tile.(*Tile)
	t.Area = ""
	return nil
}

func (h *Host) AddTurfToArea(area host.AreaRef, tile host.TileRef) error {
	t := tile.(*Tile)
	t.Area = area.(string)
	return nil
}

func (h *Host) TextToPath(text string) (host.PathValue, error) { return text, nil }
func (h *Host) TextToFile(text string) (host.FileValue, error) { return text, nil }

func (h *Host) SetupPreloader(vars []host.VarValue, path host.PathValue) error { return nil }
func (h *Host) ApplyPreloader(instance host.InstanceRef) error                { return nil }

func (h *Host) NewInstanceAt(path host.PathValue, tile host.TileRef) (host.InstanceRef, error) {
	t := tile.(*Tile)
	inst := fmt.Sprintf("%s@%v", path, t.Coord)
	t.Atoms = append(t.Atoms, inst)
	return inst, nil
}

func (h *Host) CreateTurf(tile host.TileRef, path host.PathValue, vars []host.VarValue, placeOnTop, noChangeturf bool) (host.TileRef, error) {
	t := tile.(*Tile)
	p := path.(string)
	if placeOnTop && t.Turf != h.WorldTurf {
		t.Turf = t.Turf + "+" + p
	} else {
		t.Turf = p
	}
	return t, nil
}

// TickCheck reports exhausted once every Every calls (Every == 0 means
// "never exhausted", useful for tests that want uninterrupted execution).
func (h *Host) TickCheck() bool {
	h.ticksSeen++
	if h.Every <= 0 {
		return false
	}
	return h.ticksSeen%h.Every == 0
}

// Tiles exposes the fake's tile map for test assertions.
func (h *Host) Tiles() map[[3]int]*Tile { return h.tiles }
