// Package host defines the boundary between this module and the embedding
// game engine (spec §6.2): the set of calls the core makes into the host,
// and the handle type the host uses to drive a single map's staged load.
package host

// TileRef, AreaRef, PathValue, FileValue, and InstanceRef are opaque
// host-owned values. The core never inspects them; it only threads them
// between Host calls and the caches in package cmdbuf.
type (
	TileRef     any
	AreaRef     any
	PathValue   any
	FileValue   any
	InstanceRef any
)

// VarValue is one resolved variable ready to hand to the host's preloader,
// its Value already converted from an ast.Literal to whatever typed form
// the host's setup_preloader call expects: string, float32, PathValue,
// FileValue, nil for null, []any for a list, or map[any]any for an
// association list. The map form keeps neither the entries' order nor
// duplicate keys.
type VarValue struct {
	Name  string
	Value any
}

// Host is every operation spec §6.2 requires the embedding engine to
// provide. All calls are synchronous and run on the host's single main
// execution context (spec §5); implementations must not block.
type Host interface {
	GetWorldBounds() (maxX, maxY, maxZ int, err error)
	GetWorldTurfType() (string, error)
	GetWorldAreaType() (string, error)
	ExpandMap(maxX, maxY, maxZ int, newZ bool, zOffset int) error

	LocateTile(x, y, z int) (TileRef, error)
	CreateOrGetArea(path string) (AreaRef, error)
	HandleAreaContain(tile TileRef, area AreaRef) error
	AddTurfToArea(area AreaRef, tile TileRef) error

	TextToPath(text string) (PathValue, error)
	TextToFile(text string) (FileValue, error)

	SetupPreloader(vars []VarValue, path PathValue) error
	ApplyPreloader(instance InstanceRef) error
	NewInstanceAt(path PathValue, tile TileRef) (InstanceRef, error)
	CreateTurf(tile TileRef, path PathValue, vars []VarValue, placeOnTop, noChangeturf bool) (TileRef, error)

	// TickCheck reports whether the current execution slice is exhausted.
	TickCheck() bool
}

// Warner appends a non-fatal diagnostic to the handle the host is tracking
// (spec §4.12). Warnings never abort parsing or planning.
type Warner interface {
	AddWarning(msg string)
}

// Bounds is an inclusive world extent, (1,1,1) to (maxX,maxY,maxZ).
type Bounds struct {
	MaxX, MaxY, MaxZ int
}

// Extent is a running (min, max) box, used both for a document's parsed
// extent and for the placed extent a plan accumulates as it runs (spec
// §4.9 steps 10 and 13).
type Extent struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
}

// Handle is the host-visible record spec §3 calls ParsedMapHandle: the
// metadata the host reads and writes around a single parsed document, plus
// the warning sink every parse/plan/execute step reports into.
type Handle struct {
	KeyLen       int
	LineLen      int
	ParsedBounds Extent
	Bounds       Extent
	MapFormat    string // "dense" or "tabular"

	// InternalIndex is the document registry index this handle refers to;
	// it is opaque to the host beyond passing it back into core entry
	// points.
	InternalIndex int
	Loading       bool

	Warnings []string
}

// AddWarning implements Warner by appending to the handle's own slice — the
// default sink used when the host does not supply one of its own.
func (h *Handle) AddWarning(msg string) {
	h.Warnings = append(h.Warnings, msg)
}
