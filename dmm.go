// Package dmm parses and stages tile-map files for a game engine that
// describes its worlds as grids of prefab references plus tables of
// prefab definitions. It exposes five entry points a host embeds: parse a
// map, plan a placement into a running world, drain one execution slice,
// and tear everything down.
//
// Example usage:
//
//	reg := dmm.NewRegistry()
//	handle := &host.Handle{}
//	if err := dmm.ParseBlocking(reg, "station.dmm", text, handle); err != nil {
//	    // handle error
//	}
//	key, err := dmm.LoadMapBuffered(reg, hostImpl, handle, dmm.LoadOptions{
//	    Offset:      [3]float32{1, 1, 1},
//	    UpperBounds: [3]float32{1e9, 1e9, 1e9},
//	})
//	for {
//	    more, err := dmm.WorkCommandBuffer(reg, hostImpl, handle, key)
//	    if err != nil || !more {
//	        break
//	    }
//	}
package dmm

import (
	"fmt"

	"github.com/bapicore/dmm/cmdbuf"
	"github.com/bapicore/dmm/exec"
	"github.com/bapicore/dmm/host"
	"github.com/bapicore/dmm/parser"
	"github.com/bapicore/dmm/plan"
	"github.com/bapicore/dmm/registry"
)

// Re-export types for convenience, mirroring the component boundaries of
// spec §2-3.
type (
	MapDocument   = parser.MapDocument
	MapInfo       = parser.MapInfo
	ParsedMap     = parser.ParsedMap
	ParseError    = parser.ParseError
	Handle        = host.Handle
	Host          = host.Host
	Warner        = host.Warner
	ResumeKey     = cmdbuf.ResumeKey
	CommandBuffer = cmdbuf.CommandBuffer
	LoadOptions   = plan.Options
)

// Registry is the process-wide document and command-buffer table (spec
// §5, §9). A host typically owns exactly one.
type Registry = registry.Registry

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return registry.New()
}

// ParseBlocking reads and parses a map's text, registers the resulting
// document, and populates handle with the metadata spec §6.3 requires
// (map_format, key_len, line_len, parsed_bounds, _internal_index). It
// corresponds to the core entry point of the same name.
func ParseBlocking(reg *Registry, name, text string, handle *Handle) error {
	doc, err := parser.ParseWithWarnings(name, text, handle.AddWarning)
	if err != nil {
		return err
	}

	keyLen, lineLen, err := inferWidths(doc)
	if err != nil {
		return err
	}
	parsedBounds := parsedExtent(doc, keyLen)

	handle.InternalIndex = reg.AddDocument(doc)
	handle.KeyLen = keyLen
	handle.LineLen = lineLen
	handle.ParsedBounds = parsedBounds
	if doc.Info.IsTGM {
		handle.MapFormat = "tabular"
	} else {
		handle.MapFormat = "dense"
	}
	return nil
}

// LoadMapBuffered runs Phase A (the placement planner) and returns the
// ResumeKey identifying the new command buffer stored in the document's
// entry in reg.
func LoadMapBuffered(reg *Registry, h Host, handle *Handle, opts LoadOptions) (ResumeKey, error) {
	handle.Loading = true
	doc, err := reg.Document(handle.InternalIndex)
	if err != nil {
		handle.AddWarning(fmt.Sprintf("Loading failed due to error: %v", err))
		return 0, err
	}

	buf, err := plan.Run(h, handle, handle, doc, opts)
	if err != nil {
		handle.AddWarning(fmt.Sprintf("Loading failed due to error: %v", err))
		return 0, err
	}
	return reg.AddCommandBuffer(handle.InternalIndex, buf)
}

// WorkCommandBuffer runs one bounded slice of Phase B. more is true when
// the host should call again to continue draining the buffer; false with a
// nil error means the buffer finished, was dropped from the registry, and
// handle's loading flag was cleared.
func WorkCommandBuffer(reg *Registry, h Host, handle *Handle, key ResumeKey) (more bool, err error) {
	buf, err := reg.CommandBuffer(handle.InternalIndex, key)
	if err != nil {
		return false, err
	}

	done, err := exec.Work(h, buf, handle, exec.DefaultYieldPeriod)
	if err != nil {
		return false, err
	}
	if done {
		reg.DropCommandBuffer(handle.InternalIndex, key)
		handle.Loading = false
		return false, nil
	}
	return true, nil
}

// ClearMapData tears down every registered document and command buffer,
// in the order spec §5 and §9 require.
func ClearMapData(reg *Registry) {
	reg.Clear()
}

// TestConnection is the smoke-test entry point a host calls once at
// startup to confirm the module loaded correctly (spec §6.3).
func TestConnection() int {
	return 10
}

func inferWidths(doc *MapDocument) (keyLen, lineLen int, err error) {
	for key := range doc.Parsed.Prefabs {
		if keyLen == 0 || len(key) < keyLen {
			keyLen = len(key)
		}
	}
	if keyLen == 0 {
		return 0, 0, fmt.Errorf("dmm: document has no prefab keys, cannot infer key_len")
	}
	for _, block := range doc.Parsed.Blocks {
		if len(block.Rows) > 0 && len(block.Rows[0]) > lineLen {
			lineLen = len(block.Rows[0])
		}
	}
	return keyLen, lineLen, nil
}

func parsedExtent(doc *MapDocument, keyLen int) host.Extent {
	ext := host.Extent{MinX: 1, MinY: 1, MinZ: 1, MaxX: 1, MaxY: 1, MaxZ: 1}
	for _, block := range doc.Parsed.Blocks {
		cols := 0
		if len(block.Rows) > 0 && keyLen > 0 {
			cols = len(block.Rows[0]) / keyLen
		}
		maxX := block.Anchor[0] + cols - 1
		maxY := block.Anchor[1] + len(block.Rows) - 1
		maxZ := block.Anchor[2]
		if maxX > ext.MaxX {
			ext.MaxX = maxX
		}
		if maxY > ext.MaxY {
			ext.MaxY = maxY
		}
		if maxZ > ext.MaxZ {
			ext.MaxZ = maxZ
		}
	}
	return ext
}
