package main

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// DemoConfig mirrors what a real host embedding this module would already
// know about its own world: its current bounds, its default turf/area, and
// the placement options to hand LoadMapBuffered. The demo reads it from a
// .dmmstage.kdl file so a run can be reconfigured without a rebuild.
type DemoConfig struct {
	WorldMaxX, WorldMaxY, WorldMaxZ int
	WorldTurf, WorldArea            string

	OffsetX, OffsetY, OffsetZ float64
	CropMap                   bool
	NoChangeturf              bool
	PlaceOnTop                bool
	NewZ                      bool
}

func defaultDemoConfig() DemoConfig {
	return DemoConfig{
		WorldMaxX: 32, WorldMaxY: 32, WorldMaxZ: 1,
		WorldTurf: "/turf/open/space", WorldArea: "/area/space",
		OffsetX: 1, OffsetY: 1, OffsetZ: 1,
	}
}

// loadDemoConfig reads path if it exists, layering its values over
// defaultDemoConfig. A missing file is not an error: the demo runs fine
// against the defaults.
func loadDemoConfig(path string) (DemoConfig, error) {
	cfg := defaultDemoConfig()

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "world":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_x":
					if v, ok := firstIntArg(cn); ok {
						cfg.WorldMaxX = v
					}
				case "max_y":
					if v, ok := firstIntArg(cn); ok {
						cfg.WorldMaxY = v
					}
				case "max_z":
					if v, ok := firstIntArg(cn); ok {
						cfg.WorldMaxZ = v
					}
				case "turf":
					if v, ok := firstStringArg(cn); ok {
						cfg.WorldTurf = v
					}
				case "area":
					if v, ok := firstStringArg(cn); ok {
						cfg.WorldArea = v
					}
				}
			}
		case "load":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "offset_x":
					if v, ok := firstFloatArg(cn); ok {
						cfg.OffsetX = v
					}
				case "offset_y":
					if v, ok := firstFloatArg(cn); ok {
						cfg.OffsetY = v
					}
				case "offset_z":
					if v, ok := firstFloatArg(cn); ok {
						cfg.OffsetZ = v
					}
				case "crop_map":
					if v, ok := firstBoolArg(cn); ok {
						cfg.CropMap = v
					}
				case "no_changeturf":
					if v, ok := firstBoolArg(cn); ok {
						cfg.NoChangeturf = v
					}
				case "place_on_top":
					if v, ok := firstBoolArg(cn); ok {
						cfg.PlaceOnTop = v
					}
				case "new_z":
					if v, ok := firstBoolArg(cn); ok {
						cfg.NewZ = v
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
