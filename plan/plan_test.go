package plan

import (
	"math"
	"reflect"
	"testing"

	"github.com/bapicore/dmm/host"
	"github.com/bapicore/dmm/hostfake"
	"github.com/bapicore/dmm/parser"
)

type discardWarner struct{ msgs []string }

func (w *discardWarner) AddWarning(m string) { w.msgs = append(w.msgs, m) }

func defaultOpts() Options {
	return Options{
		Offset:      [3]float32{1, 1, 1},
		LowerBounds: [3]float32{0, 0, 0},
		UpperBounds: [3]float32{1e9, 1e9, 1e9},
	}
}

func TestRunEmitsAreaTurfAtomForSimpleTile(t *testing.T) {
	doc, err := parser.Parse("t", `"a" = (/obj/item/x,/turf/open/floor,/area/station)
(1,1,1) = {"a"}
`)
	if err != nil {
		t.Fatal(err)
	}
	h := hostfake.New(10, 10, 1)
	handle := &host.Handle{KeyLen: 1, ParsedBounds: extentOne()}
	w := &discardWarner{}

	buf, err := Run(h, w, handle, doc, defaultOpts())
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Commands) != 3 {
		t.Fatalf("expected 3 commands (area, turf, atom), got %d: %+v", len(buf.Commands), buf.Commands)
	}
}

func TestRunSpaceKeyShortcutSkipsCommands(t *testing.T) {
	doc, err := parser.Parse("t", `"sp" = (/turf/open/space,/area/space)
(1,1,1) = {"sp"}
`)
	if err != nil {
		t.Fatal(err)
	}
	h := hostfake.New(10, 10, 1)
	handle := &host.Handle{KeyLen: 2, ParsedBounds: extentOne()}
	w := &discardWarner{}

	opts := defaultOpts()
	opts.NoChangeturf = true
	buf, err := Run(h, w, handle, doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Commands) != 0 {
		t.Fatalf("expected the space-key shortcut to skip all commands, got %+v", buf.Commands)
	}
}

func extentOne() host.Extent {
	return host.Extent{MinX: 1, MinY: 1, MinZ: 1, MaxX: 1, MaxY: 1, MaxZ: 1}
}

// TestRunCropMapNeverExpands checks that crop_map=true (spec §4.9 step 1)
// never triggers ExpandMap, even when the parsed map is bigger than the
// current world and tiles beyond the world edge are simply dropped.
func TestRunCropMapNeverExpands(t *testing.T) {
	doc, err := parser.Parse("t", `"a" = (/turf/open/floor,/area/station)
(1,1,1) = {"aaaaa"}
`)
	if err != nil {
		t.Fatal(err)
	}
	h := hostfake.New(2, 2, 1) // world much smaller than the 5-wide block
	handle := &host.Handle{KeyLen: 1, ParsedBounds: host.Extent{MinX: 1, MinY: 1, MinZ: 1, MaxX: 5, MaxY: 1, MaxZ: 1}}
	w := &discardWarner{}

	opts := defaultOpts()
	opts.CropMap = true

	buf, err := Run(h, w, handle, doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if h.ExpandCalls != 0 {
		t.Fatalf("expected crop_map to suppress ExpandMap, got %d calls", h.ExpandCalls)
	}
	// only the first two columns (x=1,2) fall within the 2-wide world;
	// each tile's prefab is (turf, area) only, 2 commands apiece.
	if len(buf.Commands) != 4 {
		t.Fatalf("expected 4 commands (2 in-bounds tiles x area+turf), got %d: %+v", len(buf.Commands), buf.Commands)
	}
}

// TestRunInfiniteBoundsIncludesTile checks that ±Inf lower and upper
// bounds (spec §4.9 step 7's float32 comparisons) compare correctly
// against a finite coordinate and do not exclude the tile.
func TestRunInfiniteBoundsIncludesTile(t *testing.T) {
	doc, err := parser.Parse("t", `"a" = (/turf/open/floor,/area/station)
(1,1,1) = {"a"}
`)
	if err != nil {
		t.Fatal(err)
	}
	h := hostfake.New(10, 10, 1)
	handle := &host.Handle{KeyLen: 1, ParsedBounds: extentOne()}
	w := &discardWarner{}

	opts := defaultOpts()
	opts.LowerBounds = [3]float32{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))}
	opts.UpperBounds = [3]float32{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}

	buf, err := Run(h, w, handle, doc, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Commands) != 2 {
		t.Fatalf("expected 2 commands (area, turf), got %d: %+v", len(buf.Commands), buf.Commands)
	}
}

// TestRunDeterministicAcrossRuns checks that two Runs of the same document
// against freshly constructed, identically configured hosts produce
// bit-identical command sequences, per spec §9's resolved open question
// that planning is deterministic.
func TestRunDeterministicAcrossRuns(t *testing.T) {
	text := `"a" = (/obj/item/x,/turf/open/floor,/area/station)
"b" = (/turf/open/floor,/area/station)
(1,1,1) = {"
ab
ba
"}
`
	doc, err := parser.Parse("t", text)
	if err != nil {
		t.Fatal(err)
	}
	handle1 := &host.Handle{KeyLen: 1, ParsedBounds: host.Extent{MinX: 1, MinY: 1, MinZ: 1, MaxX: 2, MaxY: 2, MaxZ: 1}}
	handle2 := &host.Handle{KeyLen: 1, ParsedBounds: handle1.ParsedBounds}

	buf1, err := Run(hostfake.New(10, 10, 1), &discardWarner{}, handle1, doc, defaultOpts())
	if err != nil {
		t.Fatal(err)
	}
	buf2, err := Run(hostfake.New(10, 10, 1), &discardWarner{}, handle2, doc, defaultOpts())
	if err != nil {
		t.Fatal(err)
	}
	if len(buf1.Commands) != len(buf2.Commands) {
		t.Fatalf("command count differs: %d vs %d", len(buf1.Commands), len(buf2.Commands))
	}
	for i := range buf1.Commands {
		if !reflect.DeepEqual(buf1.Commands[i], buf2.Commands[i]) {
			t.Fatalf("command %d differs: %+v vs %+v", i, buf1.Commands[i], buf2.Commands[i])
		}
	}
}
