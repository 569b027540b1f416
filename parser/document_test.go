package parser

import "testing"

const denseSample = `"aa" = (/turf/open/floor,/area/station)
"bb" = (/turf/open/floor{icon_state = "tile"},/obj/item/weapon,/turf/open/floor,/area/station)
(1,1,1) = {"
aabb
bbaa
"}
`

func TestParseHeaderSkip(t *testing.T) {
	withHeader := "//MAP CONVERTED BY misc/mapmerge.dm\n" + denseSample
	doc, err := Parse("with-header", withHeader)
	if err != nil {
		t.Fatalf("parse with header: %v", err)
	}
	doc2, err := Parse("no-header", denseSample)
	if err != nil {
		t.Fatalf("parse without header: %v", err)
	}
	if len(doc.Parsed.Prefabs) != len(doc2.Parsed.Prefabs) {
		t.Fatalf("header-skip changed prefab count: %d vs %d", len(doc.Parsed.Prefabs), len(doc2.Parsed.Prefabs))
	}
	if len(doc.Parsed.Blocks) != 1 || len(doc2.Parsed.Blocks) != 1 {
		t.Fatalf("expected exactly one block parsed in each document")
	}
}

func TestParseDialectEquivalence(t *testing.T) {
	dense, err := Parse("dense", denseSample)
	if err != nil {
		t.Fatalf("dense parse: %v", err)
	}
	if dense.Info.IsTGM {
		t.Fatal("dense sample must not be detected as tabular")
	}

	tabular := `"aa" = (
/turf/open/floor,
/area/station)
"bb" = (
/turf/open/floor{
icon_state = "tile"
},
/obj/item/weapon,
/turf/open/floor,
/area/station)
(1,1,1) = {"
aabb
bbaa
"}
`
	tab, err := Parse("tabular", tabular)
	if err != nil {
		t.Fatalf("tabular parse: %v", err)
	}
	if !tab.Info.IsTGM {
		t.Fatal("tabular sample must be detected as tabular")
	}

	if len(dense.Parsed.Prefabs) != len(tab.Parsed.Prefabs) {
		t.Fatalf("prefab count mismatch: dense=%d tabular=%d", len(dense.Parsed.Prefabs), len(tab.Parsed.Prefabs))
	}
	for key, list := range dense.Parsed.Prefabs {
		other, ok := tab.Parsed.Prefabs[key]
		if !ok || len(other) != len(list) {
			t.Fatalf("prefab %q mismatch between dialects", key)
		}
	}
	if len(dense.Parsed.Blocks) != len(tab.Parsed.Blocks) {
		t.Fatalf("block count mismatch")
	}
	if dense.Parsed.Blocks[0].Rows[0] != tab.Parsed.Blocks[0].Rows[0] {
		t.Fatalf("block rows mismatch between dialects")
	}
}

func TestParseUnknownConstructProducesLocatedError(t *testing.T) {
	_, err := Parse("bad", `"zz" = (/turf/open{broken)`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}
