package dmm

import (
	"testing"

	"github.com/bapicore/dmm/hostfake"
)

func TestTestConnection(t *testing.T) {
	if got := TestConnection(); got != 10 {
		t.Fatalf("TestConnection() = %d, want 10", got)
	}
}

func TestEndToEndParseLoadWork(t *testing.T) {
	reg := NewRegistry()
	handle := &Handle{}

	text := `"a" = (/obj/item/crowbar,/turf/open/floor,/area/station)
"b" = (/turf/open/floor,/area/station)
(1,1,1) = {"
ab
ba
"}
`
	if err := ParseBlocking(reg, "t.dmm", text, handle); err != nil {
		t.Fatal(err)
	}
	if handle.MapFormat != "dense" {
		t.Fatalf("expected dense format, got %q", handle.MapFormat)
	}
	if handle.KeyLen != 1 {
		t.Fatalf("expected key_len 1, got %d", handle.KeyLen)
	}

	h := hostfake.New(10, 10, 1)
	key, err := LoadMapBuffered(reg, h, handle, LoadOptions{
		Offset:      [3]float32{1, 1, 1},
		LowerBounds: [3]float32{0, 0, 0},
		UpperBounds: [3]float32{1e9, 1e9, 1e9},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !handle.Loading {
		t.Fatal("expected Loading to be true after LoadMapBuffered")
	}

	for {
		more, err := WorkCommandBuffer(reg, h, handle, key)
		if err != nil {
			t.Fatal(err)
		}
		if !more {
			break
		}
	}
	if handle.Loading {
		t.Fatal("expected Loading to clear once the buffer drains")
	}
	if _, err := reg.CommandBuffer(handle.InternalIndex, key); err == nil {
		t.Fatal("expected the drained buffer to be dropped from the registry")
	}

	if len(h.Tiles()) != 4 {
		t.Fatalf("expected 4 tiles staged, got %d", len(h.Tiles()))
	}

	ClearMapData(reg)
	if _, err := reg.Document(handle.InternalIndex); err == nil {
		t.Fatal("expected ClearMapData to remove the registered document")
	}
}

func TestParseBlockingSurfacesParseErrors(t *testing.T) {
	reg := NewRegistry()
	handle := &Handle{}
	if err := ParseBlocking(reg, "bad.dmm", `"a" = (/turf/open/floor`, handle); err == nil {
		t.Fatal("expected an error for a truncated prefab line")
	}
}
