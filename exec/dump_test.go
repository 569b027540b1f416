package exec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/cmdbuf"
	"github.com/bapicore/dmm/hostfake"
)

func TestDumpCommandBufferWritesFile(t *testing.T) {
	h := hostfake.New(10, 10, 1)
	cache, err := cmdbuf.NewTileCache(h)
	if err != nil {
		t.Fatal(err)
	}
	buf := cmdbuf.NewCommandBuffer([]cmdbuf.Command{
		{Kind: cmdbuf.KindCreateArea, Loc: [3]int{1, 1, 1}, AreaPrefab: ast.Prefab{Path: "/area/station"}},
		{Kind: cmdbuf.KindCreateTurf, Loc: [3]int{1, 1, 1}, TurfPrefab: ast.Prefab{Path: "/turf/open/floor"}},
	}, cache)

	dir := t.TempDir()
	if err := DumpCommandBuffer(dir, "t", cmdbuf.ResumeKey(7), buf); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "mapdump_t_7"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "/area/station") || !strings.Contains(out, "/turf/open/floor") {
		t.Fatalf("dump missing expected content: %q", out)
	}
	// Dump must not consume the buffer.
	if buf.Empty() {
		t.Fatal("DumpCommandBuffer must not drain the buffer")
	}
}
