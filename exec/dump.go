package exec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bapicore/dmm/cmdbuf"
)

// DumpCommandBuffer writes a human-readable snapshot of buf's remaining
// commands to data/mapdump_<name>_<key> for inspection (spec §6.4). This
// is explicitly not part of the host-facing contract — spec.md marks it
// "not part of the contract" — so no core entry point calls it; a host
// wires it in only when it wants the debug artifact.
func DumpCommandBuffer(dir, name string, key cmdbuf.ResumeKey, buf *cmdbuf.CommandBuffer) error {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("mapdump_%s_%d", name, key))

	var sb strings.Builder
	for i := len(buf.Commands) - 1; i >= 0; i-- {
		cmd := buf.Commands[i]
		switch cmd.Kind {
		case cmdbuf.KindCreateArea:
			fmt.Fprintf(&sb, "area\t%v\t%s\tnew_z=%t\n", cmd.Loc, cmd.AreaPrefab.Path, cmd.NewZ)
		case cmdbuf.KindCreateTurf:
			fmt.Fprintf(&sb, "turf\t%v\t%s\tno_changeturf=%t place_on_top=%t\n",
				cmd.Loc, cmd.TurfPrefab.Path, cmd.NoChangeturf, cmd.PlaceOnTop)
		case cmdbuf.KindCreateAtom:
			fmt.Fprintf(&sb, "atom\t%v\t%s\n", cmd.Loc, cmd.AtomPrefab.Path)
		}
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
