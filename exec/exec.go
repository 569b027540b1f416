// Package exec implements Phase B, the command executor (spec §4.10): it
// drains a cmdbuf.CommandBuffer into host mutations, yielding cooperatively
// every DefaultYieldPeriod commands so the host's game loop stays
// responsive.
package exec

import (
	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/cmdbuf"
	"github.com/bapicore/dmm/host"
)

// DefaultYieldPeriod is N from spec §4.10 step 3: the executor consults
// the host's tick check after every this-many commands.
const DefaultYieldPeriod = 100

// Work drains buf until either it empties or the host signals the current
// time slice is exhausted. done is true when the buffer has been fully
// executed (spec §4.10 step 4); false means "resume later" and buf's
// remaining commands are left untouched for the next call.
func Work(h host.Host, buf *cmdbuf.CommandBuffer, w host.Warner, yieldPeriod int) (done bool, err error) {
	if yieldPeriod <= 0 {
		yieldPeriod = DefaultYieldPeriod
	}
	if err := buf.Cache.CheckInvalidate(); err != nil {
		return false, err
	}

	processed := 0
	for {
		cmd, ok := buf.Pop()
		if !ok {
			return true, nil
		}
		if err := execOne(h, buf, w, cmd); err != nil {
			return false, err
		}
		processed++
		if processed%yieldPeriod == 0 && h.TickCheck() {
			return false, nil
		}
	}
}

func execOne(h host.Host, buf *cmdbuf.CommandBuffer, w host.Warner, cmd cmdbuf.Command) error {
	switch cmd.Kind {
	case cmdbuf.KindCreateArea:
		return execCreateArea(h, buf, cmd)
	case cmdbuf.KindCreateTurf:
		return execCreateTurf(h, buf, cmd)
	case cmdbuf.KindCreateAtom:
		return execCreateAtom(h, buf, cmd)
	default:
		return nil
	}
}

func execCreateArea(h host.Host, buf *cmdbuf.CommandBuffer, cmd cmdbuf.Command) error {
	area, ok := buf.CreatedAreas[cmd.AreaPrefab.Path]
	if !ok {
		var err error
		area, err = h.CreateOrGetArea(cmd.AreaPrefab.Path)
		if err != nil {
			return err
		}
		buf.CreatedAreas[cmd.AreaPrefab.Path] = area
	}

	tile, err := buf.Cache.Resolve(cmd.Loc)
	if err != nil {
		return err
	}
	if !cmd.NewZ {
		if err := h.HandleAreaContain(tile.Ref, area); err != nil {
			return err
		}
	}
	return h.AddTurfToArea(area, tile.Ref)
}

func execCreateTurf(h host.Host, buf *cmdbuf.CommandBuffer, cmd cmdbuf.Command) error {
	tile, err := buf.Cache.Resolve(cmd.Loc)
	if err != nil {
		return err
	}
	path, err := h.TextToPath(cmd.TurfPrefab.Path)
	if err != nil {
		return err
	}
	vars, err := resolveVars(h, cmd.TurfPrefab.Vars)
	if err != nil {
		return err
	}
	newTile, err := h.CreateTurf(tile.Ref, path, vars, cmd.PlaceOnTop, cmd.NoChangeturf)
	if err != nil {
		return err
	}
	tile.Ref = newTile
	return nil
}

func execCreateAtom(h host.Host, buf *cmdbuf.CommandBuffer, cmd cmdbuf.Command) error {
	path, ok := buf.KnownPaths[cmd.AtomPrefab.Path]
	if !ok {
		var err error
		path, err = h.TextToPath(cmd.AtomPrefab.Path)
		if err != nil {
			return err
		}
		buf.KnownPaths[cmd.AtomPrefab.Path] = path
	}

	tile, err := buf.Cache.Resolve(cmd.Loc)
	if err != nil {
		return err
	}

	vars, err := resolveVars(h, cmd.AtomPrefab.Vars)
	if err != nil {
		return err
	}
	if len(vars) > 0 {
		if err := h.SetupPreloader(vars, path); err != nil {
			return err
		}
	}
	instance, err := h.NewInstanceAt(path, tile.Ref)
	if err != nil {
		return err
	}
	if len(vars) > 0 {
		return h.ApplyPreloader(instance)
	}
	return nil
}

// resolveVars converts a prefab's parsed variable bindings into the typed
// host.VarValue list setup_preloader expects (spec §4.10 step 2).
func resolveVars(h host.Host, bindings []ast.VarBinding) ([]host.VarValue, error) {
	if len(bindings) == 0 {
		return nil, nil
	}
	out := make([]host.VarValue, len(bindings))
	for i, b := range bindings {
		v, err := resolveLiteral(h, b.Value)
		if err != nil {
			return nil, err
		}
		out[i] = host.VarValue{Name: b.Name, Value: v}
	}
	return out, nil
}

func resolveLiteral(h host.Host, lit ast.Literal) (any, error) {
	switch lit.Kind {
	case ast.KindNumber:
		return lit.Num, nil
	case ast.KindString, ast.KindFallback:
		return lit.Str, nil
	case ast.KindPath:
		return h.TextToPath(lit.Str)
	case ast.KindFile:
		return h.TextToFile(lit.Str)
	case ast.KindNull:
		return nil, nil
	case ast.KindList:
		out := make([]any, len(lit.List))
		for i, v := range lit.List {
			r, err := resolveLiteral(h, v)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case ast.KindAssocList:
		out := make(map[any]any, len(lit.Assoc))
		for _, e := range lit.Assoc {
			k, err := resolveLiteral(h, e.Key)
			if err != nil {
				return nil, err
			}
			v, err := resolveLiteral(h, e.Value)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, nil
	}
}
