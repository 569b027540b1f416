package parser

import (
	"strings"
	"testing"

	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/lexer"
)

// TestParsePrefabLineVariableOmnibus exercises one prefab carrying a
// variable block with every literal kind in a single binding list: a
// string with an escaped quote, a plain list, an associative list with a
// bare-key entry, a negative number, a path, scientific notation, a null,
// and a bareword fallback (spec §4.3, §8 scenario 3).
func TestParsePrefabLineVariableOmnibus(t *testing.T) {
	line := `"k" = (/obj/q{icon = 'i.png'; name = "\"x\""; l = list(1,2); a = list("m"=2, bare=4); n = -7; p = /obj/q; e = 4e4; d = null; u = zzz})`

	l := lexer.New(line)
	key, list, err := ParsePrefabLine(l, func(string) {})
	if err != nil {
		t.Fatal(err)
	}
	if key != "k" {
		t.Fatalf("expected key %q, got %q", "k", key)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 prefab, got %d", len(list))
	}
	pf := list[0]
	if pf.Path != "/obj/q" {
		t.Fatalf("expected path /obj/q, got %q", pf.Path)
	}

	byName := make(map[string]ast.Literal, len(pf.Vars))
	var order []string
	for _, b := range pf.Vars {
		byName[b.Name] = b.Value
		order = append(order, b.Name)
	}

	wantOrder := []string{"icon", "name", "l", "a", "n", "p", "e", "d", "u"}
	if strings.Join(order, ",") != strings.Join(wantOrder, ",") {
		t.Fatalf("binding order = %v, want %v", order, wantOrder)
	}

	if v := byName["icon"]; v.Kind != ast.KindFile || v.Str != "i.png" {
		t.Fatalf("icon = %v", v)
	}
	if v := byName["name"]; v.Kind != ast.KindString || v.Str != `\"x\"` {
		t.Fatalf("name = %v", v)
	}
	if v := byName["l"]; v.Kind != ast.KindList || len(v.List) != 2 {
		t.Fatalf("l = %v", v)
	}
	if v := byName["a"]; v.Kind != ast.KindAssocList {
		t.Fatalf("a = %v, want AssocList", v)
	} else {
		if len(v.Assoc) != 2 {
			t.Fatalf("a has %d entries, want 2", len(v.Assoc))
		}
		if v.Assoc[0].Key.Kind != ast.KindString || v.Assoc[0].Key.Str != "m" {
			t.Fatalf("a[0].key = %v", v.Assoc[0].Key)
		}
		if v.Assoc[1].Key.Kind != ast.KindFallback || v.Assoc[1].Key.Str != "bare" {
			t.Fatalf("a[1].key = %v", v.Assoc[1].Key)
		}
	}
	if v := byName["n"]; v.Kind != ast.KindNumber || v.Num != -7 {
		t.Fatalf("n = %v", v)
	}
	if v := byName["p"]; v.Kind != ast.KindPath || v.Str != "/obj/q" {
		t.Fatalf("p = %v", v)
	}
	if v := byName["e"]; v.Kind != ast.KindNumber || v.Num != 4e4 {
		t.Fatalf("e = %v", v)
	}
	if v := byName["d"]; v.Kind != ast.KindNull {
		t.Fatalf("d = %v, want Null", v)
	}
	if v := byName["u"]; v.Kind != ast.KindFallback || v.Str != "zzz" {
		t.Fatalf("u = %v", v)
	}
}

// TestSplitTopLevelSemicolonsRoundTrip checks the universal property spec
// §8 states for the variable splitter: joining the split pieces back
// together with "; " and re-splitting yields the same ordered sequence of
// pieces, for bodies with and without embedded semicolons in strings.
func TestSplitTopLevelSemicolonsRoundTrip(t *testing.T) {
	bodies := []string{
		`a = 1; b = 2; c = "x;y"; d = 4`,
		`single = "only;one;piece;with;semicolons"`,
		`x = list(1,2,3); y = "a;b;c"; z = zzz`,
	}
	for _, body := range bodies {
		pieces := splitTopLevelSemicolons(body)
		rejoined := strings.Join(pieces, "; ")
		again := splitTopLevelSemicolons(rejoined)
		if len(again) != len(pieces) {
			t.Fatalf("round-trip piece count changed for %q: %d vs %d", body, len(pieces), len(again))
		}
		for i := range pieces {
			if strings.TrimSpace(again[i]) != strings.TrimSpace(pieces[i]) {
				t.Fatalf("round-trip mismatch at piece %d for %q: %q vs %q", i, body, pieces[i], again[i])
			}
		}
	}
}
