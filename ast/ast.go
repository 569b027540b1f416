// Package ast defines the parsed data model of spec section 3: the
// Literal sum type, prefabs and prefab lists, map blocks, and the
// containers that hold a parsed map document's prefab table and block
// list. Every string field here is a substring of the document's owning
// text, sliced rather than copied — Go's strings are immutable, so a
// parsed model can safely borrow into the original text the way spec
// section 9 describes, without an arena.
package ast

import "fmt"

// Kind tags the variant of a Literal.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindPath
	KindFile
	KindNull
	KindFallback
	KindList
	KindAssocList
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindPath:
		return "Path"
	case KindFile:
		return "File"
	case KindNull:
		return "Null"
	case KindFallback:
		return "Fallback"
	case KindList:
		return "List"
	case KindAssocList:
		return "AssocList"
	default:
		return "Unknown"
	}
}

// Literal is the tagged union described in spec §3: Number, String, Path,
// File, Null, Fallback, List, and AssocList. Only the fields relevant to
// Kind are meaningful; the zero value of the others is ignored.
type Literal struct {
	Kind Kind

	Num   float32      // KindNumber
	Str   string       // KindString, KindPath, KindFile, KindFallback
	List  []Literal    // KindList
	Assoc []AssocEntry // KindAssocList
}

// AssocEntry is one key/value pair of an AssocList. Duplicate keys are
// permitted and preserved in insertion order (spec §3).
type AssocEntry struct {
	Key   Literal
	Value Literal
}

func Number(v float32) Literal        { return Literal{Kind: KindNumber, Num: v} }
func String(s string) Literal         { return Literal{Kind: KindString, Str: s} }
func Path(s string) Literal           { return Literal{Kind: KindPath, Str: s} }
func File(s string) Literal           { return Literal{Kind: KindFile, Str: s} }
func Null() Literal                   { return Literal{Kind: KindNull} }
func Fallback(s string) Literal       { return Literal{Kind: KindFallback, Str: s} }
func List(items []Literal) Literal    { return Literal{Kind: KindList, List: items} }
func AssocList(e []AssocEntry) Literal { return Literal{Kind: KindAssocList, Assoc: e} }

// String renders a Literal for diagnostics; it is not a serialization
// format and is not parsed back by anything in this module.
func (l Literal) String() string {
	switch l.Kind {
	case KindNumber:
		return fmt.Sprintf("Number(%g)", l.Num)
	case KindString:
		return fmt.Sprintf("String(%q)", l.Str)
	case KindPath:
		return fmt.Sprintf("Path(%s)", l.Str)
	case KindFile:
		return fmt.Sprintf("File(%q)", l.Str)
	case KindNull:
		return "Null"
	case KindFallback:
		return fmt.Sprintf("Fallback(%q)", l.Str)
	case KindList:
		return fmt.Sprintf("List(%d items)", len(l.List))
	case KindAssocList:
		return fmt.Sprintf("AssocList(%d pairs)", len(l.Assoc))
	default:
		return "Literal(?)"
	}
}

// VarBinding is one (name, value) pair of a prefab's variable list.
// Insertion order is observable (spec §3).
type VarBinding struct {
	Name  string
	Value Literal
}

// Prefab is a single `(path, optional variable bindings)` entry on the
// right-hand side of a prefab line (spec §3, §4.4). Vars is nil when no
// variable-binding block was present at all.
type Prefab struct {
	Path string
	Vars []VarBinding
}

// PrefabList is the ordered, non-empty right-hand side of a map key (spec
// §3). Its tail-shape invariant (last = area, penultimate = turf) is
// enforced by the planner, not the parser, because a malformed list is a
// per-tile warning, not a parse failure (spec §7).
type PrefabList []Prefab

// Block is an anchored rectangular character grid (spec §3, §4.5).
// Anchor is (x, y, z) of the block's bottom-left corner. Each row is a
// concatenation of fixed-width keys and all rows share the same length.
type Block struct {
	Anchor [3]int
	Rows   []string
}
