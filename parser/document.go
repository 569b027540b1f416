package parser

import (
	"regexp"

	"github.com/bapicore/dmm/ast"
)

// MapInfo carries the document-level metadata spec §3 attaches to a parsed
// map: which dialect it was written in and the name it was parsed under.
type MapInfo struct {
	IsTGM bool
	Name  string
}

// ParsedMap is the parsed model of a single document: every prefab table
// entry keyed by its table key, and every block in file order (spec §3).
type ParsedMap struct {
	Prefabs map[string]ast.PrefabList
	Blocks  []ast.Block
}

// MapDocument owns the source text and the views parsed out of it. Every
// string inside Parsed is a substring of Text — Go's immutable
// strings make this safe to share without an arena (spec §4.7, §9).
type MapDocument struct {
	Text   string
	Info   MapInfo
	Parsed ParsedMap
}

// tabularKeyRe matches a prefab key's opening '(' immediately followed by
// a line terminator — the sole signal that distinguishes the tabular
// dialect from the dense one (spec §6.1).
var tabularKeyRe = regexp.MustCompile(`"[A-Za-z]+"\s*=\s*\(\r?\n`)

// Parse parses the named document's text into a MapDocument (spec §4.7).
// Recoverable warnings emitted while parsing variable blocks are
// discarded; use ParseWithWarnings to receive them.
func Parse(name, text string) (*MapDocument, error) {
	return ParseWithWarnings(name, text, nil)
}

// ParseWithWarnings is Parse with an explicit warning sink: warn receives
// every recoverable, non-fatal warning emitted while parsing variable
// blocks; a nil warn discards them.
func ParseWithWarnings(name, text string, warn func(string)) (*MapDocument, error) {
	if warn == nil {
		warn = func(string) {}
	}
	prefabs, blocks, err := dispatch(text, warn)
	if err != nil {
		return nil, err
	}
	return &MapDocument{
		Text: text,
		Info: MapInfo{
			IsTGM: tabularKeyRe.MatchString(text),
			Name:  name,
		},
		Parsed: ParsedMap{
			Prefabs: prefabs,
			Blocks:  blocks,
		},
	}, nil
}
