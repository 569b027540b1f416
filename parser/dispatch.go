package parser

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/lexer"
	"github.com/bapicore/dmm/token"
)

// prefabStartRe and blockStartRe locate candidate construct starts in
// linear time over the raw text (spec §4.6), so the expensive precise
// parsers only ever run at offsets that are plausibly real.
var (
	prefabStartRe = regexp.MustCompile(`"[A-Za-z]+"\s*=\s*\(`)
	blockStartRe  = regexp.MustCompile(`\(\d+,\d+,\d+\)\s*=\s*\{`)
)

// headerRe matches the single optional "//MAP CONVERTED BY …" line
// permitted at the very start of a file (spec §4.6, §6.1).
var headerRe = regexp.MustCompile(`^//[^\n]*\n?`)

type prefabResult struct {
	offset int
	key    string
	list   ast.PrefabList
}

type blockResult struct {
	offset int
	block  ast.Block
}

// dispatch runs the precise parsers in parallel at every candidate offset
// found by the two locator regexes, and collects the results into a prefab
// map and a block list in document order. A parse failure at any offset yields
// a located error; the whole parse fails with the first such error (spec
// §4.6).
func dispatch(text string, warn func(string)) (map[string]ast.PrefabList, []ast.Block, error) {
	body := text
	if loc := headerRe.FindStringIndex(text); loc != nil {
		body = text[loc[1]:]
	}
	headerLen := len(text) - len(body)

	prefabOffsets := prefabStartRe.FindAllStringIndex(body, -1)
	blockOffsets := blockStartRe.FindAllStringIndex(body, -1)

	prefabResults := make([]prefabResult, len(prefabOffsets))
	blockResults := make([]blockResult, len(blockOffsets))

	g := new(errgroup.Group)

	for i, loc := range prefabOffsets {
		i, loc := i, loc
		g.Go(func() error {
			l := lexer.New(body[loc[0]:])
			key, list, err := ParsePrefabLine(l, warn)
			if err != nil {
				return relocate(err, text, loc[0]+headerLen)
			}
			prefabResults[i] = prefabResult{offset: loc[0], key: key, list: list}
			return nil
		})
	}
	for i, loc := range blockOffsets {
		i, loc := i, loc
		g.Go(func() error {
			l := lexer.New(body[loc[0]:])
			block, err := ParseBlock(l)
			if err != nil {
				return relocate(err, text, loc[0]+headerLen)
			}
			blockResults[i] = blockResult{offset: loc[0], block: block}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.Slice(prefabResults, func(i, j int) bool { return prefabResults[i].offset < prefabResults[j].offset })
	sort.Slice(blockResults, func(i, j int) bool { return blockResults[i].offset < blockResults[j].offset })

	prefabs := make(map[string]ast.PrefabList, len(prefabResults))
	for _, r := range prefabResults {
		prefabs[r.key] = r.list
	}
	blocks := make([]ast.Block, len(blockResults))
	for i, r := range blockResults {
		blocks[i] = r.block
	}
	return prefabs, blocks, nil
}

// relocate rewrites a ParseError's position to be relative to the whole
// document rather than the suffix a worker goroutine parsed, so located
// errors remain meaningful across the dispatch boundary.
func relocate(err error, text string, base int) error {
	pe, ok := err.(*ParseError)
	if !ok {
		return err
	}
	before := text[:base]
	baseLine := 1 + strings.Count(before, "\n")
	baseCol := utf8.RuneCountInString(before[strings.LastIndex(before, "\n")+1:])
	shift := func(p *token.Pos) {
		if p.Line == 1 {
			p.Column += baseCol
		}
		p.Line += baseLine - 1
		p.Offset += base
	}
	shift(&pe.Pos)
	shift(&pe.LastOK)
	return pe
}
