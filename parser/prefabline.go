package parser

import (
	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/lexer"
)

// ParsePrefabLine parses one prefab-table entry (spec §4.4):
//
//	key ws* "(" ws* prefab ("," ws* prefab)* ","? ws* ")"
//	prefab ::= path variable_block?
//
// warn receives a message for each recoverable malformed variable binding
// encountered inside any prefab's variable block (spec §7).
func ParsePrefabLine(l *lexer.Lexer, warn func(string)) (string, ast.PrefabList, error) {
	key, ok := l.ScanKey()
	if !ok {
		return "", nil, newErr(l.Pos(), l.Pos(), "expected a quoted key")
	}
	if !l.Expect('(') {
		return "", nil, newErr(l.Pos(), l.Pos(), "expected '(' after key")
	}
	l.SkipWhitespace()

	var prefabs ast.PrefabList
	for {
		pf, err := parseOnePrefab(l, warn)
		if err != nil {
			return "", nil, err
		}
		prefabs = append(prefabs, pf)

		l.SkipWhitespace()
		if l.Expect(',') {
			l.SkipWhitespace()
			if l.Expect(')') {
				break
			}
			continue
		}
		if l.Expect(')') {
			break
		}
		return "", nil, newErr(l.Pos(), l.Pos(), "expected ',' or ')' after prefab")
	}
	if len(prefabs) == 0 {
		return "", nil, newErr(l.Pos(), l.Pos(), "prefab list must not be empty")
	}
	return key, prefabs, nil
}

func parseOnePrefab(l *lexer.Lexer, warn func(string)) (ast.Prefab, error) {
	path, ok := l.ScanPath()
	if !ok {
		return ast.Prefab{}, newErr(l.Pos(), l.Pos(), "expected a path")
	}
	if l.Peek() != '{' {
		return ast.Prefab{Path: path}, nil
	}
	vars, err := ParseVarBlock(l, warn)
	if err != nil {
		return ast.Prefab{}, err
	}
	return ast.Prefab{Path: path, Vars: vars}, nil
}
