package parser

import (
	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/lexer"
)

// literalFallbackTerminators bounds the catch-all Fallback(str) token: a
// comma or ')' ends a list element, ';' ends a variable binding, and '='
// ends a bare associative-list key (spec §4.2).
const literalFallbackTerminators = ",);="

// ParseLiteral parses a single Literal at the lexer's current position,
// per the grammar in spec §4.2. It is the entry point used both by the
// variable-binding parser and, recursively, by list/assoc-list elements.
func ParseLiteral(l *lexer.Lexer) (ast.Literal, error) {
	return parseLiteral(l)
}

func parseLiteral(l *lexer.Lexer) (ast.Literal, error) {
	if v, ok := l.ScanNumber(); ok {
		return ast.Number(v), nil
	}
	if s, ok := l.ScanString(); ok {
		return ast.String(s), nil
	}
	if lit, matched, err := tryParseListLiteral(l); matched {
		return lit, err
	}
	if s, ok := l.ScanPath(); ok {
		return ast.Path(s), nil
	}
	if s, ok := l.ScanFile(); ok {
		return ast.File(s), nil
	}
	if cp := l.Save(); true {
		if word, ok := l.ScanBareWord(literalFallbackTerminators); ok {
			if word == "null" {
				return ast.Null(), nil
			}
			return ast.Fallback(word), nil
		}
		l.Restore(cp)
	}
	return ast.Literal{}, newErr(l.Pos(), l.Pos(), "expected a literal")
}

// tryParseListLiteral recognizes the "list(...)" form. matched is false
// (with the lexer untouched) when the input does not begin with the
// literal identifier "list" immediately followed by '(', letting the
// caller fall through to the remaining alternatives.
func tryParseListLiteral(l *lexer.Lexer) (lit ast.Literal, matched bool, err error) {
	cp := l.Save()
	ident, ok := l.ScanIdent()
	if !ok || ident != "list" || l.Peek() != '(' {
		l.Restore(cp)
		return ast.Literal{}, false, nil
	}
	l.Expect('(')
	l.SkipWhitespace()
	if l.Expect(')') {
		return ast.List(nil), true, nil
	}

	bodyCp := l.Save()
	if entries, ok := tryParseAssocBody(l); ok {
		return ast.AssocList(entries), true, nil
	}
	l.Restore(bodyCp)

	items, perr := parsePlainListBody(l)
	return items, true, perr
}

// tryParseAssocBody attempts the associative alternative: one or more
// "key = value" entries separated by ',', closed by ')'. The key is
// parsed with the same ParseLiteral rule as any value — a bare word that
// matches nothing else already falls back to Fallback(str) (spec §4.2's
// "bare list key… wrapped as Fallback(str)").
func tryParseAssocBody(l *lexer.Lexer) ([]ast.AssocEntry, bool) {
	var entries []ast.AssocEntry
	for {
		l.SkipWhitespace()
		key, err := parseLiteral(l)
		if err != nil {
			return nil, false
		}
		l.SkipWhitespace()
		if !l.Expect('=') {
			return nil, false
		}
		l.SkipWhitespace()
		value, err := parseLiteral(l)
		if err != nil {
			return nil, false
		}
		entries = append(entries, ast.AssocEntry{Key: key, Value: value})

		l.SkipWhitespace()
		switch {
		case l.Expect(','):
			continue
		case l.Expect(')'):
			return entries, true
		default:
			return nil, false
		}
	}
}

// parsePlainListBody parses one or more comma-separated values, closed by
// ')'. Reached only once the associative alternative has been ruled out.
func parsePlainListBody(l *lexer.Lexer) (ast.Literal, error) {
	var items []ast.Literal
	for {
		l.SkipWhitespace()
		v, err := parseLiteral(l)
		if err != nil {
			return ast.Literal{}, err
		}
		items = append(items, v)

		l.SkipWhitespace()
		switch {
		case l.Expect(','):
			continue
		case l.Expect(')'):
			return ast.List(items), nil
		default:
			return ast.Literal{}, newErr(l.Pos(), l.Pos(), "expected ',' or ')' in list")
		}
	}
}
