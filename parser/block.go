package parser

import (
	"strings"

	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/lexer"
)

// ParseBlock parses one anchored grid block (spec §4.5):
//
//	"(" uint "," uint "," uint ")" ws* "=" ws* "{\"" row ("\n" row)* "\"}"
//
// Row content is captured verbatim, split only on '\n'; a trailing '\r' is
// trimmed so CRLF-terminated rows compare equal to LF ones. Whether every
// row shares the same length is a placement-time concern (spec §7), not a
// parse failure, so it is left for the planner to check.
func ParseBlock(l *lexer.Lexer) (ast.Block, error) {
	if !l.Expect('(') {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected '(' starting a block anchor")
	}
	x, ok := l.ScanUint()
	if !ok {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected block x coordinate")
	}
	if !l.Expect(',') {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected ',' after block x coordinate")
	}
	y, ok := l.ScanUint()
	if !ok {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected block y coordinate")
	}
	if !l.Expect(',') {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected ',' after block y coordinate")
	}
	z, ok := l.ScanUint()
	if !ok {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected block z coordinate")
	}
	if !l.Expect(')') {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected ')' closing block anchor")
	}
	l.SkipWhitespace()
	if !l.Expect('=') {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected '=' after block anchor")
	}
	l.SkipWhitespace()
	if !l.Expect('{') || !l.Expect('"') {
		return ast.Block{}, newErr(l.Pos(), l.Pos(), "expected '{\"' opening block body")
	}

	rest := l.Rest()
	for !l.HasPrefix(`"}`) {
		if l.AtEOF() {
			return ast.Block{}, newErr(l.Pos(), l.Pos(), "unterminated block body")
		}
		l.Next()
	}
	body := rest[:len(rest)-len(l.Rest())]
	l.Expect('"')
	l.Expect('}')

	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")
	body = strings.TrimSuffix(strings.TrimSuffix(body, "\n"), "\r")

	rows := strings.Split(body, "\n")
	for i, row := range rows {
		rows[i] = strings.TrimSuffix(row, "\r")
	}
	return ast.Block{Anchor: [3]int{x, y, z}, Rows: rows}, nil
}
