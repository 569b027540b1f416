package parser

import (
	"strings"

	"github.com/bapicore/dmm/ast"
	"github.com/bapicore/dmm/lexer"
)

// ParseVarBlock parses a prefab's optional variable-binding block (spec
// §4.3): a brace-delimited, ';'-separated sequence of "name = literal"
// bindings. warn is called once per recoverable malformed piece; a
// malformed piece is dropped rather than failing the whole parse, mirroring
// spec §7's stance that a single bad binding should not sink the prefab.
func ParseVarBlock(l *lexer.Lexer, warn func(string)) ([]ast.VarBinding, error) {
	raw, ok := l.ScanBalancedBraces()
	if !ok {
		return nil, newErr(l.Pos(), l.Pos(), "expected '{' starting a variable block")
	}
	body := raw[1 : len(raw)-1]

	var bindings []ast.VarBinding
	for _, piece := range splitTopLevelSemicolons(body) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		binding, ok := parseOneBinding(piece, warn)
		if ok {
			bindings = append(bindings, binding)
		}
	}
	return bindings, nil
}

// splitTopLevelSemicolons splits on ';' that appears outside a quoted
// string span, so a ';' embedded in a string value does not break a
// binding apart.
func splitTopLevelSemicolons(s string) []string {
	var pieces []string
	start := 0
	inStr := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && inStr && i+1 < len(s):
			i++
		case s[i] == '"':
			inStr = !inStr
		case s[i] == ';' && !inStr:
			pieces = append(pieces, s[start:i])
			start = i + 1
		}
	}
	pieces = append(pieces, s[start:])
	return pieces
}

// parseOneBinding parses a single "name = literal" piece. On malformed
// input — including an unterminated string that runs to the piece's end —
// it reports via warn and returns ok == false so the caller discards the
// piece and continues with the rest of the block (spec §7).
func parseOneBinding(piece string, warn func(string)) (ast.VarBinding, bool) {
	l := lexer.New(piece)
	name, ok := l.ScanIdent()
	if !ok {
		warn("malformed variable binding: missing identifier in " + quoteForWarn(piece))
		return ast.VarBinding{}, false
	}
	l.SkipHorizontalSpace()
	if !l.Expect('=') {
		warn("malformed variable binding: missing '=' in " + quoteForWarn(piece))
		return ast.VarBinding{}, false
	}
	l.SkipHorizontalSpace()
	value, err := ParseLiteral(l)
	if err != nil {
		warn("malformed variable binding: " + err.Error())
		return ast.VarBinding{}, false
	}
	if value.Kind == ast.KindFallback && strings.HasPrefix(value.Str, `"`) {
		warn("malformed variable binding: unterminated string in " + quoteForWarn(piece))
		return ast.VarBinding{}, false
	}
	return ast.VarBinding{Name: name, Value: value}, true
}

func quoteForWarn(s string) string {
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return "`" + s + "`"
}
