// Package lexer implements the lexical primitives of spec section 4.1:
// scanning keys, paths, identifiers, numbers, string/file literals, and the
// balanced-brace variable block, over the raw map-file text.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bapicore/dmm/token"
)

// Lexer is a position-tracking scanner over a single map document's text.
// Every Scan* method either advances past the construct it recognizes and
// returns ok == true, or leaves the lexer untouched and returns ok == false,
// so callers can freely try alternatives (the literal grammar's ordered
// choice, §4.2).
type Lexer struct {
	input string

	pos     int // byte offset of ch
	readPos int // byte offset of the next rune
	ch      rune
	width   int // byte width of ch

	line   int
	column int
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Checkpoint is an opaque saved lexer position, used for backtracking.
type Checkpoint struct {
	pos, readPos int
	ch           rune
	width, line  int
	col          int
}

// Save captures the current position for later Restore.
func (l *Lexer) Save() Checkpoint {
	return Checkpoint{l.pos, l.readPos, l.ch, l.width, l.line, l.column}
}

// Restore rewinds the lexer to a previously saved position.
func (l *Lexer) Restore(c Checkpoint) {
	l.pos, l.readPos, l.ch, l.width, l.line, l.column = c.pos, c.readPos, c.ch, c.width, c.line, c.col
}

// Pos returns the current source position.
func (l *Lexer) Pos() token.Pos {
	return token.Pos{Offset: l.pos, Line: l.line, Column: l.column}
}

// AtEOF reports whether the lexer has consumed all input.
func (l *Lexer) AtEOF() bool {
	return l.ch == 0
}

// Rest returns the unconsumed suffix of the input, starting at the current
// position. Used by the dispatcher to hand a suffix to a fresh Lexer.
func (l *Lexer) Rest() string {
	return l.input[l.pos:]
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.width = 0
		l.pos = l.readPos
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.width = w
	l.pos = l.readPos
	l.readPos += w
	l.column++
	if r == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func isLetter(ch rune) bool {
	return isASCIILetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHSpace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}

func isLineBreak(ch rune) bool {
	return ch == '\n' || ch == '\r'
}

// SkipWhitespace consumes any run of spaces, tabs, and line breaks. The
// grammar allows free whitespace (including newlines, for the tabular
// dialect) almost everywhere except inside the prefab-key pattern itself.
func (l *Lexer) SkipWhitespace() {
	for isHSpace(l.ch) || isLineBreak(l.ch) {
		l.readChar()
	}
}

// SkipHorizontalSpace consumes spaces and tabs only, never line breaks.
func (l *Lexer) SkipHorizontalSpace() {
	for isHSpace(l.ch) {
		l.readChar()
	}
}

// SkipLineBreak consumes a single optional CRLF or LF line break.
func (l *Lexer) SkipLineBreak() {
	if l.ch == '\r' {
		l.readChar()
	}
	if l.ch == '\n' {
		l.readChar()
	}
}

// ScanKey recognizes spec §4.1's prefab key: a quoted run of alphabetic
// characters followed by horizontal space, '=', horizontal space, '('. It
// does not itself consume the trailing '(' — callers detect the tabular
// dialect by checking whether a line break immediately follows it.
func (l *Lexer) ScanKey() (key string, ok bool) {
	cp := l.Save()
	if l.ch != '"' {
		return "", false
	}
	l.readChar()
	start := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	if l.pos == start {
		l.Restore(cp)
		return "", false
	}
	key = l.input[start:l.pos]
	if l.ch != '"' {
		l.Restore(cp)
		return "", false
	}
	l.readChar()
	if !isHSpace(l.ch) {
		l.Restore(cp)
		return "", false
	}
	l.SkipHorizontalSpace()
	if l.ch != '=' {
		l.Restore(cp)
		return "", false
	}
	l.readChar()
	if !isHSpace(l.ch) {
		l.Restore(cp)
		return "", false
	}
	l.SkipHorizontalSpace()
	if l.ch != '(' {
		l.Restore(cp)
		return "", false
	}
	return key, true
}

// ScanPath recognizes a '/'-prefixed path: /[A-Za-z0-9_/]+.
func (l *Lexer) ScanPath() (string, bool) {
	if l.ch != '/' {
		return "", false
	}
	start := l.pos
	l.readChar()
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '/' {
		l.readChar()
	}
	return l.input[start:l.pos], true
}

// ScanIdent recognizes [A-Za-z_][A-Za-z0-9_]*.
func (l *Lexer) ScanIdent() (string, bool) {
	if !isLetter(l.ch) && l.ch != '_' {
		return "", false
	}
	start := l.pos
	l.readChar()
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos], true
}

// ScanNumber recognizes a decimal float (with optional scientific notation)
// or a signed integer, returning it promoted to float32 per spec §3.
func (l *Lexer) ScanNumber() (float32, bool) {
	cp := l.Save()
	start := l.pos
	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}
	digitsStart := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	sawDigits := l.pos > digitsStart
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if !sawDigits && !isFloat {
		l.Restore(cp)
		return 0, false
	}
	if l.ch == 'e' || l.ch == 'E' {
		expCp := l.Save()
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			isFloat = true
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.Restore(expCp)
		}
	}
	text := l.input[start:l.pos]
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		l.Restore(cp)
		return 0, false
	}
	return float32(v), true
}

// ScanString recognizes a double-quoted string literal. `\"` is consumed as
// a literal escape and does not end the string; the returned slice excludes
// the surrounding quotes but keeps escapes verbatim.
func (l *Lexer) ScanString() (string, bool) {
	return l.scanQuoted('"')
}

// ScanFile recognizes a single-quoted file literal, with the `\'` escape.
func (l *Lexer) ScanFile() (string, bool) {
	return l.scanQuoted('\'')
}

func (l *Lexer) scanQuoted(quote rune) (string, bool) {
	if l.ch != quote {
		return "", false
	}
	cp := l.Save()
	l.readChar()
	start := l.pos
	for {
		if l.ch == 0 {
			l.Restore(cp)
			return "", false
		}
		if l.ch == '\\' && l.peekChar() == quote {
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == quote {
			body := l.input[start:l.pos]
			l.readChar()
			return body, true
		}
		l.readChar()
	}
}

// ScanBalancedBraces recognizes the prefab variable block: a '{'-delimited
// span where `"..."` spans are atomic, so a '}' inside a string literal
// does not close the block. The returned slice includes both braces.
func (l *Lexer) ScanBalancedBraces() (string, bool) {
	if l.ch != '{' {
		return "", false
	}
	cp := l.Save()
	start := l.pos
	depth := 0
	inStr := false
	for {
		switch {
		case l.ch == 0:
			l.Restore(cp)
			return "", false
		case inStr && l.ch == '\\' && l.peekChar() == '"':
			l.readChar()
			l.readChar()
			continue
		case l.ch == '"':
			inStr = !inStr
		case l.ch == '{' && !inStr:
			depth++
		case l.ch == '}' && !inStr:
			depth--
			if depth == 0 {
				l.readChar()
				return l.input[start:l.pos], true
			}
		}
		l.readChar()
	}
}

// ScanLetters recognizes a run of one or more ASCII letters — the grammar
// for a block row's key sequence and for a single fixed-width key segment.
func (l *Lexer) ScanLetters() (string, bool) {
	if !isASCIILetter(l.ch) {
		return "", false
	}
	start := l.pos
	for isASCIILetter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos], true
}

func isASCIILetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// ScanUint recognizes an unsigned decimal integer, used by the block
// anchor's coordinate triple.
func (l *Lexer) ScanUint() (int, bool) {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.pos == start {
		return 0, false
	}
	v, err := strconv.Atoi(l.input[start:l.pos])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ScanBareWord reads a run of non-whitespace runes up to (not including)
// the first rune in terminators, whitespace, or EOF. It backs both the
// Fallback(str) recovery rule (§4.2) and the bare associative-list key
// rule (§4.2: an identifier terminated by a following space or '=').
func (l *Lexer) ScanBareWord(terminators string) (string, bool) {
	start := l.pos
	for l.ch != 0 && !isHSpace(l.ch) && !isLineBreak(l.ch) && strings.IndexRune(terminators, l.ch) < 0 {
		l.readChar()
	}
	if l.pos == start {
		return "", false
	}
	return l.input[start:l.pos], true
}

// Next consumes and returns the current rune, or 0 at EOF. Used by callers
// that capture a raw span verbatim (the block-row grammar, §4.5) rather
// than matching a specific construct.
func (l *Lexer) Next() rune {
	r := l.ch
	if r != 0 {
		l.readChar()
	}
	return r
}

// Expect consumes the current rune if it equals ch, reporting success.
func (l *Lexer) Expect(ch rune) bool {
	if l.ch != ch {
		return false
	}
	l.readChar()
	return true
}

// Peek returns the current rune without consuming it.
func (l *Lexer) Peek() rune {
	return l.ch
}

// HasPrefix reports whether the unconsumed input starts with s, without
// consuming anything.
func (l *Lexer) HasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}
