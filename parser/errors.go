package parser

import (
	"fmt"

	"github.com/bapicore/dmm/token"
)

// ParseError is a fatal, located parse failure (spec §7): the whole parse
// fails with the first one encountered. Pos and LastOK both hold the
// position at which the parser stopped: every parser in this package sets
// the two fields to the same value, and the offset at which the failing
// construct started is not recorded separately.
type ParseError struct {
	Pos    token.Pos
	LastOK token.Pos
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dmm: parse error at %s (last parsed at %s): %s", e.Pos, e.LastOK, e.Reason)
}

func newErr(at, lastOK token.Pos, reason string, args ...any) error {
	return &ParseError{Pos: at, LastOK: lastOK, Reason: fmt.Sprintf(reason, args...)}
}
