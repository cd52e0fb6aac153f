package format

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrOperatorNotPermitted is recorded for operators outside the allowed set.
var ErrOperatorNotPermitted = errors.New("operator is not permitted")

var (
	// All operators allowed in `where` clauses.
	operators = map[string]struct{}{
		"=":        {},
		"<":        {},
		">":        {},
		"<=":       {},
		">=":       {},
		"<>":       {},
		"!=":       {},
		"like":     {},
		"not like": {},
		"between":  {},
		"ilike":    {},
	}

	// Valid `order by` directions.
	directions = map[string]struct{}{
		"asc":  {},
		"desc": {},
	}
)

// IsOperator reports whether op is an allowed comparison operator. The set is
// closed and matched exactly, so `LIKE` is not the same as `like`.
func IsOperator(op string) bool {
	_, ok := operators[op]
	return ok
}

// Operator validates a comparison operator. Raw fragments are spliced. Any
// other value outside the allowed set records ErrOperatorNotPermitted, but is
// still returned unchanged so the compilation can continue.
func (f *Formatter) Operator(v Value) string {
	switch v := v.(type) {
	case Raw, Sub:
		sql, _ := f.CheckRaw(v, false)
		return sql
	case Scalar:
		op := fmt.Sprint(v.V)
		if !IsOperator(op) {
			f.addError(errors.Wrapf(ErrOperatorNotPermitted, "%q", op))
		}

		return op
	default:
		f.addError(errors.Wrapf(ErrOperatorNotPermitted, "%T", v))
		return ""
	}
}

// Direction normalizes an `order by` direction to `asc` or `desc`. Raw
// fragments are spliced; anything unrecognized becomes `asc`.
func (f *Formatter) Direction(v Value) string {
	switch v := v.(type) {
	case Raw, Sub:
		sql, _ := f.CheckRaw(v, false)
		return sql
	case Scalar:
		s, _ := v.V.(string)
		s = strings.ToLower(s)
		if _, ok := directions[s]; ok {
			return s
		}
	}

	return "asc"
}
