package format

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/sqltext"
)

// ErrBindingMismatch is returned by CheckedRaw when the number of placeholders
// in the SQL text does not match the number of bindings.
var ErrBindingMismatch = errors.New("placeholder count does not match bindings")

type (
	// Value is a builder-level value handed to the Formatter. It is one of
	// Scalar, Raw, Sub or Callback.
	Value interface {
		isValue()
	}

	// Scalar is an ordinary bind value.
	Scalar struct {
		V any
	}

	// Raw is a literal SQL fragment along with the bindings for its own
	// placeholders. It is inserted verbatim, bypassing parameterization.
	Raw struct {
		sql      string
		bindings []any
	}

	// Sub wraps a nested builder that compiles independently.
	Sub struct {
		Builder SubBuilder
	}

	// Callback fills in a fresh builder supplied by the formatter's Client.
	Callback func(SubBuilder)

	// Compiled is the result of compiling a builder.
	Compiled struct {
		SQL      string
		Bindings []any
	}

	// SubBuilder is any nested query-construction object that can compile
	// itself to SQL text with `?` placeholders plus ordered bindings.
	SubBuilder interface {
		ToSQL() (Compiled, error)
	}

	// Client is supplied by the surrounding compiler. It creates the builder
	// passed to a Callback and compiles that builder using the given formatter
	// as its binding sink.
	Client interface {
		NewBuilder() SubBuilder
		CompileWith(b SubBuilder, f *Formatter, method string) (string, error)
	}
)

func (Scalar) isValue()   {}
func (Raw) isValue()      {}
func (Sub) isValue()      {}
func (Callback) isValue() {}

// NewRaw creates a Raw fragment. The bindings are copied.
func NewRaw(sql string, bindings ...any) Raw {
	return Raw{sql: sql, bindings: slices.Clone(bindings)}
}

// CheckedRaw is like NewRaw but verifies that sql contains exactly one
// placeholder per binding. Placeholders inside string literals, quoted
// identifiers and comments are not counted. Literals are scanned the way
// dialect.MySQL escapes them; use CheckedRawFor for other dialects.
//
// Example:
//
//	r, err := format.CheckedRaw("created_at > now() - interval ? day", 7)
func CheckedRaw(sql string, bindings ...any) (Raw, error) {
	return CheckedRawFor(dialect.MySQL, sql, bindings...)
}

// CheckedRawFor is CheckedRaw with string literals scanned according to d.
func CheckedRawFor(d dialect.Dialect, sql string, bindings ...any) (Raw, error) {
	n, err := sqltext.CountPlaceholders(sql, d.Syntax())
	if err != nil {
		return Raw{}, errors.Wrapf(err, "failed to check raw SQL: %s", sql)
	}

	if n != len(bindings) {
		return Raw{}, errors.Wrapf(ErrBindingMismatch, "%d placeholders, %d bindings in %q", n, len(bindings), sql)
	}

	return NewRaw(sql, bindings...), nil
}

// SQL returns the fragment's SQL text.
func (r Raw) SQL() string { return r.sql }

// Bindings returns a copy of the fragment's bindings.
func (r Raw) Bindings() []any { return slices.Clone(r.bindings) }

// ValueOf lifts an arbitrary Go value into a Value:
//   - a Value is returned as is
//   - a SubBuilder becomes a Sub
//   - a func(SubBuilder) becomes a Callback
//   - anything else (including nil) becomes a Scalar
func ValueOf(v any) Value {
	switch v := v.(type) {
	case Value:
		return v
	case SubBuilder:
		return Sub{Builder: v}
	case func(SubBuilder):
		return Callback(v)
	default:
		return Scalar{V: v}
	}
}

// Values lifts each element of vs with ValueOf.
func Values(vs ...any) []Value {
	values := make([]Value, len(vs))
	for i, v := range vs {
		values[i] = ValueOf(v)
	}

	return values
}
