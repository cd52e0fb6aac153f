package format

import (
	stderrors "errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
)

// DefaultMethod is the statement kind compiled for a callback when none is
// requested.
const DefaultMethod = "select"

var (
	// ErrNoClient is recorded when a callback is compiled by a formatter that
	// has no Client.
	ErrNoClient = errors.New("formatter has no client to compile callbacks")

	// ErrNilBuilder is recorded when a Sub carries no builder.
	ErrNilBuilder = errors.New("sub-query builder is nil")
)

type (
	// FormatterOptions controls formatting behavior
	FormatterOptions struct {
		// Dialect supplies identifier quoting. Defaults to dialect.MySQL.
		Dialect dialect.Dialect
		// Client builds and compiles callback sub-queries. Without one,
		// callbacks compile to an empty string and record ErrNoClient.
		Client Client
	}

	// Formatter renders values as SQL fragments while collecting the bindings
	// and validation errors of a single query compilation.
	//
	// A Formatter is not safe for concurrent use, and must not be shared
	// between unrelated queries: binding order is derived purely from call
	// order.
	Formatter struct {
		dialect  dialect.Dialect
		client   Client
		bindings []any
		errors   []error
	}
)

// Defaults is the standard set of formatter options.
var Defaults = FormatterOptions{Dialect: dialect.MySQL}

// New creates a new Formatter with the specified options
func New(opts FormatterOptions) *Formatter {
	if opts.Dialect == nil {
		opts.Dialect = dialect.MySQL
	}

	return &Formatter{dialect: opts.Dialect, client: opts.Client}
}

// NewDefault creates a new Formatter with default options
func NewDefault() *Formatter {
	return New(Defaults)
}

// Dialect returns the dialect used for identifier quoting.
func (f *Formatter) Dialect() dialect.Dialect { return f.dialect }

// Bindings returns the bind values collected so far, in placeholder order.
func (f *Formatter) Bindings() []any { return slices.Clone(f.bindings) }

// Errors returns the errors recorded so far, in the order they occurred.
func (f *Formatter) Errors() []error { return slices.Clone(f.errors) }

// Err returns all recorded errors joined together, or nil if there are none.
func (f *Formatter) Err() error {
	return stderrors.Join(f.errors...)
}

// Parameterize renders each value with Parameter and joins the results with
// ", ".
//
// Example:
//
//	f.Parameterize(format.Values(1, 2, format.NewRaw("now()"))...)
//	// "?, ?, now()" with bindings [1 2]
func (f *Formatter) Parameterize(values ...Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = f.Parameter(v)
	}

	return strings.Join(parts, ", ")
}

// Parameter renders a single value. Callbacks compile to a parenthesized
// sub-query, raw fragments and sub-builders are spliced in, and everything
// else is bound and rendered as `?`.
func (f *Formatter) Parameter(v Value) string {
	if cb, ok := v.(Callback); ok {
		return "(" + f.CompileCallback(cb, DefaultMethod) + ")"
	}

	if sql, ok := f.CheckRaw(v, true); ok {
		return sql
	}

	return "?"
}

// CheckRaw splices raw fragments and sub-queries. For a Raw or Sub (or a
// Callback, which is compiled unparenthesized) it appends the value's
// bindings and returns its SQL with ok set to true.
//
// Any other value is not a raw escape and ok is false. When parameter is true
// the value is bound before returning, so the caller is expected to emit a
// `?` for it.
func (f *Formatter) CheckRaw(v Value, parameter bool) (sql string, ok bool) {
	switch v := v.(type) {
	case Sub:
		return f.splice(v.Builder), true
	case Raw:
		f.bindings = append(f.bindings, v.bindings...)
		return v.sql, true
	case Callback:
		return f.CompileCallback(v, DefaultMethod), true
	case Scalar:
		if parameter {
			f.bindings = append(f.bindings, v.V)
		}
	case nil:
		if parameter {
			f.bindings = append(f.bindings, nil)
		}
	}

	return "", false
}

// RawOrFn renders a value that must be a sub-query or a raw escape, never an
// ordinary scalar. Non-empty results are parenthesized when wrap is true; a
// value that produces no SQL yields "".
func (f *Formatter) RawOrFn(v Value, wrap bool) string {
	sql, _ := f.CheckRaw(v, false)
	if sql == "" {
		return ""
	}

	if wrap {
		return "(" + sql + ")"
	}

	return sql
}

// CompileCallback builds a fresh builder from the formatter's Client, runs cb
// against it and compiles the result as the requested statement kind. The
// compilation shares this formatter, so the callback's bindings are appended
// here in order. An empty method compiles DefaultMethod.
func (f *Formatter) CompileCallback(cb Callback, method string) string {
	if method == "" {
		method = DefaultMethod
	}

	if f.client == nil {
		f.addError(ErrNoClient)
		return ""
	}

	b := f.client.NewBuilder()
	if cb != nil {
		cb(b)
	}

	sql, err := f.client.CompileWith(b, f, method)
	if err != nil {
		f.addError(errors.Wrapf(err, "failed to compile %s callback", method))
	}

	return sql
}

func (f *Formatter) splice(b SubBuilder) string {
	if b == nil {
		f.addError(ErrNilBuilder)
		return ""
	}

	c, err := b.ToSQL()
	if err != nil {
		f.addError(errors.Wrap(err, "failed to compile sub-query"))
	}

	f.bindings = append(f.bindings, c.Bindings...)
	return c.SQL
}

func (f *Formatter) addError(err error) {
	slog.Debug("Recorded formatting error", "err", err)
	f.errors = append(f.errors, err)
}
