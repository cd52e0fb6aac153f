package format_test

import (
	. "github.com/pseudomuto/sqlfrag/pkg/format"
)

// stubBuilder is a tiny stand-in for a query builder. It compiles to
// "<method> <table>" followed by a `where c in (...)` clause when args are set.
type stubBuilder struct {
	table    string
	args     []Value
	err      error
	compiled *Compiled
}

func (b *stubBuilder) ToSQL() (Compiled, error) {
	if b.compiled != nil {
		return *b.compiled, b.err
	}

	f := New(FormatterOptions{Client: stubClient{}})
	sql, err := stubClient{}.CompileWith(b, f, DefaultMethod)
	return Compiled{SQL: sql, Bindings: f.Bindings()}, err
}

type stubClient struct{}

func (stubClient) NewBuilder() SubBuilder { return &stubBuilder{} }

func (stubClient) CompileWith(sb SubBuilder, f *Formatter, method string) (string, error) {
	b := sb.(*stubBuilder)

	sql := method + " " + b.table
	if len(b.args) > 0 {
		sql += " where c in (" + f.Parameterize(b.args...) + ")"
	}

	return sql, b.err
}

// sub returns a Callback that configures the stub builder.
func sub(table string, args ...any) Callback {
	return func(sb SubBuilder) {
		b := sb.(*stubBuilder)
		b.table = table
		b.args = Values(args...)
	}
}

func newFormatter() *Formatter {
	return New(FormatterOptions{Client: stubClient{}})
}
