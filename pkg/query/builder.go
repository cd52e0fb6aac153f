package query

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/format"
)

// Statement kinds understood by the compiler.
const (
	MethodSelect = "select"
	MethodInsert = "insert"
	MethodUpdate = "update"
	MethodDelete = "delete"

	// MethodWhere compiles only the builder's conditions. It is used for
	// grouped conditions.
	MethodWhere = "where"
)

type (
	// Builder accumulates the pieces of a single statement. Values are kept
	// as format.Value and are only rendered when the builder is compiled, so
	// binding order always follows the order of the final SQL text.
	Builder struct {
		client   *Client
		method   string
		table    format.Value
		columns  []format.Value
		distinct bool
		wheres   []clause
		orders   []order
		limit    *int
		offset   *int
		sets     []assignment
		rows     []map[string]any
	}

	clauseKind int

	clause struct {
		kind    clauseKind
		boolean string
		not     bool
		column  format.Value
		op      format.Value
		values  []format.Value
	}

	order struct {
		column    format.Value
		direction format.Value
	}

	assignment struct {
		column format.Value
		value  format.Value
	}
)

const (
	basicClause clauseKind = iota
	inClause
	betweenClause
	nullClause
	rawClause
	existsClause
	groupClause
)

// Sub adapts a typed builder callback to a format.Callback.
//
// Example:
//
//	b.WhereIn("id", query.Sub(func(q *query.Builder) {
//		q.Table("orders").Select("user_id")
//	}))
func Sub(fn func(*Builder)) format.Callback {
	return func(sb format.SubBuilder) {
		if b, ok := sb.(*Builder); ok && fn != nil {
			fn(b)
		}
	}
}

// valueOf is format.ValueOf plus support for plain func(*Builder) callbacks.
func valueOf(v any) format.Value {
	if fn, ok := v.(func(*Builder)); ok {
		return Sub(fn)
	}

	return format.ValueOf(v)
}

func valuesOf(vs []any) []format.Value {
	values := make([]format.Value, len(vs))
	for i, v := range vs {
		values[i] = valueOf(v)
	}

	return values
}

// Client returns the client that created the builder. Builders created
// outside a client use a default MySQL client.
func (b *Builder) Client() *Client {
	if b.client == nil {
		b.client = NewClient(nil)
	}

	return b.client
}

// Table sets the target table.
func (b *Builder) Table(table any) *Builder {
	b.table = valueOf(table)
	return b
}

// Select adds columns to the select list. With no columns, `*` is selected.
func (b *Builder) Select(columns ...any) *Builder {
	b.method = MethodSelect
	b.columns = append(b.columns, valuesOf(columns)...)
	return b
}

// Distinct makes the select distinct.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// Where adds `column op value` joined with `and`.
func (b *Builder) Where(column, op, value any) *Builder {
	return b.where("and", column, op, value)
}

// OrWhere adds `column op value` joined with `or`.
func (b *Builder) OrWhere(column, op, value any) *Builder {
	return b.where("or", column, op, value)
}

func (b *Builder) where(boolean string, column, op, value any) *Builder {
	b.wheres = append(b.wheres, clause{
		kind:    basicClause,
		boolean: boolean,
		column:  valueOf(column),
		op:      valueOf(op),
		values:  []format.Value{valueOf(value)},
	})
	return b
}

// WhereIn adds `column in (values...)`. A single callback or sub-builder value
// becomes a sub-query. An empty list matches nothing.
func (b *Builder) WhereIn(column any, values ...any) *Builder {
	return b.whereIn("and", false, column, values)
}

// OrWhereIn is WhereIn joined with `or`.
func (b *Builder) OrWhereIn(column any, values ...any) *Builder {
	return b.whereIn("or", false, column, values)
}

// WhereNotIn adds `column not in (values...)`. An empty list matches
// everything.
func (b *Builder) WhereNotIn(column any, values ...any) *Builder {
	return b.whereIn("and", true, column, values)
}

func (b *Builder) whereIn(boolean string, not bool, column any, values []any) *Builder {
	b.wheres = append(b.wheres, clause{
		kind:    inClause,
		boolean: boolean,
		not:     not,
		column:  valueOf(column),
		values:  valuesOf(values),
	})
	return b
}

// WhereBetween adds `column between low and high`.
func (b *Builder) WhereBetween(column, low, high any) *Builder {
	b.wheres = append(b.wheres, clause{
		kind:    betweenClause,
		boolean: "and",
		column:  valueOf(column),
		values:  []format.Value{valueOf(low), valueOf(high)},
	})
	return b
}

// WhereNull adds `column is null`.
func (b *Builder) WhereNull(column any) *Builder {
	return b.whereNull(false, column)
}

// WhereNotNull adds `column is not null`.
func (b *Builder) WhereNotNull(column any) *Builder {
	return b.whereNull(true, column)
}

func (b *Builder) whereNull(not bool, column any) *Builder {
	b.wheres = append(b.wheres, clause{
		kind:    nullClause,
		boolean: "and",
		not:     not,
		column:  valueOf(column),
	})
	return b
}

// WhereRaw adds a raw condition. The SQL is inserted verbatim with its
// bindings.
func (b *Builder) WhereRaw(sql string, bindings ...any) *Builder {
	b.wheres = append(b.wheres, clause{
		kind:    rawClause,
		boolean: "and",
		values:  []format.Value{format.NewRaw(sql, bindings...)},
	})
	return b
}

// WhereExists adds `exists (sub-query)`. The sub-query is a callback,
// func(*Builder), sub-builder or raw fragment.
func (b *Builder) WhereExists(sub any) *Builder {
	return b.whereExists(false, sub)
}

// WhereNotExists adds `not exists (sub-query)`.
func (b *Builder) WhereNotExists(sub any) *Builder {
	return b.whereExists(true, sub)
}

func (b *Builder) whereExists(not bool, sub any) *Builder {
	b.wheres = append(b.wheres, clause{
		kind:    existsClause,
		boolean: "and",
		not:     not,
		values:  []format.Value{valueOf(sub)},
	})
	return b
}

// WhereGroup adds a parenthesized group of conditions built by fn.
//
// Example:
//
//	b.Where("active", "=", true).WhereGroup(func(q *query.Builder) {
//		q.Where("role", "=", "admin").OrWhere("role", "=", "owner")
//	})
//	// ... where `active` = ? and (`role` = ? or `role` = ?)
func (b *Builder) WhereGroup(fn func(*Builder)) *Builder {
	return b.whereGroup("and", fn)
}

// OrWhereGroup is WhereGroup joined with `or`.
func (b *Builder) OrWhereGroup(fn func(*Builder)) *Builder {
	return b.whereGroup("or", fn)
}

func (b *Builder) whereGroup(boolean string, fn func(*Builder)) *Builder {
	b.wheres = append(b.wheres, clause{
		kind:    groupClause,
		boolean: boolean,
		values:  []format.Value{Sub(fn)},
	})
	return b
}

// OrderBy adds an `order by` term. Unknown directions become `asc`.
func (b *Builder) OrderBy(column, direction any) *Builder {
	b.orders = append(b.orders, order{column: valueOf(column), direction: valueOf(direction)})
	return b
}

// Limit sets the row limit. The value is bound.
func (b *Builder) Limit(n int) *Builder {
	b.limit = &n
	return b
}

// Offset sets the row offset. The value is bound.
func (b *Builder) Offset(n int) *Builder {
	b.offset = &n
	return b
}

// Set adds a `column = value` assignment and makes the builder an update.
func (b *Builder) Set(column string, value any) *Builder {
	b.method = MethodUpdate
	b.sets = append(b.sets, assignment{column: format.ValueOf(column), value: valueOf(value)})
	return b
}

// Insert adds rows and makes the builder an insert. Columns are the sorted
// union of all row keys; a row missing a column gets `default`.
func (b *Builder) Insert(rows ...map[string]any) *Builder {
	b.method = MethodInsert
	b.rows = append(b.rows, rows...)
	return b
}

// Delete makes the builder a delete.
func (b *Builder) Delete() *Builder {
	b.method = MethodDelete
	return b
}

// Method returns the statement kind the builder compiles to by default.
func (b *Builder) Method() string {
	if b.method == "" {
		return MethodSelect
	}

	return b.method
}

// ToSQL compiles the builder with a fresh formatter, using `?` placeholders.
// It implements format.SubBuilder, so a Builder can be spliced into another
// query.
//
// The compiled SQL is returned even when formatting errors were recorded
// (for example an operator outside the allowed set); those are reported
// together as the error.
func (b *Builder) ToSQL() (format.Compiled, error) {
	f := b.Client().Formatter()

	sql, err := newCompiler(b, f).compile(b.Method())
	if err != nil {
		return format.Compiled{}, err
	}

	return format.Compiled{SQL: sql, Bindings: f.Bindings()}, errors.Wrap(f.Err(), "invalid query")
}

// Query compiles the builder for execution. Placeholders are rewritten for
// the client's dialect, and any recorded formatting error fails the query.
func (b *Builder) Query() (string, []any, error) {
	c, err := b.ToSQL()
	if err != nil {
		return "", nil, err
	}

	sql, err := dialect.Rebind(b.Client().Dialect(), c.SQL)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to rebind placeholders")
	}

	return sql, c.Bindings, nil
}
