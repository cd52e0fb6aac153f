package query

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/format"
)

var (
	// ErrUnsupportedMethod is returned when compiling an unknown statement kind.
	ErrUnsupportedMethod = errors.New("unsupported statement kind")

	// ErrNoTable is returned when an insert, update or delete has no table.
	ErrNoTable = errors.New("statement requires a table")

	// ErrNoAssignments is returned when an update has nothing to set.
	ErrNoAssignments = errors.New("update requires at least one assignment")

	// ErrNoRows is returned when an insert has no rows or no columns.
	ErrNoRows = errors.New("insert requires at least one row")
)

// compiler renders a Builder through a formatter. Every fragment is rendered
// in the order it appears in the final SQL, which keeps the formatter's
// bindings aligned with the placeholders.
type compiler struct {
	b *Builder
	f *format.Formatter
}

func newCompiler(b *Builder, f *format.Formatter) *compiler {
	return &compiler{b: b, f: f}
}

func (c *compiler) compile(method string) (string, error) {
	switch method {
	case MethodSelect:
		return c.selectSQL(), nil
	case MethodInsert:
		return c.insertSQL()
	case MethodUpdate:
		return c.updateSQL()
	case MethodDelete:
		return c.deleteSQL()
	case MethodWhere:
		return c.conditions(), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedMethod, "%q", method)
	}
}

func (c *compiler) selectSQL() string {
	var sql strings.Builder

	sql.WriteString("select ")
	if c.b.distinct {
		sql.WriteString("distinct ")
	}

	if len(c.b.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(c.f.Columnize(c.b.columns...))
	}

	if c.b.table != nil {
		sql.WriteString(" from ")
		sql.WriteString(c.f.Wrap(c.b.table))
	}

	sql.WriteString(c.where())

	if len(c.b.orders) > 0 {
		terms := make([]string, len(c.b.orders))
		for i, o := range c.b.orders {
			column := c.f.Wrap(o.column)
			terms[i] = column + " " + c.f.Direction(o.direction)
		}

		sql.WriteString(" order by ")
		sql.WriteString(strings.Join(terms, ", "))
	}

	if c.b.limit != nil {
		sql.WriteString(" limit ")
		sql.WriteString(c.f.Parameter(format.Scalar{V: *c.b.limit}))
	}

	if c.b.offset != nil {
		sql.WriteString(" offset ")
		sql.WriteString(c.f.Parameter(format.Scalar{V: *c.b.offset}))
	}

	return sql.String()
}

func (c *compiler) insertSQL() (string, error) {
	if c.b.table == nil {
		return "", errors.Wrap(ErrNoTable, MethodInsert)
	}

	columns := insertColumns(c.b.rows)
	if len(columns) == 0 {
		return "", ErrNoRows
	}

	table := c.f.Wrap(c.b.table)

	names := make([]format.Value, len(columns))
	for i, col := range columns {
		names[i] = format.ValueOf(col)
	}
	columnList := c.f.Columnize(names...)

	rows := make([]string, len(c.b.rows))
	for i, row := range c.b.rows {
		values := make([]format.Value, len(columns))
		for j, col := range columns {
			v, ok := row[col]
			if !ok {
				values[j] = format.NewRaw("default")
				continue
			}

			values[j] = valueOf(v)
		}

		rows[i] = "(" + c.f.Parameterize(values...) + ")"
	}

	return "insert into " + table + " (" + columnList + ") values " + strings.Join(rows, ", "), nil
}

func (c *compiler) updateSQL() (string, error) {
	if c.b.table == nil {
		return "", errors.Wrap(ErrNoTable, MethodUpdate)
	}

	if len(c.b.sets) == 0 {
		return "", ErrNoAssignments
	}

	table := c.f.Wrap(c.b.table)

	sets := make([]string, len(c.b.sets))
	for i, a := range c.b.sets {
		column := c.f.Wrap(a.column)
		sets[i] = column + " = " + c.f.Parameter(a.value)
	}

	return "update " + table + " set " + strings.Join(sets, ", ") + c.where(), nil
}

func (c *compiler) deleteSQL() (string, error) {
	if c.b.table == nil {
		return "", errors.Wrap(ErrNoTable, MethodDelete)
	}

	table := c.f.Wrap(c.b.table)
	return "delete from " + table + c.where(), nil
}

func (c *compiler) where() string {
	if conds := c.conditions(); conds != "" {
		return " where " + conds
	}

	return ""
}

// conditions joins the rendered clauses with their booleans. Clauses that
// render to nothing (an empty group) are skipped.
func (c *compiler) conditions() string {
	parts := make([]string, 0, len(c.b.wheres)*2)
	for _, cl := range c.b.wheres {
		sql := c.clause(cl)
		if sql == "" {
			continue
		}

		if len(parts) > 0 {
			parts = append(parts, cl.boolean)
		}
		parts = append(parts, sql)
	}

	return strings.Join(parts, " ")
}

func (c *compiler) clause(cl clause) string {
	switch cl.kind {
	case basicClause:
		column := c.f.Wrap(cl.column)
		op := c.f.Operator(cl.op)
		return column + " " + op + " " + c.f.Parameter(cl.values[0])
	case inClause:
		return c.in(cl)
	case betweenClause:
		column := c.f.Wrap(cl.column)
		low := c.f.Parameter(cl.values[0])
		return column + " between " + low + " and " + c.f.Parameter(cl.values[1])
	case nullClause:
		if cl.not {
			return c.f.Wrap(cl.column) + " is not null"
		}
		return c.f.Wrap(cl.column) + " is null"
	case rawClause:
		return c.f.RawOrFn(cl.values[0], false)
	case existsClause:
		keyword := "exists "
		if cl.not {
			keyword = "not exists "
		}
		return keyword + c.f.RawOrFn(cl.values[0], true)
	case groupClause:
		cb, _ := cl.values[0].(format.Callback)
		if inner := c.f.CompileCallback(cb, MethodWhere); inner != "" {
			return "(" + inner + ")"
		}
	}

	return ""
}

func (c *compiler) in(cl clause) string {
	if len(cl.values) == 0 {
		if cl.not {
			return "1 = 1"
		}
		return "1 = 0"
	}

	keyword := " in "
	if cl.not {
		keyword = " not in "
	}

	column := c.f.Wrap(cl.column)
	if len(cl.values) == 1 {
		switch cl.values[0].(type) {
		case format.Callback, format.Sub:
			return column + keyword + c.f.RawOrFn(cl.values[0], true)
		}
	}

	return column + keyword + "(" + c.f.Parameterize(cl.values...) + ")"
}

// insertColumns returns the sorted union of the keys of rows.
func insertColumns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	columns := make([]string, 0)
	for _, row := range rows {
		for col := range row {
			if _, ok := seen[col]; ok {
				continue
			}

			seen[col] = struct{}{}
			columns = append(columns, col)
		}
	}

	slices.Sort(columns)
	return columns
}
