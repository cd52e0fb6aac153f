package query_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/format"
	. "github.com/pseudomuto/sqlfrag/pkg/query"
	"github.com/stretchr/testify/require"
)

func TestBuilder_ToSQL(t *testing.T) {
	c := NewClient(nil)

	tests := []struct {
		name     string
		builder  *Builder
		sql      string
		bindings []any
	}{
		{
			name:    "select all",
			builder: c.Table("users"),
			sql:     "select * from `users`",
		},
		{
			name:    "columns and aliases",
			builder: c.Table("users as u").Select("u.id", "u.name as n"),
			sql:     "select `u`.`id`, `u`.`name` as `n` from `users` as `u`",
		},
		{
			name:    "distinct",
			builder: c.Table("users").Select("name").Distinct(),
			sql:     "select distinct `name` from `users`",
		},
		{
			name:     "and/or conditions",
			builder:  c.Table("users").Where("age", ">", 18).OrWhere("name", "like", "b%"),
			sql:      "select * from `users` where `age` > ? or `name` like ?",
			bindings: []any{18, "b%"},
		},
		{
			name:     "in list",
			builder:  c.Table("users").WhereIn("id", 1, 2, 3),
			sql:      "select * from `users` where `id` in (?, ?, ?)",
			bindings: []any{1, 2, 3},
		},
		{
			name:    "empty in list",
			builder: c.Table("users").WhereIn("id").WhereNotIn("role"),
			sql:     "select * from `users` where 1 = 0 and 1 = 1",
		},
		{
			name: "in sub-builder",
			builder: c.Table("users").
				WhereIn("id", c.Table("orders").Select("user_id").Where("total", ">", 100)),
			sql:      "select * from `users` where `id` in (select `user_id` from `orders` where `total` > ?)",
			bindings: []any{100},
		},
		{
			name:     "between and null checks",
			builder:  c.Table("users").WhereBetween("age", 18, 65).WhereNull("deleted_at").WhereNotNull("email"),
			sql:      "select * from `users` where `age` between ? and ? and `deleted_at` is null and `email` is not null",
			bindings: []any{18, 65},
		},
		{
			name:     "raw condition",
			builder:  c.Table("users").Where("id", ">", 5).WhereRaw("lower(name) = ?", "bob"),
			sql:      "select * from `users` where `id` > ? and lower(name) = ?",
			bindings: []any{5, "bob"},
		},
		{
			name: "exists",
			builder: c.Table("users").WhereExists(func(q *Builder) {
				q.Table("orders").Where("orders.user_id", "=", format.NewRaw("`users`.`id`"))
			}),
			sql: "select * from `users` where exists (select * from `orders` where `orders`.`user_id` = `users`.`id`)",
		},
		{
			name:     "not exists raw",
			builder:  c.Table("users").WhereNotExists(format.NewRaw("select 1 from bans where level > ?", 2)),
			sql:      "select * from `users` where not exists (select 1 from bans where level > ?)",
			bindings: []any{2},
		},
		{
			name: "grouped conditions",
			builder: c.Table("users").Where("active", "=", true).WhereGroup(func(q *Builder) {
				q.Where("role", "=", "admin").OrWhere("role", "=", "owner")
			}),
			sql:      "select * from `users` where `active` = ? and (`role` = ? or `role` = ?)",
			bindings: []any{true, "admin", "owner"},
		},
		{
			name: "or group",
			builder: c.Table("users").Where("a", "=", 1).OrWhereGroup(func(q *Builder) {
				q.Where("b", "=", 2).Where("c", "=", 3)
			}),
			sql:      "select * from `users` where `a` = ? or (`b` = ? and `c` = ?)",
			bindings: []any{1, 2, 3},
		},
		{
			name:    "empty group is skipped",
			builder: c.Table("users").WhereGroup(func(*Builder) {}),
			sql:     "select * from `users`",
		},
		{
			name:     "order, limit and offset",
			builder:  c.Table("users").OrderBy("name", "DESC").OrderBy("id", "sideways").Limit(10).Offset(20),
			sql:      "select * from `users` order by `name` desc, `id` asc limit ? offset ?",
			bindings: []any{10, 20},
		},
		{
			name:     "insert",
			builder:  c.Table("users").Insert(map[string]any{"name": "bob", "age": 3}, map[string]any{"name": "sue"}),
			sql:      "insert into `users` (`age`, `name`) values (?, ?), (default, ?)",
			bindings: []any{3, "bob", "sue"},
		},
		{
			name:     "insert raw value",
			builder:  c.Table("users").Insert(map[string]any{"name": "bob", "created_at": format.NewRaw("now()")}),
			sql:      "insert into `users` (`created_at`, `name`) values (now(), ?)",
			bindings: []any{"bob"},
		},
		{
			name:     "update",
			builder:  c.Table("users").Set("name", "bob").Set("age", 4).Where("id", "=", 1),
			sql:      "update `users` set `name` = ?, `age` = ? where `id` = ?",
			bindings: []any{"bob", 4, 1},
		},
		{
			name:     "delete",
			builder:  c.Table("users").Delete().Where("id", "=", 1),
			sql:      "delete from `users` where `id` = ?",
			bindings: []any{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := tt.builder.ToSQL()
			require.NoError(t, err)
			require.Equal(t, tt.sql, compiled.SQL)

			if tt.bindings == nil {
				require.Empty(t, compiled.Bindings)
			} else {
				require.Equal(t, tt.bindings, compiled.Bindings)
			}
		})
	}
}

func TestBuilder_nestedBindingOrder(t *testing.T) {
	c := NewClient(nil)

	t.Run("sub-query between siblings", func(t *testing.T) {
		compiled, err := c.Table("users").
			Where("a", "=", "va").
			WhereIn("b", Sub(func(q *Builder) {
				q.Table("orders").Select("user_id").Where("c", "=", "vc")
			})).
			Where("d", "=", "vd").
			ToSQL()

		require.NoError(t, err)
		require.Equal(
			t,
			"select * from `users` where `a` = ? and `b` in (select `user_id` from `orders` where `c` = ?) and `d` = ?",
			compiled.SQL,
		)
		require.Equal(t, []any{"va", "vc", "vd"}, compiled.Bindings)
	})

	t.Run("deeply nested", func(t *testing.T) {
		compiled, err := c.Table("t1").
			Where("a", "=", 1).
			WhereIn("b", Sub(func(q *Builder) {
				q.Table("t2").Select("b").Where("c", "=", 2).WhereIn("d", Sub(func(q *Builder) {
					q.Table("t3").Select("d").Where("e", "=", 3).WhereExists(func(q *Builder) {
						q.Table("t4").Where("f", "=", 4)
					})
				})).Where("g", "=", 5)
			})).
			OrderBy("a", "asc").
			Limit(6).
			ToSQL()

		require.NoError(t, err)
		require.Equal(
			t,
			"select * from `t1` where `a` = ? and `b` in (select `b` from `t2` where `c` = ? and `d` in "+
				"(select `d` from `t3` where `e` = ? and exists (select * from `t4` where `f` = ?)) and `g` = ?) "+
				"order by `a` asc limit ?",
			compiled.SQL,
		)
		require.Equal(t, []any{1, 2, 3, 4, 5, 6}, compiled.Bindings)
	})

	t.Run("spliced builder in update", func(t *testing.T) {
		compiled, err := c.Table("users").
			Set("score", format.NewRaw("score + ?", 10)).
			WhereIn("id", c.Table("winners").Select("user_id").Where("round", "=", 3)).
			ToSQL()

		require.NoError(t, err)
		require.Equal(
			t,
			"update `users` set `score` = score + ? where `id` in (select `user_id` from `winners` where `round` = ?)",
			compiled.SQL,
		)
		require.Equal(t, []any{10, 3}, compiled.Bindings)
	})
}

func TestBuilder_Query(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		sql, args, err := NewClient(dialect.Postgres).
			Table("users as u").
			Select("u.id").
			Where("u.age", ">", 18).
			WhereIn("u.id", Sub(func(q *Builder) {
				q.Table("orders").Select("user_id").Where("total", ">", 100)
			})).
			OrderBy("u.name", "desc").
			Limit(10).
			Query()

		require.NoError(t, err)
		require.Equal(
			t,
			`select "u"."id" from "users" as "u" where "u"."age" > $1 and "u"."id" in `+
				`(select "user_id" from "orders" where "total" > $2) order by "u"."name" desc limit $3`,
			sql,
		)
		require.Equal(t, []any{18, 100, 10}, args)
	})

	t.Run("question marks in literals are kept", func(t *testing.T) {
		sql, args, err := NewClient(dialect.Postgres).
			Table("notes").
			WhereRaw("body <> '?'").
			Where("id", "=", 1).
			Query()

		require.NoError(t, err)
		require.Equal(t, `select * from "notes" where body <> '?' and "id" = $1`, sql)
		require.Equal(t, []any{1}, args)
	})

	t.Run("trailing backslash in postgres literal", func(t *testing.T) {
		sql, args, err := NewClient(dialect.Postgres).
			Table("files").
			WhereRaw(`p = 'C:\'`).
			Where("a", "=", 1).
			Where("c", "=", "x").
			WhereRaw("d = 'y'").
			Query()

		require.NoError(t, err)
		require.Equal(t, `select * from "files" where p = 'C:\' and "a" = $1 and "c" = $2 and d = 'y'`, sql)
		require.Equal(t, []any{1, "x"}, args)
	})

	t.Run("mysql keeps question marks", func(t *testing.T) {
		sql, args, err := NewClient(dialect.MySQL).Table("users").Where("id", "=", 1).Query()
		require.NoError(t, err)
		require.Equal(t, "select * from `users` where `id` = ?", sql)
		require.Equal(t, []any{1}, args)
	})

	t.Run("recorded errors fail the query", func(t *testing.T) {
		sql, args, err := NewClient(nil).Table("users").Where("id", "drop", 1).Query()
		require.Error(t, err)
		require.True(t, errors.Is(err, format.ErrOperatorNotPermitted))
		require.Empty(t, sql)
		require.Nil(t, args)
	})
}

func TestBuilder_errors(t *testing.T) {
	c := NewClient(nil)

	t.Run("invalid operator keeps the sql", func(t *testing.T) {
		compiled, err := c.Table("users").Where("id", "drop table", 1).ToSQL()
		require.Error(t, err)
		require.True(t, errors.Is(err, format.ErrOperatorNotPermitted))
		require.Contains(t, err.Error(), "invalid query")
		require.Equal(t, "select * from `users` where `id` drop table ?", compiled.SQL)
		require.Equal(t, []any{1}, compiled.Bindings)
	})

	t.Run("invalid operator in sub-query", func(t *testing.T) {
		_, err := c.Table("users").WhereIn("id", Sub(func(q *Builder) {
			q.Table("orders").Select("user_id").Where("x", "nope", 1)
		})).ToSQL()

		require.True(t, errors.Is(err, format.ErrOperatorNotPermitted))
	})

	t.Run("failing sub-builder", func(t *testing.T) {
		_, err := c.Table("users").WhereIn("id", c.Table("orders").Insert()).ToSQL()
		require.True(t, errors.Is(err, ErrNoRows))
		require.Contains(t, err.Error(), "failed to compile sub-query")
	})

	t.Run("insert without table", func(t *testing.T) {
		_, err := c.Builder().Insert(map[string]any{"a": 1}).ToSQL()
		require.True(t, errors.Is(err, ErrNoTable))
	})

	t.Run("insert without rows", func(t *testing.T) {
		_, err := c.Table("users").Insert().ToSQL()
		require.True(t, errors.Is(err, ErrNoRows))
	})

	t.Run("delete without table", func(t *testing.T) {
		_, err := c.Builder().Delete().ToSQL()
		require.True(t, errors.Is(err, ErrNoTable))
	})

	t.Run("nil identifier", func(t *testing.T) {
		_, err := c.Table("users").Where(nil, "=", 1).ToSQL()
		require.True(t, errors.Is(err, format.ErrEmptyIdentifier))
	})
}

type foreignBuilder struct{}

func (foreignBuilder) ToSQL() (format.Compiled, error) { return format.Compiled{}, nil }

func TestClient_CompileWith(t *testing.T) {
	c := NewClient(nil)

	t.Run("statement kinds", func(t *testing.T) {
		b := c.Table("users").Where("id", "=", 1)

		sql, err := c.CompileWith(b, c.Formatter(), MethodWhere)
		require.NoError(t, err)
		require.Equal(t, "`id` = ?", sql)

		sql, err = c.CompileWith(b, c.Formatter(), MethodDelete)
		require.NoError(t, err)
		require.Equal(t, "delete from `users` where `id` = ?", sql)
	})

	t.Run("shares the formatter", func(t *testing.T) {
		f := c.Formatter()
		f.Parameter(format.ValueOf("first"))

		_, err := c.CompileWith(c.Table("users").Where("id", "=", 2), f, MethodSelect)
		require.NoError(t, err)
		require.Equal(t, []any{"first", 2}, f.Bindings())
	})

	t.Run("update without assignments", func(t *testing.T) {
		_, err := c.CompileWith(c.Table("users"), c.Formatter(), MethodUpdate)
		require.True(t, errors.Is(err, ErrNoAssignments))
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := c.CompileWith(c.Table("users"), c.Formatter(), "merge")
		require.True(t, errors.Is(err, ErrUnsupportedMethod))
	})

	t.Run("foreign builder", func(t *testing.T) {
		_, err := c.CompileWith(foreignBuilder{}, c.Formatter(), MethodSelect)
		require.True(t, errors.Is(err, ErrForeignBuilder))
	})

	t.Run("formatter callback uses the client", func(t *testing.T) {
		f := c.Formatter()
		sql := f.Parameter(Sub(func(q *Builder) { q.Table("t").Select("id").Where("x", "=", 9) }))
		require.Equal(t, "(select `id` from `t` where `x` = ?)", sql)
		require.Equal(t, []any{9}, f.Bindings())
		require.NoError(t, f.Err())
	})
}

func TestBuilder_defaultClient(t *testing.T) {
	b := &Builder{}
	require.Equal(t, dialect.MySQL, b.Client().Dialect())
	require.Equal(t, MethodSelect, b.Method())

	compiled, err := b.Table("users").ToSQL()
	require.NoError(t, err)
	require.Equal(t, "select * from `users`", compiled.SQL)
}
