// Package query provides a minimal query builder and compiler that drive the
// format package.
//
// A Client ties a dialect to the builders it creates and implements
// format.Client, so callbacks handed to a format.Formatter compile through the
// same formatter (and therefore the same bindings list) as the enclosing
// query.
//
// Example:
//
//	c := query.NewClient(dialect.Postgres)
//
//	sql, args, err := c.Table("users as u").
//		Select("u.id", "u.name").
//		Where("u.age", ">", 18).
//		WhereIn("u.id", query.Sub(func(q *query.Builder) {
//			q.Table("orders").Select("user_id").Where("total", ">", 100)
//		})).
//		OrderBy("u.name", "desc").
//		Limit(10).
//		Query()
//
//	// sql:  select "u"."id", "u"."name" from "users" as "u" where "u"."age" > $1
//	//       and "u"."id" in (select "user_id" from "orders" where "total" > $2)
//	//       order by "u"."name" desc limit $3
//	// args: [18 100 10]
//
// Builders can also be described declaratively as a YAML Document:
//
//	doc, err := query.ParseDocument(r)
//	b, err := doc.Build(c)
//
// The package only generates SQL. Executing it is left to database/sql or any
// other driver.
package query
