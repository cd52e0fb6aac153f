// Package format turns builder-level values into parameterized SQL fragments.
//
// A Formatter is scoped to exactly one top-level query compilation. Every call
// returns a SQL fragment and, as a side effect, appends bind values to the
// formatter in the same left-to-right order their placeholders appear in the
// returned text. Nested sub-queries (callbacks and sub-builders) are spliced in
// place, so the final Bindings list always lines up with the `?` placeholders
// of the final SQL, no matter how deeply the sub-queries are nested.
//
// Values are one of four kinds:
//   - Scalar: an ordinary bind value, rendered as `?`
//   - Raw: a literal SQL fragment with its own bindings, spliced verbatim
//   - Sub: a nested SubBuilder compiled to SQL and spliced verbatim
//   - Callback: a function that fills a fresh builder, compiled with the
//     enclosing formatter so bindings land in the shared list
//
// Usage:
//
//	f := format.New(format.FormatterOptions{Dialect: dialect.Postgres})
//
//	sql := f.Wrap(format.ValueOf("u.name as n")) + " " +
//		f.Operator(format.ValueOf("=")) + " " +
//		f.Parameter(format.ValueOf("bob"))
//	// sql == `"u"."name" as "n" = ?`
//	// f.Bindings() == []any{"bob"}
//
// Formatting never aborts mid-compilation. Invalid operators and failures of
// collaborators (sub-builders, callback compilation) are recorded and can be
// inspected with Errors or Err once the compilation is finished; invalid sort
// directions silently become `asc`.
package format
