// Package sqltext tokenizes SQL text just far enough to find bind placeholders.
//
// The lexer understands single-quoted string literals, double-quoted and
// backticked identifiers, line and block comments, and the `?` placeholder.
// Everything else is opaque text. A `?` that appears inside a literal, a
// quoted identifier, or a comment is not a placeholder.
//
// Whether a backslash escapes the next character inside a string literal
// depends on the database, so callers pass a Syntax. With Standard the
// literal 'C:\' ends at its second quote; with BackslashEscapes it does not.
//
// Counting placeholders:
//
//	n, err := sqltext.CountPlaceholders("select * from t where a = ? and b = '?'", sqltext.Standard)
//	// n == 1
//
// Rewriting placeholders to a positional form:
//
//	sql, err := sqltext.Rebind("a = ? and b = ?", sqltext.Standard, func(n int) string {
//		return "$" + strconv.Itoa(n)
//	})
//	// sql == "a = $1 and b = $2"
package sqltext
