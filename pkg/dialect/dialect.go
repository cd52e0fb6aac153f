// Package dialect provides the dialect-specific pieces of SQL generation: how a
// single identifier segment is quoted and how bind placeholders are written.
//
// Supported dialects:
//   - mysql (aliases: mariadb)
//   - postgres (aliases: postgresql, cockroachdb, supabase)
//   - sqlite (aliases: sqlite3)
//   - clickhouse (aliases: ch)
//
// Example:
//
//	d, err := dialect.New("postgres")
//	if err != nil {
//		return err
//	}
//
//	d.QuoteSegment("users")        // "users"
//	sql, _ := dialect.Rebind(d, "a = ? and b = ?")
//	// sql == "a = $1 and b = $2"
package dialect

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/sqltext"
)

// ErrUnsupportedDialect is returned by New for unknown dialect names.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

var (
	// MySQL quotes identifiers with backticks and uses `?` placeholders.
	MySQL Dialect = mysql{}

	// Postgres quotes identifiers with double quotes and uses `$n` placeholders.
	Postgres Dialect = postgres{}

	// SQLite quotes identifiers with double quotes and uses `?` placeholders.
	SQLite Dialect = sqlite{}

	// ClickHouse quotes identifiers with backticks and uses `?` placeholders.
	ClickHouse Dialect = clickhouse{}
)

// Dialect describes the dialect-dependent policies used when formatting SQL.
type Dialect interface {
	// Name returns the canonical dialect name.
	Name() string

	// QuoteSegment quotes a single identifier segment (no dots, no alias).
	// The `*` wildcard is returned unquoted.
	QuoteSegment(segment string) string

	// Placeholder returns the bind placeholder for the nth (1-based) binding.
	Placeholder(n int) string

	// Syntax reports how string literals are escaped, which decides where a
	// literal ends when scanning for placeholders.
	Syntax() sqltext.Syntax
}

// New returns the Dialect registered under name. Matching is case-insensitive
// and ignores surrounding whitespace. An empty name selects MySQL.
func New(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "cockroachdb", "supabase":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "clickhouse", "ch":
		return ClickHouse, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedDialect, "%q", name)
	}
}

// Rebind rewrites the `?` placeholders in sql to the positional form used by
// d. Dialects that use `?` get sql back unchanged.
func Rebind(d Dialect, sql string) (string, error) {
	if d.Placeholder(1) == "?" {
		return sql, nil
	}

	return sqltext.Rebind(sql, d.Syntax(), d.Placeholder)
}

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }
