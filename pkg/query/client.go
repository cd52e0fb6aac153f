package query

import (
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/format"
)

// ErrForeignBuilder is returned when a Client is asked to compile a builder it
// did not create.
var ErrForeignBuilder = errors.New("builder was not created by a query client")

// Client creates builders for a dialect and compiles callback sub-queries on
// behalf of a format.Formatter.
type Client struct {
	dialect dialect.Dialect
}

// NewClient returns a Client for d. A nil dialect selects dialect.MySQL.
func NewClient(d dialect.Dialect) *Client {
	if d == nil {
		d = dialect.MySQL
	}

	return &Client{dialect: d}
}

// Dialect returns the client's dialect.
func (c *Client) Dialect() dialect.Dialect { return c.dialect }

// Formatter returns a fresh formatter for one top-level compilation.
func (c *Client) Formatter() *format.Formatter {
	return format.New(format.FormatterOptions{Dialect: c.dialect, Client: c})
}

// Builder returns an empty builder.
func (c *Client) Builder() *Builder {
	return &Builder{client: c}
}

// Table returns a builder for the given table. The table may carry an alias
// ("users as u"), or be a raw fragment or a sub-query callback.
func (c *Client) Table(table any) *Builder {
	return c.Builder().Table(table)
}

// NewBuilder implements format.Client.
func (c *Client) NewBuilder() format.SubBuilder {
	return c.Builder()
}

// CompileWith implements format.Client. It compiles b as the requested
// statement kind, routing every binding through f.
func (c *Client) CompileWith(b format.SubBuilder, f *format.Formatter, method string) (string, error) {
	qb, ok := b.(*Builder)
	if !ok || qb == nil {
		return "", errors.Wrapf(ErrForeignBuilder, "%T", b)
	}

	return newCompiler(qb, f).compile(method)
}
