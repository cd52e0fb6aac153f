package query

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/format"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when a query document fails validation.
var ErrInvalidDocument = errors.New("invalid query document")

type (
	// Document is a declarative description of a query, usually loaded from
	// YAML.
	//
	// Example:
	//
	//	table: users as u
	//	columns: [u.id, u.name]
	//	where:
	//	  - column: u.age
	//	    op: ">"
	//	    value: 18
	//	  - column: u.id
	//	    in_query:
	//	      table: orders
	//	      columns: [user_id]
	//	  - or: true
	//	    group:
	//	      - column: u.role
	//	        op: "="
	//	        value: admin
	//	order:
	//	  - column: u.name
	//	    direction: desc
	//	limit: 10
	Document struct {
		// Method is one of select, insert, update or delete. When omitted it is
		// inferred: rows make an insert, set makes an update, anything else
		// is a select.
		Method   string           `yaml:"method,omitempty"`
		Table    string           `yaml:"table,omitempty"`
		Columns  []string         `yaml:"columns,omitempty"`
		Distinct bool             `yaml:"distinct,omitempty"`
		Where    []Condition      `yaml:"where,omitempty"`
		Order    []OrderTerm      `yaml:"order,omitempty"`
		Limit    *int             `yaml:"limit,omitempty"`
		Offset   *int             `yaml:"offset,omitempty"`
		Set      []Assignment     `yaml:"set,omitempty"`
		Rows     []map[string]any `yaml:"rows,omitempty"`
	}

	// Condition is one where clause. Exactly one form must be set:
	// op (with value), in, not_in, in_query, between, is_null, raw, exists,
	// not_exists or group.
	Condition struct {
		// Or joins the condition with `or` instead of `and`.
		Or bool `yaml:"or,omitempty"`

		Column string `yaml:"column,omitempty"`
		Op     string `yaml:"op,omitempty"`
		Value  any    `yaml:"value,omitempty"`

		In      []any     `yaml:"in,omitempty"`
		NotIn   []any     `yaml:"not_in,omitempty"`
		InQuery *Document `yaml:"in_query,omitempty"`
		Between []any     `yaml:"between,omitempty"`

		// Null selects `is null` when true and `is not null` when false. The
		// key is is_null since a bare null key is the YAML null value.
		Null *bool `yaml:"is_null,omitempty"`

		Raw      string `yaml:"raw,omitempty"`
		Bindings []any  `yaml:"bindings,omitempty"`

		Exists    *Document   `yaml:"exists,omitempty"`
		NotExists *Document   `yaml:"not_exists,omitempty"`
		Group     []Condition `yaml:"group,omitempty"`
	}

	// OrderTerm is a single `order by` term.
	OrderTerm struct {
		Column    string `yaml:"column"`
		Direction string `yaml:"direction,omitempty"`
	}

	// Assignment is a single `column = value` pair of an update.
	Assignment struct {
		Column string `yaml:"column"`
		Value  any    `yaml:"value"`
	}
)

// ParseDocument decodes and validates a query document from r. Unknown keys
// are rejected.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal query document")
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// ParseDocumentFile opens path and calls ParseDocument.
func ParseDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return ParseDocument(f)
}

// StatementKind returns the statement kind the document compiles to.
func (d *Document) StatementKind() string {
	switch {
	case d.Method != "":
		return d.Method
	case len(d.Rows) > 0:
		return MethodInsert
	case len(d.Set) > 0:
		return MethodUpdate
	default:
		return MethodSelect
	}
}

// Validate checks the document and every nested document and condition.
// The dialect is not known yet, so a raw condition passes when its bindings
// match the placeholders under either literal syntax. Build repeats the check
// for the client's dialect.
func (d *Document) Validate() error {
	return d.validate(nil)
}

func (d *Document) validate(dl dialect.Dialect) error {
	switch d.StatementKind() {
	case MethodSelect:
	case MethodInsert:
		if len(d.Rows) == 0 {
			return errors.Wrap(ErrInvalidDocument, "insert requires rows")
		}
	case MethodUpdate:
		if len(d.Set) == 0 {
			return errors.Wrap(ErrInvalidDocument, "update requires set")
		}
	case MethodDelete:
	default:
		return errors.Wrapf(ErrInvalidDocument, "unknown method %q", d.Method)
	}

	if d.StatementKind() != MethodSelect && d.Table == "" {
		return errors.Wrapf(ErrInvalidDocument, "%s requires a table", d.StatementKind())
	}

	for i, o := range d.Order {
		if o.Column == "" {
			return errors.Wrapf(ErrInvalidDocument, "order[%d]: missing column", i)
		}
	}

	for i, s := range d.Set {
		if s.Column == "" {
			return errors.Wrapf(ErrInvalidDocument, "set[%d]: missing column", i)
		}
	}

	return validateConditions(dl, "where", d.Where)
}

func validateConditions(dl dialect.Dialect, path string, conds []Condition) error {
	for i, cond := range conds {
		if err := cond.validate(dl); err != nil {
			return errors.Wrapf(err, "%s[%d]", path, i)
		}
	}

	return nil
}

func (c *Condition) validate(dl dialect.Dialect) error {
	forms := 0
	for _, set := range []bool{
		c.Op != "",
		c.In != nil,
		c.NotIn != nil,
		c.InQuery != nil,
		c.Between != nil,
		c.Null != nil,
		c.Raw != "",
		c.Exists != nil,
		c.NotExists != nil,
		c.Group != nil,
	} {
		if set {
			forms++
		}
	}

	if forms != 1 {
		return errors.Wrapf(ErrInvalidDocument, "condition must set exactly one form, found %d", forms)
	}

	needsColumn := c.Op != "" || c.In != nil || c.NotIn != nil || c.InQuery != nil || c.Between != nil || c.Null != nil
	if needsColumn && c.Column == "" {
		return errors.Wrap(ErrInvalidDocument, "condition requires a column")
	}

	if c.Between != nil && len(c.Between) != 2 {
		return errors.Wrapf(ErrInvalidDocument, "between requires 2 values, found %d", len(c.Between))
	}

	switch {
	case c.Raw != "":
		if err := checkRaw(dl, c.Raw, c.Bindings); err != nil {
			return errors.Wrapf(ErrInvalidDocument, "raw: %v", err)
		}
	case c.InQuery != nil:
		return validateNested(dl, "in_query", c.InQuery)
	case c.Exists != nil:
		return validateNested(dl, "exists", c.Exists)
	case c.NotExists != nil:
		return validateNested(dl, "not_exists", c.NotExists)
	case c.Group != nil:
		return validateConditions(dl, "group", c.Group)
	}

	return nil
}

// checkRaw verifies the raw condition's bindings against its placeholders. A
// nil dialect accepts the condition if any dialect's literal syntax agrees.
func checkRaw(dl dialect.Dialect, sql string, bindings []any) error {
	if dl != nil {
		_, err := format.CheckedRawFor(dl, sql, bindings...)
		return err
	}

	_, err := format.CheckedRawFor(dialect.MySQL, sql, bindings...)
	if err == nil {
		return nil
	}

	if _, perr := format.CheckedRawFor(dialect.Postgres, sql, bindings...); perr == nil {
		return nil
	}

	return err
}

// validateNested checks a sub-query document. Sub-queries always compile as
// selects, so any other statement kind is rejected.
func validateNested(dl dialect.Dialect, key string, d *Document) error {
	if err := d.validate(dl); err != nil {
		return errors.Wrap(err, key)
	}

	if kind := d.StatementKind(); kind != MethodSelect {
		return errors.Wrapf(ErrInvalidDocument, "%s: nested query must be a select, found %s", key, kind)
	}

	return nil
}

// Build validates the document and returns an equivalent builder created by c.
func (d *Document) Build(c *Client) (*Builder, error) {
	if err := d.validate(c.Dialect()); err != nil {
		return nil, err
	}

	b := c.Builder()
	d.apply(b)
	return b, nil
}

func (d *Document) apply(b *Builder) {
	if d.Table != "" {
		b.Table(d.Table)
	}

	for _, col := range d.Columns {
		b.Select(col)
	}

	if d.Distinct {
		b.Distinct()
	}

	applyConditions(b, d.Where)

	for _, o := range d.Order {
		b.OrderBy(o.Column, o.Direction)
	}

	if d.Limit != nil {
		b.Limit(*d.Limit)
	}

	if d.Offset != nil {
		b.Offset(*d.Offset)
	}

	for _, s := range d.Set {
		b.Set(s.Column, s.Value)
	}

	if len(d.Rows) > 0 {
		b.Insert(d.Rows...)
	}

	b.method = d.StatementKind()
}

func applyConditions(b *Builder, conds []Condition) {
	for _, cond := range conds {
		cond.apply(b)
		if cond.Or {
			b.wheres[len(b.wheres)-1].boolean = "or"
		}
	}
}

func (c *Condition) apply(b *Builder) {
	switch {
	case c.Op != "":
		b.Where(c.Column, c.Op, c.Value)
	case c.In != nil:
		b.WhereIn(c.Column, c.In...)
	case c.NotIn != nil:
		b.WhereNotIn(c.Column, c.NotIn...)
	case c.InQuery != nil:
		b.WhereIn(c.Column, c.InQuery.sub())
	case c.Between != nil:
		b.WhereBetween(c.Column, c.Between[0], c.Between[1])
	case c.Null != nil && *c.Null:
		b.WhereNull(c.Column)
	case c.Null != nil:
		b.WhereNotNull(c.Column)
	case c.Raw != "":
		b.WhereRaw(c.Raw, c.Bindings...)
	case c.Exists != nil:
		b.WhereExists(c.Exists.sub())
	case c.NotExists != nil:
		b.WhereNotExists(c.NotExists.sub())
	case c.Group != nil:
		group := c.Group
		b.WhereGroup(func(q *Builder) { applyConditions(q, group) })
	}
}

// sub returns a callback that applies the document to the builder the
// formatter's client creates for it.
func (d *Document) sub() func(*Builder) {
	return func(q *Builder) { d.apply(q) }
}
