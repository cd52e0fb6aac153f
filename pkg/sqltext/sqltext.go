package sqltext

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Syntax selects how string literals are lexed.
type Syntax int

const (
	// Standard literals only escape a quote by doubling it. A backslash is an
	// ordinary character (Postgres with standard_conforming_strings, SQLite).
	Standard Syntax = iota

	// BackslashEscapes literals also treat `\` as an escape (MySQL, ClickHouse).
	BackslashEscapes
)

var lexers = map[Syntax]*lexer.StatefulDefinition{
	Standard:         newLexer(`'([^']|'')*'`),
	BackslashEscapes: newLexer(`'([^'\\]|\\.|'')*'`),
}

func newLexer(stringPattern string) *lexer.StatefulDefinition {
	return lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: stringPattern},
		{Name: "QuotedIdent", Pattern: `"([^"]|"")*"`},
		{Name: "BacktickIdent", Pattern: "`([^`]|``)*`"},
		{Name: "Placeholder", Pattern: `\?`},
		{Name: "Text", Pattern: "[^'\"`?/-]+"},
		// Lone comment starters and unterminated quotes.
		{Name: "Punct", Pattern: "[-/'\"`]"},
	})
}

// CountPlaceholders returns the number of bind placeholders in sql.
func CountPlaceholders(sql string, syntax Syntax) (int, error) {
	toks, placeholder, err := tokenize(sql, syntax)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, tok := range toks {
		if tok.Type == placeholder {
			count++
		}
	}

	return count, nil
}

// Rebind replaces every bind placeholder in sql with the result of
// placeholder(n), where n is the 1-based position of the placeholder.
// All other text is copied verbatim.
func Rebind(sql string, syntax Syntax, placeholder func(n int) string) (string, error) {
	toks, placeholderType, err := tokenize(sql, syntax)
	if err != nil {
		return "", err
	}

	var (
		buf strings.Builder
		n   int
	)

	buf.Grow(len(sql) + 8)
	for _, tok := range toks {
		if tok.EOF() {
			break
		}

		if tok.Type == placeholderType {
			n++
			buf.WriteString(placeholder(n))
			continue
		}

		buf.WriteString(tok.Value)
	}

	return buf.String(), nil
}

func tokenize(sql string, syntax Syntax) ([]lexer.Token, lexer.TokenType, error) {
	def, ok := lexers[syntax]
	if !ok {
		return nil, 0, errors.Errorf("unknown SQL syntax: %d", syntax)
	}

	lex, err := def.LexString("", sql)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to lex SQL")
	}

	toks, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to lex SQL")
	}

	return toks, def.Symbols()["Placeholder"], nil
}
