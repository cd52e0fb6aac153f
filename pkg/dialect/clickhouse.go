package dialect

import (
	"strings"

	"github.com/pseudomuto/sqlfrag/pkg/sqltext"
)

type clickhouse struct{}

func (clickhouse) Name() string { return "clickhouse" }

// QuoteSegment backticks the segment unless it is already backticked.
//
// Examples:
//   - "table" -> "`table`"
//   - "`table`" -> "`table`" (not double-backticked)
//   - "my`table" -> "`my\`table`"
func (clickhouse) QuoteSegment(segment string) string {
	if segment == "*" || IsBackticked(segment) {
		return segment
	}

	return "`" + strings.ReplaceAll(segment, "`", "\\`") + "`"
}

func (clickhouse) Placeholder(n int) string { return questionMark(n) }

// IsBackticked checks if a string is already wrapped in backticks.
//
// Examples:
//   - "`table`" -> true
//   - "table" -> false
//   - "`db`.`table`" -> false (qualified name, not a single backticked identifier)
//   - "" -> false
func IsBackticked(s string) bool {
	return len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' && !strings.Contains(s[1:len(s)-1], "`")
}

func (clickhouse) Syntax() sqltext.Syntax { return sqltext.BackslashEscapes }
