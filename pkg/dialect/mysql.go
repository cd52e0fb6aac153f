package dialect

import (
	"strings"

	"github.com/pseudomuto/sqlfrag/pkg/sqltext"
)

type mysql struct{}

func (mysql) Name() string { return "mysql" }

func (mysql) QuoteSegment(segment string) string {
	if segment == "*" {
		return segment
	}

	return "`" + strings.ReplaceAll(segment, "`", "``") + "`"
}

func (mysql) Placeholder(n int) string { return questionMark(n) }

func (mysql) Syntax() sqltext.Syntax { return sqltext.BackslashEscapes }
