package dialect

import (
	"strings"

	"github.com/pseudomuto/sqlfrag/pkg/sqltext"
)

type sqlite struct{}

func (sqlite) Name() string { return "sqlite" }

func (sqlite) QuoteSegment(segment string) string {
	if segment == "*" {
		return segment
	}

	return `"` + strings.ReplaceAll(segment, `"`, `""`) + `"`
}

func (sqlite) Placeholder(n int) string { return questionMark(n) }

func (sqlite) Syntax() sqltext.Syntax { return sqltext.Standard }
