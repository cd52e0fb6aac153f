package dialect

import (
	"github.com/lib/pq"
	"github.com/pseudomuto/sqlfrag/pkg/sqltext"
)

type postgres struct{}

func (postgres) Name() string { return "postgres" }

// QuoteSegment defers to lib/pq so that quoting matches what the driver
// itself produces (embedded double quotes are doubled).
func (postgres) QuoteSegment(segment string) string {
	if segment == "*" {
		return segment
	}

	return pq.QuoteIdentifier(segment)
}

func (postgres) Placeholder(n int) string { return dollar(n) }

func (postgres) Syntax() sqltext.Syntax { return sqltext.Standard }
