// Package sqlxrepos implements the domain repositories on Postgres via sqlx.
// Cascading deletes ride on the schema's ON DELETE CASCADE constraints so a
// parent delete and its dependent rows go in one atomic statement.
package sqlxrepos

import (
	"database/sql/driver"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/shulehq/shule/core"
)

// Postgres error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pqErrCode(err error) (*pq.Error, string) {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr, string(pqErr.Code)
	}
	return nil, ""
}

func isUniqueViolation(err error) bool {
	_, code := pqErrCode(err)
	return code == uniqueViolation
}

// fkViolationOn reports whether err is a foreign key violation whose
// constraint name references the given table.
func fkViolationOn(err error, table string) bool {
	pqErr, code := pqErrCode(err)
	return code == foreignKeyViolation && strings.Contains(pqErr.Constraint, table)
}

func itoa(i int) string { return strconv.Itoa(i) }

func pqStringArray(ss []string) driver.Valuer { return pq.StringArray(ss) }

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
