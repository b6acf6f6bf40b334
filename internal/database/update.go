package database

import (
	"fmt"
	"strings"
)

// Assignments collects the columns of a dynamic UPDATE statement.
// updated_at is always refreshed.
type Assignments struct {
	columns []string
	args    []interface{}
}

// Set assigns value to column
func (a *Assignments) Set(column string, value interface{}) {
	a.columns = append(a.columns, column)
	a.args = append(a.args, value)
}

// Len returns the number of assigned columns
func (a *Assignments) Len() int {
	return len(a.columns)
}

// Statement builds "UPDATE table SET ... WHERE id = $n RETURNING returning"
func (a *Assignments) Statement(table string, id int, returning string) (string, []interface{}) {
	var query strings.Builder
	query.WriteString("UPDATE " + table + " SET updated_at = NOW()")

	paramIndex := 1
	for _, column := range a.columns {
		fmt.Fprintf(&query, ", %s = $%d", column, paramIndex)
		paramIndex++
	}
	fmt.Fprintf(&query, " WHERE id = $%d RETURNING %s", paramIndex, returning)

	params := make([]interface{}, 0, len(a.args)+1)
	params = append(params, a.args...)
	params = append(params, id)
	return query.String(), params
}
