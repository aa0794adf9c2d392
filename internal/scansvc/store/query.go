package store

import (
	"strconv"
	"strings"
)

// query accumulates optional clauses while keeping every value bound as a
// positional parameter. Clause text only ever contains column names and the
// placeholders returned by arg.
type query struct {
	conds []string
	sets  []string
	args  []any
}

// arg binds v and returns its placeholder.
func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) where(clause string) {
	q.conds = append(q.conds, clause)
}

func (q *query) set(column string, v any) {
	q.sets = append(q.sets, column+" = "+q.arg(v))
}

func (q *query) whereSQL() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q *query) setSQL() string {
	return strings.Join(q.sets, ", ")
}
