package repository

import (
	"fmt"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// filterBuilder accumulates WHERE conditions with positional args. The
// expr passed to add uses %d placeholders for the next arg positions.
type filterBuilder struct {
	conds []string
	args  []interface{}
}

func (f *filterBuilder) add(expr string, values ...interface{}) {
	positions := make([]interface{}, len(values))
	for i := range values {
		positions[i] = len(f.args) + i + 1
	}
	f.conds = append(f.conds, fmt.Sprintf(expr, positions...))
	f.args = append(f.args, values...)
}

// where appends the accumulated conditions to a base clause ending in
// "WHERE 1=1".
func (f *filterBuilder) where(base string) string {
	if len(f.conds) == 0 {
		return base
	}
	return base + " AND " + strings.Join(f.conds, " AND ")
}

// sortClause resolves a requested sort key against the whitelist of
// sortable columns and normalises the direction. Unknown keys fall back
// to the given column, unknown directions to DESC.
func sortClause(requested, requestedOrder string, allowed map[string]string, fallback string) string {
	column, ok := allowed[requested]
	if !ok {
		column = fallback
	}
	order := strings.ToUpper(requestedOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return column + " " + order
}

// pageWindow clamps pagination input and returns the LIMIT and OFFSET values.
func pageWindow(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return pageSize, (page - 1) * pageSize
}
