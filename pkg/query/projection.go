package query

import (
	"fmt"
	"strings"
)

// ProjectionMap binds view-level field names to qualified SQL columns for a
// base table and any tables joined onto it.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	joins   []string
	columns []string
	views   map[string]string
}

// NewProjectionMap creates a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		views:  make(map[string]string),
	}
}

// Project maps a base-table column to a view name and appends it to the select list.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	return p.ProjectQualified(fmt.Sprintf("%s.%s", p.alias, column), view)
}

// ProjectQualified maps an already-qualified column (for example a joined
// table's "f.filename") to a view name and appends it to the select list.
func (p *ProjectionMap) ProjectQualified(column, view string) *ProjectionMap {
	p.columns = append(p.columns, column)
	p.views[view] = column
	return p
}

// Filterable maps a view name to a qualified column without selecting it.
// Useful for filtering or sorting on joined columns.
func (p *ProjectionMap) Filterable(column, view string) *ProjectionMap {
	p.views[view] = column
	return p
}

// Join appends an inner join to the FROM clause.
func (p *ProjectionMap) Join(schema, table, alias, on string) *ProjectionMap {
	p.joins = append(p.joins, fmt.Sprintf("JOIN %s.%s %s ON %s", schema, table, alias, on))
	return p
}

// Alias returns the base table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the FROM clause target including joins.
func (p *ProjectionMap) Table() string {
	from := fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
	if len(p.joins) == 0 {
		return from
	}
	return from + " " + strings.Join(p.joins, " ")
}

// Column resolves a view name to its qualified column.
// Unknown names are returned unchanged.
func (p *ProjectionMap) Column(view string) string {
	if col, ok := p.views[view]; ok {
		return col
	}
	return view
}

func (p *ProjectionMap) lookup(view string) (string, bool) {
	col, ok := p.views[view]
	return col, ok
}

// Columns returns the comma-separated select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// ColumnList returns a copy of the select list.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}
