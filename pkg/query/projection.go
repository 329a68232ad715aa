// Package query builds parameterized SELECT statements from a projection of
// API field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps API field names to qualified column references (alias.column).
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps a table column to an API field name. Columns are selected in
// the order they are projected.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Table returns the table reference with alias, e.g. "public.tax_records r".
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Target returns the table reference for INSERT and UPDATE statements,
// e.g. "public.tax_records AS r", so RETURNING can use Columns.
func (p *ProjectionMap) Target() string {
	return fmt.Sprintf("%s.%s AS %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for a field. Unmapped fields report false.
func (p *ProjectionMap) Column(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}

// Columns returns all projected columns as a comma-separated list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}
