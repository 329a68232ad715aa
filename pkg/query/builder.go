package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnknownField is returned for a sort or filter field outside the projection.
var ErrUnknownField = errors.New("unknown field")

type condition struct {
	column string
	arg    any
}

// SortField is one ORDER BY term. Field is an API field name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses a comma-separated sort string such as
// "filing_status,-id". A leading "-" sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: after, Descending: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}
	return fields
}

// Builder accumulates equality conditions and ordering for one SELECT.
// Placeholders are numbered in the order conditions are added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	order       []SortField
	defaultSort []SortField
	err         error
}

// NewBuilder creates a Builder over projection. defaultSort applies when
// OrderBy is never given any fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// WhereEquals adds "field = $n". Nil values, including typed nil pointers,
// add nothing so optional filters can be passed straight through.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col, ok := b.projection.Column(field)
	if !ok {
		b.fail(field)
		return b
	}
	b.conditions = append(b.conditions, condition{column: col, arg: value})
	return b
}

// OrderBy replaces the default sort with fields.
func (b *Builder) OrderBy(fields []SortField) *Builder {
	for _, f := range fields {
		if _, ok := b.projection.Column(f.Field); !ok {
			b.fail(f.Field)
			return b
		}
	}
	if len(fields) > 0 {
		b.order = fields
	}
	return b
}

// Build returns the SELECT statement and its arguments, or the first
// ErrUnknownField recorded while building.
func (b *Builder) Build() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}

	var sql strings.Builder
	fmt.Fprintf(&sql, "SELECT %s FROM %s", b.projection.Columns(), b.projection.Table())

	args := make([]any, 0, len(b.conditions))
	for i, c := range b.conditions {
		if i == 0 {
			sql.WriteString(" WHERE ")
		} else {
			sql.WriteString(" AND ")
		}
		fmt.Fprintf(&sql, "%s = $%d", c.column, i+1)
		args = append(args, c.arg)
	}

	order := b.order
	if len(order) == 0 {
		order = b.defaultSort
	}
	for i, f := range order {
		col, _ := b.projection.Column(f.Field)
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		if i == 0 {
			sql.WriteString(" ORDER BY ")
		} else {
			sql.WriteString(", ")
		}
		sql.WriteString(col + " " + dir)
	}

	return sql.String(), args, nil
}

func (b *Builder) fail(field string) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
