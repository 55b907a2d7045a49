package query

import (
	"fmt"
	"strings"
)

// buildWhere renders the AND-combined filter clause. Column names come
// exclusively from the descriptor; request values are always bound args.
func buildWhere(filters []Filter, args []any) (string, []any) {
	if len(filters) == 0 {
		return "", args
	}

	clauses := make([]string, 0, len(filters))
	for _, f := range filters {
		args = append(args, f.Value)
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", f.Field.Column, sqlOps[f.Op], len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildOrderBy renders the sort clause with the identity column appended
// ascending as a tiebreak, keeping pagination stable.
func buildOrderBy(sort []SortField, idColumn string) string {
	parts := make([]string, 0, len(sort)+1)
	sortsByID := false

	for _, s := range sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		if s.Field.Column == idColumn {
			sortsByID = true
		}
		parts = append(parts, s.Field.Column+" "+dir)
	}

	if !sortsByID {
		parts = append(parts, idColumn+" ASC")
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// buildSelect assembles the page query and its bound arguments.
func buildSelect(d *Descriptor, spec *Spec) (string, []any) {
	cols := make([]string, len(spec.Select))
	for i, f := range spec.Select {
		cols[i] = f.Column
	}

	sql := "SELECT " + strings.Join(cols, ", ") + " FROM " + d.Table

	where, args := buildWhere(spec.Filters, nil)
	sql += where
	sql += buildOrderBy(spec.Sort, d.idColumn())

	args = append(args, spec.Limit)
	sql += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, spec.Skip())
	sql += fmt.Sprintf(" OFFSET $%d", len(args))

	return sql, args
}

// buildCount assembles the total-count query over the same filter set,
// independent of the page window.
func buildCount(d *Descriptor, spec *Spec) (string, []any) {
	sql := "SELECT COUNT(*) FROM " + d.Table
	where, args := buildWhere(spec.Filters, nil)
	return sql + where, args
}

// buildRelation assembles the expansion query fetching related records for
// a page of foreign keys.
func buildRelation(rel *Relation) string {
	cols := make([]string, 0, len(rel.Fields)+1)
	cols = append(cols, rel.RemoteField.Column)
	for _, f := range rel.Fields {
		cols = append(cols, f.Column)
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + rel.Table +
		" WHERE " + rel.RemoteField.Column + " = ANY($1)"
}
