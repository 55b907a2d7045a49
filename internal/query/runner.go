package query

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wexford-labs/widgetry/internal/database"
)

// PageRef points at an adjacent page in the pagination metadata.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes the window of a list response.
type Pagination struct {
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Total int      `json:"total"`
	Prev  *PageRef `json:"prev,omitempty"`
	Next  *PageRef `json:"next,omitempty"`
}

// Result is one page of a list query plus its metadata. Rows are keyed by
// API field names, never by column names.
type Result struct {
	Success    bool             `json:"success"`
	Count      int              `json:"count"`
	Pagination Pagination       `json:"pagination"`
	Data       []map[string]any `json:"data"`
}

// Runner executes query specifications against the collection store.
// Read-only; every call is a self-contained snapshot query.
type Runner struct {
	pool *pgxpool.Pool
}

func NewRunner(db *database.DB) *Runner {
	return &Runner{pool: db.Pool}
}

// Run executes spec against the described collection: total count first,
// then the requested page, then the optional related-record expansion.
func (r *Runner) Run(ctx context.Context, d *Descriptor, spec *Spec) (*Result, error) {
	countSQL, countArgs := buildCount(d, spec)

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", d.Table, database.MapPostgresError(err))
	}

	pageSQL, pageArgs := buildSelect(d, spec)
	rows, err := r.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", d.Table, database.MapPostgresError(err))
	}
	defer rows.Close()

	data := make([]map[string]any, 0, spec.Limit)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", d.Table, err)
		}
		row := make(map[string]any, len(spec.Select))
		for i, f := range spec.Select {
			row[f.Name] = values[i]
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", d.Table, err)
	}

	if d.Relation != nil {
		if err := r.expand(ctx, d.Relation, data); err != nil {
			return nil, err
		}
	}

	return &Result{
		Success:    true,
		Count:      len(data),
		Pagination: paginate(spec, total),
		Data:       data,
	}, nil
}

// expand attaches related records under the relation name for every row
// whose foreign-key field was selected.
func (r *Runner) expand(ctx context.Context, rel *Relation, data []map[string]any) error {
	keys := make([]string, 0, len(data))
	seen := map[string]bool{}
	for _, row := range data {
		key, ok := row[rel.LocalField].(string)
		if !ok || key == "" || seen[key] {
			continue
		}
		keys = append(keys, key)
		seen[key] = true
	}
	if len(keys) == 0 {
		return nil
	}

	rows, err := r.pool.Query(ctx, buildRelation(rel), keys)
	if err != nil {
		return fmt.Errorf("failed to expand %s: %w", rel.Name, database.MapPostgresError(err))
	}
	defer rows.Close()

	related := make(map[string]map[string]any, len(keys))
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("failed to scan %s row: %w", rel.Table, err)
		}
		key, ok := values[0].(string)
		if !ok {
			continue
		}
		record := make(map[string]any, len(rel.Fields))
		for i, f := range rel.Fields {
			record[f.Name] = values[i+1]
		}
		related[key] = record
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s rows: %w", rel.Table, err)
	}

	for _, row := range data {
		if key, ok := row[rel.LocalField].(string); ok {
			if record, ok := related[key]; ok {
				row[rel.Name] = record
			}
		}
	}
	return nil
}

// paginate computes the pagination metadata for a page of a total result
// set: prev present iff a previous page exists, next iff rows remain past
// the current window.
func paginate(spec *Spec, total int) Pagination {
	p := Pagination{Page: spec.Page, Limit: spec.Limit, Total: total}
	if spec.Page > 1 {
		p.Prev = &PageRef{Page: spec.Page - 1, Limit: spec.Limit}
	}
	if spec.Page*spec.Limit < total {
		p.Next = &PageRef{Page: spec.Page + 1, Limit: spec.Limit}
	}
	return p
}
