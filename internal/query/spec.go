// Package query turns raw list-request parameters into a filtered, sorted,
// field-selected, paginated result set with pagination metadata.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/wexford-labs/widgetry/internal/models"
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpNe  Op = "ne"
)

var sqlOps = map[Op]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
	OpNe:  "<>",
}

// Reserved parameter names that are never treated as filters.
var reservedParams = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

type Filter struct {
	Field Field
	Op    Op
	Value string
}

type SortField struct {
	Field Field
	Desc  bool
}

// Limits carries the configured pagination bounds.
type Limits struct {
	Default int
	Max     int
}

// Spec is the resolved query specification for one list request. It is
// constructed fresh per request and discarded after the response.
type Spec struct {
	Filters []Filter
	Sort    []SortField
	Select  []Field
	Page    int
	Limit   int
}

// Skip is the row offset of the requested page.
func (s *Spec) Skip() int {
	return (s.Page - 1) * s.Limit
}

// Parse resolves raw request parameters against a collection descriptor.
// Every non-reserved key is a filter; a bracketed suffix on the key selects
// the comparison operator (e.g. "cost[gte]"). Unknown filter fields are
// rejected; unknown select/sort fields are silently dropped, like the
// sensitive ones.
func Parse(values url.Values, d *Descriptor, limits Limits) (*Spec, error) {
	spec := &Spec{Page: 1, Limit: limits.Default}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("page must be a positive integer: %w", models.ErrBadRequest)
		}
		spec.Page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("limit must be a positive integer: %w", models.ErrBadRequest)
		}
		spec.Limit = limit
	}
	if spec.Limit > limits.Max {
		spec.Limit = limits.Max
	}

	spec.Select = parseSelect(values.Get("select"), d)
	spec.Sort = parseSort(values.Get("sort"), d)

	for key := range values {
		if reservedParams[key] {
			continue
		}

		name, op, err := splitFilterKey(key)
		if err != nil {
			return nil, err
		}

		field, ok := d.field(name)
		if !ok {
			return nil, fmt.Errorf("unknown filter field %q: %w", name, models.ErrBadRequest)
		}

		spec.Filters = append(spec.Filters, Filter{
			Field: field,
			Op:    op,
			Value: values.Get(key),
		})
	}

	return spec, nil
}

// splitFilterKey separates "cost[gte]" into field name and operator; a bare
// key means exact match.
func splitFilterKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") {
		return "", "", fmt.Errorf("malformed filter key %q: %w", key, models.ErrBadRequest)
	}

	op := Op(key[open+1 : len(key)-1])
	if _, ok := sqlOps[op]; !ok || op == OpEq {
		return "", "", fmt.Errorf("unsupported filter operator %q: %w", op, models.ErrBadRequest)
	}
	return key[:open], op, nil
}

func parseSelect(raw string, d *Descriptor) []Field {
	if raw == "" {
		return d.defaultFields()
	}

	selected := make([]Field, 0, 4)
	seen := map[string]bool{}

	// The identity field is always part of the selection.
	if f, ok := d.field(d.IDField); ok {
		selected = append(selected, f)
		seen[f.Name] = true
	}

	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if f, ok := d.field(name); ok {
			selected = append(selected, f)
			seen[name] = true
		}
	}
	return selected
}

func parseSort(raw string, d *Descriptor) []SortField {
	if raw == "" {
		if f, ok := d.field(d.CreatedField); ok {
			return []SortField{{Field: f, Desc: true}}
		}
		return nil
	}

	sort := make([]SortField, 0, 2)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		if f, ok := d.field(name); ok {
			sort = append(sort, SortField{Field: f, Desc: desc})
		}
	}
	return sort
}
