package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wexford-labs/widgetry/internal/models"
)

var testDescriptor = &Descriptor{
	Table:        "widgets",
	IDField:      "id",
	CreatedField: "createdAt",
	Fields: []Field{
		{Name: "id", Column: "id"},
		{Name: "name", Column: "name"},
		{Name: "cost", Column: "cost"},
		{Name: "createdAt", Column: "created_at"},
		{Name: "secretNotes", Column: "secret_notes", Sensitive: true},
	},
}

var testLimits = Limits{Default: 25, Max: 100}

func parseQuery(t *testing.T, raw string) (*Spec, error) {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return Parse(values, testDescriptor, testLimits)
}

func TestParse_Defaults(t *testing.T) {
	spec, err := parseQuery(t, "")
	require.NoError(t, err)

	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 25, spec.Limit)
	assert.Equal(t, 0, spec.Skip())
	assert.Empty(t, spec.Filters)

	// Default sort is createdAt descending
	require.Len(t, spec.Sort, 1)
	assert.Equal(t, "createdAt", spec.Sort[0].Field.Name)
	assert.True(t, spec.Sort[0].Desc)

	// Default selection excludes sensitive fields
	names := fieldNames(spec.Select)
	assert.Contains(t, names, "id")
	assert.Contains(t, names, "name")
	assert.NotContains(t, names, "secretNotes")
}

func TestParse_ExactMatchFilter(t *testing.T) {
	spec, err := parseQuery(t, "name=gizmo")
	require.NoError(t, err)

	require.Len(t, spec.Filters, 1)
	assert.Equal(t, "name", spec.Filters[0].Field.Name)
	assert.Equal(t, OpEq, spec.Filters[0].Op)
	assert.Equal(t, "gizmo", spec.Filters[0].Value)
}

func TestParse_OperatorFilters(t *testing.T) {
	for raw, want := range map[string]Op{
		"cost[gt]=5":   OpGt,
		"cost[gte]=5":  OpGte,
		"cost[lt]=5":   OpLt,
		"cost[lte]=5":  OpLte,
		"cost[ne]=5":   OpNe,
	} {
		spec, err := parseQuery(t, raw)
		require.NoError(t, err, raw)
		require.Len(t, spec.Filters, 1, raw)
		assert.Equal(t, want, spec.Filters[0].Op, raw)
	}
}

func TestParse_FiltersCombined(t *testing.T) {
	spec, err := parseQuery(t, "name=gizmo&cost[gte]=5")
	require.NoError(t, err)
	assert.Len(t, spec.Filters, 2)
}

func TestParse_UnknownFilterField(t *testing.T) {
	_, err := parseQuery(t, "bogus=1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrBadRequest))
}

func TestParse_SensitiveFieldNotFilterable(t *testing.T) {
	_, err := parseQuery(t, "secretNotes=x")
	assert.Error(t, err)
}

func TestParse_UnsupportedOperator(t *testing.T) {
	_, err := parseQuery(t, "cost[regex]=5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrBadRequest))
}

func TestParse_Select(t *testing.T) {
	spec, err := parseQuery(t, "select=name,cost")
	require.NoError(t, err)

	names := fieldNames(spec.Select)
	// Identity field rides along with any explicit selection
	assert.Equal(t, []string{"id", "name", "cost"}, names)
}

func TestParse_SelectDropsSensitiveAndUnknown(t *testing.T) {
	spec, err := parseQuery(t, "select=name,secretNotes,bogus")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, fieldNames(spec.Select))
}

func TestParse_Sort(t *testing.T) {
	spec, err := parseQuery(t, "sort=-cost,name")
	require.NoError(t, err)

	require.Len(t, spec.Sort, 2)
	assert.Equal(t, "cost", spec.Sort[0].Field.Name)
	assert.True(t, spec.Sort[0].Desc)
	assert.Equal(t, "name", spec.Sort[1].Field.Name)
	assert.False(t, spec.Sort[1].Desc)
}

func TestParse_Pagination(t *testing.T) {
	spec, err := parseQuery(t, "page=3&limit=10")
	require.NoError(t, err)

	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 10, spec.Limit)
	assert.Equal(t, 20, spec.Skip())
}

func TestParse_SkipMath(t *testing.T) {
	for _, tc := range []struct{ page, limit, skip int }{
		{1, 25, 0},
		{2, 25, 25},
		{5, 10, 40},
		{2, 2, 2},
	} {
		spec := &Spec{Page: tc.page, Limit: tc.limit}
		assert.Equal(t, tc.skip, spec.Skip())
	}
}

func TestParse_LimitCapped(t *testing.T) {
	spec, err := parseQuery(t, "limit=5000")
	require.NoError(t, err)
	assert.Equal(t, testLimits.Max, spec.Limit)
}

func TestParse_InvalidPagination(t *testing.T) {
	for _, raw := range []string{"page=0", "page=-1", "page=abc", "limit=0", "limit=-2", "limit=ten"} {
		_, err := parseQuery(t, raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, models.ErrBadRequest), raw)
	}
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
