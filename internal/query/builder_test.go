package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect_Plain(t *testing.T) {
	spec := &Spec{
		Select: []Field{{Name: "id", Column: "id"}, {Name: "name", Column: "name"}},
		Sort:   []SortField{{Field: Field{Name: "createdAt", Column: "created_at"}, Desc: true}},
		Page:   1,
		Limit:  25,
	}

	sql, args := buildSelect(testDescriptor, spec)
	assert.Equal(t, "SELECT id, name FROM widgets ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2", sql)
	assert.Equal(t, []any{25, 0}, args)
}

func TestBuildSelect_FiltersAndPaging(t *testing.T) {
	spec := &Spec{
		Filters: []Filter{
			{Field: Field{Name: "cost", Column: "cost"}, Op: OpGte, Value: "5"},
			{Field: Field{Name: "name", Column: "name"}, Op: OpEq, Value: "gizmo"},
		},
		Select: []Field{{Name: "id", Column: "id"}},
		Sort:   []SortField{{Field: Field{Name: "cost", Column: "cost"}}},
		Page:   3,
		Limit:  10,
	}

	sql, args := buildSelect(testDescriptor, spec)
	assert.Equal(t,
		"SELECT id FROM widgets WHERE cost >= $1 AND name = $2 ORDER BY cost ASC, id ASC LIMIT $3 OFFSET $4",
		sql)
	assert.Equal(t, []any{"5", "gizmo", 10, 20}, args)
}

func TestBuildOrderBy_IDTiebreakNotDuplicated(t *testing.T) {
	clause := buildOrderBy([]SortField{{Field: Field{Name: "id", Column: "id"}, Desc: true}}, "id")
	assert.Equal(t, " ORDER BY id DESC", clause)
}

func TestBuildCount_IgnoresWindow(t *testing.T) {
	spec := &Spec{
		Filters: []Filter{{Field: Field{Name: "cost", Column: "cost"}, Op: OpLt, Value: "9"}},
		Page:    7,
		Limit:   10,
	}

	sql, args := buildCount(testDescriptor, spec)
	assert.Equal(t, "SELECT COUNT(*) FROM widgets WHERE cost < $1", sql)
	assert.Equal(t, []any{"9"}, args)
}

func TestBuildRelation(t *testing.T) {
	rel := &Relation{
		Name:        "user",
		Table:       "users",
		LocalField:  "user",
		RemoteField: Field{Name: "id", Column: "id"},
		Fields:      []Field{{Name: "name", Column: "name"}, {Name: "avatar", Column: "avatar_url"}},
	}

	assert.Equal(t, "SELECT id, name, avatar_url FROM users WHERE id = ANY($1)", buildRelation(rel))
}

func TestPaginate(t *testing.T) {
	// 5 records, limit 2, page 2: previous page exists, next page exists
	p := paginate(&Spec{Page: 2, Limit: 2}, 5)
	require.NotNil(t, p.Prev)
	assert.Equal(t, 1, p.Prev.Page)
	require.NotNil(t, p.Next)
	assert.Equal(t, 3, p.Next.Page)
	assert.Equal(t, 5, p.Total)

	// Last full window: no next
	p = paginate(&Spec{Page: 3, Limit: 2}, 5)
	require.NotNil(t, p.Prev)
	assert.Nil(t, p.Next)

	// First page: no prev; next iff page*limit < total
	p = paginate(&Spec{Page: 1, Limit: 25}, 5)
	assert.Nil(t, p.Prev)
	assert.Nil(t, p.Next)

	p = paginate(&Spec{Page: 1, Limit: 2}, 5)
	assert.Nil(t, p.Prev)
	require.NotNil(t, p.Next)
	assert.Equal(t, 2, p.Next.Page)

	// Boundary: page*limit == total means no next
	p = paginate(&Spec{Page: 2, Limit: 2}, 4)
	assert.Nil(t, p.Next)
}
