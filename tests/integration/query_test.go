package integration

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wexford-labs/widgetry/internal/query"
	"github.com/wexford-labs/widgetry/internal/repositories"
)

func TestListQueries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	owner, err := SeedUser(ctx, testDB.Pool, "Owner", "owner@example.com", "password1", "admin")
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	for i, name := range names {
		_, err := SeedWidget(ctx, testDB.Pool, name, owner.ID, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	runner := query.NewRunner(testDB.DB)
	descriptor := repositories.WidgetDescriptor()
	limits := query.Limits{Default: 25, Max: 100}

	run := func(t *testing.T, raw string) *query.Result {
		t.Helper()
		values, err := url.ParseQuery(raw)
		require.NoError(t, err)
		spec, err := query.Parse(values, &descriptor, limits)
		require.NoError(t, err)
		result, err := runner.Run(ctx, &descriptor, spec)
		require.NoError(t, err)
		return result
	}

	t.Run("default listing is newest first", func(t *testing.T) {
		result := run(t, "")
		require.Equal(t, 5, result.Count)
		assert.Equal(t, "Epsilon", result.Data[0]["name"])
		assert.Equal(t, "Alpha", result.Data[4]["name"])
		assert.Nil(t, result.Pagination.Prev)
		assert.Nil(t, result.Pagination.Next)
	})

	t.Run("filter by exact value", func(t *testing.T) {
		result := run(t, "name=Gamma")
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "Gamma", result.Data[0]["name"])
	})

	t.Run("select narrows fields but keeps id", func(t *testing.T) {
		result := run(t, "select=name")
		require.Equal(t, 5, result.Count)
		row := result.Data[0]
		assert.Contains(t, row, "id")
		assert.Contains(t, row, "name")
		assert.NotContains(t, row, "description")
	})

	t.Run("pagination walks the collection", func(t *testing.T) {
		page2 := run(t, "limit=2&page=2&sort=-createdAt")
		require.Equal(t, 2, page2.Count)
		assert.Equal(t, "Gamma", page2.Data[0]["name"])
		assert.Equal(t, "Beta", page2.Data[1]["name"])
		require.NotNil(t, page2.Pagination.Prev)
		assert.Equal(t, 1, page2.Pagination.Prev.Page)
		require.NotNil(t, page2.Pagination.Next)
		assert.Equal(t, 3, page2.Pagination.Next.Page)

		page3 := run(t, "limit=2&page=3&sort=-createdAt")
		require.Equal(t, 1, page3.Count)
		assert.Equal(t, "Alpha", page3.Data[0]["name"])
		assert.Nil(t, page3.Pagination.Next)
	})

	t.Run("operator filter on createdAt", func(t *testing.T) {
		cutoff := base.Add(2 * time.Minute).Format(time.RFC3339)
		result := run(t, "createdAt[gte]="+url.QueryEscape(cutoff))
		assert.Equal(t, 3, result.Count)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		values, _ := url.ParseQuery("secretNotes=shh")
		_, err := query.Parse(values, &descriptor, limits)
		assert.Error(t, err)
	})
}
