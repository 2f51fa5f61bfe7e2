package query

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBuildDefaults(t *testing.T) {
	q := Build(Links, url.Values{})

	assert.Equal(t, DirectionDesc, q.Direction)
	assert.Equal(t, "created_at", q.SortColumn)
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, DefaultPageSize, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.Exclude)
}

func TestBuildNeverReturnsUnusableLimits(t *testing.T) {
	pages := []string{"", "0", "-3", "abc", "2", "999999"}
	sizes := []string{"", "0", "-1", "xyz", "10", "1"}

	for _, page := range pages {
		for _, size := range sizes {
			params := url.Values{}
			params.Set("page", page)
			params.Set("pageSize", size)

			q := Build(Links, params)
			assert.GreaterOrEqual(t, q.Limit, 1, "page=%q pageSize=%q", page, size)
			assert.GreaterOrEqual(t, q.Offset, 0, "page=%q pageSize=%q", page, size)
		}
	}
}

func TestBuildOffsetFromPage(t *testing.T) {
	params := url.Values{}
	params.Set("page", "3")
	params.Set("pageSize", "10")

	q := Build(Collections, params)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)
}

func TestBuildUnknownSortColumnFallsBack(t *testing.T) {
	for _, sortBy := range []string{"", "ownerId", "owner_id; DROP TABLE links", "nope", "ID"} {
		params := url.Values{}
		params.Set("sortBy", sortBy)

		q := Build(Links, params)
		assert.Equal(t, "created_at", q.SortColumn, "sortBy=%q", sortBy)
	}
}

func TestBuildResolvesKnownSortColumns(t *testing.T) {
	params := url.Values{}
	params.Set("sortBy", "lastVisit")
	assert.Equal(t, "last_visit", Build(Links, params).SortColumn)

	params.Set("sortBy", "name")
	assert.Equal(t, "name", Build(Tags, params).SortColumn)
}

func TestBuildDirection(t *testing.T) {
	params := url.Values{}
	params.Set("direction", "asc")
	assert.Equal(t, DirectionAsc, Build(Links, params).Direction)

	params.Set("direction", "DESC; DROP TABLE")
	assert.Equal(t, DirectionDesc, Build(Links, params).Direction)
}

func TestBuildExclude(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	params := url.Values{}
	params.Add("exclude", a.String()+","+b.String())
	params.Add("exclude", "not-a-uuid")

	q := Build(Collections, params)
	assert.Equal(t, []uuid.UUID{a, b}, q.Exclude)
}

func TestTotalPages(t *testing.T) {
	params := url.Values{}
	params.Set("pageSize", "10")
	q := Build(Links, params)

	assert.Equal(t, 0, q.TotalPages(0))
	assert.Equal(t, 1, q.TotalPages(1))
	assert.Equal(t, 1, q.TotalPages(10))
	assert.Equal(t, 2, q.TotalPages(11))
}

// The hostile-input scenario end to end: malformed sort, page and size must
// degrade to well-formed defaults, and the raw strings must never reach the
// generated SQL.
func TestHostileParamsProduceSafeSQL(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	params := url.Values{}
	params.Set("sortBy", "ownerId; DROP TABLE links")
	params.Set("page", "-3")
	params.Set("pageSize", "0")
	params.Set("search", "golang")

	q := Build(Links, params)
	assert.Equal(t, "created_at", q.SortColumn)
	assert.GreaterOrEqual(t, q.Limit, 1)
	assert.Equal(t, 0, q.Offset)

	session := db.Session(&gorm.Session{DryRun: true}).Table("links")
	type row struct{ ID uuid.UUID }
	var rows []row
	stmt := q.Sort(q.Paginate(q.Filter(session))).Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.NotContains(t, sql, "DROP TABLE")
	assert.Contains(t, sql, "LOWER(title) LIKE")
	assert.Contains(t, sql, "LOWER(url) LIKE")
	assert.Contains(t, sql, "created_at")
}
