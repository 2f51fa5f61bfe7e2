package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"

	DefaultPage     = 1
	DefaultPageSize = 24
)

// Query is a validated pagination/search/sort specification. Build is the
// only constructor; every field is safe to hand to the database afterwards.
type Query struct {
	Table      Table
	Search     string
	Exclude    []uuid.UUID
	SortColumn string
	Direction  string
	Page       int
	PageSize   int
	Limit      int
	Offset     int
}

// Build turns an untrusted query-parameter bag into a Query for the given
// table. It never fails: malformed values fall back to defaults, unknown
// sortBy values resolve to the table's fallback column, and limit/offset are
// clamped so they are always usable.
func Build(table Table, params url.Values) Query {
	q := Query{
		Table:     table,
		Search:    strings.TrimSpace(params.Get("search")),
		Direction: DirectionDesc,
		Page:      positiveInt(params.Get("page"), DefaultPage),
		PageSize:  positiveInt(params.Get("pageSize"), DefaultPageSize),
	}

	if params.Get("direction") == DirectionAsc {
		q.Direction = DirectionAsc
	}

	col, ok := table.SortColumns[params.Get("sortBy")]
	if !ok {
		col = table.Fallback
	}
	q.SortColumn = col

	for _, raw := range params["exclude"] {
		for _, part := range strings.Split(raw, ",") {
			if id, err := uuid.Parse(strings.TrimSpace(part)); err == nil {
				q.Exclude = append(q.Exclude, id)
			}
		}
	}

	q.Limit = q.PageSize
	q.Offset = (q.Page - 1) * q.PageSize
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Filter adds the search OR-clause and the exclude list. Callers AND their
// own predicates (ownership above all) on top; the engine does not scope by
// user on its own.
func (q Query) Filter(db *gorm.DB) *gorm.DB {
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		conds := make([]string, 0, len(q.Table.SearchFields))
		args := make([]interface{}, 0, len(q.Table.SearchFields))
		for _, field := range q.Table.SearchFields {
			conds = append(conds, "LOWER("+field+") LIKE ?")
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if len(q.Exclude) > 0 {
		db = db.Where("id NOT IN ?", q.Exclude)
	}
	return db
}

// Sort orders by the resolved column with id as deterministic tie-break, so
// page boundaries stay stable under duplicate sort-key values.
func (q Query) Sort(db *gorm.DB) *gorm.DB {
	return db.
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.SortColumn},
			Desc:   q.Direction == DirectionDesc,
		}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

// Paginate applies limit and offset.
func (q Query) Paginate(db *gorm.DB) *gorm.DB {
	return db.Limit(q.Limit).Offset(q.Offset)
}

// TotalPages computes the page count for a total returned by a Count over the
// same filter.
func (q Query) TotalPages(total int64) int {
	size := int64(q.PageSize)
	if size < 1 {
		size = 1
	}
	pages := (total + size - 1) / size
	return int(pages)
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
