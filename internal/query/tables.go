package query

// Table describes the closed set of columns pagination is allowed to touch
// for one resource table. Every value here is a database column name known at
// compile time; nothing in this registry ever comes from a request.
type Table struct {
	Name string

	// SortColumns maps the request-facing sortBy names to real columns.
	SortColumns map[string]string

	// SearchFields are the columns the free-text search matches against.
	SearchFields []string

	// Fallback is the sort column used when sortBy does not resolve.
	Fallback string
}

var Links = Table{
	Name: "links",
	SortColumns: map[string]string{
		"title":     "title",
		"url":       "url",
		"views":     "views",
		"lastVisit": "last_visit",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	SearchFields: []string{"title", "url", "description"},
	Fallback:     "created_at",
}

var Collections = Table{
	Name: "collections",
	SortColumns: map[string]string{
		"name":      "name",
		"order":     "sort_order",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	SearchFields: []string{"name", "description"},
	Fallback:     "created_at",
}

var Tags = Table{
	Name: "tags",
	SortColumns: map[string]string{
		"name":      "name",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	SearchFields: []string{"name", "description"},
	Fallback:     "created_at",
}
