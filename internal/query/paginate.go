// Package query provides the explicit read-model building blocks used by
// the repositories: request-driven pagination and sorting, and the paged
// response envelope returned by every list endpoint.
package query

import (
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageParams describes the slice of a collection a caller asked for.
// SortBy is only ever applied after being checked against a per-endpoint
// whitelist, so it can never reach the SQL layer unvetted.
type PageParams struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir string
}

// ParsePageParams reads page/limit/sortBy/sortType values (as produced by
// c.Query) and clamps them to sane bounds.
func ParsePageParams(page, limit, sortBy, sortType string) PageParams {
	p := PageParams{Page: 1, Limit: DefaultLimit, SortDir: "desc"}

	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	p.SortBy = sortBy
	if sortType == "asc" {
		p.SortDir = "asc"
	}

	return p
}

// Offset returns the row offset for the requested page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Order returns the ORDER BY clause for the params, falling back to
// fallback when SortBy is empty or not in allowed.
func (p PageParams) Order(allowed map[string]string, fallback string) string {
	if column, ok := allowed[p.SortBy]; ok {
		return column + " " + p.SortDir
	}
	return fallback
}

// Scope applies offset/limit so repositories can chain it with their
// filters: db.Scopes(params.Scope()).
func (p PageParams) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// Page is the metadata envelope around one page of documents.
type Page[T any] struct {
	Docs        []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPage assembles the envelope for docs counted against total.
func NewPage[T any](docs []T, total int64, params PageParams) Page[T] {
	if docs == nil {
		docs = []T{}
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	return Page[T]{
		Docs:        docs,
		TotalDocs:   total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  totalPages,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1 && params.Page <= totalPages+1,
	}
}
