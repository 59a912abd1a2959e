package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageParamsDefaults(t *testing.T) {
	p := ParsePageParams("", "", "", "")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, "desc", p.SortDir)
	assert.Empty(t, p.SortBy)
}

func TestParsePageParamsClamping(t *testing.T) {
	p := ParsePageParams("0", "-5", "", "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = ParsePageParams("3", "5000", "", "")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = ParsePageParams("garbage", "also garbage", "", "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestParsePageParamsSortDirection(t *testing.T) {
	assert.Equal(t, "asc", ParsePageParams("", "", "views", "asc").SortDir)
	assert.Equal(t, "desc", ParsePageParams("", "", "views", "desc").SortDir)
	// Anything but an explicit "asc" falls back to descending.
	assert.Equal(t, "desc", ParsePageParams("", "", "views", "ASC; DROP TABLE").SortDir)
}

func TestOrderUsesWhitelistOnly(t *testing.T) {
	allowed := map[string]string{"createdAt": "created_at", "views": "views"}

	p := ParsePageParams("", "", "views", "asc")
	assert.Equal(t, "views asc", p.Order(allowed, "created_at DESC"))

	p = ParsePageParams("", "", "password; --", "asc")
	assert.Equal(t, "created_at DESC", p.Order(allowed, "created_at DESC"))

	p = ParsePageParams("", "", "", "")
	assert.Equal(t, "created_at DESC", p.Order(allowed, "created_at DESC"))
}

func TestOffset(t *testing.T) {
	p := PageParams{Page: 1, Limit: 10}
	assert.Equal(t, 0, p.Offset())

	p = PageParams{Page: 4, Limit: 25}
	assert.Equal(t, 75, p.Offset())
}

func TestNewPageMetadata(t *testing.T) {
	params := PageParams{Page: 2, Limit: 10}
	page := NewPage(make([]int, 10), 35, params)

	assert.Equal(t, int64(35), page.TotalDocs)
	assert.Equal(t, 4, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)

	first := NewPage(make([]int, 10), 35, PageParams{Page: 1, Limit: 10})
	assert.False(t, first.HasPrevPage)
	assert.True(t, first.HasNextPage)

	last := NewPage(make([]int, 5), 35, PageParams{Page: 4, Limit: 10})
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)
}

func TestNewPageNeverReturnsNilDocs(t *testing.T) {
	page := NewPage[int](nil, 0, PageParams{Page: 1, Limit: 10})

	assert.NotNil(t, page.Docs)
	assert.Empty(t, page.Docs)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)
}
