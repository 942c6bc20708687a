package dto

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageMeta is the pagination block returned alongside every listing.
type PageMeta struct {
	TotalElements int64   `json:"totalElements"`
	CurrentPage   int     `json:"currentPage"`
	Limit         int     `json:"limit"`
	TotalPages    int     `json:"totalPages"`
	NextPageURL   *string `json:"nextPageUrl"`
	PrevPageURL   *string `json:"prevPageUrl"`
}

// Page is a listing response.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// QueryParam is one filter carried into prev/next URLs. Empty values are skipped.
type QueryParam struct {
	Key   string
	Value string
}

// NormalizeLimit applies the default and the upper bound.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// ClampPage returns the page actually served and the total page count.
// A request past the end is pulled back to the last page; with no rows the
// current page is 1 and totalPages is 0.
func ClampPage(page, limit int, total int64) (current, totalPages int) {
	limit = NormalizeLimit(limit)
	totalPages = int((total + int64(limit) - 1) / int64(limit))
	current = page
	if current > totalPages {
		current = totalPages
	}
	if current < 1 {
		current = 1
	}
	return current, totalPages
}

// Offset is the row offset of page for limit.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// NewPageMeta builds the meta block. baseURL is API_BASE_URL plus the
// collection path; params are appended after page and limit in order.
func NewPageMeta(baseURL string, total int64, current, totalPages, limit int, params ...QueryParam) PageMeta {
	meta := PageMeta{
		TotalElements: total,
		CurrentPage:   current,
		Limit:         limit,
		TotalPages:    totalPages,
	}
	if current < totalPages {
		u := pageURL(baseURL, current+1, limit, params)
		meta.NextPageURL = &u
	}
	if current > 1 {
		u := pageURL(baseURL, current-1, limit, params)
		meta.PrevPageURL = &u
	}
	return meta
}

func pageURL(baseURL string, page, limit int, params []QueryParam) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s?page=%d&limit=%d", baseURL, page, limit)
	for _, p := range params {
		if p.Value == "" {
			continue
		}
		b.WriteString("&" + p.Key + "=" + url.QueryEscape(p.Value))
	}
	return b.String()
}
