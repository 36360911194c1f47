package api

import (
	"net/http"
	"strconv"
)

const (
	defaultPerPage = 5
	maxPerPage     = 100
)

// parsePagination extracts page and per_page from query parameters.
// page defaults to 1, per_page defaults to 5 and is silently capped at 100.
// Malformed or non-positive values fall back to the defaults.
func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = defaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if parsed, err := strconv.Atoi(pp); err == nil && parsed > 0 {
			perPage = parsed
		}
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return page, perPage
}

// buildMeta computes pagination metadata for a page of size perPage out of
// total records. Out-of-range pages get consistent metadata rather than an
// error: has_next is false and the caller serves an empty data array.
func buildMeta(page, perPage int, total int64) ListMeta {
	pages := int((total + int64(perPage) - 1) / int64(perPage))

	meta := ListMeta{
		Page:       page,
		Pages:      pages,
		TotalCount: total,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
	if meta.HasPrev {
		prev := page - 1
		meta.Prev = &prev
	}
	if meta.HasNext {
		next := page + 1
		meta.NextPage = &next
	}
	return meta
}
