// Package query builds sanitized listing specifications from untrusted
// request parameters. It never executes queries itself; the resulting
// BlogQuery is handed to the repository layer.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"blogging-api/internal/domain"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 20
	DefaultSortField = "timestamp"
)

// Sortable fields are whitelisted: CouchDB rejects sorts without a matching
// index, so unknown fields fall back to the creation timestamp instead of
// surfacing store errors to anonymous readers.
var sortableFields = map[string]bool{
	"timestamp":    true,
	"read_count":   true,
	"reading_time": true,
	"title":        true,
}

// ParseListing is permissive: malformed paging values fall back to defaults
// rather than erroring, since the public listing accepts anonymous input.
func ParseListing(values url.Values) *domain.BlogQuery {
	q := &domain.BlogQuery{
		Page:       positiveInt(values.Get("page"), DefaultPage),
		Limit:      positiveInt(values.Get("limit"), DefaultLimit),
		Title:      values.Get("title"),
		Author:     values.Get("author"),
		SortField:  DefaultSortField,
		Descending: true,
	}

	if tags := values.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Tags = append(q.Tags, tag)
			}
		}
	}

	if orderBy := values.Get("orderBy"); sortableFields[orderBy] {
		q.SortField = orderBy
	}

	if values.Get("order") == "asc" {
		q.Descending = false
	}

	return q
}

func positiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
