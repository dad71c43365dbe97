package repository

import (
	"net/url"
	"reflect"
	"testing"

	"blogging-api/internal/domain"
	"blogging-api/internal/query"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name         string
		params       url.Values
		wantSelector map[string]interface{}
		wantSort     []map[string]string
		wantSkip     int
		wantLimit    int
	}{
		{
			name:   "published only by default",
			params: url.Values{},
			wantSelector: map[string]interface{}{
				"state":     "published",
				"timestamp": map[string]interface{}{"$gt": nil},
			},
			wantSort:  []map[string]string{{"timestamp": "desc"}},
			wantSkip:  0,
			wantLimit: 20,
		},
		{
			name: "all filters",
			params: url.Values{
				"title":   {"First"},
				"tags":    {"test,blog"},
				"author":  {"user-1"},
				"orderBy": {"read_count"},
				"order":   {"asc"},
				"page":    {"3"},
				"limit":   {"5"},
			},
			wantSelector: map[string]interface{}{
				"state":      "published",
				"title":      map[string]interface{}{"$regex": "(?i)First"},
				"tags":       map[string]interface{}{"$elemMatch": map[string]interface{}{"$in": []string{"test", "blog"}}},
				"author":     "user-1",
				"read_count": map[string]interface{}{"$gt": nil},
			},
			wantSort:  []map[string]string{{"read_count": "asc"}},
			wantSkip:  10,
			wantLimit: 5,
		},
		{
			name:   "regex metacharacters quoted",
			params: url.Values{"title": {"c++ (part 1)"}},
			wantSelector: map[string]interface{}{
				"state":     "published",
				"title":     map[string]interface{}{"$regex": `(?i)c\+\+ \(part 1\)`},
				"timestamp": map[string]interface{}{"$gt": nil},
			},
			wantSort:  []map[string]string{{"timestamp": "desc"}},
			wantSkip:  0,
			wantLimit: 20,
		},
		{
			name: "title sort merges into the title filter",
			params: url.Values{
				"title":   {"go"},
				"orderBy": {"title"},
			},
			wantSelector: map[string]interface{}{
				"state": "published",
				"title": map[string]interface{}{"$regex": "(?i)go", "$gt": nil},
			},
			wantSort:  []map[string]string{{"title": "desc"}},
			wantSkip:  0,
			wantLimit: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildListQuery(query.ParseListing(tt.params))

			if !reflect.DeepEqual(got["selector"], tt.wantSelector) {
				t.Errorf("selector = %#v, want %#v", got["selector"], tt.wantSelector)
			}
			if !reflect.DeepEqual(got["sort"], tt.wantSort) {
				t.Errorf("sort = %#v, want %#v", got["sort"], tt.wantSort)
			}
			if got["skip"] != tt.wantSkip {
				t.Errorf("skip = %v, want %d", got["skip"], tt.wantSkip)
			}
			if got["limit"] != tt.wantLimit {
				t.Errorf("limit = %v, want %d", got["limit"], tt.wantLimit)
			}
		})
	}
}

func TestBuildListQuerySortFieldAlwaysConstrained(t *testing.T) {
	// CouchDB rejects a sorted find unless the selector constrains the
	// sort field, so every sortable field must show up in the selector.
	for _, field := range []string{"timestamp", "read_count", "reading_time", "title"} {
		got := buildListQuery(query.ParseListing(url.Values{"orderBy": {field}}))

		selector := got["selector"].(map[string]interface{})
		pred, ok := selector[field].(map[string]interface{})
		if !ok {
			t.Errorf("sort field %q missing from selector", field)
			continue
		}
		if _, ok := pred["$gt"]; !ok {
			t.Errorf("sort field %q lacks the always-true range predicate", field)
		}
	}
}

func TestBuildListQueryNeverLeaksDrafts(t *testing.T) {
	// Even a crafted author/state combination cannot widen the listing
	// beyond published posts.
	q := query.ParseListing(url.Values{"author": {"someone"}})
	got := buildListQuery(q)

	selector := got["selector"].(map[string]interface{})
	if selector["state"] != string(domain.BlogStatePublished) {
		t.Errorf("state = %v, want published", selector["state"])
	}
}
