package query

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseListingDefaults(t *testing.T) {
	q := ParseListing(url.Values{})

	if q.Page != DefaultPage {
		t.Errorf("Page = %d, want %d", q.Page, DefaultPage)
	}
	if q.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", q.Limit, DefaultLimit)
	}
	if q.SortField != "timestamp" {
		t.Errorf("SortField = %q, want timestamp", q.SortField)
	}
	if !q.Descending {
		t.Error("Descending = false, want true by default")
	}
	if q.Title != "" || q.Author != "" || len(q.Tags) != 0 {
		t.Errorf("unexpected filters in empty query: %+v", q)
	}
}

func TestParseListingPaging(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"valid values", "2", "5", 2, 5},
		{"non-numeric page", "abc", "5", DefaultPage, 5},
		{"non-numeric limit", "2", "xyz", 2, DefaultLimit},
		{"zero page", "0", "10", DefaultPage, 10},
		{"negative limit", "1", "-3", 1, DefaultLimit},
		{"empty values", "", "", DefaultPage, DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			values.Set("page", tt.page)
			values.Set("limit", tt.limit)

			q := ParseListing(values)
			if q.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", q.Page, tt.wantPage)
			}
			if q.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", q.Limit, tt.wantLimit)
			}
		})
	}
}

func TestParseListingTags(t *testing.T) {
	tests := []struct {
		name string
		tags string
		want []string
	}{
		{"single tag", "go", []string{"go"}},
		{"comma separated", "test,blog", []string{"test", "blog"}},
		{"surrounding whitespace", " test , blog ", []string{"test", "blog"}},
		{"empty segments dropped", "test,,blog,", []string{"test", "blog"}},
		{"absent", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.tags != "" {
				values.Set("tags", tt.tags)
			}

			q := ParseListing(values)
			if !reflect.DeepEqual(q.Tags, tt.want) {
				t.Errorf("Tags = %v, want %v", q.Tags, tt.want)
			}
		})
	}
}

func TestParseListingSort(t *testing.T) {
	tests := []struct {
		name           string
		orderBy        string
		order          string
		wantField      string
		wantDescending bool
	}{
		{"default sort", "", "", "timestamp", true},
		{"read count ascending", "read_count", "asc", "read_count", false},
		{"reading time", "reading_time", "desc", "reading_time", true},
		{"title", "title", "asc", "title", false},
		{"unknown field falls back", "password", "asc", "timestamp", false},
		{"unknown order stays descending", "timestamp", "sideways", "timestamp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			values.Set("orderBy", tt.orderBy)
			values.Set("order", tt.order)

			q := ParseListing(values)
			if q.SortField != tt.wantField {
				t.Errorf("SortField = %q, want %q", q.SortField, tt.wantField)
			}
			if q.Descending != tt.wantDescending {
				t.Errorf("Descending = %v, want %v", q.Descending, tt.wantDescending)
			}
		})
	}
}

func TestBlogQuerySkip(t *testing.T) {
	q := ParseListing(url.Values{"page": {"3"}, "limit": {"10"}})
	if got := q.Skip(); got != 20 {
		t.Errorf("Skip() = %d, want 20", got)
	}
}
