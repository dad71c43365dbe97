package domain

import "time"

type BlogState string

const (
	BlogStateDraft     BlogState = "draft"
	BlogStatePublished BlogState = "published"
)

type Blog struct {
	ID          string    `json:"id"`
	Rev         string    `json:"_rev,omitempty"` // CouchDB revision, required for updates and deletes
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	Body        string    `json:"body"`
	State       BlogState `json:"state"`
	Author      string    `json:"author"`
	ReadingTime int       `json:"reading_time"`
	ReadCount   int64     `json:"read_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// BlogResponse is a blog with its author resolved to public fields,
// returned by the public listing and single-post endpoints.
type BlogResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags"`
	Body        string      `json:"body"`
	BodyHTML    string      `json:"body_html,omitempty"`
	State       BlogState   `json:"state"`
	Author      *AuthorInfo `json:"author"`
	ReadingTime int         `json:"reading_time"`
	ReadCount   int64       `json:"read_count"`
	Timestamp   time.Time   `json:"timestamp"`
}

type CreateBlogRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Body        string    `json:"body" validate:"required"`
	State       BlogState `json:"state" validate:"omitempty,oneof=draft published"`
}

type UpdateBlogRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	Body        *string    `json:"body" validate:"omitempty,min=1"`
	State       *BlogState `json:"state" validate:"omitempty,oneof=draft published"`
}

// BlogQuery is the sanitized listing specification built from untrusted
// request parameters. It is never persisted.
type BlogQuery struct {
	Page       int
	Limit      int
	Title      string
	Tags       []string
	Author     string
	SortField  string
	Descending bool
}

func (q *BlogQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}
