package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"blogging-api/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// readCountRetries bounds the optimistic retry loop on the read-count
// increment. Contention on a single post is brief, so a handful of
// attempts is plenty.
const readCountRetries = 5

type BlogRepository interface {
	Create(blog *domain.Blog) error
	FindPublished(query *domain.BlogQuery) ([]*domain.Blog, error)
	IncrementReadCount(id string) (*domain.Blog, error)
	FindByOwner(ownerID string, state domain.BlogState) ([]*domain.Blog, error)
	FindByIDAndOwner(id, ownerID string) (*domain.Blog, error)
	Update(blog *domain.Blog) error
	Delete(id, ownerID string) error
}

type blogRepository struct {
	client *kivik.Client
	dbName string
}

func NewBlogRepository(client *kivik.Client, dbName string) BlogRepository {
	return &blogRepository{
		client: client,
		dbName: dbName,
	}
}

// EnsureBlogIndexes creates the Mango indexes the listing sorts depend on.
// CouchDB refuses to sort on a field without one.
func EnsureBlogIndexes(client *kivik.Client, dbName string) error {
	db := client.DB(dbName)

	fields := []string{"timestamp", "read_count", "reading_time", "title", "state", "author"}
	for _, field := range fields {
		index := map[string]interface{}{
			"fields": []string{field},
		}
		if err := db.CreateIndex(context.Background(), "indexes", "by-"+field, index); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", field, err)
		}
	}

	return nil
}

func (r *blogRepository) Create(blog *domain.Blog) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("blog:%s", blog.ID)
	if _, err := db.Put(context.Background(), docID, blog); err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	return nil
}

// buildListQuery translates a sanitized BlogQuery into a Mango query
// scoped to published posts.
func buildListQuery(q *domain.BlogQuery) map[string]interface{} {
	selector := map[string]interface{}{
		"state": string(domain.BlogStatePublished),
	}

	if q.Title != "" {
		selector["title"] = map[string]interface{}{
			"$regex": "(?i)" + regexp.QuoteMeta(q.Title),
		}
	}

	if len(q.Tags) > 0 {
		selector["tags"] = map[string]interface{}{
			"$elemMatch": map[string]interface{}{"$in": q.Tags},
		}
	}

	if q.Author != "" {
		selector["author"] = q.Author
	}

	// The Mango planner only picks an index whose fields the selector
	// constrains. An always-true range predicate on the sort field keeps
	// the matching by-<field> index usable without excluding any docs.
	if existing, ok := selector[q.SortField].(map[string]interface{}); ok {
		existing["$gt"] = nil
	} else {
		selector[q.SortField] = map[string]interface{}{"$gt": nil}
	}

	direction := "asc"
	if q.Descending {
		direction = "desc"
	}

	return map[string]interface{}{
		"selector": selector,
		"sort":     []map[string]string{{q.SortField: direction}},
		"skip":     q.Skip(),
		"limit":    q.Limit,
	}
}

func (r *blogRepository) FindPublished(query *domain.BlogQuery) ([]*domain.Blog, error) {
	db := r.client.DB(r.dbName)

	rows := db.Find(context.Background(), buildListQuery(query))
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list published blogs: %w", err)
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		var blog domain.Blog
		if err := rows.ScanDoc(&blog); err != nil {
			continue
		}
		blogs = append(blogs, &blog)
	}

	return blogs, nil
}

// IncrementReadCount fetches a published blog and bumps its read count as
// one atomic step. The Put carries the fetched revision, so a concurrent
// increment makes it fail with a conflict and the whole step is retried;
// no increment is ever lost. Missing or unpublished posts are both
// ErrNotFound.
func (r *blogRepository) IncrementReadCount(id string) (*domain.Blog, error) {
	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("blog:%s", id)

	for attempt := 0; attempt < readCountRetries; attempt++ {
		row := db.Get(context.Background(), docID)

		var blog domain.Blog
		if err := row.ScanDoc(&blog); err != nil {
			if kivik.HTTPStatus(err) == http.StatusNotFound {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to fetch blog: %w", err)
		}

		if blog.State != domain.BlogStatePublished {
			return nil, ErrNotFound
		}

		blog.ReadCount++

		rev, err := db.Put(context.Background(), docID, &blog)
		if err != nil {
			if kivik.HTTPStatus(err) == http.StatusConflict {
				continue // lost the race to another reader, refetch
			}
			return nil, fmt.Errorf("failed to update read count: %w", err)
		}

		blog.Rev = rev
		return &blog, nil
	}

	return nil, fmt.Errorf("failed to update read count for blog %s: too many conflicts", id)
}

func (r *blogRepository) FindByOwner(ownerID string, state domain.BlogState) ([]*domain.Blog, error) {
	db := r.client.DB(r.dbName)

	selector := map[string]interface{}{
		"author": ownerID,
	}
	if state != "" {
		selector["state"] = string(state)
	}

	rows := db.Find(context.Background(), map[string]interface{}{"selector": selector})
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list blogs by owner: %w", err)
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		var blog domain.Blog
		if err := rows.ScanDoc(&blog); err != nil {
			continue
		}
		blogs = append(blogs, &blog)
	}

	return blogs, nil
}

// FindByIDAndOwner collapses "missing" and "owned by someone else" into the
// same ErrNotFound, so existence never leaks across owners.
func (r *blogRepository) FindByIDAndOwner(id, ownerID string) (*domain.Blog, error) {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("blog:%s", id)
	row := db.Get(context.Background(), docID)

	var blog domain.Blog
	if err := row.ScanDoc(&blog); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch blog: %w", err)
	}

	if blog.Author != ownerID {
		return nil, ErrNotFound
	}

	return &blog, nil
}

func (r *blogRepository) Update(blog *domain.Blog) error {
	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("blog:%s", blog.ID)
	rev, err := db.Put(context.Background(), docID, blog)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}

	blog.Rev = rev
	return nil
}

func (r *blogRepository) Delete(id, ownerID string) error {
	blog, err := r.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return err
	}

	db := r.client.DB(r.dbName)
	docID := fmt.Sprintf("blog:%s", id)
	if _, err := db.Delete(context.Background(), docID, blog.Rev); err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	return nil
}
