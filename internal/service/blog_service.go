package service

import (
	"errors"
	"time"

	"blogging-api/internal/domain"
	"blogging-api/internal/repository"
	"blogging-api/internal/websocket"
	"blogging-api/pkg/markdown"
	"blogging-api/pkg/readingtime"

	"github.com/google/uuid"
)

type BlogService struct {
	repo     repository.BlogRepository
	userRepo repository.UserRepository
	feed     *websocket.Hub
}

// NewBlogService wires the blog logic. The feed hub may be nil; publishing
// then simply emits no events.
func NewBlogService(repo repository.BlogRepository, userRepo repository.UserRepository, feed *websocket.Hub) *BlogService {
	return &BlogService{
		repo:     repo,
		userRepo: userRepo,
		feed:     feed,
	}
}

func (s *BlogService) Create(authorID string, req *domain.CreateBlogRequest) (*domain.Blog, error) {
	state := req.State
	if state == "" {
		state = domain.BlogStateDraft
	}

	blog := &domain.Blog{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Body:        req.Body,
		State:       state,
		Author:      authorID,
		ReadingTime: readingtime.Estimate(req.Body),
		ReadCount:   0,
		Timestamp:   time.Now(),
	}

	if err := s.repo.Create(blog); err != nil {
		return nil, err
	}

	if blog.State == domain.BlogStatePublished {
		s.notifyPublished(blog)
	}

	return blog, nil
}

// ListPublished executes a sanitized listing query and resolves each
// author to its public fields. No matches is an empty list, not an error.
func (s *BlogService) ListPublished(query *domain.BlogQuery) ([]*domain.BlogResponse, error) {
	blogs, err := s.repo.FindPublished(query)
	if err != nil {
		return nil, err
	}

	authors := make(map[string]*domain.AuthorInfo)
	responses := make([]*domain.BlogResponse, 0, len(blogs))
	for _, blog := range blogs {
		responses = append(responses, s.toResponse(blog, authors, false))
	}

	return responses, nil
}

// GetPublished fetches one published post, counting the read. The rendered
// HTML body is only produced on single-post reads.
func (s *BlogService) GetPublished(id string) (*domain.BlogResponse, error) {
	blog, err := s.repo.IncrementReadCount(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	return s.toResponse(blog, make(map[string]*domain.AuthorInfo), true), nil
}

// ListMine returns every post owned by the caller, drafts included,
// optionally narrowed to one state.
func (s *BlogService) ListMine(ownerID string, state domain.BlogState) ([]*domain.Blog, error) {
	blogs, err := s.repo.FindByOwner(ownerID, state)
	if err != nil {
		return nil, err
	}

	if blogs == nil {
		blogs = []*domain.Blog{}
	}
	return blogs, nil
}

func (s *BlogService) Update(ownerID, id string, req *domain.UpdateBlogRequest) (*domain.Blog, error) {
	blog, err := s.repo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	wasPublished := blog.State == domain.BlogStatePublished

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Description != nil {
		blog.Description = *req.Description
	}
	if req.Tags != nil {
		blog.Tags = req.Tags
	}
	if req.Body != nil {
		blog.Body = *req.Body
		blog.ReadingTime = readingtime.Estimate(blog.Body)
	}
	if req.State != nil {
		blog.State = *req.State
	}

	if err := s.repo.Update(blog); err != nil {
		return nil, err
	}

	if !wasPublished && blog.State == domain.BlogStatePublished {
		s.notifyPublished(blog)
	}

	return blog, nil
}

func (s *BlogService) Delete(ownerID, id string) error {
	if err := s.repo.Delete(id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	return nil
}

func (s *BlogService) toResponse(blog *domain.Blog, authors map[string]*domain.AuthorInfo, renderBody bool) *domain.BlogResponse {
	author, ok := authors[blog.Author]
	if !ok {
		if user, err := s.userRepo.FindByID(blog.Author); err == nil {
			author = user.Author()
		}
		authors[blog.Author] = author
	}

	resp := &domain.BlogResponse{
		ID:          blog.ID,
		Title:       blog.Title,
		Description: blog.Description,
		Tags:        blog.Tags,
		Body:        blog.Body,
		State:       blog.State,
		Author:      author,
		ReadingTime: blog.ReadingTime,
		ReadCount:   blog.ReadCount,
		Timestamp:   blog.Timestamp,
	}

	if renderBody {
		resp.BodyHTML = markdown.Render(blog.Body)
	}

	return resp
}

type publishedPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	ReadingTime int       `json:"reading_time"`
	Timestamp   time.Time `json:"timestamp"`
}

func (s *BlogService) notifyPublished(blog *domain.Blog) {
	if s.feed == nil {
		return
	}

	s.feed.Broadcast(websocket.NewEvent(websocket.TypePostPublished, &publishedPayload{
		ID:          blog.ID,
		Title:       blog.Title,
		Description: blog.Description,
		Tags:        blog.Tags,
		Author:      blog.Author,
		ReadingTime: blog.ReadingTime,
		Timestamp:   blog.Timestamp,
	}))
}
