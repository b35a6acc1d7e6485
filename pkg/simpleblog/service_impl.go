package simpleblog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// service implements the Service interface
type service struct {
	repository Repository
	cache      ViewCache
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithViewCache sets an optional cache for single-post views
func WithViewCache(cache ViewCache) Option {
	return func(s *service) {
		s.cache = cache
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "titulo"}
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, &ValidationError{Field: "conteudo"}
	}
	if req.AuthorID == 0 {
		return nil, &ValidationError{Field: "autor_id"}
	}

	post := &Post{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: req.AuthorID,
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &StoreError{Op: "create post", Err: err}
	}

	return post, nil
}

func (s *service) GetPost(ctx context.Context, id int64) (*PostView, error) {
	if s.cache != nil {
		if view, ok := s.cache.GetPost(ctx, id); ok {
			return view, nil
		}
	}

	view, err := s.repository.GetPostView(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		return nil, &StoreError{Op: "get post", Err: err}
	}

	if s.cache != nil {
		s.cache.SetPost(ctx, view)
	}

	return view, nil
}

func (s *service) ListPosts(ctx context.Context) ([]*PostView, error) {
	views, err := s.repository.ListPostViews(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list posts", Err: err}
	}
	return views, nil
}

func (s *service) ListPostsByAuthor(ctx context.Context, authorID int64) ([]*PostView, error) {
	views, err := s.repository.ListPostViewsByAuthor(ctx, authorID)
	if err != nil {
		return nil, &StoreError{Op: "list posts by author", Err: err}
	}
	return views, nil
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Field: "titulo"}
	}
	if strings.TrimSpace(req.Body) == "" {
		return &ValidationError{Field: "conteudo"}
	}

	err := s.repository.UpdatePost(ctx, req.ID, req.AuthorID, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			return err
		}
		return &StoreError{Op: "update post", Err: err}
	}

	if s.cache != nil {
		s.cache.InvalidatePost(ctx, req.ID)
	}

	return nil
}

// Comment operations

func (s *service) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Field: "texto"}
	}
	if req.PostID == 0 {
		return nil, &ValidationError{Field: "post_id"}
	}
	if req.AuthorID == 0 {
		return nil, &ValidationError{Field: "autor_id"}
	}

	comment := &Comment{
		Text:     req.Text,
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
	}

	if err := s.repository.CreateComment(ctx, comment); err != nil {
		return nil, &StoreError{Op: "create comment", Err: err}
	}

	return comment, nil
}

func (s *service) GetComment(ctx context.Context, id int64) (*CommentView, error) {
	view, err := s.repository.GetCommentView(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return nil, err
		}
		return nil, &StoreError{Op: "get comment", Err: err}
	}
	return view, nil
}

// ListPostComments returns the comments on a post. An unknown post id yields
// an empty list, not an error; parent existence is not separately checked.
func (s *service) ListPostComments(ctx context.Context, postID int64) ([]*CommentView, error) {
	views, err := s.repository.ListCommentViewsByPost(ctx, postID)
	if err != nil {
		return nil, &StoreError{Op: "list post comments", Err: err}
	}
	return views, nil
}

func (s *service) ListAuthorComments(ctx context.Context, authorID int64) ([]*AuthorCommentView, error) {
	views, err := s.repository.ListCommentViewsByAuthor(ctx, authorID)
	if err != nil {
		return nil, &StoreError{Op: "list author comments", Err: err}
	}
	return views, nil
}

func (s *service) UpdateComment(ctx context.Context, req UpdateCommentRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return &ValidationError{Field: "texto"}
	}

	err := s.repository.UpdateComment(ctx, req.ID, req.AuthorID, req.Text)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			return err
		}
		return &StoreError{Op: "update comment", Err: err}
	}

	return nil
}
