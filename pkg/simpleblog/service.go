package simpleblog

import (
	"context"
)

// Service is the content-management boundary. Every operation either returns
// a success value or one of the errors described in errors.go; transports map
// those to status codes and perform no further interpretation.
type Service interface {
	// Post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id int64) (*PostView, error)
	ListPosts(ctx context.Context) ([]*PostView, error)
	ListPostsByAuthor(ctx context.Context, authorID int64) ([]*PostView, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) error

	// Comment operations
	CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error)
	GetComment(ctx context.Context, id int64) (*CommentView, error)
	ListPostComments(ctx context.Context, postID int64) ([]*CommentView, error)
	ListAuthorComments(ctx context.Context, authorID int64) ([]*AuthorCommentView, error)
	UpdateComment(ctx context.Context, req UpdateCommentRequest) error
}
