package simpleblog

import (
	"context"
)

// Repository defines the interface for post and comment persistence.
//
// List and view methods return author-enriched projections with inner-join
// semantics: a row whose author no longer exists is silently dropped, never
// surfaced as an error. Update methods carry the author id in the mutation
// predicate and return ErrNotOwner when no row matched.
type Repository interface {
	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPostView(ctx context.Context, id int64) (*PostView, error)
	ListPostViews(ctx context.Context) ([]*PostView, error)
	ListPostViewsByAuthor(ctx context.Context, authorID int64) ([]*PostView, error)
	UpdatePost(ctx context.Context, id, authorID int64, title, body string) error

	// Comment operations
	CreateComment(ctx context.Context, comment *Comment) error
	GetCommentView(ctx context.Context, id int64) (*CommentView, error)
	ListCommentViewsByPost(ctx context.Context, postID int64) ([]*CommentView, error)
	ListCommentViewsByAuthor(ctx context.Context, authorID int64) ([]*AuthorCommentView, error)
	UpdateComment(ctx context.Context, id, authorID int64, text string) error

	// User seeding. Account lifecycle belongs to the authentication service;
	// the content core only needs authors to exist for its joins.
	CreateUser(ctx context.Context, user *User) error
}

// ViewCache caches single-post views in front of the repository. Lookups that
// miss or fail return ok=false; writes are best effort and must never fail
// the request.
type ViewCache interface {
	GetPost(ctx context.Context, id int64) (view *PostView, ok bool)
	SetPost(ctx context.Context, view *PostView)
	InvalidatePost(ctx context.Context, id int64)
}
