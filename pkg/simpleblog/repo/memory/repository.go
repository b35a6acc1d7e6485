package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Repository implements simpleblog.Repository using in-memory storage. It
// mirrors the SQL repository's semantics: foreign keys are enforced on insert,
// view queries use inner-join semantics, and ownership-guarded updates report
// simpleblog.ErrNotOwner when the id/author predicate matches no row.
type Repository struct {
	mu       sync.RWMutex
	users    map[int64]*simpleblog.User
	posts    map[int64]*simpleblog.Post
	comments map[int64]*simpleblog.Comment

	// insertion order of ids, for ordered listings
	postOrder    []int64
	commentOrder []int64

	nextUserID    int64
	nextPostID    int64
	nextCommentID int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		users:    make(map[int64]*simpleblog.User),
		posts:    make(map[int64]*simpleblog.Post),
		comments: make(map[int64]*simpleblog.Comment),
	}
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simpleblog.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		r.nextUserID++
		user.ID = r.nextUserID
	} else if user.ID > r.nextUserID {
		r.nextUserID = user.ID
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	userCopy := *user
	r.users[user.ID] = &userCopy

	return nil
}

// DeleteUser removes a user row. Account deletion is driven by the
// authentication service, not by the content core; content referencing a
// removed user simply drops out of the author-enriched views.
func (r *Repository) DeleteUser(ctx context.Context, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[post.AuthorID]; !exists {
		return simpleblog.ErrUserNotFound
	}

	r.nextPostID++
	post.ID = r.nextPostID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	postCopy := *post
	r.posts[post.ID] = &postCopy
	r.postOrder = append(r.postOrder, post.ID)

	return nil
}

func (r *Repository) GetPostView(ctx context.Context, id int64) (*simpleblog.PostView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, simpleblog.ErrPostNotFound
	}

	author, exists := r.users[post.AuthorID]
	if !exists {
		// Inner-join semantics: an orphaned post matches no rows.
		return nil, simpleblog.ErrPostNotFound
	}

	return postView(post, author), nil
}

func (r *Repository) ListPostViews(ctx context.Context) ([]*simpleblog.PostView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var views []*simpleblog.PostView
	for _, id := range r.postOrder {
		post := r.posts[id]
		author, exists := r.users[post.AuthorID]
		if !exists {
			continue
		}
		views = append(views, postView(post, author))
	}

	return views, nil
}

func (r *Repository) ListPostViewsByAuthor(ctx context.Context, authorID int64) ([]*simpleblog.PostView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var views []*simpleblog.PostView
	for _, id := range r.postOrder {
		post := r.posts[id]
		if post.AuthorID != authorID {
			continue
		}
		author, exists := r.users[post.AuthorID]
		if !exists {
			continue
		}
		views = append(views, postView(post, author))
	}

	return views, nil
}

func (r *Repository) UpdatePost(ctx context.Context, id, authorID int64, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists || post.AuthorID != authorID {
		return simpleblog.ErrNotOwner
	}

	post.Title = title
	post.Body = body

	return nil
}

// Comment operations

func (r *Repository) CreateComment(ctx context.Context, comment *simpleblog.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[comment.AuthorID]; !exists {
		return simpleblog.ErrUserNotFound
	}
	if _, exists := r.posts[comment.PostID]; !exists {
		return simpleblog.ErrPostNotFound
	}

	r.nextCommentID++
	comment.ID = r.nextCommentID
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	commentCopy := *comment
	r.comments[comment.ID] = &commentCopy
	r.commentOrder = append(r.commentOrder, comment.ID)

	return nil
}

func (r *Repository) GetCommentView(ctx context.Context, id int64) (*simpleblog.CommentView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments[id]
	if !exists {
		return nil, simpleblog.ErrCommentNotFound
	}

	author, exists := r.users[comment.AuthorID]
	if !exists {
		return nil, simpleblog.ErrCommentNotFound
	}

	return commentView(comment, author), nil
}

func (r *Repository) ListCommentViewsByPost(ctx context.Context, postID int64) ([]*simpleblog.CommentView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var views []*simpleblog.CommentView
	for _, id := range r.commentOrder {
		comment := r.comments[id]
		if comment.PostID != postID {
			continue
		}
		author, exists := r.users[comment.AuthorID]
		if !exists {
			continue
		}
		views = append(views, commentView(comment, author))
	}

	return views, nil
}

func (r *Repository) ListCommentViewsByAuthor(ctx context.Context, authorID int64) ([]*simpleblog.AuthorCommentView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var views []*simpleblog.AuthorCommentView
	for _, id := range r.commentOrder {
		comment := r.comments[id]
		if comment.AuthorID != authorID {
			continue
		}
		author, exists := r.users[comment.AuthorID]
		if !exists {
			continue
		}
		post, exists := r.posts[comment.PostID]
		if !exists {
			continue
		}
		views = append(views, &simpleblog.AuthorCommentView{
			CommentView: *commentView(comment, author),
			PostTitle:   post.Title,
		})
	}

	return views, nil
}

func (r *Repository) UpdateComment(ctx context.Context, id, authorID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, exists := r.comments[id]
	if !exists || comment.AuthorID != authorID {
		return simpleblog.ErrNotOwner
	}

	comment.Text = text

	return nil
}

func postView(post *simpleblog.Post, author *simpleblog.User) *simpleblog.PostView {
	return &simpleblog.PostView{
		ID:         post.ID,
		Title:      post.Title,
		Body:       post.Body,
		CreatedAt:  post.CreatedAt,
		AuthorName: author.Name,
	}
}

func commentView(comment *simpleblog.Comment, author *simpleblog.User) *simpleblog.CommentView {
	return &simpleblog.CommentView{
		ID:         comment.ID,
		Text:       comment.Text,
		CreatedAt:  comment.CreatedAt,
		AuthorName: author.Name,
	}
}
