package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// DBTX is an interface that allows us to use either a connection pool or a
// transaction. The handle is injected; the repository never owns a global
// connection.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleblog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simpleblog.User) error {
	query := `
		INSERT INTO users (name, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	return r.db.QueryRow(ctx, query, user.Name, user.CreatedAt).Scan(&user.ID)
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	query := `
		INSERT INTO posts (title, body, author_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRow(
		ctx,
		query,
		post.Title,
		post.Body,
		post.AuthorID,
		post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return simpleblog.ErrUserNotFound
		}
		return err
	}

	return nil
}

func (r *Repository) GetPostView(ctx context.Context, id int64) (*simpleblog.PostView, error) {
	query := `
		SELECT p.id, p.title, p.body, p.created_at, u.name
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1
	`

	view := &simpleblog.PostView{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID,
		&view.Title,
		&view.Body,
		&view.CreatedAt,
		&view.AuthorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrPostNotFound
		}
		return nil, err
	}

	return view, nil
}

func (r *Repository) ListPostViews(ctx context.Context) ([]*simpleblog.PostView, error) {
	query := `
		SELECT p.id, p.title, p.body, p.created_at, u.name
		FROM posts p
		JOIN users u ON p.author_id = u.id
		ORDER BY p.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostViews(rows)
}

func (r *Repository) ListPostViewsByAuthor(ctx context.Context, authorID int64) ([]*simpleblog.PostView, error) {
	query := `
		SELECT p.id, p.title, p.body, p.created_at, u.name
		FROM posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.author_id = $1
		ORDER BY p.id
	`

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPostViews(rows)
}

// UpdatePost applies the ownership-guarded update. The author id is part of
// the WHERE predicate, so authorization is atomic with the mutation and a
// concurrent edit race can never lose an update silently.
func (r *Repository) UpdatePost(ctx context.Context, id, authorID int64, title, body string) error {
	query := `
		UPDATE posts
		SET title = $1, body = $2
		WHERE id = $3 AND author_id = $4
	`

	result, err := r.db.Exec(ctx, query, title, body, id, authorID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return simpleblog.ErrNotOwner
	}

	return nil
}

// Comment operations

func (r *Repository) CreateComment(ctx context.Context, comment *simpleblog.Comment) error {
	query := `
		INSERT INTO comments (text, author_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRow(
		ctx,
		query,
		comment.Text,
		comment.AuthorID,
		comment.PostID,
		comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			if pgErr.ConstraintName == "comments_post_id_fkey" {
				return simpleblog.ErrPostNotFound
			}
			return simpleblog.ErrUserNotFound
		}
		return err
	}

	return nil
}

func (r *Repository) GetCommentView(ctx context.Context, id int64) (*simpleblog.CommentView, error) {
	query := `
		SELECT c.id, c.text, c.created_at, u.name
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.id = $1
	`

	view := &simpleblog.CommentView{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID,
		&view.Text,
		&view.CreatedAt,
		&view.AuthorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrCommentNotFound
		}
		return nil, err
	}

	return view, nil
}

func (r *Repository) ListCommentViewsByPost(ctx context.Context, postID int64) ([]*simpleblog.CommentView, error) {
	query := `
		SELECT c.id, c.text, c.created_at, u.name
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.id
	`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*simpleblog.CommentView
	for rows.Next() {
		view := &simpleblog.CommentView{}
		err := rows.Scan(&view.ID, &view.Text, &view.CreatedAt, &view.AuthorName)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, rows.Err()
}

func (r *Repository) ListCommentViewsByAuthor(ctx context.Context, authorID int64) ([]*simpleblog.AuthorCommentView, error) {
	query := `
		SELECT c.id, c.text, c.created_at, u.name, p.title
		FROM comments c
		JOIN users u ON c.author_id = u.id
		JOIN posts p ON c.post_id = p.id
		WHERE c.author_id = $1
		ORDER BY c.id
	`

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*simpleblog.AuthorCommentView
	for rows.Next() {
		view := &simpleblog.AuthorCommentView{}
		err := rows.Scan(&view.ID, &view.Text, &view.CreatedAt, &view.AuthorName, &view.PostTitle)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, rows.Err()
}

func (r *Repository) UpdateComment(ctx context.Context, id, authorID int64, text string) error {
	query := `
		UPDATE comments
		SET text = $1
		WHERE id = $2 AND author_id = $3
	`

	result, err := r.db.Exec(ctx, query, text, id, authorID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return simpleblog.ErrNotOwner
	}

	return nil
}

func scanPostViews(rows pgx.Rows) ([]*simpleblog.PostView, error) {
	var views []*simpleblog.PostView
	for rows.Next() {
		view := &simpleblog.PostView{}
		err := rows.Scan(&view.ID, &view.Title, &view.Body, &view.CreatedAt, &view.AuthorName)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, rows.Err()
}
