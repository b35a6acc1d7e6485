package simpleblog

// Request DTOs
//
// AuthorID on every mutating request is the verified identity of the caller,
// injected by the transport layer from an authenticated token. It is never a
// client-editable body field.

// CreatePostRequest contains parameters for creating a post
type CreatePostRequest struct {
	Title    string
	Body     string
	AuthorID int64
}

// UpdatePostRequest contains parameters for an ownership-guarded post update
type UpdatePostRequest struct {
	ID       int64
	Title    string
	Body     string
	AuthorID int64
}

// CreateCommentRequest contains parameters for creating a comment on a post
type CreateCommentRequest struct {
	Text     string
	PostID   int64
	AuthorID int64
}

// UpdateCommentRequest contains parameters for an ownership-guarded comment update
type UpdateCommentRequest struct {
	ID       int64
	Text     string
	AuthorID int64
}
