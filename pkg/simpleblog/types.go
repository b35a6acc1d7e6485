package simpleblog

import (
	"time"
)

// User is an author of posts and comments. Credential fields belong to the
// authentication service; the content core only ever joins against the name.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a top-level piece of content. AuthorID is set at creation and never
// reassigned.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a response to a post. AuthorID and PostID are set at creation
// and never reassigned.
type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	AuthorID  int64     `json:"author_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is the author-enriched projection of a post: the post row joined
// with its author's display name. The JSON aliases are the platform's wire
// contract (the field names clients already consume).
type PostView struct {
	ID         int64     `json:"post_id"`
	Title      string    `json:"post_titulo"`
	Body       string    `json:"post_conteudo"`
	CreatedAt  time.Time `json:"post_data_criacao"`
	AuthorName string    `json:"autor_nome"`
}

// CommentView is the author-enriched projection of a comment.
type CommentView struct {
	ID         int64     `json:"comentario_id"`
	Text       string    `json:"comentario_texto"`
	CreatedAt  time.Time `json:"comentario_data_criacao"`
	AuthorName string    `json:"autor_nome"`
}

// AuthorCommentView is a comment listed from the author's side, additionally
// enriched with the title of the parent post.
type AuthorCommentView struct {
	CommentView
	PostTitle string `json:"post_titulo"`
}
