package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/identity"
)

// Handler handles HTTP requests for posts and comments
type Handler struct {
	service   simpleblog.Service
	tokenAuth *jwtauth.JWTAuth
}

// NewHandler creates a new content handler
func NewHandler(service simpleblog.Service, tokenAuth *jwtauth.JWTAuth) *Handler {
	return &Handler{
		service:   service,
		tokenAuth: tokenAuth,
	}
}

// Routes returns the routes for posts and comments. Reads are public;
// mutations require a verified author identity and take the author id from
// the token, never from the request body.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{id}", h.GetPost)
	r.Get("/posts/user/{id}", h.ListPostsByAuthor)
	r.Get("/comments/post/{id}", h.ListPostComments)
	r.Get("/comments/{id}", h.GetComment)
	r.Get("/comments/{userId}/responses", h.ListAuthorComments)

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(h.tokenAuth))
		r.Use(jwtauth.Authenticator)

		r.Post("/createPost", h.CreatePost)
		r.Put("/posts/update/{id}", h.UpdatePost)
		r.Post("/createComment", h.CreateComment)
		r.Put("/comments/post/update/{id}", h.UpdateComment)
	})

	return r
}

// CreatePostRequest is the request body for creating a post
type CreatePostRequest struct {
	Title string `json:"titulo"`
	Body  string `json:"conteudo"`
}

// UpdatePostRequest is the request body for updating a post
type UpdatePostRequest struct {
	Title string `json:"titulo"`
	Body  string `json:"conteudo"`
}

// CreateCommentRequest is the request body for creating a comment
type CreateCommentRequest struct {
	Text   string `json:"texto"`
	PostID int64  `json:"post_id"`
}

// UpdateCommentRequest is the request body for updating a comment
type UpdateCommentRequest struct {
	Text string `json:"texto"`
}

// CreatePostResponse is the response body for a created post
type CreatePostResponse struct {
	Message string `json:"message"`
	PostID  int64  `json:"postId"`
}

// CreateCommentResponse is the response body for a created comment
type CreateCommentResponse struct {
	Message   string `json:"message"`
	CommentID int64  `json:"commentId"`
}

// MessageResponse is the response body for a confirmed update
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error response body
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreatePost creates a new post authored by the verified caller
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	authorID, err := identity.AuthorID(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.CreatePost(r.Context(), simpleblog.CreatePostRequest{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: authorID,
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, CreatePostResponse{Message: "post created", PostID: post.ID})
}

// GetPost retrieves a single author-enriched post by id
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid post id")
		return
	}

	view, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, view)
}

// ListPosts lists all author-enriched posts in insertion order
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListPosts(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	if views == nil {
		views = []*simpleblog.PostView{}
	}
	render.JSON(w, r, views)
}

// ListPostsByAuthor lists the posts of one author; an unknown author yields
// an empty list
func (h *Handler) ListPostsByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	views, err := h.service.ListPostsByAuthor(r.Context(), authorID)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	if views == nil {
		views = []*simpleblog.PostView{}
	}
	render.JSON(w, r, views)
}

// UpdatePost updates a post's text fields, guarded by ownership
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	authorID, err := identity.AuthorID(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid post id")
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.service.UpdatePost(r.Context(), simpleblog.UpdatePostRequest{
		ID:       id,
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: authorID,
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, MessageResponse{Message: "post updated"})
}

// CreateComment creates a new comment authored by the verified caller
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := identity.AuthorID(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.service.CreateComment(r.Context(), simpleblog.CreateCommentRequest{
		Text:     req.Text,
		PostID:   req.PostID,
		AuthorID: authorID,
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, CreateCommentResponse{Message: "comment created", CommentID: comment.ID})
}

// GetComment retrieves a single author-enriched comment by id
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}

	view, err := h.service.GetComment(r.Context(), id)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, view)
}

// ListPostComments lists the comments on a post; an unknown post yields an
// empty list, not a 404
func (h *Handler) ListPostComments(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid post id")
		return
	}

	views, err := h.service.ListPostComments(r.Context(), postID)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	if views == nil {
		views = []*simpleblog.CommentView{}
	}
	render.JSON(w, r, views)
}

// ListAuthorComments lists one author's comments across all posts, enriched
// with the parent post title
func (h *Handler) ListAuthorComments(w http.ResponseWriter, r *http.Request) {
	authorID, err := parseID(r, "userId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	views, err := h.service.ListAuthorComments(r.Context(), authorID)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	if views == nil {
		views = []*simpleblog.AuthorCommentView{}
	}
	render.JSON(w, r, views)
}

// UpdateComment updates a comment's text, guarded by ownership
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := identity.AuthorID(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.service.UpdateComment(r.Context(), simpleblog.UpdateCommentRequest{
		ID:       id,
		Text:     req.Text,
		AuthorID: authorID,
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, MessageResponse{Message: "comment updated"})
}

// renderServiceError maps service errors onto the wire taxonomy. Store
// failures are logged with their cause and surfaced as a generic 500.
func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *simpleblog.ValidationError
	var storeErr *simpleblog.StoreError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &storeErr):
		// Store failures stay generic even when they wrap a sentinel; only
		// lookups report not-found.
		slog.Error("store operation failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	case errors.Is(err, simpleblog.ErrPostNotFound):
		writeError(w, r, http.StatusNotFound, "post not found")
	case errors.Is(err, simpleblog.ErrCommentNotFound):
		writeError(w, r, http.StatusNotFound, "comment not found")
	case errors.Is(err, simpleblog.ErrNotOwner):
		writeError(w, r, http.StatusForbidden, "not authorized to edit this content, or it does not exist")
	default:
		slog.Error("unhandled service error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

func parseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
