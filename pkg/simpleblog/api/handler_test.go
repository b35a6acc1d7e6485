package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/identity"
	"github.com/tendant/simple-blog/pkg/simpleblog/repo/memory"
)

// setupHandlerTest creates a Handler over the in-memory repository, acting as
// both the content service and (via minted tokens) the auth collaborator.
func setupHandlerTest(t *testing.T) (chi.Router, *memory.Repository, func(authorID int64) string) {
	t.Helper()
	repo := memory.New()

	svc, err := simpleblog.New(simpleblog.WithRepository(repo))
	require.NoError(t, err)

	tokenAuth := identity.NewTokenAuth("test-secret")
	handler := NewHandler(svc, tokenAuth)

	mintToken := func(authorID int64) string {
		token, err := identity.NewToken(tokenAuth, authorID, time.Hour)
		require.NoError(t, err)
		return token
	}

	return handler.Routes(), repo, mintToken
}

func seedAuthor(t *testing.T, repo *memory.Repository, name string) int64 {
	t.Helper()
	user := &simpleblog.User{Name: name}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user.ID
}

func doJSON(t *testing.T, router chi.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePost(t *testing.T) {
	router, repo, mintToken := setupHandlerTest(t)
	ana := seedAuthor(t, repo, "Ana")

	t.Run("success", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/createPost", mintToken(ana),
			map[string]string{"titulo": "T", "conteudo": "B"})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp CreatePostResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "post created", resp.Message)
		assert.NotZero(t, resp.PostID)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/createPost", mintToken(ana),
			map[string]string{"titulo": "T"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "conteudo")
	})

	t.Run("unknown author from token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/createPost", mintToken(9999),
			map[string]string{"titulo": "T", "conteudo": "B"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	})

	t.Run("no token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/createPost", "",
			map[string]string{"titulo": "T", "conteudo": "B"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("body-supplied author id is ignored", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/createPost", mintToken(ana),
			map[string]interface{}{"titulo": "mine", "conteudo": "B", "autor_id": 9999})

		require.Equal(t, http.StatusOK, w.Code)

		var resp CreatePostResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		views, err := repo.ListPostViewsByAuthor(context.Background(), ana)
		require.NoError(t, err)
		found := false
		for _, v := range views {
			if v.ID == resp.PostID {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestPostScenario(t *testing.T) {
	router, repo, mintToken := setupHandlerTest(t)
	ana := seedAuthor(t, repo, "Ana")

	// create User "Ana"; createPost("T","B") as Ana
	w := doJSON(t, router, http.MethodPost, "/createPost", mintToken(ana),
		map[string]string{"titulo": "T", "conteudo": "B"})
	require.Equal(t, http.StatusOK, w.Code)

	var created CreatePostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	postID := created.PostID

	// getPostById returns the wire-exact author-enriched view
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/posts/%d", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, float64(postID), view["post_id"])
	assert.Equal(t, "T", view["post_titulo"])
	assert.Equal(t, "B", view["post_conteudo"])
	assert.Equal(t, "Ana", view["autor_nome"])
	assert.Contains(t, view, "post_data_criacao")

	// a different author gets 403 and the post is unchanged
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/posts/update/%d", postID), mintToken(ana+1),
		map[string]string{"titulo": "T2", "conteudo": "B2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/posts/%d", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "T", view["post_titulo"])

	// the owner succeeds
	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/posts/update/%d", postID), mintToken(ana),
		map[string]string{"titulo": "T2", "conteudo": "B2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"post updated"}`, w.Body.String())

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/posts/%d", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "T2", view["post_titulo"])
	assert.Equal(t, "B2", view["post_conteudo"])
}

func TestCommentScenario(t *testing.T) {
	router, repo, mintToken := setupHandlerTest(t)
	ana := seedAuthor(t, repo, "Ana")

	w := doJSON(t, router, http.MethodPost, "/createPost", mintToken(ana),
		map[string]string{"titulo": "T", "conteudo": "B"})
	require.Equal(t, http.StatusOK, w.Code)
	var created CreatePostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// createComment("hi") on the post
	w = doJSON(t, router, http.MethodPost, "/createComment", mintToken(ana),
		map[string]interface{}{"texto": "hi", "post_id": created.PostID})
	require.Equal(t, http.StatusOK, w.Code)

	var commentResp CreateCommentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commentResp))
	assert.Equal(t, "comment created", commentResp.Message)
	require.NotZero(t, commentResp.CommentID)

	// getCommentsForPost returns a one-element author-enriched sequence
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/comments/post/%d", created.PostID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, float64(commentResp.CommentID), views[0]["comentario_id"])
	assert.Equal(t, "hi", views[0]["comentario_texto"])
	assert.Equal(t, "Ana", views[0]["autor_nome"])
}

func TestGetPost(t *testing.T) {
	router, repo, _ := setupHandlerTest(t)
	ana := seedAuthor(t, repo, "Ana")

	t.Run("not found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/posts/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"post not found"}`, w.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/posts/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty listings render as empty arrays", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/posts", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/posts/user/%d", ana), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = doJSON(t, router, http.MethodGet, "/comments/post/12345", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestCommentEndpoints(t *testing.T) {
	router, repo, mintToken := setupHandlerTest(t)
	ana := seedAuthor(t, repo, "Ana")
	bob := seedAuthor(t, repo, "Bob")

	w := doJSON(t, router, http.MethodPost, "/createPost", mintToken(ana),
		map[string]string{"titulo": "T", "conteudo": "B"})
	require.Equal(t, http.StatusOK, w.Code)
	var created CreatePostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/createComment", mintToken(bob),
		map[string]interface{}{"texto": "bob says", "post_id": created.PostID})
	require.Equal(t, http.StatusOK, w.Code)
	var commentResp CreateCommentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &commentResp))

	t.Run("get comment by id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/comments/%d", commentResp.CommentID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "bob says", view["comentario_texto"])
		assert.Equal(t, "Bob", view["autor_nome"])
	})

	t.Run("get comment not found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/comments/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("author responses include post title", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/comments/%d/responses", bob), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var views []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "bob says", views[0]["comentario_texto"])
		assert.Equal(t, "T", views[0]["post_titulo"])
	})

	t.Run("create comment missing fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/createComment", mintToken(bob),
			map[string]interface{}{"texto": "no post"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("create comment dangling post id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/createComment", mintToken(bob),
			map[string]interface{}{"texto": "hi", "post_id": 9999})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("update comment ownership", func(t *testing.T) {
		path := fmt.Sprintf("/comments/post/update/%d", commentResp.CommentID)

		w := doJSON(t, router, http.MethodPut, path, mintToken(ana),
			map[string]string{"texto": "hijack"})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, router, http.MethodPut, path, mintToken(bob),
			map[string]string{"texto": "edited"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"comment updated"}`, w.Body.String())
	})

	t.Run("update comment missing text", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/comments/post/update/%d", commentResp.CommentID),
			mintToken(bob), map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update comment without token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/comments/post/update/%d", commentResp.CommentID),
			"", map[string]string{"texto": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListPosts(t *testing.T) {
	router, repo, mintToken := setupHandlerTest(t)
	ana := seedAuthor(t, repo, "Ana")
	bob := seedAuthor(t, repo, "Bob")

	for i, tok := range []string{mintToken(ana), mintToken(bob)} {
		w := doJSON(t, router, http.MethodPost, "/createPost", tok,
			map[string]string{"titulo": fmt.Sprintf("post %d", i), "conteudo": "b"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("all posts in insertion order", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/posts", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var views []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 2)
		assert.Equal(t, "post 0", views[0]["post_titulo"])
		assert.Equal(t, "post 1", views[1]["post_titulo"])
	})

	t.Run("by author", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/posts/user/%d", bob), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var views []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "Bob", views[0]["autor_nome"])
	})
}
