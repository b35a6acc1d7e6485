// Package identity is the verified-identity boundary of the content core.
//
// The author id used by ownership-guarded mutations travels inside a signed
// token minted by the authentication service, never inside a client-editable
// request field. Handlers read it back from the request context after
// jwtauth's Verifier/Authenticator middleware has validated the token.
package identity

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

// authorClaim carries the author id as a string so the value survives JSON
// round-trips without float64 truncation.
const authorClaim = "author_id"

// ErrNoIdentity indicates the request context carries no verified author id.
var ErrNoIdentity = errors.New("no verified identity in context")

// NewTokenAuth builds the HS256 token authority shared by the server and the
// (external) authentication service.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// NewToken mints a signed token asserting the given author id. The
// authentication service does this at login; tests use it to act as that
// collaborator. A non-positive ttl produces a token without expiry.
func NewToken(ja *jwtauth.JWTAuth, authorID int64, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		authorClaim: strconv.FormatInt(authorID, 10),
		"jti":       uuid.NewString(),
	}
	jwtauth.SetIssuedNow(claims)
	if ttl > 0 {
		jwtauth.SetExpiryIn(claims, ttl)
	}

	_, tokenString, err := ja.Encode(claims)
	return tokenString, err
}

// AuthorID extracts the verified author id from a request context populated
// by jwtauth.Verifier.
func AuthorID(ctx context.Context) (int64, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return 0, err
	}

	raw, ok := claims[authorClaim].(string)
	if !ok {
		return 0, ErrNoIdentity
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNoIdentity
	}

	return id, nil
}
