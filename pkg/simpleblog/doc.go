// Package simpleblog provides the content-management core of a blogging
// backend: posts and comments authored by users, author-enriched read views,
// and ownership-guarded mutations.
//
// It exposes a single Service interface that validates input, applies the
// ownership rule (an author may edit only their own content) and delegates
// persistence to a Repository. Repository implementations (memory, Postgres)
// live under subpackages, as does an optional Redis-backed view cache.
//
// Ownership Rule
//
// Updates are authorized by the store itself: the mutating statement carries
// "WHERE id = ? AND author_id = ?", so the authorization decision is atomic
// with respect to concurrent edits of the same row. A zero-row result is
// reported as ErrNotOwner and deliberately does not reveal whether the row
// exists at all.
package simpleblog
