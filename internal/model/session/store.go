package session

import "context"

// Store persists sessions in an external key-value cache.
type Store interface {
	// Get retrieves the session for the identity.
	// Returns (nil, nil) when no session is stored.
	Get(ctx context.Context, id, languageCode string) (*Session, error)

	// Set stores the session, overwriting any prior value for its
	// identity (last writer wins, no concurrency guard).
	Set(ctx context.Context, sess *Session) error

	// Delete removes the stored session. Deleting a missing session
	// is not an error.
	Delete(ctx context.Context, id, languageCode string) error
}

// Key derives the cache key for one (session id, language code) pair.
// The prefix keeps webhook sessions from colliding with other features
// sharing the same cache. The format is an implementation detail,
// stable only within one deployment.
func Key(id, languageCode string) string {
	return "webhook:sess:" + id + ":" + languageCode
}
