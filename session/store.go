// Package session keeps per-browser key/value state behind a cookie.
//
// Values are opaque strings. A Store persists them under a random session id
// and the Manager's gin middleware loads and saves them around each request.
package session

import (
	"context"
	"maps"
	"time"
)

// Well-known session keys.
const (
	KeyOAuthToken         = "oauth_token"
	KeyOAuthTokenSecret   = "oauth_token_secret"
	KeyRequestToken       = "request_token"
	KeyRequestTokenSecret = "request_token_secret"
	KeyUserAttributes     = "user_attributes"
	KeyFlash              = "flash"
)

// Store persists session values by id.
type Store interface {
	// Load returns the values of id, or nil when the session is unknown or expired.
	Load(ctx context.Context, id string) (map[string]string, error)
	// Save replaces the values of id and extends its lifetime to ttl.
	Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error
	// Delete removes id. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error
}

func cloneValues(v map[string]string) map[string]string {
	if v == nil {
		return map[string]string{}
	}
	return maps.Clone(v)
}
