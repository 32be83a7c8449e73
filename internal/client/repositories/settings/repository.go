// Package settings is the local key-value store behind the client session.
//
// Values are plain strings keyed by name. A missing key is not an error:
// Get reports it through the ok flag so callers can treat "never set" and
// "cleared" the same way.
package settings

import "context"

// Well-known keys.
const (
	KeyToken = "token"
	KeyHost  = "host"
	KeyEmail = "email"
)

type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
}
