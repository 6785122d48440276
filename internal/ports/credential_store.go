package ports

import "context"

// CredentialStore persists opaque client secrets. Absence of a key is
// reported as domain.ErrCredentialNotFound and is a meaningful state,
// not a failure. Stores are last-write-wins; a lost race between
// processes surfaces later as a recoverable authentication failure.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
