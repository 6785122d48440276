package domain

import "time"

// Account is the server's view of the current anonymous account. The client
// only ever holds a cached, possibly stale, copy.
type Account struct {
	ID          int64
	DisplayName string
	CreatedAt   time.Time
}
