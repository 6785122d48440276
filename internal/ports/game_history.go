package ports

import (
	"context"

	"github.com/humdle/humdle-cli/internal/domain"
)

// GameHistory archives finished games locally so they can be listed
// without a network round trip. Append-only; never consulted by the
// resource cache.
type GameHistory interface {
	Append(ctx context.Context, record domain.GameRecord) error
	List(ctx context.Context) ([]domain.GameRecord, error)
}
