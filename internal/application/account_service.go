package application

import (
	"context"

	"github.com/humdle/humdle-cli/internal/cache"
	"github.com/humdle/humdle-cli/internal/domain"
)

// AccountAPI is the slice of the game API the account service needs.
type AccountAPI interface {
	GetAccount(ctx context.Context) (domain.Account, error)
	UpdateAccount(ctx context.Context, displayName *string) (domain.Account, error)
}

// AccountService reads and mutates the authenticated account through the
// resource cache, so every consumer observes renames immediately.
type AccountService struct {
	api      AccountAPI
	sessions *SessionService
	cache    *cache.Cache
	rename   *cache.Mutation
}

func NewAccountService(accountAPI AccountAPI, sessions *SessionService, c *cache.Cache) *AccountService {
	return &AccountService{
		api:      accountAPI,
		sessions: sessions,
		cache:    c,
		rename:   cache.NewMutation(c),
	}
}

func (s *AccountService) Account(ctx context.Context) (domain.Account, error) {
	return cache.Read(ctx, s.cache, cache.AccountKey(), s.api.GetAccount)
}

// Rename updates the display name. The server's response becomes the
// cached account, so no follow-up fetch is needed.
func (s *AccountService) Rename(ctx context.Context, displayName string) (domain.Account, error) {
	value, err := s.rename.Run(ctx, cache.AccountKey(), func(ctx context.Context) (any, error) {
		return s.api.UpdateAccount(ctx, &displayName)
	}, cache.MutateOptions{PopulateCache: true})
	if err != nil {
		return domain.Account{}, err
	}

	return value.(domain.Account), nil
}

func (s *AccountService) RenameInFlight() bool {
	return s.rename.IsLoading()
}

// Delete removes the account server-side, discards both credentials and
// drops the cached account. Recent games are invalidated too since they
// belonged to the deleted identity.
func (s *AccountService) Delete(ctx context.Context) error {
	if err := s.sessions.DeleteAccount(ctx); err != nil {
		return err
	}

	s.cache.Invalidate(cache.AccountKey())
	s.cache.Invalidate(cache.RecentGamesKey())

	return nil
}
