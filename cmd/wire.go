package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/humdle/humdle-cli/internal/adapters/api"
	chainstore "github.com/humdle/humdle-cli/internal/adapters/credentials/chain"
	historyrepo "github.com/humdle/humdle-cli/internal/adapters/history/toml"
	"github.com/humdle/humdle-cli/internal/application"
	"github.com/humdle/humdle-cli/internal/cache"
	"github.com/humdle/humdle-cli/internal/debounce"
	"github.com/humdle/humdle-cli/internal/ports"
)

const passStorePrefix = "humdle"

type app struct {
	client   *api.Client
	sessions *application.SessionService
	accounts *application.AccountService
	games    *application.GameService
	search   *application.SearchService
	cache    *cache.Cache
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	credentialStore, err := chainstore.NewPassFirstWithFileFallback(
		passStorePrefix,
		filepath.Join(homeDir, ".humdle", "credentials"),
	)
	if err != nil {
		return nil, fmt.Errorf("wire credential store chain: %w", err)
	}

	history, err := historyrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire game history: %w", err)
	}

	client := api.NewClient(envOrDefault("HUMDLE_API_BASE_URL", "http://localhost:8000"))
	sessions := application.NewSessionService(credentialStore, client)
	// The client needs the session service for bearer tokens, and the
	// session service logs in through the client's unauthenticated
	// endpoints; the source is attached after construction to close the
	// loop.
	client.UseSessionSource(sessions)

	resourceCache := cache.New()

	return &app{
		client:   client,
		sessions: sessions,
		accounts: application.NewAccountService(client, sessions, resourceCache),
		games:    application.NewGameService(client, resourceCache, history, ports.SystemClock{}),
		search:   application.NewSearchService(client, resourceCache, debounce.NewScheduler()),
		cache:    resourceCache,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
