package toml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humdle/humdle-cli/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()

	historyPath := filepath.Join(t.TempDir(), "history.toml")
	config := viper.New()
	config.Set("history.path", historyPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)

	return repo, historyPath
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	first := domain.GameRecord{
		ID:         7,
		StartedAt:  started,
		FinishedAt: started.Add(4 * time.Minute),
		Won:        true,
		Guesses:    3,
		IsDaily:    true,
		TrackTitle: "One More Time",
		ArtistName: "Daft Punk",
	}
	second := domain.GameRecord{
		ID:         8,
		StartedAt:  started.Add(time.Hour),
		FinishedAt: started.Add(time.Hour + 2*time.Minute),
		Won:        false,
		Guesses:    6,
		Genre:      "Rock",
		TrackTitle: "Creep",
		ArtistName: "Radiohead",
	}

	require.NoError(t, repo.Append(context.Background(), first))
	require.NoError(t, repo.Append(context.Background(), second))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.GameRecord{first, second}, records)
}

func TestRepositoryAppendReplacesSameGame(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	record := domain.GameRecord{ID: 7, Won: false, Guesses: 5}
	require.NoError(t, repo.Append(context.Background(), record))

	record.Won = true
	record.Guesses = 6
	require.NoError(t, repo.Append(context.Background(), record))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Won)
}

func TestRepositoryListMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRepositoryRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	repo, historyPath := newTestRepository(t)
	require.NoError(t, os.WriteFile(historyPath, []byte("version = 99\n"), 0o600))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported history schema version")
}

func TestRepositoryWritesRestrictivePermissions(t *testing.T) {
	t.Parallel()

	repo, historyPath := newTestRepository(t)
	require.NoError(t, repo.Append(context.Background(), domain.GameRecord{ID: 1}))

	info, err := os.Stat(historyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "version = 1"))
}
