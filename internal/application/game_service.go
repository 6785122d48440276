package application

import (
	"context"
	"time"

	"github.com/humdle/humdle-cli/internal/cache"
	"github.com/humdle/humdle-cli/internal/domain"
	"github.com/humdle/humdle-cli/internal/ports"
)

// GameAPI is the slice of the game API the game service needs.
type GameAPI interface {
	RecentGames(ctx context.Context) (domain.RecentGames, error)
	NewGame(ctx context.Context, genreID *domain.GenreID, daily, timed bool) (domain.Game, error)
	GetGame(ctx context.Context, id domain.GameID) (domain.Game, error)
	NewGuess(ctx context.Context, id domain.GameID, trackID *domain.TrackID) (domain.Game, error)
	ResignGame(ctx context.Context, id domain.GameID) (domain.Game, error)
	GetClip(ctx context.Context, id domain.GameID, seekMillis *int64) ([]byte, error)
	ListGenres(ctx context.Context) ([]domain.Genre, error)
}

// GameService is the gameplay façade: it serves games through the
// resource cache, keeps the aliases for "the ongoing game" and "today's
// daily game" coherent with the per-ID entries, and archives finished
// games to local history.
type GameService struct {
	api     GameAPI
	cache   *cache.Cache
	history ports.GameHistory
	clock   ports.Clock

	start *cache.Mutation
	guess *cache.Mutation
}

func NewGameService(gameAPI GameAPI, c *cache.Cache, history ports.GameHistory, clock ports.Clock) *GameService {
	return &GameService{
		api:     gameAPI,
		cache:   c,
		history: history,
		clock:   clock,
		start:   cache.NewMutation(c),
		guess:   cache.NewMutation(c),
	}
}

func (s *GameService) RecentGames(ctx context.Context) (domain.RecentGames, error) {
	return cache.Read(ctx, s.cache, cache.RecentGamesKey(), s.api.RecentGames)
}

func (s *GameService) Game(ctx context.Context, id domain.GameID) (domain.Game, error) {
	return cache.Read(ctx, s.cache, cache.GameKey(id), func(ctx context.Context) (domain.Game, error) {
		return s.api.GetGame(ctx, id)
	})
}

// ActiveGame resolves the ongoing game, if any. The alias entry is
// fetched by chasing the recent-games pointer, so consumers need not
// know the game's ID up front.
func (s *GameService) ActiveGame(ctx context.Context) (domain.Game, error) {
	return cache.Read(ctx, s.cache, cache.ActiveGameKey(), func(ctx context.Context) (domain.Game, error) {
		recent, err := s.RecentGames(ctx)
		if err != nil {
			return domain.Game{}, err
		}
		if recent.Ongoing == nil {
			return domain.Game{}, domain.ErrNoOngoingGame
		}

		return s.api.GetGame(ctx, *recent.Ongoing)
	})
}

// DailyGame resolves today's daily game, started or finished, by
// chasing the recent-games pointer the same way ActiveGame does.
func (s *GameService) DailyGame(ctx context.Context) (domain.Game, error) {
	return cache.Read(ctx, s.cache, cache.DailyGameKey(), func(ctx context.Context) (domain.Game, error) {
		recent, err := s.RecentGames(ctx)
		if err != nil {
			return domain.Game{}, err
		}
		if recent.Daily == nil {
			return domain.Game{}, domain.ErrNoDailyGame
		}

		return s.api.GetGame(ctx, *recent.Daily)
	})
}

// StartGameParams selects what kind of game to start.
type StartGameParams struct {
	// GenreID restricts the track pick; nil selects from any genre.
	GenreID *domain.GenreID
	// Daily plays today's daily game. Daily games cannot be timed or
	// restricted to a genre.
	Daily bool
	Timed bool
}

// StartGame starts a new game and caches it under every key that now
// denotes it: the per-ID entry, the active-game alias, and (for daily
// games) the daily alias. Recent games are invalidated because the
// server's pointers changed.
func (s *GameService) StartGame(ctx context.Context, params StartGameParams) (domain.Game, error) {
	value, err := s.start.Run(ctx, cache.ActiveGameKey(), func(ctx context.Context) (any, error) {
		return s.api.NewGame(ctx, params.GenreID, params.Daily, params.Timed)
	}, cache.MutateOptions{
		PopulateCache: true,
		Aliases:       gameAliases,
		Invalidate:    []cache.Key{cache.RecentGamesKey()},
	})
	if err != nil {
		return domain.Game{}, err
	}

	return value.(domain.Game), nil
}

func (s *GameService) StartInFlight() bool {
	return s.start.IsLoading()
}

// SubmitGuess submits a guess, or skips the slot when trackID is nil.
// The server's updated game replaces every cached view of it at once.
func (s *GameService) SubmitGuess(ctx context.Context, game domain.Game, trackID *domain.TrackID) (domain.Game, error) {
	if game.IsOver() {
		return domain.Game{}, domain.ErrGameOver
	}

	return s.finishMutation(ctx, game, func(ctx context.Context) (any, error) {
		return s.api.NewGuess(ctx, game.ID, trackID)
	})
}

// Resign forfeits the game, ending it as a loss.
func (s *GameService) Resign(ctx context.Context, game domain.Game) (domain.Game, error) {
	if game.IsOver() {
		return domain.Game{}, domain.ErrGameOver
	}

	return s.finishMutation(ctx, game, func(ctx context.Context) (any, error) {
		return s.api.ResignGame(ctx, game.ID)
	})
}

func (s *GameService) GuessInFlight() bool {
	return s.guess.IsLoading()
}

func (s *GameService) finishMutation(ctx context.Context, game domain.Game, fn cache.MutationFunc) (domain.Game, error) {
	value, err := s.guess.Run(ctx, cache.GameKey(game.ID), fn, cache.MutateOptions{
		PopulateCache: true,
		Aliases:       gameAliases,
		Invalidate:    []cache.Key{cache.RecentGamesKey()},
	})
	if err != nil {
		return domain.Game{}, err
	}

	updated := value.(domain.Game)
	if updated.IsOver() {
		s.archive(ctx, updated)
	}

	return updated, nil
}

// archive writes the finished game to local history. Failures are
// swallowed: the guess already succeeded server-side and must not be
// reported as failed over a local bookkeeping problem.
func (s *GameService) archive(ctx context.Context, game domain.Game) {
	if s.history == nil {
		return
	}
	_ = s.history.Append(ctx, recordFromGame(game, s.clock.Now()))
}

func (s *GameService) History(ctx context.Context) ([]domain.GameRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx)
}

// Clip fetches the unlocked portion of the game's track, optionally
// served from a seek offset. The cache key embeds the unlocked-segment
// count, so a guess that unlocks a new segment routes the next fetch
// past the now-obsolete entry.
func (s *GameService) Clip(ctx context.Context, game domain.Game, seekMillis *int64) ([]byte, error) {
	key := cache.ClipKey(game.ID, game.UnlockedSegments(), seekMillis)
	return cache.Read(ctx, s.cache, key, func(ctx context.Context) ([]byte, error) {
		return s.api.GetClip(ctx, game.ID, seekMillis)
	})
}

func (s *GameService) Genres(ctx context.Context) ([]domain.Genre, error) {
	return cache.Read(ctx, s.cache, cache.GenresKey(), s.api.ListGenres)
}

// gameAliases lists every key that denotes the mutated game: its per-ID
// entry, the active-game alias, and the daily alias when it is the daily
// game. The active alias keeps the terminal game too, so a finished game
// stays on screen; the invalidated recent-games entry catches the alias
// up on the next read.
func gameAliases(value any) []cache.Key {
	game, ok := value.(domain.Game)
	if !ok {
		return nil
	}

	keys := []cache.Key{cache.GameKey(game.ID), cache.ActiveGameKey()}
	if game.IsDaily {
		keys = append(keys, cache.DailyGameKey())
	}

	return keys
}

func recordFromGame(game domain.Game, finishedAt time.Time) domain.GameRecord {
	record := domain.GameRecord{
		ID:         game.ID,
		StartedAt:  game.StartedAt,
		FinishedAt: finishedAt,
		Won:        game.Won != nil && *game.Won,
		Guesses:    len(game.Guesses),
		IsDaily:    game.IsDaily,
		IsTimed:    game.IsTimed,
	}
	if game.Genre != nil {
		record.Genre = game.Genre.Name
	}
	if game.Track != nil {
		record.TrackTitle = game.Track.Title
		record.ArtistName = game.Track.ArtistName
	}

	return record
}
